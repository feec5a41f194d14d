package fileio

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"kp-summary/internal/errors"
	"kp-summary/internal/reconcile/model"
)

// Workbook — титульный лист (как есть) и листы поставщиков.
type Workbook struct {
	Cover   [][]string
	Sources []model.Source
}

// SupplierIDs — имена поставщиков в порядке листов.
func (w *Workbook) SupplierIDs() []string {
	out := make([]string, len(w.Sources))
	for i, s := range w.Sources {
		out[i] = s.ID
	}
	return out
}

// ReadWorkbook — выберет парсер по расширению.
// .xlsx/.xls: первый лист — титульный, остальные — поставщики.
// .csv: один поставщик, имя — имя файла.
func ReadWorkbook(r io.Reader, filename string) (*Workbook, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	var (
		wb  *Workbook
		err error
	)
	switch ext {
	case ".xlsx", ".xlsm":
		wb, err = readXLSX(r)
	case ".xls":
		wb, err = readXLS(r)
	case ".csv":
		wb, err = readCSV(r, strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	default:
		return nil, fmt.Errorf("%s: %w", filename, errors.ErrUnsupportedFile)
	}
	if err != nil {
		if errors.IsInvalidInput(err) {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		return nil, errors.NewValidationError(filename, "cannot read workbook", err)
	}
	if len(wb.Sources) == 0 {
		return nil, fmt.Errorf("%s: %w", filename, errors.ErrNoSuppliers)
	}
	return wb, nil
}

// rowFlags — признаки оформления строки: заливка и отступ наименования.
type rowFlags func(row int) (highlighted, indented bool)

// toSource — лист поставщика в модель: строка 1 — шапка, данные со строки 2.
// Наименование с ведущими пробелами считается строкой с отступом.
func toSource(id string, rows [][]string, flags rowFlags) model.Source {
	src := model.Source{ID: id}
	if len(rows) == 0 {
		return src
	}
	cols := resolveColumns(rows[0])

	for r := 1; r < len(rows); r++ {
		rec := rows[r]
		if looksLikeHeader(rec) {
			continue
		}
		rawName := cell(rec, cols.Name)
		row := model.SourceRow{
			Name:         strings.TrimSpace(rawName),
			RequestedQty: strings.TrimSpace(cell(rec, cols.RequestedQty)),
			OfferedQty:   strings.TrimSpace(cell(rec, cols.OfferedQty)),
			UnitPrice:    strings.TrimSpace(cell(rec, cols.UnitPrice)),
			LeadTime:     strings.TrimSpace(cell(rec, cols.LeadTime)),
			Comment:      strings.TrimSpace(cell(rec, cols.Comment)),
		}
		if row.Name == "" {
			continue
		}
		if flags != nil {
			row.Highlighted, row.Indented = flags(r)
		}
		if leadingSpace(rawName) {
			row.Indented = true
		}
		src.Rows = append(src.Rows, row)
	}
	return src
}

func cell(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return rec[idx]
}

func leadingSpace(s string) bool {
	s = normalizeCell(s)
	return s != "" && strings.TrimSpace(s) != "" && (s[0] == ' ' || s[0] == '\t')
}

// normalizeCell: NBSP → пробел, хвостовые пробелы и переводы строк убираем,
// ведущие оставляем (по ним определяется отступ).
func normalizeCell(s string) string {
	s = strings.NewReplacer("\u00A0", " ", "\u202F", " ", "\r", "").Replace(s)
	return strings.TrimRight(s, " \t\n")
}

// looksLikeHeader — повтор шапки внутри листа (≥2 ячеек похожи на заголовки колонок).
func looksLikeHeader(rec []string) bool {
	cnt := 0
	for _, v := range rec {
		s := normHeaderKey(v)
		if strings.Contains(s, "наимен") || strings.Contains(s, "количество") ||
			strings.Contains(s, "цена без") || strings.Contains(s, "сроки поставки") {
			cnt++
		}
	}
	return cnt >= 2
}
