package fileio

import (
	"bytes"
	"io"
	"strings"

	excelize "github.com/xuri/excelize/v2"
)

func readXLSX(r io.Reader) (*Workbook, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	wb := &Workbook{}
	for i, sheet := range sheets {
		// сырые значения: "1234.5" вместо "1 234,50 ₽"
		rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, err
		}
		if i == 0 {
			wb.Cover = rows
			continue
		}
		st := &styleProbe{f: f, sheet: sheet, cache: map[int]cellLook{}}
		nameCol := 0
		if len(rows) > 0 {
			nameCol = resolveColumns(rows[0]).Name
		}
		wb.Sources = append(wb.Sources, toSource(strings.TrimSpace(sheet), rows, func(row int) (bool, bool) {
			return st.flags(nameCol, row)
		}))
	}
	return wb, nil
}

// cellLook — то, что важно в стиле ячейки наименования.
type cellLook struct {
	filled   bool
	indented bool
}

// styleProbe читает оформление ячеек, кэшируя разобранные стили по индексу.
type styleProbe struct {
	f     *excelize.File
	sheet string
	cache map[int]cellLook
}

// flags — признаки для строки row (0-based, как в GetRows) по ячейке наименования.
func (p *styleProbe) flags(col, row int) (bool, bool) {
	if col < 0 {
		return false, false
	}
	name, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return false, false
	}
	idx, err := p.f.GetCellStyle(p.sheet, name)
	if err != nil || idx == 0 {
		return false, false
	}
	look, ok := p.cache[idx]
	if !ok {
		look = p.lookup(idx)
		p.cache[idx] = look
	}
	return look.filled, look.indented
}

func (p *styleProbe) lookup(idx int) cellLook {
	style, err := p.f.GetStyle(idx)
	if err != nil || style == nil {
		return cellLook{}
	}
	var look cellLook
	if style.Alignment != nil && style.Alignment.Indent > 0 {
		look.indented = true
	}
	switch style.Fill.Type {
	case "gradient":
		look.filled = true
	case "pattern":
		look.filled = style.Fill.Pattern > 0 && !whiteOnly(style.Fill.Color)
	}
	return look
}

// whiteOnly — заливка белым равносильна отсутствию заливки.
func whiteOnly(colors []string) bool {
	if len(colors) == 0 {
		return false
	}
	for _, c := range colors {
		c = strings.ToUpper(strings.TrimPrefix(c, "#"))
		if c != "FFFFFF" && c != "FFFFFFFF" {
			return false
		}
	}
	return true
}
