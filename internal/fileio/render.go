package fileio

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	excelize "github.com/xuri/excelize/v2"

	"kp-summary/internal/reconcile/model"
	"kp-summary/internal/utils"
)

// Заголовки итоговой таблицы.
const (
	SummarySheet   = "Сводная таблица"
	hdrName        = "Наименование"
	hdrRequested   = "Количество запрошенное"
	hdrTotal       = "Итого"
	hdrPaymentTerm = "Условия оплаты"
)

var supplierSubHeaders = [4]string{
	"Количество предложенное",
	"Цена без НДС за шт",
	"Сроки поставки",
	"Комментарий поставщика",
}

var supplierColWidths = [4]float64{14, 16, 18, 32}

const currencyFmt = `#,##0.00 "₽"`

// summaryStyles — индексы стилей книги.
type summaryStyles struct {
	header, name, nameBold, nameIndent, text, number, price, priceMin, total int
}

// RenderXLSX строит книгу со сводной таблицей: две строки шапки, блок из четырёх
// колонок на поставщика, выделение минимальной цены, итоги и условия оплаты.
func RenderXLSX(tbl model.Table) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		f.Close()
		return nil, err
	}
	st, err := newSummaryStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	w := &sheetWriter{f: f, sheet: SummarySheet}

	w.header(tbl.Suppliers, st)
	row := 3
	for _, pr := range tbl.Rows {
		w.product(row, pr, tbl.Suppliers, st)
		row++
	}
	w.totals(row, tbl, st)
	row++
	if len(tbl.PaymentTerms) > 0 {
		w.paymentTerms(row, tbl, st)
	}

	w.widths(len(tbl.Suppliers))
	if err := f.SetPanes(SummarySheet, &excelize.Panes{
		Freeze: true, XSplit: 1, YSplit: 2, TopLeftCell: "B3", ActivePane: "bottomRight",
	}); err != nil {
		w.fail(err)
	}
	if w.err != nil {
		f.Close()
		return nil, w.err
	}
	return f, nil
}

// WriteXLSX — RenderXLSX и запись в w.
func WriteXLSX(w io.Writer, tbl model.Table) error {
	f, err := RenderXLSX(tbl)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

type styleDef struct {
	dst   *int
	style *excelize.Style
}

// SummaryName — имя файла сводки по имени входного: "kp.xls" -> "kp_свод.xlsx".
func SummaryName(in string) string {
	base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "kp"
	}
	return base + "_свод.xlsx"
}

func newSummaryStyles(f *excelize.File) (summaryStyles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	cur := currencyFmt
	top := &excelize.Alignment{Vertical: "top"}
	wrap := &excelize.Alignment{WrapText: true, Vertical: "top"}

	var st summaryStyles
	defs := []styleDef{
		{&st.header, &excelize.Style{
			Border:    border,
			Font:      &excelize.Font{Bold: true},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"D9E1F2"}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		}},
		{&st.name, &excelize.Style{Border: border, Alignment: wrap}},
		{&st.nameBold, &excelize.Style{Border: border, Font: &excelize.Font{Bold: true}, Alignment: wrap}},
		{&st.nameIndent, &excelize.Style{Border: border, Alignment: &excelize.Alignment{WrapText: true, Vertical: "top", Indent: 1}}},
		{&st.text, &excelize.Style{Border: border, Alignment: wrap}},
		{&st.number, &excelize.Style{Border: border, Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "top"}}},
		{&st.price, &excelize.Style{Border: border, CustomNumFmt: &cur, Alignment: top}},
		{&st.priceMin, &excelize.Style{
			Border:       border,
			CustomNumFmt: &cur,
			Font:         &excelize.Font{Bold: true, Color: "006100"},
			Fill:         excelize.Fill{Type: "pattern", Color: []string{"C6EFCE"}, Pattern: 1},
			Alignment:    top,
		}},
		{&st.total, &excelize.Style{Border: border, CustomNumFmt: &cur, Font: &excelize.Font{Bold: true}}},
	}
	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return st, fmt.Errorf("new style: %w", err)
		}
		*d.dst = id
	}
	return st, nil
}

// sheetWriter копит первую ошибку, чтобы не проверять каждый вызов.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (w *sheetWriter) fail(err error) {
	if w.err == nil && err != nil {
		w.err = err
	}
}

func (w *sheetWriter) set(col, row int, v any, style int) {
	if w.err != nil {
		return
	}
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		w.fail(err)
		return
	}
	if v != nil {
		w.fail(w.f.SetCellValue(w.sheet, name, v))
	}
	w.fail(w.f.SetCellStyle(w.sheet, name, name, style))
}

func (w *sheetWriter) merge(col1, row1, col2, row2, style int) {
	if w.err != nil {
		return
	}
	a, err := excelize.CoordinatesToCellName(col1, row1)
	w.fail(err)
	b, err := excelize.CoordinatesToCellName(col2, row2)
	w.fail(err)
	if w.err != nil {
		return
	}
	w.fail(w.f.MergeCell(w.sheet, a, b))
	w.fail(w.f.SetCellStyle(w.sheet, a, b, style))
}

func supplierCol(i int) int { return 3 + 4*i }

func (w *sheetWriter) header(suppliers []string, st summaryStyles) {
	w.set(1, 1, hdrName, st.header)
	w.set(2, 1, hdrRequested, st.header)
	w.merge(1, 1, 1, 2, st.header)
	w.merge(2, 1, 2, 2, st.header)
	for i, s := range suppliers {
		c := supplierCol(i)
		w.set(c, 1, s, st.header)
		w.merge(c, 1, c+3, 1, st.header)
		for j, sub := range supplierSubHeaders {
			w.set(c+j, 2, sub, st.header)
		}
	}
	if w.err == nil {
		w.fail(w.f.SetRowHeight(w.sheet, 2, 32))
	}
}

func (w *sheetWriter) product(row int, pr model.ProductRow, suppliers []string, st summaryStyles) {
	nameStyle := st.name
	switch pr.Kind {
	case model.KindAnchor:
		nameStyle = st.nameBold
	case model.KindVariant, model.KindAnalog:
		nameStyle = st.nameIndent
	}
	w.set(1, row, pr.DisplayName, nameStyle)
	w.set(2, row, numberOrText(pr.RequestedQty), st.number)

	minSet := make(map[string]bool, len(pr.MinPriceSources))
	for _, s := range pr.MinPriceSources {
		minSet[s] = true
	}
	for i, s := range suppliers {
		c := supplierCol(i)
		o := pr.Offers[s]
		priceStyle := st.price
		if minSet[s] {
			priceStyle = st.priceMin
		}
		w.set(c, row, numberOrText(o.OfferedQty), st.number)
		w.set(c+1, row, numberOrText(o.UnitPrice), priceStyle)
		w.set(c+2, row, emptyToNil(o.LeadTime), st.text)
		w.set(c+3, row, emptyToNil(o.Comment), st.text)
	}
}

func (w *sheetWriter) totals(row int, tbl model.Table, st summaryStyles) {
	w.set(1, row, hdrTotal, st.nameBold)
	w.set(2, row, nil, st.text)
	for i, s := range tbl.Suppliers {
		c := supplierCol(i)
		w.set(c, row, nil, st.text)
		w.set(c+1, row, tbl.Totals[s], st.total)
		w.set(c+2, row, nil, st.text)
		w.set(c+3, row, nil, st.text)
	}
}

func (w *sheetWriter) paymentTerms(row int, tbl model.Table, st summaryStyles) {
	w.set(1, row, hdrPaymentTerm, st.nameBold)
	w.set(2, row, nil, st.text)
	for i, s := range tbl.Suppliers {
		c := supplierCol(i)
		w.set(c, row, emptyToNil(tbl.PaymentTerms[s]), st.text)
		w.merge(c, row, c+3, row, st.text)
	}
}

func (w *sheetWriter) widths(suppliers int) {
	if w.err != nil {
		return
	}
	w.fail(w.f.SetColWidth(w.sheet, "A", "A", 50))
	w.fail(w.f.SetColWidth(w.sheet, "B", "B", 14))
	for i := 0; i < suppliers; i++ {
		for j, width := range supplierColWidths {
			col, err := excelize.ColumnNumberToName(supplierCol(i) + j)
			if err != nil {
				w.fail(err)
				return
			}
			w.fail(w.f.SetColWidth(w.sheet, col, col, width))
		}
	}
}

// numberOrText — число, если ячейка разбирается как число, иначе исходный текст.
func numberOrText(s string) any {
	if s == "" {
		return nil
	}
	if v, ok := utils.ParseFloatRU(s); ok && looksNumeric(s) {
		return v
	}
	return s
}

// looksNumeric — в строке нет букв, кроме знака валюты (иначе "5-7 дней" стал бы числом).
func looksNumeric(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == ' ', r == ',', r == '.', r == '-', r == '(', r == ')',
			r == '\u00A0', r == '\u202F', r == '₽':
		default:
			return false
		}
	}
	return true
}

func emptyToNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
