// Package paymentterms ищет условия оплаты поставщиков на титульном листе КП.
package paymentterms

import (
	"strings"
	"unicode/utf8"
)

const marker = "оплат"

// maxHeaderLen — ячейка-заголовок колонки короткая ("Условия оплаты"), сами условия длиннее.
const maxHeaderLen = 32

// Locate возвращает supplierID -> текст условий оплаты.
//
// Строка титульного листа относится к поставщику, если в ней есть ячейка с его
// именем. Условия — первая другая ячейка этой строки со словом «оплата»; если
// такой нет, берётся ячейка из колонки с заголовком «Условия оплаты».
// Поставщики без найденных условий в результат не попадают.
func Locate(cover [][]string, suppliers []string) map[string]string {
	out := make(map[string]string)
	if len(cover) == 0 || len(suppliers) == 0 {
		return out
	}

	termsCol, headerRow := -1, -1
	for r, row := range cover {
		for c, v := range row {
			if isTermsHeader(v) {
				termsCol, headerRow = c, r
				break
			}
		}
		if termsCol >= 0 {
			break
		}
	}

	for _, id := range suppliers {
		key := fold(id)
		if key == "" {
			continue
		}
		for r, row := range cover {
			idx := supplierCell(row, key)
			if idx < 0 {
				continue
			}
			if text := termsInRow(row, idx); text != "" {
				out[id] = text
				break
			}
			if termsCol >= 0 && r > headerRow && termsCol != idx && termsCol < len(row) {
				if text := strings.TrimSpace(row[termsCol]); text != "" {
					out[id] = text
					break
				}
			}
		}
	}
	return out
}

func supplierCell(row []string, key string) int {
	for i, v := range row {
		f := fold(v)
		if f == key || (len(key) > 3 && strings.Contains(f, key) && !strings.Contains(f, marker)) {
			return i
		}
	}
	return -1
}

func termsInRow(row []string, skip int) string {
	for i, v := range row {
		if i == skip || isTermsHeader(v) {
			continue
		}
		if strings.Contains(fold(v), marker) {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func isTermsHeader(v string) bool {
	f := strings.Trim(fold(v), " :")
	return utf8.RuneCountInString(f) <= maxHeaderLen && (f == "условия оплаты" || f == "оплата" || f == "условие оплаты")
}

func fold(s string) string {
	s = strings.ToLower(strings.ReplaceAll(s, "\u00A0", " "))
	s = strings.ReplaceAll(s, "ё", "е")
	return strings.Join(strings.Fields(s), " ")
}
