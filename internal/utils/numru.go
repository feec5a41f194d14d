package utils

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	rxDigit  = regexp.MustCompile(`\d`)
	rxNumber = regexp.MustCompile(`^-?[\d.,]*\d[\d.,]*$`)
)

// ParseFloatRU парсит "1 234,50", "197 ,00", "2 345,6 ₽", "18 500,00 р.", "(120)", "10 шт." (NBSP/NNBSP) и т.п.
// Второе значение false — ячейка пустая или в ней нет числа.
//
// Разделители: если есть и "," и ".", десятичный — тот, что правее ("1.234,50", "1,234.50");
// если один и тот же встречается несколько раз — это тысячи ("1.234.567").
func ParseFloatRU(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || !rxDigit.MatchString(s) {
		return 0, false
	}
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}

	// хвост ("₽", "руб.", "шт.") и валюта спереди отрезаются вместе с их точками
	s = strings.TrimRightFunc(s, func(r rune) bool { return !unicode.IsDigit(r) })
	s = trimNumberPrefix(s)
	s = strings.NewReplacer(" ", "", "\u00A0", "", "\u202F", "", "\u2009", "", "\t", "").Replace(s)
	if !rxNumber.MatchString(s) {
		return 0, false
	}

	comma, dot := strings.LastIndex(s, ","), strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && dot >= 0:
		thousands, decimal := ".", ","
		if dot > comma {
			thousands, decimal = ",", "."
		}
		s = strings.ReplaceAll(s, thousands, "")
		if strings.Count(s, decimal) > 1 {
			return 0, false
		}
		s = strings.Replace(s, decimal, ".", 1)
	case comma >= 0:
		if strings.Count(s, ",") > 1 {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	case dot >= 0:
		if strings.Count(s, ".") > 1 {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if neg {
		f = -f
	}
	return f, true
}

// trimNumberPrefix отрезает текст перед числом; "-" и ",", "." сохраняются,
// только если стоят вплотную к первой цифре ("-5", ",5"), а не "руб. 990".
func trimNumberPrefix(s string) string {
	i := strings.IndexFunc(s, unicode.IsDigit)
	if i <= 0 {
		return s
	}
	j := i
	if j > 0 && (s[j-1] == '.' || s[j-1] == ',') {
		j--
	}
	if j > 0 && s[j-1] == '-' {
		j--
	}
	return s[j:]
}

// PositiveRU — число > 0 или false.
func PositiveRU(s string) (float64, bool) {
	f, ok := ParseFloatRU(s)
	if !ok || f <= 0 {
		return 0, false
	}
	return f, true
}
