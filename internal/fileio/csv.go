package fileio

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"kp-summary/internal/reconcile/model"
)

// readCSV — КП одного поставщика в CSV, автоопределение кодировки (UTF-8, Windows-1251)
// и разделителя (";" из Excel или ",").
func readCSV(r io.Reader, supplier string) (*Workbook, error) {
	br := bufio.NewReader(r)

	peek, _ := br.Peek(2048)
	var dec io.Reader = br
	if enc := detectEncoding(peek); enc != nil {
		dec = transform.NewReader(br, enc.NewDecoder())
	}

	cr := csv.NewReader(dec)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.Comma = sniffComma(peek)

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		for i := range rec {
			rec[i] = normalizeCell(rec[i])
		}
		rows = append(rows, rec)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return &Workbook{Sources: []model.Source{toSource(supplier, rows, nil)}}, nil
}

// detectEncoding: nil — UTF-8. Иначе cp1251, если chardet уверенно не узнал KOI8-R.
func detectEncoding(peek []byte) *charmap.Charmap {
	if len(peek) == 0 || validUTF8Prefix(peek) {
		return nil
	}
	if det, err := chardet.NewTextDetector().DetectBest(peek); err == nil && det != nil {
		if strings.EqualFold(det.Charset, "KOI8-R") && det.Confidence >= 50 {
			return charmap.KOI8R
		}
	}
	return charmap.Windows1251
}

// validUTF8Prefix — буфер обрезан по Peek, незавершённую руну в конце прощаем.
func validUTF8Prefix(b []byte) bool {
	for cut := 0; cut < utf8.UTFMax && cut < len(b); cut++ {
		if utf8.Valid(b[:len(b)-cut]) {
			return true
		}
	}
	return false
}

// sniffComma — по первой строке: чего больше, ";" или ",".
func sniffComma(peek []byte) rune {
	line := peek
	if i := bytes.IndexByte(peek, '\n'); i >= 0 {
		line = peek[:i]
	}
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}
	return ','
}
