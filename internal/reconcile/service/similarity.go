package service

import (
	"math"
	"regexp"
	"strings"

	"kp-summary/internal/reconcile/lexicon"
	"kp-summary/internal/utils"
)

// Компоненты количества в итоговой оценке.
const (
	qtyExact    = 1.0 // оба известны, положительны и равны
	qtyPenalize = 0.1 // оба положительны и различны
	qtyUnknown  = 0.3 // одно из значений пустое, нулевое или не число
	qtyNeutral  = 0.5 // оба не заданы — количество не участвует
)

const qtyEpsilon = 1e-9

var nonAlnum = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// NameKey — ключ точного сравнения наименований (якоря, варианты, кластеры аналогов).
func NameKey(s string) string {
	return strings.Join(strings.Fields(lexicon.Fold(s)), " ")
}

// normalizeName: нижний регистр, всё кроме букв/цифр → пробел, схлопнуть пробелы.
func normalizeName(s string) string {
	return strings.Join(strings.Fields(nonAlnum.ReplaceAllString(lexicon.Fold(s), " ")), " ")
}

// Scorer сравнивает наименования с учётом весов токенов, синонимов и количества.
type Scorer struct {
	lex *lexicon.Lexicon
}

// NewScorer; nil — встроенный словарь.
func NewScorer(lex *lexicon.Lexicon) *Scorer {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &Scorer{lex: lex}
}

// Tokens — значимые токены наименования в порядке появления, без повторов.
func (s *Scorer) Tokens(name string) []string {
	fields := strings.Fields(normalizeName(name))
	out := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if len([]rune(f)) < 3 || s.lex.IsStopWord(f) {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

// Weight: 3 — категория, 2 — техническая характеристика, 1 — прочее.
func (s *Scorer) Weight(tok string) int {
	switch {
	case s.lex.IsCategory(tok):
		return 3
	case s.lex.IsSpec(tok):
		return 2
	default:
		return 1
	}
}

// TextSimilarity — взвешенное пересечение токенов в [0,1].
func (s *Scorer) TextSimilarity(nameA, nameB string) float64 {
	ta, tb := s.Tokens(nameA), s.Tokens(nameB)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	inB := make(map[string]struct{}, len(tb))
	for _, t := range tb {
		inB[t] = struct{}{}
	}
	common := make(map[string]struct{})
	for _, a := range ta {
		if _, ok := inB[a]; ok {
			common[a] = struct{}{}
		}
		if !s.lex.HasSynonyms(a) {
			continue
		}
		for _, b := range tb {
			if s.lex.AreSynonyms(a, b) {
				common[a] = struct{}{}
				common[b] = struct{}{}
			}
		}
	}

	ratio := func(tokens []string) float64 {
		total, shared := 0, 0
		for _, t := range tokens {
			w := s.Weight(t)
			total += w
			if _, ok := common[t]; ok {
				shared += w
			}
		}
		return float64(shared) / float64(total)
	}
	return (ratio(ta) + ratio(tb)) / 2
}

// QuantityComponent оценивает сопоставимость запрошенных количеств.
func QuantityComponent(qtyA, qtyB string) float64 {
	blankA, blankB := strings.TrimSpace(qtyA) == "", strings.TrimSpace(qtyB) == ""
	if blankA && blankB {
		return qtyNeutral
	}
	a, okA := utils.PositiveRU(qtyA)
	b, okB := utils.PositiveRU(qtyB)
	if !okA || !okB {
		return qtyUnknown
	}
	if math.Abs(a-b) < qtyEpsilon {
		return qtyExact
	}
	return qtyPenalize
}

// Score — итоговая оценка схожести. Известное и однозначное количество
// важнее текста: равные количества дают не меньше 0.7, разные — не больше 0.2.
func (s *Scorer) Score(nameA, nameB, qtyA, qtyB string) float64 {
	text := s.TextSimilarity(nameA, nameB)
	q := QuantityComponent(qtyA, qtyB)

	var final float64
	switch q {
	case qtyExact:
		final = 0.7 + 0.3*text
	case qtyPenalize:
		final = 0.2 * text
	default:
		final = 0.4*q + 0.6*text
	}
	return math.Min(final, 1.0)
}
