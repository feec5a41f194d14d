package fileio

import (
	"regexp"
	"strings"
)

// columns — индексы колонок листа поставщика (-1 — колонки нет).
type columns struct {
	Name, RequestedQty, OfferedQty, UnitPrice, LeadTime, Comment int
}

// Раскладка по умолчанию: A..F.
var defaultColumns = columns{Name: 0, RequestedQty: 1, OfferedQty: 2, UnitPrice: 3, LeadTime: 4, Comment: 5}

// Варианты заголовков; порядок полей важен — «количество» сначала уходит запрошенному.
var headerAliases = []struct {
	field   func(*columns) *int
	aliases []string
}{
	{func(c *columns) *int { return &c.Name }, []string{"наименование", "номенклатура", "товар", "позиция"}},
	{func(c *columns) *int { return &c.RequestedQty }, []string{"количество запрошенное", "запрошено", "кол во запрошенное", "количество"}},
	{func(c *columns) *int { return &c.OfferedQty }, []string{"количество предложенное", "предложено", "кол во предложенное"}},
	{func(c *columns) *int { return &c.UnitPrice }, []string{"цена без ндс за шт", "цена без ндс", "цена"}},
	{func(c *columns) *int { return &c.LeadTime }, []string{"сроки поставки", "срок поставки", "срок"}},
	{func(c *columns) *int { return &c.Comment }, []string{"комментарий поставщика", "комментарий", "примечание"}},
}

// minHeaderSimilarity — порог опечаток в заголовке (Дамерау-Левенштейн).
const minHeaderSimilarity = 0.8

var rxNotWord = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// normHeaderKey: нижний регистр, ё→е, служебные символы/множественные пробелы → один пробел.
func normHeaderKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("\u00A0", " ", "\u202F", " ", "ё", "е").Replace(s)
	s = rxNotWord.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// resolveColumns ищет колонки по шапке; что не нашлось — берётся по умолчанию,
// если эта колонка не занята другим полем.
func resolveColumns(header []string) columns {
	keys := make([]string, len(header))
	for i, h := range header {
		keys[i] = normHeaderKey(h)
	}

	cols := columns{-1, -1, -1, -1, -1, -1}
	used := make(map[int]bool)
	for _, h := range headerAliases {
		if idx := bestHeader(keys, h.aliases, used); idx >= 0 {
			*h.field(&cols) = idx
			used[idx] = true
		}
	}
	for _, h := range headerAliases {
		p := h.field(&cols)
		if *p >= 0 {
			continue
		}
		def := *h.field(&defaultColumns)
		if !used[def] {
			*p = def
			used[def] = true
		}
	}
	return cols
}

// bestHeader: точное совпадение > вхождение (чем длиннее, тем лучше) > похожее по написанию.
func bestHeader(keys, aliases []string, used map[int]bool) int {
	best, bestScore := -1, 0.0
	for i, k := range keys {
		if k == "" || used[i] {
			continue
		}
		score := 0.0
		for _, a := range aliases {
			switch {
			case k == a:
				score = max(score, 1000)
			case strings.Contains(k, a) || strings.Contains(a, k):
				score = max(score, float64(len([]rune(a))))
			default:
				if s := similarity(k, a); s >= minHeaderSimilarity {
					score = max(score, s)
				}
			}
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

// similarity — нормированное сходство по Дамерау-Левенштейну в [0..1].
func similarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	d := damerauLevenshtein(a, b)
	m := max(len([]rune(a)), len([]rune(b)))
	return 1 - float64(d)/float64(m)
}

func damerauLevenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	al, bl := len(ra), len(rb)

	dp := make([][]int, al+1)
	for i := range dp {
		dp[i] = make([]int, bl+1)
		dp[i][0] = i
	}
	for j := 0; j <= bl; j++ {
		dp[0][j] = j
	}

	for i := 1; i <= al; i++ {
		for j := 1; j <= bl; j++ {
			cost := 0
			if ra[i-1] != rb[j-1] {
				cost = 1
			}
			// вставка / удаление / замена
			dp[i][j] = min(dp[i-1][j]+1, dp[i][j-1]+1, dp[i-1][j-1]+cost)

			// транспозиция соседних символов
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				dp[i][j] = min(dp[i][j], dp[i-2][j-2]+1)
			}
		}
	}
	return dp[al][bl]
}
