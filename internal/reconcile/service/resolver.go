package service

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"kp-summary/internal/reconcile/lexicon"
	"kp-summary/internal/reconcile/model"
)

// Причины создания виртуального якоря (для трассировки).
const (
	reasonNoAnchors = "no anchors"
	reasonBelow     = "below threshold"
	reasonExcluded  = "excluded"
)

// ExcludeFunc решает, что кластер аналогов не сопоставляется с якорями,
// а сразу получает собственную виртуальную группу.
type ExcludeFunc func(cluster *model.AnalogCluster, tokens []string) bool

// Resolver группирует записи в якоря, варианты и аналоги.
//
// Resolve — один последовательный проход. Виртуальный якорь, созданный для
// кластера, сразу становится кандидатом для следующих кластеров, поэтому
// результат зависит от порядка кластеров (порядок первого появления имени).
// Этот цикл нельзя распараллеливать или переупорядочивать.
//
// Несколько виртуальных якорей могут получить одну метку (два кластера
// «Мышь» с разным количеством). Key у них совпадает, DisplayName второго
// и следующих уточняется количеством: "Мышь (5 шт)", без количества — "Мышь 2".
type Resolver struct {
	scorer  *Scorer
	lex     *lexicon.Lexicon
	obs     Observer
	exclude ExcludeFunc
	title   cases.Caser
}

// NewResolver. Пустые поля Options заменяются значениями по умолчанию.
func NewResolver(opts Options) *Resolver {
	lex := opts.Lexicon
	if lex == nil {
		lex = lexicon.Default()
	}
	obs := opts.Observer
	if obs == nil {
		obs = NopObserver{}
	}
	exclude := opts.Exclude
	if exclude == nil {
		exclude = func(_ *model.AnalogCluster, tokens []string) bool { return lex.Excluded(tokens) }
	}
	return &Resolver{
		scorer:  NewScorer(lex),
		lex:     lex,
		obs:     obs,
		exclude: exclude,
		title:   cases.Title(language.Russian),
	}
}

// Resolve строит группы по записям, упорядоченным по источникам и строкам.
func (r *Resolver) Resolve(records []model.RawRecord) model.Resolution {
	if name, ok := singleMainName(records); ok {
		r.obs.Flat(name, len(records))
		return model.Resolution{Flat: true, Records: records}
	}

	anchors, byKey := buildAnchors(records)
	clusters := attachVariants(records, byKey)

	for _, c := range clusters {
		anchors = r.resolveCluster(c, anchors)
	}
	return model.Resolution{Records: records, Anchors: anchors}
}

// singleMainName — ровно одно различное основное наименование во всех источниках.
func singleMainName(records []model.RawRecord) (string, bool) {
	name := ""
	for _, rec := range records {
		if rec.IsSecondary {
			continue
		}
		if name == "" {
			name = rec.NameKey
			continue
		}
		if rec.NameKey != name {
			return "", false
		}
	}
	return name, name != ""
}

// buildAnchors: якорь на каждое различное основное наименование в порядке первого появления.
func buildAnchors(records []model.RawRecord) ([]*model.AnchorGroup, map[string]*model.AnchorGroup) {
	var anchors []*model.AnchorGroup
	byKey := make(map[string]*model.AnchorGroup)
	for _, rec := range records {
		if rec.IsSecondary {
			continue
		}
		g, ok := byKey[rec.NameKey]
		if !ok {
			g = &model.AnchorGroup{Key: rec.NameKey, DisplayName: rec.Name}
			byKey[rec.NameKey] = g
			anchors = append(anchors, g)
		}
		g.Mains = append(g.Mains, rec)
	}
	return anchors, byKey
}

// attachVariants: вторичные записи с именем якоря — варианты этого якоря,
// остальные сливаются в кластеры аналогов по точному имени (без нечёткого сравнения).
func attachVariants(records []model.RawRecord, byKey map[string]*model.AnchorGroup) []*model.AnalogCluster {
	var clusters []*model.AnalogCluster
	byName := make(map[string]*model.AnalogCluster)
	for _, rec := range records {
		if !rec.IsSecondary {
			continue
		}
		if g, ok := byKey[rec.NameKey]; ok {
			g.Variants = append(g.Variants, rec)
			continue
		}
		c, ok := byName[rec.NameKey]
		if !ok {
			c = &model.AnalogCluster{
				Key:    rec.NameKey,
				Name:   rec.Name,
				Offers: make(map[string]model.Offer),
			}
			byName[rec.NameKey] = c
			clusters = append(clusters, c)
		}
		if c.RequestedQty == "" {
			c.RequestedQty = rec.RequestedQty
		}
		c.Offers[rec.SourceID] = c.Offers[rec.SourceID].Fill(rec.Offer)
		c.Members = append(c.Members, rec)
	}
	return clusters
}

// resolveCluster привязывает кластер к лучшему якорю или создаёт виртуальный.
func (r *Resolver) resolveCluster(c *model.AnalogCluster, anchors []*model.AnchorGroup) []*model.AnchorGroup {
	tokens := r.scorer.Tokens(c.Name)
	if r.exclude(c, tokens) {
		return r.createVirtual(c, tokens, anchors, reasonExcluded)
	}

	var best *model.AnchorGroup
	bestScore, bestQty := -1.0, ""
	for _, g := range anchors {
		qty := anchorQty(g)
		s := r.scorer.Score(c.Name, g.Key, c.RequestedQty, qty)
		r.obs.Scored(c.Name, g.Key, s)
		if s > bestScore {
			best, bestScore, bestQty = g, s, qty
		}
	}
	if best == nil {
		return r.createVirtual(c, tokens, anchors, reasonNoAnchors)
	}
	if !Accepts(bestScore, c.RequestedQty, bestQty) {
		return r.createVirtual(c, tokens, anchors, reasonBelow)
	}

	best.Analogs = append(best.Analogs, c)
	r.obs.Attached(c.Name, best.Key, bestScore, Threshold(c.RequestedQty, bestQty), best.IsVirtual)
	return anchors
}

// anchorQty: для реального якоря — количество основной записи,
// для виртуального — количество первого участника.
func anchorQty(g *model.AnchorGroup) string {
	if !g.IsVirtual {
		return g.RequestedQty()
	}
	if len(g.Analogs) > 0 {
		return g.Analogs[0].RequestedQty
	}
	return ""
}

func (r *Resolver) createVirtual(c *model.AnalogCluster, tokens []string, anchors []*model.AnchorGroup, reason string) []*model.AnchorGroup {
	label := r.Label(c.Name, tokens)
	g := &model.AnchorGroup{
		Key:         label,
		DisplayName: virtualDisplayName(label, c.RequestedQty, anchors),
		IsVirtual:   true,
		Analogs:     []*model.AnalogCluster{c},
	}
	r.obs.Created(c.Name, label, reason)
	return append(anchors, g)
}

// virtualDisplayName делает подпись виртуального якоря уникальной среди уже созданных.
func virtualDisplayName(label, qty string, anchors []*model.AnchorGroup) string {
	taken := make(map[string]bool)
	same := 0
	for _, g := range anchors {
		taken[g.DisplayName] = true
		if g.IsVirtual && g.Key == label {
			same++
		}
	}
	if same == 0 && !taken[label] {
		return label
	}
	if qty != "" {
		if name := fmt.Sprintf("%s (%s шт)", label, qty); !taken[name] {
			return name
		}
	}
	for n := same + 1; ; n++ {
		if name := fmt.Sprintf("%s %d", label, n); !taken[name] {
			return name
		}
	}
}

// Label — название виртуальной группы: категория из словаря, иначе до трёх
// самых «тяжёлых» токенов (характеристики и категории, затем самые длинные).
func (r *Resolver) Label(name string, tokens []string) string {
	if tokens == nil {
		tokens = r.scorer.Tokens(name)
	}
	if label, ok := r.lex.CategoryLabel(tokens); ok {
		return label
	}
	if len(tokens) == 0 {
		return strings.TrimSpace(name)
	}

	type cand struct {
		tok    string
		pos    int
		weight int
		length int
	}
	cands := make([]cand, len(tokens))
	for i, t := range tokens {
		cands[i] = cand{tok: t, pos: i, weight: r.scorer.Weight(t), length: len([]rune(t))}
	}
	sort.SliceStable(cands, func(i, j int) bool {
		hi, hj := cands[i].weight >= 2, cands[j].weight >= 2
		if hi != hj {
			return hi
		}
		if cands[i].weight != cands[j].weight {
			return cands[i].weight > cands[j].weight
		}
		return cands[i].length > cands[j].length
	})
	if len(cands) > 3 {
		cands = cands[:3]
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].pos < cands[j].pos })

	words := make([]string, len(cands))
	for i, c := range cands {
		words[i] = c.tok
	}
	return r.title.String(strings.Join(words, " "))
}
