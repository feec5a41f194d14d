package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kp-summary/internal/reconcile/model"
)

func mainRow(name, qty, price string) model.SourceRow {
	return model.SourceRow{Name: name, RequestedQty: qty, OfferedQty: qty, UnitPrice: price}
}

func secondaryRow(name, qty, price string) model.SourceRow {
	r := mainRow(name, qty, price)
	r.Highlighted = true
	return r
}

func resolve(t *testing.T, sources ...model.Source) (model.Resolution, []model.RawRecord) {
	t.Helper()
	records, err := ExtractAll(context.Background(), sources)
	require.NoError(t, err)
	return NewResolver(Options{}).Resolve(records), records
}

func anchorKeys(res model.Resolution) []string {
	keys := make([]string, len(res.Anchors))
	for i, g := range res.Anchors {
		keys[i] = g.Key
	}
	return keys
}

func TestResolveExactAnchor(t *testing.T) {
	// два поставщика предлагают одну и ту же основную позицию
	res, _ := resolve(t,
		model.Source{ID: "Альфа", Rows: []model.SourceRow{
			mainRow("Монитор Dell P2422HE", "3", "18 500"),
			mainRow("Клавиатура Logitech K120", "5", "900"),
		}},
		model.Source{ID: "Бета", Rows: []model.SourceRow{
			mainRow("Монитор  Dell P2422HE", "3", "18 200"),
		}},
	)

	require.False(t, res.Flat)
	assert.Equal(t, []string{"монитор dell p2422he", "клавиатура logitech k120"}, anchorKeys(res))

	mon := res.Anchors[0]
	assert.False(t, mon.IsVirtual)
	assert.Len(t, mon.Mains, 2)
	assert.Empty(t, mon.Variants)
	assert.Empty(t, mon.Analogs)
}

func TestResolveAnalogViaSynonym(t *testing.T) {
	res, _ := resolve(t,
		model.Source{ID: "Альфа", Rows: []model.SourceRow{
			mainRow("SSD Samsung 1TB", "10", "7 900"),
			mainRow("Монитор Dell P2422HE", "3", "18 500"),
		}},
		model.Source{ID: "Бета", Rows: []model.SourceRow{
			secondaryRow("Накопитель Samsung 1TB", "10", "7 700"),
		}},
	)

	require.Len(t, res.Anchors, 2, "no virtual anchor expected")
	ssd := res.Anchors[0]
	require.Len(t, ssd.Analogs, 1)
	assert.Equal(t, "Накопитель Samsung 1TB", ssd.Analogs[0].Name)
	assert.Contains(t, ssd.Analogs[0].Offers, "Бета")

	score := NewScorer(nil).Score("Накопитель Samsung 1TB", ssd.Key, "10", ssd.RequestedQty())
	assert.GreaterOrEqual(t, score, 0.7)
}

func TestResolveCreatesVirtualAnchor(t *testing.T) {
	res, _ := resolve(t,
		model.Source{ID: "Альфа", Rows: []model.SourceRow{
			mainRow("Монитор Dell P2422HE", "3", "18 500"),
			mainRow("SSD Samsung 1TB", "10", "7 900"),
		}},
		model.Source{ID: "Бета", Rows: []model.SourceRow{
			secondaryRow("Беспроводная мышь Logitech", "2", "1 200"),
		}},
	)

	require.Len(t, res.Anchors, 3)
	v := res.Anchors[2]
	assert.True(t, v.IsVirtual)
	assert.Equal(t, "Мышь", v.Key)
	require.Len(t, v.Analogs, 1)
	assert.Equal(t, "Беспроводная мышь Logitech", v.Analogs[0].Name)
}

func TestResolveLaterClusterBindsToVirtualAnchor(t *testing.T) {
	res, _ := resolve(t,
		model.Source{ID: "Альфа", Rows: []model.SourceRow{
			mainRow("Монитор Dell P2422HE", "3", "18 500"),
			mainRow("SSD Samsung 1TB", "10", "7 900"),
		}},
		model.Source{ID: "Бета", Rows: []model.SourceRow{
			secondaryRow("Беспроводная мышь Logitech", "2", "1 200"),
		}},
		model.Source{ID: "Гамма", Rows: []model.SourceRow{
			secondaryRow("Мышь Logitech M185", "2", "1 100"),
		}},
	)

	require.Len(t, res.Anchors, 3, "second mouse must reuse the virtual anchor")
	v := res.Anchors[2]
	require.Len(t, v.Analogs, 2)
	assert.Equal(t, "Мышь Logitech M185", v.Analogs[1].Name)
}

func TestResolveDuplicateVirtualLabels(t *testing.T) {
	// разные количества: вторая мышь не привязывается к первой, а получает свой якорь
	res, _ := resolve(t,
		model.Source{ID: "Альфа", Rows: []model.SourceRow{
			mainRow("Монитор Dell P2422HE", "3", "18 500"),
			mainRow("SSD Samsung 1TB", "10", "7 900"),
		}},
		model.Source{ID: "Бета", Rows: []model.SourceRow{
			secondaryRow("Беспроводная мышь Logitech", "2", "1 200"),
		}},
		model.Source{ID: "Гамма", Rows: []model.SourceRow{
			secondaryRow("Мышь Logitech M185", "5", "1 100"),
		}},
	)

	require.Len(t, res.Anchors, 4)
	first, second := res.Anchors[2], res.Anchors[3]
	assert.True(t, first.IsVirtual)
	assert.True(t, second.IsVirtual)
	assert.Equal(t, "Мышь", first.Key)
	assert.Equal(t, "Мышь", second.Key)
	assert.Equal(t, "Мышь", first.DisplayName)
	assert.Equal(t, "Мышь (5 шт)", second.DisplayName)
	assert.NotEqual(t, first.DisplayName, second.DisplayName)
}

func TestVirtualDisplayName(t *testing.T) {
	mouse := &model.AnchorGroup{Key: "Мышь", DisplayName: "Мышь", IsVirtual: true}
	mouse5 := &model.AnchorGroup{Key: "Мышь", DisplayName: "Мышь (5 шт)", IsVirtual: true}

	assert.Equal(t, "Мышь", virtualDisplayName("Мышь", "2", nil))
	assert.Equal(t, "Мышь (5 шт)", virtualDisplayName("Мышь", "5", []*model.AnchorGroup{mouse}))
	assert.Equal(t, "Мышь 2", virtualDisplayName("Мышь", "", []*model.AnchorGroup{mouse}))
	assert.Equal(t, "Мышь 3", virtualDisplayName("Мышь", "5", []*model.AnchorGroup{mouse, mouse5}))

	plain := &model.AnchorGroup{Key: "мышь", DisplayName: "Мышь"}
	assert.Equal(t, "Мышь (1 шт)", virtualDisplayName("Мышь", "1", []*model.AnchorGroup{plain}))
}

func TestResolveUnequalQuantitiesSplit(t *testing.T) {
	// при разных известных количествах совпадение не принимается даже при одинаковом тексте
	res, _ := resolve(t,
		model.Source{ID: "Альфа", Rows: []model.SourceRow{
			mainRow("Монитор Dell P2422HE", "3", "18 500"),
			mainRow("SSD Samsung 1TB", "10", "7 900"),
		}},
		model.Source{ID: "Бета", Rows: []model.SourceRow{
			secondaryRow("Монитор Dell P2422H", "4", "17 000"),
		}},
	)

	require.Len(t, res.Anchors, 3)
	assert.True(t, res.Anchors[2].IsVirtual)
	assert.Equal(t, "Монитор", res.Anchors[2].Key)
	assert.Empty(t, res.Anchors[0].Analogs)
}

func TestResolveVariants(t *testing.T) {
	res, _ := resolve(t,
		model.Source{ID: "Альфа", Rows: []model.SourceRow{
			mainRow("Монитор Dell P2422HE", "3", "18 500"),
			secondaryRow("Монитор Dell P2422HE", "3", "19 000"),
			mainRow("Клавиатура Logitech K120", "5", "900"),
		}},
		model.Source{ID: "Бета", Rows: []model.SourceRow{
			{Name: "монитор dell p2422he", RequestedQty: "3", UnitPrice: "18 100", Indented: true},
		}},
	)

	mon := res.Anchors[0]
	require.Len(t, mon.Variants, 2, "variants from different sources stay separate")
	assert.Equal(t, "Альфа", mon.Variants[0].SourceID)
	assert.Equal(t, "Бета", mon.Variants[1].SourceID)
	assert.Empty(t, mon.Analogs)
}

func TestResolveClusterMergesAcrossSources(t *testing.T) {
	res, _ := resolve(t,
		model.Source{ID: "Альфа", Rows: []model.SourceRow{
			mainRow("Монитор Dell P2422HE", "3", "18 500"),
			mainRow("Клавиатура Logitech K120", "5", "900"),
		}},
		model.Source{ID: "Бета", Rows: []model.SourceRow{
			secondaryRow("Монитор Dell P2423", "", "16 000"),
		}},
		model.Source{ID: "Гамма", Rows: []model.SourceRow{
			secondaryRow("монитор dell p2423", "3", "15 500"),
		}},
	)

	mon := res.Anchors[0]
	require.Len(t, mon.Analogs, 1)
	c := mon.Analogs[0]
	assert.Len(t, c.Members, 2)
	assert.Equal(t, "3", c.RequestedQty, "first non-empty quantity among members")
	assert.Equal(t, "16 000", c.Offers["Бета"].UnitPrice)
	assert.Equal(t, "15 500", c.Offers["Гамма"].UnitPrice)
}

func TestResolveFlatMode(t *testing.T) {
	res, records := resolve(t,
		model.Source{ID: "Альфа", Rows: []model.SourceRow{
			mainRow("Монитор Dell P2422HE", "3", "18 500"),
			secondaryRow("Монитор Dell P2423", "3", "16 000"),
		}},
		model.Source{ID: "Бета", Rows: []model.SourceRow{
			mainRow("монитор dell p2422he", "3", "18 200"),
		}},
	)

	assert.True(t, res.Flat)
	assert.Empty(t, res.Anchors)
	assert.Len(t, res.Records, len(records))
}

func TestResolveNoMainRecords(t *testing.T) {
	res, _ := resolve(t,
		model.Source{ID: "Альфа", Rows: []model.SourceRow{
			secondaryRow("Беспроводная мышь Logitech", "2", "1 200"),
		}},
	)
	assert.False(t, res.Flat)
	require.Len(t, res.Anchors, 1)
	assert.True(t, res.Anchors[0].IsVirtual)

	empty, _ := resolve(t, model.Source{ID: "Альфа"})
	assert.Empty(t, empty.Anchors)
	assert.False(t, empty.Flat)
}

func TestResolveExclude(t *testing.T) {
	records, err := ExtractAll(context.Background(), []model.Source{
		{ID: "Альфа", Rows: []model.SourceRow{
			mainRow("SSD Samsung 1TB", "10", "7 900"),
			mainRow("Монитор Dell P2422HE", "3", "18 500"),
		}},
		{ID: "Бета", Rows: []model.SourceRow{
			secondaryRow("Накопитель Samsung 1TB", "10", "7 700"),
		}},
	})
	require.NoError(t, err)

	exclude := func(_ *model.AnalogCluster, tokens []string) bool {
		for _, tok := range tokens {
			if tok == "samsung" {
				return true
			}
		}
		return false
	}
	res := NewResolver(Options{Exclude: exclude}).Resolve(records)

	require.Len(t, res.Anchors, 3)
	assert.Empty(t, res.Anchors[0].Analogs)
	assert.True(t, res.Anchors[2].IsVirtual)
	assert.Equal(t, "Накопитель SSD", res.Anchors[2].Key)
}

func TestResolveDeterministic(t *testing.T) {
	sources := fixtureSources()
	first, _ := resolve(t, sources...)
	second, _ := resolve(t, sources...)
	assert.Equal(t, first, second)
}

func TestLabelFallback(t *testing.T) {
	r := NewResolver(Options{})
	assert.Equal(t, "Мышь", r.Label("Беспроводная мышь Logitech", nil))
	assert.Equal(t, "Переходник Ugreen Hdmi", r.Label("Переходник Ugreen HDMI Gold", nil))
	assert.Equal(t, "Razer Deathadder Hyperspeed", r.Label("Razer DeathAdder V3 HyperSpeed", nil))
	assert.Equal(t, "X-1", r.Label(" X-1 ", nil))
}

type recordingObserver struct {
	NopObserver
	created  []string
	attached []string
	flat     int
}

func (o *recordingObserver) Created(_, label, _ string) { o.created = append(o.created, label) }
func (o *recordingObserver) Attached(cluster, _ string, _, _ float64, _ bool) {
	o.attached = append(o.attached, cluster)
}
func (o *recordingObserver) Flat(string, int) { o.flat++ }

func TestResolveObserverDoesNotChangeResult(t *testing.T) {
	records, err := ExtractAll(context.Background(), fixtureSources())
	require.NoError(t, err)

	obs := &recordingObserver{}
	traced := NewResolver(Options{Observer: obs}).Resolve(records)
	plain := NewResolver(Options{}).Resolve(records)

	assert.Equal(t, plain, traced)
	assert.NotEmpty(t, obs.created)
	assert.NotEmpty(t, obs.attached)
	assert.Zero(t, obs.flat)
}

// fixtureSources — смешанный набор: точные совпадения, варианты, аналоги, новые группы.
func fixtureSources() []model.Source {
	return []model.Source{
		{ID: "Альфа", Rows: []model.SourceRow{
			mainRow("Монитор Dell P2422HE", "3", "18 500"),
			secondaryRow("Монитор Dell P2422HE", "3", "19 000"),
			mainRow("SSD Samsung 1TB", "10", "7 900"),
			mainRow("Клавиатура Logitech K120", "5", "900"),
			{Name: "   "},
		}},
		{ID: "Бета", Rows: []model.SourceRow{
			mainRow("Монитор Dell P2422HE", "3", "18 200"),
			secondaryRow("Накопитель Samsung 1TB", "10", "7 700"),
			secondaryRow("Беспроводная мышь Logitech", "2", "1 200"),
			secondaryRow("Кабель HDMI 2м", "", "по запросу"),
		}},
		{ID: "Гамма", Rows: []model.SourceRow{
			secondaryRow("Накопитель Samsung 1TB", "10", "7 650"),
			secondaryRow("Мышь Logitech M185", "2", "1 100"),
			mainRow("Клавиатура Logitech K120", "5", ""),
			secondaryRow("Шнур HDMI 2 м", "", "450"),
		}},
	}
}
