package service

import (
	"fmt"
	"math"
	"strings"

	"kp-summary/internal/reconcile/model"
	"kp-summary/internal/utils"
)

const priceEpsilon = 1e-9

// Assemble разворачивает группы в строки таблицы и считает минимальные цены и итоги.
func Assemble(res model.Resolution, suppliers []string, opts Options) model.Table {
	var rows []model.ProductRow
	if res.Flat {
		rows = flatRows(res.Records)
	} else {
		rows = groupRows(res.Anchors, opts)
	}

	totals := make(map[string]float64, len(suppliers))
	for _, s := range suppliers {
		totals[s] = 0
	}
	for i := range rows {
		rows[i].MinPriceSources = minPriceSources(rows[i].Offers, suppliers)
		for _, s := range suppliers {
			if p, ok := utils.ParseFloatRU(rows[i].Offers[s].UnitPrice); ok {
				totals[s] += p
			}
		}
	}

	return model.Table{
		Suppliers: suppliers,
		Rows:      rows,
		Totals:    totals,
		Flat:      res.Flat,
	}
}

// flatRows: одна строка на каждую пару (источник, строка).
func flatRows(records []model.RawRecord) []model.ProductRow {
	rows := make([]model.ProductRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, model.ProductRow{
			DisplayName:  rec.Name,
			Kind:         model.KindFlat,
			RequestedQty: rec.RequestedQty,
			Offers:       map[string]model.Offer{rec.SourceID: rec.Offer},
			Members:      1,
		})
	}
	return rows
}

func groupRows(anchors []*model.AnchorGroup, opts Options) []model.ProductRow {
	var rows []model.ProductRow
	for _, g := range anchors {
		offers := make(map[string]model.Offer)
		for _, m := range g.Mains {
			offers[m.SourceID] = offers[m.SourceID].Fill(m.Offer)
		}
		rows = append(rows, model.ProductRow{
			DisplayName:  g.DisplayName,
			Kind:         model.KindAnchor,
			Virtual:      g.IsVirtual,
			RequestedQty: anchorRowQty(g),
			Offers:       offers,
			Members:      len(g.Mains),
		})

		for i, v := range g.Variants {
			rows = append(rows, model.ProductRow{
				DisplayName:  withSuffix(v.Name, opts.variantSuffix(), i+1),
				Kind:         model.KindVariant,
				RequestedQty: v.RequestedQty,
				Offers:       map[string]model.Offer{v.SourceID: v.Offer},
				Members:      1,
			})
		}

		for i, c := range g.Analogs {
			offers := make(map[string]model.Offer, len(c.Offers))
			for k, o := range c.Offers {
				offers[k] = o
			}
			rows = append(rows, model.ProductRow{
				DisplayName:  withSuffix(c.Name, opts.analogSuffix(), i+1),
				Kind:         model.KindAnalog,
				RequestedQty: c.RequestedQty,
				Offers:       offers,
				Members:      len(c.Members),
			})
		}
	}
	return rows
}

// anchorRowQty: основная запись, иначе первый вариант, иначе первый аналог.
func anchorRowQty(g *model.AnchorGroup) string {
	if q := g.RequestedQty(); q != "" {
		return q
	}
	for _, v := range g.Variants {
		if v.RequestedQty != "" {
			return v.RequestedQty
		}
	}
	for _, c := range g.Analogs {
		if c.RequestedQty != "" {
			return c.RequestedQty
		}
	}
	return ""
}

func withSuffix(name, suffix string, n int) string {
	if !strings.Contains(suffix, "%d") {
		suffix += " %d"
	}
	return name + " " + fmt.Sprintf(suffix, n)
}

// minPriceSources — поставщики с минимальной числовой ценой в строке (все при равенстве),
// в порядке колонок.
func minPriceSources(offers map[string]model.Offer, suppliers []string) []string {
	best := math.Inf(1)
	prices := make(map[string]float64, len(offers))
	for _, s := range suppliers {
		p, ok := utils.ParseFloatRU(offers[s].UnitPrice)
		if !ok {
			continue
		}
		prices[s] = p
		if p < best {
			best = p
		}
	}
	if len(prices) == 0 {
		return nil
	}
	var out []string
	for _, s := range suppliers {
		if p, ok := prices[s]; ok && math.Abs(p-best) < priceEpsilon {
			out = append(out, s)
		}
	}
	return out
}
