package service

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"kp-summary/internal/reconcile/model"
)

// maxExtractConcurrency limits how many sources are classified at once.
const maxExtractConcurrency = 8

// Extract превращает строки одного источника в записи.
// Пустые наименования пропускаются, вторичная = залита или с отступом.
func Extract(src model.Source, sourceIndex int) []model.RawRecord {
	out := make([]model.RawRecord, 0, len(src.Rows))
	for i, r := range src.Rows {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			continue
		}
		out = append(out, model.RawRecord{
			SourceID:     src.ID,
			SourceIndex:  sourceIndex,
			RowIndex:     i,
			Name:         name,
			NameKey:      NameKey(name),
			RequestedQty: strings.TrimSpace(r.RequestedQty),
			Offer: model.Offer{
				OfferedQty: strings.TrimSpace(r.OfferedQty),
				UnitPrice:  strings.TrimSpace(r.UnitPrice),
				LeadTime:   strings.TrimSpace(r.LeadTime),
				Comment:    strings.TrimSpace(r.Comment),
			},
			IsSecondary: r.Highlighted || r.Indented,
		})
	}
	return out
}

// ExtractAll классифицирует источники параллельно и склеивает результат
// в исходном порядке источников.
func ExtractAll(ctx context.Context, sources []model.Source) ([]model.RawRecord, error) {
	parts := make([][]model.RawRecord, len(sources))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxExtractConcurrency)
	for i, src := range sources {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			parts[i] = Extract(src, i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]model.RawRecord, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out, nil
}
