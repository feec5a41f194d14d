package service

import (
	"context"

	"kp-summary/internal/reconcile/model"
)

// Run — сводка КП: классификация строк, группировка, сборка таблицы.
// terms (условия оплаты по поставщикам) только прокидываются в итоговую строку.
func Run(ctx context.Context, sources []model.Source, terms map[string]string, opts Options) (model.Table, error) {
	// 1) Классификация (параллельно по источникам, порядок сохраняется)
	records, err := ExtractAll(ctx, sources)
	if err != nil {
		return model.Table{}, err
	}

	// 2) Группировка: строго последовательный проход
	res := NewResolver(opts).Resolve(records)

	// 3) Таблица
	suppliers := make([]string, len(sources))
	for i, s := range sources {
		suppliers[i] = s.ID
	}
	table := Assemble(res, suppliers, opts)
	table.PaymentTerms = terms
	return table, nil
}
