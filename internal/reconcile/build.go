// Package reconcile связывает чтение книги КП, сводку и условия оплаты;
// общий путь для HTTP-обработчика и CLI.
package reconcile

import (
	"context"
	"fmt"
	"io"

	"kp-summary/internal/fileio"
	"kp-summary/internal/paymentterms"
	"kp-summary/internal/reconcile/model"
	"kp-summary/internal/reconcile/service"
)

// Build читает книгу (формат по расширению filename) и строит сводную таблицу.
// Ошибки разбора входа — errors.ErrInvalidInput.
func Build(ctx context.Context, r io.Reader, filename string, opts service.Options) (model.Table, error) {
	wb, err := fileio.ReadWorkbook(r, filename)
	if err != nil {
		return model.Table{}, err
	}
	terms := paymentterms.Locate(wb.Cover, wb.SupplierIDs())
	tbl, err := service.Run(ctx, wb.Sources, terms, opts)
	if err != nil {
		return model.Table{}, fmt.Errorf("summary %s: %w", filename, err)
	}
	return tbl, nil
}
