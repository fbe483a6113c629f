package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

type InvoiceRepo struct {
	DB DBTX
}

// Each day keeps its own counter row, bumped atomically. Two concurrent
// creations contend on the row lock and always get distinct numbers.
const nextInvoiceCounter = `-- name: NextInvoiceCounter
INSERT INTO invoice_counters (day, counter)
VALUES ($1, 1)
ON CONFLICT (day) DO UPDATE SET counter = invoice_counters.counter + 1
RETURNING counter
`

func (r *InvoiceRepo) NextNumber(ctx context.Context, day time.Time) (string, error) {
	rows, _ := r.DB.Query(ctx, nextInvoiceCounter, day)
	counter, err := pgx.CollectOneRow(rows, pgx.RowTo[int32])
	if err != nil {
		return "", fmt.Errorf("db error: %w", err)
	}

	return fmt.Sprintf("INV-%s-%04d", day.Format("20060102"), counter), nil
}
