package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/priatmojo/washpool/internal/apperrors"
	"github.com/priatmojo/washpool/internal/models"
	"github.com/priatmojo/washpool/internal/repository"
)

type TransactionRepo struct {
	DB DBTX
}

const insertTransaction = `-- name: InsertTransaction
INSERT INTO transactions (
	id, created_at, invoice_number, customer_id, wash_type_id, license_plate,
	price, owner_share, staff_pool, payment_status, wash_status, notes, paid_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
`

const attachStaffs = `-- name: AttachStaffs
INSERT INTO transaction_staffs (transaction_id, staff_id)
SELECT $1, unnest($2::bigint[])
`

// Create inserts the transaction row and its staff assignments. Callers
// needing atomicity with the invoice counter must run it inside
// Storage.InTx so every statement shares one db transaction.
func (r *TransactionRepo) Create(ctx context.Context, t models.Transaction) (models.Transaction, error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}

	_, err := r.DB.Exec(ctx, insertTransaction,
		t.ID, t.CreatedAt, t.InvoiceNumber, t.CustomerID, t.WashTypeID, t.LicensePlate,
		t.Price, t.OwnerShare, t.StaffPool, t.PaymentStatus, t.WashStatus, t.Notes, t.PaidAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return t, apperrors.ErrInvoiceNumberTaken
		}
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return t, r.foreignKeyError(pgErr)
		}

		return t, fmt.Errorf("db error: %w", err)
	}

	_, err = r.DB.Exec(ctx, attachStaffs, t.ID, t.StaffIDs)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return t, apperrors.ErrStaffNotFound
		}

		return t, fmt.Errorf("db error: %w", err)
	}

	return r.Get(ctx, t.ID)
}

func (r *TransactionRepo) foreignKeyError(pgErr *pgconn.PgError) error {
	switch {
	case strings.Contains(pgErr.ConstraintName, "customer"):
		return apperrors.ErrCustomerNotFound
	case strings.Contains(pgErr.ConstraintName, "wash_type"):
		return apperrors.ErrWashTypeNotFound
	default:
		return fmt.Errorf("db error: %w", pgErr)
	}
}

const selectTransaction = `
SELECT
	t.id, t.created_at, t.invoice_number, t.customer_id, t.wash_type_id, t.license_plate,
	t.price, t.owner_share, t.staff_pool, t.payment_status, t.wash_status, t.notes, t.paid_at,
	COALESCE(array_agg(ts.staff_id ORDER BY ts.staff_id) FILTER (WHERE ts.staff_id IS NOT NULL), '{}') AS staff_ids
FROM transactions t
LEFT JOIN transaction_staffs ts ON ts.transaction_id = t.id
`

func (r *TransactionRepo) Get(ctx context.Context, id uuid.UUID) (models.Transaction, error) {
	query := selectTransaction + `
	WHERE t.id = $1
	GROUP BY t.id
	`

	rows, _ := r.DB.Query(ctx, query, id)
	t, err := pgx.CollectOneRow(rows, rowToTransaction)

	switch {
	case err == nil:
		return t, nil
	case errors.Is(err, pgx.ErrNoRows):
		return t, apperrors.ErrTransactionNotFound
	default:
		return t, fmt.Errorf("db error: %w", err)
	}
}

func (r *TransactionRepo) List(ctx context.Context, filter repository.TransactionFilter) ([]models.Transaction, error) {
	var conds []string
	var args []any

	add := func(cond string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.PaymentStatus != "" {
		add("t.payment_status = $%d", filter.PaymentStatus)
	}
	if filter.WashStatus != "" {
		add("t.wash_status = $%d", filter.WashStatus)
	}
	if filter.CreatedFrom != nil {
		add("t.created_at >= $%d", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		add("t.created_at < $%d", *filter.CreatedTo)
	}
	if filter.Search != "" {
		args = append(args, filter.Search)
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(t.invoice_number ILIKE '%%' || $%d || '%%' OR t.license_plate ILIKE '%%' || $%d || '%%')", n, n,
		))
	}

	query := selectTransaction
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " GROUP BY t.id ORDER BY t.created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, _ := r.DB.Query(ctx, query, args...)
	transactions, err := pgx.CollectRows(rows, rowToTransaction)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return transactions, nil
}

const updateTransactionStatus = `-- name: UpdateTransactionStatus
UPDATE transactions
SET wash_status = COALESCE($2, wash_status),
    payment_status = COALESCE($3, payment_status),
    paid_at = COALESCE($4, paid_at)
WHERE id = $1
RETURNING id
`

// UpdateStatus patches status fields only. Price and the share columns
// are frozen at creation and have no update path.
func (r *TransactionRepo) UpdateStatus(ctx context.Context, id uuid.UUID, patch repository.StatusPatch) (models.Transaction, error) {
	rows, _ := r.DB.Query(ctx, updateTransactionStatus, id, patch.WashStatus, patch.PaymentStatus, patch.PaidAt)
	_, err := pgx.CollectOneRow(rows, pgx.RowTo[uuid.UUID])

	switch {
	case err == nil:
		return r.Get(ctx, id)
	case errors.Is(err, pgx.ErrNoRows):
		return models.Transaction{}, apperrors.ErrTransactionNotFound
	default:
		return models.Transaction{}, fmt.Errorf("db error: %w", err)
	}
}

const deleteTransaction = `-- name: DeleteTransaction
DELETE FROM transactions
WHERE id = $1
`

// Delete removes the transaction and, via cascade, its staff links.
// Weekly earnings already allocated from it are kept as recorded.
func (r *TransactionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deleteTransaction, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrTransactionNotFound
	}

	return nil
}

func (r *TransactionRepo) ListPaidCreatedBetween(ctx context.Context, from time.Time, to time.Time) ([]models.Transaction, error) {
	query := selectTransaction + `
	WHERE t.payment_status = 'paid' AND t.created_at >= $1 AND t.created_at < $2
	GROUP BY t.id
	ORDER BY t.created_at
	`

	rows, _ := r.DB.Query(ctx, query, from, to)
	transactions, err := pgx.CollectRows(rows, rowToTransaction)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return transactions, nil
}

const dailyStats = `-- name: DailyStats
SELECT
	count(*) FILTER (WHERE created_at >= $1 AND created_at < $2),
	COALESCE(sum(price) FILTER (WHERE payment_status = 'paid' AND created_at >= $1 AND created_at < $2), 0),
	count(*) FILTER (WHERE payment_status = 'unpaid'),
	count(*) FILTER (WHERE wash_status = 'washing')
FROM transactions
`

func (r *TransactionRepo) DailyStats(ctx context.Context, day time.Time) (repository.DailyStats, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var stats repository.DailyStats
	err := r.DB.QueryRow(ctx, dailyStats, dayStart, dayEnd).Scan(
		&stats.TransactionCount, &stats.PaidRevenue, &stats.PendingPayments, &stats.CarsInProgress,
	)
	if err != nil {
		return stats, fmt.Errorf("db error: %w", err)
	}

	return stats, nil
}

const monthlyRevenue = `-- name: MonthlyRevenue
SELECT created_at::date AS day, count(*), sum(price)
FROM transactions
WHERE payment_status = 'paid' AND created_at >= $1 AND created_at < $2
GROUP BY day
ORDER BY day
`

func (r *TransactionRepo) MonthlyRevenue(ctx context.Context, month time.Time) ([]repository.DailyRevenue, error) {
	monthStart := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	rows, _ := r.DB.Query(ctx, monthlyRevenue, monthStart, monthEnd)
	days, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.DailyRevenue, error) {
		var d repository.DailyRevenue
		err := row.Scan(&d.Day, &d.TransactionCount, &d.Revenue)
		return d, err
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return days, nil
}

// Left join keeps wash types without paid transactions in the result
const revenueByWashType = `-- name: RevenueByWashType
SELECT wt.id, wt.name, count(t.id), COALESCE(sum(t.price), 0)
FROM wash_types wt
LEFT JOIN transactions t ON t.wash_type_id = wt.id
	AND t.payment_status = 'paid'
	AND t.created_at >= $1 AND t.created_at < $2
GROUP BY wt.id, wt.name
ORDER BY wt.name
`

func (r *TransactionRepo) RevenueByWashType(ctx context.Context, from time.Time, to time.Time) ([]repository.WashTypeRevenue, error) {
	rows, _ := r.DB.Query(ctx, revenueByWashType, from, to)
	types, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.WashTypeRevenue, error) {
		var wt repository.WashTypeRevenue
		err := row.Scan(&wt.WashTypeID, &wt.Name, &wt.TransactionCount, &wt.Revenue)
		return wt, err
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return types, nil
}

func rowToTransaction(row pgx.CollectableRow) (models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(
		&t.ID, &t.CreatedAt, &t.InvoiceNumber, &t.CustomerID, &t.WashTypeID, &t.LicensePlate,
		&t.Price, &t.OwnerShare, &t.StaffPool, &t.PaymentStatus, &t.WashStatus, &t.Notes, &t.PaidAt,
		&t.StaffIDs,
	)
	return t, err
}
