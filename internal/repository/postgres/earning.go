package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/priatmojo/washpool/internal/apperrors"
	"github.com/priatmojo/washpool/internal/models"
)

type EarningRepo struct {
	DB DBTX
}

// Replaces the allocation amounts on conflict but keeps is_paid/paid_at:
// a payout that already happened stays recorded even when the week is
// re-allocated.
const upsertEarning = `-- name: UpsertEarning
INSERT INTO weekly_staff_earnings (
	id, created_at, staff_id, week_start, week_end,
	total_pool, staff_count, earning, transaction_count
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (staff_id, week_start) DO UPDATE SET
	week_end = EXCLUDED.week_end,
	total_pool = EXCLUDED.total_pool,
	staff_count = EXCLUDED.staff_count,
	earning = EXCLUDED.earning,
	transaction_count = EXCLUDED.transaction_count
RETURNING id, created_at, staff_id, week_start, week_end,
	total_pool, staff_count, earning, transaction_count, is_paid, paid_at
`

func (r *EarningRepo) Upsert(ctx context.Context, e models.WeeklyStaffEarning) (models.WeeklyStaffEarning, error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	rows, _ := r.DB.Query(ctx, upsertEarning,
		e.ID, e.CreatedAt, e.StaffID, e.WeekStart, e.WeekEnd,
		e.TotalPool, e.StaffCount, e.Earning, e.TransactionCount,
	)
	earning, err := pgx.CollectOneRow(rows, rowToEarning)
	if err != nil {
		return earning, fmt.Errorf("db error: %w", err)
	}

	return earning, nil
}

const countWeekEarnings = `-- name: CountWeekEarnings
SELECT count(*) FROM weekly_staff_earnings
WHERE week_start = $1
`

func (r *EarningRepo) CountWeek(ctx context.Context, weekStart time.Time) (int64, error) {
	var count int64
	err := r.DB.QueryRow(ctx, countWeekEarnings, weekStart).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return count, nil
}

const deleteWeekExcept = `-- name: DeleteWeekExcept
DELETE FROM weekly_staff_earnings
WHERE week_start = $1 AND NOT (staff_id = ANY($2))
`

func (r *EarningRepo) DeleteWeekExcept(ctx context.Context, weekStart time.Time, keepStaffIDs []int64) (int64, error) {
	tag, err := r.DB.Exec(ctx, deleteWeekExcept, weekStart, keepStaffIDs)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return tag.RowsAffected(), nil
}

const listWeekEarnings = `-- name: ListWeekEarnings
SELECT id, created_at, staff_id, week_start, week_end,
	total_pool, staff_count, earning, transaction_count, is_paid, paid_at
FROM weekly_staff_earnings
WHERE week_start = $1
ORDER BY staff_id
`

func (r *EarningRepo) ListWeek(ctx context.Context, weekStart time.Time) ([]models.WeeklyStaffEarning, error) {
	rows, _ := r.DB.Query(ctx, listWeekEarnings, weekStart)
	earnings, err := pgx.CollectRows(rows, rowToEarning)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return earnings, nil
}

const listEarningsByStaff = `-- name: ListEarningsByStaff
SELECT id, created_at, staff_id, week_start, week_end,
	total_pool, staff_count, earning, transaction_count, is_paid, paid_at
FROM weekly_staff_earnings
WHERE staff_id = $1 AND week_start >= $2 AND week_start <= $3
ORDER BY week_start
`

func (r *EarningRepo) ListByStaff(ctx context.Context, staffID int64, from time.Time, to time.Time) ([]models.WeeklyStaffEarning, error) {
	rows, _ := r.DB.Query(ctx, listEarningsByStaff, staffID, from, to)
	earnings, err := pgx.CollectRows(rows, rowToEarning)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return earnings, nil
}

const markEarningPaid = `-- name: MarkEarningPaid
UPDATE weekly_staff_earnings
SET is_paid = true, paid_at = COALESCE(paid_at, $2)
WHERE id = $1
RETURNING id, created_at, staff_id, week_start, week_end,
	total_pool, staff_count, earning, transaction_count, is_paid, paid_at
`

func (r *EarningRepo) MarkPaid(ctx context.Context, id uuid.UUID) (models.WeeklyStaffEarning, error) {
	rows, _ := r.DB.Query(ctx, markEarningPaid, id, time.Now())
	earning, err := pgx.CollectOneRow(rows, rowToEarning)

	switch {
	case err == nil:
		return earning, nil
	case errors.Is(err, pgx.ErrNoRows):
		return earning, apperrors.ErrEarningNotFound
	default:
		return earning, fmt.Errorf("db error: %w", err)
	}
}

func rowToEarning(row pgx.CollectableRow) (models.WeeklyStaffEarning, error) {
	var e models.WeeklyStaffEarning
	err := row.Scan(
		&e.ID, &e.CreatedAt, &e.StaffID, &e.WeekStart, &e.WeekEnd,
		&e.TotalPool, &e.StaffCount, &e.Earning, &e.TransactionCount, &e.IsPaid, &e.PaidAt,
	)
	return e, err
}
