package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/priatmojo/washpool/internal/models"
)

// TransactionFilter narrows List results. Zero values mean "no filter".
type TransactionFilter struct {
	PaymentStatus string
	WashStatus    string
	CreatedFrom   *time.Time
	CreatedTo     *time.Time

	// Matches invoice number or license plate, case insensitive
	Search string

	Limit int
}

// StatusPatch carries optional status updates for a transaction.
// Nil fields are left untouched.
type StatusPatch struct {
	WashStatus    *string
	PaymentStatus *string
	PaidAt        *time.Time
}

// DailyStats is the dashboard summary for a single day
type DailyStats struct {
	TransactionCount int64
	PaidRevenue      int64
	PendingPayments  int64
	CarsInProgress   int64
}

// DailyRevenue is one day's slice of the monthly revenue report
type DailyRevenue struct {
	Day              time.Time
	TransactionCount int64
	Revenue          int64
}

// WashTypeRevenue is paid revenue grouped by wash type. Types with no
// paid transactions in the range still appear with zero counts.
type WashTypeRevenue struct {
	WashTypeID       int64
	Name             string
	TransactionCount int64
	Revenue          int64
}

// Staff repository interface
type StaffRepo interface {
	Create(ctx context.Context, name string, phone string) (models.Staff, error)

	// If staff not found must return apperrors.ErrStaffNotFound
	GetByID(ctx context.Context, id int64) (models.Staff, error)

	List(ctx context.Context, onlyActive bool) ([]models.Staff, error)
	ListByIDs(ctx context.Context, ids []int64) ([]models.Staff, error)

	// If staff not found must return apperrors.ErrStaffNotFound
	SetActive(ctx context.Context, id int64, active bool) (models.Staff, error)
}

type CustomerRepo interface {
	Create(ctx context.Context, c models.Customer) (models.Customer, error)

	// If customer not found must return apperrors.ErrCustomerNotFound
	GetByID(ctx context.Context, id int64) (models.Customer, error)

	List(ctx context.Context) ([]models.Customer, error)
}

type WashTypeRepo interface {
	Create(ctx context.Context, wt models.WashType) (models.WashType, error)

	// If wash type not found must return apperrors.ErrWashTypeNotFound
	GetByID(ctx context.Context, id int64) (models.WashType, error)

	List(ctx context.Context, onlyActive bool) ([]models.WashType, error)
}

// Invoice number repository interface
type InvoiceRepo interface {
	// Reserve the next invoice number for the given day.
	// The counter increments atomically in the database, so concurrent
	// callers never receive the same number. Format: INV-YYYYMMDD-NNNN.
	NextNumber(ctx context.Context, day time.Time) (string, error)
}

// Transaction repository interface
type TransactionRepo interface {
	// Insert the transaction row together with its staff assignments.
	// Must run on a db transaction when atomicity with other writes is
	// required (see Storage.InTx).
	// If the invoice number exists must return apperrors.ErrInvoiceNumberTaken
	Create(ctx context.Context, t models.Transaction) (models.Transaction, error)

	// If transaction not found must return apperrors.ErrTransactionNotFound
	Get(ctx context.Context, id uuid.UUID) (models.Transaction, error)

	List(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error)

	// Apply status patch. Never touches price or the share columns.
	// If transaction not found must return apperrors.ErrTransactionNotFound
	UpdateStatus(ctx context.Context, id uuid.UUID, patch StatusPatch) (models.Transaction, error)

	// If transaction not found must return apperrors.ErrTransactionNotFound
	Delete(ctx context.Context, id uuid.UUID) error

	// Paid transactions created in [from, to) with staff ids loaded
	ListPaidCreatedBetween(ctx context.Context, from time.Time, to time.Time) ([]models.Transaction, error)

	DailyStats(ctx context.Context, day time.Time) (DailyStats, error)

	// Paid revenue per day for the month containing the given date
	MonthlyRevenue(ctx context.Context, month time.Time) ([]DailyRevenue, error)

	// Paid revenue per wash type for transactions created in [from, to)
	RevenueByWashType(ctx context.Context, from time.Time, to time.Time) ([]WashTypeRevenue, error)
}

// Weekly earning repository interface
type EarningRepo interface {
	// Insert or replace the earning keyed by (staff_id, week_start)
	Upsert(ctx context.Context, e models.WeeklyStaffEarning) (models.WeeklyStaffEarning, error)

	CountWeek(ctx context.Context, weekStart time.Time) (int64, error)

	// Remove the week's rows for staff not present in keepStaffIDs.
	// Used on re-allocation so staff who no longer qualify don't keep
	// stale rows. Returns the number of deleted rows.
	DeleteWeekExcept(ctx context.Context, weekStart time.Time, keepStaffIDs []int64) (int64, error)

	ListWeek(ctx context.Context, weekStart time.Time) ([]models.WeeklyStaffEarning, error)
	ListByStaff(ctx context.Context, staffID int64, from time.Time, to time.Time) ([]models.WeeklyStaffEarning, error)

	// If earning not found must return apperrors.ErrEarningNotFound
	MarkPaid(ctx context.Context, id uuid.UUID) (models.WeeklyStaffEarning, error)
}

// Storage bundles all repositories running on the same connection or
// transaction
type Storage interface {
	Staff() StaffRepo
	Customer() CustomerRepo
	WashType() WashTypeRepo
	Invoice() InvoiceRepo
	Transaction() TransactionRepo
	Earning() EarningRepo

	// Run fn with a Storage bound to a single db transaction.
	// Commits when fn returns nil, rolls back otherwise.
	InTx(ctx context.Context, fn func(Storage) error) error
}
