package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/priatmojo/washpool/internal/handlers/middleware"
	"github.com/priatmojo/washpool/internal/logger"
	"github.com/priatmojo/washpool/internal/models"
	"github.com/priatmojo/washpool/internal/repository"
	"github.com/priatmojo/washpool/internal/service/payout"
	"github.com/priatmojo/washpool/internal/service/report"
	"github.com/priatmojo/washpool/internal/service/transaction"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(
	transactionService transactionService,
	payoutService payoutService,
	reportService reportService,
	storage repository.Storage,
	logger logger.Logger,
) http.Handler {
	api := http.NewServeMux()

	api.Handle("POST /transactions", handleCreateTransaction(transactionService, logger))
	api.Handle("GET /transactions", handleListTransactions(transactionService, logger))
	api.Handle("GET /transactions/{id}", handleGetTransaction(transactionService, logger))
	api.Handle("PATCH /transactions/{id}/status", handleUpdateTransactionStatus(transactionService, logger))
	api.Handle("DELETE /transactions/{id}", handleDeleteTransaction(transactionService, logger))

	api.Handle("POST /payouts/weeks/{date}", handleAllocateWeek(payoutService, logger))
	api.Handle("GET /payouts/weeks/{date}", handleListWeekEarnings(payoutService, logger))
	api.Handle("GET /payouts/staffs/{id}", handleListStaffEarnings(payoutService, logger))
	api.Handle("POST /payouts/{id}/pay", handleMarkEarningPaid(payoutService, logger))

	api.Handle("GET /reports/staff-performance", handleStaffPerformance(reportService, logger))
	api.Handle("GET /reports/daily", handleDailySummary(reportService, logger))
	api.Handle("GET /reports/monthly", handleMonthlyRevenue(reportService, logger))
	api.Handle("GET /reports/wash-types", handleWashTypeRevenue(reportService, logger))

	api.Handle("POST /staffs", handleCreateStaff(storage.Staff(), logger))
	api.Handle("GET /staffs", handleListStaff(storage.Staff(), logger))
	api.Handle("PATCH /staffs/{id}/active", handleSetStaffActive(storage.Staff(), logger))
	api.Handle("POST /customers", handleCreateCustomer(storage.Customer(), logger))
	api.Handle("GET /customers", handleListCustomers(storage.Customer(), logger))
	api.Handle("POST /wash-types", handleCreateWashType(storage.WashType(), logger))
	api.Handle("GET /wash-types", handleListWashTypes(storage.WashType(), logger))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))

	handler := chain(root,
		middleware.LoggerMiddleware(logger),
	)

	return handler
}

type transactionService interface {
	// Create has to compute and freeze the owner/pool split and assign
	// the invoice number atomically with the staff attachment
	Create(ctx context.Context, p transaction.CreateParams) (models.Transaction, error)

	Get(ctx context.Context, id uuid.UUID) (models.Transaction, error)
	List(ctx context.Context, filter repository.TransactionFilter) ([]models.Transaction, error)

	// Has to return apperrors.ErrTransactionNotFound for unknown ids
	UpdateStatus(ctx context.Context, id uuid.UUID, u transaction.StatusUpdate) (models.Transaction, error)

	// Has to return apperrors.ErrTransactionNotFound for unknown ids
	Delete(ctx context.Context, id uuid.UUID) error
}

type payoutService interface {
	// Allocate the week's staff pool; re-running replaces the stored rows
	Allocate(ctx context.Context, week payout.Week) (payout.Result, error)

	ListWeek(ctx context.Context, week payout.Week) ([]models.WeeklyStaffEarning, error)
	ListByStaff(ctx context.Context, staffID int64, from payout.Week, to payout.Week) ([]models.WeeklyStaffEarning, error)

	// Has to return apperrors.ErrEarningNotFound for unknown ids
	MarkPaid(ctx context.Context, id uuid.UUID) (models.WeeklyStaffEarning, error)
}

type reportService interface {
	StaffPerformance(ctx context.Context, from time.Time, to time.Time) (report.StaffPerformance, error)
	DailySummary(ctx context.Context, day time.Time) (repository.DailyStats, error)
	MonthlyRevenue(ctx context.Context, month time.Time) (report.MonthlyRevenue, error)
	WashTypeRevenue(ctx context.Context, from time.Time, to time.Time) (report.WashTypeRevenue, error)
}
