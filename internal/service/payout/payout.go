// Package payout allocates each week's accumulated staff pool equally
// among the staff who worked that week.
package payout

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/priatmojo/washpool/internal/apperrors"
	"github.com/priatmojo/washpool/internal/logger"
	"github.com/priatmojo/washpool/internal/models"
	"github.com/priatmojo/washpool/internal/repository"
)

type Service struct {
	storage repository.Storage
	logger  logger.Logger
}

func NewService(storage repository.Storage, l logger.Logger) *Service {
	if l == nil {
		l = logger.NewNoOpLogger()
	}

	return &Service{
		storage: storage,
		logger:  l,
	}
}

// Result of one allocation run
type Result struct {
	Week       Week
	TotalPool  int64
	StaffCount int
	EqualShare int64
	Earnings   []models.WeeklyStaffEarning

	// Replaced reports that the week had earnings from an earlier run
	// and they were overwritten. Not an error: the caller warned the
	// user that re-running replaces the previous allocation.
	Replaced bool
}

// Allocate computes and persists the week's earnings, one row per
// working staff member keyed by (staff_id, week_start). Re-running for
// the same week replaces the previous rows; with unchanged transaction
// data the outcome is identical.
func (s *Service) Allocate(ctx context.Context, week Week) (Result, error) {
	res := Result{Week: week}

	if err := week.validate(); err != nil {
		return res, err
	}

	from, to := week.Bounds()
	transactions, err := s.storage.Transaction().ListPaidCreatedBetween(ctx, from, to)
	if err != nil {
		return res, fmt.Errorf("loading week transactions: %w", err)
	}

	alloc := ComputeAllocation(transactions)
	res.TotalPool = alloc.TotalPool
	res.StaffCount = alloc.StaffCount
	res.EqualShare = alloc.EqualShare

	// Nobody worked: produce no rows at all, not zero-earning rows
	if alloc.StaffCount == 0 {
		s.logger.Info("no working staff in week, nothing to allocate", "week_start", week.Start.Format("2006-01-02"))
		return res, nil
	}

	keep := make([]int64, 0, len(alloc.Shares))
	for _, sh := range alloc.Shares {
		keep = append(keep, sh.StaffID)
	}

	err = s.storage.InTx(ctx, func(st repository.Storage) error {
		existing, err := st.Earning().CountWeek(ctx, week.Start)
		if err != nil {
			return err
		}
		res.Replaced = existing > 0

		if _, err := st.Earning().DeleteWeekExcept(ctx, week.Start, keep); err != nil {
			return err
		}

		res.Earnings = res.Earnings[:0]
		for _, sh := range alloc.Shares {
			earning, err := st.Earning().Upsert(ctx, models.WeeklyStaffEarning{
				StaffID:          sh.StaffID,
				WeekStart:        week.Start,
				WeekEnd:          week.End,
				TotalPool:        alloc.TotalPool,
				StaffCount:       alloc.StaffCount,
				Earning:          alloc.EqualShare,
				TransactionCount: sh.TransactionCount,
			})
			if err != nil {
				return err
			}
			res.Earnings = append(res.Earnings, earning)
		}

		return nil
	})
	if err != nil {
		return res, fmt.Errorf("allocating week: %w", err)
	}

	if res.Replaced {
		s.logger.Warn("week was already allocated, previous earnings overwritten",
			"week_start", week.Start.Format("2006-01-02"),
			"staff_count", res.StaffCount,
		)
	}

	return res, nil
}

func (s *Service) ListWeek(ctx context.Context, week Week) ([]models.WeeklyStaffEarning, error) {
	if err := week.validate(); err != nil {
		return nil, err
	}

	return s.storage.Earning().ListWeek(ctx, week.Start)
}

func (s *Service) ListByStaff(ctx context.Context, staffID int64, from Week, to Week) ([]models.WeeklyStaffEarning, error) {
	if to.Start.Before(from.Start) {
		return nil, fmt.Errorf("listing staff earnings: %w", apperrors.ErrInvalidWeek)
	}

	return s.storage.Earning().ListByStaff(ctx, staffID, from.Start, to.Start)
}

// MarkPaid records that the business handed the money over
func (s *Service) MarkPaid(ctx context.Context, id uuid.UUID) (models.WeeklyStaffEarning, error) {
	return s.storage.Earning().MarkPaid(ctx, id)
}
