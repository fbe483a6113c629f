// Package report aggregates stored transaction data for presentation.
// Nothing here writes to the database.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/priatmojo/washpool/internal/apperrors"
	"github.com/priatmojo/washpool/internal/models"
	"github.com/priatmojo/washpool/internal/repository"
	"github.com/priatmojo/washpool/internal/service/payout"
)

type Service struct {
	storage repository.Storage
}

func NewService(storage repository.Storage) *Service {
	return &Service{storage: storage}
}

type StaffLine struct {
	Staff            models.Staff
	TransactionCount int
	Share            int64
}

// StaffPerformance mirrors the weekly allocation arithmetic over an
// arbitrary date range without persisting anything
type StaffPerformance struct {
	From              time.Time
	To                time.Time
	TotalPool         int64
	TotalTransactions int
	StaffCount        int
	EqualShare        int64
	Lines             []StaffLine
}

// StaffPerformance aggregates paid transactions created between from
// and to, both dates inclusive.
func (s *Service) StaffPerformance(ctx context.Context, from time.Time, to time.Time) (StaffPerformance, error) {
	rep := StaffPerformance{From: from, To: to}

	if to.Before(from) {
		return rep, apperrors.ErrInvalidDateRange
	}

	transactions, err := s.storage.Transaction().ListPaidCreatedBetween(ctx, from, to.AddDate(0, 0, 1))
	if err != nil {
		return rep, fmt.Errorf("loading transactions: %w", err)
	}

	alloc := payout.ComputeAllocation(transactions)
	rep.TotalPool = alloc.TotalPool
	rep.TotalTransactions = len(transactions)
	rep.StaffCount = alloc.StaffCount
	rep.EqualShare = alloc.EqualShare

	if alloc.StaffCount == 0 {
		return rep, nil
	}

	ids := make([]int64, 0, len(alloc.Shares))
	for _, sh := range alloc.Shares {
		ids = append(ids, sh.StaffID)
	}

	staffs, err := s.storage.Staff().ListByIDs(ctx, ids)
	if err != nil {
		return rep, fmt.Errorf("loading staff: %w", err)
	}

	byID := make(map[int64]models.Staff, len(staffs))
	for _, st := range staffs {
		byID[st.ID] = st
	}

	rep.Lines = make([]StaffLine, 0, len(alloc.Shares))
	for _, sh := range alloc.Shares {
		rep.Lines = append(rep.Lines, StaffLine{
			Staff:            byID[sh.StaffID],
			TransactionCount: sh.TransactionCount,
			Share:            alloc.EqualShare,
		})
	}

	return rep, nil
}

// DailySummary is the dashboard view of a single day
func (s *Service) DailySummary(ctx context.Context, day time.Time) (repository.DailyStats, error) {
	return s.storage.Transaction().DailyStats(ctx, day)
}

// MonthlyRevenue is paid revenue per day over one calendar month
type MonthlyRevenue struct {
	Month             time.Time
	TotalRevenue      int64
	TotalTransactions int64
	Days              []repository.DailyRevenue
}

// MonthlyRevenue aggregates paid transactions for the calendar month
// containing the given date. Days without paid transactions are omitted.
func (s *Service) MonthlyRevenue(ctx context.Context, month time.Time) (MonthlyRevenue, error) {
	rep := MonthlyRevenue{
		Month: time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location()),
	}

	days, err := s.storage.Transaction().MonthlyRevenue(ctx, month)
	if err != nil {
		return rep, fmt.Errorf("loading monthly revenue: %w", err)
	}

	rep.Days = days
	for _, d := range days {
		rep.TotalRevenue += d.Revenue
		rep.TotalTransactions += d.TransactionCount
	}

	return rep, nil
}

// WashTypeRevenue breaks paid revenue down by wash type over a date
// range. Every wash type appears, including ones with no transactions.
type WashTypeRevenue struct {
	From              time.Time
	To                time.Time
	TotalRevenue      int64
	TotalTransactions int64
	Lines             []repository.WashTypeRevenue
}

// WashTypeRevenue aggregates paid transactions created between from and
// to, both dates inclusive.
func (s *Service) WashTypeRevenue(ctx context.Context, from time.Time, to time.Time) (WashTypeRevenue, error) {
	rep := WashTypeRevenue{From: from, To: to}

	if to.Before(from) {
		return rep, apperrors.ErrInvalidDateRange
	}

	lines, err := s.storage.Transaction().RevenueByWashType(ctx, from, to.AddDate(0, 0, 1))
	if err != nil {
		return rep, fmt.Errorf("loading wash type revenue: %w", err)
	}

	rep.Lines = lines
	for _, l := range lines {
		rep.TotalRevenue += l.Revenue
		rep.TotalTransactions += l.TransactionCount
	}

	return rep, nil
}
