package models

import (
	"time"

	"github.com/google/uuid"
)

// WeeklyStaffEarning is one staff member's cut of a week's staff pool.
// Exactly one row exists per (staff, week start); re-running the weekly
// allocation replaces the row instead of duplicating it.
//
// Earning is the equal split floor(TotalPool / StaffCount). The floor
// remainder is left unassigned on purpose.
type WeeklyStaffEarning struct {
	ID               uuid.UUID
	CreatedAt        time.Time
	StaffID          int64
	WeekStart        time.Time
	WeekEnd          time.Time
	TotalPool        int64
	StaffCount       int
	Earning          int64
	TransactionCount int
	IsPaid           bool
	PaidAt           *time.Time
}
