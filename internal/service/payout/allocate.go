package payout

import (
	"maps"
	"slices"

	"github.com/priatmojo/washpool/internal/models"
)

// StaffShare is one staff member's slice of an allocation
type StaffShare struct {
	StaffID          int64
	TransactionCount int
}

type Allocation struct {
	TotalPool  int64
	StaffCount int

	// Every working staff member receives exactly EqualShare =
	// TotalPool / StaffCount rounded down. The division remainder is
	// not assigned to anyone.
	EqualShare int64

	// Sorted by staff id
	Shares []StaffShare
}

// ComputeAllocation derives the equal split of the staff pool from the
// window's paid transactions. Unpaid transactions are ignored entirely:
// they contribute neither pool money nor transaction counts. A staff
// member counts once no matter how many jobs they worked.
func ComputeAllocation(transactions []models.Transaction) Allocation {
	var a Allocation

	counts := make(map[int64]int)
	for _, t := range transactions {
		if !t.IsPaid() {
			continue
		}

		a.TotalPool += t.StaffPool

		seen := make(map[int64]bool, len(t.StaffIDs))
		for _, id := range t.StaffIDs {
			if seen[id] {
				continue
			}
			seen[id] = true
			counts[id]++
		}
	}

	a.StaffCount = len(counts)
	if a.StaffCount == 0 {
		return a
	}

	a.EqualShare = a.TotalPool / int64(a.StaffCount)

	a.Shares = make([]StaffShare, 0, a.StaffCount)
	for _, id := range slices.Sorted(maps.Keys(counts)) {
		a.Shares = append(a.Shares, StaffShare{StaffID: id, TransactionCount: counts[id]})
	}

	return a
}
