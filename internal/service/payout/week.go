package payout

import (
	"time"

	"github.com/priatmojo/washpool/internal/apperrors"
)

// Week is a Monday..Sunday allocation window. Start and End are dates at
// midnight; both days belong to the week.
type Week struct {
	Start time.Time
	End   time.Time
}

// WeekOf returns the week containing t
func WeekOf(t time.Time) Week {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())

	// time.Weekday counts Sunday as 0, shift so Monday is 0
	offset := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -offset)

	return Week{Start: start, End: start.AddDate(0, 0, 6)}
}

// WeekStarting builds a week from its Monday
func WeekStarting(start time.Time) (Week, error) {
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	if day.Weekday() != time.Monday {
		return Week{}, apperrors.ErrInvalidWeek
	}

	return Week{Start: day, End: day.AddDate(0, 0, 6)}, nil
}

// Bounds returns the half-open [from, to) range covering the whole week,
// ready for created_at comparisons
func (w Week) Bounds() (from time.Time, to time.Time) {
	return w.Start, w.Start.AddDate(0, 0, 7)
}

func (w Week) validate() error {
	if w.Start.Weekday() != time.Monday || !w.End.Equal(w.Start.AddDate(0, 0, 6)) {
		return apperrors.ErrInvalidWeek
	}

	return nil
}
