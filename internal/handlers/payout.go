package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/priatmojo/washpool/internal/apperrors"
	"github.com/priatmojo/washpool/internal/handlers/render"
	"github.com/priatmojo/washpool/internal/logger"
	"github.com/priatmojo/washpool/internal/models"
	"github.com/priatmojo/washpool/internal/service/payout"
)

type EarningResponse struct {
	ID               uuid.UUID  `json:"id"`
	StaffID          int64      `json:"staff_id"`
	WeekStart        string     `json:"week_start"`
	WeekEnd          string     `json:"week_end"`
	TotalPool        int64      `json:"total_pool"`
	StaffCount       int        `json:"staff_count"`
	Earning          int64      `json:"earning"`
	TransactionCount int        `json:"transaction_count"`
	IsPaid           bool       `json:"is_paid"`
	PaidAt           *time.Time `json:"paid_at,omitempty"`
}

func toEarningResponse(e models.WeeklyStaffEarning) EarningResponse {
	return EarningResponse{
		ID:               e.ID,
		StaffID:          e.StaffID,
		WeekStart:        e.WeekStart.Format("2006-01-02"),
		WeekEnd:          e.WeekEnd.Format("2006-01-02"),
		TotalPool:        e.TotalPool,
		StaffCount:       e.StaffCount,
		Earning:          e.Earning,
		TransactionCount: e.TransactionCount,
		IsPaid:           e.IsPaid,
		PaidAt:           e.PaidAt,
	}
}

// weekFromPath resolves the {date} path segment to the week containing it
func weekFromPath(r *http.Request) (payout.Week, error) {
	date, err := time.Parse("2006-01-02", r.PathValue("date"))
	if err != nil {
		return payout.Week{}, err
	}

	return payout.WeekOf(date), nil
}

func handleAllocateWeek(ps payoutService, l logger.Logger) http.Handler {
	type response struct {
		WeekStart  string            `json:"week_start"`
		WeekEnd    string            `json:"week_end"`
		TotalPool  int64             `json:"total_pool"`
		StaffCount int               `json:"staff_count"`
		EqualShare int64             `json:"equal_share"`
		Replaced   bool              `json:"replaced"`
		Earnings   []EarningResponse `json:"earnings"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		week, err := weekFromPath(r)
		if err != nil {
			render.ServiceError(w, "Invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		result, err := ps.Allocate(r.Context(), week)

		switch {
		case err == nil:
			res := response{
				WeekStart:  result.Week.Start.Format("2006-01-02"),
				WeekEnd:    result.Week.End.Format("2006-01-02"),
				TotalPool:  result.TotalPool,
				StaffCount: result.StaffCount,
				EqualShare: result.EqualShare,
				Replaced:   result.Replaced,
				Earnings:   make([]EarningResponse, 0, len(result.Earnings)),
			}
			for _, e := range result.Earnings {
				res.Earnings = append(res.Earnings, toEarningResponse(e))
			}
			render.JSONWithStatus(w, res, http.StatusCreated)
		case errors.Is(err, apperrors.ErrInvalidWeek):
			render.ServiceError(w, "Invalid week", http.StatusBadRequest)
		default:
			l.Error("Failed to allocate week", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleListWeekEarnings(ps payoutService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		week, err := weekFromPath(r)
		if err != nil {
			render.ServiceError(w, "Invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		earnings, err := ps.ListWeek(r.Context(), week)
		if err != nil {
			l.Error("Failed to list week earnings", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		response := make([]EarningResponse, 0, len(earnings))
		for _, e := range earnings {
			response = append(response, toEarningResponse(e))
		}
		render.JSON(w, response)
	})
}

func handleListStaffEarnings(ps payoutService, l logger.Logger) http.Handler {
	// Without date params the listing covers the last 12 weeks
	const defaultWeeksBack = 12

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		staffID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			render.ServiceError(w, "Invalid staff id", http.StatusBadRequest)
			return
		}

		now := time.Now()
		to := payout.WeekOf(now)
		from := payout.WeekOf(now.AddDate(0, 0, -defaultWeeksBack*7))

		if v := r.URL.Query().Get("date_from"); v != "" {
			date, err := time.Parse("2006-01-02", v)
			if err != nil {
				render.ServiceError(w, "Invalid date_from, expected YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			from = payout.WeekOf(date)
		}
		if v := r.URL.Query().Get("date_to"); v != "" {
			date, err := time.Parse("2006-01-02", v)
			if err != nil {
				render.ServiceError(w, "Invalid date_to, expected YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			to = payout.WeekOf(date)
		}

		earnings, err := ps.ListByStaff(r.Context(), staffID, from, to)

		switch {
		case err == nil:
			response := make([]EarningResponse, 0, len(earnings))
			for _, e := range earnings {
				response = append(response, toEarningResponse(e))
			}
			render.JSON(w, response)
		case errors.Is(err, apperrors.ErrInvalidWeek):
			render.ServiceError(w, "date_from must not be after date_to", http.StatusBadRequest)
		default:
			l.Error("Failed to list staff earnings", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleMarkEarningPaid(ps payoutService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			render.ServiceError(w, "Invalid earning id", http.StatusBadRequest)
			return
		}

		earning, err := ps.MarkPaid(r.Context(), id)

		switch {
		case err == nil:
			render.JSON(w, toEarningResponse(earning))
		case errors.Is(err, apperrors.ErrEarningNotFound):
			render.ServiceError(w, "Earning not found", http.StatusNotFound)
		default:
			l.Error("Failed to mark earning paid", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
