package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/priatmojo/washpool/internal/apperrors"
	"github.com/priatmojo/washpool/internal/export"
	"github.com/priatmojo/washpool/internal/handlers/render"
	"github.com/priatmojo/washpool/internal/logger"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// reportRange reads date_from/date_to query params. Defaults mirror the
// report form: start of the current month up to today.
func reportRange(r *http.Request) (from time.Time, to time.Time, err error) {
	now := time.Now()
	from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if v := r.URL.Query().Get("date_from"); v != "" {
		from, err = time.Parse("2006-01-02", v)
		if err != nil {
			return from, to, fmt.Errorf("invalid date_from: %w", err)
		}
	}
	if v := r.URL.Query().Get("date_to"); v != "" {
		to, err = time.Parse("2006-01-02", v)
		if err != nil {
			return from, to, fmt.Errorf("invalid date_to: %w", err)
		}
	}

	return from, to, nil
}

func handleStaffPerformance(rs reportService, l logger.Logger) http.Handler {
	type line struct {
		StaffID          int64  `json:"staff_id"`
		Name             string `json:"name"`
		TransactionCount int    `json:"transaction_count"`
		Share            int64  `json:"share"`
	}

	type response struct {
		DateFrom          string `json:"date_from"`
		DateTo            string `json:"date_to"`
		TotalPool         int64  `json:"total_pool"`
		TotalTransactions int    `json:"total_transactions"`
		StaffCount        int    `json:"staff_count"`
		EqualShare        int64  `json:"equal_share"`
		Lines             []line `json:"staffs"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		from, to, err := reportRange(r)
		if err != nil {
			render.ServiceError(w, err.Error(), http.StatusBadRequest)
			return
		}

		rep, err := rs.StaffPerformance(r.Context(), from, to)

		switch {
		case err == nil:
		case errors.Is(err, apperrors.ErrInvalidDateRange):
			render.ServiceError(w, "date_from must not be after date_to", http.StatusBadRequest)
			return
		default:
			l.Error("Failed to build staff performance report", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		if r.URL.Query().Get("format") == "xlsx" {
			filename := fmt.Sprintf("staff-performance-%s-to-%s.xlsx",
				from.Format("2006-01-02"), to.Format("2006-01-02"))
			w.Header().Set("Content-Type", xlsxContentType)
			w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

			if err := export.StaffPerformanceXLSX(w, rep); err != nil {
				l.Error("Failed to export staff performance report", "error", err)
			}
			return
		}

		res := response{
			DateFrom:          from.Format("2006-01-02"),
			DateTo:            to.Format("2006-01-02"),
			TotalPool:         rep.TotalPool,
			TotalTransactions: rep.TotalTransactions,
			StaffCount:        rep.StaffCount,
			EqualShare:        rep.EqualShare,
			Lines:             make([]line, 0, len(rep.Lines)),
		}
		for _, ln := range rep.Lines {
			res.Lines = append(res.Lines, line{
				StaffID:          ln.Staff.ID,
				Name:             ln.Staff.Name,
				TransactionCount: ln.TransactionCount,
				Share:            ln.Share,
			})
		}
		render.JSON(w, res)
	})
}

func handleDailySummary(rs reportService, l logger.Logger) http.Handler {
	type response struct {
		Date             string `json:"date"`
		TransactionCount int64  `json:"transaction_count"`
		PaidRevenue      int64  `json:"paid_revenue"`
		PendingPayments  int64  `json:"pending_payments"`
		CarsInProgress   int64  `json:"cars_in_progress"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		day := time.Now()
		if v := r.URL.Query().Get("date"); v != "" {
			parsed, err := time.Parse("2006-01-02", v)
			if err != nil {
				render.ServiceError(w, "Invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			day = parsed
		}

		stats, err := rs.DailySummary(r.Context(), day)
		if err != nil {
			l.Error("Failed to build daily summary", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, response{
			Date:             day.Format("2006-01-02"),
			TransactionCount: stats.TransactionCount,
			PaidRevenue:      stats.PaidRevenue,
			PendingPayments:  stats.PendingPayments,
			CarsInProgress:   stats.CarsInProgress,
		})
	})
}

func handleMonthlyRevenue(rs reportService, l logger.Logger) http.Handler {
	type day struct {
		Date             string `json:"date"`
		TransactionCount int64  `json:"transaction_count"`
		Revenue          int64  `json:"revenue"`
	}

	type response struct {
		Month             string `json:"month"`
		TotalRevenue      int64  `json:"total_revenue"`
		TotalTransactions int64  `json:"total_transactions"`
		Days              []day  `json:"days"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		month := time.Now()
		if v := r.URL.Query().Get("month"); v != "" {
			parsed, err := time.Parse("2006-01", v)
			if err != nil {
				render.ServiceError(w, "Invalid month, expected YYYY-MM", http.StatusBadRequest)
				return
			}
			month = parsed
		}

		rep, err := rs.MonthlyRevenue(r.Context(), month)
		if err != nil {
			l.Error("Failed to build monthly revenue report", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		res := response{
			Month:             rep.Month.Format("2006-01"),
			TotalRevenue:      rep.TotalRevenue,
			TotalTransactions: rep.TotalTransactions,
			Days:              make([]day, 0, len(rep.Days)),
		}
		for _, d := range rep.Days {
			res.Days = append(res.Days, day{
				Date:             d.Day.Format("2006-01-02"),
				TransactionCount: d.TransactionCount,
				Revenue:          d.Revenue,
			})
		}
		render.JSON(w, res)
	})
}

func handleWashTypeRevenue(rs reportService, l logger.Logger) http.Handler {
	type line struct {
		WashTypeID       int64  `json:"wash_type_id"`
		Name             string `json:"name"`
		TransactionCount int64  `json:"transaction_count"`
		Revenue          int64  `json:"revenue"`
	}

	type response struct {
		DateFrom          string `json:"date_from"`
		DateTo            string `json:"date_to"`
		TotalRevenue      int64  `json:"total_revenue"`
		TotalTransactions int64  `json:"total_transactions"`
		Lines             []line `json:"wash_types"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		from, to, err := reportRange(r)
		if err != nil {
			render.ServiceError(w, err.Error(), http.StatusBadRequest)
			return
		}

		rep, err := rs.WashTypeRevenue(r.Context(), from, to)

		switch {
		case err == nil:
		case errors.Is(err, apperrors.ErrInvalidDateRange):
			render.ServiceError(w, "date_from must not be after date_to", http.StatusBadRequest)
			return
		default:
			l.Error("Failed to build wash type revenue report", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		res := response{
			DateFrom:          from.Format("2006-01-02"),
			DateTo:            to.Format("2006-01-02"),
			TotalRevenue:      rep.TotalRevenue,
			TotalTransactions: rep.TotalTransactions,
			Lines:             make([]line, 0, len(rep.Lines)),
		}
		for _, ln := range rep.Lines {
			res.Lines = append(res.Lines, line{
				WashTypeID:       ln.WashTypeID,
				Name:             ln.Name,
				TransactionCount: ln.TransactionCount,
				Revenue:          ln.Revenue,
			})
		}
		render.JSON(w, res)
	})
}
