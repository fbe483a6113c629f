package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/priatmojo/washpool/internal/apperrors"
	"github.com/priatmojo/washpool/internal/handlers/render"
	"github.com/priatmojo/washpool/internal/logger"
	"github.com/priatmojo/washpool/internal/models"
	"github.com/priatmojo/washpool/internal/repository"
	"github.com/priatmojo/washpool/internal/service/transaction"
)

type TransactionResponse struct {
	ID            uuid.UUID  `json:"id"`
	CreatedAt     time.Time  `json:"created_at"`
	InvoiceNumber string     `json:"invoice_number"`
	CustomerID    *int64     `json:"customer_id,omitempty"`
	WashTypeID    int64      `json:"wash_type_id"`
	LicensePlate  string     `json:"license_plate,omitempty"`
	Price         int64      `json:"price"`
	OwnerShare    int64      `json:"owner_share"`
	StaffPool     int64      `json:"staff_pool"`
	PaymentStatus string     `json:"payment_status"`
	WashStatus    string     `json:"wash_status"`
	Notes         string     `json:"notes,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	StaffIDs      []int64    `json:"staff_ids"`
}

func toTransactionResponse(t models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:            t.ID,
		CreatedAt:     t.CreatedAt,
		InvoiceNumber: t.InvoiceNumber,
		CustomerID:    t.CustomerID,
		WashTypeID:    t.WashTypeID,
		LicensePlate:  t.LicensePlate,
		Price:         t.Price,
		OwnerShare:    t.OwnerShare,
		StaffPool:     t.StaffPool,
		PaymentStatus: t.PaymentStatus,
		WashStatus:    t.WashStatus,
		Notes:         t.Notes,
		PaidAt:        t.PaidAt,
		StaffIDs:      t.StaffIDs,
	}
}

func handleCreateTransaction(ts transactionService, l logger.Logger) http.Handler {
	type request struct {
		CustomerID    *int64  `json:"customer_id"`
		WashTypeID    int64   `json:"wash_type_id" validate:"required"`
		LicensePlate  string  `json:"license_plate" validate:"max=20"`
		Price         int64   `json:"price" validate:"min=0"`
		PaymentStatus string  `json:"payment_status" validate:"omitempty,oneof=unpaid paid"`
		Notes         string  `json:"notes"`
		StaffIDs      []int64 `json:"staff_ids" validate:"required,min=1"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		created, err := ts.Create(r.Context(), transaction.CreateParams{
			CustomerID:    req.CustomerID,
			WashTypeID:    req.WashTypeID,
			LicensePlate:  req.LicensePlate,
			Price:         req.Price,
			PaymentStatus: req.PaymentStatus,
			Notes:         req.Notes,
			StaffIDs:      req.StaffIDs,
		})

		switch {
		case err == nil:
			render.JSONWithStatus(w, toTransactionResponse(created), http.StatusCreated)
		case errors.Is(err, apperrors.ErrPriceNegative),
			errors.Is(err, apperrors.ErrNoStaffAssigned):
			render.ServiceError(w, err.Error(), http.StatusUnprocessableEntity)
		case errors.Is(err, apperrors.ErrStaffNotFound),
			errors.Is(err, apperrors.ErrCustomerNotFound),
			errors.Is(err, apperrors.ErrWashTypeNotFound):
			render.ServiceError(w, err.Error(), http.StatusUnprocessableEntity)
		case errors.Is(err, apperrors.ErrInvoiceNumberTaken):
			render.ServiceError(w, "Invoice number conflict, retry the request", http.StatusConflict)
		default:
			l.Error("Failed to create transaction", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleListTransactions(ts transactionService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		filter := repository.TransactionFilter{
			PaymentStatus: r.URL.Query().Get("payment_status"),
			WashStatus:    r.URL.Query().Get("wash_status"),
			Search:        r.URL.Query().Get("search"),
		}

		if v := r.URL.Query().Get("date_from"); v != "" {
			from, err := time.Parse("2006-01-02", v)
			if err != nil {
				render.ServiceError(w, "Invalid date_from, expected YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			filter.CreatedFrom = &from
		}
		if v := r.URL.Query().Get("date_to"); v != "" {
			to, err := time.Parse("2006-01-02", v)
			if err != nil {
				render.ServiceError(w, "Invalid date_to, expected YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			// date_to is inclusive, the filter upper bound is not
			end := to.AddDate(0, 0, 1)
			filter.CreatedTo = &end
		}

		transactions, err := ts.List(r.Context(), filter)
		if err != nil {
			l.Error("Failed to list transactions", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		response := make([]TransactionResponse, 0, len(transactions))
		for _, t := range transactions {
			response = append(response, toTransactionResponse(t))
		}
		render.JSON(w, response)
	})
}

func handleGetTransaction(ts transactionService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			render.ServiceError(w, "Invalid transaction id", http.StatusBadRequest)
			return
		}

		t, err := ts.Get(r.Context(), id)

		switch {
		case err == nil:
			render.JSON(w, toTransactionResponse(t))
		case errors.Is(err, apperrors.ErrTransactionNotFound):
			render.ServiceError(w, "Transaction not found", http.StatusNotFound)
		default:
			l.Error("Failed to get transaction", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleDeleteTransaction(ts transactionService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			render.ServiceError(w, "Invalid transaction id", http.StatusBadRequest)
			return
		}

		err = ts.Delete(r.Context(), id)

		switch {
		case err == nil:
			w.WriteHeader(http.StatusNoContent)
		case errors.Is(err, apperrors.ErrTransactionNotFound):
			render.ServiceError(w, "Transaction not found", http.StatusNotFound)
		default:
			l.Error("Failed to delete transaction", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleUpdateTransactionStatus(ts transactionService, l logger.Logger) http.Handler {
	type request struct {
		WashStatus    string `json:"wash_status" validate:"omitempty,oneof=waiting washing done"`
		PaymentStatus string `json:"payment_status" validate:"omitempty,oneof=unpaid paid"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			render.ServiceError(w, "Invalid transaction id", http.StatusBadRequest)
			return
		}

		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		t, err := ts.UpdateStatus(r.Context(), id, transaction.StatusUpdate{
			WashStatus:    req.WashStatus,
			PaymentStatus: req.PaymentStatus,
		})

		switch {
		case err == nil:
			render.JSON(w, toTransactionResponse(t))
		case errors.Is(err, apperrors.ErrTransactionNotFound):
			render.ServiceError(w, "Transaction not found", http.StatusNotFound)
		default:
			l.Error("Failed to update transaction status", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
