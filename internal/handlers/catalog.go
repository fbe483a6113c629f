package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/priatmojo/washpool/internal/apperrors"
	"github.com/priatmojo/washpool/internal/handlers/render"
	"github.com/priatmojo/washpool/internal/logger"
	"github.com/priatmojo/washpool/internal/models"
	"github.com/priatmojo/washpool/internal/repository"
)

// Catalog handlers are plain CRUD over the entities a transaction
// references. No business rules live here.

type StaffResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
	IsActive bool   `json:"is_active"`
}

func toStaffResponse(s models.Staff) StaffResponse {
	return StaffResponse{ID: s.ID, Name: s.Name, Phone: s.Phone, IsActive: s.IsActive}
}

func handleCreateStaff(repo repository.StaffRepo, l logger.Logger) http.Handler {
	type request struct {
		Name  string `json:"name" validate:"required,min=1"`
		Phone string `json:"phone"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		staff, err := repo.Create(r.Context(), req.Name, req.Phone)
		if err != nil {
			l.Error("Failed to create staff", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSONWithStatus(w, toStaffResponse(staff), http.StatusCreated)
	})
}

func handleListStaff(repo repository.StaffRepo, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		onlyActive := r.URL.Query().Get("active") == "true"

		staffs, err := repo.List(r.Context(), onlyActive)
		if err != nil {
			l.Error("Failed to list staff", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		response := make([]StaffResponse, 0, len(staffs))
		for _, s := range staffs {
			response = append(response, toStaffResponse(s))
		}
		render.JSON(w, response)
	})
}

func handleSetStaffActive(repo repository.StaffRepo, l logger.Logger) http.Handler {
	type request struct {
		IsActive *bool `json:"is_active" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			render.ServiceError(w, "Invalid staff id", http.StatusBadRequest)
			return
		}

		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		staff, err := repo.SetActive(r.Context(), id, *req.IsActive)

		switch {
		case err == nil:
			render.JSON(w, toStaffResponse(staff))
		case errors.Is(err, apperrors.ErrStaffNotFound):
			render.ServiceError(w, "Staff not found", http.StatusNotFound)
		default:
			l.Error("Failed to update staff", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

type CustomerResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

func handleCreateCustomer(repo repository.CustomerRepo, l logger.Logger) http.Handler {
	type request struct {
		Name    string `json:"name" validate:"required,min=1"`
		Phone   string `json:"phone"`
		Address string `json:"address"`
		Notes   string `json:"notes"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		customer, err := repo.Create(r.Context(), models.Customer{
			Name:    req.Name,
			Phone:   req.Phone,
			Address: req.Address,
			Notes:   req.Notes,
		})
		if err != nil {
			l.Error("Failed to create customer", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSONWithStatus(w, CustomerResponse{
			ID: customer.ID, Name: customer.Name, Phone: customer.Phone,
			Address: customer.Address, Notes: customer.Notes,
		}, http.StatusCreated)
	})
}

func handleListCustomers(repo repository.CustomerRepo, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		customers, err := repo.List(r.Context())
		if err != nil {
			l.Error("Failed to list customers", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		response := make([]CustomerResponse, 0, len(customers))
		for _, c := range customers {
			response = append(response, CustomerResponse{
				ID: c.ID, Name: c.Name, Phone: c.Phone, Address: c.Address, Notes: c.Notes,
			})
		}
		render.JSON(w, response)
	})
}

type WashTypeResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	SizeCategory string `json:"size_category,omitempty"`
	MinPrice     int64  `json:"min_price"`
	MaxPrice     int64  `json:"max_price"`
	Description  string `json:"description,omitempty"`
	IsActive     bool   `json:"is_active"`
}

func handleCreateWashType(repo repository.WashTypeRepo, l logger.Logger) http.Handler {
	type request struct {
		Name         string `json:"name" validate:"required,min=1"`
		SizeCategory string `json:"size_category"`
		MinPrice     int64  `json:"min_price" validate:"min=0"`
		MaxPrice     int64  `json:"max_price" validate:"min=0,gtefield=MinPrice"`
		Description  string `json:"description"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		washType, err := repo.Create(r.Context(), models.WashType{
			Name:         req.Name,
			SizeCategory: req.SizeCategory,
			MinPrice:     req.MinPrice,
			MaxPrice:     req.MaxPrice,
			Description:  req.Description,
		})
		if err != nil {
			l.Error("Failed to create wash type", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSONWithStatus(w, WashTypeResponse{
			ID: washType.ID, Name: washType.Name, SizeCategory: washType.SizeCategory,
			MinPrice: washType.MinPrice, MaxPrice: washType.MaxPrice,
			Description: washType.Description, IsActive: washType.IsActive,
		}, http.StatusCreated)
	})
}

func handleListWashTypes(repo repository.WashTypeRepo, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		onlyActive := r.URL.Query().Get("active") == "true"

		washTypes, err := repo.List(r.Context(), onlyActive)
		if err != nil {
			l.Error("Failed to list wash types", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		response := make([]WashTypeResponse, 0, len(washTypes))
		for _, wt := range washTypes {
			response = append(response, WashTypeResponse{
				ID: wt.ID, Name: wt.Name, SizeCategory: wt.SizeCategory,
				MinPrice: wt.MinPrice, MaxPrice: wt.MaxPrice,
				Description: wt.Description, IsActive: wt.IsActive,
			})
		}
		render.JSON(w, response)
	})
}
