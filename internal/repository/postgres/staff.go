package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/priatmojo/washpool/internal/apperrors"
	"github.com/priatmojo/washpool/internal/models"
)

type StaffRepo struct {
	DB DBTX
}

const createStaff = `-- name: CreateStaff
INSERT INTO staffs (name, phone)
VALUES ($1, $2)
RETURNING id, created_at, name, phone, is_active
`

func (r *StaffRepo) Create(ctx context.Context, name string, phone string) (models.Staff, error) {
	rows, _ := r.DB.Query(ctx, createStaff, name, phone)
	staff, err := pgx.CollectOneRow(rows, rowToStaff)
	if err != nil {
		return staff, fmt.Errorf("db error: %w", err)
	}

	return staff, nil
}

const getStaffByID = `-- name: GetStaffByID
SELECT id, created_at, name, phone, is_active FROM staffs
WHERE id = $1
`

func (r *StaffRepo) GetByID(ctx context.Context, id int64) (models.Staff, error) {
	rows, _ := r.DB.Query(ctx, getStaffByID, id)
	staff, err := pgx.CollectOneRow(rows, rowToStaff)

	switch {
	case err == nil:
		return staff, nil
	case errors.Is(err, pgx.ErrNoRows):
		return staff, apperrors.ErrStaffNotFound
	default:
		return staff, fmt.Errorf("db error: %w", err)
	}
}

const listStaff = `-- name: ListStaff
SELECT id, created_at, name, phone, is_active FROM staffs
WHERE is_active OR NOT $1
ORDER BY name
`

func (r *StaffRepo) List(ctx context.Context, onlyActive bool) ([]models.Staff, error) {
	rows, _ := r.DB.Query(ctx, listStaff, onlyActive)
	staffs, err := pgx.CollectRows(rows, rowToStaff)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return staffs, nil
}

const listStaffByIDs = `-- name: ListStaffByIDs
SELECT id, created_at, name, phone, is_active FROM staffs
WHERE id = ANY($1)
ORDER BY name
`

func (r *StaffRepo) ListByIDs(ctx context.Context, ids []int64) ([]models.Staff, error) {
	rows, _ := r.DB.Query(ctx, listStaffByIDs, ids)
	staffs, err := pgx.CollectRows(rows, rowToStaff)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return staffs, nil
}

const setStaffActive = `-- name: SetStaffActive
UPDATE staffs SET is_active = $2
WHERE id = $1
RETURNING id, created_at, name, phone, is_active
`

func (r *StaffRepo) SetActive(ctx context.Context, id int64, active bool) (models.Staff, error) {
	rows, _ := r.DB.Query(ctx, setStaffActive, id, active)
	staff, err := pgx.CollectOneRow(rows, rowToStaff)

	switch {
	case err == nil:
		return staff, nil
	case errors.Is(err, pgx.ErrNoRows):
		return staff, apperrors.ErrStaffNotFound
	default:
		return staff, fmt.Errorf("db error: %w", err)
	}
}

func rowToStaff(row pgx.CollectableRow) (models.Staff, error) {
	var s models.Staff
	err := row.Scan(&s.ID, &s.CreatedAt, &s.Name, &s.Phone, &s.IsActive)
	return s, err
}
