package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/priatmojo/washpool/internal/apperrors"
	"github.com/priatmojo/washpool/internal/models"
)

type WashTypeRepo struct {
	DB DBTX
}

const createWashType = `-- name: CreateWashType
INSERT INTO wash_types (name, size_category, min_price, max_price, description)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at, name, size_category, min_price, max_price, description, is_active
`

func (r *WashTypeRepo) Create(ctx context.Context, wt models.WashType) (models.WashType, error) {
	rows, _ := r.DB.Query(ctx, createWashType, wt.Name, wt.SizeCategory, wt.MinPrice, wt.MaxPrice, wt.Description)
	washType, err := pgx.CollectOneRow(rows, rowToWashType)
	if err != nil {
		return washType, fmt.Errorf("db error: %w", err)
	}

	return washType, nil
}

const getWashTypeByID = `-- name: GetWashTypeByID
SELECT id, created_at, name, size_category, min_price, max_price, description, is_active FROM wash_types
WHERE id = $1
`

func (r *WashTypeRepo) GetByID(ctx context.Context, id int64) (models.WashType, error) {
	rows, _ := r.DB.Query(ctx, getWashTypeByID, id)
	washType, err := pgx.CollectOneRow(rows, rowToWashType)

	switch {
	case err == nil:
		return washType, nil
	case errors.Is(err, pgx.ErrNoRows):
		return washType, apperrors.ErrWashTypeNotFound
	default:
		return washType, fmt.Errorf("db error: %w", err)
	}
}

const listWashTypes = `-- name: ListWashTypes
SELECT id, created_at, name, size_category, min_price, max_price, description, is_active FROM wash_types
WHERE is_active OR NOT $1
ORDER BY name
`

func (r *WashTypeRepo) List(ctx context.Context, onlyActive bool) ([]models.WashType, error) {
	rows, _ := r.DB.Query(ctx, listWashTypes, onlyActive)
	washTypes, err := pgx.CollectRows(rows, rowToWashType)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return washTypes, nil
}

func rowToWashType(row pgx.CollectableRow) (models.WashType, error) {
	var wt models.WashType
	err := row.Scan(&wt.ID, &wt.CreatedAt, &wt.Name, &wt.SizeCategory, &wt.MinPrice, &wt.MaxPrice, &wt.Description, &wt.IsActive)
	return wt, err
}
