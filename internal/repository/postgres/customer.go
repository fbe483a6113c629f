package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/priatmojo/washpool/internal/apperrors"
	"github.com/priatmojo/washpool/internal/models"
)

type CustomerRepo struct {
	DB DBTX
}

const createCustomer = `-- name: CreateCustomer
INSERT INTO customers (name, phone, address, notes)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at, name, phone, address, notes
`

func (r *CustomerRepo) Create(ctx context.Context, c models.Customer) (models.Customer, error) {
	rows, _ := r.DB.Query(ctx, createCustomer, c.Name, c.Phone, c.Address, c.Notes)
	customer, err := pgx.CollectOneRow(rows, rowToCustomer)
	if err != nil {
		return customer, fmt.Errorf("db error: %w", err)
	}

	return customer, nil
}

const getCustomerByID = `-- name: GetCustomerByID
SELECT id, created_at, name, phone, address, notes FROM customers
WHERE id = $1
`

func (r *CustomerRepo) GetByID(ctx context.Context, id int64) (models.Customer, error) {
	rows, _ := r.DB.Query(ctx, getCustomerByID, id)
	customer, err := pgx.CollectOneRow(rows, rowToCustomer)

	switch {
	case err == nil:
		return customer, nil
	case errors.Is(err, pgx.ErrNoRows):
		return customer, apperrors.ErrCustomerNotFound
	default:
		return customer, fmt.Errorf("db error: %w", err)
	}
}

const listCustomers = `-- name: ListCustomers
SELECT id, created_at, name, phone, address, notes FROM customers
ORDER BY name
`

func (r *CustomerRepo) List(ctx context.Context) ([]models.Customer, error) {
	rows, _ := r.DB.Query(ctx, listCustomers)
	customers, err := pgx.CollectRows(rows, rowToCustomer)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return customers, nil
}

func rowToCustomer(row pgx.CollectableRow) (models.Customer, error) {
	var c models.Customer
	err := row.Scan(&c.ID, &c.CreatedAt, &c.Name, &c.Phone, &c.Address, &c.Notes)
	return c, err
}
