package apperrors

import (
	"errors"
)

var (
	ErrPriceNegative   = errors.New("price must not be negative")
	ErrShareRatesBad   = errors.New("share rates must be non-negative and sum to at most 1")
	ErrNoStaffAssigned = errors.New("transaction requires at least one staff")

	ErrStaffNotFound    = errors.New("staff not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrWashTypeNotFound = errors.New("wash type not found")

	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvoiceNumberTaken  = errors.New("invoice number already exists")

	ErrEarningNotFound  = errors.New("weekly earning not found")
	ErrInvalidWeek      = errors.New("week range is invalid")
	ErrInvalidDateRange = errors.New("date range is invalid")
)
