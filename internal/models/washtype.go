package models

import (
	"time"
)

// WashType is a pricing catalog entry. MinPrice and MaxPrice bound the
// price a cashier may enter for a job of this type.
type WashType struct {
	ID           int64
	CreatedAt    time.Time
	Name         string
	SizeCategory string
	MinPrice     int64
	MaxPrice     int64
	Description  string
	IsActive     bool
}
