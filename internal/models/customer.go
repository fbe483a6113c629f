package models

import (
	"time"
)

type Customer struct {
	ID        int64
	CreatedAt time.Time
	Name      string
	Phone     string
	Address   string
	Notes     string
}
