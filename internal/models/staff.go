package models

import (
	"time"
)

type Staff struct {
	ID        int64
	CreatedAt time.Time
	Name      string
	Phone     string
	IsActive  bool
}
