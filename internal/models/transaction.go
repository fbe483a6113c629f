package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PaymentUnpaid = "unpaid"
	PaymentPaid   = "paid"
)

const (
	WashWaiting = "waiting"
	WashWashing = "washing"
	WashDone    = "done"
)

// Transaction is one wash job. Price is stored in the smallest currency
// unit; OwnerShare and StaffPool are derived from it exactly once at
// creation and are never recomputed afterwards.
type Transaction struct {
	ID            uuid.UUID
	CreatedAt     time.Time
	InvoiceNumber string
	CustomerID    *int64
	WashTypeID    int64
	LicensePlate  string
	Price         int64
	OwnerShare    int64
	StaffPool     int64
	PaymentStatus string
	WashStatus    string
	Notes         string
	PaidAt        *time.Time

	// Staff assigned to the job, loaded together with the transaction
	StaffIDs []int64
}

func (t *Transaction) IsPaid() bool {
	return t.PaymentStatus == PaymentPaid
}

func (t *Transaction) IsDone() bool {
	return t.WashStatus == WashDone
}
