// Package transaction records wash jobs: price split, invoice number
// and staff assignment land atomically in one db transaction.
package transaction

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/priatmojo/washpool/internal/apperrors"
	"github.com/priatmojo/washpool/internal/models"
	"github.com/priatmojo/washpool/internal/repository"
	"github.com/priatmojo/washpool/internal/service/share"
)

type Service struct {
	rates   share.Rates
	storage repository.Storage
}

func NewService(rates share.Rates, storage repository.Storage) (*Service, error) {
	if err := rates.Validate(); err != nil {
		return nil, err
	}

	return &Service{
		rates:   rates,
		storage: storage,
	}, nil
}

type CreateParams struct {
	CustomerID    *int64
	WashTypeID    int64
	LicensePlate  string
	Price         int64
	PaymentStatus string
	Notes         string
	StaffIDs      []int64
}

// Create records a new wash job. The owner/pool split is computed here,
// once, and stored; later edits never touch it. Invoice numbering, the
// transaction row and the staff links commit together or not at all.
func (s *Service) Create(ctx context.Context, p CreateParams) (models.Transaction, error) {
	var created models.Transaction

	if len(p.StaffIDs) == 0 {
		return created, apperrors.ErrNoStaffAssigned
	}

	ownerShare, staffPool, err := share.Split(s.rates, p.Price)
	if err != nil {
		return created, err
	}

	if p.PaymentStatus == "" {
		p.PaymentStatus = models.PaymentUnpaid
	}

	staffIDs := slices.Clone(p.StaffIDs)
	slices.Sort(staffIDs)
	staffIDs = slices.Compact(staffIDs)

	err = s.storage.InTx(ctx, func(st repository.Storage) error {
		now := time.Now()

		number, err := st.Invoice().NextNumber(ctx, now)
		if err != nil {
			return err
		}

		var paidAt *time.Time
		if p.PaymentStatus == models.PaymentPaid {
			paidAt = &now
		}

		created, err = st.Transaction().Create(ctx, models.Transaction{
			CreatedAt:     now,
			InvoiceNumber: number,
			CustomerID:    p.CustomerID,
			WashTypeID:    p.WashTypeID,
			LicensePlate:  p.LicensePlate,
			Price:         p.Price,
			OwnerShare:    ownerShare,
			StaffPool:     staffPool,
			PaymentStatus: p.PaymentStatus,
			WashStatus:    models.WashWashing,
			Notes:         p.Notes,
			PaidAt:        paidAt,
			StaffIDs:      staffIDs,
		})
		return err
	})
	if err != nil {
		return created, fmt.Errorf("creating transaction: %w", err)
	}

	return created, nil
}

type StatusUpdate struct {
	WashStatus    string
	PaymentStatus string
}

// UpdateStatus patches wash and/or payment status. Marking a
// transaction paid stamps paid_at. Shares stay frozen.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, u StatusUpdate) (models.Transaction, error) {
	patch := repository.StatusPatch{}

	if u.WashStatus != "" {
		patch.WashStatus = &u.WashStatus
	}
	if u.PaymentStatus != "" {
		patch.PaymentStatus = &u.PaymentStatus
		if u.PaymentStatus == models.PaymentPaid {
			now := time.Now()
			patch.PaidAt = &now
		}
	}

	return s.storage.Transaction().UpdateStatus(ctx, id, patch)
}

// Delete removes a transaction entirely. Earnings already allocated
// from it stay untouched; a re-allocation of the week picks up the
// change.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.storage.Transaction().Delete(ctx, id)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (models.Transaction, error) {
	return s.storage.Transaction().Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filter repository.TransactionFilter) ([]models.Transaction, error) {
	return s.storage.Transaction().List(ctx, filter)
}
