package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/priatmojo/washpool/internal/apperrors"
	"github.com/priatmojo/washpool/internal/models"
	"github.com/priatmojo/washpool/internal/repository"
	"github.com/priatmojo/washpool/internal/testutil"
)

func TestTransaction(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	// Seed catalog rows every transaction needs and hand repos to the test
	withSeed := func(t *testing.T, fn func(tx pgx.Tx, washType models.WashType, staffs []models.Staff)) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			washTypes := &WashTypeRepo{DB: tx}
			staffRepo := &StaffRepo{DB: tx}

			washType, err := washTypes.Create(t.Context(), models.WashType{Name: "Basic", SizeCategory: "small", MinPrice: 20000, MaxPrice: 40000})
			require.NoError(t, err)

			budi, err := staffRepo.Create(t.Context(), "Budi", "081")
			require.NoError(t, err)
			agus, err := staffRepo.Create(t.Context(), "Agus", "082")
			require.NoError(t, err)

			fn(tx, washType, []models.Staff{budi, agus})
		})
	}

	makeTx := func(washTypeID int64, invoice string, staffIDs ...int64) models.Transaction {
		return models.Transaction{
			InvoiceNumber: invoice,
			WashTypeID:    washTypeID,
			LicensePlate:  "B 1234 XYZ",
			Price:         40000,
			OwnerShare:    24000,
			StaffPool:     16000,
			PaymentStatus: models.PaymentUnpaid,
			WashStatus:    models.WashWashing,
			StaffIDs:      staffIDs,
		}
	}

	t.Run("Create", func(t *testing.T) {
		t.Run("ok", func(t *testing.T) {
			withSeed(t, func(tx pgx.Tx, washType models.WashType, staffs []models.Staff) {
				repo := &TransactionRepo{DB: tx}

				created, err := repo.Create(t.Context(), makeTx(washType.ID, "INV-20250602-0001", staffs[0].ID, staffs[1].ID))

				require.NoError(t, err)
				require.NotEqual(t, uuid.Nil, created.ID)
				require.NotZero(t, created.CreatedAt)
				require.Equal(t, "INV-20250602-0001", created.InvoiceNumber)
				require.Equal(t, int64(40000), created.Price)
				require.Equal(t, int64(24000), created.OwnerShare)
				require.Equal(t, int64(16000), created.StaffPool)
				require.Equal(t, []int64{staffs[0].ID, staffs[1].ID}, created.StaffIDs, "staff ids should be loaded back sorted")
				require.Nil(t, created.PaidAt)
			})
		})

		t.Run("no staff attached", func(t *testing.T) {
			withSeed(t, func(tx pgx.Tx, washType models.WashType, _ []models.Staff) {
				repo := &TransactionRepo{DB: tx}

				created, err := repo.Create(t.Context(), makeTx(washType.ID, "INV-20250602-0001"))

				require.NoError(t, err, "repository itself does not enforce staff presence")
				require.Empty(t, created.StaffIDs)
			})
		})

		t.Run("duplicate invoice number", func(t *testing.T) {
			withSeed(t, func(tx pgx.Tx, washType models.WashType, staffs []models.Staff) {
				repo := &TransactionRepo{DB: tx}

				_, err := repo.Create(t.Context(), makeTx(washType.ID, "INV-20250602-0001", staffs[0].ID))
				require.NoError(t, err)

				_, err = repo.Create(t.Context(), makeTx(washType.ID, "INV-20250602-0001", staffs[0].ID))

				require.Error(t, err)
				require.ErrorIs(t, err, apperrors.ErrInvoiceNumberTaken)
			})
		})

		t.Run("unknown wash type", func(t *testing.T) {
			withSeed(t, func(tx pgx.Tx, _ models.WashType, staffs []models.Staff) {
				repo := &TransactionRepo{DB: tx}

				_, err := repo.Create(t.Context(), makeTx(424242, "INV-20250602-0001", staffs[0].ID))

				require.Error(t, err)
				require.ErrorIs(t, err, apperrors.ErrWashTypeNotFound)
			})
		})

		t.Run("unknown customer", func(t *testing.T) {
			withSeed(t, func(tx pgx.Tx, washType models.WashType, staffs []models.Staff) {
				repo := &TransactionRepo{DB: tx}

				transaction := makeTx(washType.ID, "INV-20250602-0001", staffs[0].ID)
				unknown := int64(424242)
				transaction.CustomerID = &unknown

				_, err := repo.Create(t.Context(), transaction)

				require.Error(t, err)
				require.ErrorIs(t, err, apperrors.ErrCustomerNotFound)
			})
		})

		t.Run("unknown staff", func(t *testing.T) {
			withSeed(t, func(tx pgx.Tx, washType models.WashType, _ []models.Staff) {
				repo := &TransactionRepo{DB: tx}

				_, err := repo.Create(t.Context(), makeTx(washType.ID, "INV-20250602-0001", 424242))

				require.Error(t, err)
				require.ErrorIs(t, err, apperrors.ErrStaffNotFound)
			})
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("not found", func(t *testing.T) {
			testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
				repo := &TransactionRepo{DB: tx}

				_, err := repo.Get(t.Context(), uuid.New())

				require.Error(t, err)
				require.ErrorIs(t, err, apperrors.ErrTransactionNotFound)
			})
		})
	})

	t.Run("List", func(t *testing.T) {
		withSeed(t, func(tx pgx.Tx, washType models.WashType, staffs []models.Staff) {
			repo := &TransactionRepo{DB: tx}

			older := makeTx(washType.ID, "INV-20250602-0001", staffs[0].ID)
			older.CreatedAt = time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
			older.PaymentStatus = models.PaymentPaid
			older.WashStatus = models.WashDone

			newer := makeTx(washType.ID, "INV-20250603-0001", staffs[1].ID)
			newer.CreatedAt = time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC)
			newer.LicensePlate = "D 5678 ABC"

			olderCreated, err := repo.Create(t.Context(), older)
			require.NoError(t, err)
			newerCreated, err := repo.Create(t.Context(), newer)
			require.NoError(t, err)

			t.Run("no filter newest first", func(t *testing.T) {
				transactions, err := repo.List(t.Context(), repository.TransactionFilter{})

				require.NoError(t, err)
				require.Len(t, transactions, 2)
				require.Equal(t, newerCreated.ID, transactions[0].ID)
				require.Equal(t, olderCreated.ID, transactions[1].ID)
			})

			t.Run("by payment status", func(t *testing.T) {
				transactions, err := repo.List(t.Context(), repository.TransactionFilter{PaymentStatus: models.PaymentPaid})

				require.NoError(t, err)
				require.Len(t, transactions, 1)
				require.Equal(t, olderCreated.ID, transactions[0].ID)
			})

			t.Run("by wash status", func(t *testing.T) {
				transactions, err := repo.List(t.Context(), repository.TransactionFilter{WashStatus: models.WashWashing})

				require.NoError(t, err)
				require.Len(t, transactions, 1)
				require.Equal(t, newerCreated.ID, transactions[0].ID)
			})

			t.Run("created range upper bound exclusive", func(t *testing.T) {
				from := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
				to := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)

				transactions, err := repo.List(t.Context(), repository.TransactionFilter{CreatedFrom: &from, CreatedTo: &to})

				require.NoError(t, err)
				require.Len(t, transactions, 1)
				require.Equal(t, olderCreated.ID, transactions[0].ID)
			})

			t.Run("search matches invoice number", func(t *testing.T) {
				transactions, err := repo.List(t.Context(), repository.TransactionFilter{Search: "20250603"})

				require.NoError(t, err)
				require.Len(t, transactions, 1)
				require.Equal(t, newerCreated.ID, transactions[0].ID)
			})

			t.Run("search matches plate case insensitive", func(t *testing.T) {
				transactions, err := repo.List(t.Context(), repository.TransactionFilter{Search: "d 5678"})

				require.NoError(t, err)
				require.Len(t, transactions, 1)
				require.Equal(t, newerCreated.ID, transactions[0].ID)
			})

			t.Run("limit", func(t *testing.T) {
				transactions, err := repo.List(t.Context(), repository.TransactionFilter{Limit: 1})

				require.NoError(t, err)
				require.Len(t, transactions, 1)
				require.Equal(t, newerCreated.ID, transactions[0].ID)
			})
		})
	})

	t.Run("UpdateStatus", func(t *testing.T) {
		t.Run("patch wash status only", func(t *testing.T) {
			withSeed(t, func(tx pgx.Tx, washType models.WashType, staffs []models.Staff) {
				repo := &TransactionRepo{DB: tx}
				created, err := repo.Create(t.Context(), makeTx(washType.ID, "INV-20250602-0001", staffs[0].ID))
				require.NoError(t, err)

				done := models.WashDone
				updated, err := repo.UpdateStatus(t.Context(), created.ID, repository.StatusPatch{WashStatus: &done})

				require.NoError(t, err)
				require.Equal(t, models.WashDone, updated.WashStatus)
				require.Equal(t, created.PaymentStatus, updated.PaymentStatus, "untouched fields keep their value")
				require.Equal(t, created.Price, updated.Price)
				require.Equal(t, created.OwnerShare, updated.OwnerShare, "shares are frozen")
				require.Equal(t, created.StaffPool, updated.StaffPool, "shares are frozen")
			})
		})

		t.Run("mark paid stamps paid_at", func(t *testing.T) {
			withSeed(t, func(tx pgx.Tx, washType models.WashType, staffs []models.Staff) {
				repo := &TransactionRepo{DB: tx}
				created, err := repo.Create(t.Context(), makeTx(washType.ID, "INV-20250602-0001", staffs[0].ID))
				require.NoError(t, err)

				paid := models.PaymentPaid
				now := time.Now()
				updated, err := repo.UpdateStatus(t.Context(), created.ID, repository.StatusPatch{PaymentStatus: &paid, PaidAt: &now})

				require.NoError(t, err)
				require.Equal(t, models.PaymentPaid, updated.PaymentStatus)
				require.NotNil(t, updated.PaidAt)
			})
		})

		t.Run("not found", func(t *testing.T) {
			testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
				repo := &TransactionRepo{DB: tx}

				done := models.WashDone
				_, err := repo.UpdateStatus(t.Context(), uuid.New(), repository.StatusPatch{WashStatus: &done})

				require.Error(t, err)
				require.ErrorIs(t, err, apperrors.ErrTransactionNotFound)
			})
		})
	})

	t.Run("ListPaidCreatedBetween", func(t *testing.T) {
		withSeed(t, func(tx pgx.Tx, washType models.WashType, staffs []models.Staff) {
			repo := &TransactionRepo{DB: tx}

			inWindowPaid := makeTx(washType.ID, "INV-20250602-0001", staffs[0].ID)
			inWindowPaid.CreatedAt = time.Date(2025, 6, 3, 12, 0, 0, 0, time.UTC)
			inWindowPaid.PaymentStatus = models.PaymentPaid

			inWindowUnpaid := makeTx(washType.ID, "INV-20250602-0002", staffs[1].ID)
			inWindowUnpaid.CreatedAt = time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC)

			atUpperBound := makeTx(washType.ID, "INV-20250609-0001", staffs[0].ID)
			atUpperBound.CreatedAt = time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
			atUpperBound.PaymentStatus = models.PaymentPaid

			paidCreated, err := repo.Create(t.Context(), inWindowPaid)
			require.NoError(t, err)
			_, err = repo.Create(t.Context(), inWindowUnpaid)
			require.NoError(t, err)
			_, err = repo.Create(t.Context(), atUpperBound)
			require.NoError(t, err)

			from := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
			to := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
			transactions, err := repo.ListPaidCreatedBetween(t.Context(), from, to)

			require.NoError(t, err)
			require.Len(t, transactions, 1, "unpaid and out-of-window rows must be excluded")
			require.Equal(t, paidCreated.ID, transactions[0].ID)
			require.Equal(t, []int64{staffs[0].ID}, transactions[0].StaffIDs, "staff ids should be loaded")
		})
	})

	t.Run("Delete", func(t *testing.T) {
		t.Run("ok", func(t *testing.T) {
			withSeed(t, func(tx pgx.Tx, washType models.WashType, staffs []models.Staff) {
				repo := &TransactionRepo{DB: tx}
				created, err := repo.Create(t.Context(), makeTx(washType.ID, "INV-20250602-0001", staffs[0].ID))
				require.NoError(t, err)

				err = repo.Delete(t.Context(), created.ID)
				require.NoError(t, err)

				_, err = repo.Get(t.Context(), created.ID)
				require.ErrorIs(t, err, apperrors.ErrTransactionNotFound)
			})
		})

		t.Run("not found", func(t *testing.T) {
			testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
				repo := &TransactionRepo{DB: tx}

				err := repo.Delete(t.Context(), uuid.New())

				require.Error(t, err)
				require.ErrorIs(t, err, apperrors.ErrTransactionNotFound)
			})
		})
	})

	t.Run("MonthlyRevenue", func(t *testing.T) {
		withSeed(t, func(tx pgx.Tx, washType models.WashType, staffs []models.Staff) {
			repo := &TransactionRepo{DB: tx}

			paidDay2 := makeTx(washType.ID, "INV-20250602-0001", staffs[0].ID)
			paidDay2.CreatedAt = time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
			paidDay2.PaymentStatus = models.PaymentPaid

			paidDay2Again := makeTx(washType.ID, "INV-20250602-0002", staffs[1].ID)
			paidDay2Again.CreatedAt = time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC)
			paidDay2Again.PaymentStatus = models.PaymentPaid

			paidDay5 := makeTx(washType.ID, "INV-20250605-0001", staffs[0].ID)
			paidDay5.CreatedAt = time.Date(2025, 6, 5, 11, 0, 0, 0, time.UTC)
			paidDay5.PaymentStatus = models.PaymentPaid

			unpaidDay5 := makeTx(washType.ID, "INV-20250605-0002", staffs[1].ID)
			unpaidDay5.CreatedAt = time.Date(2025, 6, 5, 12, 0, 0, 0, time.UTC)

			paidJuly := makeTx(washType.ID, "INV-20250701-0001", staffs[0].ID)
			paidJuly.CreatedAt = time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
			paidJuly.PaymentStatus = models.PaymentPaid

			for _, transaction := range []models.Transaction{paidDay2, paidDay2Again, paidDay5, unpaidDay5, paidJuly} {
				_, err := repo.Create(t.Context(), transaction)
				require.NoError(t, err)
			}

			days, err := repo.MonthlyRevenue(t.Context(), time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC))

			require.NoError(t, err)
			require.Len(t, days, 2, "unpaid rows and other months must be excluded")

			require.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), days[0].Day.UTC())
			require.Equal(t, int64(2), days[0].TransactionCount)
			require.Equal(t, int64(80000), days[0].Revenue)

			require.Equal(t, time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC), days[1].Day.UTC())
			require.Equal(t, int64(1), days[1].TransactionCount)
			require.Equal(t, int64(40000), days[1].Revenue)
		})
	})

	t.Run("RevenueByWashType", func(t *testing.T) {
		withSeed(t, func(tx pgx.Tx, washType models.WashType, staffs []models.Staff) {
			washTypes := &WashTypeRepo{DB: tx}
			repo := &TransactionRepo{DB: tx}

			idle, err := washTypes.Create(t.Context(), models.WashType{Name: "Premium", SizeCategory: "large", MinPrice: 50000, MaxPrice: 90000})
			require.NoError(t, err)

			paid := makeTx(washType.ID, "INV-20250602-0001", staffs[0].ID)
			paid.CreatedAt = time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
			paid.PaymentStatus = models.PaymentPaid

			unpaid := makeTx(washType.ID, "INV-20250602-0002", staffs[1].ID)
			unpaid.CreatedAt = time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

			outOfRange := makeTx(washType.ID, "INV-20250610-0001", staffs[0].ID)
			outOfRange.CreatedAt = time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
			outOfRange.PaymentStatus = models.PaymentPaid

			for _, transaction := range []models.Transaction{paid, unpaid, outOfRange} {
				_, err := repo.Create(t.Context(), transaction)
				require.NoError(t, err)
			}

			from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
			to := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)
			lines, err := repo.RevenueByWashType(t.Context(), from, to)

			require.NoError(t, err)
			require.Len(t, lines, 2, "every wash type appears, ordered by name")

			require.Equal(t, washType.ID, lines[0].WashTypeID)
			require.Equal(t, "Basic", lines[0].Name)
			require.Equal(t, int64(1), lines[0].TransactionCount, "unpaid and out-of-range rows excluded")
			require.Equal(t, int64(40000), lines[0].Revenue)

			require.Equal(t, idle.ID, lines[1].WashTypeID)
			require.Equal(t, "Premium", lines[1].Name)
			require.Equal(t, int64(0), lines[1].TransactionCount, "type without paid transactions still listed")
			require.Equal(t, int64(0), lines[1].Revenue)
		})
	})

	t.Run("DailyStats", func(t *testing.T) {
		withSeed(t, func(tx pgx.Tx, washType models.WashType, staffs []models.Staff) {
			repo := &TransactionRepo{DB: tx}

			day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

			paidToday := makeTx(washType.ID, "INV-20250602-0001", staffs[0].ID)
			paidToday.CreatedAt = day.Add(9 * time.Hour)
			paidToday.PaymentStatus = models.PaymentPaid
			paidToday.WashStatus = models.WashDone

			unpaidToday := makeTx(washType.ID, "INV-20250602-0002", staffs[1].ID)
			unpaidToday.CreatedAt = day.Add(10 * time.Hour)

			unpaidYesterday := makeTx(washType.ID, "INV-20250601-0001", staffs[0].ID)
			unpaidYesterday.CreatedAt = day.AddDate(0, 0, -1)

			for _, transaction := range []models.Transaction{paidToday, unpaidToday, unpaidYesterday} {
				_, err := repo.Create(t.Context(), transaction)
				require.NoError(t, err)
			}

			stats, err := repo.DailyStats(t.Context(), day.Add(15*time.Hour))

			require.NoError(t, err)
			require.Equal(t, int64(2), stats.TransactionCount, "only today's transactions counted")
			require.Equal(t, int64(40000), stats.PaidRevenue, "only today's paid revenue counted")
			require.Equal(t, int64(2), stats.PendingPayments, "unpaid rows counted across all days")
			require.Equal(t, int64(2), stats.CarsInProgress, "washing rows counted across all days")
		})
	})
}
