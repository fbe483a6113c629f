package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/priatmojo/washpool/internal/apperrors"
	"github.com/priatmojo/washpool/internal/models"
	"github.com/priatmojo/washpool/internal/testutil"
)

func TestEarning(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	weekStart := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	weekEnd := weekStart.AddDate(0, 0, 6)

	// Earnings reference staff rows, create them first
	withStaff := func(t *testing.T, fn func(tx pgx.Tx, staffs []models.Staff)) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			staffRepo := &StaffRepo{DB: tx}

			budi, err := staffRepo.Create(t.Context(), "Budi", "081")
			require.NoError(t, err)
			agus, err := staffRepo.Create(t.Context(), "Agus", "082")
			require.NoError(t, err)

			fn(tx, []models.Staff{budi, agus})
		})
	}

	makeEarning := func(staffID int64) models.WeeklyStaffEarning {
		return models.WeeklyStaffEarning{
			StaffID:          staffID,
			WeekStart:        weekStart,
			WeekEnd:          weekEnd,
			TotalPool:        48000,
			StaffCount:       3,
			Earning:          16000,
			TransactionCount: 2,
		}
	}

	t.Run("Upsert", func(t *testing.T) {
		t.Run("insert", func(t *testing.T) {
			withStaff(t, func(tx pgx.Tx, staffs []models.Staff) {
				repo := &EarningRepo{DB: tx}

				earning, err := repo.Upsert(t.Context(), makeEarning(staffs[0].ID))

				require.NoError(t, err)
				require.NotEqual(t, uuid.Nil, earning.ID)
				require.Equal(t, staffs[0].ID, earning.StaffID)
				require.Equal(t, int64(16000), earning.Earning)
				require.False(t, earning.IsPaid, "new earning should be unpaid")
				require.Nil(t, earning.PaidAt)
			})
		})

		t.Run("conflict replaces amounts keeps row", func(t *testing.T) {
			withStaff(t, func(tx pgx.Tx, staffs []models.Staff) {
				repo := &EarningRepo{DB: tx}

				first, err := repo.Upsert(t.Context(), makeEarning(staffs[0].ID))
				require.NoError(t, err)

				changed := makeEarning(staffs[0].ID)
				changed.TotalPool = 60000
				changed.StaffCount = 2
				changed.Earning = 30000
				changed.TransactionCount = 5

				second, err := repo.Upsert(t.Context(), changed)

				require.NoError(t, err)
				require.Equal(t, first.ID, second.ID, "same (staff, week) key must keep the same row")
				require.Equal(t, int64(60000), second.TotalPool)
				require.Equal(t, int64(30000), second.Earning)
				require.Equal(t, 5, second.TransactionCount)
			})
		})

		t.Run("conflict preserves payout state", func(t *testing.T) {
			withStaff(t, func(tx pgx.Tx, staffs []models.Staff) {
				repo := &EarningRepo{DB: tx}

				first, err := repo.Upsert(t.Context(), makeEarning(staffs[0].ID))
				require.NoError(t, err)
				paid, err := repo.MarkPaid(t.Context(), first.ID)
				require.NoError(t, err)
				require.True(t, paid.IsPaid)

				second, err := repo.Upsert(t.Context(), makeEarning(staffs[0].ID))

				require.NoError(t, err)
				require.True(t, second.IsPaid, "re-allocation must not forget the payout already happened")
				require.NotNil(t, second.PaidAt)
				require.Equal(t, paid.PaidAt.UTC(), second.PaidAt.UTC())
			})
		})
	})

	t.Run("CountWeek", func(t *testing.T) {
		withStaff(t, func(tx pgx.Tx, staffs []models.Staff) {
			repo := &EarningRepo{DB: tx}

			count, err := repo.CountWeek(t.Context(), weekStart)
			require.NoError(t, err)
			require.Zero(t, count)

			_, err = repo.Upsert(t.Context(), makeEarning(staffs[0].ID))
			require.NoError(t, err)
			_, err = repo.Upsert(t.Context(), makeEarning(staffs[1].ID))
			require.NoError(t, err)

			count, err = repo.CountWeek(t.Context(), weekStart)

			require.NoError(t, err)
			require.Equal(t, int64(2), count)
		})
	})

	t.Run("DeleteWeekExcept", func(t *testing.T) {
		withStaff(t, func(tx pgx.Tx, staffs []models.Staff) {
			repo := &EarningRepo{DB: tx}

			_, err := repo.Upsert(t.Context(), makeEarning(staffs[0].ID))
			require.NoError(t, err)
			_, err = repo.Upsert(t.Context(), makeEarning(staffs[1].ID))
			require.NoError(t, err)

			deleted, err := repo.DeleteWeekExcept(t.Context(), weekStart, []int64{staffs[0].ID})

			require.NoError(t, err)
			require.Equal(t, int64(1), deleted)

			earnings, err := repo.ListWeek(t.Context(), weekStart)
			require.NoError(t, err)
			require.Len(t, earnings, 1)
			require.Equal(t, staffs[0].ID, earnings[0].StaffID, "kept staff must survive")
		})
	})

	t.Run("ListWeek", func(t *testing.T) {
		withStaff(t, func(tx pgx.Tx, staffs []models.Staff) {
			repo := &EarningRepo{DB: tx}

			// Insert in reverse id order, listing should sort by staff id
			_, err := repo.Upsert(t.Context(), makeEarning(staffs[1].ID))
			require.NoError(t, err)
			_, err = repo.Upsert(t.Context(), makeEarning(staffs[0].ID))
			require.NoError(t, err)

			otherWeek := makeEarning(staffs[0].ID)
			otherWeek.WeekStart = weekStart.AddDate(0, 0, 7)
			otherWeek.WeekEnd = otherWeek.WeekStart.AddDate(0, 0, 6)
			_, err = repo.Upsert(t.Context(), otherWeek)
			require.NoError(t, err)

			earnings, err := repo.ListWeek(t.Context(), weekStart)

			require.NoError(t, err)
			require.Len(t, earnings, 2, "other weeks must not leak in")
			require.Equal(t, staffs[0].ID, earnings[0].StaffID)
			require.Equal(t, staffs[1].ID, earnings[1].StaffID)
		})
	})

	t.Run("ListByStaff", func(t *testing.T) {
		withStaff(t, func(tx pgx.Tx, staffs []models.Staff) {
			repo := &EarningRepo{DB: tx}

			weeks := []time.Time{
				weekStart,
				weekStart.AddDate(0, 0, 7),
				weekStart.AddDate(0, 0, 14),
			}
			for _, ws := range weeks {
				e := makeEarning(staffs[0].ID)
				e.WeekStart = ws
				e.WeekEnd = ws.AddDate(0, 0, 6)
				_, err := repo.Upsert(t.Context(), e)
				require.NoError(t, err)
			}
			_, err := repo.Upsert(t.Context(), makeEarning(staffs[1].ID))
			require.NoError(t, err)

			earnings, err := repo.ListByStaff(t.Context(), staffs[0].ID, weeks[0], weeks[1])

			require.NoError(t, err)
			require.Len(t, earnings, 2, "range is inclusive on both week starts")
			require.Equal(t, weeks[0], earnings[0].WeekStart.UTC())
			require.Equal(t, weeks[1], earnings[1].WeekStart.UTC())
		})
	})

	t.Run("MarkPaid", func(t *testing.T) {
		t.Run("ok and idempotent", func(t *testing.T) {
			withStaff(t, func(tx pgx.Tx, staffs []models.Staff) {
				repo := &EarningRepo{DB: tx}

				created, err := repo.Upsert(t.Context(), makeEarning(staffs[0].ID))
				require.NoError(t, err)

				first, err := repo.MarkPaid(t.Context(), created.ID)
				require.NoError(t, err)
				require.True(t, first.IsPaid)
				require.NotNil(t, first.PaidAt)

				second, err := repo.MarkPaid(t.Context(), created.ID)

				require.NoError(t, err)
				require.Equal(t, first.PaidAt.UTC(), second.PaidAt.UTC(), "paid_at must not move on repeated calls")
			})
		})

		t.Run("not found", func(t *testing.T) {
			testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
				repo := &EarningRepo{DB: tx}

				_, err := repo.MarkPaid(t.Context(), uuid.New())

				require.Error(t, err)
				require.ErrorIs(t, err, apperrors.ErrEarningNotFound)
			})
		})
	})
}
