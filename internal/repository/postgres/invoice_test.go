package postgres

import (
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priatmojo/washpool/internal/testutil"
)

func TestInvoice(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	t.Run("NextNumber", func(t *testing.T) {
		t.Run("numbers sequential within day", func(t *testing.T) {
			testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
				repo := &InvoiceRepo{DB: tx}

				first, err := repo.NextNumber(t.Context(), day)
				require.NoError(t, err)
				second, err := repo.NextNumber(t.Context(), day)
				require.NoError(t, err)

				require.Equal(t, "INV-20250602-0001", first)
				require.Equal(t, "INV-20250602-0002", second)
			})
		})

		t.Run("counter resets each day", func(t *testing.T) {
			testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
				repo := &InvoiceRepo{DB: tx}

				_, err := repo.NextNumber(t.Context(), day)
				require.NoError(t, err)
				_, err = repo.NextNumber(t.Context(), day)
				require.NoError(t, err)

				number, err := repo.NextNumber(t.Context(), day.AddDate(0, 0, 1))

				require.NoError(t, err)
				require.Equal(t, "INV-20250603-0001", number, "next day starts its own sequence")
			})
		})

		t.Run("concurrent callers get distinct numbers", func(t *testing.T) {
			// Runs on the pool, not a test transaction: each goroutine
			// holds its own connection so the counter row lock is the
			// only thing serializing them. A day no other subtest uses
			// keeps the written counter row out of their way.
			repo := &InvoiceRepo{DB: pg.Pool}
			concurrentDay := time.Date(2025, 7, 7, 0, 0, 0, 0, time.UTC)

			const callers = 20
			numbers := make(chan string, callers)

			var wg sync.WaitGroup
			for range callers {
				wg.Add(1)
				go func() {
					defer wg.Done()

					number, err := repo.NextNumber(t.Context(), concurrentDay)
					assert.NoError(t, err)
					numbers <- number
				}()
			}
			wg.Wait()
			close(numbers)

			seen := make(map[string]struct{}, callers)
			for number := range numbers {
				_, dup := seen[number]
				require.False(t, dup, "number %s issued twice", number)
				seen[number] = struct{}{}
			}
			require.Len(t, seen, callers)
		})

		t.Run("number padded to four digits", func(t *testing.T) {
			testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
				repo := &InvoiceRepo{DB: tx}

				var number string
				var err error
				for range 12 {
					number, err = repo.NextNumber(t.Context(), day)
					require.NoError(t, err)
				}

				require.Equal(t, "INV-20250602-0012", number)
			})
		})
	})
}
