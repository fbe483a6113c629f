package share

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/priatmojo/washpool/internal/apperrors"
)

func TestSplit(t *testing.T) {
	t.Run("default rates", func(t *testing.T) {
		tests := []struct {
			name      string
			price     int64
			wantOwner int64
			wantPool  int64
		}{
			{
				name:      "divisible price",
				price:     40000,
				wantOwner: 24000,
				wantPool:  16000,
			},
			{
				name:      "odd price floors both shares",
				price:     33333,
				wantOwner: 19999,
				wantPool:  13333,
			},
			{
				name:      "zero price",
				price:     0,
				wantOwner: 0,
				wantPool:  0,
			},
			{
				name:      "single unit",
				price:     1,
				wantOwner: 0,
				wantPool:  0,
			},
			{
				name:      "large price",
				price:     1_000_000_00,
				wantOwner: 600_000_00,
				wantPool:  400_000_00,
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				owner, pool, err := Split(DefaultRates(), tt.price)

				require.NoError(t, err)
				require.Equal(t, tt.wantOwner, owner, "owner share mismatch")
				require.Equal(t, tt.wantPool, pool, "staff pool mismatch")
				require.LessOrEqual(t, owner+pool, tt.price, "shares must never exceed price")
			})
		}
	})

	t.Run("negative price", func(t *testing.T) {
		_, _, err := Split(DefaultRates(), -100)

		require.Error(t, err)
		require.ErrorIs(t, err, apperrors.ErrPriceNegative)
	})

	t.Run("custom rates", func(t *testing.T) {
		rates := Rates{Owner: decimal.New(70, -2), Pool: decimal.New(30, -2)}

		owner, pool, err := Split(rates, 10001)

		require.NoError(t, err)
		require.Equal(t, int64(7000), owner)
		require.Equal(t, int64(3000), pool)
	})
}

func TestParseRates(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		rates, err := ParseRates("0.60", "0.40")

		require.NoError(t, err)
		require.True(t, rates.Owner.Equal(decimal.New(60, -2)), "owner rate should be 0.60")
		require.True(t, rates.Pool.Equal(decimal.New(40, -2)), "pool rate should be 0.40")
	})

	t.Run("not a number", func(t *testing.T) {
		_, err := ParseRates("sixty", "0.40")

		require.Error(t, err)
	})

	t.Run("sum above one", func(t *testing.T) {
		_, err := ParseRates("0.70", "0.40")

		require.Error(t, err)
		require.ErrorIs(t, err, apperrors.ErrShareRatesBad)
	})

	t.Run("negative rate", func(t *testing.T) {
		_, err := ParseRates("-0.10", "0.40")

		require.Error(t, err)
		require.ErrorIs(t, err, apperrors.ErrShareRatesBad)
	})
}

func TestRatesValidate(t *testing.T) {
	t.Run("sum below one is allowed", func(t *testing.T) {
		rates := Rates{Owner: decimal.New(50, -2), Pool: decimal.New(30, -2)}

		require.NoError(t, rates.Validate(), "rates summing below 1 leave the rest with the business")
	})

	t.Run("default rates valid", func(t *testing.T) {
		require.NoError(t, DefaultRates().Validate())
	})
}
