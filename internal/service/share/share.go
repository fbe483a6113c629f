// Package share splits a transaction price between the owner and the
// staff pool at the moment the transaction is recorded.
package share

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/priatmojo/washpool/internal/apperrors"
)

// Rates is the owner/pool split applied to every new transaction.
// Historic transactions keep the shares computed at their creation even
// if the configured rates change later.
type Rates struct {
	Owner decimal.Decimal
	Pool  decimal.Decimal
}

var one = decimal.NewFromInt(1)

// DefaultRates is the 60/40 split the business runs on
func DefaultRates() Rates {
	return Rates{
		Owner: decimal.New(60, -2),
		Pool:  decimal.New(40, -2),
	}
}

func ParseRates(owner string, pool string) (Rates, error) {
	var r Rates
	var err error

	r.Owner, err = decimal.NewFromString(owner)
	if err != nil {
		return r, fmt.Errorf("parsing owner rate: %w", err)
	}

	r.Pool, err = decimal.NewFromString(pool)
	if err != nil {
		return r, fmt.Errorf("parsing pool rate: %w", err)
	}

	return r, r.Validate()
}

// Validate checks both rates are non-negative and sum to at most 1, the
// condition for owner_share + staff_pool <= price to hold for any price
func (r Rates) Validate() error {
	if r.Owner.IsNegative() || r.Pool.IsNegative() || r.Owner.Add(r.Pool).GreaterThan(one) {
		return apperrors.ErrShareRatesBad
	}

	return nil
}

// Split returns (floor(price*owner), floor(price*pool)). The two values
// are floored independently, so their sum may fall short of price by a
// unit; the shortfall stays with nobody. Must be called once per
// transaction at creation, the result persisted and never recomputed.
func Split(rates Rates, price int64) (ownerShare int64, staffPool int64, err error) {
	if price < 0 {
		return 0, 0, apperrors.ErrPriceNegative
	}

	p := decimal.NewFromInt(price)
	ownerShare = p.Mul(rates.Owner).Floor().IntPart()
	staffPool = p.Mul(rates.Pool).Floor().IntPart()

	return ownerShare, staffPool, nil
}
