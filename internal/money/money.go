// Package money holds the monetary arithmetic for the claim engine.
//
// All amounts are shopspring decimals; binary floats are never used for
// monetary values so claim totals stay exact under repeated edits.
package money

import (
	"claimdesk/pkg/types"

	"github.com/shopspring/decimal"
)

// SGDAmount derives the functional-currency amount for a line item:
// amount * rate rounded to 2 decimal places, half up. Returns zero when
// either input is zero or negative.
func SGDAmount(amount, rate decimal.Decimal) decimal.Decimal {
	if amount.Sign() <= 0 || rate.Sign() <= 0 {
		return decimal.Zero
	}
	return amount.Mul(rate).Round(2)
}

// ForexRate recovers the exchange rate implied by an SGD amount and the
// original-currency amount, rounded to 4 decimal places. Returns zero when
// amount is zero.
func ForexRate(sgdAmount, amount decimal.Decimal) decimal.Decimal {
	if amount.IsZero() {
		return decimal.Zero
	}
	return sgdAmount.DivRound(amount, 4)
}

// ClaimTotal sums SGDAmount over all items using exact decimal addition.
func ClaimTotal(items []*types.ClaimItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.SGDAmount)
	}
	return total.Round(2)
}
