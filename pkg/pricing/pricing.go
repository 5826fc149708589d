// Package pricing holds the monetary arithmetic every order reader and
// writer must agree on. Totals are persisted, never derived at read
// time, so each helper here is deterministic and recomputed eagerly
// after any mutation.
package pricing

import "github.com/shopspring/decimal"

var half = decimal.NewFromFloat(0.5)

// RoundPrice rounds to the nearest whole currency unit, half up: a
// fractional part of .5 or more rounds toward positive infinity.
// This is deliberately not banker's rounding and not math.Round,
// which differ at the .5 boundary for negative inputs.
func RoundPrice(amount float64) int {
	return roundDecimal(decimal.NewFromFloat(amount))
}

func roundDecimal(d decimal.Decimal) int {
	floor := d.Floor()
	if d.Sub(floor).GreaterThanOrEqual(half) {
		floor = floor.Add(decimal.New(1, 0))
	}
	return int(floor.IntPart())
}

// LineTotal is the stored per-line amount: unit price times quantity,
// rounded.
func LineTotal(unitPrice float64, quantity int) int {
	price := decimal.NewFromFloat(unitPrice)
	qty := decimal.NewFromInt(int64(quantity))
	return roundDecimal(price.Mul(qty))
}

// OrderTotals recomputes the persisted order fields from its parts.
// Subtotal is the sum of the already-rounded line totals; total folds
// in shipping and an absolute discount amount.
func OrderTotals(lineTotals []int, shipping, discountAmount float64) (subtotal, total int) {
	for _, lt := range lineTotals {
		subtotal += lt
	}
	sum := decimal.NewFromInt(int64(subtotal)).
		Add(decimal.NewFromFloat(shipping)).
		Sub(decimal.NewFromFloat(discountAmount))
	return subtotal, roundDecimal(sum)
}

// DiscountFromPercent converts a checkout-time percentage into the
// absolute amount stored on the order. The admin edit path bypasses
// this and writes an absolute amount directly; the two entry points
// are intentionally separate and the percent is never re-derived.
func DiscountFromPercent(subtotal int, percent float64) int {
	amount := decimal.NewFromInt(int64(subtotal)).
		Mul(decimal.NewFromFloat(percent)).
		Div(decimal.NewFromInt(100))
	return roundDecimal(amount)
}
