// Package money holds the rounding rules shared by every amount the engine computes.
//
// Stored and returned amounts carry two fractional digits, rounded half-up (a
// trailing 5 moves away from zero). Rate arithmetic keeps ten fractional digits
// until the final rounding.
package money

import "github.com/shopspring/decimal"

const (
	// Places is the number of fractional digits of a stored amount.
	Places = 2
	// RatePlaces is the precision kept by intermediate rate divisions.
	RatePlaces = 10

	powPlaces = 20
)

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// Round rounds d half-up to two fractional digits.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// DivRate divides a by b keeping RatePlaces fractional digits.
func DivRate(a, b decimal.Decimal) decimal.Decimal {
	return a.DivRound(b, RatePlaces)
}

// MonthlyRate converts an annual percentage (12 for 12%) to a monthly fraction.
func MonthlyRate(annualPercent decimal.Decimal) decimal.Decimal {
	return annualPercent.DivRound(hundred.Mul(twelve), RatePlaces)
}

// PowInt returns d raised to n (n >= 0). Each step is rounded to 20
// fractional digits so long schedules do not grow unbounded precision.
func PowInt(d decimal.Decimal, n int) decimal.Decimal {
	result := decimal.NewFromInt(1)
	for i := 0; i < n; i++ {
		result = result.Mul(d).Round(powPlaces)
	}
	return result
}

// Sum adds amounts and rounds the total.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return Round(total)
}

// HasCents reports whether d has at most two fractional digits.
func HasCents(d decimal.Decimal) bool {
	return d.Mul(hundred).Equal(d.Mul(hundred).Floor())
}
