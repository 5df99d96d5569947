// Package pricing holds the pure price calculations used when a purchase
// is priced. No storage access, no side effects.
package pricing

import "github.com/shopspring/decimal"

var oneHundred = decimal.NewFromInt(100)

// EffectiveUnitPrice returns the unit price after applying the discount
// percent, rounded to 2 decimal places (half up). A zero discount returns
// the list price unchanged so no rounding is introduced.
func EffectiveUnitPrice(listPrice decimal.Decimal, discountPercent int) decimal.Decimal {
	if discountPercent == 0 {
		return listPrice
	}
	remaining := decimal.NewFromInt(int64(100 - discountPercent))
	return listPrice.Mul(remaining).Div(oneHundred).Round(2)
}

// TotalPrice multiplies an already-discounted unit price by the quantity.
// The discount is applied once, in EffectiveUnitPrice, and never again.
func TotalPrice(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}
