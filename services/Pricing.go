package services

import (
	"boothStore/models"

	"github.com/shopspring/decimal"
)

// CustomizationCost sums the add-on costs of a selection.
func CustomizationCost(opts []models.CustomizationOption) decimal.Decimal {
	sum := decimal.Zero
	for _, o := range opts {
		sum = sum.Add(o.AdditionalCost)
	}
	return sum
}

// UnitCost is the price of one unit including add-ons.
func UnitCost(price decimal.Decimal, opts []models.CustomizationOption) decimal.Decimal {
	return price.Add(CustomizationCost(opts))
}

// LineTotal is quantity × (price + Σ add-on cost). No rounding is applied.
func LineTotal(price decimal.Decimal, quantity int, opts []models.CustomizationOption) decimal.Decimal {
	return UnitCost(price, opts).Mul(decimal.NewFromInt(int64(quantity)))
}

// FormatMoney rounds to cents for display.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}
