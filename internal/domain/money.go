package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ToMinorUnits converts a major-unit amount (reais) to centavos, rounding half
// away from zero. Only the payment provider boundary uses minor units.
func ToMinorUnits(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(hundred).Round(0).IntPart()
}

// FormatBRL renders an amount for display, e.g. 50 -> "R$ 50,00".
func FormatBRL(amount float64) string {
	return "R$ " + strings.Replace(decimal.NewFromFloat(amount).StringFixed(2), ".", ",", 1)
}

// AddMoney sums major-unit amounts without accumulating float error.
func AddMoney(amounts ...float64) float64 {
	sum := decimal.Zero
	for _, a := range amounts {
		sum = sum.Add(decimal.NewFromFloat(a))
	}
	f, _ := sum.Float64()
	return f
}
