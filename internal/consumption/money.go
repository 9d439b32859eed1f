package consumption

import "github.com/shopspring/decimal"

// FormatMoney rounds a cost to two decimal places for display. The engine
// itself carries unrounded floats; currency rounding happens only here, at
// the presentation edge.
func FormatMoney(cost float64) string {
	return decimal.NewFromFloat(cost).StringFixed(2)
}
