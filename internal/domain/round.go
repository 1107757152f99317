package domain

import "github.com/shopspring/decimal"

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// ChangePercent derives the percent change from a price and its absolute
// change against the previous price (price - change). A zero previous price
// yields 0.
func ChangePercent(price, change float64) float64 {
	prev := price - change
	if prev == 0 {
		return 0
	}
	return Round2(change / prev * 100)
}
