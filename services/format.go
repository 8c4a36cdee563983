package services

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatNumber renders v with the given number of decimals and comma
// thousands grouping, e.g. 1234567.5 -> "1,234,567.50". The value is rounded
// half away from zero first; v itself is not modified.
func FormatNumber(v float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	rounded := RoundHalfUp(v, decimals)
	return message.NewPrinter(language.English).Sprintf("%."+strconv.Itoa(decimals)+"f", rounded)
}

// FormatLargeNumber renders a currency total as a grouped whole number.
func FormatLargeNumber(v float64) string {
	return FormatNumber(v, 0)
}

// RoundHalfUp rounds v to decimals places, ties away from zero. Negative
// zero is normalised so it never renders as "-0". v*scale must stay below
// 2^53 to be exact, which holds for peso totals at two decimals up to ~9e13.
func RoundHalfUp(v float64, decimals int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	scale := math.Pow(10, float64(decimals))
	r := math.Round(v*scale) / scale
	if r == 0 {
		return 0
	}
	return r
}
