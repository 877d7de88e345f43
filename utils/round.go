package utils

import "math"

// Round1 rounds to one decimal place. Used for day counts.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Round2 rounds to two decimal places. Used for currency and percentages.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// PercentChange returns the percent change from previous to current,
// rounded to two decimals. Zero when previous is zero — there is nothing
// meaningful to compare against.
func PercentChange(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return Round2((current - previous) / previous * 100)
}
