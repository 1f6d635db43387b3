package aggregate

import (
	"math"
	"time"
)

// Round2 rounds to 2 decimal places, the response-wide policy for
// percentages and most currency values.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round1 rounds to 1 decimal place, used for period-over-period deltas.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// RatePct derives a percentage with the zero-denominator policy: 0, never
// NaN or Inf, when the denominator is 0.
func RatePct(numerator, denominator int64) float64 {
	if denominator <= 0 {
		return 0
	}
	return Round2(100 * float64(numerator) / float64(denominator))
}

// CostPerReply is rounded to cents.
func CostPerReply(costUSD float64, replies int64) float64 {
	if replies <= 0 {
		return 0
	}
	return Round2(costUSD / float64(replies))
}

// CostPerSend is left unrounded to preserve sub-cent precision.
func CostPerSend(costUSD float64, sends int64) float64 {
	if sends <= 0 {
		return 0
	}
	return costUSD / float64(sends)
}

// ChangePct is the period-over-period percent change of a counter.
func ChangePct(current, previous int64) float64 {
	if previous <= 0 {
		return 0
	}
	return Round1(100 * float64(current-previous) / float64(previous))
}

// ChangePP is a percentage-point delta between two rates, not a
// percent-of-percent.
func ChangePP(currentPct, previousPct float64) float64 {
	return Round2(currentPct - previousPct)
}

// MonthlyProjection extrapolates month-to-date spend to a full-month
// figure. It returns nil unless the range start falls in the current
// calendar month; a zero spend in the current month projects to 0, not nil.
func MonthlyProjection(totalCostUSD float64, start, now time.Time) *float64 {
	start, now = start.UTC(), now.UTC()
	if start.Year() != now.Year() || start.Month() != now.Month() {
		return nil
	}

	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	daysPassed := int(math.Ceil(now.Sub(startOfMonth).Hours()/24)) + 1
	if daysPassed < 1 {
		daysPassed = 1
	}
	daysInMonth := startOfMonth.AddDate(0, 1, -1).Day()

	p := Round2(totalCostUSD / float64(daysPassed) * float64(daysInMonth))
	return &p
}
