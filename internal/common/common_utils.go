package common

import (
	"fmt"
	"math"
	"time"
)

func GetResponseTime(init time.Time) string {
	timeDiff := time.Since(init).Milliseconds()
	return fmt.Sprintf("%dms", timeDiff)
}

// Round2 rounds to two decimals. Hour totals and multipliers are stored
// at this precision.
func Round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// RemainingRestMinutes reports how many whole minutes of rest are still
// owed, rounding up so a pilot is never told zero while short.
func RemainingRestMinutes(since time.Time, now time.Time, required time.Duration) int {
	elapsed := now.Sub(since)
	if elapsed >= required {
		return 0
	}
	return int(math.Ceil((required - elapsed).Minutes()))
}
