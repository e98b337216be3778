package exporter

import (
	"fmt"
	"math"
	"strconv"
)

// formatFloat formats a float64 for CSV output with exactly 2 decimal
// places, so values like 13.4 appear as 13.40. NaN means "no data" and
// becomes an empty cell, never the string NaN or a zero.
func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return fmt.Sprintf("%.2f", f)
}

// formatRate formats a ratio with 4 decimal places; win rates need more
// precision than money columns.
func formatRate(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return fmt.Sprintf("%.4f", f)
}

// formatScore formats a sentiment score, trimming trailing zeros since
// the feed carries integer-like values.
func formatScore(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return strconv.Itoa(i)
}

// formatBool formats a boolean value for CSV output
func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
