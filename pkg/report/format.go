package report

import (
	"math"
	"strconv"
)

// formatStat rounds a statistic to the configured number of decimal digits
// and renders it without a trailing zero tail, matching how the values read
// in published regression tables (0.9, not 0.900).
func formatStat(x float64, digits int) string {
	if math.IsNaN(x) {
		return ""
	}
	pow := math.Pow(10, float64(digits))
	rounded := math.Round(x*pow) / pow
	return trimFloat(rounded)
}

func trimFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
