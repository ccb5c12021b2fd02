package report

import (
	"math"
	"sort"
	"strings"
)

// DefaultSignificanceLevels are the conventional p-value thresholds, widest
// first. A p-value at or below a threshold earns one star per threshold
// cleared, so p <= 0.01 renders as "***".
var DefaultSignificanceLevels = []float64{0.1, 0.05, 0.01}

// stars maps a p-value to its significance marker for the given thresholds.
// NaN means the p-value is unavailable and earns no marker.
func stars(p float64, levels []float64) string {
	if math.IsNaN(p) {
		return ""
	}
	n := 0
	for _, level := range levels {
		if p <= level {
			n++
		}
	}
	return strings.Repeat("*", n)
}

// legend renders the significance key shown in the table notes, e.g.
// "*p<0.1; **p<0.05; ***p<0.01". The p-value thresholds are emitted widest
// first regardless of input order.
func legend(levels []float64) string {
	ordered := append([]float64(nil), levels...)
	sort.Sort(sort.Reverse(sort.Float64Slice(ordered)))

	parts := make([]string, 0, len(ordered))
	for i, level := range ordered {
		parts = append(parts, strings.Repeat("*", i+1)+"p&lt;"+trimFloat(level))
	}
	return strings.Join(parts, "; ")
}
