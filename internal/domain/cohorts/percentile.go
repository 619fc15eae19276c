package cohorts

import (
	"math"
	"sort"
)

// Percentile uses the nearest-rank rule on an ascending slice:
// sorted[max(ceil(n*p)-1, 0)].
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	idx := int(math.Ceil(float64(n)*p)) - 1
	idx = max(idx, 0)
	idx = min(idx, n-1)
	return sorted[idx]
}

// Summary holds the published points of one metric.
type Summary struct {
	P10, P25, P50, P75, P90 float64
	Mean                    float64
}

// Summarize sorts a copy of values and takes every published point.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}

	return Summary{
		P10:  Percentile(sorted, 0.10),
		P25:  Percentile(sorted, 0.25),
		P50:  Percentile(sorted, 0.50),
		P75:  Percentile(sorted, 0.75),
		P90:  Percentile(sorted, 0.90),
		Mean: sum / float64(len(sorted)),
	}
}
