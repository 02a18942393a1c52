package analyzer

import (
	"math"
	"sort"
)

// Quantile returns the p-quantile of sorted values using linear interpolation
// between the closest ranks. Returns NaN for an empty slice.
func Quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}

	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// Quantiles sorts a copy of values and evaluates each requested p.
func Quantiles(values []float64, ps ...float64) []float64 {
	sorted := sortedCopy(values)
	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = Quantile(sorted, p)
	}
	return out
}

// Median returns the 0.5-quantile of values.
func Median(values []float64) float64 {
	return Quantile(sortedCopy(values), 0.5)
}

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// quantileEdges computes the q+1 equal-frequency bin edges of sorted values.
func quantileEdges(sorted []float64, q int) []float64 {
	edges := make([]float64, q+1)
	for k := 0; k <= q; k++ {
		edges[k] = Quantile(sorted, float64(k)/float64(q))
	}
	return edges
}

func sortedCopy(values []float64) []float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return sorted
}

// unique drops adjacent duplicates from a sorted slice.
func unique(sorted []float64) []float64 {
	out := make([]float64, 0, len(sorted))
	for i, v := range sorted {
		if i == 0 || v != sorted[i-1] {
			out = append(out, v)
		}
	}
	return out
}
