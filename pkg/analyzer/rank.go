package analyzer

import (
	"sort"

	"github.com/rg0now/rfm-segments/pkg/models"
)

// binning describes which path the ranker took for a column.
type binning int

const (
	// regular equal-frequency cut
	binningQuantile binning = iota
	// fewer distinct values than buckets
	binningDistinct
	// fewer than two achievable bins
	binningDegenerate
	// re-cut disagreed with the reduced bucket count
	binningFailed
)

func (b binning) String() string {
	switch b {
	case binningQuantile:
		return "quantile"
	case binningDistinct:
		return "distinct"
	case binningDegenerate:
		return "degenerate"
	case binningFailed:
		return "failed"
	}
	return "unknown"
}

// Rank buckets values into equal-frequency bins and labels each value with
// labelOrder[bin]. The first label is the lowest-value bin. The result has the
// same length and order as values.
//
// When the data cannot support numBuckets bins, the bucket count shrinks to
// what the data allows. With fewer than two bins every value gets
// labelOrder[0].
func Rank(values []float64, numBuckets int, labelOrder []models.Rank) []models.Rank {
	ranks, _ := rank(values, numBuckets, labelOrder)
	return ranks
}

func rank(values []float64, numBuckets int, labelOrder []models.Rank) ([]models.Rank, binning) {
	out := make([]models.Rank, len(values))
	if len(values) == 0 || len(labelOrder) == 0 {
		return out, binningDegenerate
	}
	if numBuckets > len(labelOrder) {
		numBuckets = len(labelOrder)
	}

	sorted := sortedCopy(values)
	distinct := unique(sorted)
	if numBuckets < 2 || len(distinct) < 2 {
		fill(out, labelOrder[0])
		return out, binningDegenerate
	}

	// Too few distinct values for the requested cut: one bucket per value.
	if len(distinct) < numBuckets {
		for i, v := range values {
			out[i] = labelOrder[sort.SearchFloat64s(distinct, v)]
		}
		return out, binningDistinct
	}

	edges := unique(quantileEdges(sorted, numBuckets))
	nBins := len(edges) - 1
	if nBins < 2 {
		fill(out, labelOrder[0])
		return out, binningDegenerate
	}
	if nBins < numBuckets {
		edges = unique(quantileEdges(sorted, nBins))
		if len(edges)-1 != nBins {
			fill(out, labelOrder[0])
			return out, binningFailed
		}
	}

	for i, v := range values {
		out[i] = labelOrder[binIndex(edges, v)]
	}
	return out, binningQuantile
}

// binIndex maps v to a right-closed bin. The first bin also holds edges[0].
func binIndex(edges []float64, v float64) int {
	i := sort.SearchFloat64s(edges[1:], v)
	if last := len(edges) - 2; i > last {
		i = last
	}
	return i
}

func fill(ranks []models.Rank, r models.Rank) {
	for i := range ranks {
		ranks[i] = r
	}
}
