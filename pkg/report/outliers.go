package report

import (
	"github.com/rg0now/rfm-segments/pkg/analyzer"
	"github.com/rg0now/rfm-segments/pkg/models"
)

// Outlier percentiles.
const (
	OutlierLow  = 0.01
	OutlierHigh = 0.99
)

// OutlierFlags marks which metrics of a customer sit in the tails.
type OutlierFlags struct {
	Recency   bool `json:"recency"`
	Frequency bool `json:"frequency"`
	Monetary  bool `json:"monetary"`
}

// Any reports whether at least one metric is flagged.
func (o OutlierFlags) Any() bool {
	return o.Recency || o.Frequency || o.Monetary
}

// OutlierCounts totals flagged customers per metric.
type OutlierCounts struct {
	Recency   int `json:"recency"`
	Frequency int `json:"frequency"`
	Monetary  int `json:"monetary"`
}

// FlagOutliers flags each metric at or beyond the 1st/99th percentile of
// the list. The result is parallel to customers.
func FlagOutliers(customers []models.Customer) []OutlierFlags {
	r, f, m := metrics(customers)
	rq := analyzer.Quantiles(r, OutlierLow, OutlierHigh)
	fq := analyzer.Quantiles(f, OutlierLow, OutlierHigh)
	mq := analyzer.Quantiles(m, OutlierLow, OutlierHigh)

	flags := make([]OutlierFlags, len(customers))
	for i, c := range customers {
		flags[i] = OutlierFlags{
			Recency:   c.Recency <= rq[0] || c.Recency >= rq[1],
			Frequency: c.Frequency <= fq[0] || c.Frequency >= fq[1],
			Monetary:  c.Monetary <= mq[0] || c.Monetary >= mq[1],
		}
	}
	return flags
}

// CountOutliers totals the flags.
func CountOutliers(flags []OutlierFlags) OutlierCounts {
	var counts OutlierCounts
	for _, f := range flags {
		if f.Recency {
			counts.Recency++
		}
		if f.Frequency {
			counts.Frequency++
		}
		if f.Monetary {
			counts.Monetary++
		}
	}
	return counts
}
