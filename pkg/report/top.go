package report

import (
	"sort"

	"github.com/rg0now/rfm-segments/pkg/models"
)

// TopLists holds the top-N customers by each metric.
type TopLists struct {
	MostRecent   []models.Customer `json:"most_recent"`
	MostFrequent []models.Customer `json:"most_frequent"`
	TopMonetary  []models.Customer `json:"top_monetary"`
}

// TopN returns the n most recent, most frequent and highest-spending
// customers. Ties keep their input order.
func TopN(customers []models.Customer, n int) TopLists {
	return TopLists{
		MostRecent:   topBy(customers, n, func(c models.Customer) float64 { return -c.Recency }),
		MostFrequent: topBy(customers, n, func(c models.Customer) float64 { return c.Frequency }),
		TopMonetary:  topBy(customers, n, func(c models.Customer) float64 { return c.Monetary }),
	}
}

// topBy returns the n customers with the highest key.
func topBy(customers []models.Customer, n int, key func(models.Customer) float64) []models.Customer {
	if n <= 0 {
		return nil
	}

	sorted := make([]models.Customer, len(customers))
	copy(sorted, customers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return key(sorted[i]) > key(sorted[j])
	})

	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}
