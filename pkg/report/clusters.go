package report

import (
	"sort"
	"strconv"

	"github.com/rg0now/rfm-segments/pkg/analyzer"
	"github.com/rg0now/rfm-segments/pkg/models"
)

// DefaultClusterNames maps K-Means cluster ids to segment names.
var DefaultClusterNames = map[string]string{
	"0": "Low Value Customers",
	"1": "Champions",
	"2": "Loyal Customers",
	"3": "At-Risk Customers",
}

// MetricStats is the central tendency of one metric within a group.
type MetricStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

// ClusterStats summarizes the customers of one precomputed cluster.
type ClusterStats struct {
	Cluster   string      `json:"cluster"`
	Name      string      `json:"name"`
	Count     int         `json:"count"`
	Recency   MetricStats `json:"recency"`
	Frequency MetricStats `json:"frequency"`
	Monetary  MetricStats `json:"monetary"`
	Revenue   float64     `json:"revenue"`
}

// ClusterSummary groups customers by the given attribute column. Customers
// without the attribute are skipped. Returns nil when no customer carries it.
// Clusters are ordered numerically when every id is a number.
func ClusterSummary(customers []models.Customer, column string, names map[string]string) []ClusterStats {
	groups := make(map[string][]models.Customer)
	for _, c := range customers {
		id, ok := c.Attributes[column]
		if !ok || id == "" {
			continue
		}
		groups[id] = append(groups[id], c)
	}
	if len(groups) == 0 {
		return nil
	}

	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sortClusterIDs(ids)

	stats := make([]ClusterStats, 0, len(ids))
	for _, id := range ids {
		members := groups[id]
		r, f, m := metrics(members)

		var revenue float64
		for _, v := range m {
			revenue += v
		}

		name := names[id]
		if name == "" {
			name = "Cluster " + id
		}

		stats = append(stats, ClusterStats{
			Cluster:   id,
			Name:      name,
			Count:     len(members),
			Recency:   MetricStats{Mean: analyzer.Mean(r), Median: analyzer.Median(r)},
			Frequency: MetricStats{Mean: analyzer.Mean(f), Median: analyzer.Median(f)},
			Monetary:  MetricStats{Mean: analyzer.Mean(m), Median: analyzer.Median(m)},
			Revenue:   revenue,
		})
	}
	return stats
}

func sortClusterIDs(ids []string) {
	numeric := true
	for _, id := range ids {
		if _, err := strconv.ParseFloat(id, 64); err != nil {
			numeric = false
			break
		}
	}

	sort.Slice(ids, func(i, j int) bool {
		if numeric {
			a, _ := strconv.ParseFloat(ids[i], 64)
			b, _ := strconv.ParseFloat(ids[j], 64)
			return a < b
		}
		return ids[i] < ids[j]
	})
}
