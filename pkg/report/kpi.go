package report

import (
	"github.com/rg0now/rfm-segments/pkg/analyzer"
	"github.com/rg0now/rfm-segments/pkg/models"
)

// CategoryCount is the size of one category.
type CategoryCount struct {
	Category    models.Category `json:"category"`
	Description string          `json:"description"`
	Count       int             `json:"count"`
	Share       float64         `json:"share"` // percent of all customers
}

// KPIs are the headline numbers of a customer table.
type KPIs struct {
	Customers        int             `json:"customers"` // distinct IDs
	TotalRevenue     float64         `json:"total_revenue"`
	AverageSpend     float64         `json:"average_spend"`
	AverageFrequency float64         `json:"average_frequency"`
	AverageRecency   float64         `json:"average_recency"`
	Categories       []CategoryCount `json:"categories"`
}

// ComputeKPIs summarizes a classified customer list.
func ComputeKPIs(customers []models.Customer) KPIs {
	r, f, m := metrics(customers)

	ids := make(map[string]struct{}, len(customers))
	counts := make(map[models.Category]int)
	var revenue float64
	for _, c := range customers {
		ids[c.ID] = struct{}{}
		counts[c.Category]++
		revenue += c.Monetary
	}

	kpis := KPIs{
		Customers:        len(ids),
		TotalRevenue:     revenue,
		AverageSpend:     analyzer.Mean(m),
		AverageFrequency: analyzer.Mean(f),
		AverageRecency:   analyzer.Mean(r),
	}

	for _, category := range models.Categories {
		cc := CategoryCount{
			Category:    category,
			Description: category.Description(),
			Count:       counts[category],
		}
		if len(customers) > 0 {
			cc.Share = 100.0 * float64(cc.Count) / float64(len(customers))
		}
		kpis.Categories = append(kpis.Categories, cc)
	}

	return kpis
}
