package report

import (
	"strings"

	"github.com/rg0now/rfm-segments/pkg/analyzer"
	"github.com/rg0now/rfm-segments/pkg/models"
)

// Recommendation is a suggested action for a single customer.
type Recommendation string

// Recommendation kinds, in evaluation order.
const (
	RecommendReward    Recommendation = "reward"
	RecommendWinBack   Recommendation = "win_back"
	RecommendEncourage Recommendation = "encourage"
	RecommendEngage    Recommendation = "engage"
)

// Text returns the human-readable recommendation.
func (r Recommendation) Text() string {
	switch r {
	case RecommendReward:
		return "Reward this loyal, high-value customer with a special offer!"
	case RecommendWinBack:
		return "Win back this inactive customer with a re-engagement campaign."
	case RecommendEncourage:
		return "Encourage this customer to purchase more frequently."
	case RecommendEngage:
		return "Keep this customer engaged with regular updates."
	}
	return ""
}

// Thresholds are the quartile cut points recommendations are judged against.
type Thresholds struct {
	RecencyQ25   float64
	RecencyQ75   float64
	FrequencyQ25 float64
	FrequencyQ75 float64
	MonetaryQ75  float64
}

// ComputeThresholds derives recommendation thresholds from a customer pool.
func ComputeThresholds(customers []models.Customer) Thresholds {
	r, f, m := metrics(customers)
	rq := analyzer.Quantiles(r, 0.25, 0.75)
	fq := analyzer.Quantiles(f, 0.25, 0.75)
	return Thresholds{
		RecencyQ25:   rq[0],
		RecencyQ75:   rq[1],
		FrequencyQ25: fq[0],
		FrequencyQ75: fq[1],
		MonetaryQ75:  analyzer.Quantiles(m, 0.75)[0],
	}
}

// Recommend picks the action for one customer. First match wins.
func (th Thresholds) Recommend(c models.Customer) Recommendation {
	switch {
	case c.Recency <= th.RecencyQ25 && c.Frequency >= th.FrequencyQ75 && c.Monetary >= th.MonetaryQ75:
		return RecommendReward
	case c.Recency > th.RecencyQ75:
		return RecommendWinBack
	case c.Frequency < th.FrequencyQ25:
		return RecommendEncourage
	default:
		return RecommendEngage
	}
}

// Match is a lookup hit with its recommendation.
type Match struct {
	Customer       models.Customer `json:"customer"`
	Recommendation Recommendation  `json:"recommendation"`
	Text           string          `json:"text"`
}

// Lookup returns every customer whose ID contains query, each with a
// recommendation judged against the quartiles of customers. An empty query
// matches nothing.
func Lookup(customers []models.Customer, query string) []Match {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	th := ComputeThresholds(customers)
	var matches []Match
	for _, c := range customers {
		if !strings.Contains(c.ID, query) {
			continue
		}
		rec := th.Recommend(c)
		matches = append(matches, Match{
			Customer:       c,
			Recommendation: rec,
			Text:           rec.Text(),
		})
	}
	return matches
}

func metrics(customers []models.Customer) (recency, frequency, monetary []float64) {
	recency = make([]float64, len(customers))
	frequency = make([]float64, len(customers))
	monetary = make([]float64, len(customers))
	for i, c := range customers {
		recency[i] = c.Recency
		frequency[i] = c.Frequency
		monetary[i] = c.Monetary
	}
	return recency, frequency, monetary
}
