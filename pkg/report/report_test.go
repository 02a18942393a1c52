package report

import (
	"testing"

	"github.com/rg0now/rfm-segments/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

func customer(id string, r, f, m float64, category models.Category, attrs map[string]string) models.Customer {
	return models.Customer{
		ID:           id,
		Recency:      r,
		Frequency:    f,
		Monetary:     m,
		Category:     category,
		CategoryDesc: category.Description(),
		Attributes:   attrs,
	}
}

func fixture() []models.Customer {
	return []models.Customer{
		customer("12346", 325, 1, 77183.6, models.CategoryAtRisk, map[string]string{"Cluster": "0", "Country": "UK"}),
		customer("12347", 2, 7, 4310, models.CategoryActive, map[string]string{"Cluster": "1", "Country": "Iceland"}),
		customer("12348", 75, 4, 1797.24, models.CategoryActive, map[string]string{"Cluster": "2", "Country": "Finland"}),
		customer("12349", 18, 1, 1757.55, models.CategoryInactive, map[string]string{"Cluster": "2", "Country": "Italy"}),
		customer("12350", 310, 1, 334.4, models.CategoryInactive, map[string]string{"Cluster": "0", "Country": "Norway"}),
		customer("12352", 36, 8, 2506.04, models.CategoryHighValue, map[string]string{"Cluster": "1", "Country": "Norway"}),
		customer("12353", 204, 1, 89, models.CategoryInactive, map[string]string{"Cluster": "0", "Country": "Bahrain"}),
		customer("12354", 232, 1, 1079.4, models.CategoryInactive, map[string]string{"Cluster": "3", "Country": "Spain"}),
	}
}

func ids(customers []models.Customer) []string {
	out := make([]string, len(customers))
	for i, c := range customers {
		out[i] = c.ID
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Filter
// ─────────────────────────────────────────────────────────────────────────────

func TestFilter_KeepsEverythingByDefault(t *testing.T) {
	assert.Len(t, NewFilter().Apply(fixture()), 8)
}

func TestFilter_InclusiveRanges(t *testing.T) {
	f := NewFilter()
	f.Recency = Range{Min: 18, Max: 75}

	assert.Equal(t, []string{"12348", "12349", "12352"}, ids(f.Apply(fixture())))
}

func TestFilter_Attribute(t *testing.T) {
	f := NewFilter()
	f.Attribute = "Country"
	f.Value = "Norway"
	f.Monetary = Range{Min: 1000, Max: Unbounded().Max}

	assert.Equal(t, []string{"12352"}, ids(f.Apply(fixture())))
}

func TestFilter_DerivedColumns(t *testing.T) {
	f := NewFilter()
	f.Attribute = models.ColumnCategory
	f.Value = string(models.CategoryAtRisk)
	assert.Equal(t, []string{"12346"}, ids(f.Apply(fixture())))

	f.Value = string(models.CategoryInactive)
	assert.Equal(t, []string{"12349", "12350", "12353", "12354"}, ids(f.Apply(fixture())))

	f.Attribute = models.ColumnCategoryDesc
	f.Value = models.CategoryHighValue.Description()
	assert.Equal(t, []string{"12352"}, ids(f.Apply(fixture())))
}

func TestFilter_IDAndMetricColumns(t *testing.T) {
	f := NewFilter()
	f.Attribute = "customer_id"
	f.IDColumn = "customer_id"
	f.Value = "12348"
	assert.Equal(t, []string{"12348"}, ids(f.Apply(fixture())))

	f = NewFilter()
	f.Attribute = models.ColumnFrequency
	f.Value = "8"
	assert.Equal(t, []string{"12352"}, ids(f.Apply(fixture())))
}

func TestFilter_Validate(t *testing.T) {
	columns := []string{"CustomerID", "Recency", "Frequency", "Monetary", "Cluster", "Country"}

	f := NewFilter()
	assert.NoError(t, f.Validate(columns))

	for _, attr := range []string{"Country", "Category", "Category_Desc", "R_rank"} {
		f.Attribute = attr
		assert.NoError(t, f.Validate(columns), attr)
	}

	f.Attribute = "Segment"
	err := f.Validate(columns)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Segment"`)
}

func TestFilter_PreservesClassification(t *testing.T) {
	f := NewFilter()
	f.Frequency = Range{Min: 5, Max: 10}

	got := f.Apply(fixture())
	require.Len(t, got, 2)
	assert.Equal(t, models.CategoryHighValue, got[1].Category)
}

// ─────────────────────────────────────────────────────────────────────────────
// Lookup
// ─────────────────────────────────────────────────────────────────────────────

func TestLookup_Substring(t *testing.T) {
	matches := Lookup(fixture(), "1235")
	assert.Len(t, matches, 4)

	assert.Empty(t, Lookup(fixture(), "  "))
	assert.Empty(t, Lookup(fixture(), "99999"))
}

func TestLookup_Recommendations(t *testing.T) {
	// Recency Q25=31.5 Q75=251.5, Frequency Q25=1 Q75=4.75, Monetary Q75=2957.03.
	tests := []struct {
		id       string
		expected Recommendation
	}{
		{"12347", RecommendReward},
		{"12346", RecommendWinBack},
		{"12350", RecommendWinBack},
		{"12348", RecommendEngage},
		{"12349", RecommendEngage},
	}

	for _, tt := range tests {
		matches := Lookup(fixture(), tt.id)
		require.Len(t, matches, 1, tt.id)
		assert.Equal(t, tt.expected, matches[0].Recommendation, tt.id)
		assert.Equal(t, tt.expected.Text(), matches[0].Text)
	}
}

func TestThresholds_Encourage(t *testing.T) {
	th := Thresholds{RecencyQ25: 10, RecencyQ75: 100, FrequencyQ25: 3, FrequencyQ75: 8, MonetaryQ75: 500}

	assert.Equal(t, RecommendEncourage, th.Recommend(customer("x", 50, 2, 10, models.CategoryInactive, nil)))
	assert.Equal(t, RecommendEngage, th.Recommend(customer("y", 50, 3, 10, models.CategoryInactive, nil)))
}

// ─────────────────────────────────────────────────────────────────────────────
// KPIs
// ─────────────────────────────────────────────────────────────────────────────

func TestComputeKPIs(t *testing.T) {
	customers := append(fixture(), customer("12347", 2, 7, 100, models.CategoryActive, nil))

	kpis := ComputeKPIs(customers)
	assert.Equal(t, 8, kpis.Customers, "duplicate ids count once")
	assert.InDelta(t, 89157.23, kpis.TotalRevenue, 1e-6)
	assert.InDelta(t, 89157.23/9, kpis.AverageSpend, 1e-6)

	require.Len(t, kpis.Categories, 4)
	assert.Equal(t, models.CategoryHighValue, kpis.Categories[0].Category)
	assert.Equal(t, 1, kpis.Categories[0].Count)
	assert.Equal(t, 3, kpis.Categories[1].Count)
	assert.Equal(t, 4, kpis.Categories[3].Count)
}

func TestComputeKPIs_Empty(t *testing.T) {
	kpis := ComputeKPIs(nil)
	assert.Zero(t, kpis.Customers)
	assert.Zero(t, kpis.AverageSpend)
	assert.Len(t, kpis.Categories, 4)
}

// ─────────────────────────────────────────────────────────────────────────────
// Top N
// ─────────────────────────────────────────────────────────────────────────────

func TestTopN(t *testing.T) {
	top := TopN(fixture(), 3)

	assert.Equal(t, []string{"12347", "12349", "12352"}, ids(top.MostRecent))
	assert.Equal(t, []string{"12352", "12347", "12348"}, ids(top.MostFrequent))
	assert.Equal(t, []string{"12346", "12347", "12352"}, ids(top.TopMonetary))
}

func TestTopN_TiesKeepInputOrder(t *testing.T) {
	top := TopN(fixture(), 8)
	assert.Equal(t, []string{"12352", "12347", "12348", "12346", "12349", "12350", "12353", "12354"}, ids(top.MostFrequent))
}

func TestTopN_Clamped(t *testing.T) {
	top := TopN(fixture()[:2], 50)
	assert.Len(t, top.MostRecent, 2)

	assert.Empty(t, TopN(fixture(), 0).TopMonetary)
}

// ─────────────────────────────────────────────────────────────────────────────
// Outliers
// ─────────────────────────────────────────────────────────────────────────────

func TestFlagOutliers(t *testing.T) {
	var customers []models.Customer
	for i := 1; i <= 200; i++ {
		customers = append(customers, customer("c", float64(i), 5, float64(i*10), models.CategoryInactive, nil))
	}

	flags := FlagOutliers(customers)
	require.Len(t, flags, 200)

	assert.True(t, flags[0].Recency)
	assert.True(t, flags[199].Monetary)
	assert.False(t, flags[100].Recency)
	assert.False(t, flags[100].Monetary)

	// A constant column sits on both percentiles.
	assert.True(t, flags[100].Frequency)

	counts := CountOutliers(flags)
	assert.Equal(t, 200, counts.Frequency)
	assert.Equal(t, 4, counts.Recency)
}

// ─────────────────────────────────────────────────────────────────────────────
// Clusters
// ─────────────────────────────────────────────────────────────────────────────

func TestClusterSummary(t *testing.T) {
	stats := ClusterSummary(fixture(), "Cluster", DefaultClusterNames)
	require.Len(t, stats, 4)

	assert.Equal(t, "0", stats[0].Cluster)
	assert.Equal(t, "Low Value Customers", stats[0].Name)
	assert.Equal(t, 3, stats[0].Count)
	assert.InDelta(t, (325.0+310+204)/3, stats[0].Recency.Mean, 1e-9)
	assert.Equal(t, 310.0, stats[0].Recency.Median)
	assert.InDelta(t, 77183.6+334.4+89, stats[0].Revenue, 1e-6)

	assert.Equal(t, "At-Risk Customers", stats[3].Name)
}

func TestClusterSummary_UnknownAndMissing(t *testing.T) {
	customers := fixture()
	customers[0].Attributes["Cluster"] = "10"

	stats := ClusterSummary(customers, "Cluster", nil)
	assert.Equal(t, "10", stats[len(stats)-1].Cluster, "numeric ids sort numerically")
	assert.Equal(t, "Cluster 10", stats[len(stats)-1].Name)

	assert.Nil(t, ClusterSummary(fixture(), "Segment", nil))
}
