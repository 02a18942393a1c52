package models

import (
	"strconv"
	"strings"
)

// Table is a raw customer table as read from a source (CSV, database).
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// Rank is an ordinal score per metric. 4 is always the best standing.
type Rank int

// Category is the final segment label for a customer.
type Category string

// Customer represents one classified row of the input table.
type Customer struct {
	ID        string  `json:"customer_id"`
	Recency   float64 `json:"recency"`   // days since last activity, lower is better
	Frequency float64 `json:"frequency"` // activity count, higher is better
	Monetary  float64 `json:"monetary"`  // total value, higher is better

	// Ranks.
	RRank Rank `json:"r_rank"`
	FRank Rank `json:"f_rank"`
	MRank Rank `json:"m_rank"`

	// Segment.
	Category     Category `json:"category"`
	CategoryDesc string   `json:"category_desc"`

	// Attributes holds every non-RFM column of the source row (Cluster, Country, ...).
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Cell renders the value of the named source or derived column.
func (c Customer) Cell(column, idColumn string) string {
	switch column {
	case idColumn:
		return c.ID
	case ColumnRecency:
		return formatFloat(c.Recency)
	case ColumnFrequency:
		return formatFloat(c.Frequency)
	case ColumnMonetary:
		return formatFloat(c.Monetary)
	case ColumnRRank:
		return strconv.Itoa(int(c.RRank))
	case ColumnFRank:
		return strconv.Itoa(int(c.FRank))
	case ColumnMRank:
		return strconv.Itoa(int(c.MRank))
	case ColumnCategory:
		return string(c.Category)
	case ColumnCategoryDesc:
		return c.CategoryDesc
	}
	return c.Attributes[column]
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// IsDerivedColumn reports whether name is one of the columns added by classification.
func IsDerivedColumn(name string) bool {
	for _, col := range DerivedColumns {
		if strings.EqualFold(col, name) {
			return true
		}
	}
	return false
}

// Column names.
const (
	ColumnCustomerID = "CustomerID"
	ColumnRecency    = "Recency"
	ColumnFrequency  = "Frequency"
	ColumnMonetary   = "Monetary"
	ColumnCluster    = "Cluster"

	// Derived.
	ColumnRRank        = "R_rank"
	ColumnFRank        = "F_rank"
	ColumnMRank        = "M_rank"
	ColumnCategory     = "Category"
	ColumnCategoryDesc = "Category_Desc"
)

// DerivedColumns are appended to the source columns on export.
var DerivedColumns = []string{
	ColumnRRank,
	ColumnFRank,
	ColumnMRank,
	ColumnCategory,
	ColumnCategoryDesc,
}

// Categories.
const (
	CategoryHighValue Category = "High Value"
	CategoryActive    Category = "Active"
	CategoryAtRisk    Category = "At Risk"
	CategoryInactive  Category = "Inactive"
)

// Categories lists every category in rule order.
var Categories = []Category{
	CategoryHighValue,
	CategoryActive,
	CategoryAtRisk,
	CategoryInactive,
}

// Category descriptions.
const (
	DescHighValue = "Recent, frequent, and high spenders"
	DescActive    = "Recent and frequent, moderate spend"
	DescAtRisk    = "Used to spend, but not recent"
	DescInactive  = "Not recent, low spend/frequency"
)

// Description returns the fixed description for a category.
func (c Category) Description() string {
	switch c {
	case CategoryHighValue:
		return DescHighValue
	case CategoryActive:
		return DescActive
	case CategoryAtRisk:
		return DescAtRisk
	case CategoryInactive:
		return DescInactive
	}
	return ""
}

// Label orders for the quantile ranker.
var (
	// RecencyOrder maps low recency (recent) to the best rank.
	RecencyOrder = []Rank{4, 3, 2, 1}
	// AscendingOrder maps low frequency/monetary to the worst rank.
	AscendingOrder = []Rank{1, 2, 3, 4}
)

// DefaultBuckets is the quartile bucket count.
const DefaultBuckets = 4
