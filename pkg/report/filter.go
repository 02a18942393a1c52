package report

import (
	"fmt"
	"math"
	"slices"

	"github.com/rg0now/rfm-segments/pkg/models"
)

// Range is an inclusive numeric interval.
type Range struct {
	Min float64
	Max float64
}

// Unbounded returns a range that contains every finite value.
func Unbounded() Range {
	return Range{Min: math.Inf(-1), Max: math.Inf(1)}
}

// Contains reports whether v lies within the range, bounds included.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Filter narrows a classified customer list.
type Filter struct {
	Recency   Range
	Frequency Range
	Monetary  Range

	// Attribute and Value select rows whose column equals Value. Any
	// column works, including the ID, metric and derived columns.
	// An empty Attribute disables the check.
	Attribute string
	Value     string

	// IDColumn names the identifier column; empty means CustomerID.
	IDColumn string
}

// NewFilter returns a filter that keeps every customer.
func NewFilter() Filter {
	return Filter{
		Recency:   Unbounded(),
		Frequency: Unbounded(),
		Monetary:  Unbounded(),
	}
}

// Match reports whether a single customer passes the filter.
func (f Filter) Match(c models.Customer) bool {
	if !f.Recency.Contains(c.Recency) || !f.Frequency.Contains(c.Frequency) || !f.Monetary.Contains(c.Monetary) {
		return false
	}
	if f.Attribute != "" && c.Cell(f.Attribute, f.idColumn()) != f.Value {
		return false
	}
	return true
}

// Validate checks that the attribute names a column of the table or one
// added by classification.
func (f Filter) Validate(columns []string) error {
	if f.Attribute == "" {
		return nil
	}
	if slices.Contains(columns, f.Attribute) || slices.Contains(models.DerivedColumns, f.Attribute) {
		return nil
	}
	return fmt.Errorf("unknown filter attribute %q", f.Attribute)
}

func (f Filter) idColumn() string {
	if f.IDColumn == "" {
		return models.ColumnCustomerID
	}
	return f.IDColumn
}

// Apply returns the customers passing the filter, in input order.
// Ranks and categories are left as classified on the full table.
func (f Filter) Apply(customers []models.Customer) []models.Customer {
	out := make([]models.Customer, 0, len(customers))
	for _, c := range customers {
		if f.Match(c) {
			out = append(out, c)
		}
	}
	return out
}
