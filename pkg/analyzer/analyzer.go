package analyzer

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/rg0now/rfm-segments/pkg/models"
)

// ErrMissingColumn is returned when the input table lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// MissingColumnError names the column that is absent from the input table.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s %q", ErrMissingColumn, e.Column)
}

func (e *MissingColumnError) Unwrap() error {
	return ErrMissingColumn
}

// Analyzer ranks and categorizes customer tables.
type Analyzer struct {
	idColumn string
	buckets  int
	logger   *slog.Logger
}

// NewAnalyzer creates a new Analyzer. An empty idColumn defaults to
// CustomerID, a non-positive bucket count to quartiles and a nil logger to
// slog.Default.
func NewAnalyzer(idColumn string, buckets int, logger *slog.Logger) *Analyzer {
	if idColumn == "" {
		idColumn = models.ColumnCustomerID
	}
	if buckets <= 0 {
		buckets = models.DefaultBuckets
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		idColumn: idColumn,
		buckets:  buckets,
		logger:   logger,
	}
}

// IDColumn returns the name of the customer key column.
func (a *Analyzer) IDColumn() string {
	return a.idColumn
}

// Classify ranks every metric of the table and assigns each row a category.
// The table is not modified.
func (a *Analyzer) Classify(t *models.Table) ([]models.Customer, error) {
	idx, err := a.requiredColumns(t)
	if err != nil {
		return nil, err
	}

	customers := make([]models.Customer, 0, len(t.Rows))
	recency := make([]float64, 0, len(t.Rows))
	frequency := make([]float64, 0, len(t.Rows))
	monetary := make([]float64, 0, len(t.Rows))

	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return nil, fmt.Errorf("row %d: expected %d fields, got %d", i+1, len(t.Columns), len(row))
		}

		c := models.Customer{
			ID:         strings.TrimSpace(row[idx.id]),
			Attributes: make(map[string]string),
		}
		if c.Recency, err = parseMetric(row, idx.recency, models.ColumnRecency, i); err != nil {
			return nil, err
		}
		if c.Frequency, err = parseMetric(row, idx.frequency, models.ColumnFrequency, i); err != nil {
			return nil, err
		}
		if c.Monetary, err = parseMetric(row, idx.monetary, models.ColumnMonetary, i); err != nil {
			return nil, err
		}

		for j, col := range t.Columns {
			switch j {
			case idx.id, idx.recency, idx.frequency, idx.monetary:
				continue
			}
			if models.IsDerivedColumn(col) {
				continue
			}
			c.Attributes[col] = row[j]
		}

		customers = append(customers, c)
		recency = append(recency, c.Recency)
		frequency = append(frequency, c.Frequency)
		monetary = append(monetary, c.Monetary)
	}

	rRanks := a.rankColumn(models.ColumnRecency, recency, models.RecencyOrder)
	fRanks := a.rankColumn(models.ColumnFrequency, frequency, models.AscendingOrder)
	mRanks := a.rankColumn(models.ColumnMonetary, monetary, models.AscendingOrder)

	for i := range customers {
		c := &customers[i]
		c.RRank, c.FRank, c.MRank = rRanks[i], fRanks[i], mRanks[i]
		c.Category, c.CategoryDesc = Categorize(c.RRank, c.FRank, c.MRank)
	}

	a.logger.Debug("Classified customers", "rows", len(customers))
	return customers, nil
}

// rankColumn ranks one metric and logs the fallback paths.
func (a *Analyzer) rankColumn(name string, values []float64, order []models.Rank) []models.Rank {
	ranks, how := rank(values, a.buckets, order)
	switch how {
	case binningFailed:
		a.logger.Warn("Quantile binning failed, assigning lowest rank", "column", name, "rows", len(values))
	case binningDegenerate:
		if len(values) > 0 {
			a.logger.Debug("Too little variation to bin, assigning lowest rank", "column", name, "rows", len(values))
		}
	case binningDistinct:
		a.logger.Debug("Reduced bucket count to distinct values", "column", name)
	}
	return ranks
}

type columnIndex struct {
	id, recency, frequency, monetary int
}

// requiredColumns resolves the positions of the id and RFM columns.
func (a *Analyzer) requiredColumns(t *models.Table) (columnIndex, error) {
	if t == nil {
		return columnIndex{}, &MissingColumnError{Column: a.idColumn}
	}

	var idx columnIndex
	for _, req := range []struct {
		name string
		pos  *int
	}{
		{a.idColumn, &idx.id},
		{models.ColumnRecency, &idx.recency},
		{models.ColumnFrequency, &idx.frequency},
		{models.ColumnMonetary, &idx.monetary},
	} {
		*req.pos = t.ColumnIndex(req.name)
		if *req.pos < 0 {
			return columnIndex{}, &MissingColumnError{Column: req.name}
		}
	}
	return idx, nil
}

func parseMetric(row []string, pos int, column string, rowNum int) (float64, error) {
	raw := strings.TrimSpace(row[pos])
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("row %d: column %q: invalid number %q", rowNum+1, column, raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("row %d: column %q: not a finite number %q", rowNum+1, column, raw)
	}
	return v, nil
}
