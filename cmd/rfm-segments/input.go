package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rg0now/rfm-segments/pkg/models"
	"github.com/rg0now/rfm-segments/pkg/report"
	"github.com/rg0now/rfm-segments/pkg/source"
)

// inputFlags select where the customer table is read from.
type inputFlags struct {
	file  string
	dsn   string
	query string
}

func (in *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&in.file, "input", "i", "", "Input CSV file with CustomerID, Recency, Frequency, Monetary")
	cmd.Flags().StringVar(&in.dsn, "dsn", "", "Postgres connection string (default: database.url or $DATABASE_URL)")
	cmd.Flags().StringVar(&in.query, "query", "", "SQL query returning the RFM table (default: database.query)")
}

// dataset is a source table and its classification.
type dataset struct {
	table     *models.Table
	customers []models.Customer
}

// load reads the table from the selected source and classifies it.
func (a *app) load(ctx context.Context, in inputFlags) (*dataset, error) {
	table, err := a.readTable(ctx, in)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("Loaded customer table", "rows", len(table.Rows), "columns", len(table.Columns))

	customers, err := a.newAnalyzer().Classify(table)
	if err != nil {
		return nil, fmt.Errorf("failed to classify customers: %w", err)
	}

	return &dataset{table: table, customers: customers}, nil
}

// apply filters the classified customers. The attribute must name a column
// of the loaded table or one added by classification.
func (a *app) apply(ds *dataset, f report.Filter) ([]models.Customer, error) {
	f.IDColumn = a.cfg.Input.IDColumn
	if err := f.Validate(ds.table.Columns); err != nil {
		return nil, err
	}
	return f.Apply(ds.customers), nil
}

func (a *app) readTable(ctx context.Context, in inputFlags) (*models.Table, error) {
	if in.file != "" {
		delim, err := a.cfg.Input.DelimiterRune()
		if err != nil {
			return nil, err
		}
		table, err := source.LoadCSVFile(in.file, source.CSVOptions{Delimiter: delim})
		if err != nil {
			return nil, fmt.Errorf("failed to load customers from file: %w", err)
		}
		return table, nil
	}

	dsn := in.dsn
	if dsn == "" {
		dsn = a.cfg.Database.URL
	}
	if dsn == "" {
		return nil, fmt.Errorf("no input specified: use --input or --dsn")
	}

	query := in.query
	if query == "" {
		query = a.cfg.Database.Query
	}
	table, err := source.LoadPostgres(ctx, dsn, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load customers from database: %w", err)
	}
	return table, nil
}

// filterFlags are the range and attribute filters shared by subcommands.
type filterFlags struct {
	recencyMin, recencyMax     float64
	frequencyMin, frequencyMax float64
	monetaryMin, monetaryMax   float64
	attr, value                string
}

func (ff *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&ff.recencyMin, "recency-min", 0, "Minimum recency (inclusive)")
	cmd.Flags().Float64Var(&ff.recencyMax, "recency-max", 0, "Maximum recency (inclusive)")
	cmd.Flags().Float64Var(&ff.frequencyMin, "frequency-min", 0, "Minimum frequency (inclusive)")
	cmd.Flags().Float64Var(&ff.frequencyMax, "frequency-max", 0, "Maximum frequency (inclusive)")
	cmd.Flags().Float64Var(&ff.monetaryMin, "monetary-min", 0, "Minimum monetary value (inclusive)")
	cmd.Flags().Float64Var(&ff.monetaryMax, "monetary-max", 0, "Maximum monetary value (inclusive)")
	cmd.Flags().StringVar(&ff.attr, "filter-attr", "", "Column to filter on (e.g. Country or Category)")
	cmd.Flags().StringVar(&ff.value, "filter-value", "", "Required value of --filter-attr")
}

// build turns the flags that were set into a report.Filter.
func (ff *filterFlags) build(cmd *cobra.Command) (report.Filter, error) {
	f := report.NewFilter()
	flags := cmd.Flags()

	for _, b := range []struct {
		flag  string
		value float64
		dst   *float64
	}{
		{"recency-min", ff.recencyMin, &f.Recency.Min},
		{"recency-max", ff.recencyMax, &f.Recency.Max},
		{"frequency-min", ff.frequencyMin, &f.Frequency.Min},
		{"frequency-max", ff.frequencyMax, &f.Frequency.Max},
		{"monetary-min", ff.monetaryMin, &f.Monetary.Min},
		{"monetary-max", ff.monetaryMax, &f.Monetary.Max},
	} {
		if flags.Changed(b.flag) {
			*b.dst = b.value
		}
	}

	if flags.Changed("filter-attr") != flags.Changed("filter-value") {
		return f, fmt.Errorf("--filter-attr and --filter-value must be used together")
	}
	f.Attribute = ff.attr
	f.Value = ff.value

	return f, nil
}
