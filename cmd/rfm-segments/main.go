package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/rg0now/rfm-segments/pkg/analyzer"
	"github.com/rg0now/rfm-segments/pkg/config"
	"github.com/rg0now/rfm-segments/pkg/output"
	"github.com/rg0now/rfm-segments/pkg/report"
)

// app carries state shared by every subcommand.
type app struct {
	cfgPath string
	debug   bool

	cfg    *config.Config
	logger *slog.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "rfm-segments",
		Short: "Rank and segment customers from an RFM table",
		Long: `A tool to rank customers by Recency, Frequency and Monetary value
and assign each one a segment: High Value, Active, At Risk or Inactive.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgPath, "config", "", "YAML config file (default: built-in defaults)")
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(a.classifyCmd())
	rootCmd.AddCommand(a.reportCmd())
	rootCmd.AddCommand(a.lookupCmd())
	rootCmd.AddCommand(a.topCmd())

	return rootCmd
}

// setup loads .env and config, then installs the logger.
func (a *app) setup() error {
	_ = godotenv.Load()

	cfg := config.Default()
	if a.cfgPath != "" {
		loaded, err := config.Load(a.cfgPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	a.cfg = cfg

	level, err := cfg.Logging.SlogLevel()
	if err != nil {
		return err
	}
	if a.debug {
		level = slog.LevelDebug
	}
	a.logger = slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
	}))
	slog.SetDefault(a.logger)

	return nil
}

// formats are the export formats accepted by classify.
var formats = []string{"jsonl", "csv", "xlsx"}

// classifyCmd ranks and categorizes a table and exports it.
func (a *app) classifyCmd() *cobra.Command {
	var (
		in         inputFlags
		filters    filterFlags
		format     string
		outputFile string
	)

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Rank and categorize every customer",
		Long: `Rank Recency, Frequency and Monetary into quartiles and assign each
customer a category.

Examples:
  # Classify a CSV and print JSON lines
  rfm-segments classify --input=RFM_Clustered.csv

  # Export the classified table as Excel
  rfm-segments classify --input=RFM_Clustered.csv --format=xlsx --output=customers.xlsx

  # Read from Postgres and keep only recent customers
  rfm-segments classify --dsn=$DATABASE_URL --recency-max=30 --format=csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := filters.build(cmd)
			if err != nil {
				return err
			}
			// Reject the format before the output file is truncated.
			if !slices.Contains(formats, format) {
				return fmt.Errorf("unknown format %q (want jsonl, csv or xlsx)", format)
			}

			// Load and classify customers.
			ds, err := a.load(cmd.Context(), in)
			if err != nil {
				return err
			}
			customers, err := a.apply(ds, f)
			if err != nil {
				return err
			}

			// Create output writer.
			w, err := output.NewWriter(outputFile)
			if err != nil {
				return fmt.Errorf("failed to create output writer: %w", err)
			}
			defer w.Close()

			// Write customers.
			layout := output.NewLayout(ds.table.Columns, a.cfg.Input.IDColumn)
			switch format {
			case "jsonl":
				err = w.WriteCustomers(customers)
			case "csv":
				err = output.WriteCSV(w.Out(), layout, customers)
			case "xlsx":
				err = output.WriteCustomersXLSX(w.Out(), layout, customers)
			}
			if err != nil {
				return err
			}

			a.logger.Info("Wrote classified customers", "count", len(customers), "format", format)
			return nil
		},
	}

	in.register(cmd)
	filters.register(cmd)
	cmd.Flags().StringVar(&format, "format", "jsonl", "Output format: jsonl, csv or xlsx")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

// reportCmd prints KPIs, categories, top customers, outliers and clusters.
func (a *app) reportCmd() *cobra.Command {
	var (
		in      inputFlags
		filters filterFlags
		topN    int
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize a classified customer table",
		Long: `Generate a summary report: KPIs, category distribution, top customers,
outliers and per-cluster statistics.

Examples:
  rfm-segments report --input=RFM_Clustered.csv --top=5
  rfm-segments report --input=RFM_Clustered.csv --filter-attr=Country --filter-value="United Kingdom"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := filters.build(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("top") {
				topN = a.cfg.Report.TopN
			}

			// Load and classify customers.
			ds, err := a.load(cmd.Context(), in)
			if err != nil {
				return err
			}
			customers, err := a.apply(ds, f)
			if err != nil {
				return err
			}

			// Generate summary.
			summary := output.GenerateSummary(customers, topN, a.cfg.Report.ClusterColumn, a.cfg.Report.ClusterNames)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}

			// Print summary.
			output.PrintSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}

	in.register(cmd)
	filters.register(cmd)
	cmd.Flags().IntVar(&topN, "top", 10, "Number of top customers to show per metric")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the summary as JSON")

	return cmd
}

// lookupCmd finds customers by ID and recommends an action.
func (a *app) lookupCmd() *cobra.Command {
	var (
		in      inputFlags
		filters filterFlags
		id      string
	)

	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Look up customers by ID with a recommendation",
		Long: `Show every customer whose ID contains the given text, with a
recommendation based on the quartiles of the (filtered) table.

Examples:
  rfm-segments lookup --input=RFM_Clustered.csv --id=12347`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := filters.build(cmd)
			if err != nil {
				return err
			}

			// Load and classify customers.
			ds, err := a.load(cmd.Context(), in)
			if err != nil {
				return err
			}
			customers, err := a.apply(ds, f)
			if err != nil {
				return err
			}

			// Print matches with recommendations.
			output.PrintMatches(cmd.OutOrStdout(), report.Lookup(customers, id))
			return nil
		},
	}

	in.register(cmd)
	filters.register(cmd)
	cmd.Flags().StringVar(&id, "id", "", "CustomerID (or part of it) to look up")
	cmd.MarkFlagRequired("id")

	return cmd
}

// topCmd writes the top-N workbook.
func (a *app) topCmd() *cobra.Command {
	var (
		in         inputFlags
		filters    filterFlags
		topN       int
		outputFile string
	)

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Export the top-N customers per metric as Excel",
		Long: `Write a workbook with the most recent, most frequent and top monetary
customers, one sheet each.

Examples:
  rfm-segments top --input=RFM_Clustered.csv --top=20 --output=top_n_customers.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := filters.build(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("top") {
				topN = a.cfg.Report.TopN
			}

			// Load and classify customers.
			ds, err := a.load(cmd.Context(), in)
			if err != nil {
				return err
			}
			customers, err := a.apply(ds, f)
			if err != nil {
				return err
			}

			// Create output writer.
			w, err := output.NewWriter(outputFile)
			if err != nil {
				return fmt.Errorf("failed to create output writer: %w", err)
			}
			defer w.Close()

			// Write one sheet per metric.
			top := report.TopN(customers, topN)
			return output.WriteTopXLSX(w.Out(), a.cfg.Input.IDColumn, top)
		},
	}

	in.register(cmd)
	filters.register(cmd)
	cmd.Flags().IntVar(&topN, "top", 10, "Number of customers per sheet")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output .xlsx file")
	cmd.MarkFlagRequired("output")

	return cmd
}

// newAnalyzer builds an analyzer from the loaded config.
func (a *app) newAnalyzer() *analyzer.Analyzer {
	return analyzer.NewAnalyzer(a.cfg.Input.IDColumn, a.cfg.Ranking.Buckets, a.logger)
}
