package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rg0now/rfm-segments/pkg/models"
	"github.com/rg0now/rfm-segments/pkg/report"
)

// Writer handles output of classification results.
type Writer struct {
	file   *os.File
	writer io.Writer
}

// NewWriter creates a new output writer. An empty path or "-" writes to stdout.
func NewWriter(path string) (*Writer, error) {
	if path == "" || path == "-" {
		return &Writer{
			file:   nil,
			writer: os.Stdout,
		}, nil
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &Writer{
		file:   file,
		writer: file,
	}, nil
}

// Out returns the underlying destination.
func (w *Writer) Out() io.Writer {
	return w.writer
}

// WriteCustomer writes a single customer as a JSON line.
func (w *Writer) WriteCustomer(c models.Customer) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal customer: %w", err)
	}

	_, err = fmt.Fprintf(w.writer, "%s\n", data)
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return nil
}

// WriteCustomers writes multiple customers as JSON lines.
func (w *Writer) WriteCustomers(customers []models.Customer) error {
	for _, c := range customers {
		if err := w.WriteCustomer(c); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the output file if it was opened.
func (w *Writer) Close() error {
	if w.file != nil {
		return w.file.Close()
	}
	return nil
}

// Summary represents the report over a classified table.
type Summary struct {
	KPIs     report.KPIs           `json:"kpis"`
	Top      report.TopLists       `json:"top"`
	Outliers report.OutlierCounts  `json:"outliers"`
	Clusters []report.ClusterStats `json:"clusters,omitempty"`
}

// GenerateSummary generates a summary from a list of classified customers.
func GenerateSummary(customers []models.Customer, topN int, clusterColumn string, clusterNames map[string]string) Summary {
	summary := Summary{
		KPIs:     report.ComputeKPIs(customers),
		Outliers: report.CountOutliers(report.FlagOutliers(customers)),
	}

	if topN > 0 {
		summary.Top = report.TopN(customers, topN)
	}
	if clusterColumn != "" {
		summary.Clusters = report.ClusterSummary(customers, clusterColumn, clusterNames)
	}

	return summary
}

// PrintSummary prints a summary to the given writer.
func PrintSummary(w io.Writer, summary Summary) {
	fmt.Fprintf(w, "=== RFM Summary ===\n\n")
	fmt.Fprintf(w, "Total Customers: %d\n", summary.KPIs.Customers)
	fmt.Fprintf(w, "Total Revenue: %.2f\n", summary.KPIs.TotalRevenue)
	fmt.Fprintf(w, "Average Spend: %.2f\n", summary.KPIs.AverageSpend)
	fmt.Fprintf(w, "Average Frequency: %.1f\n", summary.KPIs.AverageFrequency)
	fmt.Fprintf(w, "Average Recency: %.1f\n\n", summary.KPIs.AverageRecency)

	fmt.Fprintf(w, "Category Distribution:\n")
	for _, cc := range summary.KPIs.Categories {
		fmt.Fprintf(w, "  %s: %d (%.1f%%) - %s\n", cc.Category, cc.Count, cc.Share, cc.Description)
	}
	fmt.Fprintf(w, "\n")

	printTop(w, "Most Recent Customers", summary.Top.MostRecent)
	printTop(w, "Most Frequent Customers", summary.Top.MostFrequent)
	printTop(w, "Top Monetary Customers", summary.Top.TopMonetary)

	fmt.Fprintf(w, "Outliers (1st/99th percentile):\n")
	fmt.Fprintf(w, "  Recency: %d\n", summary.Outliers.Recency)
	fmt.Fprintf(w, "  Frequency: %d\n", summary.Outliers.Frequency)
	fmt.Fprintf(w, "  Monetary: %d\n\n", summary.Outliers.Monetary)

	if len(summary.Clusters) > 0 {
		fmt.Fprintf(w, "Cluster Statistics:\n")
		for _, cs := range summary.Clusters {
			fmt.Fprintf(w, "  %s (%s): %d customers, revenue %.2f\n", cs.Name, cs.Cluster, cs.Count, cs.Revenue)
			fmt.Fprintf(w, "    Recency   mean %.2f median %.2f\n", cs.Recency.Mean, cs.Recency.Median)
			fmt.Fprintf(w, "    Frequency mean %.2f median %.2f\n", cs.Frequency.Mean, cs.Frequency.Median)
			fmt.Fprintf(w, "    Monetary  mean %.2f median %.2f\n", cs.Monetary.Mean, cs.Monetary.Median)
		}
		fmt.Fprintf(w, "\n")
	}
}

func printTop(w io.Writer, title string, customers []models.Customer) {
	if len(customers) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	for i, c := range customers {
		fmt.Fprintf(w, "  %d. %s (R: %g, F: %g, M: %.2f)\n", i+1, c.ID, c.Recency, c.Frequency, c.Monetary)
	}
	fmt.Fprintf(w, "\n")
}

// PrintMatches prints lookup results with their recommendations.
func PrintMatches(w io.Writer, matches []report.Match) {
	if len(matches) == 0 {
		fmt.Fprintf(w, "No customer found with that ID.\n")
		return
	}
	for _, m := range matches {
		c := m.Customer
		fmt.Fprintf(w, "%s: R=%g F=%g M=%.2f ranks=(%d,%d,%d) %s\n",
			c.ID, c.Recency, c.Frequency, c.Monetary, c.RRank, c.FRank, c.MRank, c.Category)
		fmt.Fprintf(w, "  Recommendation: %s\n", m.Text)
	}
}
