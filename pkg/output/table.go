package output

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/rg0now/rfm-segments/pkg/models"
	"github.com/rg0now/rfm-segments/pkg/report"
	"github.com/xuri/excelize/v2"
)

// Sheet names.
const (
	SheetCustomers    = "Customers"
	SheetMostRecent   = "Most Recent"
	SheetMostFrequent = "Most Frequent"
	SheetTopMonetary  = "Top Monetary"
)

// Layout fixes the column order of tabular exports.
type Layout struct {
	Columns  []string // source columns, derived columns are appended
	IDColumn string
}

// NewLayout builds an export layout from the source column order.
// Stale derived columns from a previous run are dropped.
func NewLayout(columns []string, idColumn string) Layout {
	l := Layout{IDColumn: idColumn}
	for _, col := range columns {
		if !models.IsDerivedColumn(col) {
			l.Columns = append(l.Columns, col)
		}
	}
	l.Columns = append(l.Columns, models.DerivedColumns...)
	return l
}

// topLayout lists only the key and RFM columns, as the top-N exports do.
func topLayout(idColumn string) Layout {
	return Layout{
		Columns:  []string{idColumn, models.ColumnRecency, models.ColumnFrequency, models.ColumnMonetary},
		IDColumn: idColumn,
	}
}

// WriteCSV writes customers as CSV with a header row.
func WriteCSV(w io.Writer, layout Layout, customers []models.Customer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(layout.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, len(layout.Columns))
	for _, c := range customers {
		for i, col := range layout.Columns {
			record[i] = c.Cell(col, layout.IDColumn)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write customer %s: %w", c.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCustomersXLSX writes customers to a single-sheet workbook.
func WriteCustomersXLSX(w io.Writer, layout Layout, customers []models.Customer) error {
	return writeWorkbook(w, []sheet{{name: SheetCustomers, layout: layout, customers: customers}})
}

// WriteTopXLSX writes the top-N lists to a workbook with one sheet per list.
func WriteTopXLSX(w io.Writer, idColumn string, top report.TopLists) error {
	layout := topLayout(idColumn)
	return writeWorkbook(w, []sheet{
		{name: SheetMostRecent, layout: layout, customers: top.MostRecent},
		{name: SheetMostFrequent, layout: layout, customers: top.MostFrequent},
		{name: SheetTopMonetary, layout: layout, customers: top.TopMonetary},
	})
}

type sheet struct {
	name      string
	layout    Layout
	customers []models.Customer
}

func writeWorkbook(w io.Writer, sheets []sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.name); err != nil {
				return fmt.Errorf("failed to name sheet %q: %w", s.name, err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("failed to add sheet %q: %w", s.name, err)
		}

		if err := writeSheet(f, s); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, s sheet) error {
	header := make([]any, len(s.layout.Columns))
	for i, col := range s.layout.Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(s.name, "A1", &header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", s.name, err)
	}

	for r, c := range s.customers {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		row := xlsxRow(c, s.layout)
		if err := f.SetSheetRow(s.name, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", s.name, r+2, err)
		}
	}
	return nil
}

// xlsxRow keeps metrics and ranks numeric so spreadsheets can sort them.
func xlsxRow(c models.Customer, layout Layout) []any {
	row := make([]any, len(layout.Columns))
	for i, col := range layout.Columns {
		switch col {
		case layout.IDColumn:
			row[i] = c.ID
		case models.ColumnRecency:
			row[i] = c.Recency
		case models.ColumnFrequency:
			row[i] = c.Frequency
		case models.ColumnMonetary:
			row[i] = c.Monetary
		case models.ColumnRRank:
			row[i] = int(c.RRank)
		case models.ColumnFRank:
			row[i] = int(c.FRank)
		case models.ColumnMRank:
			row[i] = int(c.MRank)
		default:
			row[i] = c.Cell(col, layout.IDColumn)
		}
	}
	return row
}
