package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rg0now/rfm-segments/pkg/models"
)

// CSVOptions controls how a CSV table is read.
type CSVOptions struct {
	// Delimiter between fields. Zero means ','.
	Delimiter rune
}

// LoadCSVFile reads a customer table from a CSV file.
func LoadCSVFile(path string, opts CSVOptions) (*models.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	t, err := ReadCSV(file, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return t, nil
}

// ReadCSV reads a customer table whose first record is the header.
func ReadCSV(r io.Reader, opts CSVOptions) (*models.Table, error) {
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty input: no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	t := &models.Table{Columns: make([]string, len(header))}
	for i, name := range header {
		// Strip a UTF-8 byte order mark left by spreadsheet exports.
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		t.Columns[i] = strings.TrimSpace(name)
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		t.Rows = append(t.Rows, record)
	}

	return t, nil
}
