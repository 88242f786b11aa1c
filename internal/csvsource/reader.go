// Package csvsource decodes header-first CSV files into raw records.
package csvsource

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"usersync/internal/models"
)

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// Table is a decoded CSV file.
type Table struct {
	Header []string
	Rows   []models.RawRecord
}

// ReadFile opens path and decodes it.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv: %w", err)
	}
	defer f.Close()

	return Read(f)
}

// Read decodes CSV content. The first record is the header; each later record
// becomes a RawRecord keyed by header name. Cells past the header width are
// dropped and short rows leave their trailing keys absent. When a header
// name repeats, the rightmost cell wins. A bare quote inside an unquoted cell
// is kept as a literal character. Input without a header yields an empty table.
func Read(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}

	data = bytes.TrimPrefix(data, byteOrderMark)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	table := &Table{}

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return table, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	table.Header = header

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(table.Rows)+1, err)
		}

		raw := make(models.RawRecord, len(header))
		for i, value := range record {
			if i >= len(header) {
				break
			}
			raw[header[i]] = value
		}

		table.Rows = append(table.Rows, raw)
	}

	return table, nil
}
