// Package records loads candidate and job records from delimited or JSON files.
package records

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for files that are neither .csv nor .json.
var ErrUnsupportedFormat = errors.New("unsupported record format")

// Load reads every record in path. CSV files use the header row as keys and keep
// all values as strings. JSON files must hold an array of objects.
func Load(path string) ([]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading records from %q: %w", path, err)
	}

	var records []map[string]any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		records, err = ReadCSV(bytes.NewReader(data))
	case ".json":
		records, err = ReadJSON(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing records from %q: %w", path, err)
	}

	return records, nil
}

// ReadCSV parses a header row followed by data rows. Short rows leave the
// trailing keys unset.
func ReadCSV(r io.Reader) ([]map[string]any, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []map[string]any{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	records := make([]map[string]any, 0)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		record := make(map[string]any, len(header))
		for i, value := range row {
			if i >= len(header) || header[i] == "" {
				continue
			}
			record[header[i]] = value
		}
		records = append(records, record)
	}

	return records, nil
}

// ReadJSON parses an array of objects. Numbers are kept as json.Number so that
// experience values keep their original digits.
func ReadJSON(r io.Reader) ([]map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var records []map[string]any
	if err := dec.Decode(&records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []map[string]any{}
	}

	return records, nil
}
