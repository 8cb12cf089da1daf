package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

type CSVLoader struct {
	reader io.Reader
}

func NewCSVLoader(reader io.Reader) *CSVLoader {
	return &CSVLoader{
		reader: reader,
	}
}

// LoadFile reads a delimited file with a header row into a Table.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}
	defer f.Close()

	t, err := NewCSVLoader(f).Load()
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return t, nil
}

func (cl *CSVLoader) Load() (*Table, error) {
	csvReader := csv.NewReader(cl.reader)
	csvReader.FieldsPerRecord = -1
	csvReader.TrimLeadingSpace = true

	headers, err := csvReader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty input", ErrMalformedHeader)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns, err := parseHeader(headers)
	if err != nil {
		return nil, err
	}

	t := &Table{Columns: columns}
	for {
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		line, _ := csvReader.FieldPos(0)
		if len(row) > len(columns) {
			return nil, fmt.Errorf("line %d has %d fields, header has %d", line, len(row), len(columns))
		}

		record := make(map[string]string, len(columns))
		for i, h := range columns {
			if i < len(row) {
				record[h] = row[i]
			} else {
				record[h] = ""
			}
		}
		t.Rows = append(t.Rows, NewRow(line, record))
	}

	return t, nil
}

func parseHeader(headers []string) ([]string, error) {
	seen := make(map[string]bool, len(headers))
	columns := make([]string, 0, len(headers))
	for i, h := range headers {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if name == "" {
			return nil, fmt.Errorf("%w: column %d has no name", ErrMalformedHeader, i+1)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrMalformedHeader, name)
		}
		seen[name] = true
		columns = append(columns, name)
	}
	return columns, nil
}
