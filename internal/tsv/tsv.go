package tsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/cleared-dev/bulkutil/internal/model"
)

const delimiter = '\t'

// Read parses a tab-separated table with a header row. A leading byte order
// mark is honored (UTF-8 or UTF-16); without one the input is read as UTF-8.
// Every row carries every header field: missing trailing cells read as empty
// strings and extra cells are dropped.
func Read(r io.Reader) (model.Table, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	cr := csv.NewReader(decoded)
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return model.Table{}, nil
	}
	if err != nil {
		return model.Table{}, fmt.Errorf("reading header: %w", err)
	}

	var rows []model.Row
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return model.Table{}, fmt.Errorf("row %d: %w", line, err)
		}
		rows = append(rows, UnmarshalRow(header, rec))
	}
	return model.Table{Fields: header, Rows: rows}, nil
}

// Write writes t as a tab-separated table. The header comes from t.Header();
// nothing is written for a table without rows.
func Write(w io.Writer, t model.Table) error {
	header := t.Header()
	if header == nil {
		return nil
	}

	cw := csv.NewWriter(w)
	cw.Comma = delimiter
	cw.UseCRLF = true

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range t.Rows {
		if err := cw.Write(MarshalRow(header, row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalRow converts a row into cells ordered by header. Absent fields become empty cells.
func MarshalRow(header []string, row model.Row) []string {
	cells := make([]string, len(header))
	for i, f := range header {
		cells[i] = row[f]
	}
	return cells
}

// UnmarshalRow maps record cells onto header fields. Fields past the end of a
// short record are set to "".
func UnmarshalRow(header, record []string) model.Row {
	row := make(model.Row, len(header))
	for i, f := range header {
		if i < len(record) {
			row[f] = record[i]
		} else {
			row[f] = ""
		}
	}
	return row
}
