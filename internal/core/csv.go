package core

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Delimiters supported by the upload boundary.
var supportedDelimiters = []rune{',', ';', '\t', '|'}

// ParseDelimiter converts the form value for a delimiter into a rune.
// The UI sends the literal character, with "\t" or "tab" accepted for
// the tab delimiter.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "\\t", "tab":
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) {
		return 0, &DecodeError{Err: fmt.Errorf("delimiter must be a single character, got %q", s)}
	}
	for _, d := range supportedDelimiters {
		if r == d {
			return r, nil
		}
	}
	return 0, &DecodeError{Err: fmt.Errorf("unsupported delimiter %q", s)}
}

// DecodeTable parses raw CSV bytes into a TableSnapshot.
//
// When headerFirstRow is true, the first record supplies the stored
// column names (blank cells fall back to positional Column_N names).
// When false, names are synthesized as Column_1..Column_N.
//
// Ragged input (records with differing field counts) and empty input are
// rejected with a DecodeError rather than padded or truncated.
func DecodeTable(data []byte, delimiter rune, headerFirstRow bool) (TableSnapshot, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delimiter

	records, err := r.ReadAll()
	if err != nil {
		return TableSnapshot{}, &DecodeError{Err: err}
	}
	if len(records) == 0 {
		return TableSnapshot{}, &DecodeError{Err: fmt.Errorf("file contains no data")}
	}

	var columns []string
	if headerFirstRow {
		columns = uniqueColumns(positionalNames(records[0]))
		records = records[1:]
	} else {
		columns = make([]string, len(records[0]))
		for i := range records[0] {
			columns[i] = positionalName(i)
		}
	}
	if len(columns) == 0 {
		return TableSnapshot{}, &DecodeError{Err: fmt.Errorf("file contains no columns")}
	}

	rows := make([]Row, len(records))
	for i, rec := range records {
		row := make(Row, len(columns))
		for j, col := range columns {
			row[col] = rec[j]
		}
		rows[i] = row
	}

	return TableSnapshot{Columns: columns, Rows: rows}, nil
}

// EncodeTable serializes the snapshot's rows to CSV bytes in column
// order, comma-delimited, without a header record. Quoting of embedded
// delimiters and newlines is handled by encoding/csv.
func EncodeTable(t TableSnapshot) []byte {
	return encodeTable(t, false)
}

// EncodeTableWithHeader is EncodeTable with the column names written as
// the first record. This is the form pushed to the volume and served by
// the export endpoint.
func EncodeTableWithHeader(t TableSnapshot) []byte {
	return encodeTable(t, true)
}

func encodeTable(t TableSnapshot, withHeader bool) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if withHeader {
		w.Write(t.Columns)
	}

	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, col := range t.Columns {
			record[i] = row[col]
		}
		w.Write(record)
	}

	w.Flush()
	return buf.Bytes()
}

// positionalName returns the synthesized name for column index i.
func positionalName(i int) string {
	return fmt.Sprintf("Column_%d", i+1)
}

// positionalNames substitutes positional fallbacks for blank header
// cells.
func positionalNames(header []string) []string {
	names := make([]string, len(header))
	for i, v := range header {
		if strings.TrimSpace(v) == "" {
			names[i] = positionalName(i)
		} else {
			names[i] = v
		}
	}
	return names
}

// uniqueColumns enforces the column-uniqueness invariant on a proposed
// name list. A repeated name keeps its first occurrence; later
// occurrences get a positional suffix so no data is silently merged.
func uniqueColumns(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, len(names))
	for i, name := range names {
		candidate := name
		if seen[candidate] {
			candidate = fmt.Sprintf("%s_%d", name, i+1)
			for seen[candidate] {
				candidate += "_"
			}
		}
		seen[candidate] = true
		out[i] = candidate
	}
	return out
}
