package core

// maxHeaderLen caps derived header names; longer values are cut to 47
// characters plus an ellipsis marker.
const maxHeaderLen = 50

// DeriveDisplay computes the display-ready view of a snapshot.
//
// With headerFirstRow set and at least one row present, header names come
// from row 0's values: blank cells fall back to positional Column_N
// names, and overlong values are truncated. The header-source row is
// kept in the body, since editing that row is how headers change, and
// HeaderSourceRowRetained tells the UI to highlight it.
//
// Otherwise the stored column names are the headers and the body is the
// rows unchanged.
//
// DeriveDisplay is a pure function: it never mutates its input, and
// calling it twice with the same snapshot yields identical output.
func DeriveDisplay(t TableSnapshot, headerFirstRow bool) DisplaySnapshot {
	display := DisplaySnapshot{
		Columns:  append([]string(nil), t.Columns...),
		BodyRows: t.Clone().Rows,
	}

	if !headerFirstRow || len(t.Rows) == 0 {
		display.HeaderNames = append([]string(nil), t.Columns...)
		return display
	}

	display.HeaderNames = headerNamesFromRow(t.Rows[0], t.Columns)
	display.HeaderSourceRowRetained = true
	return display
}

// headerNamesFromRow derives one display name per column from the given
// row's values.
func headerNamesFromRow(row Row, columns []string) []string {
	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = displayHeaderName(row[col], i)
	}
	return names
}

// displayHeaderName applies the blank-fallback and truncation rules to a
// single header value.
func displayHeaderName(value string, idx int) string {
	if value == "" {
		return positionalName(idx)
	}
	if runes := []rune(value); len(runes) > maxHeaderLen {
		return string(runes[:47]) + "..."
	}
	return value
}
