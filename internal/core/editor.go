package core

import (
	"fmt"
	"sort"
)

// Upload decodes raw CSV bytes and starts a fresh editing state: the
// decoded table becomes both the current and the original snapshot, the
// undo history is cleared, and the raw bytes are retained so the file
// can be re-parsed when settings change. A decode failure leaves any
// prior state untouched.
func (s *Session) Upload(data []byte, fileName string, settings ParseSettings) (*UploadResult, error) {
	decoded, err := DecodeTable(data, settings.Delimiter, settings.HeaderFirstRow)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.active = true
	s.current = decoded
	s.original = decoded.Clone()
	s.rawData = append([]byte(nil), data...)
	s.fileName = fileName
	s.settings = settings
	s.undo.clear()
	s.pendingSQL = ""
	s.pendingTableName = ""

	return &UploadResult{
		FileName:  fileName,
		TableName: SanitizeTableName(fileName),
		Snapshot:  decoded.Clone(),
		Display:   DeriveDisplay(decoded, settings.HeaderFirstRow),
		Settings:  settings,
	}, nil
}

// ChangeParseSettings re-decodes the original upload bytes (not the
// edited table) with new settings and replaces the current snapshot.
// Edits made under the old settings are discarded, and the re-parse is
// treated as a fresh load rather than an undoable edit, so nothing is
// pushed onto the undo stack. On decode failure the session is left
// exactly as it was. With no file loaded there is nothing to re-parse;
// the settings are recorded for the next upload and no error is
// returned.
func (s *Session) ChangeParseSettings(settings ParseSettings) (*EditResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if !s.active {
		s.settings = settings
		return s.result(""), nil
	}

	decoded, err := DecodeTable(s.rawData, settings.Delimiter, settings.HeaderFirstRow)
	if err != nil {
		return nil, err
	}

	s.settings = settings
	s.current = decoded
	return s.result(""), nil
}

// AddRow appends one record with every column blank. The pre-mutation
// snapshot is pushed onto the undo stack first.
func (s *Session) AddRow() (*EditResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if !s.active {
		return nil, ErrNoActiveSession
	}

	s.undo.push(s.current)

	next := s.current.Clone()
	row := make(Row, len(next.Columns))
	for _, col := range next.Columns {
		row[col] = ""
	}
	next.Rows = append(next.Rows, row)
	s.current = next

	return s.result(""), nil
}

// AddColumn appends a column named New_Column_{N+1}, where N is the
// current column count, with every row blank for it. The incrementing
// scheme does not guarantee uniqueness against pre-existing columns that
// happen to carry such a name; a collision is rejected rather than
// silently renamed.
func (s *Session) AddColumn() (*EditResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if !s.active {
		return nil, ErrNoActiveSession
	}

	name := fmt.Sprintf("New_Column_%d", len(s.current.Columns)+1)
	if s.current.HasColumn(name) {
		return nil, &ColumnExistsError{Name: name}
	}

	s.undo.push(s.current)

	next := s.current.Clone()
	next.Columns = append(next.Columns, name)
	for _, row := range next.Rows {
		row[name] = ""
	}
	s.current = next

	return s.result(""), nil
}

// DeleteColumn removes the named column from the column order and from
// every row. Deleting the last remaining column is rejected, as is a
// name that does not exist; both leave the session unchanged.
func (s *Session) DeleteColumn(name string) (*EditResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if !s.active {
		return nil, ErrNoActiveSession
	}
	if len(s.current.Columns) <= 1 {
		return nil, ErrLastColumn
	}
	if !s.current.HasColumn(name) {
		return nil, &ColumnNotFoundError{Name: name}
	}

	s.undo.push(s.current)

	next := s.current.Clone()
	cols := next.Columns[:0]
	for _, col := range next.Columns {
		if col != name {
			cols = append(cols, col)
		}
	}
	next.Columns = cols
	for _, row := range next.Rows {
		delete(row, name)
	}
	s.current = next

	return s.result(""), nil
}

// ApplyTableEdits replaces the current table with the user-edited row
// set. Rows with inconsistent key sets are reshaped by an outer join of
// their keys, missing cells set to blank. When the first row is the
// header source, the stored column names are re-derived from row 0 and
// every row's keys renamed to match, keeping stored identifiers in sync
// with displayed headers after a header-row edit.
func (s *Session) ApplyTableEdits(columns []string, rows []Row) (*EditResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if !s.active {
		return nil, ErrNoActiveSession
	}

	s.undo.push(s.current)

	next := normalizeEdits(columns, rows, s.current.Columns)
	if s.settings.HeaderFirstRow && len(next.Rows) > 0 {
		next = renameFromHeaderRow(next)
	}
	s.current = next

	return s.result(""), nil
}

// Undo restores the most recent snapshot from the undo stack. An empty
// stack is a no-op warning, not an error: the current state is kept and
// the caller can report that nothing was undone.
func (s *Session) Undo() (*EditResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if !s.active {
		return nil, ErrNoActiveSession
	}

	prev, ok := s.undo.pop()
	if !ok {
		return s.result("no previous state to undo"), nil
	}
	s.current = prev

	return s.result(""), nil
}

// Revert restores the snapshot captured at upload time. The current
// state is pushed onto the undo stack first, so a revert is itself one
// undo step. With no file loaded, or no original snapshot, this is a
// warning no-op rather than an error.
func (s *Session) Revert() (*EditResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if !s.active || s.original.Empty() {
		return s.result("no original data to revert to"), nil
	}

	s.undo.push(s.current)
	s.current = s.original.Clone()

	return s.result(""), nil
}

// RemoveFile discards the whole editing state (snapshots, raw bytes,
// undo history, pending SQL), returning the session to "no file
// loaded".
func (s *Session) RemoveFile() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.active = false
	s.current = TableSnapshot{}
	s.original = TableSnapshot{}
	s.rawData = nil
	s.fileName = ""
	s.settings = ParseSettings{Delimiter: ',', HeaderFirstRow: true}
	s.undo.clear()
	s.pendingSQL = ""
	s.pendingTableName = ""
}

// normalizeEdits reshapes a user-submitted row set into a well-formed
// snapshot. The submitted column order wins; keys seen only in rows are
// appended in sorted order; every row ends up with exactly the final
// column set. An entirely empty submission keeps the previous columns so
// the never-zero-columns invariant holds.
func normalizeEdits(columns []string, rows []Row, fallback []string) TableSnapshot {
	cols := uniqueColumns(nonBlank(columns))

	known := make(map[string]bool, len(cols))
	for _, col := range cols {
		known[col] = true
	}
	var extras []string
	for _, row := range rows {
		for k := range row {
			if !known[k] {
				known[k] = true
				extras = append(extras, k)
			}
		}
	}
	sort.Strings(extras)
	cols = append(cols, extras...)

	if len(cols) == 0 {
		cols = append([]string(nil), fallback...)
	}

	normalized := make([]Row, len(rows))
	for i, row := range rows {
		r := make(Row, len(cols))
		for _, col := range cols {
			r[col] = row[col]
		}
		normalized[i] = r
	}

	return TableSnapshot{Columns: cols, Rows: normalized}
}

// renameFromHeaderRow re-derives stored column names from row 0's
// values and renames every row's keys accordingly. Blank header cells
// keep positional names; duplicates are disambiguated the same way
// decoding does.
func renameFromHeaderRow(t TableSnapshot) TableSnapshot {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		if v := t.Rows[0][col]; v != "" {
			names[i] = v
		} else {
			names[i] = positionalName(i)
		}
	}
	names = uniqueColumns(names)

	rows := make([]Row, len(t.Rows))
	for i, row := range t.Rows {
		r := make(Row, len(names))
		for j, col := range t.Columns {
			r[names[j]] = row[col]
		}
		rows[i] = r
	}

	return TableSnapshot{Columns: names, Rows: rows}
}

// nonBlank filters empty strings out of a column list.
func nonBlank(cols []string) []string {
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}
