package core

// UndoLimit is the maximum number of snapshots kept on a session's undo
// stack. Pushing beyond the limit evicts the oldest entry, so edits more
// than UndoLimit steps back are unrecoverable.
const UndoLimit = 10

// Row is a single record, mapping column name to cell value. Cells are
// string-typed; the empty string is a blank cell, never a null marker.
type Row map[string]string

// TableSnapshot is one complete version of the tabular dataset: the
// ordered column names plus the rows. Snapshots are treated as immutable
// once created (mutations produce a new snapshot via Clone), so entries
// on the undo stack are never aliased by later edits.
//
// Invariants, enforced by every mutation:
//   - Columns contains no duplicates and is non-empty after an upload.
//   - Every row's key set equals Columns exactly.
type TableSnapshot struct {
	Columns []string
	Rows    []Row
}

// Clone returns a deep copy. The copy shares no slices or maps with the
// receiver, so it can be pushed onto an undo stack or handed to a caller
// without risk of later corruption.
func (t TableSnapshot) Clone() TableSnapshot {
	cols := make([]string, len(t.Columns))
	copy(cols, t.Columns)

	rows := make([]Row, len(t.Rows))
	for i, row := range t.Rows {
		r := make(Row, len(row))
		for k, v := range row {
			r[k] = v
		}
		rows[i] = r
	}

	return TableSnapshot{Columns: cols, Rows: rows}
}

// Equal reports whether two snapshots hold identical columns (in order)
// and identical row values.
func (t TableSnapshot) Equal(other TableSnapshot) bool {
	if len(t.Columns) != len(other.Columns) || len(t.Rows) != len(other.Rows) {
		return false
	}
	for i, col := range t.Columns {
		if other.Columns[i] != col {
			return false
		}
	}
	for i, row := range t.Rows {
		o := other.Rows[i]
		if len(row) != len(o) {
			return false
		}
		for k, v := range row {
			ov, ok := o[k]
			if !ok || ov != v {
				return false
			}
		}
	}
	return true
}

// Empty reports whether the snapshot holds no columns (the pre-upload
// state).
func (t TableSnapshot) Empty() bool {
	return len(t.Columns) == 0
}

// HasColumn reports whether name is one of the snapshot's columns.
func (t TableSnapshot) HasColumn(name string) bool {
	for _, col := range t.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// ParseSettings are the CSV interpretation options for a session.
type ParseSettings struct {
	// Delimiter separates fields. One of ',', ';', '\t', '|'.
	Delimiter rune

	// HeaderFirstRow marks the first data row as the source of display
	// column names. See DeriveDisplay.
	HeaderFirstRow bool
}

// DisplaySnapshot is the display-ready view of a snapshot produced by
// DeriveDisplay: header names to render, the body rows, and whether the
// row supplying the headers was retained in the body (so the UI can
// highlight it).
type DisplaySnapshot struct {
	HeaderNames             []string
	BodyRows                []Row
	Columns                 []string
	HeaderSourceRowRetained bool
}

// EditResult is returned by every mutating session operation. Warning is
// set for non-fatal no-ops ("nothing to undo") so the UI can distinguish
// them from hard failures.
type EditResult struct {
	Snapshot  TableSnapshot
	Display   DisplaySnapshot
	UndoSteps int
	Warning   string
}

// UploadResult describes a successful upload: the decoded table plus the
// names derived from the uploaded file.
type UploadResult struct {
	FileName  string
	TableName string
	Snapshot  TableSnapshot
	Display   DisplaySnapshot
	Settings  ParseSettings
}

// PushResult reports the outcome of a volume push.
type PushResult struct {
	Path     string `json:"path"`
	FileName string `json:"fileName"`
	Bytes    int    `json:"bytes"`
}

// RegistrationResult reports the outcome of executing the generated
// CREATE TABLE statement.
type RegistrationResult struct {
	TableName   string `json:"tableName"`
	StatementID string `json:"statementId,omitempty"`
}
