// Package core provides the versioned table-editing logic for the CSV
// uploader. This package has no UI or Databricks dependencies and can be
// driven by any frontend.
//
// # Architecture
//
// The package is organized around a few key concepts:
//
//   - TableSnapshot: one immutable version of the tabular dataset
//     (column order plus rows). Every mutation produces a new snapshot;
//     old snapshots are never modified in place.
//   - Session: the editing state for one uploaded file: the current
//     snapshot, the original snapshot captured at upload time, the raw
//     upload bytes (needed to re-parse when delimiter or header settings
//     change), and a bounded undo stack.
//   - Service: the main entry point. It owns the session registry and the
//     warehouse boundary (volume upload and CREATE TABLE execution).
//
// # Undo model
//
// Each mutating operation deep-copies the pre-mutation snapshot onto the
// session's undo stack before committing. The stack holds at most
// [UndoLimit] entries; pushing beyond that evicts the oldest. Revert
// (restore the snapshot captured at upload) is itself undoable. An undo
// with an empty stack is a warning, not an error.
//
// # Header derivation
//
// When the session treats the first row as the header, display column
// names are derived from row 0's values rather than from the stored
// column identifiers. The header-source row stays in the body so it can
// be edited; committing a table edit re-derives and renames the stored
// columns to match. See [DeriveDisplay] and [Session.ApplyTableEdits].
//
// # Error handling
//
// Failures are typed ([DecodeError], [ColumnNotFoundError], ...) and
// mapped to user-facing messages with support codes via [MapError]:
//
//   - CSV001: upload and parse failures
//   - SES001: no active session
//   - COL001-COL003: invalid column mutations
//   - WH001-WH004: warehouse boundary failures
//
// Every operation that can fail leaves the session exactly as it was.
package core
