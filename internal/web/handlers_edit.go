package web

import (
	"encoding/json"
	"fmt"
	"net/http"

	"csv2delta/internal/core"
)

// handleAddRow appends a blank row to the table.
func (s *Server) handleAddRow(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)

	result, err := sess.AddRow()
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	s.renderEditor(w, r, sess, result.Warning)
}

// handleAddColumn appends a new auto-named column.
func (s *Server) handleAddColumn(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)

	result, err := sess.AddColumn()
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	s.renderEditor(w, r, sess, result.Warning)
}

// handleDeleteColumn removes the named column.
func (s *Server) handleDeleteColumn(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)

	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, fmt.Errorf("parse form: %w", err), http.StatusBadRequest)
		return
	}
	name := r.FormValue("name")
	if name == "" {
		s.respondError(w, r, &core.ColumnNotFoundError{Name: name}, http.StatusBadRequest)
		return
	}

	result, err := sess.DeleteColumn(name)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	s.renderEditor(w, r, sess, result.Warning)
}

// tableEditsRequest is the JSON body for a full-table edit submission.
type tableEditsRequest struct {
	Columns []string   `json:"columns"`
	Rows    []core.Row `json:"rows"`
}

// handleApplyTableEdits replaces the table contents with the submitted
// cells. When the first row is the header source, its values become the
// column names.
func (s *Server) handleApplyTableEdits(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)

	var req tableEditsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, fmt.Errorf("decode edits: %w", err), http.StatusBadRequest)
		return
	}

	result, err := sess.ApplyTableEdits(req.Columns, req.Rows)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	s.renderEditor(w, r, sess, result.Warning)
}

// handleUndo restores the previous snapshot. Undoing with an empty
// history is a no-op with a warning, not an error.
func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)

	result, err := sess.Undo()
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	s.renderEditor(w, r, sess, result.Warning)
}

// handleRevert restores the originally uploaded table. The reverted-to
// state is itself undoable.
func (s *Server) handleRevert(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)

	result, err := sess.Revert()
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	s.renderEditor(w, r, sess, result.Warning)
}

// handleRemoveFile discards the uploaded file and all editing state.
func (s *Server) handleRemoveFile(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	sess.RemoveFile()
	s.renderEditor(w, r, sess, "")
}
