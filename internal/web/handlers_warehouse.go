package web

import (
	"errors"
	"fmt"
	"net/http"

	"csv2delta/internal/core"
	"csv2delta/internal/web/templates"
)

// warehouseErrStatus distinguishes caller mistakes from upstream
// warehouse failures.
func warehouseErrStatus(err error) int {
	if errors.Is(err, core.ErrNoActiveSession) || errors.Is(err, core.ErrNoPendingSQL) {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

// handleVolumePath previews the volume path the destination fields
// resolve to. The path builds up progressively as fields are filled.
func (s *Server) handleVolumePath(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	path := core.VolumePath(q.Get("catalog"), q.Get("schema"), q.Get("volume"))

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		templates.VolumePathLabel(path).Render(r.Context(), w)
		return
	}
	writeJSON(w, map[string]string{"path": path})
}

// handlePush encodes the current table and uploads it to the volume.
func (s *Server) handlePush(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)

	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, fmt.Errorf("parse form: %w", err), http.StatusBadRequest)
		return
	}

	volumePath, err := core.CompleteVolumePath(r.FormValue("catalog"), r.FormValue("schema"), r.FormValue("volume"))
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	result, err := s.service.PushToVolume(r.Context(), sess, volumePath, r.FormValue("filename"))
	if err != nil {
		s.respondError(w, r, err, warehouseErrStatus(err))
		return
	}

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		templates.PushOutcome(result).Render(r.Context(), w)
		return
	}
	writeJSON(w, result)
}

// handleGenerateSQL builds the CREATE TABLE statement for review. The
// statement is stored on the session; nothing runs until the user
// confirms with an execute request.
func (s *Server) handleGenerateSQL(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)

	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, fmt.Errorf("parse form: %w", err), http.StatusBadRequest)
		return
	}

	volumePath, err := core.CompleteVolumePath(r.FormValue("catalog"), r.FormValue("schema"), r.FormValue("volume"))
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	fileName := core.NormalizeUploadFileName(r.FormValue("filename"))
	tableName := r.FormValue("table")
	if tableName == "" {
		tableName = core.SanitizeTableName(fileName)
	}

	statement, err := s.service.GenerateCreateTableSQL(sess, tableName, volumePath, fileName)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		templates.SQLPreview(statement, tableName).Render(r.Context(), w)
		return
	}
	writeJSON(w, map[string]string{"statement": statement, "tableName": tableName})
}

// handleExecuteSQL runs the statement generated by the previous
// request, registering the Delta table over the pushed file.
func (s *Server) handleExecuteSQL(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)

	result, err := s.service.ExecutePendingSQL(r.Context(), sess)
	if err != nil {
		s.respondError(w, r, err, warehouseErrStatus(err))
		return
	}

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		templates.RegistrationOutcome(result).Render(r.Context(), w)
		return
	}
	writeJSON(w, result)
}

// handleAuthStatus reports the warehouse authentication state.
func (s *Server) handleAuthStatus(w http.ResponseWriter, r *http.Request) {
	status := s.service.AuthStatus()

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		templates.AuthBadge(status).Render(r.Context(), w)
		return
	}
	writeJSON(w, status)
}
