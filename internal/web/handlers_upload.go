package web

import (
	"fmt"
	"io"
	"net/http"

	"csv2delta/internal/core"
)

// handleUpload accepts a CSV file and loads it into the session,
// replacing any previously loaded file. The session's current parse
// settings are applied to the new file.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)

	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		s.respondError(w, r, fmt.Errorf("parse multipart form: %w", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, fmt.Errorf("no file provided: %w", err), http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, fmt.Errorf("read upload: %w", err), http.StatusInternalServerError)
		return
	}

	if _, err := sess.Upload(data, header.Filename, sess.Settings()); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	s.renderEditor(w, r, sess, "")
}

// handleSettings re-parses the uploaded file with new settings. This
// discards edits made so far; the editor warns about that in the form.
func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)

	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, fmt.Errorf("parse form: %w", err), http.StatusBadRequest)
		return
	}

	delimiter, err := core.ParseDelimiter(r.FormValue("delimiter"))
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	settings := core.ParseSettings{
		Delimiter:      delimiter,
		HeaderFirstRow: r.FormValue("header") == "true",
	}

	result, err := sess.ChangeParseSettings(settings)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	s.renderEditor(w, r, sess, result.Warning)
}

// handleExport downloads the current table as a CSV file, header
// record included.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)

	snapshot, ok := sess.Current()
	if !ok {
		s.respondError(w, r, core.ErrNoActiveSession, http.StatusNotFound)
		return
	}

	fileName := volumeFileName(sess)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.Write(core.EncodeTableWithHeader(snapshot))
}
