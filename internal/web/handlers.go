package web

import (
	"net/http"

	"csv2delta/internal/core"
	"csv2delta/internal/web/templates"
)

// handlePage renders the full editor page.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)

	data := templates.PageData{
		Editor: s.editorData(sess, ""),
		Warehouse: templates.WarehouseData{
			Catalog:   s.cfg.Databricks.DefaultCatalog,
			Schema:    s.cfg.Databricks.DefaultSchema,
			Volume:    s.cfg.Databricks.DefaultVolume,
			FileName:  volumeFileName(sess),
			TableName: sess.DefaultTableName(),
			Auth:      s.service.AuthStatus(),
		},
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Page(data).Render(r.Context(), w); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
	}
}

// handleHealth reports liveness along with the live session count.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status":   "ok",
		"sessions": s.service.SessionCount(),
	})
}

// editorData assembles the editor fragment state for a session.
func (s *Server) editorData(sess *core.Session, warning string) templates.EditorData {
	data := templates.EditorData{
		Active:   sess.Active(),
		FileName: sess.FileName(),
		Settings: sess.Settings(),
		Warning:  warning,
	}
	if display, undoSteps, ok := sess.Display(); ok {
		data.Display = display
		data.UndoSteps = undoSteps
	}
	return data
}

// renderEditor writes the editor fragment for the session's current
// state. Every mutating handler funnels its success path through here.
func (s *Server) renderEditor(w http.ResponseWriter, r *http.Request, sess *core.Session, warning string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Editor(s.editorData(sess, warning)).Render(r.Context(), w); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
	}
}

// volumeFileName is the destination file name pre-filled from the
// upload, falling back to the default.
func volumeFileName(sess *core.Session) string {
	if name := sess.FileName(); name != "" {
		return core.NormalizeUploadFileName(name)
	}
	return core.DefaultUploadFileName
}
