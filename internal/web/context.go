package web

import (
	"net/http"
	"time"

	"csv2delta/internal/core"
)

const sessionCookie = "session_id"

// session resolves the request's editing session from the session_id
// cookie, minting a cookie on first contact. Each browser gets its own
// independent session.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *core.Session {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return s.service.Session(c.Value)
	}

	id := s.service.NewSessionID()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(s.cfg.Session.TTL),
	})
	return s.service.Session(id)
}
