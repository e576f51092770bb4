package core

import (
	"sync"
	"time"
)

// Session holds the editing state for one uploaded file. A session is
// owned by a single user; all operations lock the session so each edit
// is atomic from the caller's perspective. Sessions are never shared
// between users; multi-user support means multiple sessions.
type Session struct {
	id string

	mu       sync.Mutex
	active   bool
	current  TableSnapshot
	original TableSnapshot
	rawData  []byte // upload bytes as received, re-parsed on settings change
	fileName string
	settings ParseSettings
	undo     undoStack

	// pendingSQL is the generated CREATE TABLE statement awaiting
	// execution, set by GenerateCreateTableSQL.
	pendingSQL       string
	pendingTableName string

	lastSeen time.Time
}

func newSession(id string) *Session {
	return &Session{
		id:       id,
		settings: ParseSettings{Delimiter: ',', HeaderFirstRow: true},
		lastSeen: time.Now(),
	}
}

// ID returns the session's identifier.
func (s *Session) ID() string {
	return s.id
}

// Active reports whether a file is loaded.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// FileName returns the name of the uploaded file, or "" when no file is
// loaded.
func (s *Session) FileName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fileName
}

// Settings returns the session's current parse settings.
func (s *Session) Settings() ParseSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Current returns a deep copy of the current snapshot. ok is false when
// no file is loaded.
func (s *Session) Current() (TableSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return TableSnapshot{}, false
	}
	return s.current.Clone(), true
}

// Display returns the display-ready view of the current snapshot along
// with the available undo count.
func (s *Session) Display() (DisplaySnapshot, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return DisplaySnapshot{}, 0, false
	}
	return DeriveDisplay(s.current, s.settings.HeaderFirstRow), s.undo.len(), true
}

// DefaultTableName derives the default warehouse table name from the
// uploaded filename.
func (s *Session) DefaultTableName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SanitizeTableName(s.fileName)
}

// touch records activity for idle-session sweeping. Callers must hold
// s.mu.
func (s *Session) touch() {
	s.lastSeen = time.Now()
}

// idleSince reports the last activity time.
func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// setPendingSQL stores a generated statement awaiting execution.
func (s *Session) setPendingSQL(statement, tableName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.pendingSQL = statement
	s.pendingTableName = tableName
}

// pendingStatement returns the stored statement and its table name, or
// empty strings when none has been generated.
func (s *Session) pendingStatement() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingSQL, s.pendingTableName
}

// result builds the EditResult for the session's current state. Callers
// must hold s.mu.
func (s *Session) result(warning string) *EditResult {
	return &EditResult{
		Snapshot:  s.current.Clone(),
		Display:   DeriveDisplay(s.current, s.settings.HeaderFirstRow),
		UndoSteps: s.undo.len(),
		Warning:   warning,
	}
}
