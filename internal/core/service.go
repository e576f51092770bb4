package core

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"csv2delta/internal/logging"
)

// AuthStatus describes the warehouse client's authentication state.
// Authentication is lazy and attempted at most once per process.
type AuthStatus struct {
	Attempted bool   `json:"attempted"`
	Connected bool   `json:"connected"`
	Error     string `json:"error,omitempty"`
}

// Warehouse is the boundary to the external data warehouse: object
// storage for the encoded CSV and SQL execution for table registration.
// The concrete client is constructed by the collaborator layer and
// handed in; core never builds or globally caches one.
type Warehouse interface {
	// UploadFile writes data to the given volume path, overwriting any
	// existing file.
	UploadFile(ctx context.Context, path string, data []byte) error

	// ExecuteStatement runs one SQL statement on the configured
	// warehouse and returns its statement ID.
	ExecuteStatement(ctx context.Context, statement string) (string, error)

	// Status reports the lazy authentication state.
	Status() AuthStatus
}

// Service is the entry point for all editing and warehouse operations.
// It owns the session registry; each user session gets an independent
// Session instance, never shared.
type Service struct {
	warehouse  Warehouse
	sessionTTL time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewService creates a Service. sessionTTL bounds how long an idle
// session is kept before the janitor discards it.
func NewService(wh Warehouse, sessionTTL time.Duration) *Service {
	return &Service{
		warehouse:  wh,
		sessionTTL: sessionTTL,
		sessions:   make(map[string]*Session),
	}
}

// NewSessionID mints an identifier for a new browser session.
func (s *Service) NewSessionID() string {
	return uuid.New().String()
}

// Session returns the session for id, creating it on first use.
func (s *Service) Session(id string) *Session {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		return sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		return sess
	}
	sess = newSession(id)
	s.sessions[id] = sess
	return sess
}

// RemoveSession drops a session entirely, equivalent to the user closing
// out.
func (s *Service) RemoveSession(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// SessionCount returns the number of live sessions.
func (s *Service) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// StartJanitor sweeps idle sessions until ctx is cancelled. Run it in a
// goroutine from main.
func (s *Service) StartJanitor(ctx context.Context) {
	interval := s.sessionTTL / 4
	if interval < time.Minute {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("session janitor started", "ttl", s.sessionTTL, "interval", interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("session janitor stopped")
			return
		case <-ticker.C:
			s.sweepIdleSessions()
		}
	}
}

func (s *Service) sweepIdleSessions() {
	cutoff := time.Now().Add(-s.sessionTTL)

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		if sess.idleSince().Before(cutoff) {
			delete(s.sessions, id)
			slog.Debug("idle session discarded", "session_id", id)
		}
	}
}

// AuthStatus reports the warehouse client's authentication state for
// the UI.
func (s *Service) AuthStatus() AuthStatus {
	return s.warehouse.Status()
}

// PushToVolume encodes the session's current table (header record
// included) and hands it to the storage boundary at
// volumePath/fileName. The filename is defaulted and given a .csv
// suffix as needed. Editing state is untouched either way.
func (s *Service) PushToVolume(ctx context.Context, sess *Session, volumePath, fileName string) (*PushResult, error) {
	snapshot, ok := sess.Current()
	if !ok {
		return nil, ErrNoActiveSession
	}

	fileName = NormalizeUploadFileName(fileName)
	path := JoinVolumePath(volumePath, fileName)
	data := EncodeTableWithHeader(snapshot)

	logger := logging.WithFields(ctx, "session_id", sess.ID(), "path", path)

	if err := s.warehouse.UploadFile(ctx, path, data); err != nil {
		return nil, &StorageError{Path: path, Err: err}
	}

	logger.Info("pushed table to volume",
		"rows", len(snapshot.Rows),
		"bytes", len(data),
	)

	return &PushResult{Path: path, FileName: fileName, Bytes: len(data)}, nil
}

// GenerateCreateTableSQL builds the CREATE TABLE statement for the
// session's current table over the pushed file location and stores it
// on the session for a later ExecutePendingSQL call. The statement text
// is returned so the UI can show it before execution.
func (s *Service) GenerateCreateTableSQL(sess *Session, tableName, volumePath, fileName string) (string, error) {
	snapshot, ok := sess.Current()
	if !ok {
		return "", ErrNoActiveSession
	}

	fileName = NormalizeUploadFileName(fileName)
	if tableName == "" {
		tableName = SanitizeTableName(fileName)
	}
	location := JoinVolumePath(volumePath, fileName)

	statement := BuildCreateTableSQL(snapshot, tableName, location)
	sess.setPendingSQL(statement, tableName)

	slog.Info("generated create table statement",
		"session_id", sess.ID(),
		"table", tableName,
		"columns", len(snapshot.Columns),
	)

	return statement, nil
}

// ExecutePendingSQL runs the statement stored by GenerateCreateTableSQL
// against the warehouse.
func (s *Service) ExecutePendingSQL(ctx context.Context, sess *Session) (*RegistrationResult, error) {
	statement, tableName := sess.pendingStatement()
	if statement == "" {
		return nil, ErrNoPendingSQL
	}

	logger := logging.WithFields(ctx, "session_id", sess.ID(), "table", tableName)

	stmtID, err := s.warehouse.ExecuteStatement(ctx, statement)
	if err != nil {
		return nil, &RegistrationError{Err: err}
	}

	logger.Info("delta table registered", "statement_id", stmtID)

	return &RegistrationResult{TableName: tableName, StatementID: stmtID}, nil
}
