package core

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// fakeWarehouse records calls and returns scripted results.
type fakeWarehouse struct {
	uploadErr  error
	executeErr error

	uploadedPath string
	uploadedData []byte
	executedSQL  string
	status       AuthStatus
}

func (f *fakeWarehouse) UploadFile(ctx context.Context, path string, data []byte) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.uploadedPath = path
	f.uploadedData = data
	return nil
}

func (f *fakeWarehouse) ExecuteStatement(ctx context.Context, statement string) (string, error) {
	if f.executeErr != nil {
		return "", f.executeErr
	}
	f.executedSQL = statement
	return "stmt-123", nil
}

func (f *fakeWarehouse) Status() AuthStatus {
	return f.status
}

func newServiceWithSession(t *testing.T) (*Service, *fakeWarehouse, *Session) {
	t.Helper()
	wh := &fakeWarehouse{}
	svc := NewService(wh, time.Hour)
	sess := svc.Session(svc.NewSessionID())
	if _, err := sess.Upload([]byte("id,name\n1,alice\n2,bob\n"), "team roster.csv",
		ParseSettings{Delimiter: ',', HeaderFirstRow: true}); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	return svc, wh, sess
}

func TestSessionRegistry(t *testing.T) {
	svc := NewService(&fakeWarehouse{}, time.Hour)

	id := svc.NewSessionID()
	first := svc.Session(id)
	second := svc.Session(id)
	if first != second {
		t.Error("Session() returned different instances for the same ID")
	}

	other := svc.Session(svc.NewSessionID())
	if other == first {
		t.Error("distinct IDs share a session")
	}
	if svc.SessionCount() != 2 {
		t.Errorf("SessionCount() = %d, want 2", svc.SessionCount())
	}

	svc.RemoveSession(id)
	if svc.SessionCount() != 1 {
		t.Errorf("SessionCount() after remove = %d, want 1", svc.SessionCount())
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	svc := NewService(&fakeWarehouse{}, time.Hour)

	a := svc.Session(svc.NewSessionID())
	b := svc.Session(svc.NewSessionID())

	if _, err := a.Upload([]byte("x\n1\n"), "a.csv", ParseSettings{Delimiter: ',', HeaderFirstRow: true}); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if _, err := a.AddRow(); err != nil {
		t.Fatalf("AddRow() error = %v", err)
	}

	if b.Active() {
		t.Error("editing session a affected session b")
	}
	if _, err := b.Undo(); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("b.Undo() error = %v, want ErrNoActiveSession", err)
	}
}

func TestSweepIdleSessions(t *testing.T) {
	svc := NewService(&fakeWarehouse{}, 10*time.Millisecond)

	stale := svc.Session(svc.NewSessionID())
	fresh := svc.Session(svc.NewSessionID())

	stale.mu.Lock()
	stale.lastSeen = time.Now().Add(-time.Minute)
	stale.mu.Unlock()

	svc.sweepIdleSessions()

	if svc.SessionCount() != 1 {
		t.Fatalf("SessionCount() = %d, want 1", svc.SessionCount())
	}
	if got := svc.Session(fresh.ID()); got != fresh {
		t.Error("fresh session was swept")
	}
}

func TestPushToVolume(t *testing.T) {
	svc, wh, sess := newServiceWithSession(t)

	result, err := svc.PushToVolume(context.Background(), sess, "/Volumes/main/default/csv_uploads/", "")
	if err != nil {
		t.Fatalf("PushToVolume() error = %v", err)
	}

	wantPath := "/Volumes/main/default/csv_uploads/" + DefaultUploadFileName
	if result.Path != wantPath {
		t.Errorf("Path = %q, want %q", result.Path, wantPath)
	}
	if wh.uploadedPath != wantPath {
		t.Errorf("warehouse received path %q, want %q", wh.uploadedPath, wantPath)
	}

	// The pushed bytes carry the header record.
	if !strings.HasPrefix(string(wh.uploadedData), "id,name\n") {
		t.Errorf("pushed data missing header record: %q", wh.uploadedData)
	}
	if result.Bytes != len(wh.uploadedData) {
		t.Errorf("Bytes = %d, want %d", result.Bytes, len(wh.uploadedData))
	}
}

func TestPushToVolume_NormalizesFileName(t *testing.T) {
	svc, wh, sess := newServiceWithSession(t)

	result, err := svc.PushToVolume(context.Background(), sess, "/Volumes/c/s/v/", "roster")
	if err != nil {
		t.Fatalf("PushToVolume() error = %v", err)
	}
	if result.FileName != "roster.csv" {
		t.Errorf("FileName = %q, want roster.csv", result.FileName)
	}
	if wh.uploadedPath != "/Volumes/c/s/v/roster.csv" {
		t.Errorf("path = %q", wh.uploadedPath)
	}
}

func TestPushToVolume_StorageFailure(t *testing.T) {
	svc, wh, sess := newServiceWithSession(t)
	wh.uploadErr = errors.New("volume not found")
	before, _ := sess.Current()

	_, err := svc.PushToVolume(context.Background(), sess, "/Volumes/c/s/v/", "")
	var storage *StorageError
	if !errors.As(err, &storage) {
		t.Fatalf("error = %v, want StorageError", err)
	}

	// A failed push leaves editing state untouched.
	after, _ := sess.Current()
	if !after.Equal(before) {
		t.Error("failed push changed the table")
	}
}

func TestPushToVolume_NoFile(t *testing.T) {
	svc := NewService(&fakeWarehouse{}, time.Hour)
	sess := svc.Session(svc.NewSessionID())

	_, err := svc.PushToVolume(context.Background(), sess, "/Volumes/c/s/v/", "")
	if !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("error = %v, want ErrNoActiveSession", err)
	}
}

func TestGenerateCreateTableSQL(t *testing.T) {
	svc, _, sess := newServiceWithSession(t)

	statement, err := svc.GenerateCreateTableSQL(sess, "", "/Volumes/main/default/csv_uploads/", "")
	if err != nil {
		t.Fatalf("GenerateCreateTableSQL() error = %v", err)
	}

	// Table name defaults from the filename.
	if !strings.HasPrefix(statement, "CREATE TABLE uploaded_data (") {
		t.Errorf("statement does not default table name:\n%s", statement)
	}
	if !strings.Contains(statement, "`id` BIGINT") || !strings.Contains(statement, "`name` STRING") {
		t.Errorf("statement missing inferred columns:\n%s", statement)
	}
	if !strings.Contains(statement, "USING DELTA") {
		t.Errorf("statement missing USING DELTA:\n%s", statement)
	}
	if !strings.Contains(statement, "LOCATION '/Volumes/main/default/csv_uploads/uploaded_data.csv'") {
		t.Errorf("statement missing location:\n%s", statement)
	}
}

func TestExecutePendingSQL(t *testing.T) {
	svc, wh, sess := newServiceWithSession(t)

	t.Run("before generation", func(t *testing.T) {
		_, err := svc.ExecutePendingSQL(context.Background(), sess)
		if !errors.Is(err, ErrNoPendingSQL) {
			t.Errorf("error = %v, want ErrNoPendingSQL", err)
		}
	})

	statement, err := svc.GenerateCreateTableSQL(sess, "roster", "/Volumes/c/s/v/", "roster.csv")
	if err != nil {
		t.Fatalf("GenerateCreateTableSQL() error = %v", err)
	}

	t.Run("runs the generated statement", func(t *testing.T) {
		result, err := svc.ExecutePendingSQL(context.Background(), sess)
		if err != nil {
			t.Fatalf("ExecutePendingSQL() error = %v", err)
		}
		if wh.executedSQL != statement {
			t.Errorf("executed %q, want the generated statement", wh.executedSQL)
		}
		if result.TableName != "roster" {
			t.Errorf("TableName = %q, want roster", result.TableName)
		}
		if result.StatementID != "stmt-123" {
			t.Errorf("StatementID = %q, want stmt-123", result.StatementID)
		}
	})

	t.Run("execution failure", func(t *testing.T) {
		wh.executeErr = errors.New("warehouse stopped")
		_, err := svc.ExecutePendingSQL(context.Background(), sess)
		var registration *RegistrationError
		if !errors.As(err, &registration) {
			t.Errorf("error = %v, want RegistrationError", err)
		}
	})
}

func TestAuthStatusPassthrough(t *testing.T) {
	wh := &fakeWarehouse{status: AuthStatus{Attempted: true, Connected: false, Error: "bad token"}}
	svc := NewService(wh, time.Hour)

	got := svc.AuthStatus()
	if !got.Attempted || got.Connected || got.Error != "bad token" {
		t.Errorf("AuthStatus() = %+v", got)
	}
}
