package core

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func newTestSession(t *testing.T, data string) *Session {
	t.Helper()
	sess := newSession("test")
	if _, err := sess.Upload([]byte(data), "people.csv", ParseSettings{Delimiter: ',', HeaderFirstRow: true}); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	return sess
}

func TestUpload_StartsFreshState(t *testing.T) {
	sess := newTestSession(t, "name,age\nalice,30\n")

	if !sess.Active() {
		t.Fatal("Active() = false after upload")
	}
	if sess.FileName() != "people.csv" {
		t.Errorf("FileName() = %q, want people.csv", sess.FileName())
	}
	if sess.DefaultTableName() != "people" {
		t.Errorf("DefaultTableName() = %q, want people", sess.DefaultTableName())
	}
	if _, undoSteps, _ := sess.Display(); undoSteps != 0 {
		t.Errorf("undo steps after upload = %d, want 0", undoSteps)
	}
}

func TestUpload_ReplacesPreviousFile(t *testing.T) {
	sess := newTestSession(t, "name\nalice\n")
	if _, err := sess.AddRow(); err != nil {
		t.Fatalf("AddRow() error = %v", err)
	}

	if _, err := sess.Upload([]byte("city\noslo\n"), "cities.csv", ParseSettings{Delimiter: ',', HeaderFirstRow: true}); err != nil {
		t.Fatalf("second Upload() error = %v", err)
	}

	snapshot, _ := sess.Current()
	if !reflect.DeepEqual(snapshot.Columns, []string{"city"}) {
		t.Errorf("Columns = %v, want [city]", snapshot.Columns)
	}
	if _, undoSteps, _ := sess.Display(); undoSteps != 0 {
		t.Errorf("undo steps after re-upload = %d, want 0", undoSteps)
	}
}

func TestUpload_DecodeFailureKeepsState(t *testing.T) {
	sess := newTestSession(t, "name\nalice\n")

	_, err := sess.Upload([]byte("a,b\n1,2,3\n"), "bad.csv", ParseSettings{Delimiter: ',', HeaderFirstRow: true})
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("error = %v, want DecodeError", err)
	}

	if sess.FileName() != "people.csv" {
		t.Errorf("failed upload replaced state: FileName() = %q", sess.FileName())
	}
}

func TestAddRow(t *testing.T) {
	sess := newTestSession(t, "name,age\nalice,30\n")

	result, err := sess.AddRow()
	if err != nil {
		t.Fatalf("AddRow() error = %v", err)
	}

	if len(result.Snapshot.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2", len(result.Snapshot.Rows))
	}
	added := result.Snapshot.Rows[1]
	if added["name"] != "" || added["age"] != "" {
		t.Errorf("new row not blank: %v", added)
	}
	if result.UndoSteps != 1 {
		t.Errorf("UndoSteps = %d, want 1", result.UndoSteps)
	}
}

func TestAddColumn(t *testing.T) {
	sess := newTestSession(t, "name,age\nalice,30\n")

	result, err := sess.AddColumn()
	if err != nil {
		t.Fatalf("AddColumn() error = %v", err)
	}

	wantCols := []string{"name", "age", "New_Column_3"}
	if !reflect.DeepEqual(result.Snapshot.Columns, wantCols) {
		t.Errorf("Columns = %v, want %v", result.Snapshot.Columns, wantCols)
	}
	if result.Snapshot.Rows[0]["New_Column_3"] != "" {
		t.Errorf("existing row not blank in new column: %v", result.Snapshot.Rows[0])
	}
}

func TestAddColumn_NameCollision(t *testing.T) {
	sess := newTestSession(t, "a,New_Column_3\n1,2\n")

	_, err := sess.AddColumn()
	var exists *ColumnExistsError
	if !errors.As(err, &exists) {
		t.Fatalf("error = %v, want ColumnExistsError", err)
	}
	if exists.Name != "New_Column_3" {
		t.Errorf("colliding name = %q, want New_Column_3", exists.Name)
	}

	// Rejected operation must not consume an undo slot.
	if _, undoSteps, _ := sess.Display(); undoSteps != 0 {
		t.Errorf("undo steps after rejected AddColumn = %d, want 0", undoSteps)
	}
}

func TestDeleteColumn(t *testing.T) {
	sess := newTestSession(t, "name,age\nalice,30\n")

	result, err := sess.DeleteColumn("age")
	if err != nil {
		t.Fatalf("DeleteColumn() error = %v", err)
	}

	if !reflect.DeepEqual(result.Snapshot.Columns, []string{"name"}) {
		t.Errorf("Columns = %v, want [name]", result.Snapshot.Columns)
	}
	if _, ok := result.Snapshot.Rows[0]["age"]; ok {
		t.Error("deleted column value still present in row")
	}
}

func TestDeleteColumn_Errors(t *testing.T) {
	t.Run("last column", func(t *testing.T) {
		sess := newTestSession(t, "name\nalice\n")
		if _, err := sess.DeleteColumn("name"); !errors.Is(err, ErrLastColumn) {
			t.Errorf("error = %v, want ErrLastColumn", err)
		}
	})

	t.Run("unknown column", func(t *testing.T) {
		sess := newTestSession(t, "name,age\nalice,30\n")
		_, err := sess.DeleteColumn("missing")
		var notFound *ColumnNotFoundError
		if !errors.As(err, &notFound) {
			t.Errorf("error = %v, want ColumnNotFoundError", err)
		}
	})
}

func TestApplyTableEdits_RenamesFromHeaderRow(t *testing.T) {
	sess := newTestSession(t, "name,age\nalice,30\n")

	// Editing the header-source row's cells renames the columns.
	result, err := sess.ApplyTableEdits(
		[]string{"name", "age"},
		[]Row{
			{"name": "first_name", "age": "years"},
			{"name": "alice", "age": "30"},
		},
	)
	if err != nil {
		t.Fatalf("ApplyTableEdits() error = %v", err)
	}

	wantCols := []string{"first_name", "years"}
	if !reflect.DeepEqual(result.Snapshot.Columns, wantCols) {
		t.Errorf("Columns = %v, want %v", result.Snapshot.Columns, wantCols)
	}
	if result.Snapshot.Rows[1]["first_name"] != "alice" {
		t.Errorf("row values lost in rename: %v", result.Snapshot.Rows[1])
	}
	if !reflect.DeepEqual(result.Display.HeaderNames, wantCols) {
		t.Errorf("HeaderNames = %v, want %v", result.Display.HeaderNames, wantCols)
	}
}

func TestApplyTableEdits_InconsistentRows(t *testing.T) {
	sess := newTestSession(t, "a,b\nx,y\n")

	result, err := sess.ApplyTableEdits(
		[]string{"a", "b"},
		[]Row{
			{"a": "a", "b": "b"},
			{"a": "1", "extra": "e"},
		},
	)
	if err != nil {
		t.Fatalf("ApplyTableEdits() error = %v", err)
	}

	for _, row := range result.Snapshot.Rows {
		if len(row) != len(result.Snapshot.Columns) {
			t.Errorf("row keys %v do not match columns %v", row, result.Snapshot.Columns)
		}
	}
}

func TestUndo_RestoresPreviousState(t *testing.T) {
	sess := newTestSession(t, "name\nalice\n")
	before, _ := sess.Current()

	if _, err := sess.AddRow(); err != nil {
		t.Fatalf("AddRow() error = %v", err)
	}

	result, err := sess.Undo()
	if err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if !result.Snapshot.Equal(before) {
		t.Errorf("Undo() did not restore the previous snapshot")
	}
	if result.Warning != "" {
		t.Errorf("Warning = %q, want empty", result.Warning)
	}
}

func TestUndo_EmptyStackIsWarningNotError(t *testing.T) {
	sess := newTestSession(t, "name\nalice\n")
	before, _ := sess.Current()

	result, err := sess.Undo()
	if err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if result.Warning == "" {
		t.Error("Warning is empty for no-op undo")
	}
	if !result.Snapshot.Equal(before) {
		t.Error("no-op undo changed the snapshot")
	}
}

func TestUndo_DepthBounded(t *testing.T) {
	sess := newTestSession(t, "name\nalice\n")

	// UndoLimit+5 edits; only the last UndoLimit are recoverable.
	for i := 0; i < UndoLimit+5; i++ {
		if _, err := sess.AddRow(); err != nil {
			t.Fatalf("AddRow() #%d error = %v", i, err)
		}
	}

	_, undoSteps, _ := sess.Display()
	if undoSteps != UndoLimit {
		t.Fatalf("undo steps = %d, want %d", undoSteps, UndoLimit)
	}

	var last *EditResult
	for i := 0; i < UndoLimit; i++ {
		result, err := sess.Undo()
		if err != nil {
			t.Fatalf("Undo() #%d error = %v", i, err)
		}
		if result.Warning != "" {
			t.Fatalf("Undo() #%d unexpectedly exhausted: %q", i, result.Warning)
		}
		last = result
	}

	// The stack is exhausted; the oldest 5 pre-edit states are gone.
	if got := len(last.Snapshot.Rows); got != 6 {
		t.Errorf("rows after full unwind = %d, want 6", got)
	}
	result, err := sess.Undo()
	if err != nil {
		t.Fatalf("Undo() past bottom error = %v", err)
	}
	if result.Warning == "" {
		t.Error("Undo() past the stack bottom should warn")
	}
}

func TestUndo_SnapshotsNotAliased(t *testing.T) {
	sess := newTestSession(t, "name\nalice\n")

	if _, err := sess.AddRow(); err != nil {
		t.Fatalf("AddRow() error = %v", err)
	}
	// Mutate through a later edit; the stacked snapshot must be isolated.
	if _, err := sess.ApplyTableEdits([]string{"name"}, []Row{{"name": "name"}, {"name": "zed"}}); err != nil {
		t.Fatalf("ApplyTableEdits() error = %v", err)
	}

	if _, err := sess.Undo(); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	result, err := sess.Undo()
	if err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if result.Snapshot.Rows[0]["name"] != "alice" {
		t.Errorf("restored snapshot corrupted: %v", result.Snapshot.Rows)
	}
}

func TestRevert(t *testing.T) {
	sess := newTestSession(t, "name\nalice\n")
	original, _ := sess.Current()

	for i := 0; i < 3; i++ {
		if _, err := sess.AddRow(); err != nil {
			t.Fatalf("AddRow() error = %v", err)
		}
	}

	result, err := sess.Revert()
	if err != nil {
		t.Fatalf("Revert() error = %v", err)
	}
	if !result.Snapshot.Equal(original) {
		t.Error("Revert() did not restore the original snapshot")
	}

	// The revert itself is one undo step.
	undone, err := sess.Undo()
	if err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if len(undone.Snapshot.Rows) != 4 {
		t.Errorf("rows after undoing revert = %d, want 4", len(undone.Snapshot.Rows))
	}
}

func TestChangeParseSettings(t *testing.T) {
	sess := newTestSession(t, "name,age\nalice,30\n")

	// Edits are discarded by a re-parse and no undo step is recorded.
	if _, err := sess.AddRow(); err != nil {
		t.Fatalf("AddRow() error = %v", err)
	}

	result, err := sess.ChangeParseSettings(ParseSettings{Delimiter: ',', HeaderFirstRow: false})
	if err != nil {
		t.Fatalf("ChangeParseSettings() error = %v", err)
	}

	wantCols := []string{"Column_1", "Column_2"}
	if !reflect.DeepEqual(result.Snapshot.Columns, wantCols) {
		t.Errorf("Columns = %v, want %v", result.Snapshot.Columns, wantCols)
	}
	if len(result.Snapshot.Rows) != 2 {
		t.Errorf("len(Rows) = %d, want 2 (header row becomes data)", len(result.Snapshot.Rows))
	}
}

func TestChangeParseSettings_FailureLeavesStateUnchanged(t *testing.T) {
	// The quoted field decodes under ',' but is a parse error under ';'
	// (a closing quote followed by a non-delimiter).
	sess := newTestSession(t, "a,b\n\"1\",2\n")
	before, _ := sess.Current()

	_, err := sess.ChangeParseSettings(ParseSettings{Delimiter: ';', HeaderFirstRow: true})
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("error = %v, want DecodeError", err)
	}

	after, _ := sess.Current()
	if !after.Equal(before) {
		t.Error("failed re-parse changed the table")
	}
	if got := sess.Settings(); got.Delimiter != ',' || !got.HeaderFirstRow {
		t.Errorf("failed re-parse changed settings: %+v", got)
	}
}

func TestRemoveFile(t *testing.T) {
	sess := newTestSession(t, "name\nalice\n")
	if _, err := sess.AddRow(); err != nil {
		t.Fatalf("AddRow() error = %v", err)
	}

	sess.RemoveFile()

	if sess.Active() {
		t.Error("Active() = true after RemoveFile")
	}
	if sess.FileName() != "" {
		t.Errorf("FileName() = %q, want empty", sess.FileName())
	}
	if _, ok := sess.Current(); ok {
		t.Error("Current() ok after RemoveFile")
	}
	if _, err := sess.AddRow(); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("AddRow() after RemoveFile error = %v, want ErrNoActiveSession", err)
	}
}

func TestOperationsWithoutUpload(t *testing.T) {
	sess := newSession("empty")

	ops := []struct {
		name string
		call func() error
	}{
		{"AddRow", func() error { _, err := sess.AddRow(); return err }},
		{"AddColumn", func() error { _, err := sess.AddColumn(); return err }},
		{"DeleteColumn", func() error { _, err := sess.DeleteColumn("x"); return err }},
		{"ApplyTableEdits", func() error { _, err := sess.ApplyTableEdits(nil, nil); return err }},
		{"Undo", func() error { _, err := sess.Undo(); return err }},
	}

	for _, op := range ops {
		t.Run(op.name, func(t *testing.T) {
			if err := op.call(); !errors.Is(err, ErrNoActiveSession) {
				t.Errorf("%s error = %v, want ErrNoActiveSession", op.name, err)
			}
		})
	}
}

func TestRevertWithoutUpload(t *testing.T) {
	sess := newSession("empty")

	result, err := sess.Revert()
	if err != nil {
		t.Fatalf("Revert() error = %v, want warning no-op", err)
	}
	if result.Warning == "" {
		t.Error("Revert() without upload returned no warning")
	}
	if sess.Active() {
		t.Error("Active() = true after a pre-upload revert")
	}
	if result.UndoSteps != 0 {
		t.Errorf("UndoSteps = %d, want 0 (no-op must not push)", result.UndoSteps)
	}
}

func TestChangeParseSettingsWithoutUpload(t *testing.T) {
	sess := newSession("empty")

	want := ParseSettings{Delimiter: ';', HeaderFirstRow: false}
	if _, err := sess.ChangeParseSettings(want); err != nil {
		t.Fatalf("ChangeParseSettings() error = %v, want no-op", err)
	}
	if got := sess.Settings(); got != want {
		t.Errorf("Settings() = %+v, want %+v", got, want)
	}
	if sess.Active() {
		t.Error("Active() = true before any upload")
	}

	// The recorded settings drive the next upload.
	result, err := sess.Upload([]byte("a;b\n1;2\n"), "semi.csv", sess.Settings())
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	wantCols := []string{"Column_1", "Column_2"}
	if !reflect.DeepEqual(result.Snapshot.Columns, wantCols) {
		t.Errorf("Columns = %v, want %v", result.Snapshot.Columns, wantCols)
	}
}

func TestEditUndoEditScenario(t *testing.T) {
	// Upload, edit a cell, add a column, undo once, verify the cell
	// edit survived and the column is gone.
	sess := newTestSession(t, "name,age\nname,age\nalice,30\n")

	if _, err := sess.ApplyTableEdits(
		[]string{"name", "age"},
		[]Row{
			{"name": "name", "age": "age"},
			{"name": "alice", "age": "31"},
		},
	); err != nil {
		t.Fatalf("ApplyTableEdits() error = %v", err)
	}

	if _, err := sess.AddColumn(); err != nil {
		t.Fatalf("AddColumn() error = %v", err)
	}

	result, err := sess.Undo()
	if err != nil {
		t.Fatalf("Undo() error = %v", err)
	}

	if len(result.Snapshot.Columns) != 2 {
		t.Errorf("Columns = %v, want the added column undone", result.Snapshot.Columns)
	}
	if result.Snapshot.Rows[1]["age"] != "31" {
		t.Errorf("cell edit lost by undo: %v", result.Snapshot.Rows[1])
	}
}

func TestUploadLargeTableStaysConsistent(t *testing.T) {
	data := "id,value\n"
	for i := 0; i < 200; i++ {
		data += fmt.Sprintf("%d,v%d\n", i, i)
	}

	sess := newTestSession(t, data)
	snapshot, _ := sess.Current()
	if len(snapshot.Rows) != 200 {
		t.Fatalf("len(Rows) = %d, want 200", len(snapshot.Rows))
	}
	for _, row := range snapshot.Rows {
		if len(row) != 2 {
			t.Fatalf("row key set inconsistent: %v", row)
		}
	}
}
