package core

import (
	"errors"
	"fmt"
)

// ErrNoActiveSession is returned by editor operations attempted before a
// file has been uploaded.
var ErrNoActiveSession = errors.New("no file loaded")

// ErrLastColumn rejects a column deletion that would leave the table
// with zero columns.
var ErrLastColumn = errors.New("cannot remove the last remaining column")

// DecodeError wraps a CSV parse failure on upload or re-parse. The
// session is left as it was; the user can fix the file or the settings
// and retry.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode csv: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ColumnNotFoundError rejects a mutation naming a column the snapshot
// does not have.
type ColumnNotFoundError struct {
	Name string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column not found: %s", e.Name)
}

// ColumnExistsError rejects an AddColumn whose generated name collides
// with an existing column.
type ColumnExistsError struct {
	Name string
}

func (e *ColumnExistsError) Error() string {
	return fmt.Sprintf("column already exists: %s", e.Name)
}

// StorageError wraps a failed volume push. Local editing state is
// unaffected.
type StorageError struct {
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("upload to %s: %v", e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// RegistrationError wraps a failed CREATE TABLE execution. Local editing
// state is unaffected.
type RegistrationError struct {
	Err error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("create table: %v", e.Err)
}

func (e *RegistrationError) Unwrap() error {
	return e.Err
}

// ErrNoPendingSQL is returned when execution is requested before a
// statement has been generated.
var ErrNoPendingSQL = errors.New("no SQL statement generated yet")

// ErrIncompleteDestination rejects a warehouse operation before
// catalog, schema, and volume have all been filled in.
var ErrIncompleteDestination = errors.New("catalog, schema, and volume are required")

// UserMessage is a user-facing rendering of an error, with a support
// code the user can quote and a suggested next action.
type UserMessage struct {
	Code    string
	Message string
	Action  string
}

// MapError converts a technical error into a UserMessage. Unknown errors
// map to a generic message so internals never leak to the client.
func MapError(err error) UserMessage {
	var decodeErr *DecodeError
	var notFound *ColumnNotFoundError
	var exists *ColumnExistsError
	var storage *StorageError
	var registration *RegistrationError

	switch {
	case errors.As(err, &decodeErr):
		return UserMessage{
			Code:    "CSV001",
			Message: "The file could not be parsed as CSV.",
			Action:  "Check the delimiter setting and that all rows have the same number of fields.",
		}
	case errors.Is(err, ErrNoActiveSession):
		return UserMessage{
			Code:    "SES001",
			Message: "No file is loaded.",
			Action:  "Upload a CSV file first.",
		}
	case errors.Is(err, ErrLastColumn):
		return UserMessage{
			Code:    "COL001",
			Message: "Cannot remove the last remaining column.",
			Action:  "A table needs at least one column.",
		}
	case errors.As(err, &notFound):
		return UserMessage{
			Code:    "COL002",
			Message: fmt.Sprintf("Column %q was not found.", notFound.Name),
			Action:  "Refresh the page and pick a column from the list.",
		}
	case errors.As(err, &exists):
		return UserMessage{
			Code:    "COL003",
			Message: fmt.Sprintf("A column named %q already exists.", exists.Name),
			Action:  "Rename or delete the existing column first.",
		}
	case errors.As(err, &storage):
		return UserMessage{
			Code:    "WH001",
			Message: "Uploading the file to the volume failed.",
			Action:  "Check the volume path and your Databricks permissions, then try again.",
		}
	case errors.As(err, &registration):
		return UserMessage{
			Code:    "WH002",
			Message: "Creating the Delta table failed.",
			Action:  "Check the generated SQL and the warehouse configuration, then try again.",
		}
	case errors.Is(err, ErrNoPendingSQL):
		return UserMessage{
			Code:    "WH003",
			Message: "No SQL statement has been generated.",
			Action:  "Generate the CREATE TABLE statement before executing it.",
		}
	case errors.Is(err, ErrIncompleteDestination):
		return UserMessage{
			Code:    "WH004",
			Message: "The destination is incomplete.",
			Action:  "Fill in catalog, schema, and volume before pushing.",
		}
	default:
		return UserMessage{
			Code:    "SYS001",
			Message: "Something went wrong.",
			Action:  "Try again; quote code SYS001 if the problem persists.",
		}
	}
}
