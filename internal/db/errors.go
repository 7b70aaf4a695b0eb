package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrKeyNotFound       = errors.New("db: key not found")
	ErrInvalidCollection = errors.New("db: invalid collection or document path")
)

// Op constants name the backend operation for error context.
const (
	OpPing    = "PING"
	OpList    = "LIST"
	OpGet     = "GET"
	OpMerge   = "MERGE"
	OpScan    = "SCAN"
	OpExists  = "EXISTS"
	OpJSONGet = "JSON.GET"
	OpJSONSet = "JSON.SET"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
