package db

import "errors"

// Sentinel errors for store operations.
var (
	ErrKeyNotFound = errors.New("db: key not found")
	ErrIndexExists = errors.New("db: index already exists")
)

// Redis commands named in Error.Op.
const (
	OpCreateIndex = "FT.CREATE"
	OpIndexInfo   = "FT.INFO"
	OpSearch      = "FT.SEARCH"
	OpAggregate   = "FT.AGGREGATE"
	OpJSONSet     = "JSON.SET"
	OpJSONGet     = "JSON.GET"
)

// Error records the command and, when known, the key or index it targeted.
type Error struct {
	Op  string
	Key string
	Err error
}

func (e *Error) Error() string {
	if e.Key == "" {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op + " " + e.Key + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }
