// Package storage provides the string-keyed key-value record store that
// holds the saved resume between sessions.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ResumeKey is the record key the application state is saved under.
const ResumeKey = "resumeData"

// ErrNotFound is returned by Get when no record exists for a key.
var ErrNotFound = errors.New("record not found")

// Store is a string-keyed store of string values.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Error represents a backend failure.
type Error struct {
	Op      string
	Key     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("storage %s", e.Op)
	if e.Key != "" {
		msg += fmt.Sprintf(" %q", e.Key)
	}
	msg += ": " + e.Message
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Supported drivers.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Drivers lists every supported driver name.
var Drivers = []string{DriverFile, DriverSQLite, DriverPostgres, DriverMemory}

// Options selects and configures a backend.
type Options struct {
	Driver string
	// DSN is a directory for file, a database path for sqlite and a
	// connection URL for postgres. Ignored by memory.
	DSN string
}

// Open returns the backend named by opts.Driver.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(opts.Driver) {
	case DriverMemory:
		return NewMemory(), nil
	case DriverFile, "":
		return NewFile(opts.DSN)
	case DriverSQLite:
		return NewSQLite(ctx, opts.DSN)
	case DriverPostgres:
		return NewPostgres(ctx, opts.DSN)
	default:
		return nil, &Error{Op: "open", Message: fmt.Sprintf("unknown driver %q (supported: %s)", opts.Driver, strings.Join(Drivers, ", "))}
	}
}

func checkKey(op, key string) error {
	if strings.TrimSpace(key) == "" {
		return &Error{Op: op, Message: "key must not be empty"}
	}
	return nil
}
