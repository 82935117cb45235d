package storage

import (
	"context"
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
)

// File stores each key as a JSON file in a directory.
type File struct {
	dir string
}

// NewFile returns a File store rooted at dir, creating it if needed.
func NewFile(dir string) (*File, error) {
	if dir == "" {
		return nil, &Error{Op: "open", Message: "file store needs a directory"}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &Error{Op: "open", Message: "failed to create directory " + dir, Cause: err}
	}
	return &File{dir: dir}, nil
}

// Dir returns the directory the store writes to.
func (f *File) Dir() string {
	return f.dir
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, url.PathEscape(key)+".json")
}

// Get returns the value stored under key.
func (f *File) Get(_ context.Context, key string) (string, error) {
	if err := checkKey("get", key); err != nil {
		return "", err
	}
	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", &Error{Op: "get", Key: key, Message: "failed to read record", Cause: err}
	}
	return string(data), nil
}

// Put writes value to a temp file and renames it over the record so a
// failed write never leaves a truncated record behind.
func (f *File) Put(_ context.Context, key, value string) error {
	if err := checkKey("put", key); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(f.dir, ".tmp-*")
	if err != nil {
		return &Error{Op: "put", Key: key, Message: "failed to create temp file", Cause: err}
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.WriteString(value); err != nil {
		_ = tmp.Close()
		return &Error{Op: "put", Key: key, Message: "failed to write record", Cause: err}
	}
	if err := tmp.Close(); err != nil {
		return &Error{Op: "put", Key: key, Message: "failed to close record", Cause: err}
	}
	if err := os.Rename(tmpName, f.path(key)); err != nil {
		return &Error{Op: "put", Key: key, Message: "failed to replace record", Cause: err}
	}
	return nil
}

// Delete removes the record for key. Deleting a missing key is not an error.
func (f *File) Delete(_ context.Context, key string) error {
	if err := checkKey("delete", key); err != nil {
		return err
	}
	if err := os.Remove(f.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &Error{Op: "delete", Key: key, Message: "failed to remove record", Cause: err}
	}
	return nil
}

// Close is a no-op.
func (f *File) Close() error {
	return nil
}
