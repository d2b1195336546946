package calllog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Recorder appends one immutable record to an audit sink. Records are
// write-once: implementations never update or delete previously appended
// entries.
type Recorder interface {
	Append(ctx context.Context, record any) error
}

// RecorderFunc adapts ordinary functions to Recorder.
type RecorderFunc func(ctx context.Context, record any) error

// Append appends the record using the wrapped function.
func (f RecorderFunc) Append(ctx context.Context, record any) error {
	return f(ctx, record)
}

// FileRecorder appends newline-delimited JSON records to a single
// append-only file. Each record is marshalled in memory and written with one
// write call against an O_APPEND descriptor, so concurrent appends may
// interleave between lines but never within one.
type FileRecorder struct {
	path string
}

// NewFileRecorder constructs a FileRecorder for the given path, creating
// parent directories as needed.
func NewFileRecorder(path string) (*FileRecorder, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, errors.New("calllog: file path is required")
	}
	if dir := filepath.Dir(trimmed); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("calllog: create log directory: %w", err)
		}
	}
	return &FileRecorder{path: trimmed}, nil
}

// Path returns the file the recorder appends to.
func (r *FileRecorder) Path() string {
	if r == nil {
		return ""
	}
	return r.path
}

// Append marshals the record and appends it as a single JSON line.
func (r *FileRecorder) Append(ctx context.Context, record any) error {
	if r == nil || r.path == "" {
		return errors.New("calllog: recorder is not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("calllog: marshal record: %w", err)
	}
	data = append(data, '\n')

	file, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("calllog: open %s: %w", r.path, err)
	}
	defer file.Close()

	if _, err := file.Write(data); err != nil {
		return fmt.Errorf("calllog: append to %s: %w", r.path, err)
	}
	return nil
}
