package calllog

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestFileRecorderAppendWritesNDJSON(t *testing.T) {
	dir := t.TempDir()
	recorder, err := NewFileRecorder(filepath.Join(dir, "success.log"))
	if err != nil {
		t.Fatalf("unexpected error creating recorder: %v", err)
	}

	ctx := context.Background()
	records := []map[string]any{
		{"logType": "payment_success", "session": "cs_1"},
		{"logType": "payment_success", "session": "cs_2"},
	}
	for _, record := range records {
		if err := recorder.Append(ctx, record); err != nil {
			t.Fatalf("unexpected append error: %v", err)
		}
	}

	file, err := os.Open(recorder.Path())
	if err != nil {
		t.Fatalf("failed to open log file: %v", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	var lines []map[string]any
	for scanner.Scan() {
		var decoded map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &decoded); err != nil {
			t.Fatalf("line is not valid JSON: %v", err)
		}
		lines = append(lines, decoded)
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan error: %v", err)
	}

	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0]["session"] != "cs_1" || lines[1]["session"] != "cs_2" {
		t.Fatalf("unexpected lines: %v", lines)
	}
}

func TestFileRecorderCreatesParentDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "logs", "redirect.log")
	recorder, err := NewFileRecorder(path)
	if err != nil {
		t.Fatalf("unexpected error creating recorder: %v", err)
	}
	if err := recorder.Append(context.Background(), map[string]any{"logType": "error"}); err != nil {
		t.Fatalf("unexpected append error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected log file to exist: %v", err)
	}
}

func TestFileRecorderAppendRespectsContext(t *testing.T) {
	dir := t.TempDir()
	recorder, err := NewFileRecorder(filepath.Join(dir, "cancel.log"))
	if err != nil {
		t.Fatalf("unexpected error creating recorder: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := recorder.Append(ctx, map[string]any{"logType": "payment_cancel"}); err == nil {
		t.Fatalf("expected error for cancelled context")
	}
}

func TestRecorderFuncAdapts(t *testing.T) {
	var got any
	recorder := RecorderFunc(func(ctx context.Context, record any) error {
		got = record
		return nil
	})
	if err := recorder.Append(context.Background(), "payload"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "payload" {
		t.Fatalf("expected payload to pass through, got %v", got)
	}
}

func TestFileRecorderRejectsUnserializableRecord(t *testing.T) {
	dir := t.TempDir()
	recorder, err := NewFileRecorder(filepath.Join(dir, "success.log"))
	if err != nil {
		t.Fatalf("unexpected error creating recorder: %v", err)
	}
	if err := recorder.Append(context.Background(), func() {}); err == nil {
		t.Fatalf("expected marshal error for func value")
	}
}
