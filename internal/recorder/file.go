package recorder

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileRecorder appends one line per failure to a text file. Records without
// a symbol are pass-level errors and omit that column.
type FileRecorder struct {
	mu   sync.Mutex
	f    *os.File
	path string
}

// NewFileRecorder opens path for appending, creating parent directories.
func NewFileRecorder(path string) (*FileRecorder, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create failure log dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open failure log: %w", err)
	}
	return &FileRecorder{f: f, path: path}, nil
}

func (r *FileRecorder) RecordFailure(rec *FailureRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ts := rec.Timestamp.Format("2006-01-02 15:04:05.000000")
	line := fmt.Sprintf("%s - %s - %s\n", ts, rec.Symbol, rec.Error)
	if rec.Symbol == "" {
		// pass-level error, not tied to a symbol
		line = fmt.Sprintf("%s - %s\n", ts, rec.Error)
	}
	if _, err := r.f.WriteString(line); err != nil {
		return fmt.Errorf("append %s: %w", r.path, err)
	}
	return nil
}

func (r *FileRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.f.Close()
}
