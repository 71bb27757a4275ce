package record

import (
	"fmt"
	"os"
	"sync"
)

// Writer appends hand records to a JSONL file. Each record is committed with
// a single write of the full line, so a crash can truncate at most the final
// line and never corrupts records already on disk.
type Writer struct {
	mu sync.Mutex
	f  *os.File
}

// OpenWriter opens (or creates) path for append-only record emission.
func OpenWriter(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open record log: %w", err)
	}
	return &Writer{f: f}, nil
}

// Append writes one record as a single newline-terminated line.
func (w *Writer) Append(rec *HandRecord) error {
	line, err := rec.Encode()
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return fmt.Errorf("record writer is closed")
	}
	if _, err := w.f.Write(line); err != nil {
		return fmt.Errorf("append hand record: %w", err)
	}
	return nil
}

// Sync flushes the file to stable storage.
func (w *Writer) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return nil
	}
	return w.f.Sync()
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return nil
	}
	err := w.f.Close()
	w.f = nil
	return err
}
