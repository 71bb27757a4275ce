package record

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// ForEach streams records from a JSONL file in emission order. A trailing
// partial line (torn final write) is skipped, not treated as corruption.
func ForEach(path string, fn func(*HandRecord) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open record log: %w", err)
	}
	defer f.Close()
	return forEach(f, fn)
}

func forEach(r io.Reader, fn func(*HandRecord) error) error {
	br := bufio.NewReaderSize(r, 64*1024)
	lineNo := 0
	for {
		line, err := br.ReadBytes('\n')
		if err == io.EOF {
			// No terminating newline: the writer died mid-line. Ignore.
			return nil
		}
		if err != nil {
			return err
		}
		lineNo++
		if len(line) <= 1 {
			continue
		}
		rec, err := Decode(line[:len(line)-1])
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
}

// ReadAll loads every record from a JSONL file.
func ReadAll(path string) ([]*HandRecord, error) {
	var out []*HandRecord
	err := ForEach(path, func(rec *HandRecord) error {
		out = append(out, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
