// Package dataset writes keyword records as JSON Lines.
package dataset

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"m3lsprep/internal/models"
)

// BackupSuffix is appended to an existing output file when backups are enabled.
const BackupSuffix = ".bak"

const bufferSize = 64 * 1024

// ErrClosed is returned when writing to a closed writer.
var ErrClosed = errors.New("dataset writer is closed")

// Options control how the output file is created.
type Options struct {
	// CreateBackup renames an existing output file to <path>.bak before truncating.
	CreateBackup bool
}

// Writer appends records to a JSON Lines file. It is not safe for concurrent use.
type Writer struct {
	file  *os.File
	buf   *bufio.Writer
	path  string
	line  bytes.Buffer
	count int
}

// Create creates (or truncates) the output file at path, creating parent
// directories as needed.
func Create(path string, opts Options) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	if opts.CreateBackup {
		if err := backup(path); err != nil {
			return nil, err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &Writer{
		file: f,
		buf:  bufio.NewWriterSize(f, bufferSize),
		path: path,
	}, nil
}

func backup(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	if err := os.Rename(path, path+BackupSuffix); err != nil {
		return fmt.Errorf("failed to back up %s: %w", path, err)
	}

	return nil
}

// Path returns the output file path.
func (w *Writer) Path() string {
	return w.path
}

// Count returns the number of records written so far.
func (w *Writer) Count() int {
	return w.count
}

// Write appends rec as one compact JSON object followed by a newline.
func (w *Writer) Write(rec models.Record) error {
	if w.file == nil {
		return ErrClosed
	}

	w.line.Reset()

	enc := json.NewEncoder(&w.line)
	enc.SetEscapeHTML(false)

	// Encode terminates the object with '\n'.
	if err := enc.Encode(recordLine(rec)); err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	if _, err := w.buf.Write(w.line.Bytes()); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}

	w.count++

	return nil
}

// Close flushes buffered records and closes the file. It is safe to call more than once.
func (w *Writer) Close() error {
	if w.file == nil {
		return nil
	}

	flushErr := w.buf.Flush()
	closeErr := w.file.Close()
	w.file = nil

	if flushErr != nil {
		return fmt.Errorf("failed to flush %s: %w", w.path, flushErr)
	}

	if closeErr != nil {
		return fmt.Errorf("failed to close %s: %w", w.path, closeErr)
	}

	return nil
}

// recordLine never encodes a null keyword list.
func recordLine(rec models.Record) models.Record {
	if rec.Keywords == nil {
		rec.Keywords = []string{}
	}

	return rec
}
