// Package archivetest builds article archives for tests.
package archivetest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
)

// Entry is one archive member. Names ending in "/" become directory entries.
type Entry struct {
	Name string
	Body string
}

// File is shorthand for a file entry.
func File(name, body string) Entry {
	return Entry{Name: name, Body: body}
}

// Dir is shorthand for an explicit directory entry.
func Dir(name string) Entry {
	return Entry{Name: name + "/"}
}

// WriteZip writes entries, in order, to a new zip file at path.
func WriteZip(t *testing.T, path string, entries ...Entry) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
	defer f.Close()

	w := zip.NewWriter(f)

	for _, e := range entries {
		fw, err := w.Create(e.Name)
		if err != nil {
			t.Fatalf("Failed to add %s: %v", e.Name, err)
		}

		if e.Body == "" {
			continue
		}

		if _, err := fw.Write([]byte(e.Body)); err != nil {
			t.Fatalf("Failed to write %s: %v", e.Name, err)
		}
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Failed to finalize %s: %v", path, err)
	}

	return path
}
