// Package metadata writes and verifies the manifest stored next to a generated dataset.
package metadata

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"m3lsprep/internal/models"

	"github.com/google/uuid"
)

// Version is the manifest format version.
const Version = "1"

// ManifestSuffix is appended to the dataset path to name its manifest.
const ManifestSuffix = ".manifest.json"

// Manifest verification errors.
var (
	ErrNoManifest          = errors.New("no manifest found")
	ErrNoHashFound         = errors.New("no hash found in manifest")
	ErrHashMismatch        = errors.New("hash mismatch")
	ErrRecordCountMismatch = errors.New("record count mismatch")
)

// Manifest describes one generated dataset file.
type Manifest struct {
	GeneratedAt time.Time           `json:"generatedAt"`
	Total       models.ArchiveStats `json:"total"`
	RunID       string              `json:"runId"`
	Version     string              `json:"version"`
	Dataset     string              `json:"dataset"`
	Hash        string              `json:"sha256"`
	Archives    []string            `json:"archives"`
	Size        int64               `json:"size"`
	Records     int                 `json:"records"`
}

// Digest is the content fingerprint of a dataset file.
type Digest struct {
	Hash  string
	Size  int64
	Lines int
}

// PathFor returns the manifest path for a dataset file.
func PathFor(datasetPath string) string {
	return datasetPath + ManifestSuffix
}

// CalculateDigest computes the SHA-256 hash, size and line count of the file at path.
func CalculateDigest(path string) (Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return Digest{}, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	r := bufio.NewReader(io.TeeReader(f, h))

	var d Digest

	for {
		line, err := r.ReadSlice('\n')
		d.Size += int64(len(line))

		if len(line) > 0 && line[len(line)-1] == '\n' {
			d.Lines++
		}

		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}

		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return Digest{}, fmt.Errorf("failed to read dataset: %w", err)
		}
	}

	d.Hash = hex.EncodeToString(h.Sum(nil))

	return d, nil
}

// Sign builds a manifest for the dataset at datasetPath from the run statistics.
func Sign(datasetPath string, stats *models.RunStats) (*Manifest, error) {
	digest, err := CalculateDigest(datasetPath)
	if err != nil {
		return nil, err
	}

	m := &Manifest{
		RunID:       uuid.NewString(),
		Version:     Version,
		GeneratedAt: time.Now().UTC(),
		Dataset:     filepath.Base(datasetPath),
		Hash:        digest.Hash,
		Size:        digest.Size,
		Records:     digest.Lines,
	}

	if stats != nil {
		m.Total = stats.Total

		for _, s := range stats.Archives {
			m.Archives = append(m.Archives, s.Archive)
		}
	}

	return m, nil
}

// Write saves the manifest as indented JSON.
func (m *Manifest) Write(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}

// Read loads a manifest from path.
func Read(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNoManifest, path)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	return &m, nil
}

// Verify checks that the dataset named in the manifest at manifestPath still
// matches the recorded hash and record count. The dataset is resolved relative
// to the manifest's directory.
func Verify(manifestPath string) (*Manifest, error) {
	m, err := Read(manifestPath)
	if err != nil {
		return nil, err
	}

	if m.Hash == "" {
		return m, ErrNoHashFound
	}

	digest, err := CalculateDigest(filepath.Join(filepath.Dir(manifestPath), m.Dataset))
	if err != nil {
		return m, err
	}

	if digest.Hash != m.Hash {
		return m, fmt.Errorf("%w: expected %s, got %s", ErrHashMismatch, m.Hash, digest.Hash)
	}

	if digest.Lines != m.Records {
		return m, fmt.Errorf("%w: expected %d, got %d", ErrRecordCountMismatch, m.Records, digest.Lines)
	}

	return m, nil
}
