package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"m3lsprep/internal/archive"
	"m3lsprep/internal/archive/archivetest"
	"m3lsprep/internal/config"
	"m3lsprep/internal/logger"
	"m3lsprep/internal/models"
)

// mockSink collects records for testing.
type mockSink struct {
	records []models.Record
	err     error
}

func (m *mockSink) Write(rec models.Record) error {
	if m.err != nil {
		return m.err
	}

	m.records = append(m.records, rec)

	return nil
}

func testConfig(t *testing.T, inputDir string) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Input.Dir = inputDir
	cfg.Output.Path = filepath.Join(t.TempDir(), "dat", "keywords.jsonl")
	cfg.Logging.ProgressEvery = 1

	return cfg
}

func testLogger(buf *bytes.Buffer) *logger.Logger {
	return logger.NewLoggerWithWriter("debug", buf)
}

func writeScenarioArchive(t *testing.T, dir string) {
	t.Helper()

	archivetest.WriteZip(t, filepath.Join(dir, "src.zip"),
		archivetest.File("src/groupA/articles/1.json", `{"keyword":["k1"],"0":{"para":["hello"]}}`),
		archivetest.File("src/groupA/articles/2.json", `{"keyword":[],"0":{"para":["ignored"]}}`),
	)
}

func TestPipeline_Run_EndToEnd(t *testing.T) {
	inputDir := t.TempDir()
	writeScenarioArchive(t, inputDir)

	var buf bytes.Buffer
	cfg := testConfig(t, inputDir)

	stats, err := New(cfg, testLogger(&buf)).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	data, err := os.ReadFile(cfg.Output.Path)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}

	if string(data) != `{"content":"hello","keywords":["k1"]}`+"\n" {
		t.Errorf("output = %q", data)
	}

	if stats.Written != 1 || stats.Total.Articles != 2 || stats.Total.Accepted != 1 || stats.Total.Filtered != 1 {
		t.Errorf("Unexpected stats: %+v", stats.Total)
	}

	if !strings.Contains(buf.String(), "Processing archive") {
		t.Errorf("expected progress logging, got: %s", buf.String())
	}
}

func TestPipeline_Run_Idempotent(t *testing.T) {
	inputDir := t.TempDir()
	writeScenarioArchive(t, inputDir)
	archivetest.WriteZip(t, filepath.Join(inputDir, "more.zip"),
		archivetest.File("more/g1/articles/a.json", `{"keyword":["x"],"1":{"para":["b"]},"0":{"para":["a"]}}`),
		archivetest.File("more/g2/articles/b.json", `not json`),
		archivetest.File("more/g2/articles/c.json", `{"keyword":["y","z"],"3":{"para":["c"]}}`),
	)

	var buf bytes.Buffer
	cfg := testConfig(t, inputDir)
	p := New(cfg, testLogger(&buf))

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("first Run failed: %v", err)
	}

	first, err := os.ReadFile(cfg.Output.Path)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := New(cfg, testLogger(&buf)).Run(context.Background()); err != nil {
		t.Fatalf("second Run failed: %v", err)
	}

	second, err := os.ReadFile(cfg.Output.Path)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(first, second) {
		t.Errorf("runs differ:\n%s\n---\n%s", first, second)
	}

	want := `{"content":"a\nb","keywords":["x"]}` + "\n" +
		`{"content":"c","keywords":["y","z"]}` + "\n" +
		`{"content":"hello","keywords":["k1"]}` + "\n"
	if string(first) != want {
		t.Errorf("output = %q, want %q", first, want)
	}
}

func TestPipeline_Process_MissingArticlesAborts(t *testing.T) {
	inputDir := t.TempDir()
	path := archivetest.WriteZip(t, filepath.Join(inputDir, "src.zip"),
		archivetest.File("src/good/articles/1.json", `{"keyword":["k"],"0":{"para":["p"]}}`),
		archivetest.File("src/bad/docs/1.json", `{}`),
		archivetest.File("src/later/articles/1.json", `{"keyword":["k"],"0":{"para":["q"]}}`),
	)

	var buf bytes.Buffer
	sink := &mockSink{}

	stats, err := New(testConfig(t, inputDir), testLogger(&buf)).Process(context.Background(), []string{path}, sink)
	if !errors.Is(err, archive.ErrMissingArticles) {
		t.Fatalf("Process error = %v, want %v", err, archive.ErrMissingArticles)
	}

	if len(sink.records) != 1 {
		t.Errorf("Expected 1 record before abort, got %d", len(sink.records))
	}

	if stats.Total.Accepted != 1 {
		t.Errorf("Expected partial stats, got %+v", stats.Total)
	}
}

func TestPipeline_Process_MissingArticlesSkipped(t *testing.T) {
	inputDir := t.TempDir()
	path := archivetest.WriteZip(t, filepath.Join(inputDir, "src.zip"),
		archivetest.File("src/good/articles/1.json", `{"keyword":["k"],"0":{"para":["p"]}}`),
		archivetest.File("src/bad/docs/1.json", `{}`),
		archivetest.File("src/later/articles/1.json", `{"keyword":["k"],"0":{"para":["q"]}}`),
	)

	var buf bytes.Buffer
	cfg := testConfig(t, inputDir)
	cfg.Extraction.OnMissingArticles = config.OnMissingSkip
	sink := &mockSink{}

	stats, err := New(cfg, testLogger(&buf)).Process(context.Background(), []string{path}, sink)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if len(sink.records) != 2 {
		t.Errorf("Expected 2 records, got %d", len(sink.records))
	}

	if stats.Total.SkippedDirs != 1 || stats.Total.SourceDirs != 3 {
		t.Errorf("Unexpected stats: %+v", stats.Total)
	}

	if !strings.Contains(buf.String(), "Skipping source directory without articles") {
		t.Errorf("expected skip warning, got: %s", buf.String())
	}
}

func TestPipeline_Process_MissingSourceRoot(t *testing.T) {
	inputDir := t.TempDir()
	path := archivetest.WriteZip(t, filepath.Join(inputDir, "renamed.zip"),
		archivetest.File("src/g/articles/1.json", `{}`),
	)

	var buf bytes.Buffer

	_, err := New(testConfig(t, inputDir), testLogger(&buf)).Process(context.Background(), []string{path}, &mockSink{})
	if !errors.Is(err, archive.ErrMissingSourceRoot) {
		t.Errorf("Process error = %v, want %v", err, archive.ErrMissingSourceRoot)
	}
}

func TestPipeline_Process_CountsInvalid(t *testing.T) {
	inputDir := t.TempDir()
	path := archivetest.WriteZip(t, filepath.Join(inputDir, "src.zip"),
		archivetest.File("src/g/articles/1.json", `{"keyword": ["k"], "0": {"para": [`),
		archivetest.File("src/g/articles/2.json", `[]`),
		archivetest.File("src/g/articles/3.json", `{"keyword":["k"]}`),
	)

	var buf bytes.Buffer

	stats, err := New(testConfig(t, inputDir), testLogger(&buf)).Process(context.Background(), []string{path}, &mockSink{})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if stats.Total.Invalid != 2 || stats.Total.Filtered != 1 || stats.Total.Accepted != 0 {
		t.Errorf("Unexpected stats: %+v", stats.Total)
	}

	if !strings.Contains(buf.String(), "Discarding invalid article") {
		t.Errorf("expected debug log for invalid article, got: %s", buf.String())
	}
}

func TestPipeline_Process_SinkError(t *testing.T) {
	inputDir := t.TempDir()
	writeScenarioArchive(t, inputDir)

	var buf bytes.Buffer
	sinkErr := errors.New("disk full")

	_, err := New(testConfig(t, inputDir), testLogger(&buf)).
		Process(context.Background(), []string{filepath.Join(inputDir, "src.zip")}, &mockSink{err: sinkErr})
	if !errors.Is(err, sinkErr) {
		t.Errorf("Process error = %v, want %v", err, sinkErr)
	}
}

func TestPipeline_Process_Cancelled(t *testing.T) {
	inputDir := t.TempDir()
	writeScenarioArchive(t, inputDir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer

	_, err := New(testConfig(t, inputDir), testLogger(&buf)).
		Process(ctx, []string{filepath.Join(inputDir, "src.zip")}, &mockSink{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Process error = %v, want %v", err, context.Canceled)
	}
}

func TestPipeline_Run_MissingInputDir(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig(t, filepath.Join(t.TempDir(), "missing"))

	_, err := New(cfg, testLogger(&buf)).Run(context.Background())
	if !errors.Is(err, archive.ErrInputDir) {
		t.Errorf("Run error = %v, want %v", err, archive.ErrInputDir)
	}

	if _, statErr := os.Stat(cfg.Output.Path); !errors.Is(statErr, os.ErrNotExist) {
		t.Error("Expected no output file when the input directory is missing")
	}
}

func TestPipeline_Run_NoArchives(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig(t, t.TempDir())

	stats, err := New(cfg, testLogger(&buf)).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if stats.Written != 0 {
		t.Errorf("Written = %d, want 0", stats.Written)
	}

	info, err := os.Stat(cfg.Output.Path)
	if err != nil {
		t.Fatalf("Expected empty output file: %v", err)
	}

	if info.Size() != 0 {
		t.Errorf("output size = %d, want 0", info.Size())
	}
}

func TestSummary(t *testing.T) {
	stats := &models.RunStats{Written: 3}
	stats.AddArchive(models.ArchiveStats{Source: "src", Accepted: 3})

	out := Summary(stats)
	if !strings.Contains(out, "| src ") || !strings.Contains(out, "Records written: 3") {
		t.Errorf("Summary missing content:\n%s", out)
	}
}

func TestProcessMemory(t *testing.T) {
	rss, err := ProcessMemory()
	if err != nil {
		t.Skipf("process memory unavailable on this platform: %v", err)
	}

	if rss == 0 {
		t.Error("Expected non-zero resident memory")
	}
}
