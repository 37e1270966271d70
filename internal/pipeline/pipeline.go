// Package pipeline runs the archive -> article -> record -> dataset flow.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"m3lsprep/internal/archive"
	"m3lsprep/internal/config"
	"m3lsprep/internal/dataset"
	"m3lsprep/internal/logger"
	"m3lsprep/internal/models"
	"m3lsprep/internal/normalizer"
	"m3lsprep/pkg/utils"
)

const previewWidth = 80

// RecordSink receives accepted records in pipeline order.
type RecordSink interface {
	Write(rec models.Record) error
}

// Pipeline walks every archive of the input directory sequentially.
type Pipeline struct {
	cfg       *config.Config
	log       *logger.Logger
	processor *normalizer.Processor
	seen      int
}

// New creates a pipeline for cfg.
func New(cfg *config.Config, log *logger.Logger) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		log:       log,
		processor: normalizer.NewProcessor(normalizer.Options{CleanHTML: cfg.Extraction.CleanHTML}),
	}
}

// Run enumerates the configured input directory and writes every accepted
// record to the configured output file. On error the partial output is left on
// disk and the statistics collected so far are returned with the error.
func (p *Pipeline) Run(ctx context.Context) (stats *models.RunStats, err error) {
	paths, err := archive.Enumerate(p.cfg.Input.Dir)
	if err != nil {
		return &models.RunStats{StartedAt: time.Now()}, err
	}

	p.log.Info("Found archives", "dir", p.cfg.Input.Dir, "count", len(paths))

	w, err := dataset.Create(p.cfg.Output.Path, dataset.Options{CreateBackup: p.cfg.Output.CreateBackup})
	if err != nil {
		return &models.RunStats{StartedAt: time.Now()}, err
	}

	defer func() {
		if closeErr := w.Close(); closeErr != nil && err == nil {
			err = closeErr
		}

		stats.Written = w.Count()
	}()

	return p.Process(ctx, paths, w)
}

// Process walks the given archives in order and sends accepted records to sink.
func (p *Pipeline) Process(ctx context.Context, paths []string, sink RecordSink) (*models.RunStats, error) {
	stats := &models.RunStats{StartedAt: time.Now()}
	defer func() { stats.FinishedAt = time.Now() }()

	for i, path := range paths {
		p.log.Info("Processing archive", "archive", path, "index", i+1, "total", len(paths))

		s, err := p.processArchive(ctx, path, sink)
		stats.AddArchive(s)

		if err != nil {
			return stats, err
		}
	}

	return stats, nil
}

func (p *Pipeline) processArchive(ctx context.Context, path string, sink RecordSink) (models.ArchiveStats, error) {
	s := models.ArchiveStats{Archive: path, Source: archive.SourceName(path)}

	a, err := archive.Open(path)
	if err != nil {
		return s, err
	}
	defer a.Close()

	dirs, err := a.SourceDirs()
	if err != nil {
		return s, err
	}

	log := p.log.With("source", a.Source())

	for _, dir := range dirs {
		s.SourceDirs++

		if err := p.processSourceDir(ctx, a, dir, sink, &s, log); err != nil {
			return s, err
		}
	}

	log.Info("Archive done", "sourceDirs", s.SourceDirs, "articles", s.Articles,
		"accepted", s.Accepted, "filtered", s.Filtered, "invalid", s.Invalid, "skippedDirs", s.SkippedDirs)

	return s, nil
}

func (p *Pipeline) processSourceDir(
	ctx context.Context,
	a *archive.Archive,
	dir string,
	sink RecordSink,
	s *models.ArchiveStats,
	log *logger.Logger,
) error {
	files, err := a.ArticleFiles(dir)
	if err != nil {
		if errors.Is(err, archive.ErrMissingArticles) && p.cfg.SkipMissingArticles() {
			s.SkippedDirs++
			log.Warn("Skipping source directory without articles", "dir", dir)

			return nil
		}

		return err
	}

	log.Debug("Streaming articles", "dir", dir, "count", len(files))

	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("interrupted in %s: %w", dir, err)
		}

		text, err := a.ReadArticle(name)
		if err != nil {
			return err
		}

		s.Articles++

		res := p.processor.Process(text)

		switch res.Status {
		case normalizer.Accepted:
			if err := sink.Write(res.Record); err != nil {
				return fmt.Errorf("failed to write record from %s: %w", name, err)
			}

			s.Accepted++
		case normalizer.Filtered:
			s.Filtered++
		case normalizer.Invalid:
			s.Invalid++
			log.Debug("Discarding invalid article", "file", name, "reason", res.Reason,
				"preview", utils.Preview(text, previewWidth))
		}

		p.progress(log)
	}

	if p.cfg.Logging.ShowProgress {
		log.Info("Source directory done", "dir", dir, "articles", len(files))
	}

	return nil
}

func (p *Pipeline) progress(log *logger.Logger) {
	p.seen++

	every := p.cfg.Logging.ProgressEvery
	if !p.cfg.Logging.ShowProgress || every == 0 || p.seen%every != 0 {
		return
	}

	log.Info("Progress", "articles", p.seen)
}
