// Package main provides the generate command, which flattens zipped article
// archives into a keyword JSON Lines dataset.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"m3lsprep/internal/config"
	"m3lsprep/internal/logger"
	"m3lsprep/internal/models"
	"m3lsprep/internal/pipeline"
	"m3lsprep/pkg/metadata"
)

const defaultConfigPath = "configs/generate.yaml"

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "Path to YAML config (default: "+defaultConfigPath+" if present)")
	inputDir := flag.String("input", "", "Directory containing the *.zip archives")
	outputPath := flag.String("output", "", "Path of the JSON Lines dataset to write")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	skipMissing := flag.Bool("skip-missing-articles", false, "Skip source directories without an articles directory instead of aborting")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		return 1
	}

	// Flags override the file
	if *inputDir != "" {
		cfg.Input.Dir = *inputDir
	}

	if *outputPath != "" {
		cfg.Output.Path = *outputPath
	}

	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	if *skipMissing {
		cfg.Extraction.OnMissingArticles = config.OnMissingSkip
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Invalid configuration: %v\n", err)
		flag.PrintDefaults()

		return 1
	}

	log, closeLog, err := logger.NewFileLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		return 1
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("🚀 Starting dataset generation", "input", cfg.Input.Dir, "output", cfg.Output.Path,
		"onMissingArticles", cfg.Extraction.OnMissingArticles)

	stats, err := pipeline.New(cfg, log).Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Error("❌ Interrupted; output is incomplete, re-run from scratch", "output", cfg.Output.Path)
		} else {
			log.Error(fmt.Sprintf("❌ Generation failed: %v", err), "output", cfg.Output.Path)
		}

		return 1
	}

	if cfg.Output.Manifest {
		if err := writeManifest(cfg, stats, log); err != nil {
			log.Error(fmt.Sprintf("❌ Manifest failed: %v", err))
			return 1
		}
	}

	if rss, err := pipeline.ProcessMemory(); err == nil {
		log.Debug("Process memory", "rssBytes", rss)
	}

	log.Info("✨ Generation complete!")
	fmt.Println("\n------------------------------------------------")
	fmt.Println("📊 Summary Report")
	fmt.Println("------------------------------------------------")
	fmt.Print(pipeline.Summary(stats))
	fmt.Printf("Output: %s\n", cfg.Output.Path)
	fmt.Println("------------------------------------------------")

	return 0
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadConfig(path)
	}

	if _, err := os.Stat(defaultConfigPath); err == nil {
		return config.LoadConfig(defaultConfigPath)
	}

	return config.Default(), nil
}

func writeManifest(cfg *config.Config, stats *models.RunStats, log *logger.Logger) error {
	m, err := metadata.Sign(cfg.Output.Path, stats)
	if err != nil {
		return err
	}

	if err := m.Write(cfg.ManifestPath()); err != nil {
		return err
	}

	log.Info("✍️  Manifest written", "path", cfg.ManifestPath(), "runId", m.RunID, "records", m.Records)

	return nil
}
