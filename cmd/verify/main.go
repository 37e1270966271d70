// Package main provides the verify command, which checks a generated dataset against its manifest.
package main

import (
	"flag"
	"fmt"
	"os"

	"m3lsprep/internal/config"
	"m3lsprep/pkg/metadata"
)

func main() {
	datasetPath := flag.String("dataset", config.DefaultOutputPath, "Path to the generated JSON Lines dataset")
	manifestPath := flag.String("manifest", "", "Path to the manifest (default: <dataset>"+metadata.ManifestSuffix+")")
	flag.Parse()

	if *manifestPath == "" {
		*manifestPath = metadata.PathFor(*datasetPath)
	}

	fmt.Printf("📂 Reading manifest: %s\n", *manifestPath)

	m, err := metadata.Verify(*manifestPath)
	if err != nil {
		fmt.Printf("❌ Verification failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ %s matches manifest\n", m.Dataset)
	fmt.Printf("Run ID: %s\n", m.RunID)
	fmt.Printf("Generated: %s\n", m.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("Records: %d (%d bytes)\n", m.Records, m.Size)
	fmt.Printf("Archives: %d, articles: %d, filtered: %d, invalid: %d\n",
		len(m.Archives), m.Total.Articles, m.Total.Filtered, m.Total.Invalid)
}
