// Package main provides the normalizer command-line tool for checking how single
// article files would be turned into dataset records.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"m3lsprep/internal/normalizer"
)

func main() {
	inputPath := flag.String("input", "", "Path to an article JSON file")
	outputPath := flag.String("output", "", "Path to write the record as JSON (optional)")
	cleanHTML := flag.Bool("clean-html", false, "Strip markup from paragraphs")
	flag.Parse()

	if *inputPath == "" {
		fmt.Println("Usage: normalizer -input <article.json> [-output <record.json>]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	content, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatalf("Error reading file: %v\n", err)
	}

	fmt.Printf("📂 Reading: %s (%d bytes)\n", *inputPath, len(content))

	processor := normalizer.NewProcessor(normalizer.Options{CleanHTML: *cleanHTML})
	res := processor.Process(string(content))

	fmt.Printf("🔍 Result: %s\n", res.Status)

	if res.Status != normalizer.Accepted {
		fmt.Printf("⚠️  No record: %v\n", res.Reason)
		os.Exit(2)
	}

	fmt.Printf("📊 Keywords: %d, paragraphs: %d, content: %d bytes\n",
		len(res.Record.Keywords), countLines(res.Record.Content), len(res.Record.Content))

	jsonData, err := json.MarshalIndent(res.Record, "", "  ")
	if err != nil {
		log.Fatalf("Error marshaling JSON: %v\n", err)
	}

	if *outputPath == "" {
		fmt.Println(string(jsonData))
		return
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(*outputPath), 0755); mkdirErr != nil {
		log.Fatalf("Error creating directory: %v\n", mkdirErr)
	}

	if err := os.WriteFile(*outputPath, jsonData, 0644); err != nil {
		log.Fatalf("Error writing file: %v\n", err)
	}

	fmt.Printf("✅ Saved to: %s\n", *outputPath)
}

// countLines counts newline-separated paragraphs.
func countLines(s string) int {
	if s == "" {
		return 0
	}

	n := 1

	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
		}
	}

	return n
}
