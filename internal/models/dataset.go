// Package models defines the records and statistics produced by the dataset generator.
package models

import "time"

// Record is one line of the keyword dataset.
type Record struct {
	Content  string   `json:"content"`
	Keywords []string `json:"keywords"`
}

// ArchiveStats holds the counters collected while walking a single archive.
type ArchiveStats struct {
	Archive     string `json:"archive"`
	Source      string `json:"source"`
	SourceDirs  int    `json:"sourceDirs"`
	SkippedDirs int    `json:"skippedDirs"`
	Articles    int    `json:"articles"`
	Accepted    int    `json:"accepted"`
	Filtered    int    `json:"filtered"`
	Invalid     int    `json:"invalid"`
}

// Add folds another archive's counters into s. Names are left untouched.
func (s *ArchiveStats) Add(other ArchiveStats) {
	s.SourceDirs += other.SourceDirs
	s.SkippedDirs += other.SkippedDirs
	s.Articles += other.Articles
	s.Accepted += other.Accepted
	s.Filtered += other.Filtered
	s.Invalid += other.Invalid
}

// RunStats summarizes a complete generator run.
type RunStats struct {
	StartedAt  time.Time      `json:"startedAt"`
	FinishedAt time.Time      `json:"finishedAt"`
	Archives   []ArchiveStats `json:"archives"`
	Total      ArchiveStats   `json:"total"`
	Written    int            `json:"written"`
}

// Duration returns the wall-clock time of the run.
func (r *RunStats) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}

	return r.FinishedAt.Sub(r.StartedAt)
}

// AddArchive appends per-archive counters and updates the totals.
func (r *RunStats) AddArchive(s ArchiveStats) {
	r.Archives = append(r.Archives, s)
	r.Total.Add(s)
}
