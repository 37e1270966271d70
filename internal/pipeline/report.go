package pipeline

import (
	"fmt"
	"os"
	"time"

	"m3lsprep/internal/formatter"
	"m3lsprep/internal/models"

	"github.com/shirou/gopsutil/v3/process"
)

// ProcessMemory returns the resident set size of the current process in bytes.
func ProcessMemory() (uint64, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0, fmt.Errorf("failed to inspect process: %w", err)
	}

	mem, err := proc.MemoryInfo()
	if err != nil {
		return 0, fmt.Errorf("failed to read memory info: %w", err)
	}

	return mem.RSS, nil
}

// Summary renders the end-of-run report: the per-archive table followed by totals.
func Summary(stats *models.RunStats) string {
	table := formatter.SummaryTable(stats).Render()

	return fmt.Sprintf("%s\n\nRecords written: %d\nDuration: %v\n",
		table, stats.Written, stats.Duration().Round(time.Millisecond))
}
