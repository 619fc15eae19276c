package migration

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/swipestats/migrator/swipestats/logger"
)

// SummaryTable renders the per-entity counters as a fixed width table.
func (s *MigrationStats) SummaryTable() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-16s %10s %12s %10s %10s %13s %9s\n",
		"entity", "source", "transformed", "written", "skipped", "not_migrated", "uploaded")
	for _, name := range s.Order {
		t := s.Tables[name]
		fmt.Fprintf(&b, "%-16s %10d %12d %10d %10d %13d %9d\n",
			t.Entity, t.Source, t.Transformed, t.Written, t.Skipped, t.NotMigrated, t.Uploaded)
	}
	fmt.Fprintf(&b, "%-16s %10s %12s %10d", "total", "", "", s.TotalRecords)
	return b.String()
}

func (m *Migrator) logSummary() {
	s := m.stats
	attrs := []any{
		slog.Duration("took", s.EndTime.Sub(s.StartTime).Round(time.Millisecond)),
		slog.Int("profiles", s.Profiles),
		slog.Int64("total_records", s.TotalRecords),
		slog.Bool("dry_run", s.DryRun),
	}
	if s.ProfilesFrom != nil && s.ProfilesTo != nil {
		attrs = append(attrs,
			slog.String("profiles_from", s.ProfilesFrom.Format(time.DateOnly)),
			slog.String("profiles_to", s.ProfilesTo.Format(time.DateOnly)))
	}
	if s.FailedStage != "" {
		attrs = append(attrs, slog.String("failed_stage", s.FailedStage))
	}

	logger.LogSystem("Migration summary", attrs...)
	for _, line := range strings.Split(s.SummaryTable(), "\n") {
		logger.LogSystem(line)
	}
}

// writeReport stores the stats as migration_report_<timestamp>.json in dir.
func (m *Migrator) writeReport(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report dir: %w", err)
	}

	reportFile := filepath.Join(dir, fmt.Sprintf("migration_report_%s.json", m.stats.StartTime.Format("20060102_150405")))
	file, err := os.Create(reportFile)
	if err != nil {
		return "", fmt.Errorf("failed to create migration report file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(m.stats); err != nil {
		return "", fmt.Errorf("failed to write migration report: %w", err)
	}

	logger.LogSystem("Migration report generated", slog.String("file", reportFile))
	return reportFile, nil
}
