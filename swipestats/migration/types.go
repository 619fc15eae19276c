package migration

import "time"

// Entities in the order they are reported.
const (
	EntityUsers         = "users"
	EntityProfiles      = "profiles"
	EntityJobs          = "jobs"
	EntitySchools       = "schools"
	EntityMatches       = "matches"
	EntityMessages      = "messages"
	EntityMedia         = "media"
	EntityUsageDays     = "usage_days"
	EntityPurchases     = "purchases"
	EntityOriginalFiles = "original_files"
)

// MigrationStats is the run summary, also written as the JSON report.
type MigrationStats struct {
	Tables       map[string]*TableStats `json:"tables"`
	Order        []string               `json:"order"`
	StartTime    time.Time              `json:"start_time"`
	EndTime      time.Time              `json:"end_time"`
	DryRun       bool                   `json:"dry_run"`
	Profiles     int                    `json:"profiles_selected"`
	ProfilesFrom *time.Time             `json:"profiles_from,omitempty"`
	ProfilesTo   *time.Time             `json:"profiles_to,omitempty"`
	TotalRecords int64                  `json:"total_records"`
	FailedStage  string                 `json:"failed_stage,omitempty"`
	Error        string                 `json:"error,omitempty"`

	// ProfileIDs are the profiles copied by this run.
	ProfileIDs []string `json:"-"`
}

// TableStats tracks stats for one entity stage
type TableStats struct {
	Entity         string          `json:"entity"`
	Source         int             `json:"source"`
	Transformed    int             `json:"transformed"`
	Written        int64           `json:"written"`
	Skipped        int             `json:"skipped"`
	NotMigrated    int             `json:"not_migrated"`
	Uploaded       int             `json:"uploaded"`
	Took           time.Duration   `json:"took"`
	SkippedRecords []SkippedRecord `json:"skipped_records,omitempty"`
}

// SkippedRecord tracks why a record was skipped
type SkippedRecord struct {
	Key    string `json:"key"`
	Reason string `json:"reason"`
}

func newMigrationStats(start time.Time, dryRun bool) *MigrationStats {
	return &MigrationStats{
		Tables:    make(map[string]*TableStats),
		StartTime: start,
		DryRun:    dryRun,
	}
}

func (s *MigrationStats) table(entity string) *TableStats {
	t, ok := s.Tables[entity]
	if !ok {
		t = &TableStats{Entity: entity}
		s.Tables[entity] = t
		s.Order = append(s.Order, entity)
	}
	return t
}

// maxSkippedRecords caps the per-table detail kept for the report.
const maxSkippedRecords = 100

func (t *TableStats) skip(key, reason string) {
	t.Skipped++
	if len(t.SkippedRecords) < maxSkippedRecords {
		t.SkippedRecords = append(t.SkippedRecords, SkippedRecord{Key: key, Reason: reason})
	}
}

func (t *TableStats) notMigrated(key, reason string) {
	t.NotMigrated++
	if len(t.SkippedRecords) < maxSkippedRecords {
		t.SkippedRecords = append(t.SkippedRecords, SkippedRecord{Key: key, Reason: reason})
	}
}
