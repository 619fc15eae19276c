package config

import "time"

// Database and Performance Constants
const (
	// Timeouts
	DefaultQueryTimeout = 30 * time.Second
	BatchQueryTimeout   = 2 * time.Minute
	StatsQueryTimeout   = 1 * time.Minute
	NetworkDialTimeout  = 5 * time.Second
	UploadTimeout       = 2 * time.Minute

	// Connection retries
	MaxRetries    = 3
	RetryInterval = time.Second

	// Batch processing
	DefaultBatchSize      = 500
	DefaultQueryBatchSize = 500
	MaxBatchSize          = 10000

	// Cache settings
	ProfileLookupCacheSize = 10000
)

// Statistics Constants
const (
	// MinCohortSample is the smallest population a cohort/period snapshot is published for.
	MinCohortSample = 5

	// AllTimePeriod identifies the unbounded statistics period.
	AllTimePeriod = "all-time"

	// CohortSeedVersion is bumped whenever the seeded cohort list changes.
	CohortSeedVersion = 2
)

// DefaultStatYears are the calendar years cohort statistics are computed for.
var DefaultStatYears = []int{2019, 2020, 2021, 2022, 2023, 2024, 2025}

// Percentiles computed for every metric, in ascending order.
var Percentiles = []float64{0.10, 0.25, 0.50, 0.75, 0.90}

// Object store
const (
	OriginalFilesPrefix = "original-files"
	JSONContentType     = "application/json"
)
