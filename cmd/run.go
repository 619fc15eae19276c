package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/swipestats/migrator/swipestats/logger"
	"github.com/swipestats/migrator/swipestats/pipeline"
)

var runFlags struct {
	limit           int
	metadataLimit   int
	dryRun          bool
	force           bool
	statsOnly       bool
	useCopy         bool
	uploadOriginals bool
	reportDir       string
	years           []int
}

var runCMD = &cobra.Command{
	Use:   "run",
	Short: "Copy entities, then compute profile metadata and cohort statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd)
	},
}

var statsCMD = &cobra.Command{
	Use:   "stats",
	Short: "Recompute profile metadata and cohort statistics without copying",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.Migration.StatsOnly = true
		return runPipeline(cmd)
	},
}

func init() {
	addRunFlags(runCMD)
	addRunFlags(statsCMD)
	rootCmd.AddCommand(runCMD, statsCMD)
}

func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&runFlags.limit, "limit", 0, "copy at most this many of the most recent profiles (0 = all)")
	f.IntVar(&runFlags.metadataLimit, "metadata-limit", 0, "cap on previously uncomputed profiles handled after the migrated ones (0 = all)")
	f.BoolVar(&runFlags.dryRun, "dry-run", false, "read and transform but log writes instead of performing them")
	f.BoolVar(&runFlags.force, "force", false, "recompute metadata for profiles that already have it")
	f.BoolVar(&runFlags.statsOnly, "stats-only", false, "skip the entity copy")
	f.BoolVar(&runFlags.useCopy, "use-copy", false, "load usage days through COPY")
	f.BoolVar(&runFlags.uploadOriginals, "upload-originals", false, "upload original files to the object store")
	f.StringVar(&runFlags.reportDir, "report-dir", "", "directory for the JSON migration report")
	f.IntSliceVar(&runFlags.years, "years", nil, "calendar years to compute cohort statistics for")
}

// applyRunFlags lets explicitly set flags win over file and environment.
func applyRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	if f.Changed("limit") {
		cfg.Migration.Limit = runFlags.limit
	}
	if f.Changed("metadata-limit") {
		cfg.Migration.MetadataLimit = runFlags.metadataLimit
	}
	if f.Changed("dry-run") {
		cfg.Migration.DryRun = runFlags.dryRun
	}
	if f.Changed("force") {
		cfg.Migration.Force = runFlags.force
	}
	if f.Changed("stats-only") {
		cfg.Migration.StatsOnly = runFlags.statsOnly
	}
	if f.Changed("use-copy") {
		cfg.Migration.UseCopy = runFlags.useCopy
	}
	if f.Changed("upload-originals") {
		cfg.Migration.UploadOriginals = runFlags.uploadOriginals
	}
	if f.Changed("report-dir") {
		cfg.Migration.ReportDir = runFlags.reportDir
	}
	if f.Changed("years") {
		cfg.Stats.Years = runFlags.years
	}
}

func runPipeline(cmd *cobra.Command) error {
	ctx := cmd.Context()
	applyRunFlags(cmd)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	p, cleanup, err := pipeline.Setup(ctx, cfg)
	defer cleanup()
	if err != nil {
		return err
	}

	res, err := p.Run(ctx)
	if err != nil {
		return err
	}
	if res.Failed() {
		logger.LogWarn("Pipeline finished with failures",
			slog.Int("metadata_failed", res.Metadata.Failed),
			slog.Any("profiles", res.Metadata.Failures))
		return fmt.Errorf("%w: %d profile metadata computations", ErrRecordsFailed, res.Metadata.Failed)
	}
	return nil
}
