package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/swipestats/migrator/swipestats"
	"github.com/swipestats/migrator/swipestats/logger"
)

// ErrRecordsFailed is returned when the run finished but some profiles could
// not be processed.
var ErrRecordsFailed = errors.New("some records failed")

var (
	configPath string
	cfg        *swipestats.Config
)

var rootCmd = &cobra.Command{
	Use:           "swipestats-migrate",
	Short:         "Copy legacy SwipeStats data and compute derived statistics",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := swipestats.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		logger.Setup(cfg.Log.Level, cfg.Log.Format, cfg.Log.AddSource)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to an optional TOML config file")
	addRunFlags(rootCmd)
}

// Execute runs the command tree and logs the final error, if any.
func Execute(ctx context.Context, version string) error {
	rootCmd.Version = version
	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, ErrRecordsFailed) {
		slog.Error("Command failed", slog.String("type", "error"), slog.Any("error", err))
	}
	return err
}

func connectError(what string, err error) error {
	return fmt.Errorf("failed to connect to %s: %w", what, err)
}
