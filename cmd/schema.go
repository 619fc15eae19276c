package cmd

import (
	"github.com/spf13/cobra"
	"github.com/swipestats/migrator/swipestats/database"
	"github.com/swipestats/migrator/swipestats/logger"
)

var schemaCMD = &cobra.Command{
	Use:   "schema",
	Short: "Create the target tables and indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		db, err := database.New(ctx, cfg.Target)
		if err != nil {
			return connectError("target database", err)
		}
		defer db.Close()

		if err := db.InitializeSchema(ctx); err != nil {
			return err
		}
		logger.LogSystem("Schema ready")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCMD)
}
