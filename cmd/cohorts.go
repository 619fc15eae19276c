package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/swipestats/migrator/internal/domain/cohorts"
	"github.com/swipestats/migrator/internal/gateways/database/repositories"
	"github.com/swipestats/migrator/swipestats/database"
	"github.com/swipestats/migrator/swipestats/database/models"
)

var cohortsFind string

var cohortsCMD = &cobra.Command{
	Use:   "cohorts",
	Short: "List cohort definitions and their cached profile counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		db, err := database.New(ctx, cfg.Target)
		if err != nil {
			return connectError("target database", err)
		}
		defer db.Close()

		defs, err := repositories.NewCohortRepository(db.BunDB()).Definitions(ctx)
		if err != nil {
			return err
		}
		if len(defs) == 0 {
			// not seeded yet
			defs = cohorts.Definitions()
		}

		defs = cohorts.Find(defs, cohortsFind)
		if len(defs) == 0 {
			return fmt.Errorf("no cohort matches %q", cohortsFind)
		}
		return printCohorts(defs)
	},
}

func init() {
	cohortsCMD.Flags().StringVar(&cohortsFind, "find", "", "fuzzy match cohorts by id or name")
	rootCmd.AddCommand(cohortsCMD)
}

func printCohorts(defs []*models.CohortDefinition) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPROFILES\tLAST COMPUTED")
	for _, d := range defs {
		last := "never"
		if d.LastComputedAt != nil {
			last = d.LastComputedAt.Format(time.DateTime)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", d.ID, d.Name, d.ProfileCount, last)
	}
	return w.Flush()
}
