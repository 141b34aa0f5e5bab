package nutri

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saadjs/nutri/internal/logger"
	"github.com/saadjs/nutri/internal/store"
)

var doctorFix bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check stored meal totals against their food entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			meals := store.NewMeals(sqldb)
			report, err := meals.CheckMealTotals(doctorFix)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Meals checked: %d\n", report.MealsChecked)
			fmt.Fprintf(out, "Meals with stale totals: %d\n", len(report.MismatchedMeals))
			for _, id := range report.MismatchedMeals {
				fmt.Fprintln(out, warningStyle.Render(fmt.Sprintf("  meal %d", id)))
			}
			fmt.Fprintf(out, "Orphaned entries: %d\n", report.OrphanedEntries)
			if doctorFix {
				fmt.Fprintf(out, "Fixed meals: %d\n", report.FixedMeals)
				// Re-check so the exit status reflects the final state.
				if report, err = meals.CheckMealTotals(false); err != nil {
					return err
				}
			}
			if len(report.MismatchedMeals) > 0 || report.OrphanedEntries > 0 {
				logger.Warn("doctor found integrity issues", "meals", len(report.MismatchedMeals), "orphans", report.OrphanedEntries)
				return fmt.Errorf("doctor found integrity issues (run with --fix)")
			}
			fmt.Fprintln(out, "No issues found")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Recompute stale meal totals and drop orphaned entries")
}
