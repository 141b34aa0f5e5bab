package nutri

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/saadjs/nutri/internal/service"
)

var (
	weekEnd  string
	weekJSON bool
)

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Show the seven days ending on a date",
	RunE: func(cmd *cobra.Command, args []string) error {
		end, err := parseDateOrToday("end", weekEnd)
		if err != nil {
			return err
		}
		return withEngine(func(_ *sql.DB, engine *service.Engine) error {
			w, err := engine.WeeklySummary(end)
			if err != nil {
				return err
			}
			if weekJSON {
				return writeJSON(cmd.OutOrStdout(), w)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("Week: %s to %s", w.StartDate, w.EndDate)))
			printProgress(out, "Calories", w.Totals.Calories, w.GoalCalories, w.GoalCalories-w.Totals.Calories, w.CaloriesPct, "kcal")
			printProgress(out, "Carbs", w.Totals.CarbsG, w.GoalCarbsG, w.GoalCarbsG-w.Totals.CarbsG, w.CarbsPct, "g")
			printProgress(out, "Protein", w.Totals.ProteinG, w.GoalProteinG, w.GoalProteinG-w.Totals.ProteinG, w.ProteinPct, "g")
			printProgress(out, "Fat", w.Totals.FatG, w.GoalFatG, w.GoalFatG-w.Totals.FatG, w.FatPct, "g")
			fmt.Fprintf(out, "Daily average: %.0f kcal | C %.1fg | P %.1fg | F %.1fg\n",
				w.Averages.Calories, w.Averages.CarbsG, w.Averages.ProteinG, w.Averages.FatG)

			keys := make([]string, 0, len(w.Days))
			for k := range w.Days {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintln(out, "DATE\tKCAL\tGOAL%")
			for _, k := range keys {
				d := w.Days[k]
				fmt.Fprintf(out, "%s\t%.0f\t%.0f%%\n", k, d.TotalCalories, d.CaloriesPct*100)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(weekCmd)
	weekCmd.Flags().StringVar(&weekEnd, "end", "", "Last day of the week YYYY-MM-DD (default today)")
	weekCmd.Flags().BoolVar(&weekJSON, "json", false, "Print the summary as JSON")
}
