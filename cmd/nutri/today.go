package nutri

import (
	"database/sql"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/saadjs/nutri/internal/model"
	"github.com/saadjs/nutri/internal/service"
)

var (
	todayDate string
	todayJSON bool
)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show a day's intake against your goals",
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := parseDateOrToday("date", todayDate)
		if err != nil {
			return err
		}
		return withEngine(func(_ *sql.DB, engine *service.Engine) error {
			s, err := engine.DailySummary(target)
			if err != nil {
				return err
			}
			if todayJSON {
				return writeJSON(cmd.OutOrStdout(), s)
			}
			printDailySummary(cmd.OutOrStdout(), s)
			return nil
		})
	},
}

func printDailySummary(w io.Writer, s *model.NutritionSummary) {
	fmt.Fprintln(w, headerStyle.Render("Date: "+s.Date))
	printProgress(w, "Calories", s.TotalCalories, s.GoalCalories, s.RemainingCalories, s.CaloriesPct, "kcal")
	printProgress(w, "Carbs", s.TotalCarbsG, s.GoalCarbsG, s.RemainingCarbsG, s.CarbsPct, "g")
	printProgress(w, "Protein", s.TotalProteinG, s.GoalProteinG, s.RemainingProteinG, s.ProteinPct, "g")
	printProgress(w, "Fat", s.TotalFatG, s.GoalFatG, s.RemainingFatG, s.FatPct, "g")
	d := s.MacroDistribution
	fmt.Fprintf(w, "Macro split: C %.0f%% | P %.0f%% | F %.0f%%\n", d.CarbsPct*100, d.ProteinPct*100, d.FatPct*100)

	logged := 0
	for _, t := range model.MealTypes() {
		for _, m := range s.MealsByType[t] {
			if logged == 0 {
				fmt.Fprintln(w, "Meals:")
			}
			logged++
			fmt.Fprintf(w, "  %-9s #%d %s %s (%.0f kcal)\n", t, m.ID, m.ConsumedAt.Format("15:04"), m.Name, m.Totals.Calories)
		}
	}
	if logged == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No meals logged"))
	}
}

func printProgress(w io.Writer, label string, total, goal, remaining, pct float64, unit string) {
	fmt.Fprintf(w, "%-8s %s %3.0f%%  %.0f / %.0f %s (%.0f left)\n", label, progressBar(pct), pct*100, total, goal, unit, remaining)
}

func init() {
	rootCmd.AddCommand(todayCmd)
	todayCmd.Flags().StringVar(&todayDate, "date", "", "Date YYYY-MM-DD (default today)")
	todayCmd.Flags().BoolVar(&todayJSON, "json", false, "Print the summary as JSON")
}
