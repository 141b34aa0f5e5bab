package nutri

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saadjs/nutri/internal/service"
)

var (
	recommendDate string
	recommendJSON bool
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Suggest meals that fit what is left of a day's goals",
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := parseDateOrToday("date", recommendDate)
		if err != nil {
			return err
		}
		return withEngine(func(_ *sql.DB, engine *service.Engine) error {
			recs, err := engine.Recommendations(target)
			if err != nil {
				return err
			}
			if recommendJSON {
				return writeJSON(cmd.OutOrStdout(), recs)
			}
			out := cmd.OutOrStdout()
			if len(recs) == 0 {
				fmt.Fprintln(out, mutedStyle.Render("No suggestions; you are on track."))
				return nil
			}
			for _, r := range recs {
				fmt.Fprintf(out, "%s (%s)\n", headerStyle.Render(r.Title), r.MealType)
				fmt.Fprintf(out, "  %s\n", r.Description)
				fmt.Fprintf(out, "  %.0f kcal | C %.0fg | P %.0fg | F %.0fg\n", r.Nutrients.Calories, r.Nutrients.CarbsG, r.Nutrients.ProteinG, r.Nutrients.FatG)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(recommendCmd)
	recommendCmd.Flags().StringVar(&recommendDate, "date", "", "Date YYYY-MM-DD (default today)")
	recommendCmd.Flags().BoolVar(&recommendJSON, "json", false, "Print suggestions as JSON")
}
