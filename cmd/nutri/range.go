package nutri

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saadjs/nutri/internal/service"
)

var (
	rangeFrom string
	rangeTo   string
	rangeJSON bool
)

var rangeCmd = &cobra.Command{
	Use:   "range",
	Short: "Total and average intake over a date range",
	RunE: func(cmd *cobra.Command, args []string) error {
		if rangeFrom == "" || rangeTo == "" {
			return fmt.Errorf("--from and --to are required")
		}
		from, err := parseDateOrToday("from", rangeFrom)
		if err != nil {
			return err
		}
		to, err := parseDateOrToday("to", rangeTo)
		if err != nil {
			return err
		}
		return withEngine(func(_ *sql.DB, engine *service.Engine) error {
			r, err := engine.RangeTotals(from, to)
			if err != nil {
				return err
			}
			if rangeJSON {
				return writeJSON(cmd.OutOrStdout(), r)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Range: %s to %s (%d day divisor)\n", rangeFrom, rangeTo, r.Days)
			fmt.Fprintf(out, "Total: %.0f kcal | C %.1fg | P %.1fg | F %.1fg\n", r.Totals.Calories, r.Totals.CarbsG, r.Totals.ProteinG, r.Totals.FatG)
			fmt.Fprintf(out, "Average: %.0f kcal | C %.1fg | P %.1fg | F %.1fg\n", r.Averages.Calories, r.Averages.CarbsG, r.Averages.ProteinG, r.Averages.FatG)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(rangeCmd)
	rangeCmd.Flags().StringVar(&rangeFrom, "from", "", "Start date YYYY-MM-DD")
	rangeCmd.Flags().StringVar(&rangeTo, "to", "", "End date YYYY-MM-DD")
	rangeCmd.Flags().BoolVar(&rangeJSON, "json", false, "Print totals as JSON")
}
