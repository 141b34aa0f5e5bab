package nutri

import (
	"database/sql"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/saadjs/nutri/internal/model"
	"github.com/saadjs/nutri/internal/store"
)

var mealCmd = &cobra.Command{
	Use:   "meal",
	Short: "Log and inspect meals",
}

var (
	mealName     string
	mealType     string
	mealDate     string
	mealTime     string
	mealCalories float64
	mealCarbs    float64
	mealProtein  float64
	mealFat      float64
	mealListDate string
	mealJSON     bool
)

var mealAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a meal, optionally with a single quick entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		typ, err := model.ParseMealType(mealType)
		if err != nil {
			return err
		}
		at, err := parseDateTimeOrNow(mealDate, mealTime)
		if err != nil {
			return err
		}
		m := model.MealRecord{Name: mealName, Type: typ, ConsumedAt: at}
		flags := cmd.Flags()
		if flags.Changed("calories") || flags.Changed("carbs") || flags.Changed("protein") || flags.Changed("fat") {
			m.Entries = []model.FoodEntry{{
				Name:       mealName,
				PerServing: model.Nutrients{Calories: mealCalories, CarbsG: mealCarbs, ProteinG: mealProtein, FatG: mealFat},
				Servings:   1,
			}}
		}
		return withDB(func(sqldb *sql.DB) error {
			id, err := store.NewMeals(sqldb).Create(m)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added meal %d\n", id)
			return nil
		})
	},
}

var mealListCmd = &cobra.Command{
	Use:   "list",
	Short: "List meals for a day",
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := parseDateOrToday("date", mealListDate)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			meals, err := store.NewMeals(sqldb).GetForDate(day)
			if err != nil {
				return err
			}
			if mealJSON {
				return writeJSON(cmd.OutOrStdout(), meals)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "ID\tTIME\tTYPE\tNAME\tKCAL\tC\tP\tF")
			for _, m := range meals {
				fmt.Fprintf(out, "%d\t%s\t%s\t%s\t%.0f\t%.1f\t%.1f\t%.1f\n",
					m.ID, m.ConsumedAt.Format("15:04"), m.Type, m.Name, m.Totals.Calories, m.Totals.CarbsG, m.Totals.ProteinG, m.Totals.FatG)
			}
			return nil
		})
	},
}

var mealShowCmd = &cobra.Command{
	Use:   "show <meal-id>",
	Short: "Show a meal and its food entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("meal id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			m, err := store.NewMeals(sqldb).Get(id)
			if err != nil {
				return err
			}
			if mealJSON {
				return writeJSON(cmd.OutOrStdout(), m)
			}
			printMeal(cmd.OutOrStdout(), m)
			return nil
		})
	},
}

var mealDeleteCmd = &cobra.Command{
	Use:   "delete <meal-id>",
	Short: "Delete a meal and its food entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("meal id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := store.NewMeals(sqldb).Delete(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted meal %d\n", id)
			return nil
		})
	},
}

func printMeal(w io.Writer, m *model.MealRecord) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("#%d %s (%s)", m.ID, m.Name, m.Type)))
	fmt.Fprintf(w, "Consumed: %s\n", m.ConsumedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "Totals: %.0f kcal | C %.1fg | P %.1fg | F %.1fg\n", m.Totals.Calories, m.Totals.CarbsG, m.Totals.ProteinG, m.Totals.FatG)
	if len(m.Entries) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No food entries"))
		return
	}
	fmt.Fprintln(w, "ENTRY\tNAME\tSERVINGS\tKCAL\tSOURCE\tFAV")
	for _, e := range m.Entries {
		fav := ""
		if e.IsFavorite {
			fav = "*"
		}
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%.0f\t%s\t%s\n", e.ID, e.Name, e.Servings, e.Totals().Calories, e.Source, fav)
	}
}

func init() {
	rootCmd.AddCommand(mealCmd)
	mealCmd.AddCommand(mealAddCmd, mealListCmd, mealShowCmd, mealDeleteCmd)

	mealAddCmd.Flags().StringVar(&mealName, "name", "", "Meal name")
	mealAddCmd.Flags().StringVar(&mealType, "type", "", "breakfast, lunch, dinner, snack, or other")
	mealAddCmd.Flags().StringVar(&mealDate, "date", "", "Date YYYY-MM-DD (default today)")
	mealAddCmd.Flags().StringVar(&mealTime, "time", "", "Time HH:MM (default now)")
	mealAddCmd.Flags().Float64Var(&mealCalories, "calories", 0, "Quick entry calories")
	mealAddCmd.Flags().Float64Var(&mealCarbs, "carbs", 0, "Quick entry carbs (g)")
	mealAddCmd.Flags().Float64Var(&mealProtein, "protein", 0, "Quick entry protein (g)")
	mealAddCmd.Flags().Float64Var(&mealFat, "fat", 0, "Quick entry fat (g)")
	_ = mealAddCmd.MarkFlagRequired("name")
	_ = mealAddCmd.MarkFlagRequired("type")

	mealListCmd.Flags().StringVar(&mealListDate, "date", "", "Date YYYY-MM-DD (default today)")
	mealListCmd.Flags().BoolVar(&mealJSON, "json", false, "Print as JSON")
	mealShowCmd.Flags().BoolVar(&mealJSON, "json", false, "Print as JSON")
}
