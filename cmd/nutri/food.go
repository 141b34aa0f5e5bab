package nutri

import (
	"database/sql"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saadjs/nutri/internal/model"
	"github.com/saadjs/nutri/internal/service"
	"github.com/saadjs/nutri/internal/store"
)

var foodCmd = &cobra.Command{
	Use:   "food",
	Short: "Manage food entries within meals and the common food catalog",
}

var (
	foodName        string
	foodCalories    float64
	foodCarbs       float64
	foodProtein     float64
	foodFat         float64
	foodSugar       float64
	foodFiber       float64
	foodSodium      float64
	foodCholesterol float64
	foodSatFat      float64
	foodTransFat    float64
	foodServings    float64
	catalogServings float64
	relogServings   float64
	foodAmount      float64
	foodUnit        string
	foodPerAmount   float64
	foodPerUnit     string
	foodDensity     float64
	foodSource      string
	foodFavorite    bool
	foodLimit       int
)

var foodAddCmd = &cobra.Command{
	Use:   "add <meal-id>",
	Short: "Add a food entry to a meal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mealID, err := parseInt64Arg("meal id", args[0])
		if err != nil {
			return err
		}
		source, err := model.ParseFoodSource(foodSource)
		if err != nil {
			return err
		}
		servings := foodServings
		flags := cmd.Flags()
		if flags.Changed("amount") {
			if !flags.Changed("per-amount") {
				return fmt.Errorf("--per-amount is required with --amount")
			}
			if servings, err = service.ServingsFor(foodAmount, foodUnit, foodPerAmount, foodPerUnit, foodDensity); err != nil {
				return err
			}
		}
		entry := model.FoodEntry{
			Name:       foodName,
			PerServing: model.Nutrients{Calories: foodCalories, CarbsG: foodCarbs, ProteinG: foodProtein, FatG: foodFat},
			Extras: model.Extras{
				SugarG:        optionalFloat(flags.Changed("sugar"), foodSugar),
				FiberG:        optionalFloat(flags.Changed("fiber"), foodFiber),
				SodiumMg:      optionalFloat(flags.Changed("sodium"), foodSodium),
				CholesterolMg: optionalFloat(flags.Changed("cholesterol"), foodCholesterol),
				SaturatedFatG: optionalFloat(flags.Changed("sat-fat"), foodSatFat),
				TransFatG:     optionalFloat(flags.Changed("trans-fat"), foodTransFat),
			},
			Servings:   servings,
			Source:     source,
			IsFavorite: foodFavorite,
		}
		return withDB(func(sqldb *sql.DB) error {
			id, err := store.NewFoods(sqldb).AddEntry(mealID, entry)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added food entry %d to meal %d\n", id, mealID)
			return nil
		})
	},
}

var foodCatalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the common food catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			items, err := store.NewFoods(sqldb).Catalog()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "ID\tNAME\tSERVING\tKCAL\tC\tP\tF")
			for _, f := range items {
				fmt.Fprintf(out, "%d\t%s\t%s\t%.0f\t%.1f\t%.1f\t%.1f\n",
					f.ID, f.Name, f.ServingDesc, f.PerServing.Calories, f.PerServing.CarbsG, f.PerServing.ProteinG, f.PerServing.FatG)
			}
			return nil
		})
	},
}

var foodLogCatalogCmd = &cobra.Command{
	Use:   "log-catalog <meal-id> <food-id|name>",
	Short: "Add a catalog food to a meal",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mealID, err := parseInt64Arg("meal id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			foods := store.NewFoods(sqldb)
			foodID, err := resolveCommonFood(foods, args[1])
			if err != nil {
				return err
			}
			id, err := foods.AddFromCatalog(mealID, foodID, catalogServings)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added food entry %d to meal %d\n", id, mealID)
			return nil
		})
	},
}

var foodRelogCmd = &cobra.Command{
	Use:   "relog <entry-id> <meal-id>",
	Short: "Log a past food entry again",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		entryID, err := parseInt64Arg("entry id", args[0])
		if err != nil {
			return err
		}
		mealID, err := parseInt64Arg("meal id", args[1])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			id, err := store.NewFoods(sqldb).Relog(entryID, mealID, relogServings)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added food entry %d to meal %d\n", id, mealID)
			return nil
		})
	},
}

var foodRemoveCmd = &cobra.Command{
	Use:   "remove <entry-id>",
	Short: "Remove a food entry from its meal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entryID, err := parseInt64Arg("entry id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			mealID, err := store.NewFoods(sqldb).RemoveEntry(entryID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed food entry %d from meal %d\n", entryID, mealID)
			return nil
		})
	},
}

func favoriteCommand(use, short string, favorite bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <entry-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entryID, err := parseInt64Arg("entry id", args[0])
			if err != nil {
				return err
			}
			return withDB(func(sqldb *sql.DB) error {
				if err := store.NewFoods(sqldb).SetFavorite(entryID, favorite); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated food entry %d\n", entryID)
				return nil
			})
		},
	}
}

var foodFavoritesCmd = &cobra.Command{
	Use:   "favorites",
	Short: "List favorite food entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			items, err := store.NewFoods(sqldb).Favorites()
			if err != nil {
				return err
			}
			printEntries(cmd.OutOrStdout(), items)
			return nil
		})
	},
}

var foodRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently used food entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			items, err := store.NewFoods(sqldb).Recent(foodLimit)
			if err != nil {
				return err
			}
			printEntries(cmd.OutOrStdout(), items)
			return nil
		})
	},
}

func resolveCommonFood(foods *store.Foods, ref string) (int64, error) {
	if id, err := strconv.ParseInt(strings.TrimSpace(ref), 10, 64); err == nil {
		return id, nil
	}
	f, err := foods.CommonFoodByName(ref)
	if err != nil {
		return 0, fmt.Errorf("catalog food %q: %w", ref, err)
	}
	return f.ID, nil
}

func printEntries(w io.Writer, items []model.FoodEntry) {
	fmt.Fprintln(w, "ENTRY\tMEAL\tNAME\tKCAL/SERVING\tUSES\tLAST USED")
	for _, e := range items {
		last := ""
		if e.LastUsedAt != nil {
			last = e.LastUsedAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%d\t%d\t%s\t%.0f\t%d\t%s\n", e.ID, e.MealID, e.Name, e.PerServing.Calories, e.UseCount, last)
	}
}

func init() {
	rootCmd.AddCommand(foodCmd)
	foodCmd.AddCommand(
		foodAddCmd,
		foodCatalogCmd,
		foodLogCatalogCmd,
		foodRelogCmd,
		foodRemoveCmd,
		favoriteCommand("favorite", "Mark a food entry as favorite", true),
		favoriteCommand("unfavorite", "Clear a food entry's favorite flag", false),
		foodFavoritesCmd,
		foodRecentCmd,
	)

	foodAddCmd.Flags().StringVar(&foodName, "name", "", "Food name")
	foodAddCmd.Flags().Float64Var(&foodCalories, "calories", 0, "Calories per serving")
	foodAddCmd.Flags().Float64Var(&foodCarbs, "carbs", 0, "Carbs per serving (g)")
	foodAddCmd.Flags().Float64Var(&foodProtein, "protein", 0, "Protein per serving (g)")
	foodAddCmd.Flags().Float64Var(&foodFat, "fat", 0, "Fat per serving (g)")
	foodAddCmd.Flags().Float64Var(&foodSugar, "sugar", 0, "Sugar per serving (g)")
	foodAddCmd.Flags().Float64Var(&foodFiber, "fiber", 0, "Fiber per serving (g)")
	foodAddCmd.Flags().Float64Var(&foodSodium, "sodium", 0, "Sodium per serving (mg)")
	foodAddCmd.Flags().Float64Var(&foodCholesterol, "cholesterol", 0, "Cholesterol per serving (mg)")
	foodAddCmd.Flags().Float64Var(&foodSatFat, "sat-fat", 0, "Saturated fat per serving (g)")
	foodAddCmd.Flags().Float64Var(&foodTransFat, "trans-fat", 0, "Trans fat per serving (g)")
	foodAddCmd.Flags().Float64Var(&foodServings, "servings", 1, "Number of servings")
	foodAddCmd.Flags().Float64Var(&foodAmount, "amount", 0, "Amount eaten, converted to servings with --per-amount")
	foodAddCmd.Flags().StringVar(&foodUnit, "unit", "g", "Unit of --amount")
	foodAddCmd.Flags().Float64Var(&foodPerAmount, "per-amount", 0, "Size of one labelled serving")
	foodAddCmd.Flags().StringVar(&foodPerUnit, "per-unit", "g", "Unit of --per-amount")
	foodAddCmd.Flags().Float64Var(&foodDensity, "density", 0, "Density in g/ml for mass and volume mixes")
	foodAddCmd.Flags().StringVar(&foodSource, "source", string(model.SourceCustom), "custom or scanned")
	foodAddCmd.Flags().BoolVar(&foodFavorite, "favorite", false, "Mark as favorite")
	_ = foodAddCmd.MarkFlagRequired("name")

	foodLogCatalogCmd.Flags().Float64Var(&catalogServings, "servings", 1, "Number of servings")
	foodRelogCmd.Flags().Float64Var(&relogServings, "servings", 0, "Servings (default: same as the original)")
	foodRecentCmd.Flags().IntVar(&foodLimit, "limit", 20, "Maximum entries to show")
}
