package nutri

import (
	"database/sql"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/saadjs/nutri/internal/model"
	"github.com/saadjs/nutri/internal/service"
	"github.com/saadjs/nutri/internal/store"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your body profile and derived goals",
}

var (
	profileAge        int
	profileSex        string
	profileHeight     float64
	profileHeightUnit string
	profileWeight     float64
	profileWeightUnit string
	profileActivity   string
	profileGoal       string
	profileCarbs      float64
	profileProtein    float64
	profileFat        float64
	profileJSON       bool
	weightUnit        string
)

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Create or replace your profile and recompute goals",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := service.ProfileInput{
			Age:           profileAge,
			Sex:           profileSex,
			Height:        profileHeight,
			HeightUnit:    profileHeightUnit,
			Weight:        profileWeight,
			WeightUnit:    profileWeightUnit,
			ActivityLevel: profileActivity,
			WeightGoal:    profileGoal,
			CarbsPct:      profileCarbs,
			ProteinPct:    profileProtein,
			FatPct:        profileFat,
		}
		return withEngine(func(_ *sql.DB, engine *service.Engine) error {
			p, err := engine.SetProfile(in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved profile %s\n", p.ID)
			printGoals(cmd.OutOrStdout(), p)
			return nil
		})
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your profile and goals",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(sqldb *sql.DB, engine *service.Engine) error {
			p, err := engine.Profile()
			if err != nil {
				return err
			}
			if profileJSON {
				return writeJSON(cmd.OutOrStdout(), p)
			}
			raw, _, err := store.NewConfig(sqldb).Get(store.ConfigDisplayUnits)
			if err != nil {
				return err
			}
			units, err := service.ParseDisplayUnits(raw)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, headerStyle.Render("Profile "+p.ID))
			fmt.Fprintf(out, "Age: %d | Sex: %s\n", p.Age, p.Sex)
			fmt.Fprintf(out, "Height: %s | Weight: %s\n", service.FormatHeight(p.HeightCm, units), service.FormatWeight(p.WeightKg, units))
			fmt.Fprintf(out, "Activity: %s (x%.3f) | Goal: %s\n", p.ActivityLevel, p.ActivityLevel.Multiplier(), p.WeightGoal)
			printGoals(out, p)
			return nil
		})
	},
}

var profileWeightCmd = &cobra.Command{
	Use:   "weight <value>",
	Short: "Record a new weight and recompute goals",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid weight %q", args[0])
		}
		return withEngine(func(_ *sql.DB, engine *service.Engine) error {
			p, err := engine.UpdateWeight(value, weightUnit)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Weight set to %.1f kg\n", p.WeightKg)
			printGoals(cmd.OutOrStdout(), p)
			return nil
		})
	},
}

func printGoals(w io.Writer, p *model.Profile) {
	fmt.Fprintf(w, "BMR: %.0f kcal | TDEE: %.0f kcal\n", p.BMR, p.TDEE)
	fmt.Fprintf(w, "Daily goal: %.0f kcal | C %.0fg | P %.0fg | F %.0fg\n", p.DailyCalorieGoal, p.CarbGoalG, p.ProteinGoalG, p.FatGoalG)
	fmt.Fprintf(w, "Split: C %.0f%% | P %.0f%% | F %.0f%%\n", p.MacroSplit.CarbsPct*100, p.MacroSplit.ProteinPct*100, p.MacroSplit.FatPct*100)
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileSetCmd, profileShowCmd, profileWeightCmd)

	profileSetCmd.Flags().IntVar(&profileAge, "age", 0, "Age in years")
	profileSetCmd.Flags().StringVar(&profileSex, "sex", "", "male, female, or other")
	profileSetCmd.Flags().Float64Var(&profileHeight, "height", 0, "Height")
	profileSetCmd.Flags().StringVar(&profileHeightUnit, "height-unit", "cm", "Height unit: cm, m, in, ft")
	profileSetCmd.Flags().Float64Var(&profileWeight, "weight", 0, "Weight")
	profileSetCmd.Flags().StringVar(&profileWeightUnit, "weight-unit", "kg", "Weight unit: kg, lb")
	profileSetCmd.Flags().StringVar(&profileActivity, "activity", string(model.ActivitySedentary), "sedentary, light, moderate, active, very_active")
	profileSetCmd.Flags().StringVar(&profileGoal, "goal", string(model.GoalMaintain), "lose, maintain, or gain")
	profileSetCmd.Flags().Float64Var(&profileCarbs, "carbs", 40, "Carbohydrate share of calories")
	profileSetCmd.Flags().Float64Var(&profileProtein, "protein", 30, "Protein share of calories")
	profileSetCmd.Flags().Float64Var(&profileFat, "fat", 30, "Fat share of calories")
	_ = profileSetCmd.MarkFlagRequired("age")
	_ = profileSetCmd.MarkFlagRequired("height")
	_ = profileSetCmd.MarkFlagRequired("weight")

	profileShowCmd.Flags().BoolVar(&profileJSON, "json", false, "Print the profile as JSON")
	profileWeightCmd.Flags().StringVar(&weightUnit, "unit", "kg", "Weight unit: kg, lb")
}
