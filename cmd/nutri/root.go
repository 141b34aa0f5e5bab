package nutri

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/saadjs/nutri/internal/app"
	"github.com/saadjs/nutri/internal/logger"
	"github.com/saadjs/nutri/internal/nutrition"
)

var (
	dbPath    string
	debugMode bool
)

var rootCmd = &cobra.Command{
	Use:           "nutri",
	Short:         "nutri tracks meals against calorie and macro goals from your terminal",
	Long:          "nutri is a local-first nutrition tracker: set a profile, log meals and foods, and see daily and weekly progress with meal suggestions.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveDBPath()
		if err != nil {
			return err
		}
		if err := logger.Init(logger.Config{Debug: debugMode, LogDir: app.LogDir(path)}); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		logger.Debug("running command", "cmd", cmd.CommandPath(), "db", path)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if errors.Is(err, nutrition.ErrGoalsUnavailable) {
			fmt.Fprintln(os.Stderr, "Run `nutri profile set` to configure your goals.")
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to stderr")
}
