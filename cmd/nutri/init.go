package nutri

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saadjs/nutri/internal/logger"
	"github.com/saadjs/nutri/internal/store"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize local nutri database",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveDBPath()
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			catalog, err := store.NewFoods(sqldb).Catalog()
			if err != nil {
				return err
			}
			logger.Info("database ready", "path", path, "catalog_foods", len(catalog))
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized nutri database at %s (%d catalog foods)\n", path, len(catalog))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
