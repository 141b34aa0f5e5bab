package nutri

import (
	"database/sql"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saadjs/nutri/internal/service"
	"github.com/saadjs/nutri/internal/store"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage nutri local configuration",
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := strings.ToLower(strings.TrimSpace(args[0]))
		value := strings.TrimSpace(args[1])
		if !slices.Contains(store.KnownConfigKeys, key) {
			return fmt.Errorf("unknown config key %q (use %s)", args[0], strings.Join(store.KnownConfigKeys, ", "))
		}
		return withDB(func(sqldb *sql.DB) error {
			switch key {
			case store.ConfigDisplayUnits:
				units, err := service.ParseDisplayUnits(value)
				if err != nil {
					return err
				}
				value = units
			case store.ConfigActiveProfile:
				if _, err := store.NewProfiles(sqldb).Get(value); err != nil {
					return err
				}
			}
			if err := store.NewConfig(sqldb).Set(key, value); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
			return nil
		})
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Show a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			value, ok, err := store.NewConfig(sqldb).Get(args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("config key %q is not set", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		})
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all configuration values",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			cfg, err := store.NewConfig(sqldb).List()
			if err != nil {
				return err
			}
			keys := make([]string, 0, len(cfg))
			for k := range cfg {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintln(cmd.OutOrStdout(), "KEY\tVALUE")
			for _, k := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", k, cfg[k])
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetCmd, configGetCmd, configListCmd)
}
