package main

import (
	"fmt"

	"screenerbot-gateway/internal/app"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the activity schema to the configured storage",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		backend, err := app.Migrate(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("migrate %s: %w", backend, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s schema is up to date\n", backend)
		return nil
	},
}
