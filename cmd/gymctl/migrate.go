package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/migration"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create extensions, enums and tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}

		color.Cyan("Running migrations...")
		if err := migration.Run(db, func(message string) {
			color.Yellow("  %s", message)
		}); err != nil {
			return err
		}
		color.Green("Migration completed")
		return nil
	},
}
