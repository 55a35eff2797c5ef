package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/config"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/logger"
	"github.com/wsbKuba/Klub-Sztuki-Walk/pkg/database"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "gymctl",
	Short: "Operations CLI for the martial arts club backend",
	Long: `gymctl runs one-off maintenance tasks against the club database:

  gymctl migrate       # create enums and tables
  gymctl seed          # default accounts, classes and schedule
  gymctl sync-prices   # create missing Stripe prices`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd, seedCmd, syncPricesCmd)
}

func openDB() (*gorm.DB, error) {
	if cfg.Database.Connection == "" {
		return nil, fmt.Errorf("DB_CONNECTION_STRING is not set")
	}
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}

func cliLogger() logger.ILogger {
	return logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}
