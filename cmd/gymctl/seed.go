package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/repository/unitofwork"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/seed"
)

var (
	adminPassword   string
	trainerPassword string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert default accounts, class types, schedule and notification types",
	Long: `Seeding is idempotent. Rows that already exist are reported as skipped
and never overwritten.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}

		opts := seed.DefaultOptions()
		if adminPassword != "" {
			opts.Admin.Password = adminPassword
		}
		if trainerPassword != "" {
			opts.Trainer.Password = trainerPassword
		}

		log := cliLogger()
		defer log.Sync()

		steps, err := seed.NewSeeder(unitofwork.NewRepositoryFactory(db), log).Run(cmd.Context(), opts)
		for _, step := range steps {
			if step.Created {
				color.Green("  + %s %s", step.Kind, step.Name)
			} else {
				color.White("  = %s %s (exists)", step.Kind, step.Name)
			}
		}
		if err != nil {
			return err
		}

		color.Green("Seeding completed")
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&adminPassword, "admin-password", "", "password for the seeded admin account")
	seedCmd.Flags().StringVar(&trainerPassword, "trainer-password", "", "password for the seeded trainer account")
}
