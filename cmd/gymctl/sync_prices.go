package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/repository/unitofwork"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/service"
	"github.com/wsbKuba/Klub-Sztuki-Walk/pkg/billing/stripe"
)

var syncPricesCmd = &cobra.Command{
	Use:   "sync-prices",
	Short: "Create a monthly Stripe price for every class type without one",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}

		log := cliLogger()
		defer log.Sync()

		catalog := service.NewCatalogService(
			unitofwork.NewRepositoryFactory(db),
			stripe.NewProvider(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret),
			log,
		)

		color.Cyan("Syncing prices (%s)...", cfg.Stripe.Currency)
		results, err := catalog.SyncPrices(cmd.Context(), cfg.Stripe.Currency)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			color.White("  every class type already has a price")
		}
		failed := 0
		for _, r := range results {
			if r.Err != nil {
				failed++
				color.Red("  ! %s: %v", r.ClassType, r.Err)
				continue
			}
			color.Green("  + %s -> %s", r.ClassType, r.PriceId)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d prices failed", failed, len(results))
		}
		return nil
	},
}
