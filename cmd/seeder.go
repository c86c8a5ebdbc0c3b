package cmd

import (
	"fmt"

	"github.com/frahmantamala/partner-transaction/internal"
	"github.com/frahmantamala/partner-transaction/internal/partner"
	partnerPostgres "github.com/frahmantamala/partner-transaction/internal/partner/postgres"
	"github.com/frahmantamala/partner-transaction/pkg/logger"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the partners table",
	Long:  `Insert the partners listed under registry.partners, storing bcrypt hashes of their secrets. Existing partners are left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to init db: %w", err)
		}
		defer db.Close()

		gdb, err := openGorm(db.DB)
		if err != nil {
			return err
		}

		svc := partner.NewService(partnerPostgres.NewPartnerRepository(gdb), logger.LoggerWrapper())

		ctx, cancel := internal.WithTimeout(cmd.Context(), cfg.Registry.LoadTimeout)
		defer cancel()

		inserted, err := svc.Seed(ctx, cfg.Registry.Secrets(), cfg.Registry.BCryptCost)
		if err != nil {
			return err
		}

		for _, key := range inserted {
			fmt.Println("Seeded partner:", key)
		}
		fmt.Printf("Partners seeded successfully (%d new)\n", len(inserted))
		return nil
	},
}
