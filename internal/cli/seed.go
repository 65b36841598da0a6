package cli

import (
	"fmt"

	"github.com/KevinSet35/geo-whiz/internal/config"
	"github.com/KevinSet35/geo-whiz/internal/infra/memory"
	"github.com/KevinSet35/geo-whiz/internal/infra/postgres"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewSeedCmd loads the embedded question bank, country directory and leaderboards
// into Postgres, and publishes the bank to object storage when MinIO is configured.
func NewSeedCmd(configPath *string) *cobra.Command {
	var skipMigrate bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed Postgres (and MinIO) with the embedded quiz data",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			log := newLogger(cfg)
			defer func() { _ = log.Sync() }()

			data, err := embeddedSeedData()
			if err != nil {
				return err
			}

			if cfg.Postgres.URL != "" {
				if !skipMigrate {
					if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
						return err
					}
				}
				db := postgres.OpenBun(cfg.Postgres.URL)
				defer db.Close()
				counts, err := postgres.Seed(ctx, db, data)
				if err != nil {
					return fmt.Errorf("seed postgres: %w", err)
				}
				log.Info("postgres seeded",
					zap.Int("templates", counts.Templates),
					zap.Int("countries", counts.Countries),
					zap.Int("leaderboard_entries", counts.Entries),
				)
			}

			if cfg.Minio.Endpoint != "" {
				loader, err := newMinioLoader(cfg)
				if err != nil {
					return err
				}
				if err := loader.Publish(ctx, data.Templates); err != nil {
					return err
				}
				log.Info("question bank published", zap.String("bucket", cfg.Minio.Bucket), zap.String("object", cfg.Minio.Object))
			}

			if cfg.Postgres.URL == "" && cfg.Minio.Endpoint == "" {
				return fmt.Errorf("nothing to seed: configure postgres.url or minio.endpoint")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not apply migrations before seeding")
	return cmd
}

func embeddedSeedData() (postgres.SeedData, error) {
	templates, err := memory.EmbeddedTemplates()
	if err != nil {
		return postgres.SeedData{}, err
	}
	countries, err := memory.EmbeddedCountries()
	if err != nil {
		return postgres.SeedData{}, err
	}
	boards, err := memory.EmbeddedLeaderboards()
	if err != nil {
		return postgres.SeedData{}, err
	}
	return postgres.SeedData{Templates: templates, Countries: countries, Leaderboards: boards}, nil
}
