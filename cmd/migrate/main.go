package main

import (
	"fmt"
	"os"

	"facturacion-backend/config"
	"facturacion-backend/logger"
	"facturacion-backend/migrations"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	// .env must be loaded before flags read DATABASE_URL.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "migrate",
		Usage: "apply or roll back the invoicing schema",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "postgres connection string",
				EnvVars: []string{"DATABASE_URL"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "info",
				Usage: "debug, info, warn or error",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "apply all pending migrations",
				Action: withMigrator(func(m *migrations.Migrator, _ *zap.Logger) error {
					return m.Up()
				}),
			},
			{
				Name:  "down",
				Usage: "roll back every migration",
				Action: withMigrator(func(m *migrations.Migrator, _ *zap.Logger) error {
					return m.Down()
				}),
			},
			{
				Name:  "version",
				Usage: "print the applied version",
				Action: withMigrator(func(m *migrations.Migrator, log *zap.Logger) error {
					version, dirty, err := m.Version()
					if err != nil {
						return err
					}
					log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
					return nil
				}),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func withMigrator(fn func(*migrations.Migrator, *zap.Logger) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		log := logger.New(c.String("log-level"), "console")
		defer func() { _ = log.Sync() }()

		url := c.String("database-url")
		if url == "" {
			return cli.Exit(config.ErrMissingDatabaseURL.Error(), 2)
		}

		m, err := migrations.Open(url, log)
		if err != nil {
			return err
		}
		defer func() {
			if err := m.Close(); err != nil {
				log.Warn("Failed to close migrator", zap.Error(err))
			}
		}()

		return fn(m, log)
	}
}
