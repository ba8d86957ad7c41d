package main

import (
	"car_rental/internal/app/service"
	"car_rental/internal/common/security"
	"car_rental/internal/domain/repository"
	"car_rental/internal/platform/config"
	"car_rental/internal/platform/database"
	"car_rental/internal/platform/i18n"
	"car_rental/internal/platform/logger"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Running without a subcommand serves
// the web application.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "car_rental",
		Short:        "Car rental web application",
		SilenceUsage: true,
		RunE:         runServe,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./carrental.yaml)")
	flags.String("port", "8080", "HTTP listen port")
	flags.String("db-driver", config.DriverPostgres, `database driver ("postgres", "sqlite", "mysql")`)
	flags.String("db-dsn", "", "database connection string; overrides the db_* settings")
	flags.String("log-level", "info", `log level ("debug", "info", "warn", "error")`)

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (default)",
		RunE:  runServe,
	})
	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create the schema and the seed admin account, then exit",
		RunE:  runMigrate,
	})
	return root
}

// bootstrap loads configuration and sets up the process-wide logger, JWT
// signer and translations.
func bootstrap(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.Flags(), cfgFile)
	if err != nil {
		return nil, err
	}
	if err := logger.Setup(cfg.LogLevel, os.Stderr); err != nil {
		return nil, err
	}
	logger.L.Debug("configuration loaded", "config", cfg.String())

	if err := i18n.Init(cfg.DefaultLanguage); err != nil {
		return nil, err
	}
	security.InitJWT([]byte(cfg.JWTSecret), cfg.JWTExpiration)
	return cfg, nil
}

// prepareDatabase connects, migrates the schema and seeds the admin
// account. It runs before the server accepts any request.
func prepareDatabase(ctx context.Context, cfg *config.Config) error {
	if err := database.Connect(); err != nil {
		return err
	}
	if err := database.Migrate(ctx, database.DB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	seeder := service.NewAuthService(repository.NewUserRepository(database.DB), nil)
	if _, err := seeder.EnsureAdmin(ctx, cfg.SeedAdminUsername, cfg.SeedAdminPassword); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := prepareDatabase(cmd.Context(), cfg); err != nil {
		return err
	}
	logger.Infof("Schema is up to date.")
	return nil
}
