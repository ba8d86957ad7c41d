package main

import (
	"car_rental/internal/api"
	"car_rental/internal/api/handler"
	"car_rental/internal/api/render"
	"car_rental/internal/app/service"
	"car_rental/internal/domain/repository"
	"car_rental/internal/platform/database"
	"car_rental/internal/platform/logger"
	"car_rental/internal/platform/session"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := bootstrap(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Database: schema and seed admin before accepting traffic
	defer database.Close()
	if err := prepareDatabase(ctx, cfg); err != nil {
		return err
	}

	// 2. Redis session store
	if err := session.ConnectRedis(ctx); err != nil {
		return err
	}
	defer session.CloseRedis()
	sessions := session.NewRevocationStore(session.RDB)

	// 3. Repositories
	userRepo := repository.NewUserRepository(database.DB)
	carRepo := repository.NewCarRepository(database.DB)
	rentalRepo := repository.NewRentalRepository(database.DB)

	// 4. Services
	authService := service.NewAuthService(userRepo, sessions)
	carService := service.NewCarService(carRepo)
	rentalService := service.NewRentalService(database.DB, carRepo, rentalRepo)
	userService := service.NewUserService(userRepo, rentalRepo)

	// 5. Router & HTTP server
	view, err := render.New()
	if err != nil {
		return err
	}
	router := api.NewRouter(authService, carService, rentalService, userService, view, api.Options{
		SecureCookies: cfg.CookieSecure,
		HealthChecks: map[string]handler.HealthCheck{
			"database":      database.DB.PingContext,
			"session_store": sessions.Ping,
		},
	})

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 65 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on port %s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logger.Infof("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Infof("Server stopped gracefully.")
	return nil
}
