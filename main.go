package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"commerce-backend/auth"
	"commerce-backend/config"
	"commerce-backend/handler"
	"commerce-backend/metrics"
	"commerce-backend/service"
	"commerce-backend/store"
)

//go:embed migrations.sql
var migrationSQL string

var configPath string

func main() {
	root := &cobra.Command{
		Use:          "commerce-backend",
		Short:        "E-commerce backend: addresses, inventory, reservations, sessions, analytics",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server",
			RunE:  func(cmd *cobra.Command, args []string) error { return serve() },
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Run database migrations and exit",
			RunE:  func(cmd *cobra.Command, args []string) error { return migrate() },
		},
		tokenCommand(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func migrate() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := store.NewPostgresStore(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("db connection failed: %w", err)
	}
	defer st.Close()
	if _, err := st.DB.Exec(migrationSQL); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	fmt.Println("migrations applied")
	return nil
}

func tokenCommand() *cobra.Command {
	var admin bool
	cmd := &cobra.Command{
		Use:   "token CUSTOMER_ID",
		Short: "Issue a bearer token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			tok, err := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL.Std()).Create(args[0], admin)
			if err != nil {
				return err
			}
			fmt.Println(tok)
			return nil
		},
	}
	cmd.Flags().BoolVar(&admin, "admin", false, "grant the admin claim")
	return cmd
}

func serve() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	st, err := store.NewPostgresStore(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("db connection failed: %w", err)
	}
	defer st.Close()

	if _, err := st.DB.Exec(migrationSQL); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("database migrations executed")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	m := metrics.New(reg)

	clk := clock.New()
	inventory := service.NewInventoryService(st, clk, logger, m, cfg.Reservation.TTL.Std())
	addresses := service.NewAddressService(st, logger)
	sessions := service.NewSessionService(st, clk, logger, cfg.Session.TTL.Std())
	activity := service.NewActivityService(st, logger, m)
	checkout := service.NewCheckoutService(addresses, inventory, logger, cfg.Checkout.DeliveryMethods, cfg.Checkout.PaymentMethods)

	svc := service.Services{
		Inventory: inventory,
		Addresses: addresses,
		Sessions:  sessions,
		Activity:  activity,
		Checkout:  checkout,
	}

	sweeper := service.NewSweeper(inventory, sessions, clk, logger, cfg.Reservation.SweepInterval.Std())
	sweeper.Start()
	defer sweeper.Stop()

	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL.Std())
	h := handler.NewHandler(svc, tokens, logger, m)

	r := mux.NewRouter()
	h.RegisterRoutes(r, reg)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Server.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}
	return nil
}
