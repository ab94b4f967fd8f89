package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/zylm/internal/config"
	"github.com/example/zylm/internal/database"
	"github.com/example/zylm/internal/logger"
	"github.com/example/zylm/internal/notify"
	"github.com/example/zylm/internal/routes"
	"github.com/example/zylm/internal/services"
)

const (
	otpPurgeInterval = time.Hour
	otpRetention     = 24 * time.Hour
	shutdownTimeout  = 15 * time.Second
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "zylm",
		Short:         "Zylm Energy website backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	})
	root.AddCommand(newCreateUserCmd())
	return root
}

func newCreateUserCmd() *cobra.Command {
	var in services.CreateUserInput
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create an admin panel account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			db, err := database.Connect(cfg.DatabaseURL, log)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close(db) }()

			user, err := services.NewUserService(db).Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s user %s (%s)\n", user.Role, user.Email, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Email, "email", "", "account email")
	cmd.Flags().StringVar(&in.Name, "name", "", "display name")
	cmd.Flags().StringVar(&in.Password, "password", "", "password, at least 8 characters")
	cmd.Flags().StringVar(&in.Role, "role", "viewer", "admin or viewer")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Dev: cfg.LogDev, File: cfg.LogFile})
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}

func runServe(parent context.Context) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Warn("close database", zap.Error(err))
		}
	}()

	users := services.NewUserService(db)
	if created, err := users.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return err
	} else if created {
		log.Info("seeded admin account", zap.String("email", cfg.AdminEmail))
	}
	if err := database.SeedProducts(db); err != nil {
		return fmt.Errorf("seed products: %w", err)
	}

	ledger := services.NewOTPLedger(db, cfg.OTPTTL)
	submissions := services.NewSubmissionStore(db)
	gateway := notify.FromConfig(cfg, db, log, submissions)
	intake := services.NewFormIntakeService(ledger, submissions, gateway)

	if cfg.OTPDevMode {
		log.Warn("OTP dev mode is on: codes are returned in API responses")
	}
	if !cfg.SMTPConfigured() {
		log.Warn("SMTP is not configured: submission emails will be skipped")
	}

	app := routes.NewApp(routes.Deps{
		DB:          db,
		Config:      cfg,
		Log:         log,
		Ledger:      ledger,
		Users:       users,
		Submissions: submissions,
		Intake:      intake,
		Gateway:     gateway,
	})

	go purgeOTPs(ctx, ledger, log)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("port", cfg.AppPort), zap.String("sms_provider", gateway.SMSProviderName()))
		errCh <- app.Listen(":" + cfg.AppPort)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("fiber.Listen: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		log.Warn("server shutdown", zap.Error(err))
	}

	gateway.Wait()
	log.Info("server stopped")
	return nil
}

func purgeOTPs(ctx context.Context, ledger *services.OTPLedger, log *zap.Logger) {
	ticker := time.NewTicker(otpPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := ledger.PurgeExpired(ctx, otpRetention)
			if err != nil {
				log.Warn("purge expired otps", zap.Error(err))
				continue
			}
			if n > 0 {
				log.Info("purged expired otps", zap.Int64("rows", n))
			}
		}
	}
}
