// @title Meetup Finder API
// @version 1.0
// @description Find meetups near you, read and comment on them, and mark attendance.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"meetupfinder/config"
	"meetupfinder/internal/adapters/auth"
	"meetupfinder/internal/adapters/email"
	"meetupfinder/internal/adapters/markdown"
	deliveryhttp "meetupfinder/internal/delivery/http"
	"meetupfinder/internal/delivery/http/controllers"
	"meetupfinder/internal/repository/postgres"
	"meetupfinder/internal/services"
)

func main() {
	// Load first: .env may set GO_ENV and LOG_LEVEL, which shape the logger.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	logger := config.NewLogger()
	slog.SetDefault(logger)

	if len(os.Args) > 1 && os.Args[1] == "token" {
		if err := issueToken(cfg, os.Args[2:]); err != nil {
			logger.Error("issue token", "err", err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped with error", "err", err)
		os.Exit(1)
	}
}

// issueToken prints a signed bearer token for a user. Tokens are normally
// minted by the identity provider; this is for local development.
func issueToken(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	userID := fs.String("user", "", "user ID (token subject)")
	mail := fs.String("email", "", "user email")
	ttl := fs.Duration("ttl", 24*time.Hour, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *userID == "" {
		return errors.New("-user is required")
	}
	token, err := auth.NewJWTIssuer(cfg.JWTSecret).Issue(*userID, *mail, *ttl)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(20)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ContextTimeout)
	err = db.PingContext(pingCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	if cfg.MigrationsEnabled {
		if err := postgres.RunMigrations(cfg.DBUrl, logger); err != nil {
			return err
		}
	}

	// Repositories
	eventRepo := postgres.NewEventRepository(db)
	userRepo := postgres.NewUserRepository(db)

	// Adapters
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:          cfg.Email.AWSRegion,
			AccessKeyID:     cfg.Email.AWSAccessKeyID,
			SecretAccessKey: cfg.Email.AWSSecretAccessKey,
		},
	}, config.WithService(logger, "mailer"))
	if err != nil {
		return fmt.Errorf("mailer: %w", err)
	}
	templates, err := email.NewTemplateRenderer()
	if err != nil {
		return err
	}
	renderer := markdown.NewRenderer()
	verifier := auth.NewJWTVerifier(cfg.JWTSecret)

	// Services
	emailService := services.NewEmailService(mailer, templates, config.WithService(logger, "email"))
	listingService := services.NewListingService(eventRepo, renderer, config.WithService(logger, "listing"), services.ListingConfig{
		MaxDistanceMeters: cfg.SearchMaxDistanceMeters,
		SearchLimit:       cfg.SearchLimit,
		FallbackCityID:    cfg.FallbackCityID,
		Timeout:           cfg.ContextTimeout,
	})
	eventService := services.NewEventService(eventRepo, cfg.ContextTimeout)
	userService := services.NewUserService(userRepo, eventRepo, cfg.ContextTimeout)
	attendance := services.NewAttendanceManager(eventRepo, emailService, config.WithService(logger, "attendance"), services.AttendanceConfig{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.ContextTimeout,
	})

	router := deliveryhttp.NewRouter(deliveryhttp.RouterDeps{
		Logger:         logger,
		Verifier:       verifier,
		Users:          userService,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Events:         controllers.NewEventController(logger, listingService, eventService),
		Attendees:      controllers.NewAttendeeController(logger, eventService, attendance),
		Profiles:       controllers.NewUserController(logger, userService),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
