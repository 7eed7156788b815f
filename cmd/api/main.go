// Command api serves the Natours booking API.
//
// @title                       Natours API
// @version                     1.0
// @description                 Tours, users and reviews of the Natours booking platform.
// @BasePath                    /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/ulule/limiter/v3"
	"golang.org/x/sync/errgroup"

	"github.com/natours/booking-api/internal/api"
	"github.com/natours/booking-api/internal/api/handler"
	"github.com/natours/booking-api/internal/core/ports"
	"github.com/natours/booking-api/internal/core/service"
	"github.com/natours/booking-api/internal/infrastructure/db/mongo"
	"github.com/natours/booking-api/internal/infrastructure/db/redis"
	"github.com/natours/booking-api/internal/infrastructure/mail"
	"github.com/natours/booking-api/internal/pkg/config"
	"github.com/natours/booking-api/pkg/logger"
)

const serviceName = "natours-api"

func main() {
	if err := run(); err != nil {
		// Init returns the configured logger, or a JSON one when startup
		// failed before it was built.
		l := logger.Init(logger.Options{Production: true, Service: serviceName})
		l.Error().Err(err).Msg("shutting down")
		os.Exit(1)
	}
}

func run() error {
	// Missing env files are fine; the environment may already be populated.
	for _, f := range []string{"config.env", ".env"} {
		_ = godotenv.Load(f)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{
		Level:      cfg.LogLevel,
		Production: cfg.Production(),
		Service:    serviceName,
	})

	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.MongoURI(),
		Database: cfg.Mongo.Database,
		AppName:  serviceName,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := mongo.Disconnect(context.Background(), client, cfg.ShutdownTimeout); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()
	log.Info().Str("database", cfg.Mongo.Database).Msg("DB connection successful!")

	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	var rdb *goredis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
	}
	store, err := redis.LimiterStore(rdb, redis.LimiterPrefix)
	if err != nil {
		return err
	}
	lim := limiter.New(store, limiter.Rate{Period: cfg.RateLimit.Window, Limit: cfg.RateLimit.Max})

	userRepo := mongo.NewUserRepository(db)
	creds := service.NewCredentialStore(cfg.Auth.BcryptCost)
	tokens := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiresIn)
	authService := service.NewAuthService(userRepo, creds, tokens, newMailer(cfg.Mail, log), log)
	userService := service.NewUserService(userRepo, creds, log)

	e := api.NewRouter(api.Deps{
		Auth:     authService,
		Users:    userService,
		UserRepo: userRepo,
		Tours:    mongo.NewTourRepository(db),
		Reviews:  mongo.NewReviewRepository(db),
		Limiter:  lim,
		Mongo:    db,
		Redis:    rdb,
		Cookie: handler.CookieConfig{
			TTL:    cfg.Auth.CookieExpires,
			Secure: cfg.Production(),
		},
		PublicURL:  cfg.PublicURL,
		Production: cfg.Production(),
		StaticDir:  cfg.StaticDir,
		Log:        log,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("App running")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutdown signal received, draining connections")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func newMailer(cfg config.MailConfig, log zerolog.Logger) ports.Mailer {
	if cfg.Host == "" {
		log.Warn().Msg("MAIL_HOST not set, password reset links are only logged")
		return mail.NewLogMailer(log)
	}
	return mail.NewSMTPMailer(mail.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
		From:     cfg.From,
	}, log)
}
