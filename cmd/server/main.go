package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ErlanBelekov/calendar-api/config"
	"github.com/ErlanBelekov/calendar-api/internal/email"
	"github.com/ErlanBelekov/calendar-api/internal/health"
	"github.com/ErlanBelekov/calendar-api/internal/infrastructure/postgres"
	ctxlog "github.com/ErlanBelekov/calendar-api/internal/log"
	"github.com/ErlanBelekov/calendar-api/internal/metrics"
	"github.com/ErlanBelekov/calendar-api/internal/oauth"
	"github.com/ErlanBelekov/calendar-api/internal/password"
	"github.com/ErlanBelekov/calendar-api/internal/token"
	httptransport "github.com/ErlanBelekov/calendar-api/internal/transport/http"
	"github.com/ErlanBelekov/calendar-api/internal/transport/http/handler"
	"github.com/ErlanBelekov/calendar-api/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := ctxlog.New(cfg.Env, cfg.SlogLevel(), os.Stdout)

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	if cfg.MigrateOnStart {
		if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
			stop()
			log.Fatalf("migrate: %v", err)
		}
		logger.Info("migrations applied")
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	eventRepo := postgres.NewEventRepository(pool)
	stateRepo := postgres.NewOAuthStateRepository(pool)

	hasher := password.NewHasher(cfg.BcryptCost)
	tokens := token.NewService([]byte(cfg.JWTSecret))
	sender := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)

	// Auth
	authUsecase := usecase.NewAuthUsecase(userRepo, hasher, tokens, sender, cfg.TokenTTL, logger)
	authHandler := handler.NewAuthHandler(authUsecase, logger)

	// Events
	eventUsecase := usecase.NewEventUsecase(eventRepo)
	eventHandler := handler.NewEventHandler(eventUsecase, logger)

	var (
		oauthHandler *handler.OAuthHandler
		deps         []health.Dependency
	)
	if cfg.GoogleEnabled() {
		verifier, err := oauth.NewGoogleIDTokenVerifier(ctx, cfg.GoogleJWKSURL, cfg.GoogleClientID, nil)
		if err != nil {
			stop()
			log.Fatalf("google verifier: %v", err)
		}
		provider := oauth.NewGoogleProvider(oauth.GoogleProviderConfig{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
		})
		oauthUsecase := usecase.NewOAuthUsecase(userRepo, stateRepo, verifier, provider, tokens, usecase.OAuthConfig{
			TokenTTL: cfg.OAuthTokenTTL,
			StateTTL: cfg.OAuthStateTTL,
		}, logger)
		oauthHandler = handler.NewOAuthHandler(oauthUsecase, cfg.FrontendURL, logger)
		deps = append(deps, health.Dependency{Name: "google_jwks", Pinger: verifier})
	} else {
		logger.Warn("google sign-in disabled: GOOGLE_CLIENT_ID or GOOGLE_CLIENT_SECRET not set")
	}

	metrics.Register()
	checker := health.NewChecker(pool, logger, prometheus.DefaultRegisterer, deps...)

	srv := http.Server{
		Addr: ":" + cfg.Port,
		Handler: httptransport.NewRouter(httptransport.RouterConfig{
			Logger:         logger,
			AllowedOrigins: cfg.CORSAllowedOrigins,
			Tokens:         tokens,
			Auth:           authHandler,
			OAuth:          oauthHandler,
			Events:         eventHandler,
			Health:         handler.NewHealthHandler(checker),
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}
