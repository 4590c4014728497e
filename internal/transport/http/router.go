package httptransport

import (
	"log/slog"

	"github.com/ErlanBelekov/calendar-api/internal/transport/http/handler"
	"github.com/ErlanBelekov/calendar-api/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

type RouterConfig struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	Tokens         middleware.TokenVerifier

	Auth   *handler.AuthHandler
	OAuth  *handler.OAuthHandler // nil when Google sign-in is not configured
	Events *handler.EventHandler
	Health *handler.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(sloggin.NewWithConfig(cfg.Logger, sloggin.Config{
		WithRequestID: false,
		Filters:       []sloggin.Filter{sloggin.IgnorePath("/healthz", "/readyz")},
	}))
	r.Use(middleware.Metrics())

	r.GET("/healthz", cfg.Health.Liveness)
	r.GET("/readyz", cfg.Health.Readiness)

	// Public auth routes
	r.POST("/register", cfg.Auth.Register)
	r.POST("/login", cfg.Auth.Login)

	if cfg.OAuth != nil {
		google := r.Group("/auth/google")
		google.GET("", cfg.OAuth.StartGoogle)
		google.GET("/callback", cfg.OAuth.GoogleCallback)
		google.POST("/verify", cfg.OAuth.VerifyGoogle)
	}

	authMW := middleware.Auth(cfg.Tokens)

	r.GET("/me", authMW, handler.Protected(cfg.Auth.Me))

	// Protected event routes
	events := r.Group("/events", authMW)
	events.POST("", handler.Protected(cfg.Events.Create))
	events.GET("", handler.Protected(cfg.Events.List))
	events.GET("/:id", handler.Protected(cfg.Events.GetByID))
	events.PUT("/:id", handler.Protected(cfg.Events.Update))
	events.DELETE("/:id", handler.Protected(cfg.Events.Delete))

	return r
}
