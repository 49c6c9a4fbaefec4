package api

import (
	"fmt"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/vidshare/vidshare/docs"
	"github.com/vidshare/vidshare/internal/api/handler"
	"github.com/vidshare/vidshare/internal/api/middleware"
	"github.com/vidshare/vidshare/internal/core/ports"
	"github.com/vidshare/vidshare/internal/infrastructure/http/handlers"
	"github.com/vidshare/vidshare/internal/infrastructure/storage"
)

// Dependencies is everything NewRouter wires into the HTTP surface.
type Dependencies struct {
	Auth      ports.AuthService
	Profiles  ports.ProfileService
	Sessions  ports.SessionStore
	Uploads   ports.UploadService
	Catalog   ports.CatalogService
	Dashboard ports.DashboardService

	JWTSecret string

	// MaxUploadBytes caps the upload request body, plus multipart framing.
	// Zero leaves the body unbounded.
	MaxUploadBytes int64

	// Objects serves public URLs when the object store can read its own
	// objects. Nil disables /objects.
	Objects ports.ObjectReader
	Bucket  string

	HealthChecks map[string]handlers.Checker

	// Registerer and Gatherer default to the Prometheus default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "vidshare",
		Registerer: deps.Registerer,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	videoHandler := handler.NewVideoHandler(deps.Uploads, deps.Catalog)
	dashboardHandler := handler.NewDashboardHandler(deps.Dashboard)
	requireAuth := middleware.Auth(deps.JWTSecret, deps.Sessions)

	// --- Auth routes ---
	e.POST("/auth/signup", authHandler.SignUp)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, requireAuth)

	// --- Authenticated API ---
	v1 := e.Group("/v1", requireAuth)
	v1.GET("/me", authHandler.Me)
	v1.POST("/videos", videoHandler.Upload, uploadBodyLimit(deps.MaxUploadBytes)...)
	v1.GET("/videos", videoHandler.List)
	v1.POST("/videos/:id/plays", videoHandler.Play)
	v1.GET("/dashboard/plays", dashboardHandler.Plays, middleware.RequireAdmin(deps.Profiles))

	// --- Public object URLs ---
	if deps.Objects != nil {
		objectHandler := handler.NewObjectHandler(deps.Objects, deps.Bucket)
		e.GET(storage.ObjectsPrefix+"*", objectHandler.Serve)
		e.HEAD(storage.ObjectsPrefix+"*", objectHandler.Serve)
	}

	// --- Health checks (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.HealthChecks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= 500 {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}

// multipartOverhead covers the form fields and part headers around the file.
const multipartOverhead = 1 << 20

func uploadBodyLimit(maxBytes int64) []echo.MiddlewareFunc {
	if maxBytes <= 0 {
		return nil
	}
	kib := (maxBytes + multipartOverhead + 1023) / 1024
	return []echo.MiddlewareFunc{echomiddleware.BodyLimit(fmt.Sprintf("%dK", kib))}
}
