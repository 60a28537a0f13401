package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/habitcoach/coaching-system/internal/api/handler"
	"github.com/habitcoach/coaching-system/internal/api/middleware"
	"github.com/habitcoach/coaching-system/internal/core/domain"
	"github.com/habitcoach/coaching-system/internal/core/ports"
	"github.com/habitcoach/coaching-system/internal/infrastructure/db/sqlite"
)

// Dependencies groups everything the router needs. Services are
// constructed by the caller so tests can pass stubs.
type Dependencies struct {
	Users     ports.UserService
	Habits    ports.HabitService
	Bloodwork ports.BloodworkService
	Sync      ports.SyncService
	Admin     ports.AdminService
	Voice     ports.VoiceService

	Backing *sqlite.BackingStore
	Redis   *redis.Client // optional
	Log     zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("habitcoach"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Users)
	habitHandler := handler.NewHabitHandler(deps.Habits)
	bloodworkHandler := handler.NewBloodworkHandler(deps.Bloodwork)
	syncHandler := handler.NewSyncHandler(deps.Sync)
	voiceHandler := handler.NewVoiceHandler(deps.Voice)
	adminHandler := handler.NewAdminHandler(deps.Admin, deps.Users)

	authRequired := middleware.Auth(deps.Users)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	// --- Public routes ---
	e.POST("/v1/auth/register", authHandler.Register)
	e.POST("/v1/auth/login", authHandler.Login)

	// --- Authenticated routes ---
	v1 := e.Group("/v1", authRequired)

	v1.POST("/habits", habitHandler.Save)
	v1.GET("/habits", habitHandler.List)
	v1.GET("/habits/:date", habitHandler.ByDate)

	v1.POST("/bloodwork", bloodworkHandler.Upload)
	v1.GET("/bloodwork", bloodworkHandler.List)

	v1.GET("/sync", syncHandler.Since)

	v1.POST("/voice/transcribe", voiceHandler.Transcribe)
	v1.POST("/voice/extract", voiceHandler.Extract)
	v1.POST("/voice/apply", voiceHandler.Apply)

	// --- Admin routes ---
	admin := v1.Group("/admin", adminOnly)
	admin.GET("/dashboard", adminHandler.Dashboard)
	admin.GET("/clients", adminHandler.Clients)
	admin.POST("/clients/:id/assign", adminHandler.AssignClient)
	admin.PUT("/users/:id", adminHandler.UpdateUser)
	admin.GET("/changelogs", adminHandler.ChangeLogs)
	admin.GET("/export", adminHandler.Export)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Backing, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
