package api

import (
	"net/http"

	"trainerhub/app/internal/config"
	"trainerhub/app/internal/domain"
	"trainerhub/app/internal/edgeguard"
	"trainerhub/app/internal/metrics"
	"trainerhub/app/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Services bundles what the routes need.
type Services struct {
	Auth      service.AuthService
	Clients   service.ClientService
	Sessions  service.SessionService
	Templates service.WorkoutTemplateService
	Exercises service.ExerciseService
	Progress  service.ProgressService
}

// RouterConfig carries the non-service dependencies of the router.
type RouterConfig struct {
	Cookie         config.CookieConfig
	AllowedOrigins []string
	Metrics        *metrics.Metrics
	MetricsHandler http.Handler // served at /metrics when set
	Logger         *zap.Logger
}

// NewRouter builds the engine with the standard middleware chain and all routes.
func NewRouter(svc Services, cfg RouterConfig) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.Nop()
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		RequestLogger(cfg.Logger),
		MetricsMiddleware(cfg.Metrics),
		CORSMiddleware(cfg.AllowedOrigins),
	)
	SetupRoutes(router, svc, cfg)
	return router
}

func SetupRoutes(router *gin.Engine, svc Services, cfg RouterConfig) {
	logger := cfg.Logger

	authHandler := NewAuthHandler(svc.Auth, cfg.Cookie, cfg.Metrics, logger)
	clientHandler := NewClientHandler(svc.Clients, logger)
	sessionHandler := NewSessionHandler(svc.Sessions, logger)
	templateHandler := NewWorkoutTemplateHandler(svc.Templates, logger)
	exerciseHandler := NewExerciseHandler(svc.Exercises, logger)
	progressHandler := NewProgressHandler(svc.Progress, logger)
	pageHandler := NewPageHandler()

	authMiddleware := AuthMiddleware(svc.Auth, cfg.Cookie.Name, logger)
	trainerOnly := RoleMiddleware(domain.RoleTrainer)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if cfg.MetricsHandler != nil {
		router.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
	}

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/jwt", authHandler.IssueToken)
			authGroup.POST("/logout", authHandler.Logout)
			authGroup.GET("/me", authMiddleware, authHandler.Me)
		}
	}

	// Business data belongs to trainers; every query below is scoped to
	// the authenticated trainer.
	protected := api.Group("")
	protected.Use(authMiddleware, trainerOnly)
	{
		clients := protected.Group("/clients")
		{
			clients.GET("", clientHandler.List)
			clients.POST("", clientHandler.Create)
			clients.GET("/:id", clientHandler.Get)
			clients.PUT("/:id", clientHandler.Update)
			clients.DELETE("/:id", clientHandler.Delete)
			clients.PUT("/:id/assign-template", clientHandler.AssignTemplate)
			clients.DELETE("/:id/assign-template", clientHandler.RemoveTemplate)
		}

		sessions := protected.Group("/sessions")
		{
			sessions.GET("", sessionHandler.List)
			sessions.POST("", sessionHandler.Create)
			sessions.POST("/bulk-create", sessionHandler.BulkCreate)
			sessions.PUT("/:id", sessionHandler.Update)
			sessions.DELETE("/:id", sessionHandler.Delete)
		}

		templates := protected.Group("/workout-templates")
		{
			templates.GET("", templateHandler.List)
			templates.POST("", templateHandler.Create)
			templates.GET("/:id", templateHandler.Get)
			templates.PUT("/:id", templateHandler.Update)
			templates.DELETE("/:id", templateHandler.Delete)
		}

		exercises := protected.Group("/exercises")
		{
			exercises.GET("", exerciseHandler.GetTrainerExercises)
			exercises.POST("", exerciseHandler.CreateExercise)
		}

		progress := protected.Group("/progress")
		{
			progress.POST("", progressHandler.Create)
			progress.GET("/:id", progressHandler.ListForClient)
			progress.GET("/:id/stats", progressHandler.Stats)
			progress.PUT("/:id", progressHandler.Update)
			progress.DELETE("/:id", progressHandler.Delete)
			progress.POST("/:id/photo", progressHandler.PhotoUploadURL)
			progress.GET("/:id/photo", progressHandler.PhotoDownloadURL)
		}
	}

	// --- Pages ---
	guard := edgeguard.New(svc.Auth, cfg.Cookie.Name, cfg.Metrics, logger).Middleware()
	pages := router.Group("")
	pages.Use(guard)
	{
		pages.GET("/", pageHandler.Serve("Home"))
		pages.GET("/dashboard", pageHandler.Serve("Dashboard"))
		pages.GET("/clients", pageHandler.Serve("Clients"))
		pages.GET("/clients/:id", pageHandler.Serve("Client"))
		pages.GET("/workouts", pageHandler.Serve("Workouts"))
		pages.GET("/workout_templates", pageHandler.Serve("Workout Templates"))
		pages.GET("/calendar", pageHandler.Serve("Calendar"))
		pages.GET("/progress", pageHandler.Serve("Progress"))
		pages.GET("/progress/:id", pageHandler.Serve("Client Progress"))
	}
	// Deeper sub-paths of protected areas still get guarded before the 404.
	router.NoRoute(guard, pageHandler.NotFound)
}
