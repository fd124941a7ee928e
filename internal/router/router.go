package router

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"focustimer/internal/handler"
	"focustimer/internal/middleware"
	"focustimer/internal/service"
)

type Handlers struct {
	Auth       *handler.AuthHandler
	Timer      *handler.TimerHandler
	Settings   *handler.SettingsHandler
	Statistics *handler.StatisticsHandler
	Data       *handler.DataHandler
}

type Options struct {
	// AuthService guards /api when set. Nil serves the API without auth.
	AuthService *service.AuthService
	Logger      *slog.Logger
	CORSOrigins []string
}

func New(h Handlers, opts Options) *gin.Engine {
	engine := gin.New()
	if opts.Logger != nil {
		engine.Use(middleware.RequestLogger(opts.Logger))
	}
	engine.Use(gin.Recovery(), middleware.CORS(opts.CORSOrigins))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")
	protected := api.Group("")
	if opts.AuthService != nil && h.Auth != nil {
		auth := api.Group("/auth")
		auth.POST("/setup", h.Auth.Setup)
		auth.POST("/login", h.Auth.Login)
		protected.Use(middleware.Auth(opts.AuthService))
	}

	timer := protected.Group("/timer")
	timer.GET("/state", h.Timer.GetState)
	timer.POST("/start", h.Timer.Start)
	timer.POST("/pause", h.Timer.Pause)
	timer.POST("/resume", h.Timer.Resume)
	timer.POST("/reset", h.Timer.Reset)
	timer.POST("/skip", h.Timer.Skip)
	timer.POST("/next", h.Timer.Next)
	timer.PUT("/task", h.Timer.SetTask)

	settings := protected.Group("/settings")
	settings.GET("", h.Settings.Get)
	settings.PUT("", h.Settings.Update)
	settings.POST("/reset", h.Settings.Reset)
	settings.GET("/presets", h.Settings.Presets)
	settings.POST("/presets/:id", h.Settings.ApplyPreset)

	statistics := protected.Group("/statistics")
	statistics.GET("", h.Statistics.Get)
	statistics.GET("/daily", h.Statistics.Daily)
	statistics.POST("/rebuild", h.Statistics.Rebuild)
	statistics.DELETE("", h.Statistics.Reset)

	protected.GET("/sessions", h.Statistics.Sessions)
	protected.GET("/export", h.Data.Export)
	protected.POST("/import", h.Data.Import)

	return engine
}
