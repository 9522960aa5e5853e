package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/opsdash/internal/domain/auth"
	"github.com/yanqian/opsdash/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, authorizer auth.Authorizer) *http.Server {
	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        newEngine(cfg, handler, authorizer, handler.logger),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

func newEngine(cfg *config.Config, handler *Handler, authorizer auth.Authorizer, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(logger),
		corsMiddleware(cfg.HTTP.CORSOrigins),
		errorHandlingMiddleware(logger),
		rateLimitMiddleware(cfg.HTTP.RateLimit, logger),
	)

	router.GET("/health", handler.Health)

	api := router.Group("/api", authMiddleware(authorizer))
	{
		api.GET("/system-stats/current", handler.CurrentStats)
		api.GET("/system-stats/latest", handler.LatestStats)
		api.GET("/system-stats/history", handler.StatsHistory)

		api.GET("/weather/current", handler.CurrentWeather)
		api.GET("/weather/history", handler.WeatherHistory)
		api.POST("/weather/refresh", handler.RefreshWeather)

		api.GET("/notifications/schedule", handler.NotificationSchedule)
		api.GET("/notifications/active", handler.ActiveNotifications)
	}

	router.NoRoute(func(c *gin.Context) {
		abortWithError(c, NewHTTPError(http.StatusNotFound, "not_found", "route "+c.Request.URL.Path+" not found", nil))
	})

	return router
}
