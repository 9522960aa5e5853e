package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/opsdash/internal/domain/notify"
	"github.com/yanqian/opsdash/internal/domain/sysstats"
	"github.com/yanqian/opsdash/internal/domain/weather"
	"github.com/yanqian/opsdash/pkg/util"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	statsSvc   sysstats.Service
	weatherSvc weather.Service
	notifySvc  notify.Service
	logger     *slog.Logger
	now        func() time.Time
}

// NewHandler constructs the root HTTP handler.
func NewHandler(statsSvc sysstats.Service, weatherSvc weather.Service, notifySvc notify.Service, logger *slog.Logger) *Handler {
	return &Handler{
		statsSvc:   statsSvc,
		weatherSvc: weatherSvc,
		notifySvc:  notifySvc,
		logger:     logger.With("component", "http.handler"),
		now:        util.NowUTC,
	}
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondList[T any](c *gin.Context, items []T) {
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(items), "data": items})
}

// queryLimit returns 0 for a missing or unparsable limit so services apply their default.
func queryLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil {
		return 0
	}
	return limit
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "server_time": h.now()})
}

// CurrentStats captures a live snapshot and persists it. The capture outlives a
// client hang-up; the sample window bounds it.
func (h *Handler) CurrentStats(c *gin.Context) {
	snap, err := h.statsSvc.Capture(context.WithoutCancel(c.Request.Context()))
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	respondOK(c, snap)
}

// LatestStats returns the most recent persisted snapshot.
func (h *Handler) LatestStats(c *gin.Context) {
	snap, found, err := h.statsSvc.Latest(c.Request.Context())
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	if !found {
		abortWithError(c, NewHTTPError(http.StatusNotFound, "not_found", "no system stats recorded yet", nil))
		return
	}
	respondOK(c, snap)
}

// StatsHistory lists recent snapshots, newest first.
func (h *Handler) StatsHistory(c *gin.Context) {
	items, err := h.statsSvc.History(c.Request.Context(), queryLimit(c))
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	respondList(c, items)
}

// CurrentWeather returns the latest stored observation.
func (h *Handler) CurrentWeather(c *gin.Context) {
	snap, found, err := h.weatherSvc.Latest(c.Request.Context())
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	if !found {
		abortWithError(c, NewHTTPError(http.StatusNotFound, "not_found", "no weather data available yet", nil))
		return
	}
	respondOK(c, snap)
}

// WeatherHistory lists recent observations, newest first.
func (h *Handler) WeatherHistory(c *gin.Context) {
	items, err := h.weatherSvc.History(c.Request.Context(), queryLimit(c))
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	respondList(c, items)
}

// RefreshWeather fetches now and surfaces provider failures to the caller.
func (h *Handler) RefreshWeather(c *gin.Context) {
	if !h.weatherSvc.Enabled() {
		abortWithError(c, NewHTTPError(http.StatusServiceUnavailable, "weather_disabled", "weather api key is not configured", nil))
		return
	}
	// The provider client timeout bounds the fetch; a hang-up must not abort it.
	snap, fetched, err := h.weatherSvc.FetchAndStore(context.WithoutCancel(c.Request.Context()))
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	if !fetched {
		abortWithError(c, NewHTTPError(http.StatusServiceUnavailable, "weather_disabled", "weather api key is not configured", nil))
		return
	}
	respondOK(c, snap)
}

// NotificationSchedule lists every configured reminder window.
func (h *Handler) NotificationSchedule(c *gin.Context) {
	respondOK(c, h.notifySvc.Schedule())
}

// ActiveNotifications reports which reminder windows contain the current time.
func (h *Handler) ActiveNotifications(c *gin.Context) {
	respondOK(c, h.notifySvc.Active(c.Request.Context(), c.ClientIP()))
}
