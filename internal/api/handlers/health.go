package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ballpark-labs/preview-service/internal/llm"
)

// BreakerReporter reports circuit breaker states by dependency name
type BreakerReporter interface {
	States() map[string]string
	IsOpen(name string) bool
}

// UsageReporter reports the completion client's running usage counters
type UsageReporter interface {
	UsageStats() llm.UsageStats
}

// CacheReporter reports cache entry counts
type CacheReporter interface {
	CacheLen() int
}

// HealthHandler handles health and usage endpoints
type HealthHandler struct {
	breakers   BreakerReporter
	usage      UsageReporter
	statsCache CacheReporter
	logger     *logrus.Logger
	startTime  time.Time
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Service   string            `json:"service"`
	Uptime    string            `json:"uptime"`
	Breakers  map[string]string `json:"breakers"`
}

// UsageResponse represents the usage and dependency-state snapshot
type UsageResponse struct {
	Timestamp         time.Time         `json:"timestamp"`
	LLM               llm.UsageStats    `json:"llm"`
	Breakers          map[string]string `json:"breakers"`
	StatsCacheEntries int               `json:"stats_cache_entries"`
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(breakers BreakerReporter, usage UsageReporter, statsCache CacheReporter, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{
		breakers:   breakers,
		usage:      usage,
		statsCache: statsCache,
		logger:     logger,
		startTime:  time.Now(),
	}
}

// GetHealth reports service liveness and breaker states. The service is
// degraded, not down, while a breaker is open.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	status := "healthy"
	states := h.breakers.States()
	for name := range states {
		if h.breakers.IsOpen(name) {
			status = "degraded"
		}
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    status,
		Timestamp: time.Now(),
		Service:   "preview-service",
		Uptime:    time.Since(h.startTime).Truncate(time.Second).String(),
		Breakers:  states,
	})
}

// GetUsage reports LLM spend counters and dependency state
func (h *HealthHandler) GetUsage(c *gin.Context) {
	c.JSON(http.StatusOK, UsageResponse{
		Timestamp:         time.Now(),
		LLM:               h.usage.UsageStats(),
		Breakers:          h.breakers.States(),
		StatsCacheEntries: h.statsCache.CacheLen(),
	})
}
