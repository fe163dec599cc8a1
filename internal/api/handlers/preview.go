package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ballpark-labs/preview-service/internal/models"
)

// PreviewGenerator is the orchestrator surface the HTTP layer consumes
type PreviewGenerator interface {
	GamePreview(ctx context.Context, date string, opts models.PreviewOptions) *models.PreviewResult
	Analysis(ctx context.Context, kind, date string) *models.PreviewResult
}

// PreviewHandler handles the preview and analysis endpoints
type PreviewHandler struct {
	generator PreviewGenerator
	logger    *logrus.Logger
}

// NewPreviewHandler creates a new preview handler
func NewPreviewHandler(generator PreviewGenerator, logger *logrus.Logger) *PreviewHandler {
	return &PreviewHandler{generator: generator, logger: logger}
}

// GetPreview generates the game preview for the requested date.
// GET /api/v1/preview?date=YYYY-MM-DD&weather=true&injuries=true&depth=standard
func (h *PreviewHandler) GetPreview(c *gin.Context) {
	opts := models.PreviewOptions{
		AnalysisDepth: c.DefaultQuery("depth", "standard"),
	}

	var err error
	if opts.IncludeWeather, err = boolQuery(c, "weather", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid weather parameter, expected true or false"})
		return
	}
	if opts.IncludeInjuries, err = boolQuery(c, "injuries", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid injuries parameter, expected true or false"})
		return
	}
	if opts.AnalysisDepth != "standard" && opts.AnalysisDepth != "detailed" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid depth parameter, expected standard or detailed"})
		return
	}

	date := c.Query("date")
	h.logger.WithFields(logrus.Fields{
		"component": "preview_handler",
		"date":      date,
		"depth":     opts.AnalysisDepth,
	}).Info("Processing preview request")

	result := h.generator.GamePreview(c.Request.Context(), date, opts)
	c.JSON(http.StatusOK, result)
}

// GetAnalysis runs one of the focused secondary analyses.
// GET /api/v1/analysis/:kind?date=YYYY-MM-DD
func (h *PreviewHandler) GetAnalysis(c *gin.Context) {
	kind := c.Param("kind")
	date := c.Query("date")

	h.logger.WithFields(logrus.Fields{
		"component": "preview_handler",
		"kind":      kind,
		"date":      date,
	}).Info("Processing analysis request")

	result := h.generator.Analysis(c.Request.Context(), kind, date)
	c.JSON(http.StatusOK, result)
}

func boolQuery(c *gin.Context, name string, fallback bool) (bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.ParseBool(raw)
}
