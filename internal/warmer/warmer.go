package warmer

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/ballpark-labs/preview-service/internal/models"
)

// PreviewGenerator is the slice of the orchestrator the warmer drives
type PreviewGenerator interface {
	GamePreview(ctx context.Context, date string, opts models.PreviewOptions) *models.PreviewResult
}

// Warmer pre-generates today's preview on a cron schedule so the first
// morning request is served from cache instead of paying the full pipeline.
type Warmer struct {
	cron      *cron.Cron
	generator PreviewGenerator
	schedule  string
	timeout   time.Duration
	logger    *logrus.Logger
}

// New creates a warmer on the given cron schedule (standard five-field spec)
func New(generator PreviewGenerator, schedule string, logger *logrus.Logger) *Warmer {
	return &Warmer{
		cron:      cron.New(),
		generator: generator,
		schedule:  schedule,
		timeout:   5 * time.Minute,
		logger:    logger,
	}
}

// Start registers the warm job and begins the schedule
func (w *Warmer) Start() error {
	if _, err := w.cron.AddFunc(w.schedule, w.warmToday); err != nil {
		return err
	}
	w.cron.Start()
	w.logger.WithFields(logrus.Fields{
		"component": "preview_warmer",
		"schedule":  w.schedule,
	}).Info("Preview warmer started")
	return nil
}

// Stop halts the schedule; a running warm job finishes on its own
func (w *Warmer) Stop() {
	w.cron.Stop()
	w.logger.WithField("component", "preview_warmer").Info("Preview warmer stopped")
}

func (w *Warmer) warmToday() {
	log := w.logger.WithField("component", "preview_warmer")
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("Warm job panicked")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	date := time.Now().Format("2006-01-02")
	start := time.Now()
	result := w.generator.GamePreview(ctx, date, models.PreviewOptions{
		IncludeWeather:  true,
		IncludeInjuries: true,
	})

	log = log.WithFields(logrus.Fields{
		"date":     date,
		"duration": time.Since(start).String(),
	})
	if !result.Success {
		log.WithField("reason", result.Error).Info("Warm job finished without a preview")
		return
	}
	log.Info("Preview warmed")
}
