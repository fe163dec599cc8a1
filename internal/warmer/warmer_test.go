package warmer_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ballpark-labs/preview-service/internal/models"
	"github.com/ballpark-labs/preview-service/internal/warmer"
)

type countingGenerator struct {
	calls int32
}

func (g *countingGenerator) GamePreview(ctx context.Context, date string, opts models.PreviewOptions) *models.PreviewResult {
	atomic.AddInt32(&g.calls, 1)
	return &models.PreviewResult{Success: true, Date: date}
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestWarmer_InvalidScheduleFailsStart(t *testing.T) {
	w := warmer.New(&countingGenerator{}, "not a cron spec", quietLogger())
	assert.Error(t, w.Start())
}

func TestWarmer_StartAndStop(t *testing.T) {
	generator := &countingGenerator{}
	w := warmer.New(generator, "0 9 * * *", quietLogger())

	require.NoError(t, w.Start())
	w.Stop()

	// The schedule never fired in this window
	assert.EqualValues(t, 0, atomic.LoadInt32(&generator.calls))
}
