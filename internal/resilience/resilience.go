package resilience

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// Settings configures retry and circuit-breaker behavior for all protected
// dependencies.
type Settings struct {
	RetryAttempts    int
	RetryBaseDelay   time.Duration
	BreakerThreshold int
	ResetWindow      time.Duration
}

// Executor wraps calls to external dependencies with retry and a per-dependency
// circuit breaker. Retries happen inside the breaker: while the breaker is
// open, calls fail fast without attempting any I/O.
type Executor struct {
	breakers map[string]*gobreaker.CircuitBreaker
	settings Settings
	logger   *logrus.Logger
	sleep    func(time.Duration)
}

// NewExecutor creates an executor with one circuit breaker per named
// dependency.
func NewExecutor(settings Settings, dependencies []string, logger *logrus.Logger) *Executor {
	breakers := make(map[string]*gobreaker.CircuitBreaker, len(dependencies))
	for _, name := range dependencies {
		name := name
		breakers[name] = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Timeout:     settings.ResetWindow,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return int(counts.ConsecutiveFailures) >= settings.BreakerThreshold
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.WithFields(logrus.Fields{
					"component": "resilience",
					"service":   name,
					"from":      from.String(),
					"to":        to.String(),
				}).Info("Circuit breaker state changed")
			},
		})
	}

	return &Executor{
		breakers: breakers,
		settings: settings,
		logger:   logger,
		sleep:    time.Sleep,
	}
}

// Call executes fn against the named dependency with retry and breaker
// protection. The delay before attempt n is baseDelay*n; context cancellation
// stops further attempts.
func (e *Executor) Call(ctx context.Context, name string, fn func() (interface{}, error)) (interface{}, error) {
	breaker, exists := e.breakers[name]
	if !exists {
		e.logger.WithFields(logrus.Fields{
			"component": "resilience",
			"service":   name,
		}).Warn("No circuit breaker found for dependency, executing without protection")
		return e.withRetry(ctx, name, fn)
	}

	return breaker.Execute(func() (interface{}, error) {
		return e.withRetry(ctx, name, fn)
	})
}

func (e *Executor) withRetry(ctx context.Context, name string, fn func() (interface{}, error)) (interface{}, error) {
	var lastErr error
	for attempt := 1; attempt <= e.settings.RetryAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
			e.sleep(e.settings.RetryBaseDelay * time.Duration(attempt-1))
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		e.logger.WithFields(logrus.Fields{
			"component": "resilience",
			"service":   name,
			"attempt":   attempt,
			"max":       e.settings.RetryAttempts,
		}).WithError(err).Warn("Dependency call failed")

		// Per-call timeouts are retried; a dead caller context is not
		if ctx.Err() != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

// State returns the current state of a dependency's breaker
func (e *Executor) State(name string) gobreaker.State {
	if breaker, exists := e.breakers[name]; exists {
		return breaker.State()
	}
	return gobreaker.StateClosed
}

// States reports every breaker's state, keyed by dependency name
func (e *Executor) States() map[string]string {
	states := make(map[string]string, len(e.breakers))
	for name, breaker := range e.breakers {
		states[name] = breaker.State().String()
	}
	return states
}

// IsOpen reports whether the named dependency's breaker is open
func (e *Executor) IsOpen(name string) bool {
	return e.State(name) == gobreaker.StateOpen
}

// SetSleep overrides the retry delay function. Test hook.
func (e *Executor) SetSleep(sleep func(time.Duration)) {
	e.sleep = sleep
}
