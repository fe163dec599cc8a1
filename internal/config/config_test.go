package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ballpark-labs/preview-service/internal/config"
)

func validConfig() *config.Config {
	return &config.Config{
		Port:             "8080",
		Env:              "development",
		SelfTeamID:       137,
		SelfTeamName:     "San Francisco Giants",
		StatsAPIBaseURL:  "https://statsapi.mlb.com/api/v1",
		StatsAPITimeout:  10 * time.Second,
		LLMProvider:      "anthropic",
		RetryAttempts:    3,
		BreakerThreshold: 5,
	}
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*config.Config)
		errMsg string
	}{
		{
			name:   "missing team id",
			mutate: func(c *config.Config) { c.SelfTeamID = 0 },
			errMsg: "SELF_TEAM_ID",
		},
		{
			name:   "missing team name",
			mutate: func(c *config.Config) { c.SelfTeamName = "" },
			errMsg: "SELF_TEAM_NAME",
		},
		{
			name:   "missing stats base url",
			mutate: func(c *config.Config) { c.StatsAPIBaseURL = "" },
			errMsg: "STATS_API_BASE_URL",
		},
		{
			name:   "zero retry attempts",
			mutate: func(c *config.Config) { c.RetryAttempts = 0 },
			errMsg: "RETRY_ATTEMPTS",
		},
		{
			name:   "unsupported provider",
			mutate: func(c *config.Config) { c.LLMProvider = "gemini" },
			errMsg: "LLM_PROVIDER",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestConfigEnvironmentHelpers(t *testing.T) {
	cfg := validConfig()
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())

	cfg.Env = "production"
	assert.False(t, cfg.IsDevelopment())
	assert.True(t, cfg.IsProduction())
}
