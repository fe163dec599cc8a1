package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// Server
	Port string `mapstructure:"PORT"`
	Env  string `mapstructure:"ENV"`

	// Logging
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Team of interest. All previews are generated from this team's
	// perspective; the opponent is resolved per fixture.
	SelfTeamID   int    `mapstructure:"SELF_TEAM_ID"`
	SelfTeamName string `mapstructure:"SELF_TEAM_NAME"`

	// Sports data API
	StatsAPIBaseURL  string        `mapstructure:"STATS_API_BASE_URL"`
	StatsAPITimeout  time.Duration `mapstructure:"STATS_API_TIMEOUT"`
	StatsAPICacheTTL time.Duration `mapstructure:"STATS_API_CACHE_TTL"`

	// LLM provider
	LLMProvider    string        `mapstructure:"LLM_PROVIDER"` // "anthropic" or "openai"
	LLMModel       string        `mapstructure:"LLM_MODEL"`
	LLMAPIKey      string        `mapstructure:"LLM_API_KEY"`
	LLMBaseURL     string        `mapstructure:"LLM_BASE_URL"`
	LLMTimeout     time.Duration `mapstructure:"LLM_TIMEOUT"`
	LLMMaxTokens   int           `mapstructure:"LLM_MAX_TOKENS"`
	LLMTemperature float64       `mapstructure:"LLM_TEMPERATURE"`

	// Resilience
	RetryAttempts      int           `mapstructure:"RETRY_ATTEMPTS"`
	RetryBaseDelay     time.Duration `mapstructure:"RETRY_BASE_DELAY"`
	BreakerThreshold   int           `mapstructure:"CIRCUIT_BREAKER_THRESHOLD"`
	BreakerResetWindow time.Duration `mapstructure:"CIRCUIT_BREAKER_RESET_WINDOW"`

	// Result caching
	ResultCacheTTL time.Duration `mapstructure:"RESULT_CACHE_TTL"`

	// Preview warming
	WarmerEnabled  bool   `mapstructure:"WARMER_ENABLED"`
	WarmerSchedule string `mapstructure:"WARMER_SCHEDULE"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")

	// Default to the San Francisco Giants, the original team of interest
	viper.SetDefault("SELF_TEAM_ID", 137)
	viper.SetDefault("SELF_TEAM_NAME", "San Francisco Giants")

	viper.SetDefault("STATS_API_BASE_URL", "https://statsapi.mlb.com/api/v1")
	viper.SetDefault("STATS_API_TIMEOUT", "10s")
	viper.SetDefault("STATS_API_CACHE_TTL", "5m")

	viper.SetDefault("LLM_PROVIDER", "anthropic")
	viper.SetDefault("LLM_MODEL", "")
	viper.SetDefault("LLM_API_KEY", "")
	viper.SetDefault("LLM_BASE_URL", "")
	viper.SetDefault("LLM_TIMEOUT", "60s")
	viper.SetDefault("LLM_MAX_TOKENS", 2000)
	viper.SetDefault("LLM_TEMPERATURE", 0.7)

	viper.SetDefault("RETRY_ATTEMPTS", 3)
	viper.SetDefault("RETRY_BASE_DELAY", "1s")
	viper.SetDefault("CIRCUIT_BREAKER_THRESHOLD", 5)
	viper.SetDefault("CIRCUIT_BREAKER_RESET_WINDOW", "60s")

	viper.SetDefault("RESULT_CACHE_TTL", "30m")

	viper.SetDefault("WARMER_ENABLED", false)
	viper.SetDefault("WARMER_SCHEDULE", "0 9 * * *")

	// Read from environment
	viper.AutomaticEnv()

	// Read config file if exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks that all configuration values are usable
func (c *Config) Validate() error {
	if c.SelfTeamID <= 0 {
		return fmt.Errorf("SELF_TEAM_ID must be a positive team identifier")
	}
	if c.SelfTeamName == "" {
		return fmt.Errorf("SELF_TEAM_NAME is required")
	}
	if c.StatsAPIBaseURL == "" {
		return fmt.Errorf("STATS_API_BASE_URL is required")
	}
	if c.RetryAttempts < 1 {
		return fmt.Errorf("RETRY_ATTEMPTS must be at least 1")
	}
	if c.BreakerThreshold < 1 {
		return fmt.Errorf("CIRCUIT_BREAKER_THRESHOLD must be at least 1")
	}
	if c.LLMProvider != "anthropic" && c.LLMProvider != "openai" {
		return fmt.Errorf("LLM_PROVIDER must be one of: anthropic, openai")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
