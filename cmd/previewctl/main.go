package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ballpark-labs/preview-service/internal/config"
	"github.com/ballpark-labs/preview-service/internal/llm"
	"github.com/ballpark-labs/preview-service/internal/logger"
	"github.com/ballpark-labs/preview-service/internal/models"
	"github.com/ballpark-labs/preview-service/internal/orchestrator"
	"github.com/ballpark-labs/preview-service/internal/resilience"
	"github.com/ballpark-labs/preview-service/internal/statsapi"
)

// previewctl generates one preview or analysis from the command line and
// prints the result envelope as JSON. It builds the same pipeline as the
// server, minus the HTTP layer and the warmer.

var (
	flagDate     string
	flagWeather  bool
	flagInjuries bool
	flagDepth    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "previewctl",
		Short: "Generate a game preview for the configured team",
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, err := buildPipeline()
			if err != nil {
				return err
			}
			result := orch.GamePreview(context.Background(), flagDate, models.PreviewOptions{
				IncludeWeather:  flagWeather,
				IncludeInjuries: flagInjuries,
				AnalysisDepth:   flagDepth,
			})
			return printResult(result)
		},
	}
	rootCmd.PersistentFlags().StringVar(&flagDate, "date", "", "game date (YYYY-MM-DD, default today)")
	rootCmd.Flags().BoolVar(&flagWeather, "weather", true, "include the weather block")
	rootCmd.Flags().BoolVar(&flagInjuries, "injuries", true, "include the injury block")
	rootCmd.Flags().StringVar(&flagDepth, "depth", "standard", "analysis depth (standard or detailed)")

	analysisCmd := &cobra.Command{
		Use:       "analysis [kind]",
		Short:     "Generate a focused analysis (pitching, momentum, head-to-head, injuries)",
		Args:      cobra.ExactArgs(1),
		ValidArgs: orchestrator.AnalysisKinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, err := buildPipeline()
			if err != nil {
				return err
			}
			return printResult(orch.Analysis(context.Background(), args[0], flagDate))
		},
	}
	rootCmd.AddCommand(analysisCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildPipeline() (*orchestrator.Orchestrator, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Keep stdout clean for the JSON result
	log := logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.WarnLevel)

	exec := resilience.NewExecutor(resilience.Settings{
		RetryAttempts:    cfg.RetryAttempts,
		RetryBaseDelay:   cfg.RetryBaseDelay,
		BreakerThreshold: cfg.BreakerThreshold,
		ResetWindow:      cfg.BreakerResetWindow,
	}, []string{statsapi.Dependency, llm.Dependency}, log)

	gateway := statsapi.NewGateway(statsapi.Config{
		BaseURL:  cfg.StatsAPIBaseURL,
		Timeout:  cfg.StatsAPITimeout,
		CacheTTL: cfg.StatsAPICacheTTL,
	}, exec, log)

	llmClient, err := llm.NewClient(llm.Config{
		Provider:    cfg.LLMProvider,
		Model:       cfg.LLMModel,
		APIKey:      cfg.LLMAPIKey,
		BaseURL:     cfg.LLMBaseURL,
		Timeout:     cfg.LLMTimeout,
		MaxTokens:   cfg.LLMMaxTokens,
		Temperature: cfg.LLMTemperature,
	}, exec, log)
	if err != nil {
		return nil, err
	}

	return orchestrator.New(orchestrator.Config{
		SelfTeamID:     cfg.SelfTeamID,
		SelfTeamName:   cfg.SelfTeamName,
		ResultCacheTTL: cfg.ResultCacheTTL,
	}, gateway, llmClient, log), nil
}

func printResult(result *models.PreviewResult) error {
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	if !result.Success {
		os.Exit(1)
	}
	return nil
}
