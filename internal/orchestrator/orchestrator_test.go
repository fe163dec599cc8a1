package orchestrator_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ballpark-labs/preview-service/internal/models"
	"github.com/ballpark-labs/preview-service/internal/orchestrator"
	"github.com/ballpark-labs/preview-service/internal/statsapi"
)

const (
	giantsID  = 137
	dodgersID = 119
)

// fakeStats is a canned StatsSource with per-method error injection and
// call counting.
type fakeStats struct {
	mu    sync.Mutex
	calls map[string]int

	fixture      *statsapi.Game
	fixtureErr   error
	teamStatsErr error
	injuriesErr  error
}

func (f *fakeStats) count(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[method]++
}

func (f *fakeStats) callCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeStats) Fixture(ctx context.Context, teamID int, date string) (*statsapi.Game, error) {
	f.count("Fixture")
	return f.fixture, f.fixtureErr
}

func (f *fakeStats) LiveFeed(ctx context.Context, gamePk int64) (*statsapi.FeedResponse, error) {
	f.count("LiveFeed")
	feed := &statsapi.FeedResponse{}
	feed.GameData.Weather.Condition = "Clear"
	feed.GameData.Weather.Temp = "68"
	feed.GameData.Weather.Wind = "12 mph, Out To CF"
	feed.GameData.ProbablePitchers.Home = &statsapi.PersonRef{ID: 501, FullName: "Logan Webb"}
	feed.GameData.ProbablePitchers.Away = &statsapi.PersonRef{ID: 502, FullName: "Tyler Glasnow"}
	return feed, nil
}

func (f *fakeStats) TeamStats(ctx context.Context, teamID int) (*statsapi.StatsResponse, error) {
	f.count("TeamStats")
	if f.teamStatsErr != nil {
		return nil, f.teamStatsErr
	}
	hitting := statsapi.StatGroup{}
	hitting.Group.DisplayName = "hitting"
	hitting.Splits = []statsapi.StatSplit{{Stat: map[string]interface{}{
		"avg": ".265", "obp": ".330", "slg": ".420", "runsPerGame": 4.6, "homeRuns": float64(142),
	}}}
	return &statsapi.StatsResponse{Stats: []statsapi.StatGroup{hitting}}, nil
}

func (f *fakeStats) RecentGames(ctx context.Context, teamID int, before time.Time) ([]statsapi.Game, error) {
	f.count("RecentGames")
	return nil, nil
}

func (f *fakeStats) HeadToHead(ctx context.Context, teamID, opponentID int, before time.Time) ([]statsapi.Game, error) {
	f.count("HeadToHead")
	return nil, nil
}

func (f *fakeStats) Roster(ctx context.Context, teamID int) (*statsapi.RosterResponse, error) {
	f.count("Roster")
	return &statsapi.RosterResponse{}, nil
}

func (f *fakeStats) PitcherStats(ctx context.Context, personID int) (*statsapi.StatsResponse, error) {
	f.count("PitcherStats")
	return &statsapi.StatsResponse{}, nil
}

func (f *fakeStats) Injuries(ctx context.Context, teamID int) ([]statsapi.InjuryEntry, error) {
	f.count("Injuries")
	if f.injuriesErr != nil {
		return nil, f.injuriesErr
	}
	return nil, nil
}

// fakeCompleter returns a canned analysis and counts invocations
type fakeCompleter struct {
	mu    sync.Mutex
	calls int
	err   error
}

const cannedAnalysis = `Game Overview
The Giants host the Dodgers at Oracle Park.

Prediction & Narrative
The Giants should win this matchup with a clear advantage.`

func (f *fakeCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (*models.CompletionResult, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &models.CompletionResult{
		Content:  cannedAnalysis,
		Usage:    models.TokenUsage{InputTokens: 1200, OutputTokens: 400},
		Cost:     0.0096,
		Provider: "anthropic",
		Model:    "claude-sonnet-4-20250514",
	}, nil
}

func (f *fakeCompleter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func scheduledFixture() *statsapi.Game {
	game := &statsapi.Game{GamePk: 745804, GameDate: "2026-08-24T19:05:00Z"}
	game.Status.DetailedState = "Scheduled"
	game.Venue.Name = "Oracle Park"
	game.Teams.Home = statsapi.GameTeam{
		Team:         statsapi.TeamRef{ID: giantsID, Name: "San Francisco Giants"},
		LeagueRecord: statsapi.WinLoss{Wins: 45, Losses: 42},
	}
	game.Teams.Away = statsapi.GameTeam{
		Team:         statsapi.TeamRef{ID: dodgersID, Name: "Los Angeles Dodgers"},
		LeagueRecord: statsapi.WinLoss{Wins: 52, Losses: 35},
	}
	return game
}

func newOrchestrator(stats *fakeStats, completer *fakeCompleter) *orchestrator.Orchestrator {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return orchestrator.New(orchestrator.Config{
		SelfTeamID:     giantsID,
		SelfTeamName:   "San Francisco Giants",
		ResultCacheTTL: 30 * time.Minute,
	}, stats, completer, log)
}

func TestGamePreview_HappyPath(t *testing.T) {
	stats := &fakeStats{fixture: scheduledFixture()}
	completer := &fakeCompleter{}
	orch := newOrchestrator(stats, completer)

	result := orch.GamePreview(context.Background(), "2026-08-24", models.PreviewOptions{
		IncludeWeather:  true,
		IncludeInjuries: true,
	})

	require.True(t, result.Success)
	assert.Empty(t, result.Error)
	assert.False(t, result.FromCache)

	require.NotNil(t, result.Game)
	assert.Equal(t, int64(745804), result.Game.GamePk)
	assert.Equal(t, "Los Angeles Dodgers", result.Game.Opponent)
	assert.True(t, result.Game.SelfHome)
	assert.Equal(t, models.TeamRecord{Wins: 45, Losses: 42}, result.Game.SelfRec)

	require.NotNil(t, result.Analysis)
	assert.Contains(t, result.Analysis.Structured, models.SectionGameOverview)
	assert.Equal(t, models.OutcomeSelfFavored, result.Analysis.Predictions.Outcome)

	assert.NotEmpty(t, result.Metadata.RequestID)
	assert.Equal(t, "anthropic", result.Metadata.Provider)
	assert.Equal(t, 1600, result.Metadata.TokensUsed)

	assert.Equal(t, 1, completer.callCount())
	assert.Equal(t, 2, stats.callCount("TeamStats"))
	assert.Equal(t, 2, stats.callCount("Injuries"))
}

func TestGamePreview_NoGameScheduled(t *testing.T) {
	stats := &fakeStats{fixture: nil}
	completer := &fakeCompleter{}
	orch := newOrchestrator(stats, completer)

	result := orch.GamePreview(context.Background(), "2026-08-25", models.PreviewOptions{})

	assert.False(t, result.Success)
	assert.Equal(t, "No San Francisco Giants game found for the specified date", result.Error)
	assert.Nil(t, result.Game)
	assert.Nil(t, result.Analysis)
	assert.NotEmpty(t, result.Metadata.RequestID)

	// No game means no prompt and no model spend
	assert.Equal(t, 0, completer.callCount())
}

func TestGamePreview_SecondCallServedFromCache(t *testing.T) {
	stats := &fakeStats{fixture: scheduledFixture()}
	completer := &fakeCompleter{}
	orch := newOrchestrator(stats, completer)
	ctx := context.Background()
	opts := models.PreviewOptions{IncludeWeather: true}

	first := orch.GamePreview(ctx, "2026-08-24", opts)
	second := orch.GamePreview(ctx, "2026-08-24", opts)

	require.True(t, second.Success)
	assert.True(t, second.FromCache)
	assert.False(t, first.FromCache)
	assert.NotEqual(t, first.Metadata.RequestID, second.Metadata.RequestID)
	assert.Equal(t, first.Analysis, second.Analysis)
	assert.Equal(t, 1, completer.callCount())
	assert.Equal(t, 1, stats.callCount("Fixture"))
}

func TestGamePreview_DistinctOptionsAreDistinctCacheEntries(t *testing.T) {
	stats := &fakeStats{fixture: scheduledFixture()}
	completer := &fakeCompleter{}
	orch := newOrchestrator(stats, completer)
	ctx := context.Background()

	orch.GamePreview(ctx, "2026-08-24", models.PreviewOptions{IncludeWeather: true})
	orch.GamePreview(ctx, "2026-08-24", models.PreviewOptions{AnalysisDepth: "detailed"})

	assert.Equal(t, 2, completer.callCount())
	assert.Equal(t, 2, orch.ResultCacheLen())
}

func TestGamePreview_MandatoryFetchFailure(t *testing.T) {
	stats := &fakeStats{fixture: scheduledFixture(), teamStatsErr: errors.New("upstream down")}
	completer := &fakeCompleter{}
	orch := newOrchestrator(stats, completer)

	result := orch.GamePreview(context.Background(), "2026-08-24", models.PreviewOptions{})

	assert.False(t, result.Success)
	assert.Equal(t, "Game data is currently unavailable", result.Error)
	assert.Equal(t, 0, completer.callCount())
}

func TestGamePreview_OptionalFailureDegrades(t *testing.T) {
	stats := &fakeStats{fixture: scheduledFixture(), injuriesErr: errors.New("injury feed down")}
	completer := &fakeCompleter{}
	orch := newOrchestrator(stats, completer)

	result := orch.GamePreview(context.Background(), "2026-08-24", models.PreviewOptions{IncludeInjuries: true})

	// The injury block degrades; the preview itself still generates
	require.True(t, result.Success)
	assert.Equal(t, 1, completer.callCount())
}

func TestGamePreview_CompletionFailure(t *testing.T) {
	stats := &fakeStats{fixture: scheduledFixture()}
	completer := &fakeCompleter{err: errors.New("circuit breaker is open")}
	orch := newOrchestrator(stats, completer)

	result := orch.GamePreview(context.Background(), "2026-08-24", models.PreviewOptions{})

	assert.False(t, result.Success)
	assert.Equal(t, "Analysis generation is currently unavailable", result.Error)
	// The fixture context still comes back for the caller's error page
	require.NotNil(t, result.Game)
	assert.Equal(t, "Los Angeles Dodgers", result.Game.Opponent)
	assert.Nil(t, result.Analysis)
}

func TestGamePreview_InvalidDate(t *testing.T) {
	stats := &fakeStats{fixture: scheduledFixture()}
	completer := &fakeCompleter{}
	orch := newOrchestrator(stats, completer)

	result := orch.GamePreview(context.Background(), "08/24/2026", models.PreviewOptions{})

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "Invalid date")
	assert.Equal(t, 0, stats.callCount("Fixture"))
}

func TestGamePreview_FailureIsNotCached(t *testing.T) {
	stats := &fakeStats{fixture: nil}
	completer := &fakeCompleter{}
	orch := newOrchestrator(stats, completer)
	ctx := context.Background()

	orch.GamePreview(ctx, "2026-08-25", models.PreviewOptions{})
	result := orch.GamePreview(ctx, "2026-08-25", models.PreviewOptions{})

	assert.False(t, result.FromCache)
	assert.Equal(t, 2, stats.callCount("Fixture"))
	assert.Equal(t, 0, orch.ResultCacheLen())
}

func TestAnalysis_Momentum(t *testing.T) {
	stats := &fakeStats{fixture: scheduledFixture()}
	completer := &fakeCompleter{}
	orch := newOrchestrator(stats, completer)

	result := orch.MomentumAnalysis(context.Background(), "2026-08-24")

	require.True(t, result.Success)
	assert.Equal(t, 1, completer.callCount())
	// The focused analysis gathers only what its prompt serializes
	assert.Equal(t, 2, stats.callCount("RecentGames"))
	assert.Equal(t, 0, stats.callCount("TeamStats"))
	assert.Equal(t, 0, stats.callCount("Injuries"))
}

func TestAnalysis_UnknownKind(t *testing.T) {
	stats := &fakeStats{fixture: scheduledFixture()}
	completer := &fakeCompleter{}
	orch := newOrchestrator(stats, completer)

	result := orch.Analysis(context.Background(), "umpires", "2026-08-24")

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, `Unknown analysis kind "umpires"`)
	assert.Equal(t, 0, completer.callCount())
}

func TestAnalysis_CachedSeparatelyFromPreview(t *testing.T) {
	stats := &fakeStats{fixture: scheduledFixture()}
	completer := &fakeCompleter{}
	orch := newOrchestrator(stats, completer)
	ctx := context.Background()

	orch.GamePreview(ctx, "2026-08-24", models.PreviewOptions{})
	first := orch.PitcherMatchupAnalysis(ctx, "2026-08-24")
	second := orch.PitcherMatchupAnalysis(ctx, "2026-08-24")

	require.True(t, first.Success)
	assert.False(t, first.FromCache)
	assert.True(t, second.FromCache)
	assert.Equal(t, 2, completer.callCount())
}
