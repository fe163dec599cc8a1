package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ballpark-labs/preview-service/internal/cache"
	"github.com/ballpark-labs/preview-service/internal/formatter"
	"github.com/ballpark-labs/preview-service/internal/llm"
	"github.com/ballpark-labs/preview-service/internal/models"
	"github.com/ballpark-labs/preview-service/internal/parser"
	"github.com/ballpark-labs/preview-service/internal/statsapi"
)

// StatsSource is the slice of the stats gateway the orchestrator consumes
type StatsSource interface {
	Fixture(ctx context.Context, teamID int, date string) (*statsapi.Game, error)
	LiveFeed(ctx context.Context, gamePk int64) (*statsapi.FeedResponse, error)
	TeamStats(ctx context.Context, teamID int) (*statsapi.StatsResponse, error)
	RecentGames(ctx context.Context, teamID int, before time.Time) ([]statsapi.Game, error)
	HeadToHead(ctx context.Context, teamID, opponentID int, before time.Time) ([]statsapi.Game, error)
	Roster(ctx context.Context, teamID int) (*statsapi.RosterResponse, error)
	PitcherStats(ctx context.Context, personID int) (*statsapi.StatsResponse, error)
	Injuries(ctx context.Context, teamID int) ([]statsapi.InjuryEntry, error)
}

// Completer sends a two-part prompt to the configured model
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (*models.CompletionResult, error)
}

// Config holds orchestrator construction parameters
type Config struct {
	SelfTeamID     int
	SelfTeamName   string
	ResultCacheTTL time.Duration
}

// Orchestrator runs the preview pipeline: resolve the fixture, gather raw
// data, format it into the analysis payload, generate the narrative, and
// parse it back into structured fields. Every public operation returns a
// tagged envelope; expected failures never surface as errors.
type Orchestrator struct {
	selfTeamID   int
	selfTeamName string

	stats     StatsSource
	completer Completer
	formatter *formatter.Formatter
	parser    *parser.Parser
	results   *cache.Cache[*models.PreviewResult]
	logger    *logrus.Logger
	now       func() time.Time
}

// New wires the pipeline stages together
func New(cfg Config, stats StatsSource, completer Completer, logger *logrus.Logger) *Orchestrator {
	return &Orchestrator{
		selfTeamID:   cfg.SelfTeamID,
		selfTeamName: cfg.SelfTeamName,
		stats:        stats,
		completer:    completer,
		formatter:    formatter.New(cfg.SelfTeamID, cfg.SelfTeamName),
		parser:       parser.New(cfg.SelfTeamName, cfg.ResultCacheTTL, logger),
		results:      cache.New[*models.PreviewResult](cfg.ResultCacheTTL),
		logger:       logger,
		now:          time.Now,
	}
}

// GamePreview generates the full game-preview analysis for the team's game
// on date (YYYY-MM-DD; empty means today). Results are cached per date and
// option set; cached responses are tagged FromCache.
func (o *Orchestrator) GamePreview(ctx context.Context, date string, opts models.PreviewOptions) *models.PreviewResult {
	requestID := uuid.New().String()
	start := o.now()

	if date == "" {
		date = start.Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return o.failure(requestID, date, start, fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD", date))
	}

	log := o.logger.WithFields(logrus.Fields{
		"component":  "preview_orchestrator",
		"request_id": requestID,
		"date":       date,
	})

	cacheKey := "preview:" + date + ":" + opts.Hash()
	if cached, ok := o.results.Get(cacheKey); ok {
		log.Info("Serving preview from cache")
		return fromCache(cached, requestID)
	}

	fixture, err := o.stats.Fixture(ctx, o.selfTeamID, date)
	if err != nil {
		log.WithError(err).Error("Schedule lookup failed")
		return o.failure(requestID, date, start, "Game data is currently unavailable")
	}
	if fixture == nil {
		log.Info("No game scheduled")
		return o.failure(requestID, date, start, fmt.Sprintf("No %s game found for the specified date", o.selfTeamName))
	}

	bundle, err := o.gatherBundle(ctx, fixture, opts, log)
	if err != nil {
		log.WithError(err).Error("Data gathering failed")
		return o.failure(requestID, date, start, "Game data is currently unavailable")
	}

	payload := o.formatter.FormatGameData(bundle, opts)
	summary := o.gameSummary(fixture, date)

	completion, err := o.completer.Complete(ctx,
		llm.BaseballExpertSystemPrompt(o.selfTeamName),
		llm.BuildGameAnalysisPrompt(payload, opts.AnalysisDepth))
	if err != nil {
		log.WithError(err).Error("Analysis generation failed")
		result := o.failure(requestID, date, start, "Analysis generation is currently unavailable")
		result.Game = summary
		return result
	}

	analysis := o.parser.ParseGameAnalysis(completion)

	result := &models.PreviewResult{
		Success:  true,
		Date:     date,
		Game:     summary,
		Analysis: analysis,
		Metadata: o.metadata(requestID, start, completion),
	}
	o.results.Set(cacheKey, result)

	log.WithFields(logrus.Fields{
		"tokens": result.Metadata.TokensUsed,
		"cost":   result.Metadata.Cost,
	}).Info("Preview generated")
	return result
}

// gatherBundle runs the mandatory fetches concurrently and fails if any of
// them fail. Pitcher stats and injuries are best-effort: their absence
// degrades the affected payload blocks instead of failing the preview.
func (o *Orchestrator) gatherBundle(ctx context.Context, fixture *statsapi.Game, opts models.PreviewOptions, log *logrus.Entry) (*statsapi.GameBundle, error) {
	bundle := &statsapi.GameBundle{Fixture: fixture}
	opponentID := o.opponentID(fixture)
	before := o.gameTime(fixture)

	// Each task writes a distinct bundle field, so no lock is needed around
	// the assignments.
	err := runParallel(map[string]func() error{
		"self team stats": func() (err error) {
			bundle.SelfStats, err = o.stats.TeamStats(ctx, o.selfTeamID)
			return
		},
		"opponent team stats": func() (err error) {
			bundle.OppStats, err = o.stats.TeamStats(ctx, opponentID)
			return
		},
		"self recent games": func() (err error) {
			bundle.SelfRecent, err = o.stats.RecentGames(ctx, o.selfTeamID, before)
			return
		},
		"opponent recent games": func() (err error) {
			bundle.OppRecent, err = o.stats.RecentGames(ctx, opponentID, before)
			return
		},
		"head to head": func() (err error) {
			bundle.HeadToHead, err = o.stats.HeadToHead(ctx, o.selfTeamID, opponentID, before)
			return
		},
		"self roster": func() (err error) {
			bundle.SelfRoster, err = o.stats.Roster(ctx, o.selfTeamID)
			return
		},
		"opponent roster": func() (err error) {
			bundle.OppRoster, err = o.stats.Roster(ctx, opponentID)
			return
		},
		"live feed": func() (err error) {
			bundle.Feed, err = o.stats.LiveFeed(ctx, fixture.GamePk)
			return
		},
	})
	if err != nil {
		return nil, err
	}

	o.fetchPitcherStats(ctx, bundle, log)

	if opts.IncludeInjuries {
		o.fetchInjuries(ctx, bundle, opponentID, log)
	}

	return bundle, nil
}

// fetchPitcherStats resolves the probable pitchers from the live feed and
// fetches their season lines. Failures degrade the matchup block.
func (o *Orchestrator) fetchPitcherStats(ctx context.Context, bundle *statsapi.GameBundle, log *logrus.Entry) {
	if bundle.Feed == nil {
		return
	}

	selfRef := bundle.Feed.GameData.ProbablePitchers.Away
	oppRef := bundle.Feed.GameData.ProbablePitchers.Home
	if bundle.Fixture.Teams.Home.Team.ID == o.selfTeamID {
		selfRef, oppRef = oppRef, selfRef
	}
	if selfRef == nil || oppRef == nil {
		return
	}

	_ = runParallel(map[string]func() error{
		"self pitcher stats": func() error {
			stats, err := o.stats.PitcherStats(ctx, selfRef.ID)
			if err != nil {
				log.WithError(err).Warn("Pitcher stats unavailable, degrading matchup")
				return nil
			}
			bundle.SelfPitcher = stats
			return nil
		},
		"opponent pitcher stats": func() error {
			stats, err := o.stats.PitcherStats(ctx, oppRef.ID)
			if err != nil {
				log.WithError(err).Warn("Pitcher stats unavailable, degrading matchup")
				return nil
			}
			bundle.OppPitcher = stats
			return nil
		},
	})
}

// fetchInjuries pulls both injury lists best-effort
func (o *Orchestrator) fetchInjuries(ctx context.Context, bundle *statsapi.GameBundle, opponentID int, log *logrus.Entry) {
	_ = runParallel(map[string]func() error{
		"self injuries": func() error {
			injuries, err := o.stats.Injuries(ctx, o.selfTeamID)
			if err != nil {
				log.WithError(err).Warn("Injury list unavailable, degrading block")
				return nil
			}
			bundle.SelfInjuries = injuries
			return nil
		},
		"opponent injuries": func() error {
			injuries, err := o.stats.Injuries(ctx, opponentID)
			if err != nil {
				log.WithError(err).Warn("Injury list unavailable, degrading block")
				return nil
			}
			bundle.OppInjuries = injuries
			return nil
		},
	})
}

// runParallel executes the named tasks concurrently and joins their errors
func runParallel(tasks map[string]func() error) error {
	var wg sync.WaitGroup
	var mu sync.Mutex
	var errs []error

	for name, task := range tasks {
		name, task := name, task
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := task(); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	return errors.Join(errs...)
}

func (o *Orchestrator) opponentID(fixture *statsapi.Game) int {
	if fixture.Teams.Home.Team.ID == o.selfTeamID {
		return fixture.Teams.Away.Team.ID
	}
	return fixture.Teams.Home.Team.ID
}

// gameTime parses the fixture's timestamp, falling back to now
func (o *Orchestrator) gameTime(fixture *statsapi.Game) time.Time {
	if t, err := time.Parse(time.RFC3339, fixture.GameDate); err == nil {
		return t
	}
	return o.now()
}

func (o *Orchestrator) gameSummary(fixture *statsapi.Game, date string) *models.GameSummary {
	selfSide := fixture.Teams.Away
	oppSide := fixture.Teams.Home
	selfHome := fixture.Teams.Home.Team.ID == o.selfTeamID
	if selfHome {
		selfSide, oppSide = oppSide, selfSide
	}

	return &models.GameSummary{
		GamePk:   fixture.GamePk,
		Date:     date,
		Status:   fixture.Status.DetailedState,
		Venue:    fixture.Venue.Name,
		SelfTeam: o.selfTeamName,
		Opponent: oppSide.Team.Name,
		SelfHome: selfHome,
		SelfRec:  models.TeamRecord{Wins: selfSide.LeagueRecord.Wins, Losses: selfSide.LeagueRecord.Losses},
		OppRec:   models.TeamRecord{Wins: oppSide.LeagueRecord.Wins, Losses: oppSide.LeagueRecord.Losses},
	}
}

func (o *Orchestrator) metadata(requestID string, start time.Time, completion *models.CompletionResult) models.PreviewMetadata {
	return models.PreviewMetadata{
		RequestID:   requestID,
		Provider:    completion.Provider,
		Model:       completion.Model,
		TokensUsed:  completion.Usage.InputTokens + completion.Usage.OutputTokens,
		Cost:        completion.Cost,
		DurationMs:  o.now().Sub(start).Milliseconds(),
		GeneratedAt: o.now(),
	}
}

func (o *Orchestrator) failure(requestID, date string, start time.Time, message string) *models.PreviewResult {
	return &models.PreviewResult{
		Success: false,
		Date:    date,
		Error:   message,
		Metadata: models.PreviewMetadata{
			RequestID:   requestID,
			DurationMs:  o.now().Sub(start).Milliseconds(),
			GeneratedAt: o.now(),
		},
	}
}

// fromCache returns a copy of a cached result tagged with the new request
func fromCache(cached *models.PreviewResult, requestID string) *models.PreviewResult {
	result := *cached
	result.FromCache = true
	result.Metadata.RequestID = requestID
	return &result
}

// ResultCacheLen reports the number of cached preview results
func (o *Orchestrator) ResultCacheLen() int {
	return o.results.Len()
}
