package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ballpark-labs/preview-service/internal/llm"
	"github.com/ballpark-labs/preview-service/internal/models"
	"github.com/ballpark-labs/preview-service/internal/statsapi"
)

// Secondary analysis kinds. Each runs the same pipeline as the full preview
// but gathers only the data its prompt serializes.
const (
	AnalysisPitching   = "pitching"
	AnalysisMomentum   = "momentum"
	AnalysisHeadToHead = "head-to-head"
	AnalysisInjuries   = "injuries"
)

// AnalysisKinds lists the supported secondary analyses
var AnalysisKinds = []string{AnalysisPitching, AnalysisMomentum, AnalysisHeadToHead, AnalysisInjuries}

// PitcherMatchupAnalysis analyzes the probable starters for the date's game
func (o *Orchestrator) PitcherMatchupAnalysis(ctx context.Context, date string) *models.PreviewResult {
	return o.Analysis(ctx, AnalysisPitching, date)
}

// MomentumAnalysis analyzes both teams' recent form for the date's game
func (o *Orchestrator) MomentumAnalysis(ctx context.Context, date string) *models.PreviewResult {
	return o.Analysis(ctx, AnalysisMomentum, date)
}

// HeadToHeadAnalysis analyzes the season series for the date's game
func (o *Orchestrator) HeadToHeadAnalysis(ctx context.Context, date string) *models.PreviewResult {
	return o.Analysis(ctx, AnalysisHeadToHead, date)
}

// InjuryImpactAnalysis analyzes how injuries affect the date's game
func (o *Orchestrator) InjuryImpactAnalysis(ctx context.Context, date string) *models.PreviewResult {
	return o.Analysis(ctx, AnalysisInjuries, date)
}

// Analysis runs the named secondary analysis for date. An unsupported kind
// is an expected failure, reported in the envelope.
func (o *Orchestrator) Analysis(ctx context.Context, kind, date string) *models.PreviewResult {
	requestID := uuid.New().String()
	start := o.now()

	if date == "" {
		date = start.Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return o.failure(requestID, date, start, fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD", date))
	}
	if !supportedKind(kind) {
		return o.failure(requestID, date, start, fmt.Sprintf("Unknown analysis kind %q", kind))
	}

	log := o.logger.WithFields(logrus.Fields{
		"component":  "preview_orchestrator",
		"request_id": requestID,
		"kind":       kind,
		"date":       date,
	})

	cacheKey := "analysis:" + kind + ":" + date
	if cached, ok := o.results.Get(cacheKey); ok {
		log.Info("Serving analysis from cache")
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

	bundle, opts, err := o.gatherForKind(ctx, kind, fixture, log)
	if err != nil {
		log.WithError(err).Error("Data gathering failed")
		return o.failure(requestID, date, start, "Game data is currently unavailable")
	}

	payload := o.formatter.FormatGameData(bundle, opts)
	summary := o.gameSummary(fixture, date)

	completion, err := o.completer.Complete(ctx,
		llm.BaseballExpertSystemPrompt(o.selfTeamName),
		buildAnalysisPrompt(kind, payload))
	if err != nil {
		log.WithError(err).Error("Analysis generation failed")
		result := o.failure(requestID, date, start, "Analysis generation is currently unavailable")
		result.Game = summary
		return result
	}

	result := &models.PreviewResult{
		Success:  true,
		Date:     date,
		Game:     summary,
		Analysis: o.parser.ParseGameAnalysis(completion),
		Metadata: o.metadata(requestID, start, completion),
	}
	o.results.Set(cacheKey, result)

	log.Info("Analysis generated")
	return result
}

func supportedKind(kind string) bool {
	for _, k := range AnalysisKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// gatherForKind fetches only what the kind's prompt needs
func (o *Orchestrator) gatherForKind(ctx context.Context, kind string, fixture *statsapi.Game, log *logrus.Entry) (*statsapi.GameBundle, models.PreviewOptions, error) {
	bundle := &statsapi.GameBundle{Fixture: fixture}
	opponentID := o.opponentID(fixture)
	before := o.gameTime(fixture)
	opts := models.PreviewOptions{}

	switch kind {
	case AnalysisPitching:
		err := runParallel(map[string]func() error{
			"live feed": func() (err error) {
				bundle.Feed, err = o.stats.LiveFeed(ctx, fixture.GamePk)
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
		})
		if err != nil {
			return nil, opts, err
		}
		o.fetchPitcherStats(ctx, bundle, log)

	case AnalysisMomentum:
		err := runParallel(map[string]func() error{
			"self recent games": func() (err error) {
				bundle.SelfRecent, err = o.stats.RecentGames(ctx, o.selfTeamID, before)
				return
			},
			"opponent recent games": func() (err error) {
				bundle.OppRecent, err = o.stats.RecentGames(ctx, opponentID, before)
				return
			},
		})
		if err != nil {
			return nil, opts, err
		}

	case AnalysisHeadToHead:
		err := runParallel(map[string]func() error{
			"head to head": func() (err error) {
				bundle.HeadToHead, err = o.stats.HeadToHead(ctx, o.selfTeamID, opponentID, before)
				return
			},
			"self team stats": func() (err error) {
				bundle.SelfStats, err = o.stats.TeamStats(ctx, o.selfTeamID)
				return
			},
			"opponent team stats": func() (err error) {
				bundle.OppStats, err = o.stats.TeamStats(ctx, opponentID)
				return
			},
		})
		if err != nil {
			return nil, opts, err
		}

	case AnalysisInjuries:
		opts.IncludeInjuries = true
		err := runParallel(map[string]func() error{
			"self injuries": func() (err error) {
				bundle.SelfInjuries, err = o.stats.Injuries(ctx, o.selfTeamID)
				return
			},
			"opponent injuries": func() (err error) {
				bundle.OppInjuries, err = o.stats.Injuries(ctx, opponentID)
				return
			},
		})
		if err != nil {
			return nil, opts, err
		}
	}

	return bundle, opts, nil
}

func buildAnalysisPrompt(kind string, payload *models.AnalysisPayload) string {
	switch kind {
	case AnalysisPitching:
		return llm.BuildPitcherMatchupPrompt(payload)
	case AnalysisMomentum:
		return llm.BuildMomentumPrompt(payload)
	case AnalysisHeadToHead:
		return llm.BuildHeadToHeadPrompt(payload)
	default:
		return llm.BuildInjuryImpactPrompt(payload)
	}
}
