package statsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ballpark-labs/preview-service/internal/cache"
	"github.com/ballpark-labs/preview-service/internal/resilience"
)

// Dependency is the resilience-layer name for the sports data API
const Dependency = "statsapi"

const recentGamesWindow = 10

// Gateway fetches raw team/game/player records from the upstream sports
// statistics service. Responses are cached by fully-qualified request URL
// for a short TTL; every request carries a hard timeout.
type Gateway struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
	cache      *cache.Cache[json.RawMessage]
	exec       *resilience.Executor
	logger     *logrus.Logger
}

// Config holds gateway construction parameters
type Config struct {
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// NewGateway creates a gateway against the configured stats API
func NewGateway(cfg Config, exec *resilience.Executor, logger *logrus.Logger) *Gateway {
	return &Gateway{
		httpClient: &http.Client{},
		baseURL:    cfg.BaseURL,
		timeout:    cfg.Timeout,
		cache:      cache.New[json.RawMessage](cfg.CacheTTL),
		exec:       exec,
		logger:     logger,
	}
}

// fetch issues a GET against path with params, going through the read-through
// cache and the resilience layer. The upstream is read-only, so cache entries
// are never invalidated on write.
func (g *Gateway) fetch(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	requestURL := g.baseURL + path
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	if cached, ok := g.cache.Get(requestURL); ok {
		g.logger.WithFields(logrus.Fields{
			"component": "stats_gateway",
			"url":       requestURL,
		}).Debug("Cache hit")
		return cached, nil
	}

	result, err := g.exec.Call(ctx, Dependency, func() (interface{}, error) {
		return g.doRequest(ctx, requestURL)
	})
	if err != nil {
		g.logger.WithFields(logrus.Fields{
			"component": "stats_gateway",
			"url":       requestURL,
		}).WithError(err).Error("Stats API request failed")
		return nil, err
	}

	body := result.(json.RawMessage)
	g.cache.Set(requestURL, body)
	return body, nil
}

func (g *Gateway) doRequest(ctx context.Context, requestURL string) (json.RawMessage, error) {
	reqCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stats API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stats API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read stats API response: %w", err)
	}
	return json.RawMessage(body), nil
}

func (g *Gateway) fetchInto(ctx context.Context, path string, params url.Values, dest interface{}) error {
	body, err := g.fetch(ctx, path, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to decode stats API response: %w", err)
	}
	return nil
}

// Fixture looks up the team's scheduled game for date (YYYY-MM-DD). A day
// with no game returns (nil, nil): callers must distinguish "no game" from a
// fetch failure.
func (g *Gateway) Fixture(ctx context.Context, teamID int, date string) (*Game, error) {
	params := url.Values{}
	params.Set("sportId", "1")
	params.Set("teamId", fmt.Sprintf("%d", teamID))
	params.Set("date", date)
	params.Set("hydrate", "probablePitcher")

	var schedule ScheduleResponse
	if err := g.fetchInto(ctx, "/schedule", params, &schedule); err != nil {
		return nil, err
	}

	for _, day := range schedule.Dates {
		if len(day.Games) > 0 {
			game := day.Games[0]
			return &game, nil
		}
	}
	return nil, nil
}

// LiveFeed fetches the game's live feed, the source of venue weather and
// probable pitcher identities.
func (g *Gateway) LiveFeed(ctx context.Context, gamePk int64) (*FeedResponse, error) {
	var feed FeedResponse
	path := fmt.Sprintf("/game/%d/feed/live", gamePk)
	if err := g.fetchInto(ctx, path, nil, &feed); err != nil {
		return nil, err
	}
	return &feed, nil
}

// TeamStats fetches a team's aggregated season statistics across the
// hitting, pitching and fielding groups.
func (g *Gateway) TeamStats(ctx context.Context, teamID int) (*StatsResponse, error) {
	params := url.Values{}
	params.Set("stats", "season")
	params.Set("group", "hitting,pitching,fielding")

	var stats StatsResponse
	path := fmt.Sprintf("/teams/%d/stats", teamID)
	if err := g.fetchInto(ctx, path, params, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// RecentGames fetches the team's completed games over the trailing window,
// most recent first.
func (g *Gateway) RecentGames(ctx context.Context, teamID int, before time.Time) ([]Game, error) {
	params := url.Values{}
	params.Set("sportId", "1")
	params.Set("teamId", fmt.Sprintf("%d", teamID))
	params.Set("startDate", before.AddDate(0, 0, -recentGamesWindow*2).Format("2006-01-02"))
	params.Set("endDate", before.AddDate(0, 0, -1).Format("2006-01-02"))

	var schedule ScheduleResponse
	if err := g.fetchInto(ctx, "/schedule", params, &schedule); err != nil {
		return nil, err
	}

	var games []Game
	for i := len(schedule.Dates) - 1; i >= 0; i-- {
		for j := len(schedule.Dates[i].Games) - 1; j >= 0; j-- {
			game := schedule.Dates[i].Games[j]
			if game.Status.DetailedState == "Final" {
				games = append(games, game)
			}
		}
	}
	if len(games) > recentGamesWindow {
		games = games[:recentGamesWindow]
	}
	return games, nil
}

// HeadToHead fetches this season's completed meetings between the two teams,
// most recent first.
func (g *Gateway) HeadToHead(ctx context.Context, teamID, opponentID int, before time.Time) ([]Game, error) {
	params := url.Values{}
	params.Set("sportId", "1")
	params.Set("teamId", fmt.Sprintf("%d", teamID))
	params.Set("opponentId", fmt.Sprintf("%d", opponentID))
	params.Set("startDate", fmt.Sprintf("%d-01-01", before.Year()))
	params.Set("endDate", before.Format("2006-01-02"))

	var schedule ScheduleResponse
	if err := g.fetchInto(ctx, "/schedule", params, &schedule); err != nil {
		return nil, err
	}

	var games []Game
	for i := len(schedule.Dates) - 1; i >= 0; i-- {
		for j := len(schedule.Dates[i].Games) - 1; j >= 0; j-- {
			game := schedule.Dates[i].Games[j]
			if game.Status.DetailedState == "Final" {
				games = append(games, game)
			}
		}
	}
	return games, nil
}

// Roster fetches a team's active roster
func (g *Gateway) Roster(ctx context.Context, teamID int) (*RosterResponse, error) {
	var roster RosterResponse
	path := fmt.Sprintf("/teams/%d/roster", teamID)
	if err := g.fetchInto(ctx, path, nil, &roster); err != nil {
		return nil, err
	}
	return &roster, nil
}

// PitcherStats fetches a pitcher's season pitching line
func (g *Gateway) PitcherStats(ctx context.Context, personID int) (*StatsResponse, error) {
	params := url.Values{}
	params.Set("stats", "season")
	params.Set("group", "pitching")

	var stats StatsResponse
	path := fmt.Sprintf("/people/%d/stats", personID)
	if err := g.fetchInto(ctx, path, params, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Injuries fetches a team's current injury list
func (g *Gateway) Injuries(ctx context.Context, teamID int) ([]InjuryEntry, error) {
	params := url.Values{}
	params.Set("teamId", fmt.Sprintf("%d", teamID))

	var injuries InjuryResponse
	if err := g.fetchInto(ctx, "/injuries", params, &injuries); err != nil {
		return nil, err
	}
	return injuries.Injuries, nil
}

// CacheLen reports the number of cached upstream responses
func (g *Gateway) CacheLen() int {
	return g.cache.Len()
}
