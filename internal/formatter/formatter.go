package formatter

import (
	"fmt"
	"strconv"

	"github.com/ballpark-labs/preview-service/internal/models"
	"github.com/ballpark-labs/preview-service/internal/statsapi"
)

// Formatter transforms raw upstream records into the normalized analysis
// payload. It is a pure function of its inputs: no network I/O, no caching,
// no hidden state, so identical bundles always produce identical payloads.
type Formatter struct {
	selfTeamID   int
	selfTeamName string
}

// New creates a formatter bound to the team of interest
func New(selfTeamID int, selfTeamName string) *Formatter {
	return &Formatter{selfTeamID: selfTeamID, selfTeamName: selfTeamName}
}

// trendWindow is how many games each half of the trend comparison covers
const trendWindow = 5

// FormatGameData builds the analysis payload from a raw bundle. Blocks whose
// upstream data is missing come back with Available=false rather than
// panicking or carrying nulls.
func (f *Formatter) FormatGameData(bundle *statsapi.GameBundle, opts models.PreviewOptions) *models.AnalysisPayload {
	payload := &models.AnalysisPayload{}
	if bundle == nil || bundle.Fixture == nil {
		return payload
	}

	selfSide, oppSide, selfHome := f.resolveSides(bundle.Fixture)

	payload.GameContext = models.GameContext{
		Date:     bundle.Fixture.GameDate,
		Venue:    bundle.Fixture.Venue.Name,
		Status:   bundle.Fixture.Status.DetailedState,
		SelfTeam: f.selfTeamName,
		Opponent: oppSide.Team.Name,
		SelfHome: selfHome,
	}

	payload.TeamStats.Self = extractTeamSnapshot(bundle.SelfStats, selfSide.LeagueRecord)
	payload.TeamStats.Opponent = extractTeamSnapshot(bundle.OppStats, oppSide.LeagueRecord)
	payload.TeamStats.Comparison = f.buildComparison(payload.TeamStats.Self, payload.TeamStats.Opponent, oppSide.Team.Name)

	payload.RecentPerformance.Self = f.recentForm(bundle.SelfRecent, f.selfTeamID)
	payload.RecentPerformance.Opponent = f.recentForm(bundle.OppRecent, oppSide.Team.ID)

	payload.PitchingMatchup = f.pitchingMatchup(bundle, selfHome, oppSide.Team.Name)

	if opts.IncludeWeather {
		payload.Weather = weatherBlock(bundle.Feed)
	}
	if opts.IncludeInjuries {
		payload.Injuries = injuriesBlock(bundle.SelfInjuries, bundle.OppInjuries)
	}
	payload.HeadToHead = f.headToHeadBlock(bundle.HeadToHead)

	return payload
}

// resolveSides splits the fixture into self and opponent entries
func (f *Formatter) resolveSides(fixture *statsapi.Game) (selfSide, oppSide statsapi.GameTeam, selfHome bool) {
	if fixture.Teams.Home.Team.ID == f.selfTeamID {
		return fixture.Teams.Home, fixture.Teams.Away, true
	}
	return fixture.Teams.Away, fixture.Teams.Home, false
}

// extractTeamSnapshot pulls the fixed statistical vocabulary out of the raw
// stats blob. A missing or empty blob yields Available=false; individual
// missing fields default to zero or "0.000", never null.
func extractTeamSnapshot(stats *statsapi.StatsResponse, record statsapi.WinLoss) models.TeamSnapshot {
	snapshot := models.TeamSnapshot{
		BattingAvg:     "0.000",
		OnBasePct:      "0.000",
		SluggingPct:    "0.000",
		ERA:            "0.000",
		WHIP:           "0.000",
		StrikeoutsPer9: "0.000",
		FieldingPct:    "0.000",
	}
	if stats == nil || len(stats.Stats) == 0 {
		return snapshot
	}

	snapshot.Record = models.TeamRecord{Wins: record.Wins, Losses: record.Losses}

	found := false
	for _, group := range stats.Stats {
		if len(group.Splits) == 0 {
			continue
		}
		stat := group.Splits[0].Stat
		switch group.Group.DisplayName {
		case "hitting":
			found = true
			snapshot.BattingAvg = statString(stat, "avg")
			snapshot.OnBasePct = statString(stat, "obp")
			snapshot.SluggingPct = statString(stat, "slg")
			snapshot.RunsPerGame = statFloat(stat, "runsPerGame")
			snapshot.HomeRuns = statInt(stat, "homeRuns")
			snapshot.StolenBases = statInt(stat, "stolenBases")
		case "pitching":
			found = true
			snapshot.ERA = statString(stat, "era")
			snapshot.WHIP = statString(stat, "whip")
			snapshot.StrikeoutsPer9 = statString(stat, "strikeoutsPer9Inn")
			snapshot.QualityStarts = statInt(stat, "qualityStarts")
		case "fielding":
			found = true
			snapshot.FieldingPct = statString(stat, "fielding")
			snapshot.Errors = statInt(stat, "errors")
		}
		// Situational split records ride along in any group that carries them
		if _, ok := stat["homeWins"]; ok {
			snapshot.HomeRecord = models.TeamRecord{Wins: statInt(stat, "homeWins"), Losses: statInt(stat, "homeLosses")}
			snapshot.AwayRecord = models.TeamRecord{Wins: statInt(stat, "awayWins"), Losses: statInt(stat, "awayLosses")}
		}
	}

	snapshot.Available = found
	return snapshot
}

func (f *Formatter) buildComparison(self, opp models.TeamSnapshot, oppName string) models.StatsComparison {
	if !self.Available || !opp.Available {
		return models.StatsComparison{
			OffenseAdvantage:  Even,
			PowerAdvantage:    Even,
			PitchingAdvantage: Even,
			FieldingAdvantage: Even,
		}
	}
	return models.StatsComparison{
		OffenseAdvantage:  CompareAdvantage(parseStat(self.BattingAvg), parseStat(opp.BattingAvg), f.selfTeamName, oppName, false),
		PowerAdvantage:    CompareAdvantage(float64(self.HomeRuns), float64(opp.HomeRuns), f.selfTeamName, oppName, false),
		PitchingAdvantage: CompareAdvantage(parseStat(self.ERA), parseStat(opp.ERA), f.selfTeamName, oppName, true),
		FieldingAdvantage: CompareAdvantage(parseStat(self.FieldingPct), parseStat(opp.FieldingPct), f.selfTeamName, oppName, false),
	}
}

// recentForm derives win/loss counts, run rates, the current streak and a
// coarse trend from the team's latest completed games (most recent first).
func (f *Formatter) recentForm(games []statsapi.Game, teamID int) models.RecentForm {
	form := models.RecentForm{}
	if len(games) == 0 {
		return form
	}
	form.Available = true
	form.Games = len(games)

	var runsFor, runsAgainst int
	results := make([]bool, 0, len(games))
	runs := make([]int, 0, len(games))
	for _, game := range games {
		us, them, ok := teamSides(game, teamID)
		if !ok {
			continue
		}
		won := us.IsWinner != nil && *us.IsWinner
		results = append(results, won)
		if won {
			form.Wins++
		} else {
			form.Losses++
		}
		usScore, themScore := 0, 0
		if us.Score != nil {
			usScore = *us.Score
		}
		if them.Score != nil {
			themScore = *them.Score
		}
		runsFor += usScore
		runsAgainst += themScore
		runs = append(runs, usScore)
	}

	counted := form.Wins + form.Losses
	if counted > 0 {
		form.RunsPerGame = round1(float64(runsFor) / float64(counted))
		form.RunsAllowedPerGame = round1(float64(runsAgainst) / float64(counted))
	}

	form.Streak = streak(results)
	form.Trend = trend(runs)
	return form
}

// streak counts consecutive same-result games from the most recent game
// backward, stopping at the first break.
func streak(results []bool) string {
	if len(results) == 0 {
		return ""
	}
	latest := results[0]
	count := 0
	for _, won := range results {
		if won != latest {
			break
		}
		count++
	}
	if latest {
		return fmt.Sprintf("W%d", count)
	}
	return fmt.Sprintf("L%d", count)
}

// trend compares average runs over the most recent window against the
// preceding window. Too few games to fill both windows reads as steady.
func trend(runs []int) string {
	if len(runs) < trendWindow+1 {
		return "steady"
	}
	recent := avgRuns(runs[:trendWindow])
	previousEnd := trendWindow * 2
	if previousEnd > len(runs) {
		previousEnd = len(runs)
	}
	previous := avgRuns(runs[trendWindow:previousEnd])
	if recent >= previous {
		return "improving"
	}
	return "struggling"
}

func avgRuns(runs []int) float64 {
	if len(runs) == 0 {
		return 0
	}
	total := 0
	for _, r := range runs {
		total += r
	}
	return float64(total) / float64(len(runs))
}

// pitchingMatchup resolves which side's probable pitcher is self based on
// home/away and applies the shared advantage rule to the season lines.
func (f *Formatter) pitchingMatchup(bundle *statsapi.GameBundle, selfHome bool, oppName string) models.PitchingMatchup {
	matchup := models.PitchingMatchup{}
	if bundle.Feed == nil {
		return matchup
	}

	selfRef := bundle.Feed.GameData.ProbablePitchers.Away
	oppRef := bundle.Feed.GameData.ProbablePitchers.Home
	if selfHome {
		selfRef, oppRef = oppRef, selfRef
	}
	if selfRef == nil || oppRef == nil {
		return matchup
	}

	matchup.Self = pitcherLine(pitcherName(selfRef, bundle.SelfRoster), bundle.SelfPitcher)
	matchup.Opponent = pitcherLine(pitcherName(oppRef, bundle.OppRoster), bundle.OppPitcher)
	matchup.Available = true

	matchup.Comparison = models.PitchingComparison{
		ERAAdvantage:       CompareAdvantage(parseStat(matchup.Self.ERA), parseStat(matchup.Opponent.ERA), f.selfTeamName, oppName, true),
		WHIPAdvantage:      CompareAdvantage(parseStat(matchup.Self.WHIP), parseStat(matchup.Opponent.WHIP), f.selfTeamName, oppName, true),
		StrikeoutAdvantage: CompareAdvantage(float64(matchup.Self.Strikeouts), float64(matchup.Opponent.Strikeouts), f.selfTeamName, oppName, false),
	}
	return matchup
}

// pitcherName prefers the feed's name, falling back to the roster when the
// feed carries only an identifier.
func pitcherName(ref *statsapi.PersonRef, roster *statsapi.RosterResponse) string {
	if ref.FullName != "" {
		return ref.FullName
	}
	if roster != nil {
		for _, entry := range roster.Roster {
			if entry.Person.ID == ref.ID {
				return entry.Person.FullName
			}
		}
	}
	return ""
}

func pitcherLine(name string, stats *statsapi.StatsResponse) models.PitcherLine {
	line := models.PitcherLine{Name: name, ERA: "0.000", WHIP: "0.000"}
	if stats == nil {
		return line
	}
	for _, group := range stats.Stats {
		if len(group.Splits) == 0 {
			continue
		}
		stat := group.Splits[0].Stat
		line.ERA = statString(stat, "era")
		line.WHIP = statString(stat, "whip")
		line.Strikeouts = statInt(stat, "strikeOuts")
		line.Wins = statInt(stat, "wins")
		line.Losses = statInt(stat, "losses")
		break
	}
	return line
}

func weatherBlock(feed *statsapi.FeedResponse) models.WeatherBlock {
	block := models.WeatherBlock{}
	if feed == nil || feed.GameData.Weather.Condition == "" {
		return block
	}
	block.Available = true
	block.Condition = feed.GameData.Weather.Condition
	block.TempF = feed.GameData.Weather.Temp
	block.Wind = feed.GameData.Weather.Wind
	return block
}

func injuriesBlock(self, opp []statsapi.InjuryEntry) models.InjuriesBlock {
	block := models.InjuriesBlock{}
	if len(self) == 0 && len(opp) == 0 {
		return block
	}
	block.Available = true
	block.Self = injuryNotes(self)
	block.Opponent = injuryNotes(opp)
	return block
}

func injuryNotes(entries []statsapi.InjuryEntry) []models.InjuryNote {
	notes := make([]models.InjuryNote, 0, len(entries))
	for _, entry := range entries {
		notes = append(notes, models.InjuryNote{
			Player:      entry.Player.FullName,
			Status:      entry.Status,
			Description: entry.Description,
		})
	}
	return notes
}

func (f *Formatter) headToHeadBlock(games []statsapi.Game) models.HeadToHeadBlock {
	block := models.HeadToHeadBlock{}
	if len(games) == 0 {
		return block
	}
	block.Available = true
	for _, game := range games {
		us, _, ok := teamSides(game, f.selfTeamID)
		if !ok {
			continue
		}
		if us.IsWinner != nil && *us.IsWinner {
			block.SelfWins++
		} else {
			block.OpponentWins++
		}
	}
	block.LastMeeting = games[0].GameDate
	return block
}

// teamSides splits a game into the given team's entry and the opponent's
func teamSides(game statsapi.Game, teamID int) (us, them statsapi.GameTeam, ok bool) {
	switch teamID {
	case game.Teams.Home.Team.ID:
		return game.Teams.Home, game.Teams.Away, true
	case game.Teams.Away.Team.ID:
		return game.Teams.Away, game.Teams.Home, true
	}
	return statsapi.GameTeam{}, statsapi.GameTeam{}, false
}

func statString(stat map[string]interface{}, key string) string {
	if val, exists := stat[key]; exists {
		if s, ok := val.(string); ok && s != "" {
			return s
		}
		if f, ok := val.(float64); ok {
			return strconv.FormatFloat(f, 'f', 3, 64)
		}
	}
	return "0.000"
}

func statFloat(stat map[string]interface{}, key string) float64 {
	if val, exists := stat[key]; exists {
		switch v := val.(type) {
		case float64:
			return v
		case string:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
		}
	}
	return 0
}

func statInt(stat map[string]interface{}, key string) int {
	return int(statFloat(stat, key))
}

func parseStat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func round1(f float64) float64 {
	return float64(int(f*10+0.5)) / 10
}
