package llm_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ballpark-labs/preview-service/internal/llm"
	"github.com/ballpark-labs/preview-service/internal/models"
)

func samplePayload() *models.AnalysisPayload {
	payload := &models.AnalysisPayload{}
	payload.GameContext = models.GameContext{
		SelfTeam: "San Francisco Giants",
		Opponent: "Los Angeles Dodgers",
		SelfHome: true,
		Venue:    "Oracle Park",
		Status:   "Scheduled",
	}
	payload.TeamStats.Self = models.TeamSnapshot{
		Available:  true,
		Record:     models.TeamRecord{Wins: 45, Losses: 42},
		BattingAvg: ".265", OnBasePct: ".330", SluggingPct: ".420",
		RunsPerGame: 4.6, HomeRuns: 142,
		ERA: "3.85", WHIP: "1.21", StrikeoutsPer9: "8.9", FieldingPct: ".985",
	}
	payload.TeamStats.Opponent = models.TeamSnapshot{
		Available:  true,
		Record:     models.TeamRecord{Wins: 52, Losses: 35},
		BattingAvg: ".272", OnBasePct: ".341", SluggingPct: ".455",
		RunsPerGame: 5.1, HomeRuns: 168,
		ERA: "3.42", WHIP: "1.14", StrikeoutsPer9: "9.4", FieldingPct: ".987",
	}
	payload.TeamStats.Comparison = models.StatsComparison{
		OffenseAdvantage:  "Los Angeles Dodgers",
		PowerAdvantage:    "Los Angeles Dodgers",
		PitchingAdvantage: "Los Angeles Dodgers",
		FieldingAdvantage: "Even",
	}
	payload.RecentPerformance.Self = models.RecentForm{
		Available: true, Games: 10, Wins: 6, Losses: 4,
		RunsPerGame: 4.8, RunsAllowedPerGame: 4.1, Streak: "W3", Trend: "improving",
	}
	payload.RecentPerformance.Opponent = models.RecentForm{
		Available: true, Games: 10, Wins: 7, Losses: 3,
		RunsPerGame: 5.4, RunsAllowedPerGame: 3.9, Streak: "W1", Trend: "steady",
	}
	return payload
}

func TestBuildGameAnalysisPrompt_ContainsAllHeadingsInOrder(t *testing.T) {
	prompt := llm.BuildGameAnalysisPrompt(samplePayload(), "standard")

	last := -1
	for _, heading := range models.SectionHeadings {
		idx := strings.Index(prompt, heading)
		require.GreaterOrEqual(t, idx, 0, "heading %q missing from prompt", heading)
		assert.Greater(t, idx, last, "heading %q out of order", heading)
		last = idx
	}
}

func TestBuildGameAnalysisPrompt_SerializesData(t *testing.T) {
	prompt := llm.BuildGameAnalysisPrompt(samplePayload(), "standard")

	assert.Contains(t, prompt, "San Francisco Giants vs Los Angeles Dodgers")
	assert.Contains(t, prompt, "at home")
	assert.Contains(t, prompt, "Oracle Park")
	assert.Contains(t, prompt, "(45-42)")
	assert.Contains(t, prompt, "(52-35)")
	assert.Contains(t, prompt, "ERA 3.85")
	assert.Contains(t, prompt, "streak W3")
	assert.Contains(t, prompt, "favored")
}

func TestBuildGameAnalysisPrompt_Deterministic(t *testing.T) {
	payload := samplePayload()
	assert.Equal(t,
		llm.BuildGameAnalysisPrompt(payload, "standard"),
		llm.BuildGameAnalysisPrompt(payload, "standard"))
}

func TestBuildGameAnalysisPrompt_DetailedDepth(t *testing.T) {
	payload := samplePayload()
	standard := llm.BuildGameAnalysisPrompt(payload, "standard")
	detailed := llm.BuildGameAnalysisPrompt(payload, "detailed")

	assert.NotEqual(t, standard, detailed)
	assert.Contains(t, detailed, "Go deep on every section")
	assert.NotContains(t, standard, "Go deep on every section")
}

func TestBuildGameAnalysisPrompt_UnavailableBlocks(t *testing.T) {
	payload := samplePayload()
	payload.TeamStats.Self.Available = false
	payload.RecentPerformance.Opponent.Available = false

	prompt := llm.BuildGameAnalysisPrompt(payload, "standard")

	assert.Contains(t, prompt, "San Francisco Giants: season statistics unavailable")
	assert.Contains(t, prompt, "Los Angeles Dodgers: recent results unavailable")
	// Optional blocks that never became available are omitted entirely
	assert.NotContains(t, prompt, "WEATHER:")
	assert.NotContains(t, prompt, "INJURIES:")
	assert.Contains(t, prompt, "probable starters not yet announced")
}

func TestBaseballExpertSystemPrompt(t *testing.T) {
	prompt := llm.BaseballExpertSystemPrompt("San Francisco Giants")
	assert.Contains(t, prompt, "San Francisco Giants")
	assert.Contains(t, prompt, "never invent statistics")
}

func TestNarrowPrompts(t *testing.T) {
	payload := samplePayload()
	payload.PitchingMatchup = models.PitchingMatchup{
		Available: true,
		Self:      models.PitcherLine{Name: "Logan Webb", ERA: "2.95", WHIP: "1.08", Strikeouts: 172, Wins: 12, Losses: 7},
		Opponent:  models.PitcherLine{Name: "Tyler Glasnow", ERA: "3.61", WHIP: "1.14", Strikeouts: 188, Wins: 10, Losses: 6},
	}
	payload.HeadToHead = models.HeadToHeadBlock{Available: true, SelfWins: 4, OpponentWins: 3, LastMeeting: "2026-08-01T19:05:00Z"}
	payload.Injuries = models.InjuriesBlock{
		Available: true,
		Self:      []models.InjuryNote{{Player: "Jung Hoo Lee", Status: "10-Day IL", Description: "Right hamstring strain"}},
	}

	pitching := llm.BuildPitcherMatchupPrompt(payload)
	assert.Contains(t, pitching, "Logan Webb")
	assert.Contains(t, pitching, "Tyler Glasnow")

	momentum := llm.BuildMomentumPrompt(payload)
	assert.Contains(t, momentum, "streak W3")
	assert.Contains(t, momentum, "momentum")

	h2h := llm.BuildHeadToHeadPrompt(payload)
	assert.Contains(t, h2h, "HEAD TO HEAD THIS SEASON")
	assert.Contains(t, h2h, "4 wins")

	injuries := llm.BuildInjuryImpactPrompt(payload)
	assert.Contains(t, injuries, "Jung Hoo Lee")
	assert.Contains(t, injuries, "10-Day IL")
}
