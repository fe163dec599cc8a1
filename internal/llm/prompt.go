package llm

import (
	"fmt"
	"strings"

	"github.com/ballpark-labs/preview-service/internal/models"
)

// Prompt construction is a deterministic template: a system-role persona
// paragraph plus a user-role message that serializes the analysis payload in
// a fixed order and appends the fixed section template. The section headings
// come from models.SectionHeadings, shared with the parser.

// BaseballExpertSystemPrompt describes the analyst persona and tone
func BaseballExpertSystemPrompt(selfTeam string) string {
	return fmt.Sprintf(`You are an expert baseball analyst and beat writer covering the %s. You combine deep statistical literacy with an engaging narrative voice. Write for knowledgeable fans: cite the numbers you are given, never invent statistics, and keep the tone confident but measured. When data for a topic is unavailable, say so briefly rather than speculating. Structure your answer using exactly the section headings requested, each on its own line.`, selfTeam)
}

// BuildGameAnalysisPrompt renders the full game-preview prompt
func BuildGameAnalysisPrompt(p *models.AnalysisPayload, depth string) string {
	var b strings.Builder

	b.WriteString("Write a game-preview analysis using the data below.\n\n")
	writeGameContext(&b, p)
	writeTeamStats(&b, p)
	writeRecentForm(&b, p)
	writePitchingMatchup(&b, p)
	writeWeather(&b, p)
	writeInjuries(&b, p)
	writeHeadToHead(&b, p)

	if depth == "detailed" {
		b.WriteString("\nGo deep on every section; two to three paragraphs each where the data supports it.\n")
	}

	b.WriteString("\nStructure the analysis with exactly these sections, in this order:\n")
	for i, heading := range models.SectionHeadings {
		fmt.Fprintf(&b, "%d. %s\n", i+1, heading)
	}
	b.WriteString("\nIn the final section, state which team is favored and how confident you are.\n")

	return b.String()
}

func writeGameContext(b *strings.Builder, p *models.AnalysisPayload) {
	ctx := p.GameContext
	site := "on the road"
	if ctx.SelfHome {
		site = "at home"
	}
	fmt.Fprintf(b, "GAME CONTEXT:\n- %s vs %s, %s %s\n- Venue: %s\n- Status: %s\n\n",
		ctx.SelfTeam, ctx.Opponent, ctx.SelfTeam, site, ctx.Venue, ctx.Status)
}

func writeTeamStats(b *strings.Builder, p *models.AnalysisPayload) {
	b.WriteString("TEAM STATISTICS:\n")
	writeSnapshot(b, p.GameContext.SelfTeam, p.TeamStats.Self)
	writeSnapshot(b, p.GameContext.Opponent, p.TeamStats.Opponent)
	cmp := p.TeamStats.Comparison
	fmt.Fprintf(b, "- Advantages: offense %s, power %s, pitching %s, fielding %s\n\n",
		cmp.OffenseAdvantage, cmp.PowerAdvantage, cmp.PitchingAdvantage, cmp.FieldingAdvantage)
}

func writeSnapshot(b *strings.Builder, name string, s models.TeamSnapshot) {
	if !s.Available {
		fmt.Fprintf(b, "- %s: season statistics unavailable\n", name)
		return
	}
	fmt.Fprintf(b, "- %s (%d-%d): AVG %s, OBP %s, SLG %s, %d HR, %.1f R/G; ERA %s, WHIP %s, K/9 %s; FPCT %s\n",
		name, s.Record.Wins, s.Record.Losses, s.BattingAvg, s.OnBasePct, s.SluggingPct,
		s.HomeRuns, s.RunsPerGame, s.ERA, s.WHIP, s.StrikeoutsPer9, s.FieldingPct)
}

func writeRecentForm(b *strings.Builder, p *models.AnalysisPayload) {
	b.WriteString("RECENT FORM:\n")
	writeForm(b, p.GameContext.SelfTeam, p.RecentPerformance.Self)
	writeForm(b, p.GameContext.Opponent, p.RecentPerformance.Opponent)
	b.WriteString("\n")
}

func writeForm(b *strings.Builder, name string, f models.RecentForm) {
	if !f.Available {
		fmt.Fprintf(b, "- %s: recent results unavailable\n", name)
		return
	}
	fmt.Fprintf(b, "- %s: %d-%d over last %d, %.1f runs scored / %.1f allowed per game, streak %s, trend %s\n",
		name, f.Wins, f.Losses, f.Games, f.RunsPerGame, f.RunsAllowedPerGame, f.Streak, f.Trend)
}

func writePitchingMatchup(b *strings.Builder, p *models.AnalysisPayload) {
	m := p.PitchingMatchup
	if !m.Available {
		b.WriteString("PITCHING MATCHUP: probable starters not yet announced\n\n")
		return
	}
	b.WriteString("PITCHING MATCHUP:\n")
	fmt.Fprintf(b, "- %s: %s (%d-%d, %s ERA, %s WHIP, %d K)\n",
		p.GameContext.SelfTeam, m.Self.Name, m.Self.Wins, m.Self.Losses, m.Self.ERA, m.Self.WHIP, m.Self.Strikeouts)
	fmt.Fprintf(b, "- %s: %s (%d-%d, %s ERA, %s WHIP, %d K)\n",
		p.GameContext.Opponent, m.Opponent.Name, m.Opponent.Wins, m.Opponent.Losses, m.Opponent.ERA, m.Opponent.WHIP, m.Opponent.Strikeouts)
	fmt.Fprintf(b, "- Advantages: ERA %s, WHIP %s, strikeouts %s\n\n",
		m.Comparison.ERAAdvantage, m.Comparison.WHIPAdvantage, m.Comparison.StrikeoutAdvantage)
}

func writeWeather(b *strings.Builder, p *models.AnalysisPayload) {
	if !p.Weather.Available {
		return
	}
	fmt.Fprintf(b, "WEATHER: %s, %s F, wind %s\n\n", p.Weather.Condition, p.Weather.TempF, p.Weather.Wind)
}

func writeInjuries(b *strings.Builder, p *models.AnalysisPayload) {
	if !p.Injuries.Available {
		return
	}
	b.WriteString("INJURIES:\n")
	writeInjuryList(b, p.GameContext.SelfTeam, p.Injuries.Self)
	writeInjuryList(b, p.GameContext.Opponent, p.Injuries.Opponent)
	b.WriteString("\n")
}

func writeInjuryList(b *strings.Builder, name string, notes []models.InjuryNote) {
	if len(notes) == 0 {
		fmt.Fprintf(b, "- %s: no reported injuries\n", name)
		return
	}
	for _, note := range notes {
		fmt.Fprintf(b, "- %s: %s (%s) %s\n", name, note.Player, note.Status, note.Description)
	}
}

func writeHeadToHead(b *strings.Builder, p *models.AnalysisPayload) {
	if !p.HeadToHead.Available {
		return
	}
	fmt.Fprintf(b, "HEAD TO HEAD THIS SEASON: %s %d wins, %s %d wins, last meeting %s\n\n",
		p.GameContext.SelfTeam, p.HeadToHead.SelfWins,
		p.GameContext.Opponent, p.HeadToHead.OpponentWins, p.HeadToHead.LastMeeting)
}

// Narrow prompts for the secondary analysis operations. Each serializes only
// the payload slice the operation is about and asks for a focused answer.

// BuildPitcherMatchupPrompt renders the pitcher-matchup analysis prompt
func BuildPitcherMatchupPrompt(p *models.AnalysisPayload) string {
	var b strings.Builder
	b.WriteString("Analyze this pitching matchup in depth.\n\n")
	writeGameContext(&b, p)
	writePitchingMatchup(&b, p)
	b.WriteString("Cover approach, recent workload implications, and which starter holds the edge and why.\n")
	return b.String()
}

// BuildMomentumPrompt renders the momentum analysis prompt
func BuildMomentumPrompt(p *models.AnalysisPayload) string {
	var b strings.Builder
	b.WriteString("Analyze each team's momentum heading into this game.\n\n")
	writeGameContext(&b, p)
	writeRecentForm(&b, p)
	b.WriteString("Weigh streaks, run differential trends, and which club carries more momentum.\n")
	return b.String()
}

// BuildHeadToHeadPrompt renders the head-to-head analysis prompt
func BuildHeadToHeadPrompt(p *models.AnalysisPayload) string {
	var b strings.Builder
	b.WriteString("Analyze the season series between these teams.\n\n")
	writeGameContext(&b, p)
	writeHeadToHead(&b, p)
	writeTeamStats(&b, p)
	b.WriteString("Explain what the season series suggests about tonight's game.\n")
	return b.String()
}

// BuildInjuryImpactPrompt renders the injury-impact analysis prompt
func BuildInjuryImpactPrompt(p *models.AnalysisPayload) string {
	var b strings.Builder
	b.WriteString("Analyze how current injuries affect this matchup.\n\n")
	writeGameContext(&b, p)
	writeInjuries(&b, p)
	b.WriteString("Assess lineup impact on both sides and who is hurt more by absences.\n")
	return b.String()
}
