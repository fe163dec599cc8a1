package models

// AnalysisPayload is the normalized, analysis-ready structure handed to the
// prompt builder. Every block that depends on upstream data carries an
// Available flag; consumers must check it before reading nested fields.
type AnalysisPayload struct {
	GameContext       GameContext        `json:"game_context"`
	TeamStats         TeamStatsBlock     `json:"team_stats"`
	RecentPerformance RecentBlock        `json:"recent_performance"`
	PitchingMatchup   PitchingMatchup    `json:"pitching_matchup"`
	Weather           WeatherBlock       `json:"weather"`
	Injuries          InjuriesBlock      `json:"injuries"`
	HeadToHead        HeadToHeadBlock    `json:"head_to_head"`
}

// GameContext describes the fixture from the self team's perspective
type GameContext struct {
	Date     string `json:"date"`
	Venue    string `json:"venue"`
	Status   string `json:"status"`
	SelfTeam string `json:"self_team"`
	Opponent string `json:"opponent"`
	SelfHome bool   `json:"self_home"`
}

// TeamRecord is a win-loss record
type TeamRecord struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

// TeamSnapshot is a team's aggregated season statistics. Slash-line and
// rate figures stay as strings because the upstream reports them that way;
// missing values default to "0.000", never null.
type TeamSnapshot struct {
	Available bool       `json:"available"`
	Record    TeamRecord `json:"record"`

	// Offense
	BattingAvg  string  `json:"batting_avg"`
	OnBasePct   string  `json:"on_base_pct"`
	SluggingPct string  `json:"slugging_pct"`
	RunsPerGame float64 `json:"runs_per_game"`
	HomeRuns    int     `json:"home_runs"`
	StolenBases int     `json:"stolen_bases"`

	// Pitching
	ERA            string `json:"era"`
	WHIP           string `json:"whip"`
	StrikeoutsPer9 string `json:"strikeouts_per_9"`
	QualityStarts  int    `json:"quality_starts"`

	// Fielding
	FieldingPct string `json:"fielding_pct"`
	Errors      int    `json:"errors"`

	// Situational splits
	HomeRecord TeamRecord `json:"home_record"`
	AwayRecord TeamRecord `json:"away_record"`
}

// StatsComparison holds the advantage labels computed between the two teams
type StatsComparison struct {
	OffenseAdvantage  string `json:"offense_advantage"`
	PowerAdvantage    string `json:"power_advantage"`
	PitchingAdvantage string `json:"pitching_advantage"`
	FieldingAdvantage string `json:"fielding_advantage"`
}

type TeamStatsBlock struct {
	Self       TeamSnapshot    `json:"self"`
	Opponent   TeamSnapshot    `json:"opponent"`
	Comparison StatsComparison `json:"comparison"`
}

// RecentForm summarizes a team's last stretch of games
type RecentForm struct {
	Available          bool    `json:"available"`
	Games              int     `json:"games"`
	Wins               int     `json:"wins"`
	Losses             int     `json:"losses"`
	RunsPerGame        float64 `json:"runs_per_game"`
	RunsAllowedPerGame float64 `json:"runs_allowed_per_game"`
	Streak             string  `json:"streak"` // e.g. "W3", "L2"
	Trend              string  `json:"trend"`  // "improving" or "struggling"
}

type RecentBlock struct {
	Self     RecentForm `json:"self"`
	Opponent RecentForm `json:"opponent"`
}

// PitcherLine is a probable starter's season pitching line
type PitcherLine struct {
	Name       string `json:"name"`
	ERA        string `json:"era"`
	WHIP       string `json:"whip"`
	Strikeouts int    `json:"strikeouts"`
	Wins       int    `json:"wins"`
	Losses     int    `json:"losses"`
}

type PitchingComparison struct {
	ERAAdvantage       string `json:"era_advantage"`
	WHIPAdvantage      string `json:"whip_advantage"`
	StrikeoutAdvantage string `json:"strikeout_advantage"`
}

type PitchingMatchup struct {
	Available  bool               `json:"available"`
	Self       PitcherLine        `json:"self"`
	Opponent   PitcherLine        `json:"opponent"`
	Comparison PitchingComparison `json:"comparison"`
}

type WeatherBlock struct {
	Available bool   `json:"available"`
	Condition string `json:"condition"`
	TempF     string `json:"temp_f"`
	Wind      string `json:"wind"`
}

// InjuryNote is one player's injury status
type InjuryNote struct {
	Player      string `json:"player"`
	Status      string `json:"status"`
	Description string `json:"description"`
}

type InjuriesBlock struct {
	Available bool         `json:"available"`
	Self      []InjuryNote `json:"self"`
	Opponent  []InjuryNote `json:"opponent"`
}

type HeadToHeadBlock struct {
	Available    bool   `json:"available"`
	SelfWins     int    `json:"self_wins"`
	OpponentWins int    `json:"opponent_wins"`
	LastMeeting  string `json:"last_meeting"`
}

// PreviewOptions controls which optional blocks are gathered and how deep
// the generated analysis should go.
type PreviewOptions struct {
	IncludeWeather  bool   `json:"include_weather"`
	IncludeInjuries bool   `json:"include_injuries"`
	AnalysisDepth   string `json:"analysis_depth"` // "standard" or "detailed"
}

// Hash produces a stable cache-key component for the option set
func (o PreviewOptions) Hash() string {
	depth := o.AnalysisDepth
	if depth == "" {
		depth = "standard"
	}
	key := depth
	if o.IncludeWeather {
		key += ":w"
	}
	if o.IncludeInjuries {
		key += ":i"
	}
	return key
}
