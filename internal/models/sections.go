package models

// Analysis section headings. This vocabulary is a contract between the
// prompt template (which instructs the model to emit these headings) and the
// response parser (which extracts them); change both together.
const (
	SectionGameOverview    = "Game Overview"
	SectionPitchingMatchup = "Pitching Matchup Analysis"
	SectionOffense         = "Key Offensive Matchups"
	SectionMomentum        = "Team Momentum & Recent Form"
	SectionStrategy        = "Strategic Factors"
	SectionPlayers         = "Key Players to Watch"
	SectionWeather         = "Weather/Venue Impact"
	SectionPrediction      = "Prediction & Narrative"
)

// SectionHeadings lists the expected headings in template order
var SectionHeadings = []string{
	SectionGameOverview,
	SectionPitchingMatchup,
	SectionOffense,
	SectionMomentum,
	SectionStrategy,
	SectionPlayers,
	SectionWeather,
	SectionPrediction,
}
