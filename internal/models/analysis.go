package models

import "time"

// CompletionResult is the raw outcome of one LLM call
type CompletionResult struct {
	Content  string        `json:"content"`
	Usage    TokenUsage    `json:"usage"`
	Cost     float64       `json:"cost"`
	Duration time.Duration `json:"duration"`
	Provider string        `json:"provider"`
	Model    string        `json:"model"`
}

type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Outcome is the parser's classification of the predicted result
type Outcome string

const (
	OutcomeSelfFavored     Outcome = "self_favored"
	OutcomeOpponentFavored Outcome = "opponent_favored"
	OutcomeEven            Outcome = "even"
)

// AnalysisSection is one named section recovered from the generated text
type AnalysisSection struct {
	Content  string   `json:"content"`
	Bullets  []string `json:"bullets"`
	KeyTerms []string `json:"key_terms"`
}

// Predictions holds the parsed outcome fields
type Predictions struct {
	Outcome    Outcome  `json:"outcome"`
	Score      string   `json:"score,omitempty"`
	KeyEvents  []string `json:"key_events"`
	Confidence string   `json:"confidence"` // "high", "moderate", "low"
}

// SpotlightPlayer is a player call-out recovered from the text
type SpotlightPlayer struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type KeywordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// ParseMetadata describes the parsed text itself
type ParseMetadata struct {
	Length      int            `json:"length"`
	Confidence  string         `json:"confidence"`
	Readability string         `json:"readability"` // "easy", "moderate", "complex"
	TopKeywords []KeywordCount `json:"top_keywords"`
	ParsedAt    time.Time      `json:"parsed_at"`
}

// StructuredAnalysis is the fully parsed model output. RawAnalysis keeps the
// original text for audit.
type StructuredAnalysis struct {
	RawAnalysis      string                     `json:"raw_analysis"`
	Structured       map[string]AnalysisSection `json:"structured"`
	KeyInsights      []string                   `json:"key_insights"`
	Predictions      Predictions                `json:"predictions"`
	PlayerSpotlight  []SpotlightPlayer          `json:"player_spotlight"`
	StrategicFactors []string                   `json:"strategic_factors"`
	Metadata         ParseMetadata              `json:"metadata"`
}
