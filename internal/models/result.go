package models

import "time"

// GameSummary is the fixture view returned to callers
type GameSummary struct {
	GamePk   int64      `json:"game_pk"`
	Date     string     `json:"date"`
	Status   string     `json:"status"`
	Venue    string     `json:"venue"`
	SelfTeam string     `json:"self_team"`
	Opponent string     `json:"opponent"`
	SelfHome bool       `json:"self_home"`
	SelfRec  TeamRecord `json:"self_record"`
	OppRec   TeamRecord `json:"opponent_record"`
}

// PreviewMetadata describes how a preview was produced
type PreviewMetadata struct {
	RequestID   string    `json:"request_id"`
	Provider    string    `json:"provider,omitempty"`
	Model       string    `json:"model,omitempty"`
	TokensUsed  int       `json:"tokens_used,omitempty"`
	Cost        float64   `json:"cost,omitempty"`
	DurationMs  int64     `json:"duration_ms"`
	GeneratedAt time.Time `json:"generated_at"`
}

// PreviewResult is the tagged envelope every public operation returns.
// Expected failures (no game scheduled, upstream unavailable) come back with
// Success=false and Error set; they are never raised as errors.
type PreviewResult struct {
	Success   bool                `json:"success"`
	Date      string              `json:"date"`
	Game      *GameSummary        `json:"game,omitempty"`
	Analysis  *StructuredAnalysis `json:"analysis,omitempty"`
	Metadata  PreviewMetadata     `json:"metadata"`
	FromCache bool                `json:"from_cache"`
	Error     string              `json:"error,omitempty"`
}
