package parser

import (
	"regexp"
	"sort"
	"strings"

	"github.com/ballpark-labs/preview-service/internal/models"
)

// Heuristic extractors that scan the full text rather than a single section.
// Each one is vocabulary-driven and returns a safe default when nothing
// matches.

var sentencePattern = regexp.MustCompile(`[.!?]+\s+`)

func splitSentences(text string) []string {
	var sentences []string
	for _, s := range sentencePattern.Split(text, -1) {
		s = strings.TrimSpace(s)
		if s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// insightPhrases groups the signal vocabularies: matchup advantages,
// predictive statements, and watch-for call-outs.
var insightPhrases = [][]string{
	{"advantage", "edge", "favors", "key factor", "crucial", "decisive"},
	{"should win", "likely to", "expect", "predict", "projected to"},
	{"watch for", "keep an eye", "look for", "pay attention"},
}

const maxInsights = 8

// ExtractKeyInsights pulls sentences that carry analytical signal, deduped
// and capped.
func (p *Parser) ExtractKeyInsights(text string) []string {
	seen := make(map[string]bool)
	var insights []string

	sentences := splitSentences(text)
	for _, family := range insightPhrases {
		for _, sentence := range sentences {
			if len(insights) >= maxInsights {
				return insights
			}
			lower := strings.ToLower(sentence)
			for _, phrase := range family {
				if strings.Contains(lower, phrase) {
					cleaned := cleanSentence(sentence)
					if cleaned != "" && !seen[cleaned] {
						seen[cleaned] = true
						insights = append(insights, cleaned)
					}
					break
				}
			}
		}
	}
	return insights
}

var markupPattern = regexp.MustCompile(`[#*_]+`)

func cleanSentence(s string) string {
	s = markupPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

var (
	positiveOutcomeWords = []string{"win", "victory", "favored", "prevail", "take this", "come out on top", "advantage", "edge"}
	negativeOutcomeWords = []string{"lose", "fall", "struggle", "drop", "underdog", "outmatched"}
)

// ExtractOutcomePrediction classifies which team the text favors. Sentences
// mentioning the self team are scored against win and lose vocabularies;
// nothing conclusive reads as even.
func (p *Parser) ExtractOutcomePrediction(text string) models.Outcome {
	nickname := teamNickname(p.selfTeam)

	var positive, negative int
	for _, sentence := range splitSentences(text) {
		lower := strings.ToLower(sentence)
		if !strings.Contains(lower, strings.ToLower(nickname)) {
			continue
		}
		for _, word := range positiveOutcomeWords {
			if strings.Contains(lower, word) {
				positive++
				break
			}
		}
		for _, word := range negativeOutcomeWords {
			if strings.Contains(lower, word) {
				negative++
				break
			}
		}
	}

	switch {
	case positive > negative:
		return models.OutcomeSelfFavored
	case negative > positive:
		return models.OutcomeOpponentFavored
	default:
		return models.OutcomeEven
	}
}

// teamNickname takes the last word of a full team name, so "San Francisco
// Giants" matches text that just says "Giants".
func teamNickname(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return name
	}
	return fields[len(fields)-1]
}

var (
	strongConfidenceWords = []string{"clearly", "definitely", "strongly", "dominant", "decisive", "certainly", "comfortably", "convincingly"}
	weakConfidenceWords   = []string{"might", "could", "uncertain", "toss-up", "coin flip", "slight", "narrow", "unclear", "close call"}
)

// ExtractConfidence weighs assertive language against hedging language. A
// tie reads as moderate.
func (p *Parser) ExtractConfidence(text string) string {
	lower := strings.ToLower(text)

	var strong, weak int
	for _, word := range strongConfidenceWords {
		strong += strings.Count(lower, word)
	}
	for _, word := range weakConfidenceWords {
		weak += strings.Count(lower, word)
	}

	switch {
	case strong > weak:
		return "high"
	case weak > strong:
		return "low"
	default:
		return "moderate"
	}
}

var scorePattern = regexp.MustCompile(`\b(\d{1,2})\s*(?:-|to)\s*(\d{1,2})\b`)

func (p *Parser) extractPredictions(text string, sections map[string]models.AnalysisSection) models.Predictions {
	predictions := models.Predictions{
		Outcome:    p.ExtractOutcomePrediction(text),
		Confidence: p.ExtractConfidence(text),
	}

	// A score prediction only counts when it appears in the prediction
	// section; elsewhere digit pairs are usually records or stat lines.
	if section, ok := sections[models.SectionPrediction]; ok {
		if match := scorePattern.FindString(section.Content); match != "" {
			predictions.Score = match
		}
		predictions.KeyEvents = section.Bullets
	}

	return predictions
}

// spotlightVocab marks context that makes a nearby player name a call-out
var spotlightVocab = []string{"key", "standout", "watch", "spotlight", "impact", "star", "x-factor", "difference"}

// spotlightReasons maps context keywords to a reason tag; first hit wins
var spotlightReasons = []struct {
	Keyword string
	Reason  string
}{
	{"matchup", "favorable matchup"},
	{"hot", "hot streak"},
	{"streak", "hot streak"},
	{"struggl", "struggling"},
	{"power", "power threat"},
	{"home run", "power threat"},
	{"speed", "speed factor"},
	{"steal", "speed factor"},
	{"clutch", "clutch performer"},
}

const maxSpotlight = 6

var playerNamePattern = regexp.MustCompile(`\b([A-Z][a-z]+(?:\.)? [A-Z][a-z]+)\b`)

// ExtractPlayerSpotlight finds player names mentioned in a call-out context
// and tags each with a reason inferred from the surrounding sentence.
func (p *Parser) ExtractPlayerSpotlight(text string) []models.SpotlightPlayer {
	seen := make(map[string]bool)
	var players []models.SpotlightPlayer

	for _, sentence := range splitSentences(text) {
		if len(players) >= maxSpotlight {
			break
		}
		lower := strings.ToLower(sentence)
		if !containsAny(lower, spotlightVocab) {
			continue
		}

		for _, match := range playerNamePattern.FindAllStringSubmatch(sentence, -1) {
			name := match[1]
			if seen[name] || commonPhrase(name) || strings.Contains(p.selfTeam, name) {
				continue
			}
			seen[name] = true
			players = append(players, models.SpotlightPlayer{
				Name:   name,
				Reason: spotlightReason(lower),
			})
			if len(players) >= maxSpotlight {
				break
			}
		}
	}
	return players
}

func containsAny(text string, words []string) bool {
	for _, word := range words {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}

func spotlightReason(sentence string) string {
	for _, sr := range spotlightReasons {
		if strings.Contains(sentence, sr.Keyword) {
			return sr.Reason
		}
	}
	return "key player"
}

// commonWords filters proper-noun matches that are headings, team names, or
// sentence-initial phrases rather than player names.
var commonWords = map[string]bool{
	"The": true, "This": true, "These": true, "Both": true, "Their": true,
	"Game": true, "Team": true, "Key": true, "Watch": true, "Weather": true,
	"Venue": true, "Impact": true, "Overview": true, "Analysis": true,
	"Factors": true, "Prediction": true, "Narrative": true, "Players": true,
	"Matchup": true, "Matchups": true, "Momentum": true, "Recent": true,
	"Form": true, "Offensive": true, "Strategic": true, "Pitching": true,
	// Multi-word city names would otherwise read as player names
	"Los": true, "Angeles": true, "San": true, "Francisco": true,
	"New": true, "York": true, "Kansas": true, "City": true,
	"Tampa": true, "Bay": true, "Oracle": true, "Park": true,
}

func commonPhrase(name string) bool {
	for _, word := range strings.Fields(name) {
		if commonWords[strings.TrimSuffix(word, ".")] {
			return true
		}
	}
	return false
}

// extractStrategicFactors prefers the dedicated section's bullets, falling
// back to factor-flavored sentences anywhere in the text.
func (p *Parser) extractStrategicFactors(text string, sections map[string]models.AnalysisSection) []string {
	if section, ok := sections[models.SectionStrategy]; ok && len(section.Bullets) > 0 {
		return section.Bullets
	}

	var factors []string
	for _, sentence := range splitSentences(text) {
		if len(factors) >= 5 {
			break
		}
		lower := strings.ToLower(sentence)
		if strings.Contains(lower, "factor") || strings.Contains(lower, "strategy") || strings.Contains(lower, "strategic") {
			factors = append(factors, cleanSentence(sentence))
		}
	}
	return factors
}

// classifyReadability buckets by average sentence length in words
func classifyReadability(text string) string {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return "easy"
	}

	totalWords := 0
	for _, sentence := range sentences {
		totalWords += len(strings.Fields(sentence))
	}
	avg := float64(totalWords) / float64(len(sentences))

	switch {
	case avg < 15:
		return "easy"
	case avg < 25:
		return "moderate"
	default:
		return "complex"
	}
}

// stopWords are excluded from keyword frequency counts
var stopWords = map[string]bool{
	"the": true, "and": true, "that": true, "this": true, "with": true,
	"have": true, "from": true, "they": true, "their": true, "will": true,
	"been": true, "more": true, "both": true, "into": true, "over": true,
	"while": true, "when": true, "where": true, "which": true, "should": true,
	"could": true, "would": true, "against": true, "about": true, "than": true,
	"them": true, "these": true, "those": true, "there": true, "what": true,
	"game": true, "team": true, "teams": true, "season": true,
}

var wordPattern = regexp.MustCompile(`[a-z]{4,}`)

// topKeywords counts non-stopword occurrences and returns the most frequent
func topKeywords(text string, limit int) []models.KeywordCount {
	counts := make(map[string]int)
	for _, word := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if !stopWords[word] {
			counts[word]++
		}
	}

	keywords := make([]models.KeywordCount, 0, len(counts))
	for word, count := range counts {
		keywords = append(keywords, models.KeywordCount{Word: word, Count: count})
	}
	sort.Slice(keywords, func(i, j int) bool {
		if keywords[i].Count != keywords[j].Count {
			return keywords[i].Count > keywords[j].Count
		}
		return keywords[i].Word < keywords[j].Word
	})

	if len(keywords) > limit {
		keywords = keywords[:limit]
	}
	return keywords
}
