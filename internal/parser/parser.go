package parser

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ballpark-labs/preview-service/internal/cache"
	"github.com/ballpark-labs/preview-service/internal/models"
)

// Parser recovers structured fields from the loosely formatted text the
// model produces. Extraction is purely textual and best-effort: every
// extractor degrades to a safe default when its pattern fails to match, and
// nothing here ever panics on malformed input.
type Parser struct {
	selfTeam string
	cache    *cache.Cache[*models.StructuredAnalysis]
	logger   *logrus.Logger
}

// New creates a parser for the given self team. Parses are cached by a
// SHA-256 of the full raw text so distinct analyses sharing an opening
// never collide.
func New(selfTeam string, cacheTTL time.Duration, logger *logrus.Logger) *Parser {
	return &Parser{
		selfTeam: selfTeam,
		cache:    cache.New[*models.StructuredAnalysis](cacheTTL),
		logger:   logger,
	}
}

// ParseGameAnalysis turns a completion result into a structured analysis
func (p *Parser) ParseGameAnalysis(result *models.CompletionResult) *models.StructuredAnalysis {
	text := result.Content
	key := fingerprint(text)

	if cached, ok := p.cache.Get(key); ok {
		p.logger.WithFields(logrus.Fields{
			"component": "response_parser",
			"key":       key[:12],
		}).Debug("Parse cache hit")
		return cached
	}

	sections := p.ExtractStructuredSections(text)

	analysis := &models.StructuredAnalysis{
		RawAnalysis:      text,
		Structured:       sections,
		KeyInsights:      p.ExtractKeyInsights(text),
		Predictions:      p.extractPredictions(text, sections),
		PlayerSpotlight:  p.ExtractPlayerSpotlight(text),
		StrategicFactors: p.extractStrategicFactors(text, sections),
		Metadata: models.ParseMetadata{
			Length:      len(text),
			Confidence:  p.ExtractConfidence(text),
			Readability: classifyReadability(text),
			TopKeywords: topKeywords(text, 10),
			ParsedAt:    time.Now(),
		},
	}

	p.cache.Set(key, analysis)
	return analysis
}

// fingerprint hashes the full content with whitespace stripped
func fingerprint(text string) string {
	stripped := strings.Join(strings.Fields(text), " ")
	sum := sha256.Sum256([]byte(stripped))
	return hex.EncodeToString(sum[:])
}

// headingPrefixes maps each canonical section to the prefix used for
// tolerant matching, so minor heading variation still resolves.
var headingPrefixes = []struct {
	Section string
	Prefix  string
}{
	{models.SectionGameOverview, "Game Overview"},
	{models.SectionPitchingMatchup, "Pitching Matchup"},
	{models.SectionOffense, "Key Offensive"},
	{models.SectionMomentum, "Team Momentum"},
	{models.SectionStrategy, "Strategic Factors"},
	{models.SectionPlayers, "Key Players"},
	{models.SectionWeather, "Weather"},
	{models.SectionPrediction, "Prediction"},
}

var headingPattern = buildHeadingPattern()

func buildHeadingPattern() *regexp.Regexp {
	prefixes := make([]string, len(headingPrefixes))
	for i, hp := range headingPrefixes {
		prefixes[i] = regexp.QuoteMeta(hp.Prefix)
	}
	// Tolerates markdown heading markers, bold markers and list numbering
	// around the heading text.
	return regexp.MustCompile(`(?im)^\s*(?:#{1,4}\s*)?(?:\*\*)?\s*(?:\d+[.)]\s*)?(` + strings.Join(prefixes, "|") + `)[^\n]*$`)
}

// ExtractStructuredSections finds each expected heading and captures its
// text up to the next heading or end of text. Missing headings simply do not
// appear in the result.
func (p *Parser) ExtractStructuredSections(text string) map[string]models.AnalysisSection {
	sections := make(map[string]models.AnalysisSection)

	matches := headingPattern.FindAllStringSubmatchIndex(text, -1)
	for i, match := range matches {
		prefix := text[match[2]:match[3]]
		section := canonicalSection(prefix)
		if section == "" {
			continue
		}

		contentStart := match[1]
		contentEnd := len(text)
		if i+1 < len(matches) {
			contentEnd = matches[i+1][0]
		}
		content := strings.TrimSpace(text[contentStart:contentEnd])
		if content == "" {
			continue
		}

		// First occurrence wins when the model repeats a heading
		if _, exists := sections[section]; exists {
			continue
		}

		sections[section] = models.AnalysisSection{
			Content:  content,
			Bullets:  ExtractBullets(content),
			KeyTerms: extractKeyTerms(content),
		}
	}

	return sections
}

func canonicalSection(prefix string) string {
	for _, hp := range headingPrefixes {
		if strings.EqualFold(hp.Prefix, prefix) {
			return hp.Section
		}
	}
	return ""
}

var bulletPattern = regexp.MustCompile(`(?m)^\s*(?:[-*•]|\d+[.)])\s+(.+)$`)

// ExtractBullets recognizes dashed, starred, dotted and numbered list lines
func ExtractBullets(content string) []string {
	var bullets []string
	for _, match := range bulletPattern.FindAllStringSubmatch(content, -1) {
		line := strings.TrimSpace(match[1])
		if line != "" {
			bullets = append(bullets, line)
		}
	}
	return bullets
}

// statTerms are abbreviations worth surfacing as key terms when present
var statTerms = []string{"ERA", "WHIP", "OPS", "OBP", "SLG", "AVG", "K/9", "HR", "RBI"}

var properNounPattern = regexp.MustCompile(`\b[A-Z][a-z]+(?: [A-Z][a-z]+)+\b`)

// extractKeyTerms pulls stat abbreviations and proper-noun phrases out of a
// section, deduplicated and capped.
func extractKeyTerms(content string) []string {
	seen := make(map[string]bool)
	var terms []string

	add := func(term string) {
		if len(terms) >= 6 || seen[term] {
			return
		}
		seen[term] = true
		terms = append(terms, term)
	}

	for _, term := range statTerms {
		if strings.Contains(content, term) {
			add(term)
		}
	}
	for _, name := range properNounPattern.FindAllString(content, -1) {
		if !commonPhrase(name) {
			add(name)
		}
	}
	return terms
}
