package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"github.com/safestay/safestay/internal/ai"
	"github.com/safestay/safestay/internal/catalog"
	"github.com/safestay/safestay/internal/logger"
)

//go:embed rank_prompt.md
var rankPromptTemplate string

//go:embed rank_schema.json
var rankResponseSchema string

const rankSystemPrompt = "You are an expert in social compatibility and roommate matching for college students."

const defaultMaxLogLength = 200

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
}

// Ranker implements ai.Ranker on top of a Gemini content generator. The
// scoring itself is delegated to the model; the ranker owns prompt
// construction, response validation and the ordering guarantee.
type Ranker struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewRanker(generator contentGenerator, maxLogLength int, log *zap.Logger) *Ranker {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Ranker{
		generator: generator,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

type rankResponse struct {
	Recommendations []rankedCandidate `json:"recommendations"`
}

type rankedCandidate struct {
	ID                  int     `json:"id"`
	MatchScore          float64 `json:"matchScore"`
	CompatibilityReason string  `json:"compatibilityReason"`
}

func (r *Ranker) Rank(ctx context.Context, seeker *catalog.Profile, candidates []*catalog.Profile) ([]*ai.Recommendation, error) {
	if err := validateSeeker(seeker); err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("at least one candidate is required")
	}

	message, err := buildRankPrompt(seeker, candidates)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("gemini rank request",
		zap.Int("candidates", len(candidates)),
		zap.Int("prompt_length", utf8.RuneCountInString(message)),
		zap.String("prompt_preview", logger.TruncateForLog(message, r.maxLogLen)),
	)

	raw, err := r.generator.GenerateContent(ctx, rankSystemPrompt, message)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("gemini rank response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, r.maxLogLen)),
	)

	parsed, err := parseRankResponse(raw)
	if err != nil {
		return nil, err
	}

	return assembleRecommendations(parsed, candidates, raw)
}

func validateSeeker(seeker *catalog.Profile) error {
	if seeker == nil {
		return fmt.Errorf("seeker profile is required")
	}
	if err := catalog.ValidateProfile(seeker); err != nil {
		return fmt.Errorf("seeker profile: %w", err)
	}

	required := map[string]string{
		"year":         seeker.Year,
		"branch":       seeker.Branch,
		"personality":  seeker.Personality,
		"socialHabits": seeker.SocialHabits,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("seeker profile: %s is required", field)
		}
	}

	return nil
}

func buildRankPrompt(seeker *catalog.Profile, candidates []*catalog.Profile) (string, error) {
	seekerJSON, err := json.MarshalIndent(seeker, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal seeker profile: %w", err)
	}

	candidatesJSON, err := json.MarshalIndent(candidates, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal candidates: %w", err)
	}

	prompt := strings.ReplaceAll(rankPromptTemplate, "{{SEEKER_JSON}}", string(seekerJSON))
	prompt = strings.ReplaceAll(prompt, "{{CANDIDATES_JSON}}", string(candidatesJSON))
	return prompt, nil
}

func parseRankResponse(raw string) (*rankResponse, error) {
	cleaned := extractJSON(raw)

	if err := validateAgainstSchema(rankResponseSchema, cleaned); err != nil {
		return nil, &ai.InvalidResponseError{Reason: err.Error(), Raw: raw}
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, &ai.InvalidResponseError{Reason: fmt.Sprintf("parse response: %v", err), Raw: raw}
	}

	var parsed rankResponse
	cfg := &mapstructure.DecoderConfig{
		Result:  &parsed,
		TagName: "json",
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, fmt.Errorf("build response decoder: %w", err)
	}
	if err := decoder.Decode(data); err != nil {
		return nil, &ai.InvalidResponseError{Reason: fmt.Sprintf("decode response: %v", err), Raw: raw}
	}

	return &parsed, nil
}

// assembleRecommendations cross-checks the parsed payload against the input
// candidates and normalizes the ordering guarantee: descending score, ties
// keep the order the model returned.
func assembleRecommendations(parsed *rankResponse, candidates []*catalog.Profile, raw string) ([]*ai.Recommendation, error) {
	byID := make(map[int]*catalog.Profile, len(candidates))
	for _, candidate := range candidates {
		byID[candidate.ID] = candidate
	}

	if len(parsed.Recommendations) != len(candidates) {
		return nil, &ai.InvalidResponseError{
			Reason: fmt.Sprintf("expected %d recommendations, got %d", len(candidates), len(parsed.Recommendations)),
			Raw:    raw,
		}
	}

	seen := make(map[int]bool, len(candidates))
	recommendations := make([]*ai.Recommendation, 0, len(candidates))
	for _, entry := range parsed.Recommendations {
		profile, ok := byID[entry.ID]
		if !ok {
			return nil, &ai.InvalidResponseError{
				Reason: fmt.Sprintf("unknown candidate id %d", entry.ID),
				Raw:    raw,
			}
		}
		if seen[entry.ID] {
			return nil, &ai.InvalidResponseError{
				Reason: fmt.Sprintf("duplicate candidate id %d", entry.ID),
				Raw:    raw,
			}
		}
		seen[entry.ID] = true

		recommendations = append(recommendations, &ai.Recommendation{
			Profile:             profile,
			MatchScore:          entry.MatchScore,
			CompatibilityReason: strings.TrimSpace(entry.CompatibilityReason),
		})
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].MatchScore > recommendations[j].MatchScore
	})

	return recommendations, nil
}

func validateAgainstSchema(schema, document string) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewStringLoader(document),
	)
	if err != nil {
		return fmt.Errorf("response is not valid JSON: %w", err)
	}

	if result.Valid() {
		return nil
	}

	descriptions := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		descriptions = append(descriptions, desc.String())
	}
	return fmt.Errorf("schema violations: %s", strings.Join(descriptions, "; "))
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
