package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/safestay/safestay/internal/ai"
	"github.com/safestay/safestay/internal/logger"
)

//go:embed summary_prompt.md
var summaryPromptTemplate string

//go:embed summary_schema.json
var summaryResponseSchema string

const summarySystemPrompt = "You are an assistant that summarizes tenant reviews for rental listings."

// Summarizer implements ai.Summarizer on top of a Gemini content generator.
type Summarizer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewSummarizer(generator contentGenerator, maxLogLength int, log *zap.Logger) *Summarizer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Summarizer{
		generator: generator,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

func (s *Summarizer) Summarize(ctx context.Context, reviews string) (string, error) {
	if strings.TrimSpace(reviews) == "" {
		return "", ai.ErrNoReviewContent
	}

	message := strings.ReplaceAll(summaryPromptTemplate, "{{REVIEWS}}", reviews)

	s.logger.Debug("gemini summary request",
		zap.Int("prompt_length", utf8.RuneCountInString(message)),
		zap.String("prompt_preview", logger.TruncateForLog(message, s.maxLogLen)),
	)

	raw, err := s.generator.GenerateContent(ctx, summarySystemPrompt, message)
	if err != nil {
		return "", err
	}

	s.logger.Debug("gemini summary response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, s.maxLogLen)),
	)

	cleaned := extractJSON(raw)
	if err := validateAgainstSchema(summaryResponseSchema, cleaned); err != nil {
		return "", &ai.InvalidResponseError{Reason: err.Error(), Raw: raw}
	}

	var parsed struct {
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return "", &ai.InvalidResponseError{Reason: fmt.Sprintf("parse response: %v", err), Raw: raw}
	}

	summary := strings.TrimSpace(parsed.Summary)
	if summary == "" {
		return "", &ai.InvalidResponseError{Reason: "summary is empty", Raw: raw}
	}

	return summary, nil
}
