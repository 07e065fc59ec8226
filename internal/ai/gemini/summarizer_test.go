package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/safestay/safestay/internal/ai"
)

func TestSummarizerHappyPath(t *testing.T) {
	stub := &stubGenerator{response: `{"summary": "Tenants praise the security and the responsive landlord."}`}
	summarizer := NewSummarizer(stub, 0, zap.NewNop())

	summary, err := summarizer.Summarize(context.Background(), "Great place.\n\nVery safe at night.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(summary, "security") {
		t.Fatalf("unexpected summary: %q", summary)
	}

	if !strings.Contains(stub.lastPrompt, "Very safe at night.") {
		t.Fatal("expected review text in the prompt")
	}
	if stub.lastSystem != summarySystemPrompt {
		t.Fatalf("unexpected system prompt: %q", stub.lastSystem)
	}
}

func TestSummarizerRefusesEmptyInput(t *testing.T) {
	stub := &stubGenerator{response: `{"summary": "should never be requested"}`}
	summarizer := NewSummarizer(stub, 0, zap.NewNop())

	_, err := summarizer.Summarize(context.Background(), "   \n\t ")
	if !errors.Is(err, ai.ErrNoReviewContent) {
		t.Fatalf("expected ErrNoReviewContent, got %v", err)
	}

	if stub.lastPrompt != "" {
		t.Fatal("model must not be called with nothing to summarize")
	}
}

func TestSummarizerStripsCodeFences(t *testing.T) {
	stub := &stubGenerator{response: "```json\n{\"summary\": \"Quiet building, fair pricing.\"}\n```"}
	summarizer := NewSummarizer(stub, 0, zap.NewNop())

	summary, err := summarizer.Summarize(context.Background(), "Quiet. Fair price.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary != "Quiet building, fair pricing." {
		t.Fatalf("unexpected summary: %q", summary)
	}
}

func TestSummarizerRejectsInvalidResponses(t *testing.T) {
	cases := []struct {
		name     string
		response string
	}{
		{name: "not json", response: "Here is the summary you asked for."},
		{name: "empty summary", response: `{"summary": ""}`},
		{name: "wrong shape", response: `{"text": "nope"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubGenerator{response: tc.response}
			summarizer := NewSummarizer(stub, 0, zap.NewNop())

			_, err := summarizer.Summarize(context.Background(), "Some review text.")

			var invalid *ai.InvalidResponseError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidResponseError, got %v", err)
			}
		})
	}
}
