package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/safestay/safestay/internal/catalog"
)

// Recommendation is a candidate profile annotated with the compatibility
// verdict from the external reasoning step.
type Recommendation struct {
	Profile             *catalog.Profile `json:"profile"`
	MatchScore          float64          `json:"matchScore"`
	CompatibilityReason string           `json:"compatibilityReason"`
}

// Ranker scores every candidate against the seeker profile. Implementations
// must return exactly one recommendation per candidate, each score within
// [0,100], sorted by descending score; ties keep the original candidate
// order. Scoring is delegated to an external capability and is not
// reproducible across calls.
type Ranker interface {
	Rank(ctx context.Context, seeker *catalog.Profile, candidates []*catalog.Profile) ([]*Recommendation, error)
}

// Summarizer condenses a blob of review text into a short summary.
type Summarizer interface {
	Summarize(ctx context.Context, reviews string) (string, error)
}

// ErrNoReviewContent flags a summarization request with nothing to
// summarize. It is surfaced instead of fabricating a summary.
var ErrNoReviewContent = errors.New("no review content to summarize")

// InvalidResponseError reports an external payload that failed validation
// against the declared contract. It is a hard failure: callers never receive
// a partial or coerced result alongside it.
type InvalidResponseError struct {
	Reason string
	Raw    string
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("invalid ai response: %s", e.Reason)
}
