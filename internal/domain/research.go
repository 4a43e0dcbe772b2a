package domain

import (
	"context"
	"time"
)

// ResearchStatus reflects the terminal state of a deep-research run.
type ResearchStatus string

const (
	ResearchStatusCompleted ResearchStatus = "completed"
	ResearchStatusTimeout   ResearchStatus = "timeout"
	ResearchStatusFailed    ResearchStatus = "failed"
)

func ValidResearchStatus(s string) bool {
	switch ResearchStatus(s) {
	case ResearchStatusCompleted, ResearchStatusTimeout, ResearchStatusFailed:
		return true
	}
	return false
}

// Citation is a (title, url) pair asserted as evidence for a factual claim.
// Title falls back to the URL when the source provided none.
type Citation struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// NewCitation builds a citation from a bare URL.
func NewCitation(url string) Citation {
	return Citation{Title: url, URL: url}
}

// ResearchResult is the raw, untrusted answer from the research provider.
// It is produced once per query and never mutated afterwards; the trust
// gate only reads it.
type ResearchResult struct {
	Status      ResearchStatus `json:"status"`
	MessageText string         `json:"message_text"`
	Citations   []Citation     `json:"citations"`
	Err         string         `json:"error,omitempty"`
}

// GateResult is what callers receive instead of a raw research result.
// Note is non-empty exactly when the answer could not be treated as
// authoritative; refusals are values, never errors.
type GateResult struct {
	Status      ResearchStatus `json:"status"`
	MessageText string         `json:"message_text"`
	Citations   []Citation     `json:"citations"`
	Note        string         `json:"note,omitempty"`
}

// ResearchClient is the boundary to the external deep-research oracle.
// Run failures and timeouts are reported inside the result (Status and
// Err), matching the provider's own status model; the error return is
// reserved for request construction problems. Implementations make no
// trust decisions themselves.
type ResearchClient interface {
	Query(ctx context.Context, query string, timeout time.Duration) (*ResearchResult, error)
}

// EmbeddingClient generates vector embeddings for report similarity recall.
type EmbeddingClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
