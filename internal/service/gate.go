package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Harshitk-cp/verity/internal/domain"
	"github.com/Harshitk-cp/verity/internal/evidence"
	"go.uber.org/zap"
)

var (
	ErrQueryEmpty = errors.New("query must not be empty")
	ErrTopicEmpty = errors.New("topic must not be empty")
)

const (
	// maxPreviewLen bounds the non-authoritative text preview attached to
	// refusals. The raw text is never discarded, only truncated and marked.
	maxPreviewLen = 1000

	noAnswerNote = "No substantive answer was returned by the research provider."

	refusalNote = "I could not find authoritative, citable sources for this query. " +
		"To avoid hallucination, I won't provide a definitive answer. " +
		"Please refine your question or provide additional context (scope, jurisdiction, timeframe)."

	updatesRefusalNote = "No authoritative citations were found for the requested topic. " +
		"Please refine the topic, specify jurisdiction, or allow non-cited responses."
)

// GateService converts raw research results into either an authoritative
// answer with citations or a structured refusal. Citations are accepted
// from the provider only when structured; otherwise they are re-derived
// from the response text and checked against the authority policy.
type GateService struct {
	research         domain.ResearchClient
	policy           *evidence.AuthorityPolicy
	requireCitations bool
	queryTimeout     time.Duration
	logger           *zap.Logger
}

func NewGateService(rc domain.ResearchClient, policy *evidence.AuthorityPolicy, requireCitations bool, queryTimeout time.Duration, logger *zap.Logger) *GateService {
	return &GateService{
		research:         rc,
		policy:           policy,
		requireCitations: requireCitations,
		queryTimeout:     queryTimeout,
		logger:           logger,
	}
}

// Evaluate applies the gate policy to a single research result. It is
// pure and deterministic: no network, no clock, same input same output.
func (s *GateService) Evaluate(res *domain.ResearchResult) *domain.GateResult {
	out := &domain.GateResult{
		Status:    res.Status,
		Citations: evidence.DedupeCitations(res.Citations),
	}

	if res.Err != "" {
		out.Note = fmt.Sprintf("Error from research provider: %s", res.Err)
		return out
	}

	msg := strings.TrimSpace(res.MessageText)
	if msg == "" {
		out.Note = noAnswerNote
		return out
	}

	// No structured citations: re-derive from the text and keep only
	// authority-approved sources.
	if len(out.Citations) == 0 {
		out.Citations = s.AuthoritativeFromText(msg)
	}

	if s.requireCitations && len(out.Citations) == 0 {
		out.Note = refusalNote
		out.MessageText = truncatePreview(msg, maxPreviewLen)
		return out
	}

	out.MessageText = msg
	return out
}

// HandleQuery runs a single research query through the gate.
func (s *GateService) HandleQuery(ctx context.Context, query string) (*domain.GateResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrQueryEmpty
	}

	res, err := s.research.Query(ctx, query, s.queryTimeout)
	if err != nil {
		return nil, fmt.Errorf("research query: %w", err)
	}

	result := s.Evaluate(res)
	if result.Note != "" {
		s.logger.Info("gate refused to answer authoritatively",
			zap.String("status", string(result.Status)),
			zap.String("note", result.Note))
	}
	return result, nil
}

// SearchUpdates asks for the latest official rules and regulations for a
// topic and gates the answer the same way as HandleQuery, with the
// updates-specific refusal wording.
func (s *GateService) SearchUpdates(ctx context.Context, topic, jurisdiction string) (*domain.GateResult, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, ErrTopicEmpty
	}

	q := fmt.Sprintf("Latest official updates on rules and regulations regarding %s.", topic)
	if jurisdiction != "" {
		q += fmt.Sprintf(" Focus on %s.", jurisdiction)
	}

	res, err := s.research.Query(ctx, q, s.queryTimeout)
	if err != nil {
		return nil, fmt.Errorf("research query: %w", err)
	}

	out := &domain.GateResult{
		Status:      res.Status,
		MessageText: strings.TrimSpace(res.MessageText),
		Citations:   evidence.DedupeCitations(res.Citations),
	}

	if res.Err != "" {
		out.Note = fmt.Sprintf("Error from research provider: %s", res.Err)
		out.MessageText = ""
		return out, nil
	}

	if len(out.Citations) == 0 {
		out.Citations = s.AuthoritativeFromText(out.MessageText)
	}

	if s.requireCitations && len(out.Citations) == 0 {
		out.Note = updatesRefusalNote
	}

	return out, nil
}

// RequiresCitations reports the gate's construction-time policy.
func (s *GateService) RequiresCitations() bool {
	return s.requireCitations
}

// AuthoritativeFromText extracts URLs from free text and keeps only those
// whose host passes the authority policy, as citations.
func (s *GateService) AuthoritativeFromText(text string) []domain.Citation {
	var citations []domain.Citation
	for _, u := range evidence.ExtractURLs(text) {
		if s.policy.IsAuthoritative(u) {
			citations = append(citations, domain.NewCitation(u))
		}
	}
	return evidence.DedupeCitations(citations)
}

// Policy exposes the authority policy for collaborators that filter
// evidence themselves.
func (s *GateService) Policy() *evidence.AuthorityPolicy {
	return s.policy
}

// truncatePreview shortens text to at most limit characters, cutting at a
// word boundary when one is close enough.
func truncatePreview(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	cut := text[:limit-3]
	if idx := strings.LastIndexByte(cut, ' '); idx > limit/2 {
		cut = cut[:idx]
	}
	return cut + "..."
}
