package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Harshitk-cp/verity/internal/domain"
	"github.com/Harshitk-cp/verity/internal/evidence"
	"github.com/Harshitk-cp/verity/internal/research"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func setupGateTest(requireCitations bool) (*GateService, *research.MockClient) {
	mock := research.NewMockClient()
	policy := evidence.NewAuthorityPolicy()
	svc := NewGateService(mock, policy, requireCitations, 30*time.Second, testLogger())
	return svc, mock
}

func TestGateService_HandleQuery_WithStructuredCitations(t *testing.T) {
	svc, mock := setupGateTest(true)
	mock.QueryResponse = &domain.ResearchResult{
		Status:      domain.ResearchStatusCompleted,
		MessageText: "GDPR applies to processors and controllers.",
		Citations: []domain.Citation{
			{Title: "GDPR", URL: "https://eur-lex.europa.eu/eli/reg/2016/679/oj"},
		},
	}

	result, err := svc.HandleQuery(context.Background(), "Does GDPR apply to processors?")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Note != "" {
		t.Fatalf("expected no note, got %q", result.Note)
	}
	if result.MessageText != "GDPR applies to processors and controllers." {
		t.Fatalf("unexpected message text %q", result.MessageText)
	}
	if len(result.Citations) != 1 {
		t.Fatalf("expected 1 citation, got %d", len(result.Citations))
	}
}

func TestGateService_HandleQuery_EmptyQuery(t *testing.T) {
	svc, mock := setupGateTest(true)

	_, err := svc.HandleQuery(context.Background(), "   ")
	if err != ErrQueryEmpty {
		t.Fatalf("expected ErrQueryEmpty, got %v", err)
	}
	if len(mock.QueryCalls) != 0 {
		t.Fatalf("expected no research call, got %d", len(mock.QueryCalls))
	}
}

func TestGateService_HandleQuery_RefusesUncited(t *testing.T) {
	svc, mock := setupGateTest(true)
	mock.QueryResponse = &domain.ResearchResult{
		Status:      domain.ResearchStatusCompleted,
		MessageText: "Probably fine, see https://random-blog.example.com/take for details.",
	}

	result, err := svc.HandleQuery(context.Background(), "Is this compliant?")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Note == "" {
		t.Fatal("expected a refusal note")
	}
	if len(result.Citations) != 0 {
		t.Fatalf("expected no citations, got %d", len(result.Citations))
	}
	// The answer text is preserved as a preview, not discarded.
	if !strings.Contains(result.MessageText, "Probably fine") {
		t.Fatalf("expected preview of the raw answer, got %q", result.MessageText)
	}
}

func TestGateService_HandleQuery_FallbackExtraction(t *testing.T) {
	svc, mock := setupGateTest(true)
	mock.QueryResponse = &domain.ResearchResult{
		Status: domain.ResearchStatusCompleted,
		MessageText: "Per the regulation (https://www.fda.gov/regulatory-information.), " +
			"and commentary at https://some-blog.example.com/opinion, labeling is mandatory.",
	}

	result, err := svc.HandleQuery(context.Background(), "Is labeling mandatory?")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Note != "" {
		t.Fatalf("expected no note, got %q", result.Note)
	}
	if len(result.Citations) != 1 {
		t.Fatalf("expected 1 authoritative citation, got %d", len(result.Citations))
	}
	if result.Citations[0].URL != "https://www.fda.gov/regulatory-information" {
		t.Fatalf("unexpected citation URL %q", result.Citations[0].URL)
	}
}

func TestGateService_HandleQuery_CitationsOptional(t *testing.T) {
	svc, mock := setupGateTest(false)
	mock.QueryResponse = &domain.ResearchResult{
		Status:      domain.ResearchStatusCompleted,
		MessageText: "An uncited but allowed answer.",
	}

	result, err := svc.HandleQuery(context.Background(), "anything")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Note != "" {
		t.Fatalf("expected no note when citations are optional, got %q", result.Note)
	}
	if result.MessageText != "An uncited but allowed answer." {
		t.Fatalf("unexpected message text %q", result.MessageText)
	}
}

func TestGateService_HandleQuery_ProviderError(t *testing.T) {
	svc, mock := setupGateTest(true)
	mock.QueryResponse = &domain.ResearchResult{
		Status: domain.ResearchStatusFailed,
		Err:    "upstream returned 500",
	}

	result, err := svc.HandleQuery(context.Background(), "anything")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Status != domain.ResearchStatusFailed {
		t.Fatalf("expected failed status, got %s", result.Status)
	}
	if !strings.Contains(result.Note, "upstream returned 500") {
		t.Fatalf("expected provider error in note, got %q", result.Note)
	}
}

func TestGateService_HandleQuery_EmptyAnswer(t *testing.T) {
	svc, mock := setupGateTest(true)
	mock.QueryResponse = &domain.ResearchResult{
		Status:      domain.ResearchStatusCompleted,
		MessageText: "   ",
	}

	result, err := svc.HandleQuery(context.Background(), "anything")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Note != noAnswerNote {
		t.Fatalf("expected no-answer note, got %q", result.Note)
	}
}

func TestGateService_Evaluate_Deterministic(t *testing.T) {
	svc, _ := setupGateTest(true)
	res := &domain.ResearchResult{
		Status:      domain.ResearchStatusCompleted,
		MessageText: "See https://www.fda.gov/a and https://www.fda.gov/a again.",
	}

	first := svc.Evaluate(res)
	second := svc.Evaluate(res)
	if first.MessageText != second.MessageText || first.Note != second.Note {
		t.Fatal("expected identical results for identical input")
	}
	if len(first.Citations) != 1 {
		t.Fatalf("expected duplicates collapsed to 1 citation, got %d", len(first.Citations))
	}
}

func TestGateService_SearchUpdates(t *testing.T) {
	svc, mock := setupGateTest(true)
	mock.QueryResponse = &domain.ResearchResult{
		Status:      domain.ResearchStatusCompleted,
		MessageText: "New guidance published at https://www.ema.europa.eu/en/news/update.",
	}

	result, err := svc.SearchUpdates(context.Background(), "medical device labeling", "EU")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(mock.QueryCalls) != 1 {
		t.Fatalf("expected 1 research call, got %d", len(mock.QueryCalls))
	}
	if !strings.Contains(mock.QueryCalls[0], "medical device labeling") {
		t.Fatalf("expected topic in query, got %q", mock.QueryCalls[0])
	}
	if !strings.Contains(mock.QueryCalls[0], "EU") {
		t.Fatalf("expected jurisdiction in query, got %q", mock.QueryCalls[0])
	}
	if result.Note != "" {
		t.Fatalf("expected no note, got %q", result.Note)
	}
	if len(result.Citations) != 1 {
		t.Fatalf("expected 1 citation, got %d", len(result.Citations))
	}
}

func TestGateService_SearchUpdates_EmptyTopic(t *testing.T) {
	svc, _ := setupGateTest(true)

	_, err := svc.SearchUpdates(context.Background(), "", "EU")
	if err != ErrTopicEmpty {
		t.Fatalf("expected ErrTopicEmpty, got %v", err)
	}
}

func TestGateService_SearchUpdates_UncitedKeepsText(t *testing.T) {
	svc, mock := setupGateTest(true)
	mock.QueryResponse = &domain.ResearchResult{
		Status:      domain.ResearchStatusCompleted,
		MessageText: "Nothing official found, but forums suggest changes are coming.",
	}

	result, err := svc.SearchUpdates(context.Background(), "crypto assets", "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Note != updatesRefusalNote {
		t.Fatalf("expected updates refusal note, got %q", result.Note)
	}
	// Updates keep the full text alongside the warning.
	if !strings.Contains(result.MessageText, "forums suggest") {
		t.Fatalf("expected full text retained, got %q", result.MessageText)
	}
}

func TestTruncatePreview(t *testing.T) {
	long := strings.Repeat("word ", 300)
	out := truncatePreview(long, 100)
	if len(out) > 100 {
		t.Fatalf("expected preview <= 100 chars, got %d", len(out))
	}
	if !strings.HasSuffix(out, "...") {
		t.Fatalf("expected ellipsis suffix, got %q", out)
	}

	short := "short answer"
	if got := truncatePreview(short, 100); got != short {
		t.Fatalf("expected short text unchanged, got %q", got)
	}
}
