package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Harshitk-cp/verity/internal/domain"
	"github.com/Harshitk-cp/verity/internal/evidence"
	"github.com/Harshitk-cp/verity/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrScopeEmpty      = errors.New("scope must not be empty")
	ErrControlsEmpty   = errors.New("controls text must not be empty")
	ErrReportNotFound  = errors.New("report not found")
	ErrUnknownCategory = errors.New("unknown category")
)

// maxExcerptLen bounds the regulation summary and controls excerpts
// embedded in the evaluation prompt.
const maxExcerptLen = 4000

const evaluationPromptHeader = "You are an expert compliance analyst. Based on the regulations cited below, " +
	"evaluate the following controls and identify any violations, gaps, and an effectiveness rating for each control. " +
	"Return a JSON object with keys: flagged_violations (list), control_effectiveness (list of {control_id, rating, rationale, citations}), " +
	"recommendations (list). For every factual claim include URL citations.\n\n"

const (
	regulationsRefusalNote = "Unable to locate authoritative citations for the applicable regulations. " +
		"To avoid hallucination, cannot produce a definitive compliance report."

	evaluationUncitedNote = "Controls evaluation returned no authoritative citations. " +
		"To avoid hallucination, the report is informational only."

	evaluationUncitedAfterParseNote = "Controls evaluation returned no authoritative citations after parsing."
)

// ReportService assembles two-stage compliance reports: fetch applicable
// regulations, then evaluate caller-supplied controls against them. Each
// stage runs through the trust gate's citation policy, and a later stage
// failure never discards what an earlier stage gathered.
type ReportService struct {
	research    domain.ResearchClient
	gate        *GateService
	reportStore domain.ReportStore
	embedding   domain.EmbeddingClient
	queryTimeout time.Duration
	evalTimeout  time.Duration
	logger       *zap.Logger
}

func NewReportService(rc domain.ResearchClient, gate *GateService, rs domain.ReportStore, ec domain.EmbeddingClient, queryTimeout, evalTimeout time.Duration, logger *zap.Logger) *ReportService {
	return &ReportService{
		research:     rc,
		gate:         gate,
		reportStore:  rs,
		embedding:    ec,
		queryTimeout: queryTimeout,
		evalTimeout:  evalTimeout,
		logger:       logger,
	}
}

// CreateReport runs the two-stage pipeline for the given scope and
// controls. Refusals and partial results come back as well-formed reports
// with a Note; the error return is reserved for invalid arguments and
// request construction failures.
func (s *ReportService) CreateReport(ctx context.Context, scope, controlsText, jurisdiction string) (*domain.ComplianceReport, error) {
	if strings.TrimSpace(scope) == "" {
		return nil, ErrScopeEmpty
	}
	if strings.TrimSpace(controlsText) == "" {
		return nil, ErrControlsEmpty
	}

	// Stage A: regulations and authoritative guidance.
	regQuery := fmt.Sprintf("Authoritative regulations, laws, and official guidance for %s.", scope)
	if jurisdiction != "" {
		regQuery += fmt.Sprintf(" Focus on %s.", jurisdiction)
	}
	regQuery += " Provide a concise summary and include URL citations for each regulation."

	regs, err := s.research.Query(ctx, regQuery, s.queryTimeout)
	if err != nil {
		return nil, fmt.Errorf("fetch regulations: %w", err)
	}

	report := &domain.ComplianceReport{
		Status:               regs.Status,
		Scope:                scope,
		Jurisdiction:         jurisdiction,
		RegulationsSummary:   strings.TrimSpace(regs.MessageText),
		RegulationsCitations: evidence.DedupeCitations(regs.Citations),
		EvaluationCitations:  []domain.Citation{},
	}

	if regs.Err != "" {
		appendNote(report, fmt.Sprintf("Error fetching regulations: %s", regs.Err))
		return s.finish(ctx, report), nil
	}

	if len(report.RegulationsCitations) == 0 {
		report.RegulationsCitations = s.gate.AuthoritativeFromText(report.RegulationsSummary)
	}

	// Evaluating controls without any evidentiary basis is disallowed:
	// refuse here and never start Stage B.
	if s.gate.RequiresCitations() && len(report.RegulationsCitations) == 0 {
		appendNote(report, regulationsRefusalNote)
		return s.finish(ctx, report), nil
	}

	// Stage B: controls evaluation under the extended timeout.
	evalPrompt := evaluationPromptHeader +
		"Regulations summary:\n" + excerpt(report.RegulationsSummary) + "\n\n" +
		"Controls to evaluate:\n" + excerpt(controlsText) + "\n\n" +
		"Return only valid JSON."

	evaluation, err := s.research.Query(ctx, evalPrompt, s.evalTimeout)
	if err != nil {
		return nil, fmt.Errorf("evaluate controls: %w", err)
	}

	report.Status = evaluation.Status
	report.EvaluationText = strings.TrimSpace(evaluation.MessageText)
	report.EvaluationCitations = evidence.DedupeCitations(evaluation.Citations)

	if evaluation.Err != "" {
		appendNote(report, fmt.Sprintf("Error during controls evaluation: %s", evaluation.Err))
		return s.finish(ctx, report), nil
	}

	if s.gate.RequiresCitations() && len(report.EvaluationCitations) == 0 {
		appendNote(report, evaluationUncitedNote)
	}

	s.salvageEvaluation(report, evaluation)

	return s.finish(ctx, report), nil
}

// salvageEvaluation recovers the structured JSON from the Stage-B text and
// rebuilds the evaluation citations from all three evidence sources:
// the provider's structured citations, loose URLs in the text, and URLs
// harvested from inside the parsed payload. The merged, deduplicated,
// authority-filtered set replaces whatever the raw response carried.
func (s *ReportService) salvageEvaluation(report *domain.ComplianceReport, evaluation *domain.ResearchResult) {
	parsed, ok := evidence.SalvageJSON(report.EvaluationText)
	if !ok {
		appendNote(report, "Failed to parse structured evaluation: no JSON object found.")
		return
	}

	obj, isObject := parsed.(map[string]any)
	if !isObject {
		// The prompt contract demands an object; anything else is treated
		// the same as not finding one.
		appendNote(report, "Failed to parse structured evaluation: top-level value is not an object.")
		return
	}
	report.ReportJSON = obj

	merged := make([]domain.Citation, 0, len(evaluation.Citations))
	merged = append(merged, evaluation.Citations...)
	for _, u := range evidence.ExtractURLs(report.EvaluationText) {
		merged = append(merged, domain.NewCitation(u))
	}
	for _, u := range evidence.CollectURLs(parsed) {
		merged = append(merged, domain.NewCitation(u))
	}

	merged = evidence.DedupeCitations(merged)
	report.EvaluationCitations = evidence.FilterAuthoritative(merged, s.gate.Policy())

	if s.gate.RequiresCitations() && len(report.EvaluationCitations) == 0 {
		appendNote(report, evaluationUncitedAfterParseNote)
	}
}

// finish timestamps, embeds and persists the report. Persistence and
// embedding problems are logged, never surfaced: the assembled report is
// already complete and belongs to the caller.
func (s *ReportService) finish(ctx context.Context, report *domain.ComplianceReport) *domain.ComplianceReport {
	report.ID = uuid.New()
	report.CreatedAt = time.Now().UTC()

	if s.embedding != nil && report.RegulationsSummary != "" {
		emb, err := s.embedding.Embed(ctx, report.Scope+"\n"+excerpt(report.RegulationsSummary))
		if err != nil {
			s.logger.Warn("failed to embed report summary", zap.Error(err))
		} else {
			report.Embedding = emb
		}
	}

	if s.reportStore != nil {
		if err := s.reportStore.Create(ctx, report); err != nil {
			s.logger.Warn("failed to persist report",
				zap.String("report_id", report.ID.String()),
				zap.Error(err))
		}
	}

	return report
}

// GetReport returns a stored report by ID.
func (s *ReportService) GetReport(ctx context.Context, id uuid.UUID) (*domain.ComplianceReport, error) {
	report, err := s.reportStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return report, nil
}

// ListReports returns the most recent stored reports.
func (s *ReportService) ListReports(ctx context.Context, limit int) ([]domain.ComplianceReport, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	reports, err := s.reportStore.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	if reports == nil {
		reports = []domain.ComplianceReport{}
	}
	return reports, nil
}

// SimilarReports returns stored reports closest to the given one by
// summary embedding.
func (s *ReportService) SimilarReports(ctx context.Context, id uuid.UUID, limit int) ([]domain.ReportWithScore, error) {
	if limit <= 0 || limit > 50 {
		limit = 5
	}
	results, err := s.reportStore.FindSimilarToReport(ctx, id, limit)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	if results == nil {
		results = []domain.ReportWithScore{}
	}
	return results, nil
}

// SearchReports embeds the query text and returns the closest stored
// reports.
func (s *ReportService) SearchReports(ctx context.Context, query string, limit int) ([]domain.ReportWithScore, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrQueryEmpty
	}
	if limit <= 0 || limit > 50 {
		limit = 5
	}

	emb, err := s.embedding.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed search query: %w", err)
	}

	results, err := s.reportStore.FindSimilar(ctx, emb, limit)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []domain.ReportWithScore{}
	}
	return results, nil
}

// appendNote concatenates stage notes instead of overwriting them. Notes
// are human-readable diagnostics, not a machine-parsed field.
func appendNote(report *domain.ComplianceReport, msg string) {
	if report.Note == "" {
		report.Note = msg
		return
	}
	report.Note += " " + msg
}

func excerpt(text string) string {
	if len(text) <= maxExcerptLen {
		return text
	}
	return text[:maxExcerptLen]
}
