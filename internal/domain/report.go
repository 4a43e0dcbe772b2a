package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ComplianceReport is assembled across the two pipeline stages. Fields are
// additive: a later stage failure never retracts what an earlier stage
// gathered, it only appends to Note.
type ComplianceReport struct {
	ID                   uuid.UUID      `json:"id"`
	Status               ResearchStatus `json:"status"`
	Scope                string         `json:"scope"`
	Jurisdiction         string         `json:"jurisdiction,omitempty"`
	RegulationsSummary   string         `json:"regulations_summary"`
	RegulationsCitations []Citation     `json:"regulations_citations"`
	EvaluationText       string         `json:"evaluation_text"`
	EvaluationCitations  []Citation     `json:"evaluation_citations"`
	ReportJSON           map[string]any `json:"report_json,omitempty"`
	Note                 string         `json:"note,omitempty"`
	Embedding            []float32      `json:"-"`
	CreatedAt            time.Time      `json:"created_at"`
}

// Authoritative reports carry at least one citation for each completed
// stage and no refusal note.
func (r *ComplianceReport) Authoritative() bool {
	return r.Note == "" && len(r.RegulationsCitations) > 0
}

// Category seeds the Stage A/B queries for a compliance area. The catalog
// is caller-supplied input, not state owned by the pipeline.
type Category struct {
	Scope           string `json:"scope"`
	Description     string `json:"description"`
	DefaultControls string `json:"default_controls"`
}

type ReportWithScore struct {
	ComplianceReport
	Score float32 `json:"score"`
}

type ReportStore interface {
	Create(ctx context.Context, r *ComplianceReport) error
	GetByID(ctx context.Context, id uuid.UUID) (*ComplianceReport, error)
	ListRecent(ctx context.Context, limit int) ([]ComplianceReport, error)
	FindSimilar(ctx context.Context, embedding []float32, limit int) ([]ReportWithScore, error)
	FindSimilarToReport(ctx context.Context, id uuid.UUID, limit int) ([]ReportWithScore, error)
}
