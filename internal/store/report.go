package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Harshitk-cp/verity/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
)

type ReportStore struct {
	db *pgxpool.Pool
}

func NewReportStore(db *pgxpool.Pool) *ReportStore {
	return &ReportStore{db: db}
}

func (s *ReportStore) Create(ctx context.Context, r *domain.ComplianceReport) error {
	var embedding *pgvector.Vector
	if len(r.Embedding) > 0 {
		v := pgvector.NewVector(r.Embedding)
		embedding = &v
	}

	regCitationsJSON, err := json.Marshal(r.RegulationsCitations)
	if err != nil {
		return fmt.Errorf("marshal regulations_citations: %w", err)
	}
	evalCitationsJSON, err := json.Marshal(r.EvaluationCitations)
	if err != nil {
		return fmt.Errorf("marshal evaluation_citations: %w", err)
	}

	var reportJSON []byte
	if r.ReportJSON != nil {
		reportJSON, err = json.Marshal(r.ReportJSON)
		if err != nil {
			return fmt.Errorf("marshal report_json: %w", err)
		}
	}

	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}

	return s.db.QueryRow(ctx,
		`INSERT INTO reports (id, status, scope, jurisdiction, regulations_summary, regulations_citations, evaluation_text, evaluation_citations, report_json, note, embedding)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING created_at`,
		r.ID, string(r.Status), r.Scope, r.Jurisdiction, r.RegulationsSummary, regCitationsJSON, r.EvaluationText, evalCitationsJSON, reportJSON, r.Note, embedding,
	).Scan(&r.CreatedAt)
}

const reportColumns = `id, status, scope, jurisdiction, regulations_summary, regulations_citations, evaluation_text, evaluation_citations, report_json, note, created_at`

func (s *ReportStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ComplianceReport, error) {
	r := &domain.ComplianceReport{}
	var regCitationsJSON, evalCitationsJSON, reportJSON []byte

	err := s.db.QueryRow(ctx,
		`SELECT `+reportColumns+` FROM reports WHERE id = $1`,
		id,
	).Scan(
		&r.ID, &r.Status, &r.Scope, &r.Jurisdiction, &r.RegulationsSummary, &regCitationsJSON,
		&r.EvaluationText, &evalCitationsJSON, &reportJSON, &r.Note, &r.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := unmarshalReportFields(r, regCitationsJSON, evalCitationsJSON, reportJSON); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *ReportStore) ListRecent(ctx context.Context, limit int) ([]domain.ComplianceReport, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+reportColumns+` FROM reports ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var reports []domain.ComplianceReport
	for rows.Next() {
		var r domain.ComplianceReport
		var regCitationsJSON, evalCitationsJSON, reportJSON []byte
		if err := rows.Scan(
			&r.ID, &r.Status, &r.Scope, &r.Jurisdiction, &r.RegulationsSummary, &regCitationsJSON,
			&r.EvaluationText, &evalCitationsJSON, &reportJSON, &r.Note, &r.CreatedAt,
		); err != nil {
			return nil, err
		}
		if err := unmarshalReportFields(&r, regCitationsJSON, evalCitationsJSON, reportJSON); err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

func (s *ReportStore) FindSimilar(ctx context.Context, embedding []float32, limit int) ([]domain.ReportWithScore, error) {
	vec := pgvector.NewVector(embedding)

	rows, err := s.db.Query(ctx,
		`SELECT `+reportColumns+`, 1 - (embedding <=> $1) AS score
		 FROM reports
		 WHERE embedding IS NOT NULL
		 ORDER BY embedding <=> $1
		 LIMIT $2`,
		vec, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("find similar reports: %w", err)
	}
	defer rows.Close()

	return scanReportsWithScore(rows)
}

func (s *ReportStore) FindSimilarToReport(ctx context.Context, id uuid.UUID, limit int) ([]domain.ReportWithScore, error) {
	// Ensure the anchor report exists so a missing row is distinguishable
	// from a report with no neighbors.
	var hasEmbedding bool
	err := s.db.QueryRow(ctx,
		`SELECT embedding IS NOT NULL FROM reports WHERE id = $1`,
		id,
	).Scan(&hasEmbedding)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !hasEmbedding {
		return nil, nil
	}

	rows, err := s.db.Query(ctx,
		`SELECT `+reportColumns+`, 1 - (embedding <=> (SELECT embedding FROM reports WHERE id = $1)) AS score
		 FROM reports
		 WHERE embedding IS NOT NULL AND id != $1
		 ORDER BY embedding <=> (SELECT embedding FROM reports WHERE id = $1)
		 LIMIT $2`,
		id, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("find reports similar to %s: %w", id, err)
	}
	defer rows.Close()

	return scanReportsWithScore(rows)
}

func scanReportsWithScore(rows pgx.Rows) ([]domain.ReportWithScore, error) {
	var results []domain.ReportWithScore
	for rows.Next() {
		var rs domain.ReportWithScore
		var regCitationsJSON, evalCitationsJSON, reportJSON []byte
		if err := rows.Scan(
			&rs.ID, &rs.Status, &rs.Scope, &rs.Jurisdiction, &rs.RegulationsSummary, &regCitationsJSON,
			&rs.EvaluationText, &evalCitationsJSON, &reportJSON, &rs.Note, &rs.CreatedAt,
			&rs.Score,
		); err != nil {
			return nil, err
		}
		if err := unmarshalReportFields(&rs.ComplianceReport, regCitationsJSON, evalCitationsJSON, reportJSON); err != nil {
			return nil, err
		}
		results = append(results, rs)
	}
	return results, rows.Err()
}

func unmarshalReportFields(r *domain.ComplianceReport, regCitations, evalCitations, reportJSON []byte) error {
	if len(regCitations) > 0 {
		if err := json.Unmarshal(regCitations, &r.RegulationsCitations); err != nil {
			return fmt.Errorf("unmarshal regulations_citations: %w", err)
		}
	}
	if len(evalCitations) > 0 {
		if err := json.Unmarshal(evalCitations, &r.EvaluationCitations); err != nil {
			return fmt.Errorf("unmarshal evaluation_citations: %w", err)
		}
	}
	if len(reportJSON) > 0 {
		if err := json.Unmarshal(reportJSON, &r.ReportJSON); err != nil {
			return fmt.Errorf("unmarshal report_json: %w", err)
		}
	}
	return nil
}
