package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Harshitk-cp/verity/internal/domain"
	"github.com/Harshitk-cp/verity/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ReportHandler struct {
	svc *service.ReportService
}

func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

type createReportRequest struct {
	Scope        string `json:"scope"`
	ControlsText string `json:"controls_text,omitempty"`
	Jurisdiction string `json:"jurisdiction,omitempty"`
}

// Create builds a two-stage compliance report. When controls_text is
// omitted, the scope must match a known category, whose default controls
// are evaluated instead.
func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	scope := req.Scope
	controls := req.ControlsText
	if controls == "" {
		cat, ok := service.LookupCategory(req.Scope)
		if !ok {
			writeError(w, http.StatusBadRequest, service.ErrUnknownCategory.Error()+": controls_text is required for scopes outside the category catalog")
			return
		}
		scope = cat.Scope
		controls = cat.DefaultControls
	}

	report, err := h.svc.CreateReport(r.Context(), scope, controls, req.Jurisdiction)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrScopeEmpty),
			errors.Is(err, service.ErrControlsEmpty):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to create report")
		}
		return
	}

	writeJSON(w, http.StatusCreated, report)
}

func (h *ReportHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid report id")
		return
	}

	report, err := h.svc.GetReport(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrReportNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get report")
		return
	}

	writeJSON(w, http.StatusOK, report)
}

type listReportsResponse struct {
	Reports []domain.ComplianceReport `json:"reports"`
	Count   int                       `json:"count"`
}

func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 0)

	reports, err := h.svc.ListReports(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list reports")
		return
	}

	if reports == nil {
		reports = []domain.ComplianceReport{}
	}

	writeJSON(w, http.StatusOK, listReportsResponse{Reports: reports, Count: len(reports)})
}

type similarReportsResponse struct {
	Reports []domain.ReportWithScore `json:"reports"`
	Count   int                      `json:"count"`
}

// Similar returns past reports ranked by embedding similarity to the
// given report.
func (h *ReportHandler) Similar(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid report id")
		return
	}

	limit := parseLimit(r, 0)

	reports, err := h.svc.SimilarReports(r.Context(), id, limit)
	if err != nil {
		if errors.Is(err, service.ErrReportNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to find similar reports")
		return
	}

	if reports == nil {
		reports = []domain.ReportWithScore{}
	}

	writeJSON(w, http.StatusOK, similarReportsResponse{Reports: reports, Count: len(reports)})
}

// Search ranks stored reports by embedding similarity to a free-text query.
func (h *ReportHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeError(w, http.StatusBadRequest, "query parameter is required")
		return
	}

	limit := parseLimit(r, 0)

	reports, err := h.svc.SearchReports(r.Context(), query, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to search reports")
		return
	}

	if reports == nil {
		reports = []domain.ReportWithScore{}
	}

	writeJSON(w, http.StatusOK, similarReportsResponse{Reports: reports, Count: len(reports)})
}

func parseLimit(r *http.Request, fallback int) int {
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
