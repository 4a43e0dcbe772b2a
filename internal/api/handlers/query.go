package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Harshitk-cp/verity/internal/service"
)

type QueryHandler struct {
	gate *service.GateService
}

func NewQueryHandler(gate *service.GateService) *QueryHandler {
	return &QueryHandler{gate: gate}
}

type createQueryRequest struct {
	Query string `json:"query"`
}

// Create runs a free-form research query through the trust gate.
func (h *QueryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.gate.HandleQuery(r.Context(), req.Query)
	if err != nil {
		if errors.Is(err, service.ErrQueryEmpty) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to run query")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type searchUpdatesRequest struct {
	Topic        string `json:"topic"`
	Jurisdiction string `json:"jurisdiction,omitempty"`
}

// SearchUpdates fetches the latest official rules and regulations for a
// topic, gated the same way as a free-form query.
func (h *QueryHandler) SearchUpdates(w http.ResponseWriter, r *http.Request) {
	var req searchUpdatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.gate.SearchUpdates(r.Context(), req.Topic, req.Jurisdiction)
	if err != nil {
		if errors.Is(err, service.ErrTopicEmpty) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to search updates")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
