package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/offerlens/coherence-engine/pkg/apperrors"
	"github.com/offerlens/coherence-engine/pkg/repositories"
)

// DefaultResolutionNote is written when the reviewer resolves without a note.
const DefaultResolutionNote = "Risolto"

// ResolveRequest is the body of a resolve action.
type ResolveRequest struct {
	Notes string `json:"notes"`
}

// ResolveResponse confirms the resolution.
type ResolveResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Notes   string `json:"notes"`
}

// DiscrepancyHandler exposes the discrepancy resolve action.
type DiscrepancyHandler struct {
	discrepancies repositories.DiscrepancyRepository
	logger        *zap.Logger
}

// NewDiscrepancyHandler creates a new discrepancy handler.
func NewDiscrepancyHandler(discrepancies repositories.DiscrepancyRepository, logger *zap.Logger) *DiscrepancyHandler {
	return &DiscrepancyHandler{discrepancies: discrepancies, logger: logger}
}

// RegisterRoutes registers the discrepancy handler's routes on the given mux.
func (h *DiscrepancyHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/discrepancies/{id}/resolve", h.Resolve)
}

// Resolve handles POST /api/discrepancies/{id}/resolve.
// Writes the resolution note and marks the discrepancy resolved. The note
// becomes part of the comparison memory for future scans of the same page.
func (h *DiscrepancyHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "missing_id", "Discrepancy ID is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	var req ResolveRequest
	if r.Body != nil {
		// An empty or absent body is allowed; it resolves with the default note.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	notes := req.Notes
	if notes == "" {
		notes = DefaultResolutionNote
	}

	if err := h.discrepancies.Resolve(r.Context(), id, notes); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			if err := ErrorResponse(w, http.StatusNotFound, "not_found", "Discrepancy not found"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.logger.Error("Failed to resolve discrepancy",
			zap.String("discrepancy_id", id),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to resolve discrepancy"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ResolveResponse{Success: true, ID: id, Notes: notes}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
