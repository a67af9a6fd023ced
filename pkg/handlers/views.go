package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/offerlens/coherence-engine/pkg/services"
)

// DataHandler exposes the aggregated dashboard read model.
type DataHandler struct {
	views  services.ViewService
	logger *zap.Logger
}

// NewDataHandler creates a new data handler.
func NewDataHandler(views services.ViewService, logger *zap.Logger) *DataHandler {
	return &DataHandler{views: views, logger: logger}
}

// RegisterRoutes registers the data handler's routes on the given mux.
func (h *DataHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/data", h.Data)
}

// Data handles GET /api/data.
// Returns the three aggregated projections: pages, products, discrepancies.
func (h *DataHandler) Data(w http.ResponseWriter, r *http.Request) {
	view, err := h.views.BuildView(r.Context())
	if err != nil {
		h.logger.Error("Failed to build data view", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to load data"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, view); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
