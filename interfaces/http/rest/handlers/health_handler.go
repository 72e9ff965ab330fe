package handlers

import (
	"net/http"

	"squad-backend/application/ports"
	"squad-backend/pkg/common"
)

// HealthHandler reports process health and the storage mode chosen at
// startup. It reads only the selector's published state and never touches
// the store.
type HealthHandler struct {
	status ports.StorageStatus
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(status ports.StorageStatus) *HealthHandler {
	return &HealthHandler{status: status}
}

// HealthResponse is the health probe payload
type HealthResponse struct {
	Status            string `json:"status"`
	StorageMode       string `json:"storage_mode"`
	DatabaseConnected bool   `json:"database_connected"`
	FallbackReason    string `json:"fallback_reason,omitempty"`
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, HealthResponse{
		Status:            "healthy",
		StorageMode:       string(h.status.Mode),
		DatabaseConnected: h.status.Connected(),
		FallbackReason:    h.status.FallbackReason,
	})
}
