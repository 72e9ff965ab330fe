package handlers

import (
	"net/http"

	"squad-backend/application/services"
	"squad-backend/domain/weekend"
	"squad-backend/pkg/common"
	apperrors "squad-backend/pkg/errors"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// WeekendHandler handles weekend availability HTTP requests
type WeekendHandler struct {
	service *services.WeekendService
	logger  *zap.Logger
}

// NewWeekendHandler creates a new weekend handler
func NewWeekendHandler(service *services.WeekendService, logger *zap.Logger) *WeekendHandler {
	return &WeekendHandler{
		service: service,
		logger:  logger,
	}
}

// List handles GET /api/weekends
func (h *WeekendHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.List(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	if records == nil {
		records = []weekend.Record{}
	}
	common.RespondJSON(w, http.StatusOK, records)
}

// UpsertResponse acknowledges a merged record
type UpsertResponse struct {
	Success bool `json:"success"`
}

// Upsert handles POST /api/weekends
func (h *WeekendHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var rec weekend.Record
	if err := common.ParseJSONBody(w, r, &rec, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, string(apperrors.ErrorTypeValidation), "invalid request body: "+err.Error())
		return
	}

	if err := h.service.Upsert(r.Context(), rec); err != nil {
		h.respondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, UpsertResponse{Success: true})
}

// InitializeResponse reports the bulk-initialize outcome
type InitializeResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
}

// Initialize handles POST /api/initialize
func (h *WeekendHandler) Initialize(w http.ResponseWriter, r *http.Request) {
	var records []weekend.Record
	if err := common.ParseJSONBody(w, r, &records, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, string(apperrors.ErrorTypeValidation), "invalid request body: "+err.Error())
		return
	}

	result, err := h.service.Initialize(r.Context(), records)
	if err != nil {
		h.respondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, InitializeResponse{
		Success: true,
		Status:  string(result),
	})
}

func (h *WeekendHandler) respondError(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatusOf(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", zap.Error(err))
	}
	common.RespondError(w, status, apperrors.CodeOf(err), err.Error())
}
