package handler

import (
	"net/http"
	"strconv"

	"github.com/emberfall/crucible/api/internal/model"
	"github.com/emberfall/crucible/api/internal/service"
)

// InstanceHandler handles instance HTTP requests
type InstanceHandler struct {
	instanceService *service.InstanceService
}

// NewInstanceHandler creates a new instance handler
func NewInstanceHandler(instanceService *service.InstanceService) *InstanceHandler {
	return &InstanceHandler{instanceService: instanceService}
}

// Get handles GET /v1/instances/{instanceId} - fetch a provisioned instance
func (h *InstanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	instanceID := r.PathValue("instanceId")
	if instanceID == "" {
		WriteError(w, model.NewBadRequestError("instance ID required"))
		return
	}

	instance, err := h.instanceService.GetInstance(r.Context(), instanceID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, instance, nil)
}

// RecentMatches handles GET /v1/matches/recent?content_type=dungeon&limit=20
func (h *InstanceHandler) RecentMatches(w http.ResponseWriter, r *http.Request) {
	contentType := r.URL.Query().Get("content_type")

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	records, err := h.instanceService.RecentMatches(r.Context(), contentType, limit)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, records, nil)
}
