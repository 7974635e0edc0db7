package handler

import (
	"net/http"

	"github.com/emberfall/crucible/api/internal/model"
	"github.com/emberfall/crucible/api/internal/service"
)

// QueueHandler handles queue HTTP requests
type QueueHandler struct {
	queueService *service.QueueService
}

// NewQueueHandler creates a new queue handler
func NewQueueHandler(queueService *service.QueueService) *QueueHandler {
	return &QueueHandler{queueService: queueService}
}

// Join handles POST /v1/queue/join - queue an individual participant
func (h *QueueHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req model.JoinRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	result, err := h.queueService.Join(r.Context(), req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	status := http.StatusCreated
	if result.AlreadyQueued {
		status = http.StatusOK
	}
	WriteData(w, status, result, nil)
}

// Leave handles POST /v1/queue/leave - remove a participant's pending entry
func (h *QueueHandler) Leave(w http.ResponseWriter, r *http.Request) {
	var req model.LeaveRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	result, err := h.queueService.Leave(r.Context(), req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, result, nil)
}

// QueueParty handles POST /v1/parties/{partyId}/queue - queue a party block
func (h *QueueHandler) QueueParty(w http.ResponseWriter, r *http.Request) {
	partyID := r.PathValue("partyId")
	if partyID == "" {
		WriteError(w, model.NewBadRequestError("party ID required"))
		return
	}

	var req model.PartyQueueRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	req.PartyID = partyID

	result, err := h.queueService.QueueParty(r.Context(), req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, result, nil)
}
