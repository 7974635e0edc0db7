package handler

import (
	"net/http"

	"github.com/emberfall/crucible/api/internal/model"
	"github.com/emberfall/crucible/api/internal/service"
)

// PartyHandler handles party HTTP requests
type PartyHandler struct {
	partyService *service.PartyService
}

// NewPartyHandler creates a new party handler
func NewPartyHandler(partyService *service.PartyService) *PartyHandler {
	return &PartyHandler{partyService: partyService}
}

// Create handles POST /v1/parties - form a new party
func (h *PartyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreatePartyRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	party, err := h.partyService.Create(r.Context(), req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, party, nil)
}

// Get handles GET /v1/parties/{partyId} - fetch a party
func (h *PartyHandler) Get(w http.ResponseWriter, r *http.Request) {
	partyID := r.PathValue("partyId")
	if partyID == "" {
		WriteError(w, model.NewBadRequestError("party ID required"))
		return
	}

	party, err := h.partyService.GetParty(r.Context(), partyID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, party, nil)
}

// AddMember handles POST /v1/parties/{partyId}/members - add a roster member
func (h *PartyHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	partyID := r.PathValue("partyId")
	if partyID == "" {
		WriteError(w, model.NewBadRequestError("party ID required"))
		return
	}

	var req model.AddPartyMemberRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	party, err := h.partyService.AddMember(r.Context(), partyID, req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, party, nil)
}

// RemoveMember handles DELETE /v1/parties/{partyId}/members/{participantId}
func (h *PartyHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	partyID := r.PathValue("partyId")
	participantID := r.PathValue("participantId")
	if partyID == "" || participantID == "" {
		WriteError(w, model.NewBadRequestError("party ID and participant ID required"))
		return
	}

	party, err := h.partyService.RemoveMember(r.Context(), partyID, participantID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, party, nil)
}

// Cancel handles POST /v1/parties/{partyId}/cancel - pull a queued party out
// of the queue
func (h *PartyHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	partyID := r.PathValue("partyId")
	if partyID == "" {
		WriteError(w, model.NewBadRequestError("party ID required"))
		return
	}

	party, err := h.partyService.Cancel(r.Context(), partyID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, party, nil)
}
