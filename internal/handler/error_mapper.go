package handler

import (
	"errors"

	"github.com/emberfall/crucible/api/internal/model"
	"github.com/emberfall/crucible/api/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// This centralizes error handling logic for all handlers, ensuring consistent
// HTTP status codes and error messages across the API.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	switch {
	// ===== Bad Request Errors → 400 =====
	case errors.Is(err, service.ErrInvalidContentType),
		errors.Is(err, service.ErrMissingParticipant),
		errors.Is(err, service.ErrMissingCharacter):
		return model.NewBadRequestError(err.Error())

	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrPartyNotFound):
		return model.NewNotFoundError("party")
	case errors.Is(err, service.ErrInstanceNotFound):
		return model.NewNotFoundError("instance")
	case errors.Is(err, service.ErrEntryNotFound):
		return model.NewNotFoundError("queue entry")

	// ===== Conflict Errors → 409 =====
	case errors.Is(err, service.ErrPartyNotForming),
		errors.Is(err, service.ErrPartyNotQueued),
		errors.Is(err, service.ErrIllegalPartyStatus),
		errors.Is(err, service.ErrPartyAlreadyInQueue),
		errors.Is(err, service.ErrPartyMemberInQueue),
		errors.Is(err, service.ErrAlreadyPartyMember),
		errors.Is(err, service.ErrNotPartyMember),
		errors.Is(err, service.ErrLeaderCannotLeave),
		errors.Is(err, service.ErrDuplicateRoster),
		errors.Is(err, service.ErrPartyEmpty):
		return model.NewConflictError(err.Error())

	// ===== Limit Errors → 409 =====
	case errors.Is(err, service.ErrPartyFull):
		return model.NewLimitExceededError("party members", model.MaxPartyMembers, model.MaxPartyMembers)

	// ===== Everything else → 500 =====
	default:
		return model.NewInternalError("an unexpected error occurred")
	}
}
