package service

import "errors"

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable.

// ===== Queue Errors =====
var (
	ErrInvalidContentType = errors.New("unknown content type")
	ErrMissingParticipant = errors.New("participant id is required")
	ErrMissingCharacter   = errors.New("character id is required")
	ErrEntryNotFound      = errors.New("queue entry not found")
)

// ===== Party Errors =====
var (
	ErrPartyNotFound       = errors.New("party not found")
	ErrPartyNotForming     = errors.New("party is not accepting changes")
	ErrPartyNotQueued      = errors.New("party is not queued")
	ErrPartyFull           = errors.New("party roster is full")
	ErrPartyEmpty          = errors.New("party roster is empty")
	ErrAlreadyPartyMember  = errors.New("already a member of this party")
	ErrNotPartyMember      = errors.New("not a member of this party")
	ErrLeaderCannotLeave   = errors.New("party leader cannot be removed")
	ErrDuplicateRoster     = errors.New("party roster contains duplicate participants")
	ErrIllegalPartyStatus  = errors.New("illegal party status transition")
	ErrPartyAlreadyInQueue = errors.New("party already has queued entries")
	ErrPartyMemberInQueue  = errors.New("a roster member is already queued individually")
)

// ===== Instance Errors =====
var (
	ErrInstanceNotFound = errors.New("instance not found")
	ErrNoUsableContent  = errors.New("no usable content definition for group")
)
