package services

import "errors"

// Sentinel errors returned by the membership engine. Controllers map these to
// HTTP statuses; anything not listed here is treated as a storage failure.
var (
	// ErrUnauthenticated means no actor identity was supplied with the call.
	ErrUnauthenticated = errors.New("authentication required")

	// Authorization failures
	ErrNotTeamCreator    = errors.New("only the team creator may perform this action")
	ErrNotYourInvitation = errors.New("invitation is addressed to another player")
	ErrNotAdmin          = errors.New("admin privileges required")

	// Invariant violations
	ErrAlreadyInTeam         = errors.New("player already holds a team membership")
	ErrTeamFull              = errors.New("team is full")
	ErrCreatorCannotLeave    = errors.New("team creator cannot leave the team")
	ErrCreatorCannotBeKicked = errors.New("team creator cannot be kicked")

	// Duplicate submissions
	ErrDuplicateRequest    = errors.New("a pending request to this team already exists")
	ErrDuplicateInvitation = errors.New("a pending invitation for this player already exists")

	// Lifecycle
	ErrAlreadyResolved = errors.New("request or invitation is already resolved")
	ErrNotFound        = errors.New("record not found")
)
