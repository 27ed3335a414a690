package domain

import "errors"

var (
	// ErrPolicyNotFound signals a lookup for an id that does not exist.
	// The core surfaces it to handlers, which decide the HTTP status.
	ErrPolicyNotFound = errors.New("policy not found")

	// ErrProfileNotFound signals an unknown session id on profile lookup.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrCollaborator wraps failures of the search or generation
	// collaborators so handlers can map them to a distinct status.
	ErrCollaborator = errors.New("collaborator failure")
)
