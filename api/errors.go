package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized means the session is invalid or expired. In admin
	// mode the shell should re-authenticate; in guest mode callers degrade
	// to anonymous browsing instead of looping.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound covers deleted or unreachable resources, including
	// revoked share tokens.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when the collaborator rejects a write, e.g.
	// deleting a cuisine still referenced by restaurants. The reason is
	// surfaced verbatim via Error.Detail.
	ErrConflict = errors.New("conflict")

	// ErrReadOnly is returned locally, before any request, when a mutating
	// call is attempted through a share-token client.
	ErrReadOnly = errors.New("view only mode")

	// ErrInvalidShareToken is returned locally when a share token is not a
	// well-formed token.
	ErrInvalidShareToken = errors.New("invalid share token")
)

// Error is a collaborator-reported failure.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: %s (status %d)", e.Detail, e.StatusCode)
	}

	return fmt.Sprintf("api: status %d", e.StatusCode)
}

// Unwrap maps HTTP statuses onto the error taxonomy so callers can use
// errors.Is without inspecting status codes.
func (e *Error) Unwrap() error {
	switch e.StatusCode {
	case 401:
		return ErrUnauthorized
	case 404:
		return ErrNotFound
	case 400, 409:
		return ErrConflict
	default:
		return nil
	}
}
