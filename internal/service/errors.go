// Package service implements the business protocols of the reservas
// and atividades services on top of the repository stores and the
// refcheck validator.  Failures are reported as discriminated error
// types so the HTTP boundary can pattern-match them to status codes
// with errors.As/errors.Is instead of parsing messages.
package service

import "fmt"

// ValidationError reports malformed, missing or out-of-range input.
// It is always raised before any store mutation or external call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConflictError reports a violation of the reservation uniqueness
// invariant.  It names the conflicting record so the caller knows which
// booking already holds the room.
type ConflictError struct {
	ID      int
	NumSala int
	Lab     bool
	Data    string
}

func (e *ConflictError) Error() string {
	kind := "sala"
	if e.Lab {
		kind = "lab"
	}
	return fmt.Sprintf("reservation conflict: reservation #%d already holds %s %d on %s",
		e.ID, kind, e.NumSala, e.Data)
}

// ReferenceError reports that a referenced external entity could not be
// confirmed.  Unreachable distinguishes "the owning service said no"
// from "the owning service could not be reached"; both block the write
// and both surface as the same user-visible 400, but callers inside the
// process can log or meter them differently.
type ReferenceError struct {
	Kind        string
	ID          int
	Unreachable bool
}

func (e *ReferenceError) Error() string {
	if e.Unreachable {
		return fmt.Sprintf("reference %s/%d could not be verified: service unreachable", e.Kind, e.ID)
	}
	return fmt.Sprintf("referenced %s/%d does not exist", e.Kind, e.ID)
}
