// Package repository holds the storage layer for every service in this
// repository: mutex-guarded in-memory stores for the reservas and
// atividades services, and MySQL-backed repositories for the escola
// service.  Sentinel errors defined here let handlers and services
// distinguish failure scenarios with errors.Is without inspecting
// message strings.
package repository

import "errors"

// ErrNotFound is returned when an operation targets an id that is not
// present in the store.  Handlers translate it into an HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert would violate a uniqueness
// rule that is not the reservation room/date key, such as a second nota
// for the same (aluno, atividade) pair.  Handlers translate it into an
// HTTP 400.
var ErrDuplicate = errors.New("duplicate")

// ErrHasDependents is returned when a delete cannot proceed because
// other records still reference the target, e.g. removing a turma that
// still has alunos enrolled.
var ErrHasDependents = errors.New("has dependents")

// ErrInvalidReference is returned when a write names a local record
// that does not exist, e.g. creating an aluno in an unknown turma or
// re-pointing a turma at an unknown professor.  It is distinct from
// ErrNotFound so that "the target of the operation is missing" (404)
// and "a field of the request references nothing" (400) never conflate.
var ErrInvalidReference = errors.New("invalid reference")
