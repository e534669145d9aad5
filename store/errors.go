package store

import "errors"

// Error Handling Guidelines:
// - Stores: wrap driver errors with fmt.Errorf("context: %w", err) and
//   translate constraint/relation failures to the sentinels below.
// - Services: propagate store errors unchanged.
// - Handlers: translate sentinels to apperrors.* for HTTP responses.

// Predefined errors for the store layer.
var (
	// ErrNotFound indicates that a requested row was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrDuplicate indicates a uniqueness violation, e.g. inserting a
	// permission grant whose (role, permission, resource, program,
	// corporate client) tuple already exists.
	ErrDuplicate = errors.New("duplicate resource")

	// ErrRelationUnavailable indicates the backing table or relation is
	// missing (a deployment/migration gap). Callers must distinguish
	// this from a legitimate "not found" or "denied" so they can fall
	// back rather than lock everyone out.
	ErrRelationUnavailable = errors.New("relation unavailable")
)
