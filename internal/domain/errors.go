package domain

import "errors"

// Error kinds callers dispatch on with errors.Is. Components wrap these with
// context, e.g. fmt.Errorf("%w: no themes in plan", ErrBadRequest).
var (
	// ErrBadRequest: the query itself could not be acted on (empty intent,
	// no theme, no extracted product).
	ErrBadRequest = errors.New("bad request")

	// ErrNotFound: the query was understood but nothing matched (no prior
	// orders, no active review session, no matching products).
	ErrNotFound = errors.New("not found")

	// ErrExternalService: planner/extractor/retrieval/allocator/classifier
	// timed out or replied with garbage.
	ErrExternalService = errors.New("external service failure")

	// ErrStoreUnavailable: the ephemeral store is unreachable.
	ErrStoreUnavailable = errors.New("store unavailable")
)
