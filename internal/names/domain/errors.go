package domain

import "errors"

var (
	// ErrUnknownCollection is returned when a caller asks for a collection the
	// blacklist does not define.
	ErrUnknownCollection = errors.New("unknown collection")
	// ErrDanglingReference marks a "/name" entry pointing at a missing collection.
	ErrDanglingReference = errors.New("dangling collection reference")
	// ErrReferenceCycle marks collections that reference each other in a loop.
	ErrReferenceCycle = errors.New("collection reference cycle")
	// ErrEmptyEntry marks an empty entry or an empty reference target.
	ErrEmptyEntry = errors.New("empty entry")
)
