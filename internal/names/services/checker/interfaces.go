package checker

import "github.com/haukened/rr-names/internal/names/domain"

// Decider answers whether a canonical name is forbidden within a collection.
// The blacklist repository implements it.
type Decider interface {
	Decide(canonical, collection string) (domain.Decision, error)
}
