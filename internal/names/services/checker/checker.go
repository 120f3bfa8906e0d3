package checker

import (
	"fmt"

	"github.com/haukened/rr-names/internal/names/common/log"
	"github.com/haukened/rr-names/internal/names/domain"
)

// DefaultCollection is checked when a caller passes an empty collection.
const DefaultCollection = "all"

// Checker composes lint and the blacklist: a name is allowed when it is well
// formed and nothing in the collection forbids its canonical form.
type Checker struct {
	decider    Decider
	logger     log.Logger
	collection string
}

// Options configures NewChecker.
type Options struct {
	Decider Decider
	Logger  log.Logger
	// Collection overrides DefaultCollection.
	Collection string
}

// NewChecker builds a Checker. A nil logger discards output.
func NewChecker(opts Options) (*Checker, error) {
	if opts.Decider == nil {
		return nil, fmt.Errorf("decider must not be nil")
	}
	c := &Checker{
		decider:    opts.Decider,
		logger:     opts.Logger,
		collection: opts.Collection,
	}
	if c.logger == nil {
		c.logger = log.NewNoopLogger()
	}
	if c.collection == "" {
		c.collection = DefaultCollection
	}
	return c, nil
}

// DefaultCollection returns the collection used when none is given.
func (c *Checker) DefaultCollection() string { return c.collection }

// Valid returns the canonical form of name, or false if it fails lint.
func (c *Checker) Valid(name string) (string, bool) { return domain.Valid(name) }

// ValidMaxLength is Valid with a length bound.
func (c *Checker) ValidMaxLength(name string, maxLength int) (string, bool) {
	return domain.ValidMaxLength(name, maxLength)
}

// Check lints name and decides it against collection ("" selects the
// default). Names failing lint are never allowed, whatever the collection;
// only a well-formed name against an unknown collection is an error.
func (c *Checker) Check(name, collection string) (domain.Decision, error) {
	if collection == "" {
		collection = c.collection
	}
	cn, ok := domain.Valid(name)
	if !ok {
		c.logger.Debug(map[string]any{"name": name, "collection": collection}, "name_invalid")
		return domain.InvalidDecision(name, collection), nil
	}
	d, err := c.decider.Decide(cn, collection)
	if err != nil {
		return domain.Decision{}, err
	}
	return d, nil
}

// Allowed reports whether name may be used within collection.
func (c *Checker) Allowed(name, collection string) (bool, error) {
	d, err := c.Check(name, collection)
	if err != nil {
		return false, err
	}
	return d.IsAllowed(), nil
}
