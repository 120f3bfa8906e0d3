// Package names checks candidate identifiers such as usernames.
//
// A name passes when it is well formed (see Valid) and no entry of the
// requested blacklist collection forbids it. The default blacklist is the
// names.yaml document embedded in this package; it is parsed once, on first
// use, and never changes afterwards.
package names

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/haukened/rr-names/internal/names/common/log"
	"github.com/haukened/rr-names/internal/names/domain"
	"github.com/haukened/rr-names/internal/names/repos/blacklist"
	"github.com/haukened/rr-names/internal/names/repos/blacklist/bloom"
	"github.com/haukened/rr-names/internal/names/repos/blacklist/lru"
	"github.com/haukened/rr-names/internal/names/repos/blacklist/parsers"
	"github.com/haukened/rr-names/internal/names/services/checker"
)

//go:embed names.yaml
var document []byte

const (
	// DefaultCacheSize is the decision cache capacity of checkers built here.
	DefaultCacheSize = 1024
	// DefaultFPRate is the bloom prefilter false-positive target.
	DefaultFPRate = 0.01

	embeddedSource = "embedded:names.yaml"
)

// Checker validates names against one loaded blacklist.
type Checker = checker.Checker

// Options tunes NewChecker. Zero values select the defaults.
type Options struct {
	CacheSize  int
	FPRate     float64
	Collection string
	Logger     log.Logger
}

var defaultChecker = sync.OnceValues(func() (*Checker, error) {
	bl, err := parsers.ParseBytes(document, parsers.FormatYAML, embeddedSource, log.GetLogger())
	if err != nil {
		return nil, err
	}
	return NewChecker(bl, Options{})
})

// Default returns the process-wide Checker over the embedded document.
func Default() (*Checker, error) {
	return defaultChecker()
}

// Load builds a Checker from a YAML, JSON or TOML document on disk.
func Load(path string, opts Options) (*Checker, error) {
	bl, err := parsers.ParseFile(path, loggerOrGlobal(opts.Logger))
	if err != nil {
		return nil, err
	}
	return NewChecker(bl, opts)
}

// NewChecker wires a blacklist with a decision cache and bloom prefilters.
func NewChecker(bl *domain.Blacklist, opts Options) (*Checker, error) {
	if opts.CacheSize == 0 {
		opts.CacheSize = DefaultCacheSize
	}
	if opts.FPRate == 0 {
		opts.FPRate = DefaultFPRate
	}
	logger := loggerOrGlobal(opts.Logger)

	cache, err := lru.New(opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create decision cache: %w", err)
	}
	repo, err := blacklist.NewRepository(blacklist.Options{
		Blacklist: bl,
		Cache:     cache,
		Factory:   bloom.NewFactory(),
		FPRate:    opts.FPRate,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}
	return checker.NewChecker(checker.Options{
		Decider:    repo,
		Logger:     logger,
		Collection: opts.Collection,
	})
}

func loggerOrGlobal(l log.Logger) log.Logger {
	if l == nil {
		return log.GetLogger()
	}
	return l
}

// Document returns a copy of the embedded default document.
func Document() []byte {
	return append([]byte(nil), document...)
}

// Valid returns the lowercase form of name if it is well formed:
// non-empty, only ASCII letters, digits and dashes, no leading digit, no
// leading, trailing or doubled dash.
func Valid(name string) (string, bool) {
	return domain.Valid(name)
}

// ValidMaxLength is Valid that also rejects names longer than maxLength.
func ValidMaxLength(name string, maxLength int) (string, bool) {
	return domain.ValidMaxLength(name, maxLength)
}

// Allowed reports whether name is valid and not forbidden by the "all"
// collection of the default blacklist. It panics if the embedded document
// cannot be loaded.
func Allowed(name string) bool {
	ok, err := AllowedIn(name, checker.DefaultCollection)
	if err != nil {
		panic(fmt.Sprintf("names: %v", err))
	}
	return ok
}

// AllowedIn is Allowed for an arbitrary collection of the default blacklist.
// An unknown collection is an error.
func AllowedIn(name, collection string) (bool, error) {
	c, err := Default()
	if err != nil {
		return false, err
	}
	return c.Allowed(name, collection)
}
