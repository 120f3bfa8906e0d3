package blacklist

import (
	"fmt"
	"sync/atomic"

	"github.com/haukened/rr-names/internal/names/common/log"
	"github.com/haukened/rr-names/internal/names/domain"
)

// Options configures NewRepository.
type Options struct {
	Blacklist *domain.Blacklist
	// Cache is optional; nil disables decision caching.
	Cache DecisionCache
	// Factory is optional; nil disables the bloom prefilter.
	Factory BloomFactory
	// FPRate is the target false-positive rate of each prefilter.
	FPRate float64
	Logger log.Logger
}

// repository implements Repository over an immutable Blacklist. Reads go
// bloom -> cache -> walk. Blooms are built once at construction and only read
// afterwards.
type repository struct {
	bl     *domain.Blacklist
	cache  DecisionCache
	blooms map[string]BloomFilter
	logger log.Logger

	prefiltered atomic.Uint64
	walks       atomic.Uint64
}

// NewRepository builds one bloom prefilter per collection over the literal
// values and glob prefixes reachable from it.
func NewRepository(opts Options) (Repository, error) {
	if opts.Blacklist == nil {
		return nil, fmt.Errorf("blacklist must not be nil")
	}
	r := &repository{
		bl:     opts.Blacklist,
		cache:  opts.Cache,
		logger: opts.Logger,
	}
	if r.cache == nil {
		r.cache = noCache{}
	}
	if r.logger == nil {
		r.logger = log.NewNoopLogger()
	}
	if opts.Factory != nil {
		blooms, err := buildBlooms(opts.Blacklist, opts.Factory, opts.FPRate)
		if err != nil {
			return nil, err
		}
		r.blooms = blooms
		r.logger.Debug(map[string]any{"collections": len(blooms), "fp_rate": opts.FPRate}, "bloom_prefilters_built")
	}
	return r, nil
}

// buildBlooms flattens each collection and loads literal and glob keys.
func buildBlooms(bl *domain.Blacklist, factory BloomFactory, fpRate float64) (map[string]BloomFilter, error) {
	out := make(map[string]BloomFilter, bl.Len())
	for _, name := range bl.Collections() {
		closure, err := bl.Closure(name)
		if err != nil {
			return nil, err
		}
		bf := factory.New(uint64(len(closure)), fpRate)
		for _, e := range closure {
			bf.Add(bloomKey(e.Kind, e.Value))
		}
		out[name] = bf
	}
	return out, nil
}

// bloomKey tags the value with its kind so a literal "ab" never answers for a
// glob "ab*" and the other way round.
func bloomKey(kind domain.EntryKind, value string) []byte {
	b := make([]byte, 0, len(value)+1)
	if kind == domain.EntryGlob {
		b = append(b, '*')
	} else {
		b = append(b, '=')
	}
	return append(b, value...)
}

// Blacklist returns the blacklist the repository decides against.
func (r *repository) Blacklist() *domain.Blacklist { return r.bl }

// Decide returns the Decision for a canonical name within collection. Unknown
// collections are an error; everything else is a value.
func (r *repository) Decide(cn, collection string) (domain.Decision, error) {
	if !r.bl.Has(collection) {
		return domain.Decision{}, fmt.Errorf("%w: %q", domain.ErrUnknownCollection, collection)
	}
	// 1) checkBloom: early-allow if definitively negative
	if !r.checkBloom(cn, collection) {
		r.prefiltered.Add(1)
		return domain.AllowDecision(cn, collection), nil
	}
	// 2) checkCache
	key := cacheKey(collection, cn)
	if d, ok := r.cache.Get(key); ok {
		return cloneDecision(d), nil
	}
	// 3) walk the entries
	r.walks.Add(1)
	dec, forbidden := r.walk(cn, collection, []string{collection})
	if !forbidden {
		dec = domain.AllowDecision(cn, collection)
	}
	dec.Name, dec.Collection = cn, collection
	// 4) updateCache
	r.cache.Put(key, dec)
	if forbidden {
		r.logger.Debug(map[string]any{
			"name":       cn,
			"collection": collection,
			"matched_in": dec.MatchedIn,
			"entry":      dec.Entry.Raw,
		}, "name_forbidden")
	}
	return cloneDecision(dec), nil
}

// checkBloom returns true if the entries must be walked (maybe-positive) and
// false when the name is definitely allowed. Without a filter it returns true.
func (r *repository) checkBloom(cn, collection string) bool {
	bf, ok := r.blooms[collection]
	if !ok {
		return true
	}
	if bf.MightContain(bloomKey(domain.EntryLiteral, cn)) {
		return true
	}
	// every prefix, including the empty one, may be a glob
	for i := 0; i <= len(cn); i++ {
		if bf.MightContain(bloomKey(domain.EntryGlob, cn[:i])) {
			return true
		}
	}
	return false
}

// walk visits entries in document order and stops at the first one that
// forbids the name. A reference forbids whatever its collection forbids.
// The blacklist is acyclic, so recursion terminates.
func (r *repository) walk(cn, collection string, path []string) (domain.Decision, bool) {
	entries, _ := r.bl.Collection(collection)
	for _, e := range entries {
		if e.IsReference() {
			next := append(path[:len(path):len(path)], e.Value)
			if d, hit := r.walk(cn, e.Value, next); hit {
				return d, true
			}
			continue
		}
		if e.Matches(cn) {
			return domain.Decision{MatchedIn: collection, Entry: e, Path: path}, true
		}
	}
	return domain.Decision{}, false
}

// Stats returns repository counters and cache metrics.
func (r *repository) Stats() RepoStats {
	hits, misses, evictions := r.cache.Stats()
	return RepoStats{
		Collections: r.bl.Len(),
		Entries:     r.bl.EntryCount(),
		Cache: CacheStats{
			Size:      r.cache.Len(),
			Hits:      hits,
			Misses:    misses,
			Evictions: evictions,
		},
		Prefiltered: r.prefiltered.Load(),
		Walks:       r.walks.Load(),
	}
}

func cacheKey(collection, cn string) string {
	return collection + "\x00" + cn
}

// cloneDecision keeps cached Path slices away from callers.
func cloneDecision(d domain.Decision) domain.Decision {
	if d.Path != nil {
		d.Path = append([]string(nil), d.Path...)
	}
	return d
}

// noCache is used when no DecisionCache is configured.
type noCache struct{}

func (noCache) Get(string) (domain.Decision, bool) { return domain.Decision{}, false }
func (noCache) Put(string, domain.Decision)        {}
func (noCache) Len() int                           { return 0 }
func (noCache) Stats() (uint64, uint64, uint64)    { return 0, 0, 0 }

var _ Repository = (*repository)(nil)
var _ DecisionCache = noCache{}
