package blacklist

import "github.com/haukened/rr-names/internal/names/domain"

// BloomSizer computes Bloom filter parameters from capacity (n) and target FP rate (p).
// It returns m (number of bits) and k (number of hash functions).
type BloomSizer interface {
	Size(n uint64, p float64) (m uint64, k uint8)
}

// BloomFilter is the minimal interface the repository needs from Bloom filters.
type BloomFilter interface {
	Add(key []byte)
	MightContain(key []byte) bool
}

// BloomFactory creates Bloom filters sized for a dataset.
type BloomFactory interface {
	New(capacity uint64, fpRate float64) BloomFilter
}

// DecisionCache caches decisions by collection and canonical name with basic metrics.
type DecisionCache interface {
	Get(key string) (domain.Decision, bool)
	Put(key string, d domain.Decision)
	Len() int
	Stats() (hits, misses, evictions uint64)
}

// Store persists a compiled snapshot of a blacklist.
// - RebuildAll: replace the snapshot atomically
// - Load: reconstruct and re-validate the blacklist
// - Stats: counts and metadata; Close: release resources
type Store interface {
	RebuildAll(bl *domain.Blacklist, version uint64, updatedUnix int64) error
	Load() (*domain.Blacklist, error)
	Stats() StoreStats
	Close() error
}

// Repository is the composition layer that wires bloom -> cache -> blacklist walk.
// Decide expects a canonical (linted) name and returns a value-type Decision.
type Repository interface {
	Decide(canonical, collection string) (domain.Decision, error)
	Blacklist() *domain.Blacklist
	Stats() RepoStats
}
