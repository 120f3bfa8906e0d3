package blacklist

// CacheStats reports lightweight cache metrics.
// All fields are best-effort snapshots and may be updated concurrently.
type CacheStats struct {
	Size      int    // current number of entries
	Hits      uint64 // total cache hits since construction
	Misses    uint64 // total cache misses since construction
	Evictions uint64 // total evictions since construction
}

// StoreStats reports snapshot counts and metadata.
type StoreStats struct {
	Collections uint64 // number of collections in the snapshot
	Entries     uint64 // number of entries across all collections
	Version     uint64 // snapshot version (0 if unknown)
	UpdatedUnix int64  // last updated unix time (0 if unknown)
}

// RepoStats exposes repository-level counters.
type RepoStats struct {
	Collections int
	Entries     int
	Cache       CacheStats
	Prefiltered uint64 // decisions answered by a definite bloom negative
	Walks       uint64 // decisions that walked the collection entries
}
