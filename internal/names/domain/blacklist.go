package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Blacklist maps collection names to ordered entries. It is immutable once
// constructed: every accessor returns copies, so it can be shared freely
// between goroutines.
type Blacklist struct {
	collections map[string][]Entry
	names       []string
	entries     int
}

// NewBlacklist validates the collections and builds an immutable Blacklist.
// Collection names must be non-empty, every reference must resolve, and the
// reference graph must be acyclic.
func NewBlacklist(collections map[string][]Entry) (*Blacklist, error) {
	b := &Blacklist{
		collections: make(map[string][]Entry, len(collections)),
		names:       make([]string, 0, len(collections)),
	}
	for name, entries := range collections {
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("collection name must not be empty")
		}
		b.collections[name] = append([]Entry(nil), entries...)
		b.names = append(b.names, name)
		b.entries += len(entries)
	}
	sort.Strings(b.names)

	for _, name := range b.names {
		for i, e := range b.collections[name] {
			if !e.IsReference() {
				continue
			}
			if _, ok := b.collections[e.Value]; !ok {
				return nil, fmt.Errorf("%w: collection %q entry %d references %q", ErrDanglingReference, name, i, e.Value)
			}
		}
	}
	if err := b.checkCycles(); err != nil {
		return nil, err
	}
	return b, nil
}

// checkCycles runs a colored depth-first search over the reference graph.
func (b *Blacklist) checkCycles() error {
	const (
		unvisited = iota
		active
		done
	)
	state := make(map[string]int, len(b.names))
	var stack []string

	var visit func(name string) error
	visit = func(name string) error {
		state[name] = active
		stack = append(stack, name)
		for _, e := range b.collections[name] {
			if !e.IsReference() {
				continue
			}
			switch state[e.Value] {
			case active:
				start := 0
				for i, s := range stack {
					if s == e.Value {
						start = i
						break
					}
				}
				cycle := append(append([]string(nil), stack[start:]...), e.Value)
				return fmt.Errorf("%w: %s", ErrReferenceCycle, strings.Join(cycle, " -> "))
			case unvisited:
				if err := visit(e.Value); err != nil {
					return err
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[name] = done
		return nil
	}

	for _, name := range b.names {
		if state[name] == unvisited {
			if err := visit(name); err != nil {
				return err
			}
		}
	}
	return nil
}

// Collection returns a copy of the entries of the named collection.
func (b *Blacklist) Collection(name string) ([]Entry, bool) {
	entries, ok := b.collections[name]
	if !ok {
		return nil, false
	}
	return append([]Entry(nil), entries...), true
}

// Has reports whether the collection exists.
func (b *Blacklist) Has(name string) bool {
	_, ok := b.collections[name]
	return ok
}

// Collections returns the collection names in sorted order.
func (b *Blacklist) Collections() []string {
	return append([]string(nil), b.names...)
}

// Len returns the number of collections.
func (b *Blacklist) Len() int { return len(b.names) }

// EntryCount returns the number of entries across all collections.
func (b *Blacklist) EntryCount() int { return b.entries }

// Closure returns the literal and glob entries reachable from collection,
// following references. Each collection is visited once.
func (b *Blacklist) Closure(collection string) ([]Entry, error) {
	if !b.Has(collection) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, collection)
	}
	var out []Entry
	seen := make(map[string]struct{})
	var walk func(name string)
	walk = func(name string) {
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		for _, e := range b.collections[name] {
			if e.IsReference() {
				walk(e.Value)
				continue
			}
			out = append(out, e)
		}
	}
	walk(collection)
	return out, nil
}
