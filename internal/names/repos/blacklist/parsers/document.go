// Package parsers turns blacklist documents into domain.Blacklist values.
//
// A document is one top-level mapping from collection name to an ordered
// sequence of entry strings:
//
//	all:
//	  - admin
//	  - test*
//	  - /mail
//	mail:
//	  - postmaster
package parsers

import (
	"fmt"

	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	logpkg "github.com/haukened/rr-names/internal/names/common/log"
	"github.com/haukened/rr-names/internal/names/domain"
)

// ParseFile loads a document from disk, choosing the parser by extension.
func ParseFile(path string, logger logpkg.Logger) (*domain.Blacklist, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	parser, err := parserFor(format)
	if err != nil {
		return nil, err
	}
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("error loading blacklist %s: %w", path, err)
	}
	return ParseDocument(k.Raw(), path, logger)
}

// ParseBytes parses an in-memory document in the given format.
func ParseBytes(data []byte, format Format, source string, logger logpkg.Logger) (*domain.Blacklist, error) {
	parser, err := parserFor(format)
	if err != nil {
		return nil, err
	}
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return nil, fmt.Errorf("error parsing blacklist %s: %w", source, err)
	}
	return ParseDocument(k.Raw(), source, logger)
}

// ParseDocument converts a parsed document tree into a validated Blacklist.
//
// Behavior:
// - A null collection is empty; any other non-sequence value is an error
// - Every entry must be a non-empty string
// - Duplicate entries within a collection are kept once, first-seen order preserved
// - Dangling references and reference cycles are rejected
func ParseDocument(raw map[string]any, source string, logger logpkg.Logger) (*domain.Blacklist, error) {
	logger.Debug(map[string]any{"source": source}, "parse_document_start")

	cols := make(map[string][]domain.Entry, len(raw))
	for _, name := range sortedKeys(raw) {
		items, err := toEntryStrings(name, raw[name])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", source, err)
		}
		seen := make(map[string]struct{}, len(items))
		entries := make([]domain.Entry, 0, len(items))
		for i, item := range items {
			e, err := domain.ParseEntry(item)
			if err != nil {
				return nil, fmt.Errorf("%s: collection %q entry %d: %w", source, name, i, err)
			}
			// seen key combines kind and value so "a" and "a*" both survive
			seenKey := e.Kind.String() + "|" + e.Value
			if _, ok := seen[seenKey]; ok {
				logger.Debug(map[string]any{"collection": name, "index": i, "entry": e.Raw}, "skip_duplicate")
				continue
			}
			seen[seenKey] = struct{}{}
			entries = append(entries, e)
		}
		cols[name] = entries
		logger.Debug(map[string]any{"collection": name, "count": len(entries)}, "emit_collection")
	}

	bl, err := domain.NewBlacklist(cols)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	logger.Debug(map[string]any{
		"source":      source,
		"collections": bl.Len(),
		"entries":     bl.EntryCount(),
	}, "parse_document_done")
	return bl, nil
}
