package domain

import (
	"fmt"
	"strings"
)

// EntryKind defines how a blacklist entry matches names.
//
// literal   - matches the canonical name exactly
// glob      - matches any name starting with the literal portion before the trailing '*'
// reference - delegates to another collection ("/name")
type EntryKind uint8

const (
	// EntryLiteral matches only the exact name.
	EntryLiteral EntryKind = iota
	// EntryGlob matches every name sharing its prefix.
	EntryGlob
	// EntryReference forbids whatever the referenced collection forbids.
	EntryReference
)

// String returns a stable string representation of the entry kind.
func (k EntryKind) String() string {
	switch k {
	case EntryLiteral:
		return "literal"
	case EntryGlob:
		return "glob"
	case EntryReference:
		return "reference"
	default:
		return fmt.Sprintf("EntryKind(%d)", k)
	}
}

// Entry is a single item of a collection.
//
// Raw keeps the text as written in the document. Value is what matching uses:
// the lowercased literal, the lowercased glob prefix, or the referenced
// collection name (kept verbatim, collection names are case-sensitive).
type Entry struct {
	Raw   string
	Kind  EntryKind
	Value string
}

// ParseEntry classifies a raw document entry.
//
// Only a single trailing '*' is special; "a*b" is a literal. A lone "*" is a
// glob with an empty prefix and therefore matches every valid name.
func ParseEntry(raw string) (Entry, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return Entry{}, ErrEmptyEntry
	case strings.HasPrefix(raw, "/"):
		target := raw[1:]
		if target == "" {
			return Entry{}, fmt.Errorf("%w: reference %q names no collection", ErrEmptyEntry, raw)
		}
		return Entry{Raw: raw, Kind: EntryReference, Value: target}, nil
	case strings.HasSuffix(raw, "*"):
		return Entry{Raw: raw, Kind: EntryGlob, Value: strings.ToLower(strings.TrimSuffix(raw, "*"))}, nil
	default:
		return Entry{Raw: raw, Kind: EntryLiteral, Value: strings.ToLower(raw)}, nil
	}
}

// MustParseEntry is ParseEntry for static tables; it panics on error.
func MustParseEntry(raw string) Entry {
	e, err := ParseEntry(raw)
	if err != nil {
		panic(err)
	}
	return e
}

// Matches reports whether a canonical name is forbidden by this entry alone.
// References never match directly; the matcher resolves them.
func (e Entry) Matches(canonical string) bool {
	switch e.Kind {
	case EntryLiteral:
		return canonical == e.Value
	case EntryGlob:
		return strings.HasPrefix(canonical, e.Value)
	default:
		return false
	}
}

// IsReference returns true when the entry delegates to another collection.
func (e Entry) IsReference() bool { return e.Kind == EntryReference }

// String returns the entry as written in the document.
func (e Entry) String() string { return e.Raw }
