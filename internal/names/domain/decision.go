package domain

// Decision is the outcome of checking a name against one collection.
// Pure value type, no external dependencies.
type Decision struct {
	Allowed    bool     // true when nothing in the collection forbids the name
	Invalid    bool     // true when the name failed lint; Allowed is then false
	Name       string   // canonical name that was checked (raw input when Invalid)
	Collection string   // collection the caller asked for
	MatchedIn  string   // collection holding the entry that matched
	Entry      Entry    // entry that forbade the name, zero when allowed
	Path       []string // reference chain from Collection to MatchedIn
}

// IsAllowed is a convenience accessor.
func (d Decision) IsAllowed() bool { return d.Allowed }

// AllowDecision returns an allowed decision for name within collection.
func AllowDecision(name, collection string) Decision {
	return Decision{Allowed: true, Name: name, Collection: collection}
}

// InvalidDecision returns a not-allowed decision for a name that failed lint.
func InvalidDecision(name, collection string) Decision {
	return Decision{Invalid: true, Name: name, Collection: collection}
}
