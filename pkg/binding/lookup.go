package binding

import (
	"strings"

	"github.com/goliatone/go-formflow/pkg/jsonvalue"
)

// Tier identifies which matching strategy resolved a lookup.
type Tier int

const (
	TierExact Tier = iota
	TierLowercase
	TierSanitized
)

func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierLowercase:
		return "lowercase"
	case TierSanitized:
		return "sanitized"
	default:
		return "unknown"
	}
}

// Predicate filters candidate values during a lookup.
type Predicate func(value any) bool

type tierStrategy struct {
	tier Tier
	find func(l *RecordLookup, key string) (any, bool)
}

// lookupTiers is the matching priority. Every candidate key is tried against a
// tier before the next tier is consulted.
var lookupTiers = []tierStrategy{
	{tier: TierExact, find: (*RecordLookup).exact},
	{tier: TierLowercase, find: (*RecordLookup).lowercase},
	{tier: TierSanitized, find: (*RecordLookup).sanitizedIndex},
}

// Tiers lists the matching strategies in the order they are applied.
func Tiers() []Tier {
	out := make([]Tier, len(lookupTiers))
	for i, strategy := range lookupTiers {
		out[i] = strategy.tier
	}
	return out
}

// RecordLookup resolves keys against a single JSON object using exact,
// case-insensitive and separator-insensitive matching.
type RecordLookup struct {
	record    any
	lower     map[string]any
	sanitized map[string]any
}

// Match describes a successful lookup.
type Match struct {
	Key   string
	Value any
	Tier  Tier
}

// NewRecordLookup indexes record. It reports false when record is not an
// object. When two member names fold to the same index key, the member
// declared last wins.
func NewRecordLookup(record any) (*RecordLookup, bool) {
	members, ok := jsonvalue.Members(record)
	if !ok {
		return nil, false
	}
	l := &RecordLookup{
		record:    record,
		lower:     make(map[string]any, len(members)),
		sanitized: make(map[string]any, len(members)),
	}
	for _, member := range members {
		l.lower[strings.ToLower(member.Key)] = member.Value
		l.sanitized[Sanitize(member.Key)] = member.Value
	}
	return l, true
}

// Resolve returns the first value matching one of the candidate keys. A nil
// predicate accepts any value, including JSON null.
func (l *RecordLookup) Resolve(candidates []string, predicate Predicate) (any, bool) {
	match, ok := l.ResolveMatch(candidates, predicate)
	if !ok {
		return nil, false
	}
	return match.Value, true
}

// ResolveMatch is Resolve with details about which key and tier matched.
func (l *RecordLookup) ResolveMatch(candidates []string, predicate Predicate) (Match, bool) {
	if l == nil || len(candidates) == 0 {
		return Match{}, false
	}
	for _, strategy := range lookupTiers {
		for _, key := range candidates {
			if key == "" {
				continue
			}
			value, ok := strategy.find(l, key)
			if !ok {
				continue
			}
			if predicate != nil && !predicate(value) {
				continue
			}
			return Match{Key: key, Value: value, Tier: strategy.tier}, true
		}
	}
	return Match{}, false
}

func (l *RecordLookup) exact(key string) (any, bool) {
	return jsonvalue.Get(l.record, key)
}

func (l *RecordLookup) lowercase(key string) (any, bool) {
	value, ok := l.lower[strings.ToLower(key)]
	return value, ok
}

func (l *RecordLookup) sanitizedIndex(key string) (any, bool) {
	value, ok := l.sanitized[Sanitize(key)]
	return value, ok
}

// Lookup is a one-shot NewRecordLookup + Resolve.
func Lookup(record any, candidates []string, predicate Predicate) (any, bool) {
	l, ok := NewRecordLookup(record)
	if !ok {
		return nil, false
	}
	return l.Resolve(candidates, predicate)
}

func isArray(value any) bool {
	_, ok := value.([]any)
	return ok
}

func isPresent(value any) bool {
	return value != nil
}

// isNonEmpty rejects null, blank strings and empty collections.
func isNonEmpty(value any) bool {
	switch typed := value.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(typed) != ""
	case []any:
		return len(typed) > 0
	default:
		if jsonvalue.IsObject(value) {
			return jsonvalue.Len(value) > 0
		}
		return true
	}
}
