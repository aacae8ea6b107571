package attrs

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Set maps attribute names to values. A Set supplied to an evaluation must not
// be modified until the evaluation pass is over.
type Set map[string]string

// Parse builds a Set from "key=value" pairs.
func Parse(pairs []string) (Set, error) {
	s := make(Set, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, errors.Errorf("invalid attribute %q, expected key=value", p)
		}
		s[k] = strings.TrimSpace(v)
	}
	return s, nil
}

// Get returns the value of the attribute and whether it is present.
func (s Set) Get(key string) (string, bool) {
	v, ok := s[key]
	return v, ok
}

// Has reports whether the attribute is present.
func (s Set) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Keys returns the attribute names in alphabetical order.
func (s Set) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a copy of the set.
func (s Set) Clone() Set {
	if s == nil {
		return nil
	}
	c := make(Set, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}

// String renders the set as space separated key="value" pairs, sorted by key.
func (s Set) String() string {
	var sb strings.Builder
	for i, k := range s.Keys() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%s=%q", k, s[k])
	}
	return sb.String()
}

// MatchCommon reports whether every attribute present in both sets has
// matching values. Attributes present in only one of the sets are ignored.
func MatchCommon(predicate, target Set) bool {
	for k, pv := range predicate {
		tv, ok := target[k]
		if !ok {
			continue
		}
		if !Match(pv, tv) {
			return false
		}
	}
	return true
}

// WildcardMatcher matches predicates with MatchCommon.
type WildcardMatcher struct{}

// Match reports whether the predicate matches the target attributes.
func (WildcardMatcher) Match(predicate, target Set) bool {
	return MatchCommon(predicate, target)
}
