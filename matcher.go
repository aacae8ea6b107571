package condition

import "github.com/cmsispack/condition/attrs"

// Matcher decides whether a device or toolchain expression's attribute
// predicate matches the target attributes.
type Matcher interface {
	Match(predicate, target attrs.Set) bool
}

// MatcherFunc adapts a function to the Matcher interface.
type MatcherFunc func(predicate, target attrs.Set) bool

// Match calls f(predicate, target).
func (f MatcherFunc) Match(predicate, target attrs.Set) bool {
	return f(predicate, target)
}

var defaultMatcher Matcher = attrs.WildcardMatcher{}
