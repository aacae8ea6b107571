package condition

import "strconv"

// Result is the outcome of evaluating an item.
//
// The graded results are totally ordered from Failed (worst) to Fulfilled
// (best). Undefined, Ignored and Error are sentinels: they are not part of the
// order and must be checked before two results are compared.
type Result int

const (
	// Undefined means the result has not been computed yet. As an accept
	// result it means that no accept expression contributed.
	Undefined Result = iota

	// Error is a hard evaluation fault: a cyclic condition reference, an
	// expression with an unknown domain, a dangling reference or a nesting
	// depth beyond the configured maximum. It means "cannot determine" and
	// must never be read as Failed.
	Error

	// Failed means the item was evaluated and does not match.
	Failed
	Missing
	Unavailable
	Incompatible
	Conflict
	Installed
	Selectable

	// Fulfilled means the item is fully satisfied.
	Fulfilled

	// Ignored means the item does not apply to this evaluation and carries
	// no information.
	Ignored
)

var resultNames = [...]string{
	Undefined:    "UNDEFINED",
	Error:        "ERROR",
	Failed:       "FAILED",
	Missing:      "MISSING",
	Unavailable:  "UNAVAILABLE",
	Incompatible: "INCOMPATIBLE",
	Conflict:     "CONFLICT",
	Installed:    "INSTALLED",
	Selectable:   "SELECTABLE",
	Fulfilled:    "FULFILLED",
	Ignored:      "IGNORED",
}

func (r Result) String() string {
	if r < 0 || int(r) >= len(resultNames) {
		return "Result(" + strconv.Itoa(int(r)) + ")"
	}
	return resultNames[r]
}

// ParseResult returns the result with the given name, as produced by String.
func ParseResult(s string) (Result, bool) {
	for i, n := range resultNames {
		if n == s {
			return Result(i), true
		}
	}
	return Undefined, false
}

// IsGraded reports whether r is on the graded scale.
func (r Result) IsGraded() bool {
	return r >= Failed && r <= Fulfilled
}

// IsSentinel reports whether r is Undefined, Ignored or Error.
func (r Result) IsSentinel() bool {
	return !r.IsGraded()
}

// IsSatisfied reports whether r is graded as satisfied.
func (r Result) IsSatisfied() bool {
	return r.IsGraded() && r >= Fulfilled
}

// weaker reports whether a is strictly weaker than b. Ignored as b acts as
// the neutral require baseline that every graded result is weaker than.
// Both arguments must already have been checked for Undefined and Error.
func weaker(a, b Result) bool {
	if b == Ignored {
		return a.IsGraded()
	}
	return a.IsGraded() && b.IsGraded() && a < b
}

// minResult keeps the weaker of the current require result and a graded result.
func minResult(current, r Result) Result {
	if weaker(r, current) {
		return r
	}
	return current
}

// maxResult keeps the stronger of the current accept result and a graded result.
func maxResult(current, r Result) Result {
	if current == Undefined || weaker(current, r) {
		return r
	}
	return current
}
