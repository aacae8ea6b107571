package condition_test

import (
	"flag"
	"testing"

	"github.com/cmsispack/condition"
	"github.com/cmsispack/condition/attrs"
)

// Set flag with go test -run=MyTest --debug=true
// to print evaluation traces
var debugOutput bool

func init() {
	flag.BoolVar(&debugOutput, "debug", false, "Enable detailed logging for tests")
}

func debugLogf(t *testing.T, format string, args ...any) {
	t.Helper()
	if debugOutput {
		t.Logf(format, args...)
	}
}

// f407 is an STM32F4 device built with GCC.
func f407() attrs.Set {
	return attrs.Set{
		"Dname":     "STM32F407VG",
		"Dcore":     "Cortex-M4",
		"Dvendor":   "STMicroelectronics:13",
		"Tcompiler": "GCC",
	}
}

// countingItem returns a fixed result and counts how often it was asked.
type countingItem struct {
	result condition.Result
	calls  int
}

func (c *countingItem) Evaluate(*condition.Context) condition.Result {
	c.calls++
	return c.result
}

// countingMatcher wraps the wildcard matcher and counts predicate matches.
type countingMatcher struct {
	calls int
}

func (m *countingMatcher) Match(predicate, target attrs.Set) bool {
	m.calls++
	return attrs.MatchCommon(predicate, target)
}

func require(a attrs.Set) *condition.Expression {
	return condition.NewExpression(condition.Require, a)
}

func accept(a attrs.Set) *condition.Expression {
	return condition.NewExpression(condition.Accept, a)
}

func deny(a attrs.Set) *condition.Expression {
	return condition.NewExpression(condition.Deny, a)
}

func ref(role condition.Role, c *condition.Condition) *condition.Expression {
	return condition.Reference(role, c)
}

// chain returns n conditions where each requires the next; the last one
// requires a matching core.
func chain(n int) []*condition.Condition {
	conds := make([]*condition.Condition, n)
	conds[n-1] = condition.NewCondition("c", require(attrs.Set{"Dcore": "Cortex-M4"}))
	for i := n - 2; i >= 0; i-- {
		conds[i] = condition.NewCondition("c", ref(condition.Require, conds[i+1]))
	}
	return conds
}
