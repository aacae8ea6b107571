package condition_test

import (
	"testing"

	"github.com/matryer/is"

	"github.com/cmsispack/condition"
	"github.com/cmsispack/condition/attrs"
)

func TestEvaluateExpression(t *testing.T) {
	cases := []struct {
		name string
		expr *condition.Expression
		want condition.Result
	}{
		{"device match", require(attrs.Set{"Dname": "STM32F4*"}), condition.Fulfilled},
		{"device mismatch", require(attrs.Set{"Dname": "LPC1768"}), condition.Failed},
		{"toolchain match", require(attrs.Set{"Tcompiler": "GCC"}), condition.Fulfilled},
		{"toolchain mismatch", accept(attrs.Set{"Tcompiler": "ARMCC"}), condition.Failed},
		{"attribute not in target", require(attrs.Set{"Dfpu": "DP_FPU"}), condition.Fulfilled},
		{"component", require(attrs.Set{"Cclass": "CMSIS", "Cgroup": "CORE"}), condition.Ignored},
		{"mixed domains", require(attrs.Set{"Dname": "STM32F407VG", "Tcompiler": "GCC"}), condition.Error},
		{"unknown attribute", require(attrs.Set{"Xname": "foo"}), condition.Error},
		{"dangling reference", require(attrs.Set{"condition": "nowhere"}), condition.Error},
		{"nil", nil, condition.Ignored},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ctx := condition.NewContext(f407())
			if got := ctx.EvaluateExpression(c.expr); got != c.want {
				t.Errorf("got %v, wanted %v", got, c.want)
			}
		})
	}
}

func TestEvaluateNil(t *testing.T) {
	is := is.New(t)
	ctx := condition.NewContext(f407())
	is.Equal(ctx.Evaluate(nil), condition.Ignored)
	is.Equal(ctx.Evaluate((*condition.Condition)(nil)), condition.Ignored)
	is.Equal(ctx.EvaluateCondition(nil), condition.Ignored)
}

func TestCombination(t *testing.T) {
	m4 := attrs.Set{"Dcore": "Cortex-M4"}
	m0 := attrs.Set{"Dcore": "Cortex-M0"}
	gcc := attrs.Set{"Tcompiler": "GCC"}
	armcc := attrs.Set{"Tcompiler": "ARMCC"}
	component := attrs.Set{"Cclass": "Device"}

	cases := []struct {
		name  string
		exprs []*condition.Expression
		want  condition.Result
	}{
		{"empty", nil, condition.Ignored},
		{"only ignored", []*condition.Expression{require(component)}, condition.Ignored},
		{"all requires hold", []*condition.Expression{require(m4), require(gcc)}, condition.Fulfilled},
		{"one require fails", []*condition.Expression{require(m4), require(armcc)}, condition.Failed},
		{"ignored does not affect result", []*condition.Expression{require(component), require(m4)}, condition.Fulfilled},
		{"one accept holds", []*condition.Expression{accept(armcc), accept(gcc)}, condition.Fulfilled},
		{"no accept holds", []*condition.Expression{accept(armcc), accept(m0)}, condition.Failed},
		{"failing accept caps passing requires", []*condition.Expression{require(m4), require(gcc), accept(armcc)}, condition.Failed},
		{"passing accept keeps failing require", []*condition.Expression{require(armcc), accept(gcc)}, condition.Failed},
		{"accept and require hold", []*condition.Expression{accept(m0), accept(m4), require(gcc)}, condition.Fulfilled},
		{"deny matching", []*condition.Expression{require(m4), deny(attrs.Set{"Dname": "STM32F4*"})}, condition.Failed},
		{"deny not matching", []*condition.Expression{require(m4), deny(attrs.Set{"Dname": "LPC*"})}, condition.Fulfilled},
		{"malformed expression", []*condition.Expression{require(m4), require(attrs.Set{"bogus": "1"})}, condition.Error},
		{"error beats failure", []*condition.Expression{require(armcc), require(attrs.Set{"bogus": "1"})}, condition.Error},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ctx := condition.NewContext(f407())
			got := ctx.Evaluate(condition.NewCondition("c", c.exprs...))
			if got != c.want {
				t.Errorf("got %v, wanted %v", got, c.want)
			}
		})
	}
}

// Two require expressions that match and one accept expression that does
// not: the accept result is weaker and caps the condition.
func TestAcceptCapsRequire(t *testing.T) {
	is := is.New(t)
	c := condition.NewCondition("CM4_GCC").
		Require(attrs.Set{"Dcore": "Cortex-M4"}).
		Require(attrs.Set{"Tcompiler": "GCC"}).
		Accept(attrs.Set{"Dname": "LPC*"})

	ctx := condition.NewContext(f407())
	is.Equal(ctx.Evaluate(c), condition.Failed)

	a, ok := ctx.AcceptResult(c)
	is.True(ok)
	is.Equal(a, condition.Failed)
}

func TestAcceptResultRecorded(t *testing.T) {
	is := is.New(t)
	noAccept := condition.NewCondition("r").Require(attrs.Set{"Tcompiler": "GCC"})
	ctx := condition.NewContext(f407())

	_, ok := ctx.AcceptResult(noAccept)
	is.True(!ok) // not evaluated yet

	is.Equal(ctx.Evaluate(noAccept), condition.Fulfilled)
	a, ok := ctx.AcceptResult(noAccept)
	is.True(ok)
	is.Equal(a, condition.Undefined)
}

func TestCacheByIdentity(t *testing.T) {
	is := is.New(t)

	stub := &countingItem{result: condition.Fulfilled}
	ctx := condition.NewContext(f407())
	is.Equal(ctx.Evaluate(stub), condition.Fulfilled)
	is.Equal(ctx.Evaluate(stub), condition.Fulfilled)
	is.Equal(stub.calls, 1) // second call served from the cache

	r, ok := ctx.Result(stub)
	is.True(ok)
	is.Equal(r, condition.Fulfilled)

	other := &countingItem{result: condition.Fulfilled}
	is.Equal(ctx.Evaluate(other), condition.Fulfilled)
	is.Equal(other.calls, 1) // identical but distinct items are cached independently
}

func TestErrorIsCached(t *testing.T) {
	is := is.New(t)
	stub := &countingItem{result: condition.Error}
	ctx := condition.NewContext(f407())
	ctx.Evaluate(stub)
	ctx.Evaluate(stub)
	is.Equal(stub.calls, 1)
}

func TestNoInformationIsRetried(t *testing.T) {
	for _, res := range []condition.Result{condition.Ignored, condition.Undefined} {
		stub := &countingItem{result: res}
		ctx := condition.NewContext(f407())
		ctx.Evaluate(stub)
		ctx.Evaluate(stub)
		if stub.calls != 2 {
			t.Errorf("%v: evaluated %d times, wanted 2", res, stub.calls)
		}
		if _, ok := ctx.Result(stub); ok {
			t.Errorf("%v: result should not be cached", res)
		}
	}
}

func TestConditionNotRewalked(t *testing.T) {
	is := is.New(t)
	m := &countingMatcher{}
	c := condition.NewCondition("c").
		Require(attrs.Set{"Dcore": "Cortex-M4"}).
		Require(attrs.Set{"Tcompiler": "GCC"})
	twin := condition.NewCondition("c").
		Require(attrs.Set{"Dcore": "Cortex-M4"}).
		Require(attrs.Set{"Tcompiler": "GCC"})
	user := condition.NewCondition("user", ref(condition.Require, c))

	ctx := condition.NewContext(f407(), condition.WithMatcher(m))
	is.Equal(ctx.Evaluate(c), condition.Fulfilled)
	is.Equal(ctx.Evaluate(c), condition.Fulfilled)
	is.Equal(ctx.Evaluate(user), condition.Fulfilled)
	is.Equal(m.calls, 2) // c's expressions matched once

	is.Equal(ctx.Evaluate(twin), condition.Fulfilled)
	is.Equal(m.calls, 4)
}

func TestCycles(t *testing.T) {
	is := is.New(t)

	a := condition.NewCondition("A").Require(attrs.Set{"Dcore": "Cortex-M4"})
	b := condition.NewCondition("B", ref(condition.Require, a))
	a.Add(ref(condition.Require, b))
	top := condition.NewCondition("top", ref(condition.Require, a))
	self := condition.NewCondition("self")
	self.Add(ref(condition.Accept, self))
	fine := condition.NewCondition("fine").Require(attrs.Set{"Tcompiler": "GCC"})

	ctx := condition.NewContext(f407())
	is.Equal(ctx.Evaluate(top), condition.Error)
	is.Equal(ctx.Evaluate(a), condition.Error)
	is.Equal(ctx.Evaluate(b), condition.Error)
	is.Equal(ctx.Evaluate(self), condition.Error)
	is.Equal(ctx.Evaluate(fine), condition.Fulfilled)

	// a fresh pass entering the cycle elsewhere gives the same verdict
	ctx = condition.NewContext(f407())
	is.Equal(ctx.Evaluate(b), condition.Error)
	is.Equal(ctx.Evaluate(top), condition.Error)
}

func TestCycleThroughDeny(t *testing.T) {
	is := is.New(t)
	a := condition.NewCondition("A")
	b := condition.NewCondition("B", ref(condition.Require, a))
	a.Add(ref(condition.Deny, b))

	ctx := condition.NewContext(f407())
	is.Equal(ctx.Evaluate(a), condition.Error)
}

func TestGuardReleasedOnAbort(t *testing.T) {
	is := is.New(t)
	conds := chain(4) // top -> mid -> inner -> leaf
	top, mid, inner := conds[0], conds[1], conds[2]

	ctx := condition.NewContext(f407(), condition.MaxDepth(2))
	is.Equal(ctx.Evaluate(top), condition.Error) // inner is nested too deep

	// mid and top aborted early; they must be evaluable again in this pass
	is.Equal(ctx.Evaluate(inner), condition.Fulfilled)
	is.Equal(ctx.Evaluate(mid), condition.Fulfilled)
	is.Equal(ctx.Evaluate(top), condition.Fulfilled)
}

func TestMaxDepth(t *testing.T) {
	is := is.New(t)

	conds := chain(10)
	is.Equal(condition.NewContext(f407()).Evaluate(conds[0]), condition.Fulfilled)
	is.Equal(condition.NewContext(f407(), condition.MaxDepth(5)).Evaluate(conds[0]), condition.Error)
	is.Equal(condition.NewContext(f407(), condition.MaxDepth(10)).Evaluate(conds[0]), condition.Fulfilled)

	deep := chain(5000)
	is.Equal(condition.NewContext(f407()).Evaluate(deep[0]), condition.Error)
}

func TestDenyContext(t *testing.T) {
	is := is.New(t)
	stm32 := attrs.Set{"Dname": "STM32*"}
	m4 := attrs.Set{"Dcore": "Cortex-M4"}

	// the deny context is restored for siblings
	c := condition.NewCondition("c", deny(attrs.Set{"Dname": "LPC*"}), require(m4))
	is.Equal(condition.NewContext(f407()).Evaluate(c), condition.Fulfilled)

	// nested deny inverts again
	inner := condition.NewCondition("inner", deny(stm32))
	outer := condition.NewCondition("outer", ref(condition.Deny, inner))
	ctx := condition.NewContext(f407())
	is.Equal(ctx.Evaluate(outer), condition.Fulfilled)
	is.Equal(ctx.Evaluate(inner), condition.Failed) // same condition, normal polarity
	is.True(!ctx.Denied())

	// a denied reference to a passing condition fails
	gcc := condition.NewCondition("gcc").Require(attrs.Set{"Tcompiler": "GCC"})
	notGCC := condition.NewCondition("not gcc", ref(condition.Deny, gcc), require(m4))
	ctx = condition.NewContext(f407())
	is.Equal(ctx.Evaluate(notGCC), condition.Failed)
	is.Equal(ctx.Evaluate(gcc), condition.Fulfilled)
}

func TestFilterItems(t *testing.T) {
	is := is.New(t)

	pass := condition.NewCondition("pass").Require(attrs.Set{"Dcore": "Cortex-M4"})
	fail := condition.NewCondition("fail").Require(attrs.Set{"Dcore": "Cortex-M0"})
	ignored := condition.NewCondition("ignored").Require(attrs.Set{"Cclass": "CMSIS"})
	broken := condition.NewCondition("broken").Require(attrs.Set{"bogus": "1"})
	gcc := condition.NewCondition("gcc").Require(attrs.Set{"Tcompiler": "GCC"})
	stub := &countingItem{result: condition.Fulfilled}
	weak := &countingItem{result: condition.Selectable}

	ctx := condition.NewContext(f407())
	got := ctx.FilterItems([]condition.Item{fail, pass, ignored, stub, broken, weak, gcc})
	is.Equal(got, []condition.Item{pass, stub, gcc})

	// the generic form keeps the element type
	conds := condition.Filter(ctx, []*condition.Condition{gcc, fail, pass})
	is.Equal(conds, []*condition.Condition{gcc, pass})
	is.Equal(stub.calls, 1)

	is.Equal(len(ctx.FilterItems(nil)), 0)
}

func TestReset(t *testing.T) {
	for _, res := range []condition.Result{condition.Failed, condition.Error, condition.Fulfilled} {
		stub := &countingItem{result: res}
		ctx := condition.NewContext(f407())
		ctx.Evaluate(stub)
		ctx.Evaluate(stub)
		ctx.Reset()
		if _, ok := ctx.Result(stub); ok {
			t.Errorf("%v: cached result survived Reset", res)
		}
		if got := ctx.Evaluate(stub); got != res {
			t.Errorf("%v: got %v after Reset", res, got)
		}
		if stub.calls != 2 {
			t.Errorf("%v: evaluated %d times, wanted 2", res, stub.calls)
		}
	}
}

func TestPassResult(t *testing.T) {
	is := is.New(t)
	ctx := condition.NewContext(f407())
	is.Equal(ctx.PassResult(), condition.Ignored)

	c := condition.NewCondition("gcc").Require(attrs.Set{"Tcompiler": "GCC"})
	ctx.SetPassResult(ctx.Evaluate(c))
	is.Equal(ctx.PassResult(), condition.Fulfilled)

	ctx.SetAttributes(attrs.Set{"Tcompiler": "ARMCC"})
	is.Equal(ctx.PassResult(), condition.Ignored)
}

func TestSetAttributes(t *testing.T) {
	is := is.New(t)
	c := condition.NewCondition("gcc").Require(attrs.Set{"Tcompiler": "GCC"})
	ctx := condition.NewContext(f407())
	is.Equal(ctx.Evaluate(c), condition.Fulfilled)

	ctx.SetAttributes(attrs.Set{"Tcompiler": "ARMCC"})
	is.Equal(ctx.Attributes()["Tcompiler"], "ARMCC")
	is.Equal(ctx.Evaluate(c), condition.Failed)
}

func TestResolver(t *testing.T) {
	is := is.New(t)
	gcc := condition.NewCondition("GCC").Require(attrs.Set{"Tcompiler": "GCC"})
	user := condition.NewCondition("user").Require(attrs.Set{"condition": "GCC"})
	lib, err := condition.NewLibrary(gcc, user)
	is.NoErr(err)

	is.Equal(condition.NewContext(f407()).Evaluate(user), condition.Error) // no resolver
	ctx := condition.NewContext(f407(), condition.WithResolver(lib))
	is.Equal(ctx.Evaluate(user), condition.Fulfilled)

	// the pass keeps its snapshot until reset
	armcc := condition.NewCondition("GCC").Require(attrs.Set{"Tcompiler": "ARMCC"})
	is.NoErr(lib.ApplyMutations([]condition.Mutation{{Condition: armcc}}))
	other := condition.NewCondition("other").Require(attrs.Set{"condition": "GCC"})
	is.Equal(ctx.Evaluate(other), condition.Fulfilled)

	ctx.Reset()
	is.Equal(ctx.Evaluate(user), condition.Failed)
}

func TestTrace(t *testing.T) {
	is := is.New(t)
	gcc := condition.NewCondition("GCC").Require(attrs.Set{"Tcompiler": "GCC"})
	c := condition.NewCondition("CM4_GCC",
		require(attrs.Set{"Dcore": "Cortex-M4"}),
		ref(condition.Require, gcc),
		deny(attrs.Set{"Dname": "*_LITE"}),
	)

	is.True(condition.NewContext(f407()).Trace() == nil)

	ctx := condition.NewContext(f407(), condition.CollectTrace(true))
	is.Equal(ctx.Evaluate(c), condition.Fulfilled)
	is.Equal(ctx.Evaluate(gcc), condition.Fulfilled)

	tr := ctx.Trace()
	is.Equal(len(tr.Steps), 7)
	is.Equal(tr.Steps[0].Item, condition.Item(c))
	is.Equal(tr.Steps[0].Depth, 0)
	is.Equal(tr.Steps[0].Result, condition.Fulfilled)
	is.Equal(tr.Steps[3].Item, condition.Item(gcc))
	is.Equal(tr.Steps[3].Depth, 1)
	is.True(tr.Steps[5].Denied)
	is.True(tr.Steps[6].Cached)

	report := tr.Report()
	is.True(len(report) > 0)
	debugLogf(t, "\n%s", report)

	ctx.Reset()
	is.Equal(len(ctx.Trace().Steps), 0)
}

func TestWithMatcher(t *testing.T) {
	is := is.New(t)
	exact := condition.MatcherFunc(func(predicate, target attrs.Set) bool {
		for k, v := range predicate {
			if target[k] != v {
				return false
			}
		}
		return true
	})
	c := condition.NewCondition("f4").Require(attrs.Set{"Dname": "STM32F4*"})

	is.Equal(condition.NewContext(f407()).Evaluate(c), condition.Fulfilled)
	is.Equal(condition.NewContext(f407(), condition.WithMatcher(exact)).Evaluate(c), condition.Failed)
}
