package condition

import (
	"go.uber.org/zap"

	"github.com/cmsispack/condition/attrs"
)

// An Item is anything that can be evaluated against a Context: expressions,
// conditions, or custom items such as CEL checks.
//
// Results are cached by item identity, so implementations must be pointer
// types. Two structurally identical items are cached independently.
type Item interface {
	Evaluate(c *Context) Result
}

// cacheKey identifies a cached result. The deny polarity is part of the key
// because leaf results are inverted in deny context.
type cacheKey struct {
	item Item
	deny bool
}

// A Context evaluates items against one set of target attributes.
//
// A Context represents one evaluation pass: results are cached for the
// lifetime of the pass and Reset (or a fresh Context) is required before the
// Context is used for an unrelated pass. A Context is not safe for concurrent
// use; evaluate independent attribute sets with independent contexts.
type Context struct {
	target   attrs.Set
	opts     Options
	log      *zap.Logger
	resolver Resolver

	results    map[cacheKey]Result
	evaluating map[*Condition]struct{}
	accept     map[*Condition]Result
	deny       bool
	depth      int

	// overflows counts how often MaxDepth was hit in this pass. Results
	// computed while it changed depend on the entry point and are not cached.
	overflows int

	trace *Trace

	// pass is the overall result of the pass, owned by the caller.
	pass Result
}

// NewContext creates a context that evaluates items against target.
// The target must not be modified while the context is in use.
func NewContext(target attrs.Set, opts ...Option) *Context {
	c := &Context{
		target: target,
		opts:   defaultOptions(),
	}
	applyOptions(&c.opts, opts...)
	c.log = c.opts.Logger
	c.Reset()
	return c
}

// Attributes returns the target attributes.
func (c *Context) Attributes() attrs.Set {
	return c.target
}

// SetAttributes replaces the target attributes and starts a new pass.
func (c *Context) SetAttributes(target attrs.Set) {
	c.target = target
	c.Reset()
}

// Denied reports whether the item currently being evaluated is in deny
// context. Custom items that produce a pass/fail verdict should invert it
// when Denied is true.
func (c *Context) Denied() bool {
	return c.deny
}

// Logger returns the context's logger. Custom items use it to report why
// they evaluated to Error.
func (c *Context) Logger() *zap.Logger {
	return c.log
}

// PassResult returns the overall result recorded for the pass with
// SetPassResult. It is Ignored until set and after Reset.
func (c *Context) PassResult() Result {
	return c.pass
}

// SetPassResult records the overall result of the pass, typically the
// combined result of the items a caller evaluated. The context itself never
// reads it.
func (c *Context) SetPassResult(r Result) {
	c.pass = r
}

// Reset clears all cached results and transient state, starting a new pass.
func (c *Context) Reset() {
	c.results = make(map[cacheKey]Result)
	c.evaluating = make(map[*Condition]struct{})
	c.accept = make(map[*Condition]Result)
	c.deny = false
	c.depth = 0
	c.overflows = 0
	c.resolver = snapshotOf(c.opts.Resolver)
	c.pass = Ignored
	c.trace = nil
	if c.opts.CollectTrace {
		c.trace = &Trace{Target: c.target}
	}
}

// Evaluate returns the result of the item, computing it at most once per
// pass. A nil item is Ignored.
//
// Graded results and Error are cached. Ignored and Undefined are not: the
// item is asked again the next time it is evaluated in the pass.
func (c *Context) Evaluate(item Item) Result {
	if item == nil {
		return Ignored
	}
	key := cacheKey{item: item, deny: c.deny}
	if r, ok := c.results[key]; ok && cacheable(r) {
		c.trace.add(item, c.depth, c.deny, r)
		return r
	}

	step := c.trace.begin(item, c.depth, c.deny)
	overflows := c.overflows
	r := item.Evaluate(c)
	if cacheable(r) && c.overflows == overflows {
		c.results[key] = r
	}
	c.trace.end(step, r)
	return r
}

func cacheable(r Result) bool {
	return r.IsGraded() || r == Error
}

// Result returns the cached result of the item in the current deny context,
// if there is one.
func (c *Context) Result(item Item) (Result, bool) {
	r, ok := c.results[cacheKey{item: item, deny: c.deny}]
	return r, ok
}

// EvaluateExpression evaluates an expression according to its domain.
// Component expressions are Ignored; they are resolved elsewhere.
func (c *Context) EvaluateExpression(e *Expression) Result {
	if e == nil {
		return Ignored
	}
	switch e.Domain {
	case ComponentDomain:
		return Ignored
	case DeviceDomain, ToolchainDomain:
		matched := c.opts.Matcher.Match(e.Attributes, c.target)
		if c.deny {
			matched = !matched
		}
		if matched {
			return Fulfilled
		}
		return Failed
	case ReferenceDomain:
		target := resolve(e, c.resolver)
		if target == nil {
			c.log.Warn("unresolved condition reference",
				zap.String("ref", e.Ref),
				zap.Stringer("role", e.Role),
			)
			return Error
		}
		return c.Evaluate(target)
	}
	c.log.Warn("expression with unknown domain",
		zap.Stringer("domain", e.Domain),
		zap.Stringer("attributes", e.Attributes),
	)
	return Error
}

// EvaluateCondition combines the results of the condition's expressions.
//
// Require and deny results are folded with min, so the weakest wins. Accept
// results are folded with max, so the strongest wins; if any accept expression
// contributed and its result is weaker than the require result, it caps the
// condition's result. Ignored expressions contribute nothing. An Error from any
// expression aborts the condition with Error.
//
// Re-entering a condition that is already being evaluated, or nesting deeper
// than MaxDepth, yields Error.
func (c *Context) EvaluateCondition(cond *Condition) Result {
	if cond == nil {
		return Ignored
	}
	if _, busy := c.evaluating[cond]; busy {
		c.log.Warn("cyclic condition reference", zap.String("condition", cond.ID))
		return Error
	}
	if c.depth >= c.opts.MaxDepth {
		c.overflows++
		c.log.Warn("condition nesting too deep",
			zap.String("condition", cond.ID),
			zap.Int("max_depth", c.opts.MaxDepth),
		)
		return Error
	}

	c.evaluating[cond] = struct{}{}
	c.depth++
	defer func() {
		delete(c.evaluating, cond)
		c.depth--
	}()

	require, accept := Ignored, Undefined
	for _, e := range cond.Expressions {
		r := c.evaluateChild(e)
		switch {
		case r == Ignored || r == Undefined:
			continue
		case !r.IsGraded():
			c.log.Debug("condition aborted",
				zap.String("condition", cond.ID),
				zap.Stringer("expression", e),
				zap.Stringer("result", r),
			)
			return Error
		}
		if e.Role == Accept {
			accept = maxResult(accept, r)
		} else {
			require = minResult(require, r)
		}
	}

	c.accept[cond] = accept
	if accept != Undefined && weaker(accept, require) {
		return accept
	}
	return require
}

// evaluateChild evaluates e with the deny context inverted for deny
// expressions. The caller's deny context is restored on return.
func (c *Context) evaluateChild(e *Expression) Result {
	if e == nil {
		return Ignored
	}
	saved := c.deny
	defer func() { c.deny = saved }()
	if e.Role == Deny {
		c.deny = !c.deny
	}
	return c.Evaluate(e)
}

// EvaluateDenied evaluates item with the deny context inverted, as if it
// were the target of a deny expression. Custom items use it to deny other
// items.
func (c *Context) EvaluateDenied(item Item) Result {
	saved := c.deny
	defer func() { c.deny = saved }()
	c.deny = !c.deny
	return c.Evaluate(item)
}

// AcceptResult returns the accept result recorded the last time cond's
// expressions were combined in this pass. Undefined means no accept
// expression contributed.
func (c *Context) AcceptResult(cond *Condition) (Result, bool) {
	r, ok := c.accept[cond]
	return r, ok
}

// FilterItems returns, in input order, the items whose result is satisfied.
func (c *Context) FilterItems(items []Item) []Item {
	return Filter(c, items)
}

// Filter returns, in input order, the items whose result is satisfied.
// Failed, Ignored and Error items are dropped.
func Filter[T Item](c *Context, items []T) []T {
	filtered := make([]T, 0, len(items))
	for _, item := range items {
		if c.Evaluate(item).IsSatisfied() {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// Trace returns the steps recorded in the current pass, or nil if the
// context was not created with CollectTrace.
func (c *Context) Trace() *Trace {
	return c.trace
}
