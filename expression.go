package condition

import (
	"fmt"

	"github.com/cmsispack/condition/attrs"
)

// Role determines how an expression's result is folded into the result of
// its condition.
type Role int

const (
	// Require expressions must all hold; the weakest result wins.
	Require Role = iota
	// Accept expressions are alternatives; the strongest result wins, and it
	// caps the condition's result when it is weaker than the require result.
	Accept
	// Deny expressions are require expressions evaluated with the deny
	// context inverted.
	Deny
)

func (r Role) String() string {
	switch r {
	case Require:
		return "require"
	case Accept:
		return "accept"
	case Deny:
		return "deny"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// ParseRole returns the role with the given name.
func ParseRole(s string) (Role, bool) {
	switch s {
	case "require":
		return Require, true
	case "accept":
		return Accept, true
	case "deny":
		return Deny, true
	}
	return Require, false
}

// Domain is the kind of attributes an expression tests.
type Domain int

const (
	UnknownDomain Domain = iota
	ComponentDomain
	DeviceDomain
	ToolchainDomain
	ReferenceDomain
)

func (d Domain) String() string {
	switch d {
	case ComponentDomain:
		return "component"
	case DeviceDomain:
		return "device"
	case ToolchainDomain:
		return "toolchain"
	case ReferenceDomain:
		return "reference"
	default:
		return "unknown"
	}
}

// ReferenceKey is the attribute that names the condition a reference
// expression points to.
const ReferenceKey = "condition"

// DomainOf infers an expression's domain from its attribute names:
// ReferenceKey makes a reference, names starting with C belong to components,
// D and P to devices and T to toolchains. An empty set, an unrecognised name
// or names from more than one domain give UnknownDomain.
func DomainOf(a attrs.Set) Domain {
	d := UnknownDomain
	for k := range a {
		kd := keyDomain(k)
		if kd == UnknownDomain || (d != UnknownDomain && kd != d) {
			return UnknownDomain
		}
		d = kd
	}
	return d
}

func keyDomain(k string) Domain {
	if k == ReferenceKey {
		return ReferenceDomain
	}
	if k == "" {
		return UnknownDomain
	}
	switch k[0] {
	case 'C':
		return ComponentDomain
	case 'D', 'P':
		return DeviceDomain
	case 'T':
		return ToolchainDomain
	}
	return UnknownDomain
}

// An Expression is a child of a condition. Device and toolchain expressions
// carry an attribute predicate; reference expressions defer to another
// condition, either directly through Condition or by ID through Ref.
type Expression struct {
	Role       Role
	Domain     Domain
	Attributes attrs.Set

	// Condition is the referenced condition. It takes precedence over Ref.
	Condition *Condition

	// Ref is the ID of the referenced condition, resolved through the
	// context's Resolver.
	Ref string
}

// NewExpression creates an expression with the domain inferred from the
// attributes. For references, Ref is taken from the ReferenceKey attribute.
func NewExpression(role Role, a attrs.Set) *Expression {
	e := &Expression{
		Role:       role,
		Domain:     DomainOf(a),
		Attributes: a,
	}
	if e.Domain == ReferenceDomain {
		e.Ref = a[ReferenceKey]
	}
	return e
}

// Reference creates an expression that refers directly to c.
func Reference(role Role, c *Condition) *Expression {
	e := &Expression{
		Role:      role,
		Domain:    ReferenceDomain,
		Condition: c,
	}
	if c != nil {
		e.Ref = c.ID
	}
	return e
}

// Evaluate implements Item.
func (e *Expression) Evaluate(c *Context) Result {
	return c.EvaluateExpression(e)
}

// Target returns the ID of the referenced condition, or "" for expressions
// that are not references.
func (e *Expression) Target() string {
	if e.Domain != ReferenceDomain {
		return ""
	}
	if e.Condition != nil {
		return e.Condition.ID
	}
	return e.Ref
}

func (e *Expression) String() string {
	if e.Domain == ReferenceDomain {
		return fmt.Sprintf("%s %s=%q", e.Role, ReferenceKey, e.Target())
	}
	return fmt.Sprintf("%s %s", e.Role, e.Attributes)
}
