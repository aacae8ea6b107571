package condition

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/cmsispack/condition/attrs"
)

// A Condition is a named compatibility rule made of expressions, evaluated as
// one unit against the target attributes.
//
// Expressions are evaluated in the order they appear. Other conditions are
// only reached through reference expressions, never as direct children.
//
// A condition must not be modified while a Context is evaluating it.
type Condition struct {
	// Identifier, unique within a Library.
	ID string `json:"id" yaml:"id"`

	// Optional human readable description.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Child expressions in document order.
	Expressions []*Expression `json:"-" yaml:"-"`
}

// NewCondition creates a condition with the ID and expressions. Nil
// expressions are dropped.
func NewCondition(id string, exprs ...*Expression) *Condition {
	c := &Condition{ID: id}
	return c.Add(exprs...)
}

// Require appends a require expression with the attribute predicate.
func (c *Condition) Require(a attrs.Set) *Condition {
	return c.Add(NewExpression(Require, a))
}

// Accept appends an accept expression with the attribute predicate.
func (c *Condition) Accept(a attrs.Set) *Condition {
	return c.Add(NewExpression(Accept, a))
}

// Deny appends a deny expression with the attribute predicate.
func (c *Condition) Deny(a attrs.Set) *Condition {
	return c.Add(NewExpression(Deny, a))
}

// Add appends expressions and returns c, so that calls can be chained.
func (c *Condition) Add(exprs ...*Expression) *Condition {
	for _, e := range exprs {
		if e != nil {
			c.Expressions = append(c.Expressions, e)
		}
	}
	return c
}

// Evaluate implements Item.
func (c *Condition) Evaluate(ctx *Context) Result {
	return ctx.EvaluateCondition(c)
}

// References returns the IDs of the conditions referenced by c's
// expressions, in expression order.
func (c *Condition) References() []string {
	var ids []string
	for _, e := range c.Expressions {
		if e == nil {
			continue
		}
		if id := e.Target(); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// String returns a table of the condition's expressions in evaluation order.
func (c *Condition) String() string {
	tw := table.NewWriter()
	tw.SetTitle("\nCONDITION " + c.ID + "\n")
	tw.AppendHeader(table.Row{"#", "Role", "Domain", "Attributes"})

	for i, e := range c.Expressions {
		if e == nil {
			continue
		}
		a := e.Attributes.String()
		if e.Domain == ReferenceDomain {
			a = fmt.Sprintf("%s=%q", ReferenceKey, e.Target())
		}
		tw.AppendRow(table.Row{i + 1, e.Role.String(), e.Domain.String(), a})
	}
	if c.Description != "" {
		tw.AppendFooter(table.Row{"", "", "", c.Description})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, WidthMax: 60},
	})
	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	style.Format.Footer = text.FormatDefault
	tw.SetStyle(style)
	return tw.Render()
}

// maxTreeDepth limits how deep Tree follows references.
const maxTreeDepth = 20

// Tree returns the condition's expressions and, below each reference, the
// expressions of the referenced condition. References by ID are looked up in
// r, which may be nil. A reference back to a condition already on the path is
// marked as a cycle and not followed.
//
// Example output:
//
//	CM4_GCC
//	├── require Dcore="Cortex-M4"
//	└── require condition="GCC"
//	    └── require Tcompiler="GCC"
func (c *Condition) Tree(r Resolver) string {
	if c == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(c.ID)
	sb.WriteString("\n")
	c.buildTree(&sb, r, "", map[*Condition]bool{c: true}, 0)
	return sb.String()
}

func (c *Condition) buildTree(sb *strings.Builder, r Resolver, prefix string, path map[*Condition]bool, depth int) {
	if depth >= maxTreeDepth {
		return
	}
	exprs := make([]*Expression, 0, len(c.Expressions))
	for _, e := range c.Expressions {
		if e != nil {
			exprs = append(exprs, e)
		}
	}
	for i, e := range exprs {
		connector, childPrefix := "├── ", "│   "
		if i == len(exprs)-1 {
			connector, childPrefix = "└── ", "    "
		}
		sb.WriteString(prefix)
		sb.WriteString(connector)
		sb.WriteString(e.String())

		target := resolve(e, r)
		switch {
		case e.Domain == ReferenceDomain && target == nil:
			sb.WriteString(" (unresolved)\n")
		case target != nil && path[target]:
			sb.WriteString(" (cycle)\n")
		case target != nil:
			sb.WriteString("\n")
			path[target] = true
			target.buildTree(sb, r, prefix+childPrefix, path, depth+1)
			delete(path, target)
		default:
			sb.WriteString("\n")
		}
	}
}

// resolve returns the condition a reference expression points to, or nil.
func resolve(e *Expression, r Resolver) *Condition {
	if e.Domain != ReferenceDomain {
		return nil
	}
	if e.Condition != nil {
		return e.Condition
	}
	if r == nil || e.Ref == "" {
		return nil
	}
	c, ok := r.Condition(e.Ref)
	if !ok {
		return nil
	}
	return c
}
