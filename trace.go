package condition

import (
	"fmt"
	"strings"

	"github.com/Delta456/box-cli-maker/v2"
	"github.com/alexeyco/simpletable"

	"github.com/cmsispack/condition/attrs"
)

// Step is one call to Context.Evaluate.
type Step struct {
	Item   Item
	Depth  int
	Denied bool
	Result Result
	Cached bool
}

// Trace lists the evaluation steps of one pass in the order they started.
type Trace struct {
	Target attrs.Set
	Steps  []Step
}

// Labeler is implemented by items that provide a short description for
// traces and reports.
type Labeler interface {
	Label() string
}

// Label implements Labeler.
func (c *Condition) Label() string {
	return "condition " + c.ID
}

// Label implements Labeler.
func (e *Expression) Label() string {
	return e.String()
}

// Label returns a short description of the item.
func Label(item Item) string {
	if l, ok := item.(Labeler); ok {
		return l.Label()
	}
	return fmt.Sprintf("%T", item)
}

func (t *Trace) begin(item Item, depth int, denied bool) int {
	if t == nil {
		return -1
	}
	t.Steps = append(t.Steps, Step{Item: item, Depth: depth, Denied: denied, Result: Undefined})
	return len(t.Steps) - 1
}

func (t *Trace) end(i int, r Result) {
	if t == nil || i < 0 {
		return
	}
	t.Steps[i].Result = r
}

func (t *Trace) add(item Item, depth int, denied bool, r Result) {
	if t == nil {
		return
	}
	t.Steps = append(t.Steps, Step{Item: item, Depth: depth, Denied: denied, Result: r, Cached: true})
}

// Report renders the trace as a boxed report with the target attributes and
// one row per step, indented by nesting depth.
func (t *Trace) Report() string {
	if t == nil {
		return ""
	}
	Box := box.New(box.Config{Px: 2, Py: 1, Type: "Double", Color: "Cyan", TitlePos: "Top", ContentAlign: "Left"})

	s := strings.Builder{}
	s.WriteString("Target:\n")
	s.WriteString("-------\n")
	s.WriteString(attributeTable(t.Target).String())
	s.WriteString("\n\n")
	s.WriteString("Evaluation Steps:\n")
	s.WriteString("-----------------\n")
	s.WriteString(t.stepTable().String())
	return Box.String("CONDITION EVALUATION TRACE", s.String())
}

func attributeTable(a attrs.Set) *simpletable.Table {
	table := simpletable.New()
	table.Header = &simpletable.Header{
		Cells: []*simpletable.Cell{
			{Align: simpletable.AlignCenter, Text: "Attribute"},
			{Align: simpletable.AlignCenter, Text: "Value"},
		},
	}
	for _, k := range a.Keys() {
		table.Body.Cells = append(table.Body.Cells, []*simpletable.Cell{
			{Text: k},
			{Text: a[k]},
		})
	}
	table.SetStyle(simpletable.StyleUnicode)
	return table
}

func (t *Trace) stepTable() *simpletable.Table {
	table := simpletable.New()
	table.Header = &simpletable.Header{
		Cells: []*simpletable.Cell{
			{Align: simpletable.AlignCenter, Text: "#"},
			{Align: simpletable.AlignCenter, Text: "Item"},
			{Align: simpletable.AlignCenter, Text: "Deny"},
			{Align: simpletable.AlignCenter, Text: "Result"},
			{Align: simpletable.AlignCenter, Text: "Cached"},
		},
	}
	for i, st := range t.Steps {
		table.Body.Cells = append(table.Body.Cells, []*simpletable.Cell{
			{Align: simpletable.AlignRight, Text: fmt.Sprintf("%d", i+1)},
			{Text: strings.Repeat("  ", st.Depth) + Label(st.Item)},
			{Text: yes(st.Denied)},
			{Text: st.Result.String()},
			{Text: yes(st.Cached)},
		})
	}
	table.SetStyle(simpletable.StyleUnicode)
	return table
}

func yes(b bool) string {
	if b {
		return "yes"
	}
	return ""
}
