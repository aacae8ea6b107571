package condition

import (
	"fmt"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"go.uber.org/zap"

	"github.com/cmsispack/condition/attrs"
)

// Target is a named set of target attributes, typically one build
// configuration.
type Target struct {
	Name       string
	Attributes attrs.Set
}

// Report holds the results of evaluating a list of items against a list of
// targets.
type Report struct {
	Items   []Item
	Targets []Target

	// Results[i][j] is the result of Items[i] for Targets[j].
	Results [][]Result

	// Traces[j] is the trace of the pass for Targets[j]; only set when the
	// report was built with CollectTrace.
	Traces []*Trace
}

// NewReport evaluates every item against every target. Each target is
// evaluated in its own pass. With Workers(n), up to n targets are evaluated
// concurrently.
func NewReport(items []Item, targets []Target, opts ...Option) *Report {
	r := &Report{
		Items:   items,
		Targets: targets,
		Results: make([][]Result, len(items)),
	}
	for i := range r.Results {
		r.Results[i] = make([]Result, len(targets))
	}

	o := defaultOptions()
	applyOptions(&o, opts...)
	if o.CollectTrace {
		r.Traces = make([]*Trace, len(targets))
	}

	if o.Workers <= 1 || len(targets) <= 1 {
		ctx := NewContext(nil, opts...)
		for j := range targets {
			r.evaluate(ctx, j)
		}
		return r
	}

	o.Logger.Debug("starting report workers",
		zap.Int("workers", o.Workers),
		zap.Int("targets", len(targets)),
	)
	next := make(chan int, len(targets))
	for j := range targets {
		next <- j
	}
	close(next)

	var wg sync.WaitGroup
	for w := 0; w < o.Workers && w < len(targets); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx := NewContext(nil, opts...)
			for j := range next {
				r.evaluate(ctx, j)
			}
		}()
	}
	wg.Wait()
	return r
}

// evaluate fills column j of the results in a new pass of ctx.
func (r *Report) evaluate(ctx *Context, j int) {
	ctx.SetAttributes(r.Targets[j].Attributes)
	for i, item := range r.Items {
		r.Results[i][j] = ctx.Evaluate(item)
	}
	if r.Traces != nil {
		r.Traces[j] = ctx.Trace()
	}
}

// Count returns how many results equal res.
func (r *Report) Count(res Result) int {
	n := 0
	for _, row := range r.Results {
		for _, v := range row {
			if v == res {
				n++
			}
		}
	}
	return n
}

// Satisfied returns the items that are satisfied for the target with index j.
func (r *Report) Satisfied(j int) []Item {
	var items []Item
	for i, row := range r.Results {
		if row[j].IsSatisfied() {
			items = append(items, r.Items[i])
		}
	}
	return items
}

// String renders the results as a table with one row per item and one
// column per target.
func (r *Report) String() string {
	tw := table.NewWriter()
	tw.SetTitle("\nCONDITION RESULTS\n")

	header := table.Row{"Item"}
	for _, t := range r.Targets {
		header = append(header, t.Name)
	}
	tw.AppendHeader(header)

	for i, item := range r.Items {
		row := table.Row{Label(item)}
		for _, v := range r.Results[i] {
			row = append(row, v.String())
		}
		tw.AppendRow(row)
	}

	total := len(r.Items) * len(r.Targets)
	tw.AppendFooter(table.Row{fmt.Sprintf("%s evaluated, %s satisfied, %s errors",
		humanize.Comma(int64(total)),
		humanize.Comma(int64(r.Count(Fulfilled))),
		humanize.Comma(int64(r.Count(Error))),
	)})

	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	style.Format.Footer = text.FormatDefault
	tw.SetStyle(style)
	return tw.Render()
}
