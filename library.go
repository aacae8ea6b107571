package condition

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
)

// Resolver looks up conditions by ID for reference expressions that carry
// only an ID.
type Resolver interface {
	Condition(id string) (*Condition, bool)
}

// Snapshot is an immutable view of a Library's conditions.
type Snapshot struct {
	conditions map[string]*Condition
}

// Condition implements Resolver.
func (s *Snapshot) Condition(id string) (*Condition, bool) {
	if s == nil {
		return nil, false
	}
	c, ok := s.conditions[id]
	return c, ok
}

// Len is the number of conditions in the snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.conditions)
}

// Conditions returns the conditions sorted by ID.
func (s *Snapshot) Conditions() []*Condition {
	if s == nil {
		return nil
	}
	list := make([]*Condition, 0, len(s.conditions))
	for _, c := range s.conditions {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].ID < list[j].ID
	})
	return list
}

// Validate reports reference expressions whose target is not in the
// snapshot and expressions whose domain is unknown.
func (s *Snapshot) Validate() error {
	var problems []string
	for _, c := range s.Conditions() {
		for i, e := range c.Expressions {
			switch {
			case e == nil:
				continue
			case e.Domain == UnknownDomain:
				problems = append(problems, fmt.Sprintf("condition %q expression %d: unknown domain (%s)", c.ID, i+1, e.Attributes))
			case e.Domain == ReferenceDomain && e.Condition == nil:
				if _, ok := s.conditions[e.Ref]; !ok {
					problems = append(problems, fmt.Sprintf("condition %q expression %d: reference to unknown condition %q", c.ID, i+1, e.Ref))
				}
			}
		}
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// Cycles returns the reference cycles between the snapshot's conditions.
// Each cycle is a list of condition IDs starting and ending with the same ID.
func (s *Snapshot) Cycles() [][]string {
	const (
		unvisited = iota
		visiting
		visited
	)
	state := map[string]int{}
	var path []string
	var cycles [][]string

	var visit func(id string)
	visit = func(id string) {
		state[id] = visiting
		path = append(path, id)
		for _, ref := range s.conditions[id].References() {
			if _, ok := s.conditions[ref]; !ok {
				continue
			}
			switch state[ref] {
			case unvisited:
				visit(ref)
			case visiting:
				cycles = append(cycles, buildCycle(path, ref))
			}
		}
		path = path[:len(path)-1]
		state[id] = visited
	}

	for _, c := range s.Conditions() {
		if state[c.ID] == unvisited {
			visit(c.ID)
		}
	}
	return cycles
}

// buildCycle returns the part of path from id onwards, closed with id.
func buildCycle(path []string, id string) []string {
	for i := range path {
		if path[i] == id {
			cycle := append([]string{}, path[i:]...)
			return append(cycle, id)
		}
	}
	return []string{id, id}
}

// Library holds conditions by ID. Readers see an immutable snapshot that is
// swapped atomically when mutations are applied, so a library can be updated
// while contexts evaluate against it.
type Library struct {
	current atomic.Pointer[Snapshot]
	mu      sync.Mutex // serializes writers
}

// Mutation is a single change to a Library.
type Mutation struct {
	// ID of the condition being changed. If empty, Condition.ID is used.
	ID string

	// Condition replaces or adds the condition with ID. If nil, the condition
	// with ID is deleted.
	Condition *Condition
}

// NewLibrary creates a library holding the conditions.
func NewLibrary(conds ...*Condition) (*Library, error) {
	m := make(map[string]*Condition, len(conds))
	for _, c := range conds {
		if c == nil {
			return nil, errors.New("nil condition")
		}
		if err := checkID(c.ID); err != nil {
			return nil, err
		}
		if _, dup := m[c.ID]; dup {
			return nil, errors.Wrapf(ErrDuplicateID, "%q", c.ID)
		}
		m[c.ID] = c
	}
	l := &Library{}
	l.current.Store(&Snapshot{conditions: m})
	return l, nil
}

// Snapshot returns the current immutable view of the library.
func (l *Library) Snapshot() *Snapshot {
	return l.current.Load()
}

// Condition implements Resolver using the current snapshot.
func (l *Library) Condition(id string) (*Condition, bool) {
	return l.Snapshot().Condition(id)
}

// Conditions returns the current conditions sorted by ID.
func (l *Library) Conditions() []*Condition {
	return l.Snapshot().Conditions()
}

// Len is the number of conditions in the library.
func (l *Library) Len() int {
	return l.Snapshot().Len()
}

// ApplyMutations applies the changes in order. Either all mutations are
// applied or, if one fails, none are.
func (l *Library) ApplyMutations(mutations []Mutation) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	old := l.current.Load()
	next := make(map[string]*Condition, len(old.conditions)+len(mutations))
	for k, c := range old.conditions {
		next[k] = c
	}

	for _, m := range mutations {
		id := m.ID
		if id == "" && m.Condition != nil {
			id = m.Condition.ID
		}
		if err := applyMutation(next, id, m.Condition); err != nil {
			return &MutationError{ID: id, Cause: err}
		}
	}
	l.current.Store(&Snapshot{conditions: next})
	return nil
}

func applyMutation(conds map[string]*Condition, id string, c *Condition) error {
	if err := checkID(id); err != nil {
		return err
	}
	if c == nil {
		if _, ok := conds[id]; !ok {
			return ErrConditionNotFound
		}
		delete(conds, id)
		return nil
	}
	if c.ID != id {
		return errors.Wrapf(ErrInvalidID, "mutation ID %q does not match condition ID %q", id, c.ID)
	}
	conds[id] = c
	return nil
}

// Validate validates the current snapshot.
func (l *Library) Validate() error {
	return l.Snapshot().Validate()
}

// Cycles returns the reference cycles in the current snapshot.
func (l *Library) Cycles() [][]string {
	return l.Snapshot().Cycles()
}

// snapshotOf pins a Library to its current snapshot for one pass.
func snapshotOf(r Resolver) Resolver {
	if l, ok := r.(*Library); ok && l != nil {
		return l.Snapshot()
	}
	return r
}
