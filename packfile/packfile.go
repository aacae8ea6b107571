package packfile

import (
	"bytes"
	"io"
	"os"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/cmsispack/condition"
	"github.com/cmsispack/condition/attrs"
	"github.com/cmsispack/condition/cel"
)

// StandardVariables are the attribute names always available to checks.
var StandardVariables = []string{
	"Dname", "Pname", "Dvendor", "Dfamily", "DsubFamily", "Dvariant",
	"Dcore", "Dfpu", "Dmpu", "Dendian", "Dclock", "Dsecure", "Dtz", "Ddsp", "Dmve",
	"Tcompiler", "Toptions",
}

// File is a loaded condition file.
type File struct {
	Conditions []*condition.Condition
	Targets    []condition.Target

	checks []*cel.Check
}

type yamlFile struct {
	Conditions []yamlCondition `yaml:"conditions"`
	Checks     []yamlCheck     `yaml:"checks"`
	Targets    []yamlTarget    `yaml:"targets"`
}

type yamlCondition struct {
	ID          string      `yaml:"id"`
	Description string      `yaml:"description"`
	Expressions []yaml.Node `yaml:"expressions"`
}

type yamlCheck struct {
	ID    string `yaml:"id"`
	Expr  string `yaml:"expr"`
	Grade string `yaml:"grade"`
}

type yamlTarget struct {
	Name       string    `yaml:"name"`
	Attributes attrs.Set `yaml:"attributes"`
}

// LoadFile reads and parses the file at path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading condition file")
	}
	f, err := Load(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return f, nil
}

// Load parses a condition file.
func Load(r io.Reader) (*File, error) {
	var y yamlFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&y); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "parsing YAML")
	}

	f := &File{}
	for _, yc := range y.Conditions {
		c, err := yc.condition()
		if err != nil {
			return nil, err
		}
		f.Conditions = append(f.Conditions, c)
	}

	for i, yt := range y.Targets {
		name := yt.Name
		if name == "" {
			return nil, errors.Errorf("target %d: missing name", i+1)
		}
		f.Targets = append(f.Targets, condition.Target{Name: name, Attributes: yt.Attributes})
	}

	if len(y.Checks) > 0 {
		compiler, err := cel.NewCompiler(f.variables()...)
		if err != nil {
			return nil, err
		}
		for _, yc := range y.Checks {
			grade := condition.Undefined
			if yc.Grade != "" {
				var ok bool
				if grade, ok = condition.ParseResult(yc.Grade); !ok {
					return nil, errors.Errorf("check %s: unknown grade %q", yc.ID, yc.Grade)
				}
			}
			k, err := compiler.Compile(yc.ID, yc.Expr, grade)
			if err != nil {
				return nil, err
			}
			f.checks = append(f.checks, k)
		}
	}
	return f, nil
}

func (yc yamlCondition) condition() (*condition.Condition, error) {
	c := condition.NewCondition(yc.ID)
	c.Description = yc.Description
	for i := range yc.Expressions {
		n := &yc.Expressions[i]
		if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
			return nil, errors.Errorf("condition %q line %d: expression must have exactly one role", yc.ID, n.Line)
		}
		role, ok := condition.ParseRole(n.Content[0].Value)
		if !ok {
			return nil, errors.Errorf("condition %q line %d: unknown role %q", yc.ID, n.Line, n.Content[0].Value)
		}
		var a attrs.Set
		if err := n.Content[1].Decode(&a); err != nil {
			return nil, errors.Wrapf(err, "condition %q line %d", yc.ID, n.Line)
		}
		c.Add(condition.NewExpression(role, a))
	}
	return c, nil
}

// variables returns the standard attribute names and those used by targets.
func (f *File) variables() []string {
	seen := map[string]bool{}
	vars := append([]string{}, StandardVariables...)
	for _, v := range vars {
		seen[v] = true
	}
	var extra []string
	for _, t := range f.Targets {
		for k := range t.Attributes {
			if !seen[k] {
				seen[k] = true
				extra = append(extra, k)
			}
		}
	}
	sort.Strings(extra)
	return append(vars, extra...)
}

// Library returns a library holding the file's conditions.
func (f *File) Library() (*condition.Library, error) {
	return condition.NewLibrary(f.Conditions...)
}

// Checks returns the file's compiled checks in file order.
func (f *File) Checks() []*cel.Check {
	return f.checks
}

// Target returns the target with the given name.
func (f *File) Target(name string) (condition.Target, bool) {
	for _, t := range f.Targets {
		if t.Name == name {
			return t, true
		}
	}
	return condition.Target{}, false
}

// Items returns the conditions and checks with the given IDs, in the order
// given. Without IDs it returns all conditions followed by all checks.
func (f *File) Items(ids ...string) ([]condition.Item, error) {
	var items []condition.Item
	if len(ids) == 0 {
		for _, c := range f.Conditions {
			items = append(items, c)
		}
		for _, k := range f.checks {
			items = append(items, k)
		}
		return items, nil
	}

	byID := map[string]condition.Item{}
	for _, k := range f.checks {
		byID[k.ID] = k
	}
	for _, c := range f.Conditions {
		byID[c.ID] = c
	}
	for _, id := range ids {
		item, ok := byID[id]
		if !ok {
			return nil, errors.Wrapf(condition.ErrConditionNotFound, "%q", id)
		}
		items = append(items, item)
	}
	return items, nil
}
