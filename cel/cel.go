package cel

import (
	"fmt"
	"strings"

	celgo "github.com/google/cel-go/cel"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/cmsispack/condition"
)

// Compiler compiles CEL expressions into Checks. The variables available to
// the expressions are fixed when the compiler is created.
type Compiler struct {
	env  *celgo.Env
	vars []string
}

// NewCompiler creates a compiler whose expressions may refer to the named
// target attributes.
func NewCompiler(vars ...string) (*Compiler, error) {
	opts := []celgo.EnvOption{wildcardFunction()}
	seen := map[string]bool{}
	var names []string
	for _, v := range vars {
		if seen[v] {
			continue
		}
		seen[v] = true
		names = append(names, v)
		opts = append(opts, celgo.Variable(v, celgo.StringType))
	}

	env, err := celgo.NewEnv(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "creating CEL environment")
	}
	return &Compiler{env: env, vars: names}, nil
}

// Compile parses and type-checks expr. When the expression evaluates to true
// the check's result is grade; Undefined selects Fulfilled.
func (c *Compiler) Compile(id, expr string, grade condition.Result) (*Check, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.Errorf("missing check ID for expression %q", expr)
	}
	if grade == condition.Undefined {
		grade = condition.Fulfilled
	}
	if !grade.IsGraded() {
		return nil, errors.Errorf("check %s: grade %s is not a graded result", id, grade)
	}

	ast, iss := c.env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, errors.Wrapf(iss.Err(), "compiling check %s", id)
	}

	prg, err := c.env.Program(ast)
	if err != nil {
		return nil, errors.Wrapf(err, "generating program for check %s", id)
	}

	return &Check{
		ID:    id,
		Expr:  expr,
		Grade: grade,
		vars:  c.vars,
		prg:   prg,
	}, nil
}

// Check is a compiled CEL expression evaluated against the target attributes
// of a condition.Context.
type Check struct {
	ID    string
	Expr  string
	Grade condition.Result

	vars []string
	prg  celgo.Program
}

// Evaluate implements condition.Item. A true expression gives the check's
// grade and a false one gives Failed; in a deny context the outcome of the
// expression is inverted first. Runtime errors and non-boolean values give
// Error.
func (k *Check) Evaluate(c *condition.Context) condition.Result {
	target := c.Attributes()
	data := make(map[string]any, len(k.vars))
	for _, v := range k.vars {
		data[v] = target[v]
	}

	out, _, err := k.prg.Eval(data)
	if err != nil {
		c.Logger().Warn("check evaluation failed",
			zap.String("check", k.ID),
			zap.Error(err),
		)
		return condition.Error
	}
	ok, isBool := out.Value().(bool)
	if !isBool {
		c.Logger().Warn("check did not evaluate to a boolean",
			zap.String("check", k.ID),
			zap.String("type", fmt.Sprintf("%T", out.Value())),
		)
		return condition.Error
	}
	if c.Denied() {
		ok = !ok
	}
	if ok {
		return k.Grade
	}
	return condition.Failed
}

// Label implements condition.Labeler.
func (k *Check) Label() string {
	return "check " + k.ID
}

func (k *Check) String() string {
	return fmt.Sprintf("check %s: %s => %s", k.ID, k.Expr, k.Grade)
}
