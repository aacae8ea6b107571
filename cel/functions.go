package cel

import (
	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"

	"github.com/cmsispack/condition/attrs"
)

// wildcardFunction declares wildcard(pattern, value) bool.
func wildcardFunction() celgo.EnvOption {
	return celgo.Function("wildcard",
		celgo.Overload("wildcard_string_string",
			[]*celgo.Type{celgo.StringType, celgo.StringType},
			celgo.BoolType,
			celgo.BinaryBinding(wildcard)))
}

func wildcard(lhs, rhs ref.Val) ref.Val {
	pattern, ok := lhs.Value().(string)
	if !ok {
		return types.NewErr("wildcard: pattern must be a string, got %T", lhs.Value())
	}
	value, ok := rhs.Value().(string)
	if !ok {
		return types.NewErr("wildcard: value must be a string, got %T", rhs.Value())
	}
	return types.Bool(attrs.Match(pattern, value))
}
