// Package cel provides condition items backed by Google's cel-go expression
// language.
//
// See https://github.com/google/cel-go and https://opensource.google/projects/cel for more information
// about CEL.
//
// A Check is a boolean CEL expression over target attributes. It is used
// where the attribute predicates of device and toolchain expressions are not
// expressive enough, for example to compare a numeric attribute:
//
//	c := cel.NewCompiler("Dname", "Dclock")
//	check, err := c.Compile("fast_f4", `Dname.startsWith("STM32F4") && int(Dclock) >= 168000000`, condition.Fulfilled)
//
// Every declared variable has type string. Variables that are not present in
// the target attributes are bound to the empty string.
//
// Checks implement condition.Item, so they are evaluated and cached by a
// condition.Context like any other item, and can be filtered with
// condition.Filter.
//
// # Functions
//
// In addition to the CEL standard library, expressions can call
//
//	wildcard(pattern, value)
//
// which matches like the attribute predicates of device and toolchain
// expressions: case-insensitive, with *, ? and [abc] wildcards.
package cel
