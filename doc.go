// Package condition evaluates package-description conditions: declarative
// compatibility rules that decide whether a software component fits a device
// and toolchain configuration.
//
// A Condition is a list of expressions. Each expression has a role (require,
// accept or deny) and a domain: device and toolchain expressions test the
// target attributes, reference expressions defer to another condition, and
// component expressions are resolved elsewhere and ignored here.
//
// Typical use is as follows:
//
//  1. Build or load the conditions (see package packfile), optionally into a Library
//  2. Create a Context with the target attributes of one build configuration
//  3. Evaluate conditions, or filter a list of items, against the context
//  4. Inspect the results; Error means "cannot determine", never "failed"
//  5. Call Reset (or create a new Context) before the next configuration
//
// # Results
//
// Results are graded from Failed to Fulfilled. Ignored carries no information
// and does not affect the enclosing condition. Error is produced by cyclic
// references, unknown expression domains, dangling references and nesting
// beyond MaxDepth, and propagates unchanged through every enclosing condition.
//
// # Combining Expressions
//
// Require and deny expressions form a conjunction: the weakest result wins.
// Accept expressions are alternatives: the strongest accept result wins, and
// if it is weaker than what the require expressions achieved, it becomes the
// condition's result.
//
// A deny expression inverts the deny context while its subtree is evaluated,
// so a matching device or toolchain predicate below it evaluates to Failed.
// Nested deny expressions invert it again.
//
// # Passes and Caching
//
// A Context caches every graded and Error result by item identity for the
// duration of a pass. The same item evaluated twice in a pass is computed
// once. Contexts are not safe for concurrent use; use one context per
// goroutine. A Library may be shared: each pass pins the library snapshot
// that was current when the pass started.
package condition
