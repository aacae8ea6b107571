package condition

import "go.uber.org/zap"

// defaultDepth is the default maximum number of nested condition
// evaluations in one call chain.
const defaultDepth = 256

// Options control how a Context evaluates items.
// See the functional definitions below for the meaning.
type Options struct {
	MaxDepth     int
	Logger       *zap.Logger
	Matcher      Matcher
	Resolver     Resolver
	CollectTrace bool
	Workers      int
}

// Option sets an evaluation option.
type Option func(o *Options)

// Given an array of Option functions, apply their effect
// on the Options struct.
func applyOptions(o *Options, opts ...Option) {
	for _, opt := range opts {
		opt(o)
	}
}

func defaultOptions() Options {
	return Options{
		MaxDepth: defaultDepth,
		Logger:   zap.NewNop(),
		Matcher:  defaultMatcher,
		Workers:  1,
	}
}

// MaxDepth limits how deeply condition references are followed. A condition
// nested deeper than n evaluates to Error.
// Default: 256
func MaxDepth(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.MaxDepth = n
		}
	}
}

// WithLogger sets the logger used to report cycles, dangling references,
// malformed expressions and depth overflows.
// Default: no logging
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithMatcher sets the matcher for device and toolchain expressions.
// Default: attrs.WildcardMatcher
func WithMatcher(m Matcher) Option {
	return func(o *Options) {
		if m != nil {
			o.Matcher = m
		}
	}
}

// WithResolver sets where reference expressions that carry only a condition
// ID are looked up. If r is a *Library, each pass uses the library snapshot
// that was current when the pass started.
// Default: none; unresolved references evaluate to Error
func WithResolver(r Resolver) Option {
	return func(o *Options) {
		o.Resolver = r
	}
}

// CollectTrace records every evaluation step of a pass, retrievable with
// Context.Trace.
// Default: off
func CollectTrace(b bool) Option {
	return func(o *Options) {
		o.CollectTrace = b
	}
}

// Workers sets how many targets NewReport evaluates concurrently, each in its
// own Context. The Matcher and Resolver must then be safe for concurrent use;
// the defaults and *Library are.
// Default: 1
func Workers(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.Workers = n
		}
	}
}
