/*
Package grammar implements the node model for cligram grammar trees:
Plain, Group, Alias, Action and Variable nodes composed into a tree
rooted at a Grammar value, plus alias resolution and the per-node
help/candidate operations node.go's Node contract requires.

Parsing itself (the recursive-descent driver and its per-invocation
Context) lives in package parse, which imports grammar. To avoid a
import cycle in the other direction, grammar depends only on the small
Ctx interface below; package parse's Context satisfies it.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2020–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package grammar

// NodeID identifies a node for traversal accounting and visited-set
// bookkeeping. Counters are keyed by identity, not by path string,
// since paths are derived and may be recomputed (see Design Notes in
// SPEC_FULL.md).
type NodeID int32

// Ctx is the slice of parse-context behavior the node model needs in
// order to match, advance, record traversals and capture variables.
// package parse's Context implements this.
type Ctx interface {
	// Remaining returns the unconsumed suffix of the command line.
	Remaining() string

	// Advance consumes n bytes from the cursor.
	Advance(n int)

	// Traversed returns how many times the node identified by id has
	// been selected in this context so far.
	Traversed(id NodeID) int

	// MarkTraversed records one more traversal of the node identified
	// by id.
	MarkTraversed(id NodeID)

	// SetVar records a captured variable. When accumulate is true the
	// value is appended to an ordered sequence under name; otherwise
	// it replaces any previous value.
	SetVar(name string, value any, accumulate bool)

	// UserContext returns the caller-supplied value passed to Parse,
	// or nil if none was supplied.
	UserContext() any
}

// Match is the result of a successful Node.Match: the token text the
// node's pattern matched (not including the separator), and the total
// number of bytes to advance the cursor by (pattern plus separator).
type Match struct {
	Token    string
	Consumed int
}

// HelpRow is one row a node contributes to contextual help: a
// (group, order) sort key, a completion/help key, and descriptive
// text. Keys starting with "<" are placeholders (e.g. "<host>",
// "<eol>") and are never offered as completion candidates.
type HelpRow struct {
	Group int
	Order int
	Key   string
	Text  string
}

// ActionFunc is the callback an Action node invokes when reached with
// no remaining input. It receives the context; captured variables are
// read through the concrete context's Var / Vars methods (package
// parse's *Context), since Ctx itself has no accessor for them.
type ActionFunc func(ctx Ctx) error

// ParseFunc converts the text a Variable node matched into a value to
// store in the context's variable map. Returning an error wraps it as
// a validation error, carrying the offending token.
type ParseFunc func(token string) (any, error)

// HelpFunc is an explicit help provider: given a context, it returns
// the (key, text) rows a node contributes. Group and Order are filled
// in by the node from its own attributes.
type HelpFunc func(ctx Ctx) []HelpRow

// CandidatesFunc overrides default candidate derivation (from help
// keys) with node-specific completion logic — used by the File
// variable for filesystem-backed candidates.
type CandidatesFunc func(ctx Ctx, text string) []string

// ValidFunc overrides the default traversal-limit-based validity
// check.
type ValidFunc func(ctx Ctx) bool

// VisibleFunc overrides the default help-visibility check.
type VisibleFunc func(ctx Ctx) bool
