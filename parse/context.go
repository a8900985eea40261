/*
Package parse implements the parser driver and per-invocation Context
of spec.md §4.5/§4.7: a deterministic, backtracking-free recursive
descent over a grammar tree, built the way the teacher's
lr/earley.Parser drives its own worklist — a small Parser value wired
with functional Options, handed a fresh piece of per-run state for
each call.

Context (this file) implements grammar.Ctx, closing the import-cycle
gap grammar/ctx.go documents: grammar depends only on the Ctx
interface, and Context here is its concrete realization.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2020–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package parse

import (
	"github.com/npillmayer/schuko/tracing"

	"github.com/npillmayer/cligram/grammar"
	"github.com/npillmayer/cligram/grammar/help"
)

// tracer traces with key 'cligram.parse'.
func tracer() tracing.Trace {
	return tracing.Select("cligram.parse")
}

// trailEntry is one (node, match) pair the driver visited, per
// spec.md's Trail glossary entry. hasMatch distinguishes the initial
// call on the root (no match yet) from a genuine zero-width match.
type trailEntry struct {
	node     *grammar.Node
	match    grammar.Match
	hasMatch bool
}

// Context is the per-parse state of spec.md §4.7: cursor, captured
// variables (always stored as an ordered sequence — Design Notes §9's
// "prefer a single representation" resolution — with Var returning the
// lone element when there is exactly one), traversal counters keyed by
// node identity, and the trail of visited nodes.
type Context struct {
	gram        *grammar.Grammar
	command     string
	cursor      int
	userContext any

	vars      map[string][]any
	traversed map[grammar.NodeID]int
	trail     []trailEntry
}

func newContext(g *grammar.Grammar, command string, userContext any) *Context {
	return &Context{
		gram:        g,
		command:     command,
		userContext: userContext,
		vars:        make(map[string][]any),
		traversed:   make(map[grammar.NodeID]int),
	}
}

// --- grammar.Ctx --------------------------------------------------------

// Remaining returns the unconsumed suffix of the command line.
func (c *Context) Remaining() string { return c.command[c.cursor:] }

// Advance bumps the cursor by n bytes.
func (c *Context) Advance(n int) { c.cursor += n }

// Traversed returns how many times the node id has been selected.
func (c *Context) Traversed(id grammar.NodeID) int { return c.traversed[id] }

// MarkTraversed records one more traversal of the node id.
func (c *Context) MarkTraversed(id grammar.NodeID) { c.traversed[id]++ }

// SetVar records a captured variable, always storing an ordered
// sequence under name; accumulate does not change the storage shape,
// only whether the value is appended or replaces the existing entry (spec.md's traversals==1 "assign scalar"
// case resets; otherwise it accumulates).
func (c *Context) SetVar(name string, v any, accumulate bool) {
	if !accumulate {
		c.vars[name] = []any{v}
		return
	}
	c.vars[name] = append(c.vars[name], v)
}

// UserContext returns the caller-supplied value passed to Parse.
func (c *Context) UserContext() any { return c.userContext }

// --- derived state -------------------------------------------------------

// Cursor returns the byte offset into Command the parse has reached.
func (c *Context) Cursor() int { return c.cursor }

// Command returns the full command line this context was built for.
func (c *Context) Command() string { return c.command }

// Parsed returns the consumed prefix of the command line.
func (c *Context) Parsed() string { return c.command[:c.cursor] }

// Var returns the single captured value for name (the last one
// recorded if several were captured), or nil if name was never
// captured.
func (c *Context) Var(name string) any {
	vs := c.vars[name]
	if len(vs) == 0 {
		return nil
	}
	return vs[len(vs)-1]
}

// Vars returns the full ordered sequence of values captured under
// name.
func (c *Context) Vars(name string) []any { return c.vars[name] }

// lastNode implements spec.md §4.7's last_node heuristic: the final
// trail entry, or the penultimate one when the final entry's match
// consumed no text — so a zero-width terminal match (an Action
// reached with empty input) doesn't shadow the node whose candidates
// and help are actually relevant.
func (c *Context) lastNode() *grammar.Node {
	if len(c.trail) == 0 {
		return c.gram.Node
	}
	last := c.trail[len(c.trail)-1]
	if last.hasMatch && last.match.Consumed == 0 && len(c.trail) > 1 {
		return c.trail[len(c.trail)-2].node
	}
	return last.node
}

// lastTrailNode is the literal final entry on the trail, with none of
// lastNode's zero-width adjustment — execute() must run the terminal
// operation of the node parsing actually stopped at (typically an
// Action reached by a zero-width end-of-input match), not the node
// lastNode substitutes in for candidate/help purposes.
func (c *Context) lastTrailNode() *grammar.Node {
	if len(c.trail) == 0 {
		return c.gram.Node
	}
	return c.trail[len(c.trail)-1].node
}

// Candidates yields completion candidates from every followed child of
// lastNode (not lastTrailNode). When text is empty, Remaining() is used
// as the prefix instead.
func (c *Context) Candidates(text string) []string {
	if text == "" {
		text = c.Remaining()
	}
	var out []string
	for _, child := range c.lastNode().Next(c) {
		out = append(out, child.Candidates(c, text)...)
	}
	return out
}

// Help returns the sorted help rows for lastNode (not lastTrailNode).
func (c *Context) Help() []help.Row { return help.Rows(c, c.lastNode()) }
