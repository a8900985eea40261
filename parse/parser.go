package parse

import (
	"fmt"
	"strings"

	"github.com/npillmayer/cligram"
	"github.com/npillmayer/cligram/grammar"
)

// Parser drives one grammar tree. It holds no per-invocation state —
// every Parse call builds its own Context — so a single Parser is safe
// to reuse across concurrent parses of the same (unmutated) grammar,
// per spec.md §5.
type Parser struct {
	gram           *grammar.Grammar
	requireUserCtx bool
}

// Option configures a Parser at construction time.
type Option func(*Parser)

// WithUserContextRequired makes Parse reject a nil user_context with
// an error instead of silently proceeding, for grammars whose Action
// callbacks assume one is always present.
func WithUserContextRequired(required bool) Option {
	return func(p *Parser) { p.requireUserCtx = required }
}

// NewParser constructs a Parser over gram.
func NewParser(gram *grammar.Grammar, opts ...Option) *Parser {
	p := &Parser{gram: gram}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Parse drives the recursive-descent loop of spec.md §4.5 over
// command and returns the resulting Context. With
// WithUserContextRequired set, a nil userContext is rejected with an
// error before parsing starts. A dead end simply stops the trail short, leaving
// Remaining() non-empty; callers that need "did this fully parse"
// semantics call Execute, or inspect Context directly (e.g. for
// candidate/help queries mid-line, where an incomplete parse is
// expected, not an error).
func (p *Parser) Parse(command string, userContext any) (*Context, error) {
	if p.requireUserCtx && userContext == nil {
		return nil, fmt.Errorf("%w: parser requires a non-nil user context", cligram.ErrValidation)
	}
	ctx := newContext(p.gram, command, userContext)
	p.drive(ctx, p.gram.Node, grammar.Match{}, false)
	return ctx, nil
}

// drive implements spec.md §4.5's parse(node, match) recursion:
// record the trail entry, advance past the match (if any), mark the
// node selected, then pick the first valid, matching child in
// (group, order, name) order and recurse. With no matching child, the
// traversal simply stops — the caller's Execute decides whether that
// is acceptable.
func (p *Parser) drive(ctx *Context, node *grammar.Node, m grammar.Match, hasMatch bool) {
	ctx.trail = append(ctx.trail, trailEntry{node: node, match: m, hasMatch: hasMatch})
	if hasMatch {
		node.Advance(ctx, m)
	}
	if err := node.Selected(ctx, m); err != nil {
		tracer().Errorf("parse: selecting %q: %v", node.Path(), err)
		return
	}
	for _, sub := range node.Next(ctx) {
		if !sub.Valid(ctx) {
			continue
		}
		if subMatch, ok := sub.Match(ctx); ok {
			p.drive(ctx, sub, subMatch, true)
			return
		}
	}
	// terminal reached: no further child matches the remaining input
}

// Execute parses command and, if the whole line was consumed, invokes
// the terminal operation of the node the parse stopped at. A
// non-whitespace remainder is reported as ErrInvalidToken with the
// context attached so the caller can render context.Help() as
// candidates, per spec.md §4.7's execute() contract.
func (p *Parser) Execute(command string, userContext any) (*Context, error) {
	ctx, err := p.Parse(command, userContext)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(ctx.Remaining()) != "" {
		return ctx, fmt.Errorf("%w: unconsumed input %q at offset %d",
			cligram.ErrInvalidToken, ctx.Remaining(), ctx.Cursor())
	}
	last := ctx.lastTrailNode()
	if err := last.Terminal(ctx); err != nil {
		return ctx, err
	}
	return ctx, nil
}
