package grammar

import (
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"

	"github.com/cnf/structhash"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"

	"github.com/npillmayer/cligram"
)

// tracer traces with key 'cligram.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("cligram.grammar")
}

var defaultSeparator = regexp.MustCompile(`\A(?:[ \t]+|\z)`)

// kind distinguishes the node variants of spec.md §3. A single struct
// type carries kind-specific fields and the generic operations
// dispatch on kind with a switch — composition over a deep class
// hierarchy, per SPEC_FULL.md §6.1 and the teacher's earley.Parser
// "mode bits, not subclasses" style.
type kind uint8

const (
	kindRoot kind = iota
	kindPlain
	kindGroup
	kindAlias
	kindAction
	kindVariable
)

var nextID int32 // atomic counter, assigns NodeID at construction time

// Node is the vertex of a grammar tree. See package doc for the
// variant contract.
type Node struct {
	id     NodeID
	kind   kind
	name   string
	parent *Node
	gram   *Grammar // owning grammar; nil until attached to one

	childrenByName map[string]*Node
	childOrder     *treeset.Set // of *Node, comparator by (group, order, name)

	patternSrc string
	pattern    *regexp.Regexp
	sepSrc     string
	separator  *regexp.Regexp

	group           int
	order           int
	matchCandidates bool
	traversals      int

	help        HelpFunc
	helpText    string
	hasHelpText bool

	candidatesFn CandidatesFunc
	validFn      ValidFunc
	visibleFn    VisibleFunc

	// Alias-only
	aliasTarget string

	// Action-only
	callback ActionFunc

	// Variable-only
	varName   string
	parseFn   ParseFunc
	isBuiltin string // e.g. "word", "integer" — for diagnostics only

	// Group-only: attribute overrides to propagate onto descendants.
	groupOverrides []Option
}

func mustCompileAnchored(pattern string) *regexp.Regexp {
	return regexp.MustCompile(`\A(?:` + pattern + `)`)
}

// Grammar is the root of a grammar tree — spec.md's Root/Grammar node.
// Its pattern never matches tokens and it is the anchor for absolute
// path lookups and alias resolution.
type Grammar struct {
	*Node
}

func nodeComparator(a, b interface{}) int {
	na, nb := a.(*Node), b.(*Node)
	if na.group != nb.group {
		return utils.IntComparator(na.group, nb.group)
	}
	if na.order != nb.order {
		return utils.IntComparator(na.order, nb.order)
	}
	return utils.StringComparator(na.name, nb.name)
}

func newBareNode(k kind, name string) *Node {
	id := NodeID(atomic.AddInt32(&nextID, 1))
	n := &Node{
		id:             id,
		kind:           k,
		name:           name,
		childrenByName: make(map[string]*Node),
		childOrder:     treeset.NewWith(nodeComparator),
		traversals:     1,
		sepSrc:         defaultSeparator.String(),
		separator:      defaultSeparator,
	}
	if name != "" {
		n.setPatternFromName()
	}
	return n
}

func (n *Node) setPatternFromName() {
	if n.patternSrc == "" {
		n.patternSrc = regexp.QuoteMeta(n.name)
		n.pattern = regexp.MustCompile(`\A(?:` + n.patternSrc + `)`)
	}
}

// Option mutates attributes of a node at construction time — the
// "attribute updates" leg of spec.md §4.1's three-kind constructor
// contract.
type Option func(*Node)

// WithGroup sets the node's help/ordering group (default 0).
func WithGroup(g int) Option { return func(n *Node) { n.group = g } }

// WithOrder sets the node's intra-group ordering key (default 0).
func WithOrder(o int) Option { return func(n *Node) { n.order = o } }

// WithPattern overrides the node's match pattern (a regular
// expression, anchored internally at the cursor).
func WithPattern(pattern string) Option {
	return func(n *Node) {
		n.patternSrc = pattern
		n.pattern = regexp.MustCompile(`\A(?:` + pattern + `)`)
	}
}

// WithSeparator overrides the node's separator pattern.
func WithSeparator(pattern string) Option {
	return func(n *Node) {
		n.sepSrc = pattern
		n.separator = regexp.MustCompile(`\A(?:` + pattern + `)`)
	}
}

// WithTraversals sets how many times a node may be selected in a
// single context; 0 means unbounded.
func WithTraversals(t int) Option { return func(n *Node) { n.traversals = t } }

// WithMatchCandidates requires the matched token, suffixed with a
// space, to also appear in the node's own candidate list.
func WithMatchCandidates() Option { return func(n *Node) { n.matchCandidates = true } }

// WithHelp sets a single static help text for the node. The row's key
// is the node name if the node matches its name literally, or
// "<name>" if the node carries a custom pattern (spec.md §4.6).
func WithHelp(text string) Option {
	return func(n *Node) { n.helpText = text; n.hasHelpText = true }
}

// WithHelpFunc installs an explicit help provider.
func WithHelpFunc(fn HelpFunc) Option { return func(n *Node) { n.help = fn } }

// WithCandidatesFunc overrides default candidate derivation.
func WithCandidatesFunc(fn CandidatesFunc) Option { return func(n *Node) { n.candidatesFn = fn } }

// WithValidFunc overrides the default traversal-limit validity check.
func WithValidFunc(fn ValidFunc) Option { return func(n *Node) { n.validFn = fn } }

// WithVisibleFunc overrides the default help-visibility check.
func WithVisibleFunc(fn VisibleFunc) Option { return func(n *Node) { n.visibleFn = fn } }

// Named wraps a node with an explicit child name, overriding the
// auto-generated "__anonymous_<n>" name a positional child would
// otherwise receive. A trailing underscore in name is stripped, so
// callers embedding cligram in a host language with reserved words
// (e.g. "type_") can still name a node "type".
func Named(name string, n *Node) namedChild {
	return namedChild{name: strings.TrimSuffix(name, "_"), node: n}
}

type namedChild struct {
	name string
	node *Node
}

// applyArgs implements the construction contract of spec.md §4.1:
// positional Node children, named children, *Grammar merge-in, and
// Option attribute updates. Anything else is a construction error.
func (n *Node) applyArgs(args []any) error {
	anon := 0
	for _, a := range args {
		switch v := a.(type) {
		case *Node:
			name := fmt.Sprintf("__anonymous_%d", anon)
			anon++
			if err := n.attachChild(name, v); err != nil {
				return err
			}
		case *Grammar:
			for _, childName := range v.Node.childOrder.Values() {
				c := childName.(*Node)
				if err := n.attachChild(c.name, c); err != nil {
					return err
				}
			}
		case namedChild:
			if err := n.attachChild(v.name, v.node); err != nil {
				return err
			}
		case Option:
			v(n)
		default:
			return fmt.Errorf("%w: %T", cligram.ErrInvalidAnonymousNode, a)
		}
	}
	if n.kind == kindGroup {
		n.propagateOverrides()
	}
	if n.help == nil && n.name != "" {
		n.setPatternFromName()
	}
	return nil
}

func (n *Node) attachChild(name string, c *Node) error {
	if strings.HasPrefix(name, "__anonymous_") && c.name != "" && c.name != name {
		// positional child already had an explicit name set by its own
		// constructor (e.g. Plain("host")) — keep that name instead of
		// minting a second anonymous one.
		name = c.name
	}
	c.name = name
	c.parent = n
	c.setPatternFromName()
	n.childrenByName[name] = c
	n.childOrder.Add(c)
	if n.gram != nil {
		c.setGrammar(n.gram)
	}
	return nil
}

func (n *Node) setGrammar(g *Grammar) {
	n.gram = g
	for _, cv := range n.childOrder.Values() {
		cv.(*Node).setGrammar(g)
	}
}

// orderedChildren returns this node's direct children sorted by
// (group, order, name).
func (n *Node) orderedChildren() []*Node {
	vals := n.childOrder.Values()
	out := make([]*Node, len(vals))
	for i, v := range vals {
		out[i] = v.(*Node)
	}
	return out
}

// --- public accessors -------------------------------------------------

// Name returns the node's name (possibly auto-generated).
func (n *Node) Name() string { return n.name }

// Parent returns the node's parent, or nil for the grammar root.
func (n *Node) Parent() *Node { return n.parent }

// ID returns the node's stable identity, used for traversal
// accounting.
func (n *Node) ID() NodeID { return n.id }

// PatternSource returns the source of the node's match pattern.
func (n *Node) PatternSource() string { return n.patternSrc }

// Path returns the "/"-joined names from the grammar root. The root's
// own path is "/".
func (n *Node) Path() string {
	if n.kind == kindRoot || n.parent == nil {
		return "/"
	}
	parentPath := n.parent.Path()
	if parentPath == "/" {
		return "/" + n.name
	}
	return parentPath + "/" + n.name
}

// visitKey builds a structhash-derived key identifying a node within
// a single follow/candidate query, used to guard against infinite
// recursion through alias or group cycles (Design Notes §9).
func visitKey(n *Node) string {
	h, err := structhash.Hash(struct{ ID NodeID }{n.id}, 1)
	if err != nil {
		// structhash only fails on unsupported types; NodeID is an int32.
		panic(err)
	}
	return h
}

// --- Node contract: Match / Advance / Selected -------------------------

// Match tests whether the node's pattern matches at ctx's cursor and
// its separator matches immediately after. It returns the match and
// true on success.
func (n *Node) Match(ctx Ctx) (Match, bool) {
	remaining := ctx.Remaining()
	switch n.kind {
	case kindRoot, kindGroup, kindAlias:
		return Match{}, false
	case kindAction:
		if remaining == "" {
			return Match{Token: "", Consumed: 0}, true
		}
		// An action also matches when only separator-worthy whitespace
		// remains, since that whitespace belongs to the previous token.
		if loc := n.separator.FindStringIndex(remaining); loc != nil && loc[1] == len(remaining) {
			return Match{Token: "", Consumed: 0}, true
		}
		return Match{}, false
	default: // kindPlain, kindVariable
		loc := n.pattern.FindStringIndex(remaining)
		if loc == nil || loc[0] != 0 {
			return Match{}, false
		}
		token := remaining[:loc[1]]
		rest := remaining[loc[1]:]
		sepLoc := n.separator.FindStringIndex(rest)
		if sepLoc == nil || sepLoc[0] != 0 {
			return Match{}, false
		}
		if n.matchCandidates {
			cands := n.Candidates(ctx, token)
			wanted := token + " "
			found := false
			for _, c := range cands {
				if c == wanted {
					found = true
					break
				}
			}
			if !found {
				return Match{}, false
			}
		}
		return Match{Token: token, Consumed: loc[1] + sepLoc[1]}, true
	}
}

// Advance consumes the bytes m.Consumed identified from the cursor.
func (n *Node) Advance(ctx Ctx, m Match) { ctx.Advance(m.Consumed) }

// Selected informs the context that this node was traversed. Action
// is a no-op (actions never consume a traversal slot); Alias is
// illegal to select directly.
func (n *Node) Selected(ctx Ctx, m Match) error {
	switch n.kind {
	case kindAction:
		return nil
	case kindAlias:
		return fmt.Errorf("%w: cannot select alias %q directly", cligram.ErrInvalidNodePath, n.Path())
	default:
		ctx.MarkTraversed(n.id)
		if n.kind == kindVariable {
			return n.captureVar(ctx, m)
		}
		return nil
	}
}

func (n *Node) captureVar(ctx Ctx, m Match) error {
	val, err := n.parseFn(m.Token)
	if err != nil {
		return fmt.Errorf("%w: %q at variable %q: %v", cligram.ErrValidation, m.Token, n.Path(), err)
	}
	name := n.varName
	if name == "" {
		name = n.name
	}
	ctx.SetVar(name, val, n.traversals != 1)
	return nil
}

// --- Node contract: Valid / Visible ------------------------------------

// Valid reports whether this node may still be selected in ctx.
func (n *Node) Valid(ctx Ctx) bool {
	if n.validFn != nil {
		return n.validFn(ctx)
	}
	switch n.kind {
	case kindGroup:
		return true
	case kindAlias:
		for _, t := range n.resolveAliasTargets(ctx) {
			if t.Valid(ctx) {
				return true
			}
		}
		return false
	default:
		if n.traversals == 0 {
			return true
		}
		return ctx.Traversed(n.id) < n.traversals
	}
}

// Visible reports whether the node appears in help listings.
func (n *Node) Visible(ctx Ctx) bool {
	if n.visibleFn != nil {
		return n.visibleFn(ctx)
	}
	if n.kind == kindAlias {
		for _, t := range n.resolveAliasTargets(ctx) {
			if t.Visible(ctx) {
				return true
			}
		}
		return false
	}
	return true
}

// --- Node contract: Follow / Children -----------------------------------

// Follow expands a structural or alias node into the set of nodes it
// logically stands for: identity for plain/action/variable/root
// nodes, the (recursively followed) children for a Group, and the
// (recursively followed) resolved targets for an Alias.
func (n *Node) Follow(ctx Ctx) []*Node {
	return n.followAcc(ctx, map[string]bool{})
}

func (n *Node) followAcc(ctx Ctx, visited map[string]bool) []*Node {
	key := visitKey(n)
	if visited[key] {
		return nil
	}
	visited[key] = true
	switch n.kind {
	case kindGroup:
		var out []*Node
		for _, c := range n.orderedChildren() {
			out = append(out, c.followAcc(ctx, visited)...)
		}
		return out
	case kindAlias:
		var out []*Node
		for _, t := range n.resolveAliasTargets(ctx) {
			out = append(out, t.followAcc(ctx, visited)...)
		}
		return out
	default:
		return []*Node{n}
	}
}

// Children yields this node's child nodes ordered by
// (group, order, name), filtered by Valid. When follow is true, each
// child is expanded via Follow and the expansion is filtered by Valid
// too.
func (n *Node) Children(ctx Ctx, follow bool) []*Node {
	var out []*Node
	for _, c := range n.orderedChildren() {
		if !c.Valid(ctx) {
			continue
		}
		if !follow {
			out = append(out, c)
			continue
		}
		for _, f := range c.Follow(ctx) {
			if f.Valid(ctx) {
				out = append(out, f)
			}
		}
	}
	return out
}

// Next is an alias for Children(ctx, true), matching the parser
// driver's pseudocode in spec.md §4.5.
func (n *Node) Next(ctx Ctx) []*Node { return n.Children(ctx, true) }

// --- Node contract: Candidates / Help / Terminal ------------------------

// Candidates yields this node's own help keys that start with text,
// each suffixed with a single space. Keys beginning with "<" are
// never offered.
func (n *Node) Candidates(ctx Ctx, text string) []string {
	if n.candidatesFn != nil {
		return n.candidatesFn(ctx, text)
	}
	var out []string
	for _, row := range n.Help(ctx) {
		if strings.HasPrefix(row.Key, "<") {
			continue
		}
		if strings.HasPrefix(row.Key, text) {
			out = append(out, row.Key+" ")
		}
	}
	return out
}

// Help returns this node's own help rows (spec.md §4.6's String,
// Explicit and Action help providers).
func (n *Node) Help(ctx Ctx) []HelpRow {
	if n.help != nil {
		rows := n.help(ctx)
		for i := range rows {
			rows[i].Group, rows[i].Order = n.group, n.order
		}
		return rows
	}
	switch n.kind {
	case kindAction:
		text := n.helpText
		if !n.hasHelpText {
			text = "execute"
		}
		return []HelpRow{{Group: n.group, Order: n.order, Key: "<eol>", Text: text}}
	case kindGroup, kindAlias, kindRoot:
		return nil
	default:
		key := n.name
		if n.hasCustomPattern() {
			key = "<" + n.name + ">"
		}
		return []HelpRow{{Group: n.group, Order: n.order, Key: key, Text: n.helpText}}
	}
}

func (n *Node) hasCustomPattern() bool {
	return n.patternSrc != regexp.QuoteMeta(n.name)
}

// Terminal is invoked when parsing ends at this node with no input
// remaining. Action runs its callback; Grammar (root) is a no-op;
// everything else refuses to stop here.
func (n *Node) Terminal(ctx Ctx) error {
	switch n.kind {
	case kindRoot:
		return nil
	case kindAction:
		if n.callback == nil {
			return nil
		}
		return n.callback(ctx)
	default:
		return fmt.Errorf("%w: at %q", cligram.ErrUnexpectedEOL, n.Path())
	}
}
