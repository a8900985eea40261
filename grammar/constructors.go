package grammar

import "strings"

// NewGrammar constructs the root of a grammar tree. Its children are
// attached exactly like a Plain node's, but it never matches tokens
// itself and Terminal on it is a no-op (an empty command line is a
// valid, do-nothing command).
func NewGrammar(args ...any) (*Grammar, error) {
	root := newBareNode(kindRoot, "")
	g := &Grammar{Node: root}
	root.gram = g
	if err := root.applyArgs(args); err != nil {
		return nil, err
	}
	return g, nil
}

// MustNewGrammar is like NewGrammar but panics on a construction
// error, for use in package-level grammar literals.
func MustNewGrammar(args ...any) *Grammar {
	g, err := NewGrammar(args...)
	if err != nil {
		panic(err)
	}
	return g
}

// Plain constructs a node that matches its pattern (by default, its
// own name) and recurses into its children.
func Plain(name string, args ...any) (*Node, error) {
	n := newBareNode(kindPlain, name)
	if err := n.applyArgs(args); err != nil {
		return nil, err
	}
	return n, nil
}

// MustPlain is like Plain but panics on a construction error.
func MustPlain(name string, args ...any) *Node {
	n, err := Plain(name, args...)
	if err != nil {
		panic(err)
	}
	return n
}

// NewGroup constructs a structural node that contributes no token of
// its own; traversal passes through it transparently to its children.
// On construction (and whenever it gains further children), a Group
// propagates any attribute Options given to it onto all descendants,
// stopping at a nested Group.
func NewGroup(args ...any) (*Node, error) {
	n := newBareNode(kindGroup, "__anonymous_group")
	n.patternSrc = ""
	n.pattern = nil
	// Options meant for propagation are recorded separately from the
	// group's own (irrelevant) attributes; see propagateOverrides.
	var overrides []Option
	var rest []any
	for _, a := range args {
		if opt, ok := a.(Option); ok {
			overrides = append(overrides, opt)
			continue
		}
		rest = append(rest, a)
	}
	n.groupOverrides = overrides
	if err := n.applyArgs(rest); err != nil {
		return nil, err
	}
	n.propagateOverrides()
	return n, nil
}

// MustGroup is like NewGroup but panics on a construction error.
func MustGroup(args ...any) *Node {
	n, err := NewGroup(args...)
	if err != nil {
		panic(err)
	}
	return n
}

// NewAlias constructs a node holding a target path expression
// (absolute or relative, glob-capable). Its Follow resolves, at query
// time, to the live set of nodes the path names.
func NewAlias(target string, args ...any) (*Node, error) {
	n := newBareNode(kindAlias, "__anonymous_alias")
	n.aliasTarget = target
	if err := n.applyArgs(args); err != nil {
		return nil, err
	}
	return n, nil
}

// MustAlias is like NewAlias but panics on a construction error.
func MustAlias(target string, args ...any) *Node {
	n, err := NewAlias(target, args...)
	if err != nil {
		panic(err)
	}
	return n
}

// NewAction constructs a node whose pattern matches end-of-input only;
// reaching it with no remaining input invokes cb with the captured
// variables available through the context. Its help group defaults to
// 9999 so it sorts last.
func NewAction(name string, cb ActionFunc, args ...any) (*Node, error) {
	n := newBareNode(kindAction, name)
	n.group = 9999
	n.callback = cb
	if err := n.applyArgs(args); err != nil {
		return nil, err
	}
	return n, nil
}

// MustAction is like NewAction but panics on a construction error.
func MustAction(name string, cb ActionFunc, args ...any) *Node {
	n, err := NewAction(name, cb, args...)
	if err != nil {
		panic(err)
	}
	return n
}

// NewVariable constructs a node that matches pattern and, on
// selection, parses the matched text with parseFn and records it in
// the context's variable map under name (or under a WithVarName
// override). package grammar/builtin provides ready-made
// constructors for the built-in kinds of spec.md §4.4.
func NewVariable(name, pattern string, parseFn ParseFunc, args ...any) (*Node, error) {
	n := newBareNode(kindVariable, name)
	n.varName = name
	n.parseFn = parseFn
	n.patternSrc = pattern
	n.pattern = mustCompileAnchored(pattern)
	if err := n.applyArgs(args); err != nil {
		return nil, err
	}
	return n, nil
}

// MustVariable is like NewVariable but panics on a construction error.
func MustVariable(name, pattern string, parseFn ParseFunc, args ...any) *Node {
	n, err := NewVariable(name, pattern, parseFn, args...)
	if err != nil {
		panic(err)
	}
	return n
}

// WithVarName overrides the variable-map key a Variable node captures
// under (default: the node's own name).
func WithVarName(name string) Option {
	return func(n *Node) { n.varName = name }
}

// WithBuiltinKind tags a Variable node with the built-in kind name it
// was constructed from, for diagnostics only.
func WithBuiltinKind(kind string) Option {
	return func(n *Node) { n.isBuiltin = kind }
}

// CullCandidates filters candidates down to those with text as a
// prefix, each terminated with a trailing space.
func CullCandidates(candidates []string, text string) []string {
	var out []string
	for _, c := range candidates {
		if strings.HasPrefix(c, text) {
			out = append(out, c+" ")
		}
	}
	return out
}

// StaticCandidates returns a CandidatesFunc that offers a fixed list of
// candidates, culled to whichever ones have the typed text as a
// prefix. It is a convenience for nodes whose candidate set doesn't
// depend on context or the filesystem, e.g. a closed vocabulary
// provided inline rather than through a Group of Plain children.
func StaticCandidates(candidates ...string) CandidatesFunc {
	return func(_ Ctx, text string) []string {
		return CullCandidates(candidates, text)
	}
}
