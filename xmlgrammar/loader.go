package xmlgrammar

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/npillmayer/cligram"
	"github.com/npillmayer/cligram/grammar"
	"github.com/npillmayer/cligram/grammar/builtin"
)

// NodeFactory builds one grammar node from an XML element: its
// lower-cased attribute map and its already-built children (parsed
// depth-first, so a factory never recurses itself). The tag dispatch
// table is keyed by the element's local name, lower-cased.
type NodeFactory func(attrs map[string]string, children []*grammar.Node, reg *Registry) (*grammar.Node, error)

// VariableFactory constructs a builtin-style Variable node; it is the
// table a <variable kind="..."> element's kind attribute is resolved
// against.
type VariableFactory func(name string, args ...any) *grammar.Node

// Registry holds every name a document may reference instead of
// embedding executable code: action callbacks, valid/visible/help/
// candidates providers, and variable-kind constructors. Load never
// evaluates an attribute value itself — it only looks names up here.
type Registry struct {
	Callbacks     map[string]grammar.ActionFunc
	Valids        map[string]grammar.ValidFunc
	Visibles      map[string]grammar.VisibleFunc
	CandidatesFns map[string]grammar.CandidatesFunc
	HelpFns       map[string]grammar.HelpFunc
	VariableKinds map[string]VariableFactory

	tags map[string]NodeFactory
}

// NewRegistry returns a Registry whose variable-kind and element-tag
// tables are seeded with the kinds this module ships (grammar/builtin's
// scalar, net, string and file constructors, except Choice, whose word
// list does not fit VariableFactory; the plain/group/alias/action/
// variable element tags). Callers add their own Callbacks,
// Valids, Visibles, CandidatesFns and HelpFns entries — and may add
// further element kinds with RegisterNodeKind — before calling Load.
func NewRegistry() *Registry {
	r := &Registry{
		Callbacks:     map[string]grammar.ActionFunc{},
		Valids:        map[string]grammar.ValidFunc{},
		Visibles:      map[string]grammar.VisibleFunc{},
		CandidatesFns: map[string]grammar.CandidatesFunc{},
		HelpFns:       map[string]grammar.HelpFunc{},
		VariableKinds: map[string]VariableFactory{
			"word":     builtin.Word,
			"integer":  builtin.Integer,
			"float":    builtin.Float,
			"boolean":  builtin.Boolean,
			"ip":       builtin.IP,
			"hostname": builtin.Hostname,
			"host":     builtin.Host,
			"email":    builtin.EMail,
			"uri":      builtin.URI,
			"ldapdn":   builtin.LDAPDN,
			"string":   builtin.String,
			"file": func(name string, args ...any) *grammar.Node {
				return builtin.File(name, nil, args...)
			},
		},
		tags: map[string]NodeFactory{},
	}
	r.tags["plain"] = plainFactory
	r.tags["group"] = groupFactory
	r.tags["alias"] = aliasFactory
	r.tags["action"] = actionFactory
	r.tags["variable"] = variableFactory
	return r
}

// RegisterNodeKind adds (or overrides) the factory used for elements
// named tag, matched case-insensitively — the document-driven
// equivalent of the teacher's lexmach adapter-registration table, and
// the "extra_nodes" hook of spec.md §4.8.
func (r *Registry) RegisterNodeKind(tag string, factory NodeFactory) {
	r.tags[strings.ToLower(tag)] = factory
}

// Load reads a declarative grammar document from r and builds the
// equivalent *grammar.Grammar, using reg to resolve every kind,
// callback, valid/visible/help/candidates and variable-kind name the
// document references. The root element must be named "grammar"
// (case-insensitive); everything else follows spec.md §4.8's element
// contract.
func Load(r io.Reader, reg *Registry) (*grammar.Grammar, error) {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", cligram.ErrXMLParse, err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if !strings.EqualFold(start.Name.Local, "grammar") {
			return nil, fmt.Errorf("%w: root element must be <grammar>, got <%s>",
				cligram.ErrXMLParse, start.Name.Local)
		}
		children, err := parseChildren(dec, start, reg)
		if err != nil {
			return nil, err
		}
		g, err := grammar.NewGrammar(childArgs(children, nil)...)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", cligram.ErrXMLParse, err)
		}
		return g, nil
	}
}

// parseChildren consumes tokens up to and including start's matching
// EndElement, dispatching every nested StartElement to parseElement.
func parseChildren(dec *xml.Decoder, start xml.StartElement, reg *Registry) ([]*grammar.Node, error) {
	var out []*grammar.Node
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", cligram.ErrXMLParse, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := parseElement(dec, t, reg)
			if err != nil {
				return nil, err
			}
			out = append(out, child)
		case xml.EndElement:
			if t.Name.Local == start.Name.Local {
				return out, nil
			}
		}
	}
}

// parseElement builds one element's attribute map, recursively parses
// its children, then hands both to the tag-dispatched factory.
func parseElement(dec *xml.Decoder, start xml.StartElement, reg *Registry) (*grammar.Node, error) {
	attrs := make(map[string]string, len(start.Attr))
	for _, a := range start.Attr {
		attrs[strings.ToLower(a.Name.Local)] = a.Value
	}
	children, err := parseChildren(dec, start, reg)
	if err != nil {
		return nil, err
	}
	tag := strings.ToLower(start.Name.Local)
	factory, ok := reg.tags[tag]
	if !ok {
		return nil, fmt.Errorf("%w: unknown element <%s>", cligram.ErrXMLParse, start.Name.Local)
	}
	n, err := factory(attrs, children, reg)
	if err != nil {
		return nil, fmt.Errorf("%w: <%s>: %v", cligram.ErrXMLParse, start.Name.Local, err)
	}
	return n, nil
}

// childArgs flattens parsed children and attribute-derived options
// into the positional/Option argument list every grammar constructor
// accepts (spec.md §4.1's construction contract).
func childArgs(children []*grammar.Node, opts []any) []any {
	args := make([]any, 0, len(children)+len(opts))
	for _, c := range children {
		args = append(args, c)
	}
	return append(args, opts...)
}

// commonOptions translates the attributes every element kind shares —
// group, order, traversals, match_candidates, pattern, separator,
// help, and the registry-lookup behavioral attributes valid, visible,
// candidates and help_fn — into grammar.Option values. An attribute
// absent from attrs is simply not translated; there are no defaults to
// apply here, the node constructors already carry their own.
func commonOptions(attrs map[string]string, reg *Registry) ([]any, error) {
	var opts []any
	if v, ok := attrs["group"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("group: %w", err)
		}
		opts = append(opts, grammar.WithGroup(n))
	}
	if v, ok := attrs["order"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("order: %w", err)
		}
		opts = append(opts, grammar.WithOrder(n))
	}
	if v, ok := attrs["traversals"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("traversals: %w", err)
		}
		opts = append(opts, grammar.WithTraversals(n))
	}
	if v, ok := attrs["match_candidates"]; ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("match_candidates: %w", err)
		}
		if b {
			opts = append(opts, grammar.WithMatchCandidates())
		}
	}
	if v, ok := attrs["pattern"]; ok {
		opts = append(opts, grammar.WithPattern(v))
	}
	if v, ok := attrs["separator"]; ok {
		opts = append(opts, grammar.WithSeparator(v))
	}
	if v, ok := attrs["help"]; ok {
		opts = append(opts, grammar.WithHelp(v))
	}
	if v, ok := attrs["valid"]; ok {
		fn, found := reg.Valids[v]
		if !found {
			return nil, fmt.Errorf("unknown valid provider %q", v)
		}
		opts = append(opts, grammar.WithValidFunc(fn))
	}
	if v, ok := attrs["visible"]; ok {
		fn, found := reg.Visibles[v]
		if !found {
			return nil, fmt.Errorf("unknown visible provider %q", v)
		}
		opts = append(opts, grammar.WithVisibleFunc(fn))
	}
	if v, ok := attrs["candidates"]; ok {
		fn, found := reg.CandidatesFns[v]
		if !found {
			return nil, fmt.Errorf("unknown candidates provider %q", v)
		}
		opts = append(opts, grammar.WithCandidatesFunc(fn))
	}
	if v, ok := attrs["help_fn"]; ok {
		fn, found := reg.HelpFns[v]
		if !found {
			return nil, fmt.Errorf("unknown help_fn provider %q", v)
		}
		opts = append(opts, grammar.WithHelpFunc(fn))
	}
	return opts, nil
}

func requireAttr(attrs map[string]string, key string) (string, error) {
	v, ok := attrs[key]
	if !ok {
		return "", fmt.Errorf("missing %q attribute", key)
	}
	return v, nil
}

func plainFactory(attrs map[string]string, children []*grammar.Node, reg *Registry) (*grammar.Node, error) {
	name, err := requireAttr(attrs, "name")
	if err != nil {
		return nil, err
	}
	opts, err := commonOptions(attrs, reg)
	if err != nil {
		return nil, err
	}
	return grammar.Plain(name, childArgs(children, opts)...)
}

func groupFactory(attrs map[string]string, children []*grammar.Node, reg *Registry) (*grammar.Node, error) {
	opts, err := commonOptions(attrs, reg)
	if err != nil {
		return nil, err
	}
	return grammar.NewGroup(childArgs(children, opts)...)
}

func aliasFactory(attrs map[string]string, children []*grammar.Node, reg *Registry) (*grammar.Node, error) {
	target, err := requireAttr(attrs, "target")
	if err != nil {
		return nil, err
	}
	opts, err := commonOptions(attrs, reg)
	if err != nil {
		return nil, err
	}
	return grammar.NewAlias(target, childArgs(children, opts)...)
}

func actionFactory(attrs map[string]string, children []*grammar.Node, reg *Registry) (*grammar.Node, error) {
	name, err := requireAttr(attrs, "name")
	if err != nil {
		return nil, err
	}
	cbName, err := requireAttr(attrs, "callback")
	if err != nil {
		return nil, err
	}
	cb, ok := reg.Callbacks[cbName]
	if !ok {
		return nil, fmt.Errorf("unknown callback %q", cbName)
	}
	opts, err := commonOptions(attrs, reg)
	if err != nil {
		return nil, err
	}
	return grammar.NewAction(name, cb, childArgs(children, opts)...)
}

// variableFactory resolves a <variable kind="..."> element against
// reg.VariableKinds. The "file" kind is special-cased so its
// include/exclude/dotfiles/dirs_only candidate-shaping attributes
// (spec.md §4.4's File row) reach builtin.File's FileOption arguments,
// which no other builtin kind takes.
func variableFactory(attrs map[string]string, children []*grammar.Node, reg *Registry) (*grammar.Node, error) {
	name, err := requireAttr(attrs, "name")
	if err != nil {
		return nil, err
	}
	kind, err := requireAttr(attrs, "kind")
	if err != nil {
		return nil, err
	}
	opts, err := commonOptions(attrs, reg)
	if err != nil {
		return nil, err
	}
	if v, ok := attrs["var_name"]; ok {
		opts = append(opts, grammar.WithVarName(v))
	}
	args := childArgs(children, opts)
	kind = strings.ToLower(kind)
	if kind == "file" {
		var fopts []builtin.FileOption
		if v, ok := attrs["include"]; ok {
			fopts = append(fopts, builtin.WithInclude(strings.Split(v, ",")...))
		}
		if v, ok := attrs["exclude"]; ok {
			fopts = append(fopts, builtin.WithExclude(strings.Split(v, ",")...))
		}
		if v, ok := attrs["dotfiles"]; ok {
			if b, _ := strconv.ParseBool(v); b {
				fopts = append(fopts, builtin.WithDotfiles())
			}
		}
		if v, ok := attrs["dirs_only"]; ok {
			if b, _ := strconv.ParseBool(v); b {
				fopts = append(fopts, builtin.WithDirsOnly())
			}
		}
		return builtin.File(name, fopts, args...), nil
	}
	ctor, ok := reg.VariableKinds[kind]
	if !ok {
		return nil, fmt.Errorf("unknown variable kind %q", kind)
	}
	return ctor(name, args...), nil
}
