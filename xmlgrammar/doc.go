/*
Package xmlgrammar builds a grammar tree from a declarative XML
document (spec.md §4.8): each element maps to a node kind by tag name
(case-insensitive), attributes configure the node, and nested elements
become its children. The root element must be named "grammar".

Recognized attributes on any element: name, traversals, group, order,
match_candidates, pattern, separator, help (static help text).
Kind-specific attributes: target (alias), kind (variable — looked up in
a VariableKinds registry seeded with grammar/builtin's constructors).
Behavioral attributes — callback, valid, visible, candidates, help_fn —
are never evaluated as code; they
name an entry in a caller-supplied Registry, following Design Notes
§9's explicit mandate against exposing arbitrary expression evaluation
from data. This mirrors the teacher's lexmach.NewLMAdapter: a
registration table the caller populates, looked up by name at build
time, rather than a dynamic dispatch mechanism.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2020–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package xmlgrammar

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'cligram.xmlgrammar'.
func tracer() tracing.Trace {
	return tracing.Select("cligram.xmlgrammar")
}
