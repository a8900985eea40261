/*
Package help implements the help enumerator of spec.md §4.6: given a
(ctx, node) pair, walk node's followed, visible children and collect
each one's own help rows into a single ordered listing.

It is kept separate from package grammar itself — mirroring the
teacher's split between the core LR table builder and its sppf walker
package — since formatting is a second, independent concern layered on
top of the node contract's raw Help/Children operations.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2020–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package help

import (
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/exp/slices"

	"github.com/npillmayer/cligram/grammar"
)

// tracer traces with key 'cligram.help'.
func tracer() tracing.Trace {
	return tracing.Select("cligram.help")
}

// Row is a single rendered help line: the (group, order) sort key
// inherited from the contributing node, plus its (key, text) pair.
type Row struct {
	Group int
	Order int
	Key   string
	Text  string
}

// Rows walks node.Children(ctx, follow=true), filtered by Visible,
// and collects every visible child's own Help rows, stable-sorted by
// (group, order, key, text) per spec.md §4.6.
func Rows(ctx grammar.Ctx, node *grammar.Node) []Row {
	var out []Row
	for _, c := range node.Children(ctx, true) {
		if !c.Visible(ctx) {
			continue
		}
		for _, hr := range c.Help(ctx) {
			out = append(out, Row{Group: hr.Group, Order: hr.Order, Key: hr.Key, Text: hr.Text})
		}
	}
	slices.SortFunc(out, func(a, b Row) int {
		if a.Group != b.Group {
			return a.Group - b.Group
		}
		if a.Order != b.Order {
			return a.Order - b.Order
		}
		if c := strings.Compare(a.Key, b.Key); c != 0 {
			return c
		}
		return strings.Compare(a.Text, b.Text)
	})
	tracer().Debugf("help.Rows(%s): %d rows", node.Path(), len(out))
	return out
}

// Format renders rows as plain text: groups separated by a blank
// line, keys left-aligned to the widest key width in the whole set.
func Format(rows []Row) string {
	width := 0
	for _, r := range rows {
		if len(r.Key) > width {
			width = len(r.Key)
		}
	}
	var sb strings.Builder
	lastGroup := 0
	for i, r := range rows {
		if i > 0 && r.Group != lastGroup {
			sb.WriteString("\n")
		}
		lastGroup = r.Group
		sb.WriteString(r.Key)
		sb.WriteString(strings.Repeat(" ", width-len(r.Key)+2))
		sb.WriteString(r.Text)
		sb.WriteString("\n")
	}
	return sb.String()
}
