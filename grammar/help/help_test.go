package help

import (
	"testing"

	"github.com/npillmayer/cligram/grammar"
)

type fakeCtx struct {
	remaining string
	traversed map[grammar.NodeID]int
}

func newFakeCtx(cmd string) *fakeCtx {
	return &fakeCtx{remaining: cmd, traversed: map[grammar.NodeID]int{}}
}

func (c *fakeCtx) Remaining() string               { return c.remaining }
func (c *fakeCtx) Advance(n int)                   { c.remaining = c.remaining[n:] }
func (c *fakeCtx) Traversed(id grammar.NodeID) int { return c.traversed[id] }
func (c *fakeCtx) MarkTraversed(id grammar.NodeID) { c.traversed[id]++ }
func (c *fakeCtx) SetVar(string, any, bool)         {}
func (c *fakeCtx) UserContext() any                 { return nil }

func TestRowsOrderedByGroupThenOrder(t *testing.T) {
	g := grammar.MustNewGrammar(
		grammar.MustPlain("a",
			grammar.MustPlain("b", grammar.WithGroup(0)),
			grammar.MustPlain("c", grammar.WithGroup(2)),
		),
	)
	a, err := g.Find("/a")
	if err != nil {
		t.Fatal(err)
	}
	ctx := newFakeCtx("")
	rows := Rows(ctx, a)
	if len(rows) != 2 || rows[0].Key != "b" || rows[1].Key != "c" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
	if rows[0].Group != 0 || rows[1].Group != 2 {
		t.Fatalf("unexpected groups: %+v", rows)
	}
}

func TestFormatInsertsBlankLineBetweenGroups(t *testing.T) {
	rows := []Row{
		{Group: 0, Key: "b", Text: "do b"},
		{Group: 2, Key: "c", Text: "do c"},
	}
	out := Format(rows)
	want := "b  do b\n\nc  do c\n"
	if out != want {
		t.Fatalf("Format =\n%q\nwant\n%q", out, want)
	}
}

func TestActionHelpKeyIsEOL(t *testing.T) {
	act := grammar.MustAction("go", func(grammar.Ctx) error { return nil }, grammar.WithHelp("run it"))
	ctx := newFakeCtx("")
	rows := act.Help(ctx)
	if len(rows) != 1 || rows[0].Key != "<eol>" || rows[0].Text != "run it" {
		t.Fatalf("unexpected action help: %+v", rows)
	}
}
