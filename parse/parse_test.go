package parse

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/npillmayer/cligram"
	"github.com/npillmayer/cligram/grammar"
	"github.com/npillmayer/cligram/grammar/builtin"
)

// Scenario 1: quit -> Action.
func TestExecuteQuitAction(t *testing.T) {
	called := false
	g := grammar.MustNewGrammar(
		grammar.MustPlain("quit", grammar.MustAction("do-quit", func(grammar.Ctx) error { called = true; return nil })),
	)
	p := NewParser(g)
	ctx, err := p.Execute("quit", nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !called {
		t.Fatalf("expected quit callback to run")
	}
	if len(ctx.vars) != 0 {
		t.Errorf("expected no vars, got %v", ctx.vars)
	}
}

// Scenario 2: echo Variable("text") -> Action echoes the captured text.
func TestExecuteEchoCapturesVariable(t *testing.T) {
	// The Action is a child of the Variable — spec.md §4.5's
	// Variable(name="text")(Action(...)) composition — since the
	// driver descends into the matched node's own children next, not
	// back out to its parent's sibling list.
	var got string
	word := builtin.Word("text", grammar.MustAction("do-echo", func(ctx grammar.Ctx) error {
		got = ctx.(*Context).Var("text").(string)
		return nil
	}))
	g := grammar.MustNewGrammar(grammar.MustPlain("echo", word))
	p := NewParser(g)
	ctx, err := p.Execute("echo magic", nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got != "magic" {
		t.Errorf("echoed = %q, want magic", got)
	}
	if v := ctx.Var("text"); v != "magic" {
		t.Errorf("Var(text) = %v, want magic", v)
	}
}

// Scenario 3: an unbounded Variable that aliases back to itself
// accumulates every captured word in order.
func TestExecuteAccumulatesUnboundedVariable(t *testing.T) {
	// The repeat loop lives inside the Variable itself: after each
	// capture, its own children are consulted next (per the driver's
	// node.next(ctx) recursion), so a self-targeting alias there is
	// what lets the same Variable be selected again. ".." cancels the
	// alias's own path component, landing back on its parent — the
	// Variable itself.
	word := builtin.Word("text", grammar.WithTraversals(0),
		grammar.MustAlias("..", grammar.WithTraversals(0)),
		grammar.MustAction("do-echo", func(grammar.Ctx) error { return nil }),
	)
	g := grammar.MustNewGrammar(grammar.MustPlain("echo", word))
	p := NewParser(g)
	ctx, err := p.Execute("echo magic monkey banana", nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	want := []any{"magic", "monkey", "banana"}
	if diff := cmp.Diff(want, ctx.Vars("text"), cmpopts.EquateComparable()); diff != "" {
		t.Errorf("Vars(text) mismatch (-want +got):\n%s", diff)
	}
}

// Scenario 4: an Integer variable stops at the first non-digit.
func TestIntegerLeavesRemainderUnconsumed(t *testing.T) {
	n := builtin.Integer("n")
	g := grammar.MustNewGrammar(n)
	p := NewParser(g)
	ctx, err := p.Parse("123.45", nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := ctx.Var("n"); got != int64(123) {
		t.Errorf("n = %v, want 123", got)
	}
	if ctx.Remaining() != ".45" {
		t.Errorf("remaining = %q, want \".45\"", ctx.Remaining())
	}
}

// Scenario 5: Boolean accepts a mixed-case token.
func TestBooleanIsCaseInsensitive(t *testing.T) {
	b := builtin.Boolean("b")
	g := grammar.MustNewGrammar(b)
	p := NewParser(g)
	ctx, err := p.Parse("YeS", nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := ctx.Var("b"); got != true {
		t.Errorf("b = %v, want true", got)
	}
}

// Scenario 6: sibling groups with distinct help groups sort and break
// as spec.md §8 describes.
func TestHelpBreaksBetweenGroups(t *testing.T) {
	g := grammar.MustNewGrammar(
		grammar.MustPlain("a",
			grammar.MustPlain("b", grammar.WithGroup(0)),
			grammar.MustPlain("c", grammar.WithGroup(2)),
		),
	)
	p := NewParser(g)
	ctx, err := p.Parse("a ", nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	rows := ctx.Help()
	if len(rows) != 2 || rows[0].Key != "b" || rows[1].Key != "c" {
		t.Fatalf("unexpected help rows: %+v", rows)
	}
	if rows[0].Group != 0 || rows[1].Group != 2 {
		t.Fatalf("unexpected groups: %+v", rows)
	}
}

// Scenario 7: an alias glob resolves to every matching sibling.
func TestCandidatesIncludeAliasGlobTargets(t *testing.T) {
	g := grammar.MustNewGrammar(
		grammar.MustPlain("one", grammar.MustPlain("two"), grammar.MustPlain("three")),
		grammar.MustPlain("four"),
		grammar.MustAlias("/one/*"),
	)
	p := NewParser(g)
	ctx, err := p.Parse("", nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cands := ctx.Candidates("")
	want := map[string]bool{"one ": true, "four ": true, "two ": true, "three ": true}
	for _, c := range cands {
		if !want[c] {
			t.Errorf("unexpected candidate %q", c)
		}
		delete(want, c)
	}
	if len(want) != 0 {
		t.Errorf("missing candidates: %v", want)
	}

	one, err := g.Find("/one")
	if err != nil {
		t.Fatal(err)
	}
	aliasTargets := func() []string {
		for _, c := range g.Node.Children(ctx, false) {
			if c.Name() == "__anonymous_alias" {
				var names []string
				for _, t := range c.Follow(ctx) {
					names = append(names, t.Name())
				}
				return names
			}
		}
		return nil
	}()
	if len(aliasTargets) != 2 {
		t.Fatalf("expected alias to resolve to 2 targets, got %v", aliasTargets)
	}
	_ = one
}

func TestExecuteRejectsTrailingGarbage(t *testing.T) {
	g := grammar.MustNewGrammar(
		grammar.MustPlain("quit", grammar.MustAction("do-quit", func(grammar.Ctx) error { return nil })),
	)
	p := NewParser(g)
	_, err := p.Execute("quit now", nil)
	if !errors.Is(err, cligram.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseTwiceYieldsStructurallyEqualContexts(t *testing.T) {
	g := grammar.MustNewGrammar(
		grammar.MustPlain("echo", builtin.Word("text"), grammar.MustAction("a", func(grammar.Ctx) error { return nil })),
	)
	p := NewParser(g)
	c1, err := p.Parse("echo magic", nil)
	if err != nil {
		t.Fatal(err)
	}
	c2, err := p.Parse("echo magic", nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(c1.vars, c2.vars, cmpopts.EquateComparable()); diff != "" {
		t.Errorf("vars differ (-first +second):\n%s", diff)
	}
	if c1.Cursor() != c2.Cursor() {
		t.Errorf("cursor differs: %d vs %d", c1.Cursor(), c2.Cursor())
	}
}
