package builtin

import (
	"testing"

	"github.com/npillmayer/cligram/grammar"
)

type fakeCtx struct {
	remaining string
	vars      map[string][]any
	traversed map[grammar.NodeID]int
}

func newFakeCtx(cmd string) *fakeCtx {
	return &fakeCtx{remaining: cmd, vars: map[string][]any{}, traversed: map[grammar.NodeID]int{}}
}

func (c *fakeCtx) Remaining() string               { return c.remaining }
func (c *fakeCtx) Advance(n int)                   { c.remaining = c.remaining[n:] }
func (c *fakeCtx) Traversed(id grammar.NodeID) int { return c.traversed[id] }
func (c *fakeCtx) MarkTraversed(id grammar.NodeID) { c.traversed[id]++ }
func (c *fakeCtx) UserContext() any                { return nil }
func (c *fakeCtx) SetVar(name string, v any, accumulate bool) {
	if accumulate {
		c.vars[name] = append(c.vars[name], v)
	} else {
		c.vars[name] = []any{v}
	}
}

func selectAndCapture(t *testing.T, n *grammar.Node, ctx *fakeCtx) {
	t.Helper()
	m, ok := n.Match(ctx)
	if !ok {
		t.Fatalf("expected match against %q", ctx.remaining)
	}
	if err := n.Selected(ctx, m); err != nil {
		t.Fatalf("Selected: %v", err)
	}
}

func TestIntegerStopsAtDot(t *testing.T) {
	n := Integer("n")
	ctx := newFakeCtx("123.45")
	selectAndCapture(t, n, ctx)
	if got := ctx.vars["n"][0]; got != int64(123) {
		t.Errorf("n = %v, want 123", got)
	}
	if ctx.remaining != ".45" {
		t.Errorf("remaining = %q, want \".45\"", ctx.remaining)
	}
}

func TestFloatConsumesWholeLiteral(t *testing.T) {
	n := Float("f")
	ctx := newFakeCtx("123.45")
	selectAndCapture(t, n, ctx)
	if got := ctx.vars["f"][0]; got != 123.45 {
		t.Errorf("f = %v, want 123.45", got)
	}
	if ctx.remaining != "" {
		t.Errorf("remaining = %q, want empty", ctx.remaining)
	}
}

func TestBooleanAcceptsShortForms(t *testing.T) {
	n := Boolean("b")
	for _, tok := range []string{"yes", "no", "on", "off", "1", "0"} {
		ctx := newFakeCtx(tok)
		selectAndCapture(t, n, ctx)
	}
}

func TestChoiceMatchesAndCandidates(t *testing.T) {
	n := Choice("proto", []string{"tcp", "udp", "icmp"})
	ctx := newFakeCtx("udp")
	selectAndCapture(t, n, ctx)
	cands := n.Candidates(ctx, "t")
	if len(cands) != 1 || cands[0] != "tcp " {
		t.Fatalf("candidates = %v, want [tcp ]", cands)
	}
}

func TestIPRejectsMalformedAddress(t *testing.T) {
	n := IP("addr")
	ctx := newFakeCtx("999.999.999.999")
	m, ok := n.Match(ctx)
	if !ok {
		t.Fatalf("pattern should match the digit/dot run")
	}
	if err := n.Selected(ctx, m); err == nil {
		t.Fatalf("expected validation error for malformed IP")
	}
}

func TestIPAcceptsIPv4(t *testing.T) {
	n := IP("addr")
	ctx := newFakeCtx("10.0.0.1")
	selectAndCapture(t, n, ctx)
	if ctx.vars["addr"] == nil {
		t.Fatalf("expected addr to be captured")
	}
}

func TestWordCapturesBareToken(t *testing.T) {
	n := Word("tag")
	ctx := newFakeCtx("release-42")
	selectAndCapture(t, n, ctx)
	if got := ctx.vars["tag"][0]; got != "release-42" {
		t.Errorf("tag = %v, want release-42", got)
	}
}

func TestStringUnescapesQuotedBody(t *testing.T) {
	n := String("msg")
	ctx := newFakeCtx(`"hello \"world\"\n"`)
	selectAndCapture(t, n, ctx)
	want := "hello \"world\"\n"
	if got := ctx.vars["msg"][0]; got != want {
		t.Errorf("msg = %q, want %q", got, want)
	}
}

func TestEMailRejectsAddressWithoutDomain(t *testing.T) {
	n := EMail("to")
	ctx := newFakeCtx("not-an-address")
	if _, ok := n.Match(ctx); ok {
		t.Fatalf("expected no pattern match without '@'")
	}
}

func TestEMailAcceptsValidAddress(t *testing.T) {
	n := EMail("to")
	ctx := newFakeCtx("ops@example.com")
	selectAndCapture(t, n, ctx)
	if got := ctx.vars["to"][0]; got != "ops@example.com" {
		t.Errorf("to = %v, want ops@example.com", got)
	}
}
