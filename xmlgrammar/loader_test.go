package xmlgrammar

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/cligram"
	"github.com/npillmayer/cligram/grammar"
	"github.com/npillmayer/cligram/grammar/help"
)

type fakeCtx struct {
	remaining string
	traversed map[grammar.NodeID]int
}

func newFakeCtx(cmd string) *fakeCtx {
	return &fakeCtx{remaining: cmd, traversed: map[grammar.NodeID]int{}}
}

func (c *fakeCtx) Remaining() string               { return c.remaining }
func (c *fakeCtx) Advance(n int)                    { c.remaining = c.remaining[n:] }
func (c *fakeCtx) Traversed(id grammar.NodeID) int  { return c.traversed[id] }
func (c *fakeCtx) MarkTraversed(id grammar.NodeID)  { c.traversed[id]++ }
func (c *fakeCtx) SetVar(string, any, bool)         {}
func (c *fakeCtx) UserContext() any                 { return nil }

const demoDoc = `<grammar>
  <plain name="set" group="0">
    <variable name="host" kind="hostname" help="the host to connect to">
      <action name="do-set-host" callback="setHost"/>
    </variable>
  </plain>
  <plain name="show" group="1" help="print current settings">
    <action name="do-show" callback="showAll"/>
  </plain>
  <action name="do-quit" callback="quit" group="2" help="leave the shell"/>
</grammar>`

func demoRegistry() *Registry {
	reg := NewRegistry()
	reg.Callbacks["setHost"] = func(grammar.Ctx) error { return nil }
	reg.Callbacks["showAll"] = func(grammar.Ctx) error { return nil }
	reg.Callbacks["quit"] = func(grammar.Ctx) error { return nil }
	return reg
}

// equivalentProgrammatic builds the same tree demoDoc describes,
// directly through the grammar package constructors.
func equivalentProgrammatic() *grammar.Grammar {
	noop := func(grammar.Ctx) error { return nil }
	return grammar.MustNewGrammar(
		grammar.MustPlain("set", grammar.WithGroup(0),
			grammar.MustVariable("host", `[A-Za-z0-9](?:[A-Za-z0-9\-]{0,62})?(?:\.[A-Za-z0-9](?:[A-Za-z0-9\-]{0,62})?)*`,
				func(tok string) (any, error) { return tok, nil },
				grammar.WithHelp("the host to connect to"),
				grammar.MustAction("do-set-host", noop),
			),
		),
		grammar.MustPlain("show", grammar.WithGroup(1), grammar.WithHelp("print current settings"),
			grammar.MustAction("do-show", noop),
		),
		grammar.MustAction("do-quit", noop, grammar.WithGroup(2), grammar.WithHelp("leave the shell")),
	)
}

func TestLoadRoundTripsToIdenticalHelpRows(t *testing.T) {
	loaded, err := Load(strings.NewReader(demoDoc), demoRegistry())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	hand := equivalentProgrammatic()

	ctx := newFakeCtx("")
	gotRows := help.Rows(ctx, loaded.Node)
	wantRows := help.Rows(ctx, hand.Node)

	if len(gotRows) != len(wantRows) {
		t.Fatalf("row count = %d, want %d (%+v vs %+v)", len(gotRows), len(wantRows), gotRows, wantRows)
	}
	for i := range gotRows {
		g, w := gotRows[i], wantRows[i]
		if g.Group != w.Group || g.Key != w.Key || g.Text != w.Text {
			t.Errorf("row %d = %+v, want %+v", i, g, w)
		}
	}
}

func TestLoadRejectsUnknownElement(t *testing.T) {
	doc := `<grammar><bogus name="x"/></grammar>`
	_, err := Load(strings.NewReader(doc), NewRegistry())
	if !errors.Is(err, cligram.ErrXMLParse) {
		t.Fatalf("expected ErrXMLParse, got %v", err)
	}
}

func TestLoadRejectsNonGrammarRoot(t *testing.T) {
	doc := `<plain name="x"/>`
	_, err := Load(strings.NewReader(doc), NewRegistry())
	if !errors.Is(err, cligram.ErrXMLParse) {
		t.Fatalf("expected ErrXMLParse, got %v", err)
	}
}

func TestLoadRejectsUnknownCallback(t *testing.T) {
	doc := `<grammar><action name="q" callback="nope"/></grammar>`
	_, err := Load(strings.NewReader(doc), NewRegistry())
	if !errors.Is(err, cligram.ErrXMLParse) {
		t.Fatalf("expected ErrXMLParse, got %v", err)
	}
}

func TestLoadFileVariableHonorsDirsOnlyAttribute(t *testing.T) {
	doc := `<grammar><variable name="dir" kind="file" dirs_only="true"/></grammar>`
	g, err := Load(strings.NewReader(doc), NewRegistry())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	n, err := g.Find("/dir")
	if err != nil {
		t.Fatal(err)
	}
	if n.Name() != "dir" {
		t.Fatalf("unexpected node: %+v", n)
	}
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "plain.txt"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	want := dir + "/sub/"
	if cands := n.Candidates(newFakeCtx(""), dir+"/"); len(cands) != 1 || cands[0] != want {
		t.Fatalf("candidates = %v, want only the directory [%s]", cands, want)
	}
}

func TestRegisterNodeKindAddsCustomTag(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterNodeKind("comment", func(attrs map[string]string, _ []*grammar.Node, _ *Registry) (*grammar.Node, error) {
		return grammar.MustAction("__comment_"+attrs["name"], func(grammar.Ctx) error { return nil }), nil
	})
	doc := `<grammar><comment name="ignored"/></grammar>`
	g, err := Load(strings.NewReader(doc), reg)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := g.Find("/__comment_ignored"); err != nil {
		t.Fatalf("custom node kind not attached: %v", err)
	}
}
