package builtin

import (
	"os"
	"os/user"
	"path"
	"path/filepath"
	"strings"

	"github.com/npillmayer/cligram/grammar"
)

// fileConfig collects the File variable's filesystem-candidate
// behavior (spec.md §4.4's File row): which entries to offer, which to
// hide, and how a chosen entry is terminated on the command line.
type fileConfig struct {
	include       []string
	exclude       []string
	allowDotfiles bool
	allowDirs     bool
	allowRegular  bool
}

// FileOption configures a File variable's candidate behavior. It is
// distinct from grammar.Option since it shapes the CandidatesFunc
// closure built at construction time rather than a single node
// attribute.
type FileOption func(*fileConfig)

// WithInclude restricts candidates to basenames matching at least one
// of the given path.Match-style glob patterns.
func WithInclude(globs ...string) FileOption {
	return func(c *fileConfig) { c.include = append(c.include, globs...) }
}

// WithExclude hides candidates whose basename matches any of the
// given path.Match-style glob patterns.
func WithExclude(globs ...string) FileOption {
	return func(c *fileConfig) { c.exclude = append(c.exclude, globs...) }
}

// WithDotfiles makes entries starting with "." eligible as candidates
// (they are hidden by default).
func WithDotfiles() FileOption { return func(c *fileConfig) { c.allowDotfiles = true } }

// WithDirsOnly restricts candidates to directories.
func WithDirsOnly() FileOption {
	return func(c *fileConfig) { c.allowDirs = true; c.allowRegular = false }
}

// File matches a filesystem path token and offers directory-aware
// completion candidates: a single matching directory is offered with a
// trailing "/" (so completion can continue into it); a single matching
// regular file is offered with a trailing " " (the token is complete);
// multiple matching entries are offered bare, with no terminator, so
// the caller can keep narrowing.
func File(name string, fopts []FileOption, args ...any) *grammar.Node {
	cfg := &fileConfig{allowDirs: true, allowRegular: true}
	for _, fo := range fopts {
		fo(cfg)
	}
	parse := func(tok string) (any, error) { return expandHome(tok), nil }
	candidatesFn := func(ctx grammar.Ctx, text string) []string {
		return fileCandidates(cfg, text)
	}
	withCandidates := append([]any{grammar.WithCandidatesFunc(candidatesFn)}, withArgs("file", args)...)
	return grammar.MustVariable(name, `[^\s]+`, parse, withCandidates...)
}

func expandHome(p string) string {
	if !strings.HasPrefix(p, "~") {
		return p
	}
	name, rest, _ := strings.Cut(strings.TrimPrefix(p, "~"), "/")
	var home string
	if name == "" {
		if u, err := user.Current(); err == nil {
			home = u.HomeDir
		}
	} else if u, err := user.Lookup(name); err == nil {
		home = u.HomeDir
	}
	if home == "" {
		return p
	}
	return filepath.Join(home, rest)
}

// fileCandidates lists dir's entries (dir, base derived from text)
// that satisfy cfg, each terminated per the File doc comment's rule.
func fileCandidates(cfg *fileConfig, text string) []string {
	dir, base := splitPathPrefix(expandHome(text))
	entries, err := os.ReadDir(dir)
	if err != nil {
		tracer().Debugf("file candidates: %v", err)
		return nil
	}
	var matches []os.DirEntry
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), base) {
			continue
		}
		if !cfg.allowDotfiles && strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if e.IsDir() && !cfg.allowDirs {
			continue
		}
		if !e.IsDir() && !cfg.allowRegular {
			continue
		}
		if len(cfg.include) > 0 && !matchesAny(cfg.include, e.Name()) {
			continue
		}
		if matchesAny(cfg.exclude, e.Name()) {
			continue
		}
		matches = append(matches, e)
	}
	prefix := text[:len(text)-len(base)]
	var out []string
	for _, e := range matches {
		full := prefix + e.Name()
		switch {
		case len(matches) > 1:
			out = append(out, full)
		case e.IsDir():
			out = append(out, full+"/")
		default:
			out = append(out, full+" ")
		}
	}
	return out
}

func matchesAny(globs []string, name string) bool {
	for _, g := range globs {
		if ok, _ := path.Match(g, name); ok {
			return true
		}
	}
	return false
}

// splitPathPrefix splits a (possibly empty) path-under-construction
// into the directory to list and the basename prefix still being
// typed, defaulting the directory to "." when text names no directory
// component yet.
func splitPathPrefix(text string) (dir, base string) {
	if text == "" {
		return ".", ""
	}
	dir = filepath.Dir(text)
	base = filepath.Base(text)
	if strings.HasSuffix(text, "/") {
		dir = strings.TrimSuffix(text, "/")
		if dir == "" {
			dir = "/"
		}
		base = ""
	}
	if dir == "" {
		dir = "."
	}
	return dir, base
}
