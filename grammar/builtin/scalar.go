package builtin

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/cligram/grammar"
)

// optionalSep is the default separator for built-in Variable kinds:
// zero or more spaces/tabs, never end-of-input-only. Unlike the
// generic node default (one-or-more whitespace, or EOL), this lets a
// self-delimiting pattern (a digit run, a word-char run) stop cold at
// a following non-whitespace, non-word character — the behavior
// spec.md §4.4's Integer/Float worked example depends on — while still
// consuming any whitespace actually present, so chained variables in
// an ordinary space-separated command don't leave a stray leading
// space for the next node to choke on.
var optionalSep = grammar.WithSeparator(`[ \t]*`)

// withArgs prepends the built-in's default separator and a diagnostic
// kind tag to args, which — exactly like any other grammar node
// constructor — may also contain positional/named child nodes and
// *grammar.Grammar merges, not just Options (spec.md §4.1's
// Variable(...)(Action(...)) composition).
func withArgs(kind string, args []any) []any {
	out := make([]any, 0, len(args)+2)
	out = append(out, optionalSep)
	out = append(out, args...)
	out = append(out, grammar.WithBuiltinKind(kind))
	return out
}

// Word matches a single run of non-space characters: letters, digits,
// underscore and hyphen.
func Word(name string, args ...any) *grammar.Node {
	parse := func(tok string) (any, error) { return tok, nil }
	return grammar.MustVariable(name, `[A-Za-z0-9_\-]+`, parse, withArgs("word", args)...)
}

// Integer matches an optionally-signed decimal integer and parses it
// as an int64.
func Integer(name string, args ...any) *grammar.Node {
	parse := func(tok string) (any, error) {
		v, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("not an integer: %w", err)
		}
		return v, nil
	}
	return grammar.MustVariable(name, `[+-]?[0-9]+`, parse, withArgs("integer", args)...)
}

// Float matches a decimal floating-point literal (with an optional
// fractional part and exponent) and parses it as a float64.
func Float(name string, args ...any) *grammar.Node {
	parse := func(tok string) (any, error) {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, fmt.Errorf("not a float: %w", err)
		}
		return v, nil
	}
	pattern := `[+-]?[0-9]+(?:\.[0-9]+)?(?:[eE][+-]?[0-9]+)?`
	return grammar.MustVariable(name, pattern, parse, withArgs("float", args)...)
}

var boolWords = map[string]bool{
	"true": true, "yes": true, "aye": true, "enable": true, "enabled": true, "on": true, "1": true,
	"false": false, "no": false, "disable": false, "disabled": false, "off": false, "0": false,
}

// Choice matches one of a fixed, closed set of words and captures the
// matched word verbatim. Its candidate list is the static set itself,
// culled by the typed prefix, rather than derived from child nodes —
// the same convenience cly/extra.py's static_candidates offers for a
// candidates= callback that has no grammar children to enumerate.
func Choice(name string, words []string, args ...any) *grammar.Node {
	parse := func(tok string) (any, error) { return tok, nil }
	alt := strings.Join(words, "|")
	withCandidates := append([]any{grammar.WithCandidatesFunc(grammar.StaticCandidates(words...))}, args...)
	return grammar.MustVariable(name, `(?:`+alt+`)`, parse, withArgs("choice", withCandidates)...)
}

// Boolean matches, case-insensitively, one of
// true/yes/aye/enable/enabled/on/1 or
// false/no/disable/disabled/off/0 and parses it as a bool.
func Boolean(name string, args ...any) *grammar.Node {
	parse := func(tok string) (any, error) {
		b, ok := boolWords[strings.ToLower(tok)]
		if !ok {
			return nil, fmt.Errorf("not a boolean: %q", tok)
		}
		return b, nil
	}
	pattern := `(?i:true|false|yes|no|aye|enabled?|disabled?|on|off|[01])`
	return grammar.MustVariable(name, pattern, parse, withArgs("boolean", args)...)
}
