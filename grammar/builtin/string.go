package builtin

import (
	"fmt"

	"github.com/npillmayer/cligram/grammar"
	"github.com/npillmayer/cligram/grammar/builtin/internal/stringlex"
)

// stringPattern matches a double-quoted token whose body may contain
// any backslash-escaped character, including an escaped quote.
const stringPattern = `"(?:[^"\\]|\\.)*"`

// String matches a double-quoted, backslash-escaped token and parses
// it into the literal string the quotes and escapes denote, using a
// small lexmachine-compiled escape tokenizer (package stringlex).
func String(name string, args ...any) *grammar.Node {
	parse := func(tok string) (any, error) {
		if len(tok) < 2 || tok[0] != '"' || tok[len(tok)-1] != '"' {
			return nil, fmt.Errorf("not a quoted string: %q", tok)
		}
		body := tok[1 : len(tok)-1]
		out, err := stringlex.Unescape(body)
		if err != nil {
			return nil, fmt.Errorf("invalid escape sequence in %q: %w", tok, err)
		}
		return out, nil
	}
	return grammar.MustVariable(name, stringPattern, parse, withArgs("string", args)...)
}
