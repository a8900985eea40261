/*
Package stringlex unescapes the body of a quoted string captured by
the builtin String variable. It tokenizes the body into literal runs
and backslash-escape pairs with a tiny lexmachine-compiled DFA lexer,
grounded on the adapter pattern in
lr/scanner/lexmach/lexmachine.go of the teacher module: build the
lexer once at package init, add patterns with an action, Compile, then
Scan.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2020–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package stringlex

import (
	"strings"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

const (
	tokLiteral = iota
	tokEscape
)

var lexer *lexmachine.Lexer

func init() {
	lexer = lexmachine.NewLexer()
	lexer.Add([]byte(`\\.`), makeToken(tokEscape))
	lexer.Add([]byte(`[^\\]+`), makeToken(tokLiteral))
	if err := lexer.Compile(); err != nil {
		panic("stringlex: failed to compile escape lexer: " + err.Error())
	}
}

func makeToken(id int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, string(m.Bytes), m), nil
	}
}

var escapeMap = map[rune]rune{
	'n':  '\n',
	't':  '\t',
	'r':  '\r',
	'\\': '\\',
	'"':  '"',
	'\'': '\'',
}

// Unescape processes backslash escapes in body (the text between a
// pair of quotes, quotes already stripped) and returns the literal
// string a user typing that quoted token meant.
func Unescape(body string) (string, error) {
	scan, err := lexer.Scanner([]byte(body))
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for {
		tok, err, eof := scan.Next()
		if eof {
			break
		}
		if err != nil {
			if ui, ok := err.(*machines.UnconsumedInput); ok {
				scan.TC = ui.FailTC
				continue
			}
			return "", err
		}
		t := tok.(*lexmachine.Token)
		lexeme := string(t.Lexeme)
		switch t.Type {
		case tokLiteral:
			sb.WriteString(lexeme)
		case tokEscape:
			r := rune(lexeme[1])
			if mapped, ok := escapeMap[r]; ok {
				sb.WriteRune(mapped)
			} else {
				sb.WriteRune(r)
			}
		}
	}
	return sb.String(), nil
}
