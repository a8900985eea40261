/*
Command clish is a small interactive shell demonstrating package
cligram end to end: a grammar of "set host <host>", "set port
<integer>", "set proto <tcp|udp|icmp>", "show" and "quit" drives
readline completion, contextual help on a rejected line, and the
actions that actually change state.

It plays the role spec.md §1 assigns to "the interactive shell" — an
external consumer of the core's public surface, not part of it — built
the way the teacher's terex/terexlang/trepl does: an Intp struct, a
REPL loop, a loadInitFile, pterm for colored prefixes.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2020–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"bufio"
	"errors"
	"flag"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/npillmayer/cligram"
	"github.com/npillmayer/cligram/grammar"
	"github.com/npillmayer/cligram/grammar/builtin"
	"github.com/npillmayer/cligram/grammar/help"
	"github.com/npillmayer/cligram/parse"
)

// tracer traces with key 'cligram.clish'.
func tracer() tracing.Trace {
	return tracing.Select("cligram.clish")
}

// Intp is the demo shell's interpreter object: the parser it drives,
// the readline instance it reads from, and the settings its actions
// mutate.
type Intp struct {
	parser *parse.Parser
	repl   *readline.Instance
	host   string
	port   int64
	proto  string
	quit   bool
}

func main() {
	gtrace.SyntaxTracer = gologadapter.New()
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	initf := flag.String("init", "", "Initial command file")
	histf := flag.String("history", "", "History file")
	flag.Parse()
	tracer().SetTraceLevel(tracing.TraceLevelFromString(*tlevel))

	initDisplay()
	pterm.Info.Println("Welcome to clish")

	intp := newIntp()
	cfg := &readline.Config{
		Prompt:          "clish> ",
		HistoryFile:     *histf,
		AutoComplete:    &completer{intp: intp},
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	}
	repl, err := readline.NewEx(cfg)
	if err != nil {
		tracer().Errorf("%v", err)
		os.Exit(3)
	}
	defer repl.Close()
	intp.repl = repl

	intp.loadInitFile(*initf)
	tracer().Infof("Quit with \"quit\" or <ctrl>D")
	intp.REPL()
}

// initDisplay styles pterm's Info/Error printers, matching the
// teacher's trepl.initDisplay.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{Text: "  >>", Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack)}
	pterm.Error.Prefix = pterm.Prefix{Text: "  Error", Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack)}
}

func newIntp() *Intp {
	intp := &Intp{}
	intp.parser = parse.NewParser(buildGrammar(intp))
	return intp
}

// buildGrammar wires the demo tree spec.md §6/SPEC_FULL.md §7
// describes. Each Action is nested as a child of the node it
// terminates, not a sibling of it — the driver only ever recurses into
// the node it just matched.
func buildGrammar(intp *Intp) *grammar.Grammar {
	return grammar.MustNewGrammar(
		grammar.MustPlain("set", grammar.WithGroup(0),
			grammar.MustPlain("host", grammar.WithHelp("set the target host"),
				builtin.Hostname("value",
					grammar.MustAction("do-set-host", func(ctx grammar.Ctx) error {
						intp.host = ctx.(*parse.Context).Var("value").(string)
						return nil
					}),
				),
			),
			grammar.MustPlain("port", grammar.WithHelp("set the target port"),
				builtin.Integer("value",
					grammar.MustAction("do-set-port", func(ctx grammar.Ctx) error {
						intp.port = ctx.(*parse.Context).Var("value").(int64)
						return nil
					}),
				),
			),
			grammar.MustPlain("proto", grammar.WithHelp("set the transport protocol"),
				builtin.Choice("value", []string{"tcp", "udp", "icmp"},
					grammar.MustAction("do-set-proto", func(ctx grammar.Ctx) error {
						intp.proto = ctx.(*parse.Context).Var("value").(string)
						return nil
					}),
				),
			),
		),
		grammar.MustPlain("show", grammar.WithGroup(1), grammar.WithHelp("print the current settings"),
			grammar.MustAction("do-show", func(grammar.Ctx) error {
				pterm.Info.Printfln("host=%s port=%d proto=%s", intp.host, intp.port, intp.proto)
				return nil
			}),
		),
		grammar.MustPlain("quit", grammar.WithGroup(2), grammar.WithHelp("leave the shell"),
			grammar.MustAction("do-quit", func(grammar.Ctx) error {
				intp.quit = true
				return nil
			}),
		),
	)
}

// loadInitFile evaluates one command per line from filename before the
// interactive loop starts, mirroring trepl.loadInitFile's tolerant,
// log-and-continue error handling.
func (intp *Intp) loadInitFile(filename string) {
	if filename == "" {
		return
	}
	f, err := os.Open(filename)
	if err != nil {
		tracer().Errorf("unable to open init file: %s", filename)
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineno := 1
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			lineno++
			continue
		}
		if intp.eval(line) {
			break
		}
		lineno++
	}
	if err := scanner.Err(); err != nil {
		tracer().Errorf("reading init file: %v", err)
	}
}

// REPL reads and evaluates lines until readline reports EOF/interrupt
// or a command sets intp.quit.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF or readline.ErrInterrupt
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if intp.eval(line) {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

// eval drives one command line through the grammar. A rejected line
// (unconsumed input, a failed variable parse, or an incomplete
// command) is reported with the contextual help for wherever parsing
// stopped, instead of a bare Go error — the "help on a dead end"
// consumer pattern spec.md §6 names.
func (intp *Intp) eval(line string) bool {
	ctx, err := intp.parser.Execute(line, nil)
	if err != nil {
		pterm.Error.Println(err.Error())
		if errors.Is(err, cligram.ErrInvalidToken) ||
			errors.Is(err, cligram.ErrValidation) ||
			errors.Is(err, cligram.ErrUnexpectedEOL) {
			if rows := ctx.Help(); len(rows) > 0 {
				pterm.Println(help.FormatColor(rows))
			}
		}
		return false
	}
	return intp.quit
}

// completer implements readline.AutoCompleter by re-parsing the text
// before the cursor and offering whatever the resulting Context thinks
// can legally continue it.
type completer struct {
	intp *Intp
}

func (c *completer) Do(line []rune, pos int) (newLine [][]rune, length int) {
	text := string(line[:pos])
	ctx, err := c.intp.parser.Parse(text, nil)
	if err != nil {
		return nil, 0
	}
	remaining := ctx.Remaining()
	for _, cand := range ctx.Candidates("") {
		if strings.HasPrefix(cand, remaining) {
			newLine = append(newLine, []rune(cand[len(remaining):]))
		}
	}
	return newLine, len([]rune(remaining))
}
