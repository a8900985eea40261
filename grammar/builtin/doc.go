/*
Package builtin supplies ready-made grammar.Node constructors for the
built-in variable kinds of spec.md §4.4:

  ■ Word      a single unquoted token
  ■ String    a quoted, backslash-escaped token
  ■ Integer   a (possibly signed) decimal integer
  ■ Float     a decimal floating-point number
  ■ Boolean   "true"/"false" (and common short forms)
  ■ IP        a dotted-quad IPv4 or colon-form IPv6 address
  ■ Hostname  a DNS hostname label sequence
  ■ Host      an IP or a Hostname
  ■ EMail     a loosely-validated "local@domain" address
  ■ URI       a loosely-validated absolute URI
  ■ LDAPDN    an LDAP distinguished name
  ■ File      a filesystem path, with directory-aware candidates

Every constructor here returns a *grammar.Node built with
grammar.NewVariable/grammar.MustVariable and a built-in-specific
default separator, "[ \t]*" (zero or more spaces/tabs), rather than the
generic node default of one-or-more-whitespace-or-EOL. Each kind's
match pattern is already self-delimiting by character class, so the
separator's job is only to mop up whitespace that happens to be there:
"123.45" against Integer's digit-run pattern consumes exactly "123",
finds no whitespace to absorb, and leaves ".45" for a following node to
claim, per the worked example in spec.md §4.4 — while "8080 next"
still consumes the space and leaves "next" cleanly at the cursor for
whatever comes after. Callers that want the stricter
whitespace-or-EOL boundary for a particular variable can still pass
their own WithSeparator override after the kind constructor's other
options.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2020–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package builtin

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'cligram.builtin'.
func tracer() tracing.Trace {
	return tracing.Select("cligram.builtin")
}
