/*
Package cligram is a grammar engine for interactive command-line shells.

A cligram grammar is a tree of nodes that simultaneously drives three
things: parsing a typed command line into captured variables and a
terminal action, producing completion candidates for a partially typed
token, and enumerating contextual help for whatever continuation is
legal at the cursor. Package structure is as follows:

■ grammar: the node model — Plain, Group, Alias, Action and Variable
nodes, composed into a tree rooted at a Grammar value.

■ grammar/builtin: ready-made Variable constructors for words, quoted
strings, numbers, booleans, IP addresses, hostnames, e-mail addresses,
URIs, LDAP distinguished names and filesystem paths.

■ grammar/help: collects and formats the (group, order, key, text) rows
a node's reachable children expose.

■ parse: the parser driver and per-invocation Context.

■ xmlgrammar: builds a grammar tree from a declarative XML document.

The base package (this one) contains the error values shared across all
of the above.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2020–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package cligram
