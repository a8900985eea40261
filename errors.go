package cligram

import "errors"

// Sentinel errors for the error kinds named in the cligram grammar
// engine. Call sites wrap these with fmt.Errorf("%w: ...", ErrX, ...)
// so that callers can still errors.Is against the kind while getting a
// position- or node-specific message.
var (
	// ErrInvalidHelp is returned when a help argument is neither a
	// string nor a callable.
	ErrInvalidHelp = errors.New("invalid help provider")

	// ErrInvalidAnonymousNode is returned when a positional argument in
	// node construction is not a Node and not a *Grammar.
	ErrInvalidAnonymousNode = errors.New("invalid anonymous child argument")

	// ErrInvalidNodePath is returned when a path lookup or alias
	// resolution names a node that does not exist in the grammar.
	ErrInvalidNodePath = errors.New("invalid node path")

	// ErrXMLParse is returned when a declarative grammar document is
	// malformed or references an unknown node kind.
	ErrXMLParse = errors.New("grammar document parse error")

	// ErrUnexpectedEOL is returned when parsing reaches end of input on
	// a node whose terminal policy refuses to stop there.
	ErrUnexpectedEOL = errors.New("unexpected end of input")

	// ErrInvalidToken is returned when input remains that no legal
	// continuation can consume.
	ErrInvalidToken = errors.New("invalid token")

	// ErrValidation is returned when a Variable's parse function
	// rejects the text it matched.
	ErrValidation = errors.New("validation error")
)
