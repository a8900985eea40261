package builtin

import (
	"fmt"
	"net"
	"net/mail"
	"net/url"
	"strings"

	"github.com/npillmayer/cligram/grammar"
)

const hostnamePattern = `[A-Za-z0-9](?:[A-Za-z0-9\-]{0,62})?(?:\.[A-Za-z0-9](?:[A-Za-z0-9\-]{0,62})?)*`

// ipPattern is deliberately loose (dotted-quad or colon-hex
// character classes); the parseFn below does the real validation with
// net.ParseIP, rejecting anything the pattern over-admits.
const ipPattern = `[0-9A-Fa-f:.]+`

// IP matches an IPv4 or IPv6 address literal, validated with
// net.ParseIP.
func IP(name string, args ...any) *grammar.Node {
	parse := func(tok string) (any, error) {
		ip := net.ParseIP(tok)
		if ip == nil {
			return nil, fmt.Errorf("not an IP address: %q", tok)
		}
		return ip, nil
	}
	return grammar.MustVariable(name, ipPattern, parse, withArgs("ip", args)...)
}

// Hostname matches a DNS hostname: dot-separated labels of letters,
// digits and hyphens.
func Hostname(name string, args ...any) *grammar.Node {
	parse := func(tok string) (any, error) { return tok, nil }
	return grammar.MustVariable(name, hostnamePattern, parse, withArgs("hostname", args)...)
}

// Host matches either an IP address or a Hostname, preferring an IP
// parse when the token parses as one.
func Host(name string, args ...any) *grammar.Node {
	parse := func(tok string) (any, error) {
		if ip := net.ParseIP(tok); ip != nil {
			return ip, nil
		}
		if strings.Contains(tok, ":") {
			return nil, fmt.Errorf("not an IP address: %q", tok)
		}
		return tok, nil
	}
	// A token containing a colon is taken as an IPv6 literal; anything
	// else, dotted-quad IPv4 included, is matched by the hostname
	// alternative, so a hostname is not cut short at its first non-hex
	// character.
	pattern := `[0-9A-Fa-f.]*:[0-9A-Fa-f:.]*|` + hostnamePattern
	return grammar.MustVariable(name, pattern, parse, withArgs("host", args)...)
}

// EMail matches a "local@domain" address, validated with
// net/mail.ParseAddress.
func EMail(name string, args ...any) *grammar.Node {
	parse := func(tok string) (any, error) {
		addr, err := mail.ParseAddress(tok)
		if err != nil {
			return nil, fmt.Errorf("not an email address: %w", err)
		}
		return addr.Address, nil
	}
	pattern := `[^\s@]+@` + hostnamePattern
	return grammar.MustVariable(name, pattern, parse, withArgs("email", args)...)
}

// URI matches an absolute URI, validated with net/url.Parse.
func URI(name string, args ...any) *grammar.Node {
	parse := func(tok string) (any, error) {
		u, err := url.Parse(tok)
		if err != nil {
			return nil, fmt.Errorf("not a URI: %w", err)
		}
		if !u.IsAbs() {
			return nil, fmt.Errorf("not an absolute URI: %q", tok)
		}
		return u, nil
	}
	pattern := `[A-Za-z][A-Za-z0-9+.\-]*://\S+`
	return grammar.MustVariable(name, pattern, parse, withArgs("uri", args)...)
}

// LDAPDN matches an LDAP distinguished name: a comma-separated list of
// attribute=value relative distinguished names.
func LDAPDN(name string, args ...any) *grammar.Node {
	parse := func(tok string) (any, error) {
		parts := strings.Split(tok, ",")
		for _, p := range parts {
			if !strings.Contains(p, "=") {
				return nil, fmt.Errorf("not a distinguished name: %q", tok)
			}
		}
		return tok, nil
	}
	pattern := `[A-Za-z][A-Za-z0-9\-]*=[^,]+(?:,[A-Za-z][A-Za-z0-9\-]*=[^,]+)*`
	return grammar.MustVariable(name, pattern, parse, withArgs("ldapdn", args)...)
}
