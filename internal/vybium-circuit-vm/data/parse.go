package data

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/vybium/vybium-circuit-vm/internal/vybium-circuit-vm/core"
)

// ParseLiteral parses the canonical text of a single literal, surrounded by optional whitespace
func ParseLiteral(s string) (Literal, error) {
	lit, rest, err := ParseLiteralPrefix(strings.TrimSpace(s))
	if err != nil {
		return nil, err
	}
	if rest != "" {
		return nil, parseErr(rest, "unexpected trailing input after literal")
	}
	return lit, nil
}

// ParseLiteralPrefix parses the literal at the start of s and returns the remaining input
func ParseLiteralPrefix(s string) (Literal, string, error) {
	if strings.HasPrefix(s, `"`) {
		return parseString(s)
	}
	n := 0
	for n < len(s) && isTokenChar(s[n]) {
		n++
	}
	if n == 0 {
		return nil, s, parseErr(s, "expected a literal")
	}
	lit, err := parseToken(s[:n])
	if err != nil {
		return nil, s, err
	}
	return lit, s[n:], nil
}

func parseToken(tok string) (Literal, error) {
	switch {
	case tok == "true":
		return Boolean(true), nil
	case tok == "false":
		return Boolean(false), nil
	case strings.HasPrefix(tok, AddressPrefix+"1"):
		a, err := ParseAddress(tok)
		if err != nil {
			return nil, &ParseError{Input: tok, Reason: "invalid address", Cause: err}
		}
		return a, nil
	}

	// <number><type>
	i := 0
	if i < len(tok) && tok[i] == '-' {
		i++
	}
	start := i
	for i < len(tok) && isDigit(tok[i]) {
		i++
	}
	if i == start {
		return nil, parseErr(tok, "expected a number")
	}
	digits, suffix := tok[:i], tok[i:]
	kind, err := ParseKind(suffix)
	if err != nil {
		return nil, &ParseError{Input: tok, Reason: "invalid literal type", Cause: err}
	}
	v, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, parseErr(tok, "invalid number")
	}

	if kind.IsInteger() {
		lit, err := NewInteger(kind, v)
		if err != nil {
			return nil, &ParseError{Input: tok, Reason: "integer out of range", Cause: err}
		}
		return lit, nil
	}
	switch kind {
	case KindField:
		fe, err := core.BaseField.NewCanonicalElement(v)
		if err != nil {
			return nil, &ParseError{Input: tok, Reason: "invalid field literal", Cause: err}
		}
		return Field{v: fe}, nil
	case KindScalar:
		fe, err := core.ScalarField.NewCanonicalElement(v)
		if err != nil {
			return nil, &ParseError{Input: tok, Reason: "invalid scalar literal", Cause: err}
		}
		return Scalar{v: fe}, nil
	case KindGroup:
		x, err := core.BaseField.NewCanonicalElement(v)
		if err != nil {
			return nil, &ParseError{Input: tok, Reason: "invalid group literal", Cause: err}
		}
		g, err := NewGroup(x)
		if err != nil {
			return nil, &ParseError{Input: tok, Reason: "invalid group literal", Cause: err}
		}
		return g, nil
	}
	return nil, parseErr(tok, "%s literals cannot be written as numbers", kind)
}

func parseString(s string) (Literal, string, error) {
	quoted, err := strconv.QuotedPrefix(s)
	if err != nil {
		return nil, s, &ParseError{Input: s, Reason: "invalid string literal", Cause: err}
	}
	raw, err := strconv.Unquote(quoted)
	if err != nil {
		return nil, s, &ParseError{Input: s, Reason: "invalid string literal", Cause: err}
	}
	lit, err := NewString(raw)
	if err != nil {
		return nil, s, &ParseError{Input: s, Reason: "invalid string literal", Cause: err}
	}
	return lit, s[len(quoted):], nil
}

// ParseValue parses a literal or a composite written as name { a: 1field, b: true }
func ParseValue(s string) (Value, error) {
	s = strings.TrimSpace(s)
	if s == "" || !isLetter(s[0]) || s == "true" || s == "false" || strings.HasPrefix(s, AddressPrefix+"1") {
		return ParseLiteral(s)
	}

	n := ParseIdentifierLength(s)
	name, err := NewIdentifier(s[:n])
	if err != nil {
		return nil, &ParseError{Input: s, Reason: "invalid composite name", Cause: err}
	}
	rest := strings.TrimSpace(s[n:])
	if !strings.HasPrefix(rest, "{") || !strings.HasSuffix(rest, "}") {
		return nil, parseErr(rest, "expected { ... } after composite name")
	}
	body := strings.TrimSpace(rest[1 : len(rest)-1])

	var members []Member
	for body != "" {
		n := ParseIdentifierLength(body)
		memberName, err := NewIdentifier(body[:n])
		if err != nil {
			return nil, &ParseError{Input: body, Reason: "invalid member name", Cause: err}
		}
		body = strings.TrimSpace(body[n:])
		if !strings.HasPrefix(body, ":") {
			return nil, parseErr(body, "expected ':' after member name")
		}
		lit, after, err := ParseLiteralPrefix(strings.TrimSpace(body[1:]))
		if err != nil {
			return nil, err
		}
		members = append(members, Member{Name: memberName, Literal: lit})
		body = strings.TrimSpace(after)
		if body == "" {
			break
		}
		if !strings.HasPrefix(body, ",") {
			return nil, parseErr(body, "expected ',' between members")
		}
		body = strings.TrimSpace(body[1:])
	}

	c, err := NewComposite(name, members...)
	if err != nil {
		return nil, &ParseError{Input: s, Reason: "invalid composite", Cause: err}
	}
	return c, nil
}

// ParseIdentifierLength returns the length of the identifier-shaped prefix of s
func ParseIdentifierLength(s string) int {
	n := 0
	for n < len(s) && (isLetter(s[n]) || isDigit(s[n]) || s[n] == '_') {
		n++
	}
	return n
}

func isTokenChar(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '-' || c == '_'
}
