package vm

import (
	"strings"
	"unicode"

	"github.com/vybium/vybium-circuit-vm/internal/vybium-circuit-vm/data"
)

// ParseInstruction parses `<opcode> <operand>... into <register>;` at the start of s
// and returns the input that follows the semicolon.
func ParseInstruction(s string) (string, Instruction, error) {
	input := s
	s = skipSpace(s)

	n := strings.IndexFunc(s, unicode.IsSpace)
	if n <= 0 {
		return input, nil, parseErr(s, "expected an opcode followed by operands")
	}
	op, err := ParseOpcode(s[:n])
	if err != nil {
		return input, nil, &data.ParseError{Input: s, Reason: "invalid opcode", Cause: err}
	}
	s = s[n:]

	var operands []Operand
	for {
		// every token is separated by whitespace
		if s == "" || !unicode.IsSpace(rune(s[0])) {
			return input, nil, parseErr(s, "expected whitespace")
		}
		s = skipSpace(s)
		if rest, ok := cutKeyword(s, "into"); ok {
			s = rest
			break
		}
		var operand Operand
		operand, s, err = parseOperandPrefix(s)
		if err != nil {
			return input, nil, err
		}
		operands = append(operands, operand)
	}

	s = skipSpace(s)
	dest, s, err := parseRegisterPrefix(s)
	if err != nil {
		return input, nil, err
	}
	s = skipSpace(s)
	if !strings.HasPrefix(s, ";") {
		return input, nil, parseErr(s, "expected ';'")
	}
	s = s[1:]

	instr, err := New(op, operands, dest)
	if err != nil {
		return input, nil, &data.ParseError{Input: input, Reason: "invalid instruction", Cause: err}
	}
	return s, instr, nil
}

// ParseInstructions parses a whitespace-separated sequence of instructions
func ParseInstructions(s string) ([]Instruction, error) {
	var out []Instruction
	for s = skipSpace(s); s != ""; s = skipSpace(s) {
		rest, instr, err := ParseInstruction(s)
		if err != nil {
			return nil, err
		}
		out = append(out, instr)
		s = rest
	}
	return out, nil
}

// cutKeyword consumes kw when it is followed by whitespace
func cutKeyword(s, kw string) (string, bool) {
	if !strings.HasPrefix(s, kw) {
		return s, false
	}
	rest := s[len(kw):]
	if rest == "" || !unicode.IsSpace(rune(rest[0])) {
		return s, false
	}
	return rest, true
}

func skipSpace(s string) string {
	return strings.TrimLeftFunc(s, unicode.IsSpace)
}
