package vm

import (
	"encoding/binary"
	"fmt"
	"io"
	"strconv"

	"github.com/vybium/vybium-circuit-vm/internal/vybium-circuit-vm/data"
)

// Register names a storage slot, optionally addressing one member of a composite held there
type Register struct {
	Locator uint64
	Member  data.Identifier // zero for a plain register
}

// R returns the plain register r<locator>
func R(locator uint64) Register {
	return Register{Locator: locator}
}

// IsPlain reports whether r addresses the whole slot
func (r Register) IsPlain() bool {
	return r.Member.IsZero()
}

// Slot returns the plain register holding r
func (r Register) Slot() Register {
	return Register{Locator: r.Locator}
}

func (r Register) String() string {
	if r.IsPlain() {
		return "r" + strconv.FormatUint(r.Locator, 10)
	}
	return fmt.Sprintf("r%d.%s", r.Locator, r.Member)
}

// parseRegisterPrefix parses r<n> or r<n>.<member> at the start of s
func parseRegisterPrefix(s string) (Register, string, error) {
	if len(s) < 2 || s[0] != 'r' || !isDigit(s[1]) {
		return Register{}, s, parseErr(s, "expected a register")
	}
	n := 1
	for n < len(s) && isDigit(s[n]) {
		n++
	}
	if s[1] == '0' && n > 2 {
		return Register{}, s, parseErr(s, "register locator has leading zeros")
	}
	locator, err := strconv.ParseUint(s[1:n], 10, 64)
	if err != nil {
		return Register{}, s, &data.ParseError{Input: s, Reason: "invalid register locator", Cause: err}
	}
	reg := Register{Locator: locator}
	rest := s[n:]

	if len(rest) > 1 && rest[0] == '.' {
		m := data.ParseIdentifierLength(rest[1:])
		if m > 0 {
			member, err := data.NewIdentifier(rest[1 : 1+m])
			if err != nil {
				return Register{}, s, &data.ParseError{Input: rest, Reason: "invalid register member", Cause: err}
			}
			reg.Member = member
			rest = rest[1+m:]
		}
	}
	return reg, rest, nil
}

// ParseRegister parses the text form of a register
func ParseRegister(s string) (Register, error) {
	reg, rest, err := parseRegisterPrefix(s)
	if err != nil {
		return Register{}, err
	}
	if rest != "" {
		return Register{}, parseErr(rest, "unexpected trailing input after register")
	}
	return reg, nil
}

const (
	registerPlain  byte = 0
	registerMember byte = 1
)

// writeRegister writes u8 variant, u64 locator and, for members, the identifier
func writeRegister(w io.Writer, r Register) error {
	buf := make([]byte, 0, 10+data.MaxIdentifierBytes)
	if r.IsPlain() {
		buf = append(buf, registerPlain)
	} else {
		buf = append(buf, registerMember)
	}
	buf = binary.LittleEndian.AppendUint64(buf, r.Locator)
	if !r.IsPlain() {
		buf = data.AppendIdentifier(buf, r.Member)
	}
	_, err := w.Write(buf)
	return err
}

func readRegister(r io.Reader) (Register, error) {
	var head [9]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return Register{}, &data.DecodeError{What: "register", Cause: err}
	}
	reg := Register{Locator: binary.LittleEndian.Uint64(head[1:])}
	switch head[0] {
	case registerPlain:
		return reg, nil
	case registerMember:
		member, err := data.ReadIdentifier(r)
		if err != nil {
			return Register{}, &data.DecodeError{What: "register member", Cause: err}
		}
		reg.Member = member
		return reg, nil
	}
	return Register{}, &data.DecodeError{What: "register", Cause: fmt.Errorf("unknown variant %d", head[0])}
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func parseErr(input, format string, args ...any) *data.ParseError {
	return &data.ParseError{Input: input, Reason: fmt.Sprintf(format, args...)}
}
