package vm

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"

	"github.com/vybium/vybium-circuit-vm/internal/vybium-circuit-vm/data"
)

// ProgramVersion is the only binary program version
const ProgramVersion = 0

// ValueType is the declared type of a program input or output:
// a literal kind with an optional mode, or a composite name.
type ValueType struct {
	Kind      data.Kind
	Mode      Mode
	Composite data.Identifier // set for composite types
}

// LiteralType returns the type of literals of kind k
func LiteralType(k data.Kind, mode Mode) ValueType {
	return ValueType{Kind: k, Mode: mode}
}

// CompositeType returns the type of composites named name
func CompositeType(name data.Identifier) ValueType {
	return ValueType{Composite: name}
}

// IsComposite reports whether t names a composite
func (t ValueType) IsComposite() bool { return !t.Composite.IsZero() }

func (t ValueType) String() string {
	if t.IsComposite() {
		return t.Composite.String()
	}
	if t.Mode == ModeNone {
		return t.Kind.String()
	}
	return t.Kind.String() + "." + t.Mode.String()
}

// Matches reports whether v has type t
func (t ValueType) Matches(v data.Value) bool {
	switch v := v.(type) {
	case data.Literal:
		return !t.IsComposite() && v.Kind() == t.Kind
	case *data.Composite:
		return t.IsComposite() && v.Name == t.Composite
	}
	return false
}

func parseValueType(s string) (ValueType, error) {
	base, suffix, _ := strings.Cut(s, ".")
	if kind, err := data.ParseKind(base); err == nil {
		if suffix == "" {
			return LiteralType(kind, ModeNone), nil
		}
		mode, rest := parseModeSuffix("." + suffix)
		if mode == ModeNone || rest != "" {
			return ValueType{}, parseErr(s, "unknown mode %q", suffix)
		}
		return LiteralType(kind, mode), nil
	}
	if suffix != "" {
		return ValueType{}, parseErr(s, "composite types take no mode")
	}
	name, err := data.NewIdentifier(base)
	if err != nil {
		return ValueType{}, &data.ParseError{Input: s, Reason: "invalid type", Cause: err}
	}
	return CompositeType(name), nil
}

// IO declares a program input or output register and its type
type IO struct {
	Register Register
	Type     ValueType
}

// Program is a flat instruction sequence with declared inputs and outputs
type Program struct {
	Inputs       []IO
	Instructions []Instruction
	Outputs      []IO
}

// String returns the canonical text of the program
func (p *Program) String() string {
	var sb strings.Builder
	for _, in := range p.Inputs {
		fmt.Fprintf(&sb, "input %s as %s;\n", in.Register, in.Type)
	}
	for _, instr := range p.Instructions {
		sb.WriteString(instr.String())
		sb.WriteByte('\n')
	}
	for _, out := range p.Outputs {
		fmt.Fprintf(&sb, "output %s as %s;\n", out.Register, out.Type)
	}
	return sb.String()
}

// ParseProgram parses program text: input declarations, instructions, then output
// declarations, each terminated by ';'. Text after // on a line is ignored.
func ParseProgram(text string) (*Program, error) {
	var src strings.Builder
	src.Grow(len(text) + 1)
	// lines are unbounded: a whole program may sit on one line
	for _, line := range strings.Split(text, "\n") {
		src.WriteString(stripComment(strings.TrimSuffix(line, "\r")))
		src.WriteByte('\n')
	}

	p := &Program{}
	s := skipSpace(src.String())
	for s != "" {
		switch {
		case hasKeyword(s, "input"):
			if len(p.Instructions) > 0 || len(p.Outputs) > 0 {
				return nil, parseErr(s, "inputs must precede instructions and outputs")
			}
			decl, rest, err := parseIO(s, "input")
			if err != nil {
				return nil, err
			}
			p.Inputs = append(p.Inputs, decl)
			s = rest
		case hasKeyword(s, "output"):
			decl, rest, err := parseIO(s, "output")
			if err != nil {
				return nil, err
			}
			p.Outputs = append(p.Outputs, decl)
			s = rest
		default:
			if len(p.Outputs) > 0 {
				return nil, parseErr(s, "instructions must precede outputs")
			}
			rest, instr, err := ParseInstruction(s)
			if err != nil {
				return nil, err
			}
			p.Instructions = append(p.Instructions, instr)
			s = rest
		}
		s = skipSpace(s)
	}
	return p, nil
}

// parseIO parses `<keyword> <register> as <type>;`
func parseIO(s, keyword string) (IO, string, error) {
	s = skipSpace(s[len(keyword):])
	reg, s, err := parseRegisterPrefix(s)
	if err != nil {
		return IO{}, s, err
	}
	if !reg.IsPlain() {
		return IO{}, s, parseErr(s, "%s register %s must be plain", keyword, reg)
	}
	s = skipSpace(s)
	rest, ok := cutKeyword(s, "as")
	if !ok {
		return IO{}, s, parseErr(s, "expected 'as'")
	}
	s = skipSpace(rest)
	end := strings.IndexByte(s, ';')
	if end < 0 {
		return IO{}, s, parseErr(s, "expected ';'")
	}
	typ, err := parseValueType(strings.TrimSpace(s[:end]))
	if err != nil {
		return IO{}, s, err
	}
	return IO{Register: reg, Type: typ}, s[end+1:], nil
}

func hasKeyword(s, kw string) bool {
	_, ok := cutKeyword(s, kw)
	return ok
}

// stripComment removes a trailing // comment that is not inside a string literal
func stripComment(line string) string {
	inString := false
	for i := 0; i < len(line); i++ {
		switch c := line[i]; {
		case inString && c == '\\':
			i++
		case c == '"':
			inString = !inString
		case !inString && c == '/' && i+1 < len(line) && line[i+1] == '/':
			return line[:i]
		}
	}
	return line
}

// ----------------------------------------------------------------------------
// Binary form
// ----------------------------------------------------------------------------

const (
	typeLiteral   byte = 0
	typeComposite byte = 1
)

// WriteTo writes the binary form: u16 version, then u32-counted inputs, instructions and outputs
func (p *Program) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	if err := binary.Write(cw, binary.LittleEndian, uint16(ProgramVersion)); err != nil {
		return cw.n, err
	}
	if err := writeIOs(cw, p.Inputs); err != nil {
		return cw.n, err
	}
	if err := binary.Write(cw, binary.LittleEndian, uint32(len(p.Instructions))); err != nil {
		return cw.n, err
	}
	for _, instr := range p.Instructions {
		if err := EncodeInstruction(cw, instr); err != nil {
			return cw.n, err
		}
	}
	err := writeIOs(cw, p.Outputs)
	return cw.n, err
}

// MarshalBinary returns the canonical binary form
func (p *Program) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := p.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadProgram decodes a program of at most maxInstructions instructions
func ReadProgram(r io.Reader, maxInstructions int) (*Program, error) {
	var version uint16
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, &data.DecodeError{What: "program version", Cause: err}
	}
	if version != ProgramVersion {
		return nil, &data.DecodeError{What: "program version", Cause: fmt.Errorf("unsupported version %d", version)}
	}

	p := &Program{}
	var err error
	if p.Inputs, err = readIOs(r, maxInstructions, "inputs"); err != nil {
		return nil, err
	}
	n, err := readCount(r, maxInstructions, "instructions")
	if err != nil {
		return nil, err
	}
	p.Instructions = make([]Instruction, n)
	for i := range p.Instructions {
		if p.Instructions[i], err = DecodeInstruction(r); err != nil {
			return nil, fmt.Errorf("instruction %d: %w", i, err)
		}
	}
	if p.Outputs, err = readIOs(r, maxInstructions, "outputs"); err != nil {
		return nil, err
	}
	return p, nil
}

// UnmarshalProgram decodes exactly one program from b
func UnmarshalProgram(b []byte, maxInstructions int) (*Program, error) {
	r := bytes.NewReader(b)
	p, err := ReadProgram(r, maxInstructions)
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, &data.DecodeError{What: "program", Cause: fmt.Errorf("%d trailing bytes", r.Len())}
	}
	return p, nil
}

func writeIOs(w io.Writer, ios []IO) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(ios))); err != nil {
		return err
	}
	for _, decl := range ios {
		if err := writeRegister(w, decl.Register); err != nil {
			return err
		}
		var buf []byte
		if decl.Type.IsComposite() {
			buf = data.AppendIdentifier(append(buf, typeComposite), decl.Type.Composite)
		} else {
			buf = append(buf, typeLiteral)
			buf = binary.LittleEndian.AppendUint16(buf, uint16(decl.Type.Kind))
			buf = append(buf, byte(decl.Type.Mode))
		}
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

func readIOs(r io.Reader, max int, what string) ([]IO, error) {
	n, err := readCount(r, max, what)
	if err != nil {
		return nil, err
	}
	ios := make([]IO, n)
	for i := range ios {
		reg, err := readRegister(r)
		if err != nil {
			return nil, err
		}
		if !reg.IsPlain() {
			return nil, &data.DecodeError{What: what, Cause: fmt.Errorf("register %s is not plain", reg)}
		}
		typ, err := readValueType(r)
		if err != nil {
			return nil, err
		}
		ios[i] = IO{Register: reg, Type: typ}
	}
	return ios, nil
}

func readValueType(r io.Reader) (ValueType, error) {
	var tag [1]byte
	if _, err := io.ReadFull(r, tag[:]); err != nil {
		return ValueType{}, &data.DecodeError{What: "type tag", Cause: err}
	}
	switch tag[0] {
	case typeLiteral:
		var buf [3]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return ValueType{}, &data.DecodeError{What: "literal type", Cause: err}
		}
		kind, mode := data.Kind(binary.LittleEndian.Uint16(buf[:2])), Mode(buf[2])
		if !kind.Valid() || !mode.Valid() {
			return ValueType{}, &data.DecodeError{What: "literal type", Cause: fmt.Errorf("invalid kind %d or mode %d", kind, mode)}
		}
		return LiteralType(kind, mode), nil
	case typeComposite:
		id, err := data.ReadIdentifier(r)
		if err != nil {
			return ValueType{}, &data.DecodeError{What: "composite type", Cause: err}
		}
		return CompositeType(id), nil
	}
	return ValueType{}, &data.DecodeError{What: "type tag", Cause: fmt.Errorf("unknown tag %d", tag[0])}
}

func readCount(r io.Reader, max int, what string) (int, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return 0, &data.DecodeError{What: what + " count", Cause: err}
	}
	if uint64(n) > uint64(max) {
		return 0, &data.DecodeError{What: what + " count", Cause: fmt.Errorf("%d exceeds limit %d", n, max)}
	}
	return int(n), nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

// ----------------------------------------------------------------------------
// Digest
// ----------------------------------------------------------------------------

// DigestSize is the byte length of a program digest: five 8-byte field elements
const DigestSize = 40

// Digest identifies a program by its canonical binary form
type Digest [DigestSize]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// ParseDigest parses the hex form of a digest
func ParseDigest(s string) (Digest, error) {
	var d Digest
	b, err := hex.DecodeString(s)
	if err != nil {
		return d, fmt.Errorf("invalid digest: %w", err)
	}
	if len(b) != DigestSize {
		return d, fmt.Errorf("digest is %d bytes, want %d", len(b), DigestSize)
	}
	copy(d[:], b)
	return d, nil
}

// Digest hashes the canonical binary form with the variable-length field hash.
// Bytes are packed 7 per element so every element stays below the field modulus.
func (p *Program) Digest() (Digest, error) {
	raw, err := p.MarshalBinary()
	if err != nil {
		return Digest{}, err
	}
	return digestBytes(raw), nil
}

func digestBytes(raw []byte) Digest {
	elements := make([]field.Element, 0, 1+(len(raw)+6)/7)
	elements = append(elements, field.New(uint64(len(raw))))
	for i := 0; i < len(raw); i += 7 {
		var chunk [8]byte
		copy(chunk[:], raw[i:min(i+7, len(raw))])
		elements = append(elements, field.New(binary.LittleEndian.Uint64(chunk[:])))
	}

	digest := hash.HashVarlen(elements)
	var out Digest
	for i, elem := range digest {
		if (i+1)*8 > DigestSize {
			break
		}
		binary.LittleEndian.PutUint64(out[i*8:], elem.Value())
	}
	return out
}
