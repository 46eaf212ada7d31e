// Package vybiumcircuitvm executes register-based circuit programs.
//
// A program is a flat sequence of instructions over typed registers. Each instruction
// reads literal or register operands, computes one result and assigns it to a fresh
// destination register. Literals are addresses, booleans, field and scalar elements,
// group points, signed and unsigned integers of 8 to 128 bits, and strings.
//
// # Instruction set
//
//   - add, add.w, sub.w, mul.w: checked and wrapping integer arithmetic
//   - eq, neq: equality of two literals of the same kind
//   - hash.ped64 ... hash.ped1024: hash-to-field, domain separated by opcode
//   - hash.psd2, hash.psd4, hash.psd8: Poseidon hash-to-scalar with the given rate
//
// Any evaluation failure halts the program with a *VMError of code ErrHalt.
//
// # Quick Start
//
//	v, err := vybiumcircuitvm.NewVM(ctx, vybiumcircuitvm.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer v.Close()
//
//	program, err := v.Parse(`
//		input r0 as i8;
//		input r1 as i8;
//		add.w r0 r1 into r2;
//		output r2 as i8;
//	`)
//	if err != nil {
//		log.Fatal(err)
//	}
//	outputs, err := v.Run(ctx, program, vybiumcircuitvm.MustParseValues("127i8", "1i8"))
//	// outputs[0] is -128i8
//
// # Architecture
//
// - pkg/vybium-circuit-vm/: Public API (this package)
// - internal/vybium-circuit-vm/: Private implementation (not importable)
//
// Implementation details in internal/ can be refactored without breaking the public API.
package vybiumcircuitvm
