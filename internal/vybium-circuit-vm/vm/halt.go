// Package vm provides the register machine of the circuit VM: registers, operands,
// the instruction set, its text and binary forms, programs and the executor.
package vm

import (
	"errors"
	"fmt"
)

// HaltError is the fatal failure raised while evaluating an instruction.
// A halt means the program itself is malformed; execution must not continue past it.
type HaltError struct {
	Opcode string
	Reason string
}

func (e *HaltError) Error() string {
	if e.Opcode == "" {
		return "halt: " + e.Reason
	}
	return fmt.Sprintf("halt in '%s': %s", e.Opcode, e.Reason)
}

// Halt builds a HaltError for the named opcode
func Halt(opcode string, format string, args ...any) *HaltError {
	return &HaltError{Opcode: opcode, Reason: fmt.Sprintf(format, args...)}
}

// IsHalt reports whether err carries a halt anywhere in its chain
func IsHalt(err error) bool {
	var h *HaltError
	return errors.As(err, &h)
}

// AsHalt extracts the halt from err's chain
func AsHalt(err error) (*HaltError, bool) {
	var h *HaltError
	ok := errors.As(err, &h)
	return h, ok
}
