package vybiumcircuitvm

import (
	"errors"
	"fmt"

	"github.com/vybium/vybium-circuit-vm/internal/vybium-circuit-vm/data"
	"github.com/vybium/vybium-circuit-vm/internal/vybium-circuit-vm/vm"
)

// ErrorCode represents a Vybium circuit VM error code
type ErrorCode int

const (
	// ErrUnknown represents an unknown error
	ErrUnknown ErrorCode = iota

	// ErrInvalidConfig represents an invalid configuration error
	ErrInvalidConfig

	// ErrParse represents malformed program or value text
	ErrParse

	// ErrDecode represents malformed binary input
	ErrDecode

	// ErrHalt represents a program that halted during evaluation
	ErrHalt

	// ErrInvalidInput represents inputs that do not match the program's declarations
	ErrInvalidInput

	// ErrStore represents a program store failure
	ErrStore
)

func (c ErrorCode) String() string {
	switch c {
	case ErrInvalidConfig:
		return "invalid config"
	case ErrParse:
		return "parse"
	case ErrDecode:
		return "decode"
	case ErrHalt:
		return "halt"
	case ErrInvalidInput:
		return "invalid input"
	case ErrStore:
		return "store"
	default:
		return "unknown"
	}
}

// VMError represents a Vybium circuit VM error
type VMError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error returns the error message
func (e *VMError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("vybium-circuit-vm error [%v]: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("vybium-circuit-vm error [%v]: %s", e.Code, e.Message)
}

// Unwrap returns the cause of the error
func (e *VMError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error
func (e *VMError) Is(target error) bool {
	t, ok := target.(*VMError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// newError classifies err by its internal type, falling back to code
func newError(code ErrorCode, message string, err error) error {
	if err == nil {
		return nil
	}
	var (
		perr *data.ParseError
		derr *data.DecodeError
		ierr *vm.InputError
	)
	switch {
	case vm.IsHalt(err):
		code = ErrHalt
	case errors.As(err, &perr):
		code = ErrParse
	case errors.As(err, &derr):
		code = ErrDecode
	case errors.As(err, &ierr):
		code = ErrInvalidInput
	}
	return &VMError{Code: code, Message: message, Cause: err}
}
