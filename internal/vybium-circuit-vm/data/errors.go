package data

import "fmt"

// ParseError reports text that does not match the expected grammar
type ParseError struct {
	Input  string
	Reason string
	Cause  error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("parse error at %q: %s", truncate(e.Input, 40), e.Reason)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Cause }

// DecodeError reports a malformed or non-canonical byte stream
type DecodeError struct {
	What  string
	Cause error
}

func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("decode %s: %v", e.What, e.Cause)
	}
	return "decode " + e.What
}

func (e *DecodeError) Unwrap() error { return e.Cause }

func parseErr(input, format string, args ...any) *ParseError {
	return &ParseError{Input: input, Reason: fmt.Sprintf(format, args...)}
}

func decodeErr(what string, cause error) *DecodeError {
	return &DecodeError{What: what, Cause: cause}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
