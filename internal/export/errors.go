package export

import "fmt"

// TokenizeError reports malformed low-level framing: an invalid data
// length token, or the stream ending in the middle of a record.
type TokenizeError struct {
	Line string // offending line, empty on unexpected EOF
	Msg  string
	Err  error
}

func (e *TokenizeError) Error() string {
	if e.Line != "" {
		return fmt.Sprintf("tokenize: %s: %q", e.Msg, e.Line)
	}
	return "tokenize: " + e.Msg
}

func (e *TokenizeError) Unwrap() error { return e.Err }

// ParseError reports a raw record whose structure the builder cannot
// interpret. In the parallel driver it is released at the failing
// record's stream position, like any other result.
type ParseError struct {
	Index int // zero-based stream position, -1 outside the driver
	Msg   string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("parse record %d: %s", e.Index, e.Msg)
	}
	return "parse: " + e.Msg
}

func (e *ParseError) Unwrap() error { return e.Err }

func parseErrorf(format string, args ...interface{}) *ParseError {
	return &ParseError{Index: -1, Msg: fmt.Sprintf(format, args...)}
}
