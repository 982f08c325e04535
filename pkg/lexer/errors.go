package lexer

import (
	"fmt"
	"strings"
)

// ErrorKind classifies the ways a lexing pass can fail.
type ErrorKind string

const (
	// MismatchedDelimiter is raised by a close marker with no open region.
	MismatchedDelimiter ErrorKind = "mismatched delimiter"
	// InvalidEscape is raised by an unsupported backslash sequence.
	InvalidEscape ErrorKind = "invalid escape"
	// UnexpectedEndOfInput is raised when the input ends inside an open
	// region or comment.
	UnexpectedEndOfInput ErrorKind = "unexpected end of input"
)

// LexError is the sole failure channel of a lexing pass. It carries the
// offending span, the mode of the scanner that failed, and a snapshot of the
// mode stack at the moment of failure, so a caller can reconstruct which
// regions were open and where without re-scanning.
type LexError struct {
	Kind    ErrorKind   `json:"kind"`
	Mode    ModeKind    `json:"mode,omitempty"`
	Span    Span        `json:"span"`
	Stack   []ModeFrame `json:"stack"`
	Message string      `json:"message"`
}

func (e *LexError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s at line %d, column %d: %s",
		e.Kind, e.Span.Start.Line, e.Span.Start.Col, e.Message)
	for i := len(e.Stack) - 1; i >= 0; i-- {
		frame := e.Stack[i]
		fmt.Fprintf(&sb, "\n  inside %s opened at line %d, column %d",
			frame.Mode, frame.OpenSpan.Start.Line, frame.OpenSpan.Start.Col)
	}
	return sb.String()
}

// newLexError snapshots the current mode stack into an immutable error value.
func (l *Lexer) newLexError(kind ErrorKind, mode ModeKind, span Span, format string, args ...any) *LexError {
	stack := make([]ModeFrame, len(l.stack))
	copy(stack, l.stack)
	return &LexError{
		Kind:    kind,
		Mode:    mode,
		Span:    span,
		Stack:   stack,
		Message: fmt.Sprintf(format, args...),
	}
}

func (l *Lexer) unexpectedEndOfInput(mode ModeKind, span Span) *LexError {
	return l.newLexError(UnexpectedEndOfInput, mode, span, "input ended inside %s", mode)
}
