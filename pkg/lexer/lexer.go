package lexer

import (
	"strings"
	"unicode/utf8"
)

// Lexer holds the state of one lexing pass over one input source: the
// cursor, the stack of open regions, and the comment accumulator. A Lexer
// must not be shared between concurrent passes; call Reset before reusing
// one for a new input.
type Lexer struct {
	input    string
	position int
	line     int
	column   int

	stack []ModeFrame

	commentDepth int
	comment      strings.Builder

	rules *LexerRules
}

// NewLexer creates a lexer over the given input using the default
// substitution rules.
func NewLexer(input string) *Lexer {
	return NewLexerWithRules(input, DefaultRules())
}

// NewLexerWithRules creates a lexer over the given input with custom
// substitution rules.
func NewLexerWithRules(input string, rules *LexerRules) *Lexer {
	return &Lexer{
		input:  input,
		line:   1,
		column: 1,
		rules:  rules,
	}
}

// Reset discards all pass state and points the lexer at a new input.
func (l *Lexer) Reset(input string) {
	l.input = input
	l.position = 0
	l.line = 1
	l.column = 1
	l.stack = l.stack[:0]
	l.commentDepth = 0
	l.comment.Reset()
}

// Stack returns a snapshot of the currently-open region frames, innermost
// last.
func (l *Lexer) Stack() []ModeFrame {
	stack := make([]ModeFrame, len(l.stack))
	copy(stack, l.stack)
	return stack
}

// Tokenize processes the whole input and returns the tokens produced before
// either the end of input or the first error. Tokens already produced are
// returned alongside the error.
func (l *Lexer) Tokenize() ([]*Token, error) {
	var tokens []*Token
	for {
		token, err := l.NextToken()
		if err != nil {
			return tokens, err
		}
		if token == nil {
			return tokens, nil
		}
		tokens = append(tokens, token)
	}
}

// NextToken produces exactly one token, dispatching to the scanner for the
// current mode (top of the region stack, Text when empty). It returns
// (nil, nil) at a clean end of input, and an error when the input ends with
// regions still open.
func (l *Lexer) NextToken() (*Token, error) {
	if !l.hasMoreInput() {
		if len(l.stack) > 0 {
			top := l.stack[len(l.stack)-1]
			return nil, l.unexpectedEndOfInput(top.Mode.Kind, l.here())
		}
		return nil, nil
	}

	switch l.currentMode().Kind {
	case MathMode:
		return l.scanMath()
	case CommandMode:
		return l.scanCommand()
	default:
		return l.scanText()
	}
}

// currentMode returns the innermost open region, or Text when the stack is
// empty (the top-level default).
func (l *Lexer) currentMode() Mode {
	if len(l.stack) == 0 {
		return TextRegion()
	}
	return l.stack[len(l.stack)-1].Mode
}

// push opens a region and returns its RegionBegin token.
func (l *Lexer) push(mode Mode, text string, span Span) *Token {
	l.stack = append(l.stack, ModeFrame{Mode: mode, OpenSpan: span})
	return NewRegionBeginToken(mode, text, span)
}

// pushExplicitCall opens a Command region for the |name-> form.
func (l *Lexer) pushExplicitCall(mode Mode, text string, span Span) *Token {
	l.stack = append(l.stack, ModeFrame{Mode: mode, OpenSpan: span})
	return NewExplicitCallToken(mode, text, span)
}

// pop closes the innermost region and returns its RegionEnd token. A pop
// with no open region is the mismatched-delimiter error.
func (l *Lexer) pop(text string, span Span) (*Token, error) {
	if len(l.stack) == 0 {
		return nil, l.newLexError(MismatchedDelimiter, "", span, "close marker with no open region")
	}
	frame := l.stack[len(l.stack)-1]
	l.stack = l.stack[:len(l.stack)-1]
	return NewRegionEndToken(frame.Mode, text, span), nil
}

// closeIfCommand pops only when the innermost region is a command frame;
// otherwise it returns an empty literal. This makes an inline command body
// optional per physical line rather than mandatory.
func (l *Lexer) closeIfCommand(text string, span Span) *Token {
	if len(l.stack) > 0 && l.stack[len(l.stack)-1].Mode.Kind == CommandMode {
		frame := l.stack[len(l.stack)-1]
		l.stack = l.stack[:len(l.stack)-1]
		return NewRegionEndToken(frame.Mode, text, span)
	}
	return NewLiteralToken("", span)
}

// Cursor helpers. The input is scanned byte-by-byte with rune-aware
// decoding, in the manner of the reference tokenizer.

func (l *Lexer) hasMoreInput() bool {
	return l.position < len(l.input)
}

func (l *Lexer) peek() (rune, bool) {
	if l.position >= len(l.input) {
		return 0, false
	}
	r, size := utf8.DecodeRuneInString(l.input[l.position:])
	return r, size > 0
}

// consume reads the current rune and advances the cursor, keeping line and
// column accounting correct.
func (l *Lexer) consume() rune {
	r, ok := l.peek()
	if !ok {
		return 0
	}
	l.advance(utf8.RuneLen(r))
	return r
}

// advance moves the position forward by n bytes and updates line/column
// tracking.
func (l *Lexer) advance(n int) {
	for i := 0; i < n && l.position < len(l.input); i++ {
		if l.input[l.position] == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
		l.position++
	}
}

func (l *Lexer) lookingAt(text string) bool {
	return strings.HasPrefix(l.input[l.position:], text)
}

func (l *Lexer) tryConsumeText(text string) bool {
	if l.lookingAt(text) {
		l.advance(len(text))
		return true
	}
	return false
}

func (l *Lexer) tryConsumeRune(char rune) bool {
	r, ok := l.peek()
	if !ok || r != char {
		return false
	}
	l.consume()
	return true
}

// here returns a zero-width span at the current cursor.
func (l *Lexer) here() Span {
	pos := Position{Line: l.line, Col: l.column}
	return Span{Start: pos, End: pos}
}

func (l *Lexer) pos() Position {
	return Position{Line: l.line, Col: l.column}
}

// spanFrom builds a span from a saved start position to the cursor.
func (l *Lexer) spanFrom(start Position) Span {
	return Span{Start: start, End: l.pos()}
}

// cursor is a saved cursor for backtracking, in the manner of the reference
// tokenizer's position marks.
type cursor struct {
	position int
	line     int
	column   int
}

func (l *Lexer) mark() cursor {
	return cursor{position: l.position, line: l.line, column: l.column}
}

func (l *Lexer) resetTo(c cursor) {
	l.position = c.position
	l.line = c.line
	l.column = c.column
}
