package lexer

import (
	"strings"
	"unicode/utf8"
)

// scanText consumes input starting in Text mode and returns exactly one
// token. Rule order matters: region markers and newlines are checked before
// escapes, comments and plain literal runs.
func (l *Lexer) scanText() (*Token, error) {
	start := l.pos()
	r, _ := l.peek()

	switch r {
	case '|':
		return l.scanMarker(TextMode, start)
	case '\n':
		return l.scanNewline(TextMode, start)
	case '\\':
		return l.scanEscape(TextMode, start)
	case '/':
		return l.scanSlash(start)
	case '(':
		l.consume()
		return NewLiteralToken("(", l.spanFrom(start)), nil
	}

	if subst, ok := l.rules.passthrough(TextMode, r); ok {
		l.consume()
		return NewLiteralToken(subst, l.spanFrom(start)), nil
	}

	return l.scanRun(TextMode, start), nil
}

// scanMarker handles a leading '|': the region-switch marker (|m from Text,
// |t from Math), the lone close marker, the |END force-close, and the two
// command-opening forms. First match wins, so |m and |END are recognised as
// literal prefixes before command names.
func (l *Lexer) scanMarker(kind ModeKind, start Position) (*Token, error) {
	l.consume() // '|'

	switchMarker := 'm'
	switchMode := MathRegion()
	if kind == MathMode {
		switchMarker = 't'
		switchMode = TextRegion()
	}
	if l.tryConsumeRune(switchMarker) {
		// The marker absorbs one separating space.
		l.tryConsumeRune(' ')
		text := "|" + string(switchMarker)
		return l.push(switchMode, text, l.spanFrom(start)), nil
	}

	if l.tryConsumeText("END") {
		return l.closeIfCommand("|END", l.spanFrom(start)), nil
	}

	name := l.scanCommandName()
	if name == "" {
		return l.pop("|", l.spanFrom(start))
	}
	if l.tryConsumeText("->") {
		return l.pushExplicitCall(CommandRegion(name), "|"+name+"->", l.spanFrom(start)), nil
	}
	return l.push(CommandRegion(name), "|"+name, l.spanFrom(start)), nil
}

// scanCommandName consumes the maximal run of command-name characters.
func (l *Lexer) scanCommandName() string {
	var name strings.Builder
	for l.hasMoreInput() {
		r, _ := l.peek()
		if !isCommandNameChar(r) {
			break
		}
		name.WriteRune(l.consume())
	}
	return name.String()
}

func isCommandNameChar(r rune) bool {
	return r >= 'A' && r <= 'Z' ||
		r >= 'a' && r <= 'z' ||
		r >= '0' && r <= '9' ||
		r == '.' || r == '_' || r == ' '
}

// scanNewline handles a newline: the tab-indented command trigger, the
// paragraph break (Text mode only), and the implicit close of an inline
// command frame at end of line.
func (l *Lexer) scanNewline(kind ModeKind, start Position) (*Token, error) {
	l.consume() // '\n'

	// A newline immediately followed by tabs hands the line to the command
	// scanner. The trigger itself opens no region; the command scanner
	// decides that.
	if r, ok := l.peek(); ok && r == '\t' {
		for l.tryConsumeRune('\t') {
		}
		return l.scanCommand()
	}

	if kind == TextMode {
		if token, ok := l.scanParagraphBreak(start); ok {
			return token, nil
		}
	}

	token := l.closeIfCommand("", l.spanFrom(start))
	if token.Type == RegionEndTokenType {
		return token, nil
	}
	return NewLiteralToken("\n", l.spanFrom(start)), nil
}

// scanParagraphBreak consumes a run of blank-ish lines after an
// already-consumed newline. The reported count is the total number of
// newline characters consumed, including the newline that ended the
// preceding content line, so a single blank line between two paragraphs
// reports 2.
func (l *Lexer) scanParagraphBreak(start Position) (*Token, bool) {
	newlines := 1
	for {
		save := l.mark()
		for {
			r, ok := l.peek()
			if !ok || (r != ' ' && r != '\t') {
				break
			}
			l.consume()
		}
		if !l.tryConsumeRune('\n') {
			// The skipped spaces belong to the next line's content.
			l.resetTo(save)
			break
		}
		newlines++
	}
	if newlines < 2 {
		return nil, false
	}
	return NewParagraphBreakToken(newlines, l.spanFrom(start)), true
}

// scanEscape handles a backslash sequence against the mode's escape table.
func (l *Lexer) scanEscape(kind ModeKind, start Position) (*Token, error) {
	l.consume() // '\\'
	r, ok := l.peek()
	if !ok {
		return nil, l.unexpectedEndOfInput(kind, l.spanFrom(start))
	}
	if subst, ok := l.rules.escape(kind, r); ok {
		l.consume()
		return NewLiteralToken(subst, l.spanFrom(start)), nil
	}
	l.consume()
	return nil, l.newLexError(InvalidEscape, kind, l.spanFrom(start),
		"unsupported escape sequence \\%c in %s mode", r, kind)
}

// scanSlash distinguishes block comments, one-line comments, and a plain
// slash literal.
func (l *Lexer) scanSlash(start Position) (*Token, error) {
	if l.lookingAt("/*") {
		return l.scanBlockComment(start)
	}
	if token, ok := l.scanLineComment(start); ok {
		return token, nil
	}
	l.consume()
	return NewLiteralToken("/", l.spanFrom(start)), nil
}

// scanLineComment matches the one-line comment shorthand: "//", exactly one
// character, then a newline. Anything else is not a comment.
func (l *Lexer) scanLineComment(start Position) (*Token, bool) {
	rest := l.input[l.position:]
	if !strings.HasPrefix(rest, "//") {
		return nil, false
	}
	c, size := utf8.DecodeRuneInString(rest[2:])
	if size == 0 || c == '\n' {
		return nil, false
	}
	if len(rest) < 2+size+1 || rest[2+size] != '\n' {
		return nil, false
	}
	l.advance(2 + size + 1)
	return NewCommentToken("//"+string(c)+"\n", l.spanFrom(start)), true
}

// scanRun consumes the maximal run of characters up to the mode's reserved
// set. A reserved character with no rule of its own passes through as a
// single-character literal.
func (l *Lexer) scanRun(kind ModeKind, start Position) *Token {
	var run strings.Builder
	for l.hasMoreInput() {
		r, _ := l.peek()
		if l.runBoundary(kind, r) {
			break
		}
		run.WriteRune(l.consume())
	}
	if run.Len() == 0 {
		run.WriteRune(l.consume())
	}
	return NewLiteralToken(run.String(), l.spanFrom(start))
}

// runBoundary reports whether a character terminates a plain literal run.
// Region markers and comment openers bound runs in every mode so the
// scanners always see them at rule position.
func (l *Lexer) runBoundary(kind ModeKind, r rune) bool {
	switch r {
	case '"', '$', '{', '\n', '\\', '}', '%', '(', '|', '/':
		return true
	}
	if kind == TextMode {
		switch r {
		case '<', '#', '_', '^':
			return true
		}
	}
	if _, ok := l.rules.passthrough(kind, r); ok {
		return true
	}
	return false
}
