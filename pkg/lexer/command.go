package lexer

// scanCommand consumes input inside a command body and returns exactly one
// token. It is entered either because the innermost open region is a
// Command frame, or directly from the tab-indented-newline trigger without
// a frame having been pushed.
//
// Only comment openers, the |m/|t switch markers, the lone close marker,
// |END and newlines are recognised. Any other character falls through into
// the comment accumulation path: it seeds the accumulator as though a
// comment were open, and scanning then relies on a subsequent */ to
// terminate it, or fails with an unterminated-comment error at end of
// input. This matches the historical lexer behaviour; a command body of
// plain prose without a terminator does not get a command-specific error.
func (l *Lexer) scanCommand() (*Token, error) {
	start := l.pos()
	if !l.hasMoreInput() {
		return nil, l.unexpectedEndOfInput(CommandMode, l.here())
	}
	r, _ := l.peek()

	switch r {
	case '/':
		if l.lookingAt("/*") {
			return l.scanBlockComment(start)
		}
		if token, ok := l.scanLineComment(start); ok {
			return token, nil
		}
	case '|':
		l.consume()
		if l.tryConsumeRune('m') {
			l.tryConsumeRune(' ')
			return l.push(MathRegion(), "|m", l.spanFrom(start)), nil
		}
		if l.tryConsumeRune('t') {
			l.tryConsumeRune(' ')
			return l.push(TextRegion(), "|t", l.spanFrom(start)), nil
		}
		if l.tryConsumeText("END") {
			return l.closeIfCommand("|END", l.spanFrom(start)), nil
		}
		return l.pop("|", l.spanFrom(start))
	case '\n':
		l.consume()
		token := l.closeIfCommand("", l.spanFrom(start))
		if token.Type == RegionEndTokenType {
			return token, nil
		}
		return NewLiteralToken("\n", l.spanFrom(start)), nil
	}

	if l.commentDepth == 0 {
		l.comment.Reset()
		l.commentDepth = 1
	}
	l.comment.WriteRune(l.consume())
	return l.runComment(start)
}
