package lexer

// scanBlockComment consumes a /* opener and scans through the matching
// close. The accumulator is reset only on the depth 0 to 1 transition, the
// start of an outermost comment.
func (l *Lexer) scanBlockComment(start Position) (*Token, error) {
	if l.commentDepth == 0 {
		l.comment.Reset()
	}
	l.commentDepth++
	l.tryConsumeText("/*")
	l.comment.WriteString("/*")
	return l.runComment(start)
}

// runComment accumulates comment text until nesting returns to zero, then
// finalizes: the entire accumulated text, delimiters included, becomes one
// Comment token. Escaped quotes are substituted as they are accumulated.
func (l *Lexer) runComment(start Position) (*Token, error) {
	for {
		if !l.hasMoreInput() {
			return nil, l.unexpectedEndOfInput(CommentModeKind, l.spanFrom(start))
		}
		switch {
		case l.tryConsumeText("*/"):
			l.comment.WriteString("*/")
			l.commentDepth--
			if l.commentDepth == 0 {
				text := l.comment.String()
				l.comment.Reset()
				return NewCommentToken(text, l.spanFrom(start)), nil
			}
		case l.tryConsumeText("/*"):
			l.commentDepth++
			l.comment.WriteString("/*")
		case l.tryConsumeText(`\"`):
			l.comment.WriteByte('"')
		default:
			l.comment.WriteRune(l.consume())
		}
	}
}
