package lexer

// scanMath consumes input starting in Math mode and returns exactly one
// token. It mirrors the Text scanner with math's differences: |t switches
// back to Text, there is no paragraph-break rule, only % has a bare
// passthrough, the escape table additionally accepts \_, and the reserved
// set is narrower (notably _ and ^ are swallowed into literal runs).
func (l *Lexer) scanMath() (*Token, error) {
	start := l.pos()
	r, _ := l.peek()

	switch r {
	case '|':
		return l.scanMarker(MathMode, start)
	case '\n':
		return l.scanNewline(MathMode, start)
	case '\\':
		return l.scanEscape(MathMode, start)
	case '/':
		return l.scanSlash(start)
	case '(':
		l.consume()
		return NewLiteralToken("(", l.spanFrom(start)), nil
	}

	if subst, ok := l.rules.passthrough(MathMode, r); ok {
		l.consume()
		return NewLiteralToken(subst, l.spanFrom(start)), nil
	}

	return l.scanRun(MathMode, start), nil
}
