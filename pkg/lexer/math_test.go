package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mathTokens lexes input that opens with |m and strips the leading
// region-begin token.
func mathTokens(t *testing.T, body string) []*Token {
	t.Helper()
	tokens, err := NewLexer("|m " + body + "|").Tokenize()
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(tokens), 2)
	assert.Equal(t, RegionBeginTokenType, tokens[0].Type)
	assert.Equal(t, RegionEndTokenType, tokens[len(tokens)-1].Type)
	return tokens[1 : len(tokens)-1]
}

func TestMathEscapes(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`\\`, `\\`},
		{`\{`, `\{`},
		{`\$`, `\$`},
		{`\"`, `"`},
		{`\_`, `\_`}, // math-only escape
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := mathTokens(t, tt.input)
			require.Len(t, tokens, 1)
			assert.Equal(t, tt.expected, tokens[0].Text)
		})
	}
}

func TestMathInvalidEscape(t *testing.T) {
	lexErr := lexError(t, `|m \q`)
	assert.Equal(t, InvalidEscape, lexErr.Kind)
	assert.Equal(t, MathMode, lexErr.Mode)
}

func TestMathPassthrough(t *testing.T) {
	tokens := mathTokens(t, "%")
	require.Len(t, tokens, 1)
	assert.Equal(t, `\%`, tokens[0].Text)
}

func TestMathRunsSwallowTextReserved(t *testing.T) {
	// Unlike Text mode, _ ^ # and < are ordinary characters in math and are
	// swallowed into literal runs.
	tokens := mathTokens(t, "a_i^2 #3 x<y")
	require.Len(t, tokens, 1)
	assert.Equal(t, LiteralTokenType, tokens[0].Type)
	assert.Equal(t, "a_i^2 #3 x<y", tokens[0].Text)
}

func TestMathHasNoParagraphBreaks(t *testing.T) {
	tokens, err := NewLexer("|m a\n\nb|").Tokenize()
	require.NoError(t, err)
	for _, token := range tokens {
		assert.NotEqual(t, ParagraphBreakTokenType, token.Type)
	}
}

func TestMathTextRegionNesting(t *testing.T) {
	// |t opens a nested Text region inside math; each lone | closes the
	// innermost open region.
	tokens, err := NewLexer("|m a|t words||").Tokenize()
	require.NoError(t, err)

	types := make([]TokenType, 0, len(tokens))
	for _, token := range tokens {
		types = append(types, token.Type)
	}
	assert.Equal(t, []TokenType{
		RegionBeginTokenType, // |m
		LiteralTokenType,     // a
		RegionBeginTokenType, // |t
		LiteralTokenType,     // words
		RegionEndTokenType,   // | closes text
		RegionEndTokenType,   // | closes math
	}, types)

	assert.Equal(t, TextMode, tokens[2].Mode.Kind)
	assert.Equal(t, TextMode, tokens[4].Mode.Kind)
	assert.Equal(t, MathMode, tokens[5].Mode.Kind)
}

func TestMathBarBeforeNameOpensCommand(t *testing.T) {
	// A | followed by a name character is never a close marker, even for a
	// single letter: |b opens Command("b"). Only a bare | pops.
	l := NewLexer("|m |b")
	_, err := l.NextToken()
	require.NoError(t, err)
	token, err := l.NextToken()
	require.NoError(t, err)
	assert.Equal(t, RegionBeginTokenType, token.Type)
	require.NotNil(t, token.Mode)
	assert.Equal(t, CommandMode, token.Mode.Kind)
	assert.Equal(t, "b", token.Mode.Name)
}

func TestMathCommandOpen(t *testing.T) {
	// A |name inside math opens a command region just as in text.
	l := NewLexer("|m |frac->")
	_, err := l.NextToken()
	require.NoError(t, err)
	token, err := l.NextToken()
	require.NoError(t, err)
	assert.Equal(t, RegionBeginTokenType, token.Type)
	assert.Equal(t, CommandMode, token.Mode.Kind)
	assert.Equal(t, "frac", token.Mode.Name)
	require.NotNil(t, token.Arrow)
	assert.True(t, *token.Arrow)
}
