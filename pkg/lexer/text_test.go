package lexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextEscapes(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`\\`, `\\`},
		{`\{`, `\{`},
		{`\}`, `\}`},
		{`\$`, `\$`},
		{`\"`, `"`},
		{`\&`, `\&`},
		{`\ `, `\ `},
		{`\'`, `\'`},
		{"\\`", "\\`"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := mustTokenize(t, tt.input)
			require.Len(t, tokens, 1)
			assert.Equal(t, LiteralTokenType, tokens[0].Type)
			assert.Equal(t, tt.expected, tokens[0].Text)
		})
	}
}

func TestInvalidEscape(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Letter", `\q`},
		{"Digit", `\7`},
		{"Underscore is math-only", `\_`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lexErr := lexError(t, tt.input)
			assert.Equal(t, InvalidEscape, lexErr.Kind)
			assert.Equal(t, TextMode, lexErr.Mode)
		})
	}
}

func TestTextPassthrough(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"#", `\#`},
		{"_", `\_`},
		{"%", `\%`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := mustTokenize(t, tt.input)
			require.Len(t, tokens, 1)
			assert.Equal(t, tt.expected, tokens[0].Text)
		})
	}
}

func TestTextReservedSingles(t *testing.T) {
	// Reserved characters with no rule of their own pass through verbatim
	// as single-character literals.
	for _, input := range []string{`"`, "$", "<", "^", "{", "}"} {
		t.Run(input, func(t *testing.T) {
			tokens := mustTokenize(t, input)
			require.Len(t, tokens, 1)
			assert.Equal(t, LiteralTokenType, tokens[0].Type)
			assert.Equal(t, input, tokens[0].Text)
		})
	}
}

func TestTextLiteralRuns(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"Single run", "plain words", []string{"plain words"}},
		{"Split on underscore", "a_b", []string{"a", `\_`, "b"}},
		{"Split on caret", "a^b", []string{"a", "^", "b"}},
		{"Split on angle", "a<b", []string{"a", "<", "b"}},
		{"Split on paren", "a(b", []string{"a", "(", "b"}},
		{"Split on bar", "a|m", nil}, // the run must stop before the marker
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.expected == nil {
				// Only the run boundary matters here.
				l := NewLexer(tt.input)
				token, err := l.NextToken()
				require.NoError(t, err)
				assert.Equal(t, "a", token.Text)
				return
			}
			tokens := mustTokenize(t, tt.input)
			require.Len(t, tokens, len(tt.expected))
			for i, want := range tt.expected {
				assert.Equal(t, want, tokens[i].Text, "token %d", i)
			}
		})
	}
}

func TestLiteralRoundTrip(t *testing.T) {
	// Concatenating the Literal texts reproduces the input with each
	// escape and passthrough replaced by its substitution.
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Unreserved only", "plain words 123", "plain words 123"},
		{"Escapes and passthroughs", `a\&b#c_d%e( f`, `a\&b\#c\_d\%e( f`},
		{"Escaped quote drops the backslash", `say \"hi\" now`, `say "hi" now`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := mustTokenize(t, tt.input)
			var sb strings.Builder
			for i, token := range tokens {
				require.Equal(t, LiteralTokenType, token.Type, "token %d", i)
				sb.WriteString(token.Text)
			}
			assert.Equal(t, tt.expected, sb.String())
		})
	}
}

func TestParenLiteral(t *testing.T) {
	tokens := mustTokenize(t, "(")
	require.Len(t, tokens, 1)
	assert.Equal(t, LiteralTokenType, tokens[0].Type)
	assert.Equal(t, "(", tokens[0].Text)
}

func TestPlainNewlineIsALiteral(t *testing.T) {
	tokens := mustTokenize(t, "x\ny")
	require.Len(t, tokens, 3)
	assert.Equal(t, "\n", tokens[1].Text)
}

func TestParagraphBreaks(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		newlines int
	}{
		{"One blank line", "x\n\ny", 2},
		{"Two blank lines", "x\n\n\ny", 3},
		{"Blank-ish lines with spaces", "x\n \t\ny", 2},
		{"Trailing blank run", "x\n\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := mustTokenize(t, tt.input)
			var breaks []*Token
			for _, token := range tokens {
				if token.Type == ParagraphBreakTokenType {
					breaks = append(breaks, token)
				}
			}
			require.Len(t, breaks, 1)
			require.NotNil(t, breaks[0].BlankLines)
			assert.Equal(t, tt.newlines, *breaks[0].BlankLines)
		})
	}
}

func TestParagraphBreakLeavesNextLineContent(t *testing.T) {
	// Leading spaces on a non-blank line are content, not part of the break.
	tokens := mustTokenize(t, "x\n\n  y")
	require.Len(t, tokens, 3)
	assert.Equal(t, ParagraphBreakTokenType, tokens[1].Type)
	assert.Equal(t, "  y", tokens[2].Text)
}

func TestEndMarkerWithoutCommandFrame(t *testing.T) {
	// |END outside any command region is an empty literal, not an error.
	tokens := mustTokenize(t, "|END")
	require.Len(t, tokens, 1)
	assert.Equal(t, LiteralTokenType, tokens[0].Type)
	assert.Equal(t, "", tokens[0].Text)
}
