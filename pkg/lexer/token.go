package lexer

import (
	"encoding/json"
	"fmt"
)

// TokenType represents the different types of tokens.
type TokenType string

const (
	RegionBeginTokenType    TokenType = "begin"    // Entered a Text/Math/Command region
	RegionEndTokenType      TokenType = "end"      // Left a Text/Math/Command region
	LiteralTokenType        TokenType = "literal"  // Verbatim or escape-substituted text
	ParagraphBreakTokenType TokenType = "parbreak" // Blank-line paragraph separator
	CommentTokenType        TokenType = "comment"  // One complete (possibly nested) comment
)

// ModeKind identifies the kind of a lexical region.
type ModeKind string

const (
	TextMode    ModeKind = "text"
	MathMode    ModeKind = "math"
	CommandMode ModeKind = "command"

	// CommentModeKind is not a region a frame can hold; it only appears in
	// error reports for failures inside the comment sub-grammar.
	CommentModeKind ModeKind = "comment"
)

// Mode is the kind of a currently-open region. Name is set for Command
// regions only.
type Mode struct {
	Kind ModeKind `json:"kind"`
	Name string   `json:"name,omitempty"`
}

// TextRegion, MathRegion and CommandRegion build Mode values.
func TextRegion() Mode { return Mode{Kind: TextMode} }
func MathRegion() Mode { return Mode{Kind: MathMode} }

func CommandRegion(name string) Mode {
	return Mode{Kind: CommandMode, Name: name}
}

func (m Mode) String() string {
	if m.Kind == CommandMode {
		return fmt.Sprintf("command %q", m.Name)
	}
	return string(m.Kind)
}

// Position represents a line and column position in the source.
type Position struct {
	Line int `json:"line"`
	Col  int `json:"col"`
}

// Span represents the start and end positions of a token.
type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// MarshalJSON implements custom JSON marshaling for Span.
func (s Span) MarshalJSON() ([]byte, error) {
	arr := [4]int{s.Start.Line, s.Start.Col, s.End.Line, s.End.Col}
	return json.Marshal(arr)
}

// UnmarshalJSON implements custom JSON unmarshaling for Span.
func (s *Span) UnmarshalJSON(data []byte) error {
	var arr [4]int
	if err := json.Unmarshal(data, &arr); err != nil {
		return err
	}
	s.Start = Position{Line: arr[0], Col: arr[1]}
	s.End = Position{Line: arr[2], Col: arr[3]}
	return nil
}

// ModeFrame pairs an open region with the span of the marker that opened it.
// The span is carried for diagnostics only.
type ModeFrame struct {
	Mode     Mode `json:"mode"`
	OpenSpan Span `json:"open_span"`
}

// Token represents a single token from the Weave source text.
//
// Text carries the token's payload: the substituted text for literals, the
// full delimited text for comments, and the source marker for region begin
// and end tokens.
type Token struct {
	Type TokenType `json:"type"`
	Text string    `json:"text"`
	Span Span      `json:"span"`

	// Region begin/end fields
	Mode  *Mode `json:"mode,omitempty"`
	Arrow *bool `json:"arrow,omitempty"` // true for the explicit |name-> call form

	// Paragraph break fields
	BlankLines *int `json:"blank_lines,omitempty"`
}

// NewRegionBeginToken creates a token marking entry into a region.
func NewRegionBeginToken(mode Mode, text string, span Span) *Token {
	return &Token{
		Type: RegionBeginTokenType,
		Text: text,
		Span: span,
		Mode: &mode,
	}
}

// NewExplicitCallToken creates a region-begin token for the |name-> form.
func NewExplicitCallToken(mode Mode, text string, span Span) *Token {
	arrow := true
	token := NewRegionBeginToken(mode, text, span)
	token.Arrow = &arrow
	return token
}

// NewRegionEndToken creates a token marking exit from a region.
func NewRegionEndToken(mode Mode, text string, span Span) *Token {
	return &Token{
		Type: RegionEndTokenType,
		Text: text,
		Span: span,
		Mode: &mode,
	}
}

// NewLiteralToken creates a literal token carrying verbatim or
// escape-substituted text.
func NewLiteralToken(text string, span Span) *Token {
	return &Token{
		Type: LiteralTokenType,
		Text: text,
		Span: span,
	}
}

// NewParagraphBreakToken creates a paragraph separator token. The count is
// the number of newline characters consumed by the blank run.
func NewParagraphBreakToken(newlines int, span Span) *Token {
	return &Token{
		Type:       ParagraphBreakTokenType,
		Span:       span,
		BlankLines: &newlines,
	}
}

// NewCommentToken creates a comment token carrying the full delimited text.
func NewCommentToken(text string, span Span) *Token {
	return &Token{
		Type: CommentTokenType,
		Text: text,
		Span: span,
	}
}
