package lexer

import (
	"fmt"
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// RulesFile represents the structure of a YAML substitution-rules file.
type RulesFile struct {
	Text ModeRules `yaml:"text"`
	Math ModeRules `yaml:"math"`
}

// ModeRules holds the per-mode substitution overrides.
type ModeRules struct {
	Escapes     []SubstRule `yaml:"escapes"`
	Passthrough []SubstRule `yaml:"passthrough"`
}

// SubstRule maps a single source character to its substituted output text.
// For escapes the character is the one following the backslash; for
// passthrough rules it is the bare character itself.
type SubstRule struct {
	Char  string `yaml:"char"`
	Subst string `yaml:"subst"`
}

// LexerRules holds the substitution tables consulted by the scanners.
// The region markers and reserved-set boundaries are structural and not
// configurable; only the substitution output is.
type LexerRules struct {
	TextEscapes     map[rune]string
	TextPassthrough map[rune]string
	MathEscapes     map[rune]string
	MathPassthrough map[rune]string
}

// DefaultRules returns the built-in substitution tables: the backslash
// escape set shared by Text and Math (Math additionally accepts \_), and
// the bare passthrough characters that are re-escaped for the target
// markup.
func DefaultRules() *LexerRules {
	textEscapes := map[rune]string{
		'\\': `\\`,
		'{':  `\{`,
		'}':  `\}`,
		'$':  `\$`,
		'"':  `"`,
		'&':  `\&`,
		' ':  `\ `,
		'\'': `\'`,
		'`':  "\\`",
	}
	mathEscapes := make(map[rune]string, len(textEscapes)+1)
	for ch, subst := range textEscapes {
		mathEscapes[ch] = subst
	}
	mathEscapes['_'] = `\_`

	return &LexerRules{
		TextEscapes: textEscapes,
		TextPassthrough: map[rune]string{
			'#': `\#`,
			'_': `\_`,
			'%': `\%`,
		},
		MathEscapes: mathEscapes,
		MathPassthrough: map[rune]string{
			'%': `\%`,
		},
	}
}

// LoadRulesFile loads and parses a YAML substitution-rules file.
func LoadRulesFile(filename string) (*RulesFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file '%s': %w", filename, err)
	}

	var rules RulesFile
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse YAML in rules file '%s': %w", filename, err)
	}

	return &rules, nil
}

// ApplyRulesToDefaults overlays a rules file on the default tables.
// Returns an error if an override does not name a single character.
func ApplyRulesToDefaults(rules *RulesFile) (*LexerRules, error) {
	lexerRules := DefaultRules()
	if err := applyModeRules(rules.Text, lexerRules.TextEscapes, lexerRules.TextPassthrough); err != nil {
		return nil, err
	}
	if err := applyModeRules(rules.Math, lexerRules.MathEscapes, lexerRules.MathPassthrough); err != nil {
		return nil, err
	}
	return lexerRules, nil
}

func applyModeRules(mode ModeRules, escapes, passthrough map[rune]string) error {
	for _, rule := range mode.Escapes {
		ch, err := singleChar(rule.Char)
		if err != nil {
			return err
		}
		escapes[ch] = rule.Subst
	}
	for _, rule := range mode.Passthrough {
		ch, err := singleChar(rule.Char)
		if err != nil {
			return err
		}
		passthrough[ch] = rule.Subst
	}
	return nil
}

func singleChar(s string) (rune, error) {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) {
		return 0, fmt.Errorf("substitution rule char must be a single character, got '%s'", s)
	}
	return r, nil
}

// escape looks up the substitution for a backslash sequence in the given
// mode's table.
func (r *LexerRules) escape(kind ModeKind, ch rune) (string, bool) {
	if kind == MathMode {
		subst, ok := r.MathEscapes[ch]
		return subst, ok
	}
	subst, ok := r.TextEscapes[ch]
	return subst, ok
}

// passthrough looks up the substitution for a bare character in the given
// mode's table.
func (r *LexerRules) passthrough(kind ModeKind, ch rune) (string, bool) {
	if kind == MathMode {
		subst, ok := r.MathPassthrough[ch]
		return subst, ok
	}
	subst, ok := r.TextPassthrough[ch]
	return subst, ok
}
