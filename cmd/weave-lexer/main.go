package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/weave-lang/weave-lexer/pkg/lexer"
)

const version = "0.1.0"

var errLexingFailed = errors.New("lexing failed")

func main() {
	if err := newRootCommand().Execute(); err != nil {
		if !errors.Is(err, errLexingFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var inputFile, outputFile, rulesFile string
	var exit0, makeRules bool

	cmd := &cobra.Command{
		Use:   "weave-lexer",
		Short: "A lexer for the Weave markup language",
		Long: `weave-lexer reads Weave markup and emits one JSON token per line.

Weave interleaves three lexical regions - descriptive text, mathematical
text and command bodies - nested through |-delimited markers, with a
nestable comment sub-grammar. On failure the lexer reports the offending
span together with every region still open at that point.

Examples:
  weave-lexer                                 # stdin to stdout
  weave-lexer --input notes.weave             # file to stdout
  weave-lexer --input notes.weave --output tokens.json
  weave-lexer --rules custom.yaml --input notes.weave
  weave-lexer --make-rules                    # print default substitution rules`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if makeRules {
				return writeDefaultRules(cmd.OutOrStdout())
			}
			return run(inputFile, outputFile, rulesFile, exit0)
		},
	}

	cmd.Flags().StringVar(&inputFile, "input", "", "input file (defaults to stdin)")
	cmd.Flags().StringVar(&outputFile, "output", "", "output file (defaults to stdout)")
	cmd.Flags().StringVar(&rulesFile, "rules", "", "YAML substitution-rules file (optional)")
	cmd.Flags().BoolVar(&makeRules, "make-rules", false, "print the default rules as YAML and exit")
	cmd.Flags().BoolVar(&exit0, "exit0", false, "exit with code 0 even on lexing errors")

	return cmd
}

func run(inputFile, outputFile, rulesFile string, exit0 bool) error {
	input, err := readInput(inputFile)
	if err != nil {
		return err
	}

	var l *lexer.Lexer
	if rulesFile != "" {
		rules, err := lexer.LoadRulesFile(rulesFile)
		if err != nil {
			return err
		}
		lexerRules, err := lexer.ApplyRulesToDefaults(rules)
		if err != nil {
			return fmt.Errorf("invalid rules file '%s': %w", rulesFile, err)
		}
		l = lexer.NewLexerWithRules(input, lexerRules)
	} else {
		l = lexer.NewLexer(input)
	}

	tokens, lexErr := l.Tokenize()

	output := io.Writer(os.Stdout)
	var outputCloser io.Closer
	if outputFile != "" {
		file, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file '%s': %w", outputFile, err)
		}
		output = file
		outputCloser = file
	}

	// Tokens produced before a failure are still written.
	for _, token := range tokens {
		jsonBytes, err := json.Marshal(token)
		if err != nil {
			return fmt.Errorf("JSON encoding error: %w", err)
		}
		fmt.Fprintln(output, string(jsonBytes))
	}

	if outputCloser != nil {
		if err := outputCloser.Close(); err != nil {
			return fmt.Errorf("failed to close output file '%s': %w", outputFile, err)
		}
	}

	if lexErr != nil {
		if exit0 {
			return nil
		}
		reportLexError(lexErr)
		return errLexingFailed
	}
	return nil
}

func readInput(inputFile string) (string, error) {
	if inputFile == "" {
		bytes, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read from stdin: %w", err)
		}
		return string(bytes), nil
	}
	bytes, err := os.ReadFile(inputFile)
	if err != nil {
		return "", fmt.Errorf("failed to read file '%s': %w", inputFile, err)
	}
	return string(bytes), nil
}

// reportLexError renders a structured lexing error to stderr: the offending
// span and message, then one line per open region from the stack snapshot,
// innermost first.
func reportLexError(err error) {
	heading := color.New(color.FgRed, color.Bold)

	var lexErr *lexer.LexError
	if !errors.As(err, &lexErr) {
		heading.Fprint(os.Stderr, "error: ")
		fmt.Fprintln(os.Stderr, err)
		return
	}

	heading.Fprint(os.Stderr, "error: ")
	fmt.Fprintf(os.Stderr, "%s at line %d, column %d: %s\n",
		lexErr.Kind, lexErr.Span.Start.Line, lexErr.Span.Start.Col, lexErr.Message)
	for i := len(lexErr.Stack) - 1; i >= 0; i-- {
		frame := lexErr.Stack[i]
		fmt.Fprintf(os.Stderr, "  %s %s opened at line %d, column %d\n",
			color.CyanString("inside"), frame.Mode,
			frame.OpenSpan.Start.Line, frame.OpenSpan.Start.Col)
	}
}

// writeDefaultRules prints the default substitution tables in the rules
// file format, so a custom file can start from the built-in behaviour.
func writeDefaultRules(w io.Writer) error {
	defaults := lexer.DefaultRules()
	rulesFile := &lexer.RulesFile{
		Text: lexer.ModeRules{
			Escapes:     substRules(defaults.TextEscapes),
			Passthrough: substRules(defaults.TextPassthrough),
		},
		Math: lexer.ModeRules{
			Escapes:     substRules(defaults.MathEscapes),
			Passthrough: substRules(defaults.MathPassthrough),
		},
	}

	yamlBytes, err := yaml.Marshal(rulesFile)
	if err != nil {
		return fmt.Errorf("failed to marshal rules to YAML: %w", err)
	}
	_, err = w.Write(yamlBytes)
	return err
}

// substRules converts a substitution table to rule entries in a stable
// order.
func substRules(table map[rune]string) []lexer.SubstRule {
	chars := make([]rune, 0, len(table))
	for ch := range table {
		chars = append(chars, ch)
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i] < chars[j] })

	rules := make([]lexer.SubstRule, 0, len(chars))
	for _, ch := range chars {
		rules = append(rules, lexer.SubstRule{Char: string(ch), Subst: table[ch]})
	}
	return rules
}
