package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/skyfish4tb/wisp/internal/lexer"
	"github.com/skyfish4tb/wisp/internal/token"
	"github.com/spf13/cobra"
)

var (
	lexEval       string
	lexShowPos    bool
	lexShowType   bool
	lexOnlyErrors bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize wisp source and print the resulting tokens",
	Long: `Tokenize a wisp program and print the resulting token stream.

Examples:
  wispc lex script.wisp
  wispc lex -e "var x = 42;"
  wispc lex --show-type --show-pos script.wisp
  wispc lex --only-errors script.wisp`,
	Args: cobra.MaximumNArgs(1),
	RunE: lexScript,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&lexEval, "eval", "e", "", "tokenize inline source instead of reading from a file")
	lexCmd.Flags().BoolVar(&lexShowPos, "show-pos", false, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&lexShowType, "show-type", false, "show token kind names")
	lexCmd.Flags().BoolVar(&lexOnlyErrors, "only-errors", false, "show only illegal tokens")
}

func lexScript(cmd *cobra.Command, args []string) error {
	source, label, err := readInput(lexEval, args)
	if err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		fmt.Printf("Tokenizing: %s (%d bytes)\n---\n", label, len(source))
	}

	l := lexer.New(source)
	illegal := 0
	for {
		tok := l.Scan()
		if tok.Kind == token.ILLEGAL {
			illegal++
		}
		if !lexOnlyErrors || tok.Kind == token.ILLEGAL {
			printToken(tok)
		}
		if tok.Kind == token.EOF {
			break
		}
	}

	if verbose {
		fmt.Printf("---\n%d illegal token(s)\n", illegal)
	}
	if lexOnlyErrors && illegal > 0 {
		return fmt.Errorf("%d illegal token(s) found", illegal)
	}
	return nil
}

func printToken(t token.Token) {
	lexeme := t.Lexeme
	if t.Kind == token.EOF {
		lexeme = "<eof>"
	}

	line := fmt.Sprintf("%q", lexeme)
	if lexShowType {
		line = t.Kind.String() + " " + line
	}
	if lexShowPos {
		line = fmt.Sprintf("%s @%d:%d", line, t.Line, t.Column)
	}
	if t.Kind == token.ILLEGAL {
		line = color.RedString("ILLEGAL ") + line
	}
	fmt.Println(line)
}
