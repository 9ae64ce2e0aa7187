package cmd

import (
	"fmt"
	"os"

	"github.com/itmoscript/itmoscript/internal/ast"
	"github.com/itmoscript/itmoscript/internal/evaluator"
	"github.com/itmoscript/itmoscript/internal/lexer"
	"github.com/itmoscript/itmoscript/internal/parser"
	"github.com/itmoscript/itmoscript/pkg/token"
	"github.com/itmoscript/itmoscript/repl"
	"github.com/spf13/cobra"
)

var (
	// Version is set by build flags.
	Version = "0.1.0-dev"

	lexerMode  bool
	parserMode bool
)

var rootCmd = &cobra.Command{
	Use:   "itmoscript [file]",
	Short: "ItmoScript interpreter",
	Long: `itmoscript is an interpreter for the ItmoScript scripting language.

Running it with a filename executes that script. Running it with no
filename and no mode flags starts an interactive REPL.

Examples:
  # Run a script file
  itmoscript script.ims

  # Tokenize a script file
  itmoscript --lexer script.ims

  # Print the parsed AST
  itmoscript --parser script.ims

  # Start the REPL
  itmoscript`,
	Args:         cobra.MaximumNArgs(1),
	Version:      Version,
	SilenceUsage: true,
	RunE:         runRoot,
}

func init() {
	rootCmd.Flags().BoolVarP(&lexerMode, "lexer", "l", false, "print tokens only, do not evaluate")
	rootCmd.Flags().BoolVarP(&parserMode, "parser", "p", false, "print the parsed AST only, do not evaluate")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func runRoot(cmd *cobra.Command, args []string) error {
	if lexerMode && parserMode {
		return fmt.Errorf("--lexer and --parser are mutually exclusive")
	}

	mode := repl.ModeEval
	switch {
	case lexerMode:
		mode = repl.ModeLex
	case parserMode:
		mode = repl.ModeParse
	}

	if len(args) == 0 {
		return repl.Start(mode, os.Stdin, os.Stdout)
	}

	filename := args[0]
	source, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("reading %s: %w", filename, err)
	}

	switch mode {
	case repl.ModeLex:
		return runLex(string(source))
	case repl.ModeParse:
		return runParse(string(source))
	default:
		return runEval(string(source), filename)
	}
}

func runLex(source string) error {
	l := lexer.New(source)
	for {
		tok := l.NextToken()
		fmt.Printf("%-10s %q @%d:%d\n", tok.Type, tok.Literal, tok.Pos.Line, tok.Pos.Column)
		if tok.Type == token.EOF {
			break
		}
	}
	if errs := l.Errors(); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e.Error())
		}
		return fmt.Errorf("lexing failed with %d error(s)", len(errs))
	}
	return nil
}

func runParse(source string) error {
	program, errs := parseProgram(source)
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e.Error())
		}
		return fmt.Errorf("parsing failed with %d error(s)", len(errs))
	}
	fmt.Println(program.String())
	return nil
}

func runEval(source, filename string) error {
	program, errs := parseProgram(source)
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e.Error())
		}
		return fmt.Errorf("parsing failed with %d error(s)", len(errs))
	}

	eval := evaluator.New(os.Stdin, os.Stdout)
	if _, err := eval.Interpret(program); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return fmt.Errorf("execution of %s failed", filename)
	}
	return nil
}

func parseProgram(source string) (*ast.Program, []*parser.Error) {
	l := lexer.New(source)
	p := parser.New(l)
	program := p.ParseProgram()
	return program, p.Errors()
}
