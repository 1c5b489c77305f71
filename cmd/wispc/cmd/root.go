package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Version information, set by build flags.
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "wispc",
	Short: "wisp compiler front end",
	Long: `wispc drives the wisp language's single-pass lexer/parser/compiler
front end: it lexes source into tokens, compiles it straight to bytecode
with no intermediate syntax tree, and can print the result.

This CLI exercises the compiler only — it has no bytecode interpreter, so
"compile" shows you the emitted instructions rather than running them.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, color.RedString("Error: ")+msg+"\n", args...)
	os.Exit(1)
}
