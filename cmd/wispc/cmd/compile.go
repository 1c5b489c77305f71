package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/skyfish4tb/wisp/pkg/wisp"
	"github.com/spf13/cobra"
)

var (
	compileEval  string
	compileQuiet bool
)

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compile wisp source and print constants and disassembled bytecode",
	Long: `Compile a wisp program to bytecode and print its constant pool and
disassembly. Diagnostics, if any, are printed instead and the command exits
non-zero.

Examples:
  wispc compile script.wisp
  wispc compile -e "puts 1 + 2;"`,
	Args: cobra.MaximumNArgs(1),
	RunE: compileScript,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVarP(&compileEval, "eval", "e", "", "compile inline source instead of reading from a file")
	compileCmd.Flags().BoolVarP(&compileQuiet, "quiet", "q", false, "suppress the constant pool listing")
}

func compileScript(cmd *cobra.Command, args []string) error {
	source, label, err := readInput(compileEval, args)
	if err != nil {
		return err
	}

	result := wisp.Compile(source)
	if !result.Success {
		for _, d := range result.Diagnostics {
			fmt.Println(color.RedString(d.Error()))
		}
		return fmt.Errorf("compilation of %s failed with %d diagnostic(s)", label, len(result.Diagnostics))
	}

	if !compileQuiet {
		printConstants(result.Function)
	}
	fmt.Print(wisp.Disassemble(result.Function, label))
	return nil
}

func printConstants(fn *wisp.Function) {
	fmt.Printf("constants (%d):\n", len(fn.Chunk.Constants))
	for i, c := range fn.Chunk.Constants {
		fmt.Printf("  [%d] %v\n", i, c)
	}
}
