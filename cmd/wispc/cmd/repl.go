package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/skyfish4tb/wisp/pkg/wisp"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactively compile and disassemble one statement at a time",
	Long: `Start an interactive loop: each line you enter is compiled as its own
top-level script and its bytecode is disassembled immediately. There is no
virtual machine behind this command, so nothing is executed.`,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runRepl(cmd *cobra.Command, args []string) error {
	rl, err := readline.New(color.CyanString("wisp> "))
	if err != nil {
		return fmt.Errorf("starting readline: %w", err)
	}
	defer rl.Close()

	fmt.Println("wispc repl — each line compiles as its own script; Ctrl-D to exit.")
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if line == "" {
			continue
		}
		replEval(line)
	}
}

func replEval(line string) {
	result := wisp.Compile(line)
	if !result.Success {
		for _, d := range result.Diagnostics {
			fmt.Println(color.RedString(d.Error()))
		}
		return
	}
	fmt.Print(wisp.Disassemble(result.Function, "repl"))
}
