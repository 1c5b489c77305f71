package cmd

import (
	"fmt"
	"os"
)

// readInput resolves a command's source argument: an inline string from
// --eval takes precedence over a file path; with neither, it's an error.
func readInput(eval string, args []string) (source, label string, err error) {
	if eval != "" {
		return eval, "<eval>", nil
	}
	if len(args) == 1 {
		content, readErr := os.ReadFile(args[0])
		if readErr != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], readErr)
		}
		return string(content), args[0], nil
	}
	return "", "", fmt.Errorf("either provide a file path or use -e/--eval for inline source")
}
