package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// TaskExecutor runs one task to completion and returns the result text
type TaskExecutor interface {
	Execute(ctx context.Context, task, initialInput string) string
}

const banner = `Supreme Agent with Browser and Code Capabilities
Available tasks:
  - Web search (e.g. "search for the latest Go release")
  - Write code to files (e.g. "write a hello world script in Python")
  - Run shell and git commands
  - Take screenshots of search results
Type 'exit' to quit`

// RunInteractionLoop reads tasks line by line and executes each one.
// A case-insensitive "exit" ends the session.
func RunInteractionLoop(ctx context.Context, in io.Reader, out io.Writer, exec TaskExecutor) error {
	fmt.Fprintln(out, banner)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}

		task := strings.TrimSpace(scanner.Text())
		if task == "" {
			continue
		}
		if strings.EqualFold(task, "exit") {
			fmt.Fprintln(out, "Goodbye!")
			return nil
		}

		result := exec.Execute(ctx, task, "")
		fmt.Fprintf(out, "\nTask completed. Result: %s\n", result)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("input error: %w", err)
	}
	return nil
}
