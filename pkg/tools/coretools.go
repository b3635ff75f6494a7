package tools

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nmelo/supreme/pkg/resources"
	"github.com/nmelo/supreme/pkg/shell"
)

// CommandRunner executes shell command lines with captured output
type CommandRunner interface {
	Execute(ctx context.Context, req shell.ExecuteRequest) (shell.ExecuteResult, error)
}

// Options configures core tool registration
type Options struct {
	Resources *resources.SystemResources
	Shell     CommandRunner
}

// RegisterCoreTools registers the fixed set of browser, file, shell, and
// screenshot tools. The registry contents never change after setup.
func RegisterCoreTools(registry *Registry, opts Options) error {
	if registry == nil {
		return errors.New("registry is required")
	}
	if opts.Resources == nil {
		return errors.New("system resources are required")
	}
	if opts.Shell == nil {
		return errors.New("shell runner is required")
	}

	defs := []Definition{
		browserOpenTool(opts),
		browserSearchTool(opts),
		codeWriteTool(opts),
		codeSaveTool(opts),
		terminalRunTool(opts),
		gitCommandTool(opts),
		takeScreenshotTool(opts),
	}

	for _, def := range defs {
		if err := registry.Register(def); err != nil {
			return fmt.Errorf("failed to register tool %s: %w", def.Name, err)
		}
	}
	return nil
}

func browserOpenTool(opts Options) Definition {
	return Definition{
		Name:        "browser_open",
		Description: "Open a browser, launching the driver if one is not already running.",
		Handler: func(ctx context.Context, params map[string]interface{}) (string, error) {
			if opts.Resources.SetupBrowser() == nil {
				return "Failed to initialize browser", nil
			}
			return "Browser initialized successfully", nil
		},
	}
}

func browserSearchTool(opts Options) Definition {
	return Definition{
		Name:        "browser_search",
		Description: "Perform a web search and retrieve the first result's title and link.",
		Parameters: []Parameter{
			{Name: "query", Type: "string", Description: "Search query", Required: true},
		},
		Handler: func(ctx context.Context, params map[string]interface{}) (string, error) {
			query, _ := params["query"].(string)
			return opts.Resources.Search(query), nil
		},
	}
}

func codeWriteTool(opts Options) Definition {
	return Definition{
		Name:        "code_write",
		Description: "Write code to a file in the working directory and open an editor on it.",
		Parameters: []Parameter{
			{Name: "code", Type: "string", Description: "File contents", Required: true},
			{Name: "filename", Type: "string", Description: "Target filename", Required: true},
		},
		Handler: func(ctx context.Context, params map[string]interface{}) (string, error) {
			code, _ := params["code"].(string)
			filename, _ := params["filename"].(string)

			target := resolvePath(opts.Resources.WorkDir(), filename)
			if err := os.WriteFile(target, []byte(code), 0644); err != nil {
				return fmt.Sprintf("Error writing code: %v", err), nil
			}

			// Best effort; the write already succeeded
			opts.Resources.MaybeOpenEditor(filename)

			return fmt.Sprintf("Code written to %s", filename), nil
		},
	}
}

func codeSaveTool(opts Options) Definition {
	return Definition{
		Name:        "code_save",
		Description: "Confirm a previously written file exists. Contents are already persisted by code_write.",
		Parameters: []Parameter{
			{Name: "filename", Type: "string", Description: "Filename to check", Required: true},
		},
		Handler: func(ctx context.Context, params map[string]interface{}) (string, error) {
			filename, _ := params["filename"].(string)

			target := resolvePath(opts.Resources.WorkDir(), filename)
			if _, err := os.Stat(target); err != nil {
				return fmt.Sprintf("File %s not found", filename), nil
			}
			return fmt.Sprintf("File %s saved", filename), nil
		},
	}
}

func terminalRunTool(opts Options) Definition {
	return Definition{
		Name:        "terminal_run",
		Description: "Run a shell command synchronously and capture its output.",
		Parameters: []Parameter{
			{Name: "command", Type: "string", Description: "Command line to execute", Required: true},
		},
		Handler: func(ctx context.Context, params map[string]interface{}) (string, error) {
			command, _ := params["command"].(string)
			return runCommand(ctx, opts, command), nil
		},
	}
}

func gitCommandTool(opts Options) Definition {
	return Definition{
		Name:        "git_command",
		Description: "Run a git subcommand in the working directory.",
		Parameters: []Parameter{
			{Name: "command", Type: "string", Description: "Git subcommand and arguments", Required: true},
		},
		Handler: func(ctx context.Context, params map[string]interface{}) (string, error) {
			command, _ := params["command"].(string)
			return runCommand(ctx, opts, "git "+command), nil
		},
	}
}

func takeScreenshotTool(opts Options) Definition {
	return Definition{
		Name:        "take_screenshot",
		Description: "Capture a screenshot of the current browser page as a base64 string.",
		Handler: func(ctx context.Context, params map[string]interface{}) (string, error) {
			return opts.Resources.Screenshot(), nil
		},
	}
}

// runCommand maps a shell execution onto the tool boundary convention:
// stdout if any, else stderr, else a generic marker; hard failures become
// descriptive strings.
func runCommand(ctx context.Context, opts Options, command string) string {
	// Best effort; the command runs either way
	opts.Resources.MaybeOpenTerminal()

	res, err := opts.Shell.Execute(ctx, shell.ExecuteRequest{
		Command:    command,
		WorkingDir: opts.Resources.WorkDir(),
	})
	if err != nil {
		return fmt.Sprintf("Command error: %v", err)
	}

	if len(res.Stdout) > 0 {
		return string(res.Stdout)
	}
	if len(res.Stderr) > 0 {
		return string(res.Stderr)
	}
	return "Command executed"
}

// resolvePath resolves a filename against the scratch working directory
func resolvePath(workDir, filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(workDir, filename)
}
