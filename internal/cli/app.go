package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nmelo/supreme/internal/config"
	"github.com/nmelo/supreme/internal/logger"
	"github.com/nmelo/supreme/pkg/agent"
	"github.com/nmelo/supreme/pkg/analyzer"
	"github.com/nmelo/supreme/pkg/orchestrator"
	"github.com/nmelo/supreme/pkg/resources"
	"github.com/nmelo/supreme/pkg/shell"
	"github.com/nmelo/supreme/pkg/tools"
)

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	lg, err := logger.New(logger.Config{
		Level:   cfg.Logging.Level,
		File:    cfg.Logging.File,
		Console: cfg.Logging.Console,
		Pretty:  cfg.Logging.Pretty,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer lg.Close()
	zlog := lg.GetZerolog()

	sys, err := resources.New(resources.Config{
		Headless:         cfg.Browser.Headless,
		NoSandbox:        cfg.Browser.NoSandbox,
		SearchURL:        cfg.Browser.SearchURL,
		ResultSelector:   cfg.Browser.ResultSelector,
		SearchTimeout:    time.Duration(cfg.Browser.SearchTimeout) * time.Second,
		EditorCommands:   cfg.Desktop.EditorCommands,
		TerminalCommands: cfg.Desktop.TerminalCommands,
		ScratchRoot:      cfg.ScratchRoot,
	}, zlog)
	if err != nil {
		return fmt.Errorf("failed to initialize system resources: %w", err)
	}

	registry := tools.NewRegistry()
	if err := tools.RegisterCoreTools(registry, tools.Options{
		Resources: sys,
		Shell:     shell.NewHostRunner(0),
	}); err != nil {
		return fmt.Errorf("failed to register tools: %w", err)
	}

	provider, err := agent.NewProvider(cfg.Provider.Name, cfg.Provider.APIKey)
	if err != nil {
		return fmt.Errorf("failed to initialize provider: %w", err)
	}

	convRunner, err := agent.NewRunner(agent.RunnerConfig{
		Provider: provider,
		Registry: registry,
		Model:    cfg.Provider.Model,
		Logger:   zlog,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize conversation runner: %w", err)
	}

	orch, err := orchestrator.New(orchestrator.Options{
		Analyzer:  analyzer.New(provider, cfg.Analyzer.Model, zlog),
		Factory:   agent.NewFactory(registry, zlog),
		Runner:    convRunner,
		Registry:  registry,
		Resources: sys,
		Progress:  orchestrator.NewProgress(os.Stdout, 0),
		Logger:    zlog,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize orchestrator: %w", err)
	}

	return RunInteractionLoop(cmd.Context(), os.Stdin, os.Stdout, orch)
}
