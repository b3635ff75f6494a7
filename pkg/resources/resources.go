// Package resources owns the process-wide system handles: one browser
// driver, one editor marker, one terminal marker, and the scratch working
// directory every file-writing tool resolves against.
package resources

import (
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/rs/zerolog"
)

// Config holds resource manager settings
type Config struct {
	Headless         bool
	NoSandbox        bool
	SearchURL        string // base URL, query appended percent-encoded
	ResultSelector   string // CSS selector for the first result container
	SearchTimeout    time.Duration
	EditorCommands   [][]string
	TerminalCommands [][]string
	ScratchRoot      string // parent for the scratch dir, empty for os.TempDir

	// Spawner overrides how detached processes are started; nil uses the
	// real launcher. Tests inject a stub here.
	Spawner func(argv []string, extraEnv []string) error
}

// SystemResources manages lazily-acquired OS and browser handles.
// At most one browser, one editor, and one terminal are ever owned.
type SystemResources struct {
	cfg    Config
	logger zerolog.Logger

	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher

	editor   string // filename the editor was opened with, empty if none
	terminal bool

	workDir string

	// spawn starts a detached process; replaced in tests
	spawn func(argv []string, extraEnv []string) error
}

// New creates the resource manager, creates the scratch working directory,
// and switches the process into it. The directory is never cleaned up here;
// its lifecycle is external.
func New(cfg Config, logger zerolog.Logger) (*SystemResources, error) {
	workDir, err := os.MkdirTemp(cfg.ScratchRoot, "supreme-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create working directory: %w", err)
	}

	if err := os.Chdir(workDir); err != nil {
		return nil, fmt.Errorf("failed to enter working directory: %w", err)
	}

	logger.Info().Str("dir", workDir).Msg("Changed working directory")

	spawn := cfg.Spawner
	if spawn == nil {
		spawn = spawnDetached
	}

	return &SystemResources{
		cfg:     cfg,
		logger:  logger,
		workDir: workDir,
		spawn:   spawn,
	}, nil
}

// WorkDir returns the scratch working directory path
func (s *SystemResources) WorkDir() string {
	return s.workDir
}

// MaybeOpenEditor opens an editor for the file unless one is already open.
// Once any editor has been opened, later calls report "already open"
// regardless of the filename; this coarse per-process marker is a known
// limitation carried over from the reference behavior.
func (s *SystemResources) MaybeOpenEditor(filename string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.editor != "" {
		s.logger.Info().Str("file", filename).Msg("Editor already open")
		return fmt.Sprintf("Editor already open with %s", filename)
	}

	for _, argv := range s.cfg.EditorCommands {
		cmd := append(append([]string{}, argv...), filename)
		if err := s.spawn(cmd, nil); err != nil {
			s.logger.Warn().Str("editor", argv[0]).Err(err).Msg("Editor command not found")
			continue
		}
		s.editor = filename
		s.logger.Info().Str("file", filename).Str("editor", argv[0]).Msg("Editor opened")
		return fmt.Sprintf("Editor opened for %s", filename)
	}

	s.logger.Error().Msg("Failed to open editor")
	return "Failed to open editor"
}

// MaybeOpenTerminal opens a terminal emulator unless one is already open.
// Same idempotent-launch pattern as MaybeOpenEditor.
func (s *SystemResources) MaybeOpenTerminal() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.terminal {
		s.logger.Info().Msg("Terminal already open")
		return "Terminal already open"
	}

	for _, argv := range s.cfg.TerminalCommands {
		if err := s.spawn(argv, []string{"PS1=$ "}); err != nil {
			s.logger.Warn().Str("terminal", argv[0]).Err(err).Msg("Terminal command not found")
			continue
		}
		s.terminal = true
		s.logger.Info().Str("terminal", argv[0]).Msg("Terminal opened")
		return fmt.Sprintf("Terminal opened using %s", argv[0])
	}

	s.logger.Error().Msg("Failed to open terminal")
	return "Failed to open terminal"
}

// spawnDetached starts a process without waiting for it. The child is
// reaped in the background so it never becomes a zombie.
func spawnDetached(argv []string, extraEnv []string) error {
	cmd := exec.Command(argv[0], argv[1:]...)
	if len(extraEnv) > 0 {
		cmd.Env = append(os.Environ(), extraEnv...)
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait()
	return nil
}
