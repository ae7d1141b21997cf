// Package main is the entry point for surface, a draggable-rectangle demo
// driven by a frame-paced mouse state machine.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dshills/surface/internal/app"
	"github.com/dshills/surface/internal/config"
	"github.com/dshills/surface/internal/renderer/backend"
	"github.com/dshills/surface/internal/window"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type flags struct {
	configPath string
	logLevel   string
	logFile    string
	replay     string
	headless   bool
}

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var f flags

	root := &cobra.Command{
		Use:   "surface",
		Short: "Drag rectangles around a terminal window",
		Long: `surface opens a window (the terminal, or a headless replay) and lets the
mouse drag rectangles around it. Press and hold a button over a rectangle
for a few frames to pick it up; release to drop it. Escape or q quits.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSurface(cmd.Context(), f, stderr)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVarP(&f.configPath, "config", "c", "", "path to a TOML or YAML config file")
	root.Flags().StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error); overrides config")
	root.Flags().StringVar(&f.logFile, "log-file", "", "append logs to this file; overrides config")
	root.Flags().StringVar(&f.replay, "replay", "", "replay a YAML mouse script instead of reading the terminal")
	root.Flags().BoolVar(&f.headless, "headless", false, "run without a terminal until interrupted")

	root.AddCommand(newValidateCmd(&f, stdout))
	return root
}

func newValidateCmd(f *flags, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check a config file and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(f.configPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "ok: %d element(s), %d fps, hold %d frames\n",
				len(cfg.Elements), cfg.Frame.FPS, cfg.Input.HoldFrames)
			return nil
		},
	}
}

func runSurface(ctx context.Context, f flags, stderr io.Writer) error {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if f.logLevel != "" {
		if _, err := config.ParseLevel(f.logLevel); err != nil {
			return err
		}
		cfg.Log.Level = f.logLevel
	}
	if f.logFile != "" {
		cfg.Log.File = f.logFile
	}

	b, interactive, err := openBackend(f, cfg)
	if err != nil {
		return err
	}

	// The terminal owns stderr while it is running.
	var out io.Writer = stderr
	closeLog := func() error { return nil }
	if cfg.Log.File != "" || interactive {
		out, closeLog, err = app.OpenLogOutput(cfg.Log.File)
		if err != nil {
			return err
		}
	}
	defer closeLog()

	logger := app.NewLogger(app.LoggerConfig{
		Level:  app.ParseLogLevel(cfg.Log.Level),
		Output: out,
		Prefix: "surface",
	})
	defer logger.Sync()

	opts, err := app.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}
	opts.Logger = logger

	if f.configPath != "" {
		w, err := config.NewWatcher(f.configPath)
		if err != nil {
			logger.Warn("config reload disabled: %v", err)
		} else {
			defer w.Close()
			opts.Reloads = w.Updates()
			opts.ReloadErrors = w.Errors()
		}
	}

	elements, err := app.ElementsFromConfig(cfg)
	if err != nil {
		return err
	}

	platform := window.NewPlatform()
	defer platform.CloseAll()

	h, err := platform.Open(cfg.Window.Title, b)
	if err != nil {
		return err
	}

	ui, err := app.New(platform, h, elements, opts)
	if err != nil {
		return err
	}
	return ui.Run(ctx)
}

// openBackend picks the window backend. It reports whether the backend
// draws to the controlling terminal.
func openBackend(f flags, cfg *config.Config) (backend.Backend, bool, error) {
	switch {
	case f.replay != "":
		s, err := backend.LoadScript(f.replay)
		if err != nil {
			return nil, false, err
		}
		return backend.NewScriptBackend(s), false, nil
	case f.headless:
		return backend.NewNullBackend(cfg.Window.Width, cfg.Window.Height), false, nil
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return nil, false, errors.New("stdout is not a terminal; use --headless or --replay")
	}
	t, err := backend.NewTerminal()
	if err != nil {
		return nil, false, fmt.Errorf("creating terminal: %w", err)
	}
	return t, true, nil
}
