// Package cli implements the foldview command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/lennartvogel/foldview/pkg/buildinfo"
	"github.com/lennartvogel/foldview/pkg/pipeline"
	"github.com/lennartvogel/foldview/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "foldview"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config
}

// New creates a new CLI instance with a default logger and the config
// loaded from the default location.
func New(w io.Writer, level log.Level) *CLI {
	c := &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
	cfg, err := LoadConfig("")
	if err != nil {
		c.Logger.Warn("config not loaded, using defaults", "err", err)
		cfg = DefaultConfig()
	}
	c.Config = cfg
	return c
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "foldview",
		Short:        "Foldview folds diagrams to what fits the viewport",
		Long:         `Foldview decides which regions of a nested diagram stay expanded for a given viewport, and translates node drags into layered-layout constraints. It works on serialized diagram models, either one-shot from the command line or as a sidecar HTTP server for an editor front end.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured constraint
// store. The returned closer shuts the store down; it is non-nil even when
// no store is configured.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, func(), error) {
	st, err := c.newStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	closer := func() {}
	if st != nil {
		closer = func() {
			if err := st.Close(); err != nil {
				c.Logger.Warn("close store", "err", err)
			}
		}
	}
	return pipeline.NewRunner(st, c.Logger), closer, nil
}

// newStore builds the constraint store named by the config. An empty or
// "none" backend disables persistence.
func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	return openStore(ctx, c.Config.Store)
}

// pipelineOptions converts config values to pipeline options.
func (c *CLI) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		Threshold: c.Config.Threshold,
		Buffer:    c.Config.Buffer,
		Direction: c.Config.LayoutDirection(),
	}
}

// =============================================================================
// Paths
// =============================================================================

// dataDir returns the data directory using XDG standard (~/.local/share/foldview/).
func dataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName), nil
}
