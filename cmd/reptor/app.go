// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/reptor/reptor/internal/config"
	"github.com/reptor/reptor/internal/console"
	"github.com/reptor/reptor/internal/discovery"
	"github.com/reptor/reptor/internal/plugin"
)

type (
	// App wires the CLI services for one process. It is the composition
	// root: the command tree, the dispatcher and the modules all receive
	// their dependencies from it.
	App struct {
		Config   *config.Store
		Logger   *log.Logger
		Console  *console.Console
		Registry *plugin.Registry

		locations []discovery.Location
		stdin     io.Reader
		stdout    io.Writer
		stderr    io.Writer

		mu      sync.Mutex
		state   State
		invoked string
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config   *config.Store
		Logger   *log.Logger
		Registry *plugin.Registry
		// Locations overrides discovery.DefaultLocations.
		Locations []discovery.Location
		Stdin     io.Reader
		Stdout    io.Writer
		Stderr    io.Writer
	}
)

// NewApp creates an App, filling unset dependencies with the shared store,
// the default registry and the process streams.
func NewApp(deps Dependencies) *App {
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Logger == nil {
		deps.Logger = console.NewLogger(deps.Stderr)
	}
	if deps.Config == nil {
		deps.Config = config.Shared()
	}
	if deps.Registry == nil {
		deps.Registry = plugin.DefaultRegistry
	}
	return &App{
		Config:    deps.Config,
		Logger:    deps.Logger,
		Console:   console.New(deps.Stdout),
		Registry:  deps.Registry,
		locations: deps.Locations,
		stdin:     deps.Stdin,
		stdout:    deps.Stdout,
		stderr:    deps.Stderr,
	}
}

// Command loads the configuration, discovers the modules and composes the
// command tree. A configuration that cannot be loaded is reported as a
// warning; the remaining layers still apply.
func (a *App) Command(ctx context.Context) (*cobra.Command, error) {
	if err := a.Config.Load(ctx); err != nil {
		a.Logger.Warn(formatErrorForDisplay(err, false))
	}
	console.ApplyLevel(a.Logger, a.Config.GetString(config.KeyLogLevel))

	locations := a.locations
	if locations == nil {
		locations = discovery.DefaultLocations(a.Config, a.Registry)
	}
	res, err := discovery.Discover(ctx, locations,
		discovery.WithLogger(a.Logger),
		discovery.WithFlagProbe(GlobalFlagProbe),
	)
	if err != nil {
		return nil, err
	}
	return Compose(a, res), nil
}

// Run composes the command tree and executes it with argv, which excludes
// the program name.
func (a *App) Run(ctx context.Context, argv []string) error {
	a.setState(StateIdle)
	root, err := a.Command(ctx)
	if err != nil {
		return err
	}
	root.SetArgs(argv)
	root.SilenceErrors = true
	root.SilenceUsage = true
	return root.ExecuteContext(ctx)
}

// State returns the dispatcher state reached by the last run.
func (a *App) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Invoked returns the name of the module the last run dispatched to, or ""
// when none was.
func (a *App) Invoked() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.invoked
}

func (a *App) setState(s State) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = s
	if s == StateIdle {
		a.invoked = ""
	}
	a.Logger.Debug("dispatch", "state", s)
}
