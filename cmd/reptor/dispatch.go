// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reptor/reptor/internal/console"
	"github.com/reptor/reptor/internal/plugin"
)

// State is a dispatcher lifecycle state.
type State int

const (
	// StateIdle is the state before parsing starts.
	StateIdle State = iota
	// StateParsingGlobal is entered while cobra parses the global flags.
	StateParsingGlobal
	// StateParsingResidual is entered once the subcommand's own flags are
	// parsed as well.
	StateParsingResidual
	// StateConfiguringStore covers the fold of the parsed flags into the
	// configuration store.
	StateConfiguringStore
	// StateNoMatch means no module was selected and help was printed.
	StateNoMatch
	// StateInvoking means a module is being constructed and run.
	StateInvoking
	// StateTerminal means the selected module returned.
	StateTerminal
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateParsingGlobal:
		return "parsing-global"
	case StateParsingResidual:
		return "parsing-residual"
	case StateConfiguringStore:
		return "configuring-store"
	case StateNoMatch:
		return "no-match"
	case StateInvoking:
		return "invoking"
	case StateTerminal:
		return "terminal"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// configure runs before any command: it rejects conflicting flags, sets the
// log level, folds the flags into the store and seals it. cobra has parsed
// the whole argv by now, global flags included wherever they appeared.
func (a *App) configure(cmd *cobra.Command, _ []string) error {
	a.setState(StateParsingGlobal)
	if err := cmd.ValidateFlagGroups(); err != nil {
		return err
	}
	a.setState(StateParsingResidual)

	if verbose, _ := cmd.Flags().GetBool(FlagVerbose); verbose {
		console.SetVerbose(a.Logger, true)
	}

	a.setState(StateConfiguringStore)
	if err := a.Config.Fold(cmd.Flags()); err != nil {
		return fmt.Errorf("fold flags into configuration: %w", err)
	}
	a.Config.Seal()
	return nil
}

// noMatch handles an invocation without a module name.
func (a *App) noMatch(cmd *cobra.Command, _ []string) error {
	a.setState(StateNoMatch)
	return cmd.Help()
}

// invoke constructs the selected module and runs it once.
func (a *App) invoke(cmd *cobra.Command, catalog plugin.Catalog, d *plugin.Descriptor, args []string) error {
	a.setState(StateInvoking)
	a.mu.Lock()
	a.invoked = d.Name
	a.mu.Unlock()

	env := &plugin.Env{
		Config:   a.Config,
		Logger:   a.Logger.With("module", d.Name),
		Console:  a.Console,
		Catalog:  catalog,
		NoteName: a.Config.CLIString(FlagNoteName),
		File:     a.Config.CLIString(flagFile),
		Args:     args,
		Flags:    cmd.Flags(),
		Stdin:    a.stdin,
		Stdout:   a.stdout,
		Stderr:   a.stderr,
	}

	m, err := d.Loader.New(env)
	if err != nil {
		return fmt.Errorf("%s: %w", d.Name, err)
	}
	a.Logger.Debug("running module", "module", d.Name, "provenance", d.Provenance, "path", d.Path)
	err = m.Run(cmd.Context())
	a.setState(StateTerminal)
	return err
}
