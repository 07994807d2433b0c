// SPDX-License-Identifier: MPL-2.0

package plugin

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/reptor/reptor/internal/config"
	"github.com/reptor/reptor/internal/console"
)

type (
	// Module is a constructed, ready-to-run command implementation.
	Module interface {
		Run(ctx context.Context) error
	}

	// Loader is the static entry point of a module. The core never mutates
	// a loader; it only asks for metadata, lets it declare flags and
	// constructs the module.
	Loader interface {
		// TypeName is the declared implementation name. The module name is
		// its lower-cased form.
		TypeName() string
		// Doc is the raw documentation block fed to the metadata parser.
		Doc() string
		// Capability is the help group.
		Capability() Capability
		// AddArguments declares the module's flags. It may be called more
		// than once, each time with a fresh flag set.
		AddArguments(fs *pflag.FlagSet)
		// New constructs the module for one invocation.
		New(env *Env) (Module, error)
	}

	// FlagGrouper is implemented by loaders whose flags must not be combined.
	// Each group lists flag names of which at most one may be given; the
	// command line is rejected before the configuration is touched.
	FlagGrouper interface {
		ExclusiveFlagGroups() [][]string
	}

	// Catalog is the read-only view of the active modules.
	Catalog interface {
		All() []*Descriptor
		Lookup(name string) (*Descriptor, bool)
		Grouped() []Group
	}

	// Env is everything a module receives from the core.
	Env struct {
		Config  *config.Store
		Logger  *log.Logger
		Console *console.Console
		Catalog Catalog

		// NoteName and File are the --notename and --file values, empty when
		// not given.
		NoteName string
		File     string

		// Args are the positional arguments left after flag parsing.
		Args []string
		// Flags is the parsed flag set of the module's subcommand, global
		// flags included.
		Flags *pflag.FlagSet

		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}
)
