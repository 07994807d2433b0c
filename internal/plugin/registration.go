// SPDX-License-Identifier: MPL-2.0

package plugin

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/pflag"
)

// ErrNoConstructor is returned by Registration.New when no constructor was
// registered.
var ErrNoConstructor = errors.New("module has no constructor")

// Registration is the Loader implementation used by compiled modules.
type Registration struct {
	// Type is the declared implementation name, e.g. "NoteUpload".
	Type string
	// Docs is the documentation block.
	Docs string
	// Group is the help group; empty means CapabilityOther.
	Group Capability
	// Provenance is Core for modules shipped in this repository and
	// Community for compiled-in community modules.
	Provenance Provenance
	// Flags declares module flags; nil declares none.
	Flags func(fs *pflag.FlagSet)
	// ExclusiveFlags lists groups of flags declared by Flags that cannot be
	// combined.
	ExclusiveFlags [][]string
	// Constructor builds the module.
	Constructor func(env *Env) (Module, error)
}

var (
	_ Loader      = Registration{}
	_ FlagGrouper = Registration{}
)

// TypeName implements Loader.
func (r Registration) TypeName() string { return r.Type }

// Doc implements Loader.
func (r Registration) Doc() string { return r.Docs }

// Capability implements Loader.
func (r Registration) Capability() Capability { return r.Group.Normalize() }

// AddArguments implements Loader.
func (r Registration) AddArguments(fs *pflag.FlagSet) {
	if r.Flags != nil {
		r.Flags(fs)
	}
}

// ExclusiveFlagGroups implements FlagGrouper.
func (r Registration) ExclusiveFlagGroups() [][]string { return r.ExclusiveFlags }

// New implements Loader.
func (r Registration) New(env *Env) (Module, error) {
	if r.Constructor == nil {
		return nil, fmt.Errorf("%s: %w", r.Type, ErrNoConstructor)
	}
	return r.Constructor(env)
}

// HasConstructor reports whether New can succeed.
func (r Registration) HasConstructor() bool { return r.Constructor != nil }

// ModuleFunc adapts a function to Module.
type ModuleFunc func(ctx context.Context) error

// Run implements Module.
func (f ModuleFunc) Run(ctx context.Context) error { return f(ctx) }
