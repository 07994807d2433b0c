// SPDX-License-Identifier: MPL-2.0

package plugin

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// Core modules ship with reptor.
	Core Provenance = iota
	// Community modules are maintained outside the core and installed
	// alongside it.
	Community
	// Private modules belong to the local user and override everything else.
	Private
)

// ErrInvalidProvenance is the sentinel error wrapped by InvalidProvenanceError.
var ErrInvalidProvenance = errors.New("invalid provenance")

type (
	// Provenance is the tier a module was loaded from. Higher tiers win name
	// collisions.
	Provenance int

	// InvalidProvenanceError is returned for unknown provenance names.
	InvalidProvenanceError struct {
		Value string
	}
)

// String returns the lower-case tier name.
func (p Provenance) String() string {
	switch p {
	case Core:
		return "core"
	case Community:
		return "community"
	case Private:
		return "private"
	default:
		return "unknown"
	}
}

// Label returns the capitalized tier name shown to users.
func (p Provenance) Label() string {
	return cases.Title(language.English).String(p.String())
}

// Outranks reports whether a module of tier p replaces one of tier other.
// Equal tiers outrank each other so the later candidate wins.
func (p Provenance) Outranks(other Provenance) bool {
	return p >= other
}

// ParseProvenance parses a tier name case-insensitively.
func ParseProvenance(s string) (Provenance, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "core":
		return Core, nil
	case "community":
		return Community, nil
	case "private":
		return Private, nil
	}
	return Core, &InvalidProvenanceError{Value: s}
}

// Error implements the error interface.
func (e *InvalidProvenanceError) Error() string {
	return fmt.Sprintf("invalid provenance %q (valid: core, community, private)", e.Value)
}

// Unwrap returns ErrInvalidProvenance.
func (e *InvalidProvenanceError) Unwrap() error { return ErrInvalidProvenance }
