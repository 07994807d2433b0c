// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

var (
	// ErrInvalidModuleName is the sentinel error wrapped by InvalidModuleNameError.
	ErrInvalidModuleName = errors.New("invalid module name")

	moduleNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

	// reservedModuleNames are taken by commands the CLI itself provides.
	reservedModuleNames = []string{"help", "completion", "man"}
)

type (
	// ModuleName is the subcommand name of a module: the lower-cased type
	// name it was declared with.
	ModuleName string

	// InvalidModuleNameError is returned for empty, malformed or reserved
	// module names.
	InvalidModuleNameError struct {
		Value  ModuleName
		Reason string
	}
)

// ModuleNameFromType derives a module name from a declared type name.
func ModuleNameFromType(typeName string) ModuleName {
	return ModuleName(strings.ToLower(strings.TrimSpace(typeName)))
}

// String returns the name.
func (n ModuleName) String() string { return string(n) }

// Validate reports whether n can be used as a subcommand name.
func (n ModuleName) Validate() error {
	switch {
	case n == "":
		return &InvalidModuleNameError{Value: n, Reason: "empty"}
	case !moduleNamePattern.MatchString(string(n)):
		return &InvalidModuleNameError{Value: n, Reason: "must match " + moduleNamePattern.String()}
	case slices.Contains(reservedModuleNames, string(n)):
		return &InvalidModuleNameError{Value: n, Reason: "reserved by the command line"}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidModuleNameError) Error() string {
	return fmt.Sprintf("invalid module name %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidModuleName.
func (e *InvalidModuleNameError) Unwrap() error { return ErrInvalidModuleName }
