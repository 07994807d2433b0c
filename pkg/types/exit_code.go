// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

const (
	// ExitSuccess is returned for success and for help output.
	ExitSuccess ExitCode = 0
	// ExitFailure is returned for usage errors and module errors without a code.
	ExitFailure ExitCode = 1
)

type (
	// ExitCode is a process exit status in the POSIX range 0-255.
	ExitCode int

	// InvalidExitCodeError is returned when an ExitCode is outside 0-255.
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

// Error implements the error interface.
func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d (must be in range 0-255)", e.Value)
}

// Unwrap returns ErrInvalidExitCode.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// Validate returns an error if the code is outside 0-255.
func (c ExitCode) Validate() error {
	if c < 0 || c > 255 {
		return &InvalidExitCodeError{Value: c}
	}
	return nil
}

// IsSuccess reports whether c is zero.
func (c ExitCode) IsSuccess() bool { return c == ExitSuccess }

// Normalize maps out-of-range codes to ExitFailure so a failing module never
// exits with status 0 after truncation by the operating system.
func (c ExitCode) Normalize() ExitCode {
	if c.Validate() != nil {
		return ExitFailure
	}
	return c
}

// String returns the decimal representation.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
