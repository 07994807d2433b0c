// SPDX-License-Identifier: MPL-2.0

package plugin

import (
	"fmt"

	"github.com/reptor/reptor/pkg/types"
)

// ExitError lets a module choose the process exit code without calling
// os.Exit.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

// Error returns the wrapped message, or "exit status N".
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}
