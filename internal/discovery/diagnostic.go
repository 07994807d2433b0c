// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"fmt"

	"github.com/reptor/reptor/internal/issue"
)

const (
	// SeverityWarning indicates a recoverable discovery warning.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a candidate that was left out.
	SeverityError Severity = "error"
)

// Diagnostic codes.
const (
	CodeLoadFailed    = "module_load_failed"
	CodeInvalidName   = "module_invalid_name"
	CodeNoConstructor = "module_no_constructor"
	CodeFlagConflict  = "module_flag_conflict"
	CodePanic         = "module_panic"
	CodeMissingDocs   = "module_missing_docs"
	CodeOverridden    = "module_overridden"
	CodeDirUnreadable = "module_dir_unreadable"
)

type (
	// Severity represents discovery diagnostic severity.
	Severity string

	// Diagnostic is a non-fatal discovery finding returned to the caller
	// instead of being written to stderr.
	Diagnostic struct {
		Severity Severity
		// Code is a machine-readable identifier such as "module_flag_conflict".
		Code    string
		Message string
		// Module is the module name, when known.
		Module string
		// Path is the manifest path or builtin:<name>.
		Path string
		// Issue links to remediation guidance; zero means none.
		Issue issue.Id
		// Cause is the underlying error, if any.
		Cause error
	}
)

// String renders the diagnostic on one line.
func (d Diagnostic) String() string {
	msg := fmt.Sprintf("%s: %s", d.Severity, d.Message)
	if d.Path != "" {
		msg += " (" + d.Path + ")"
	}
	if d.Cause != nil {
		msg += ": " + d.Cause.Error()
	}
	return msg
}

func errorDiagnostic(code, module, path string, id issue.Id, cause error, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: SeverityError,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Module:   module,
		Path:     path,
		Issue:    id,
		Cause:    cause,
	}
}

func warningDiagnostic(code, module, path string, id issue.Id, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: SeverityWarning,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Module:   module,
		Path:     path,
		Issue:    id,
	}
}
