// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue/errors"
)

// FormatError flattens a CUE error into "<file>: <path>: <message>" lines,
// with list indices written as "flags[0].kind". An empty filePath omits the
// file prefix. The result unwraps to err.
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	cueErrors := errors.Errors(err)
	lines := make([]string, 0, len(cueErrors))
	for _, e := range cueErrors {
		path := formatPath(errors.Path(e))
		msg := e.Error()
		if path != "" && strings.HasPrefix(msg, path) {
			msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, path), ":"))
		}
		if path != "" {
			msg = path + ": " + msg
		}
		lines = append(lines, msg)
	}

	var msg string
	switch len(lines) {
	case 0:
		msg = err.Error()
	case 1:
		msg = lines[0]
	default:
		msg = "validation failed:\n  " + strings.Join(lines, "\n  ")
	}
	if filePath != "" {
		msg = filePath + ": " + msg
	}
	return &formattedError{msg: msg, cause: err}
}

// formattedError carries the flattened message and keeps the original error
// reachable for errors.Is and errors.As.
type formattedError struct {
	msg   string
	cause error
}

func (e *formattedError) Error() string { return e.msg }

func (e *formattedError) Unwrap() error { return e.cause }

func formatPath(path []string) string {
	var b strings.Builder
	for i, part := range path {
		switch {
		case i > 0 && isIndex(part):
			b.WriteString("[" + part + "]")
		case i > 0:
			b.WriteString("." + part)
		default:
			b.WriteString(part)
		}
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CheckFileSize fails when data exceeds maxSize bytes. An empty filename
// omits the prefix.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) <= maxSize {
		return nil
	}
	if filename == "" {
		return fmt.Errorf("file size %d bytes exceeds maximum %d bytes", len(data), maxSize)
	}
	return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", filename, len(data), maxSize)
}
