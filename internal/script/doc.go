// SPDX-License-Identifier: MPL-2.0

// Package script runs module scripts in the embedded mvdan.cc/sh POSIX shell
// interpreter, so manifest modules behave the same on every platform without
// a system shell.
package script
