// SPDX-License-Identifier: MPL-2.0

// Package console provides the shared output services handed to every module:
// a leveled logger built on charmbracelet/log and a Console that prints
// styled, user-facing messages with lipgloss.
package console
