// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors and a catalog of Markdown guidance
// for the failures a user can fix on their own: broken configuration files,
// modules that fail to load, conflicting flags and failing module scripts.
package issue
