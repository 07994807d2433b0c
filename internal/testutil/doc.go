// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Common helpers include environment variable management (MustSetenv,
// MustUnsetenv), file operations (MustMkdirAll, MustWriteFile), isolated
// configuration stores (NewStore, SetConfigDir) and manifest module fixtures
// (WriteManifest).
package testutil
