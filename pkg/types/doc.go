// SPDX-License-Identifier: MPL-2.0

// Package types defines small validated value types shared across reptor
// packages. It is a leaf package that imports only the standard library.
package types
