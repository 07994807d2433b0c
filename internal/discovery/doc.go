// SPDX-License-Identifier: MPL-2.0

// Package discovery finds reptor modules and resolves them into the active
// module set.
//
// Modules come from locations processed in provenance order, core first,
// then community, then private. A location is either the compiled-in
// registry or a directory of CUE manifests laid out as <dir>/<name>.cue or
// <dir>/<name>/<name>.cue. Every candidate is loaded in isolation: one that
// fails to parse, declares an invalid name, has no constructor or declares
// conflicting flags is reported as a Diagnostic and left out, and loading
// continues. When two candidates share a name the later one wins and keeps a
// reference to the one it replaced.
package discovery
