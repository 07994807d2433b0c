// SPDX-License-Identifier: MPL-2.0

// Package cueutil holds the CUE plumbing shared by the configuration store and
// manifest modules: compile an embedded schema, unify user data with one of
// its definitions, validate, decode into a Go value, and turn CUE errors into
// path-prefixed messages.
//
//	//go:embed manifest_schema.cue
//	var schema []byte
//
//	res, err := cueutil.ParseAndDecode[Manifest](schema, data, "#Manifest",
//	    cueutil.WithFilename(path))
package cueutil
