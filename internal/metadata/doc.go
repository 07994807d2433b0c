// SPDX-License-Identifier: MPL-2.0

// Package metadata extracts structured documentation from a module's free-text
// documentation block.
//
// The parser is a best-effort scanner, not a validator: every field it cannot
// find, or finds in an ambiguous shape, keeps its zero value. Parse never
// returns an error and never panics.
//
// A documentation block looks like:
//
//	Uploads a note
//
//	# Author: Jane Doe
//	# Version: 1.0
//	# Tags: notes, upload
//
//	# Short Help:
//	Uploads a note
//
//	# Description:
//	Reads stdin and uploads it as a note.
package metadata
