// SPDX-License-Identifier: MPL-2.0

package plugin

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/reptor/reptor/internal/metadata"
	"github.com/reptor/reptor/pkg/types"
)

const (
	// ShortHelpWidth is the maximum display width of Descriptor.ShortHelp.
	ShortHelpWidth = 50
	// HelpNameWidth is the column width module names are padded to in help.
	HelpNameWidth = 15

	shortHelpTail = "..."
)

type (
	// Descriptor is the parsed, immutable view of one loaded module.
	Descriptor struct {
		Name        string
		Provenance  Provenance
		ShortHelp   string
		Description string
		Tags        []string
		Author      string
		Version     string
		Website     string
		License     string
		Capability  Capability
		// Path is the manifest path, or "builtin:<name>" for compiled modules.
		Path string
		// Docs is the full parse result, kept for detailed listings.
		Docs metadata.Docs
		// Loader is invoked by the dispatcher and never mutated.
		Loader Loader
		// Overwrites is the descriptor this one replaced on a name collision.
		// It is informational only and never dispatched.
		Overwrites *Descriptor
	}

	// Group is one help section.
	Group struct {
		Capability  Capability
		Descriptors []*Descriptor
	}
)

// NewDescriptor parses the loader's documentation and builds its descriptor.
// It does not validate the name; discovery does that.
func NewDescriptor(l Loader, provenance Provenance, path string) *Descriptor {
	docs := metadata.Parse(l.Doc())
	name := types.ModuleNameFromType(l.TypeName()).String()
	if path == "" {
		path = "builtin:" + name
	}

	description := docs.Description
	if description == "" {
		description = docs.Text
	}

	return &Descriptor{
		Name:        name,
		Provenance:  provenance,
		ShortHelp:   TruncateShortHelp(docs.Summary()),
		Description: description,
		Tags:        docs.Tags,
		Author:      docs.Author,
		Version:     docs.Version,
		Website:     docs.Website,
		License:     docs.License,
		Capability:  l.Capability().Normalize(),
		Path:        path,
		Docs:        docs,
		Loader:      l,
	}
}

// TruncateShortHelp cuts s at its first line break and to ShortHelpWidth
// display cells, marking truncation with "...".
func TruncateShortHelp(s string) string {
	s, _, _ = strings.Cut(s, "\n")
	s = strings.TrimSpace(s)
	return runewidth.Truncate(s, ShortHelpWidth, shortHelpTail)
}

// HelpLine is the one-line help summary: the name padded to HelpNameWidth
// columns followed by the short help.
func (d *Descriptor) HelpLine() string {
	name := d.PaddedName()
	if d.ShortHelp == "" {
		return strings.TrimRight(name, " ")
	}
	return name + d.ShortHelp
}

// PaddedName returns Name padded to HelpNameWidth display columns, with at
// least one trailing space.
func (d *Descriptor) PaddedName() string {
	if runewidth.StringWidth(d.Name) >= HelpNameWidth {
		return d.Name + " "
	}
	return runewidth.FillRight(d.Name, HelpNameWidth)
}

// Title returns the group heading.
func (g Group) Title() string {
	return g.Capability.Title()
}
