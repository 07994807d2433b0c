// SPDX-License-Identifier: MPL-2.0

// Package plugins implements the "plugins" core module, which lists the
// active modules, shows one module's documentation and reports what
// discovery skipped or overrode.
package plugins

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/reptor/reptor/internal/discovery"
	"github.com/reptor/reptor/internal/issue"
	"github.com/reptor/reptor/internal/plugin"
)

const docs = `
Lists available modules

Author: reptor
License: MIT
Tags: core, plugins

Short Help:
Lists available modules

Description:
Prints every active module with its origin. A module that replaced
another one of the same name is marked with the origin it overwrote.
`

const (
	flagVerboseList = "verbose-list"
	flagShow        = "show"
	flagDiagnostics = "diagnostics"
)

// ErrNoCatalog is returned when the module runs without a catalog.
var ErrNoCatalog = errors.New("no module catalog available")

func init() {
	plugin.Register(plugin.Registration{
		Type:        "Plugins",
		Docs:        docs,
		Group:       plugin.CapabilityCore,
		Provenance:  plugin.Core,
		Flags:       addFlags,
		Constructor: New,
	})
}

func addFlags(fs *pflag.FlagSet) {
	fs.Bool(flagVerboseList, false, "Include tags, author, version and path")
	fs.String(flagShow, "", "Show the full documentation of one module")
	fs.Bool(flagDiagnostics, false, "Show modules that were skipped or overridden")
}

// Module is the plugins module.
type Module struct {
	env         *plugin.Env
	verboseList bool
	show        string
	diagnostics bool
}

// New constructs the module from its parsed flags.
func New(env *plugin.Env) (plugin.Module, error) {
	if env.Catalog == nil {
		return nil, ErrNoCatalog
	}
	m := &Module{env: env}
	if env.Flags != nil {
		m.verboseList, _ = env.Flags.GetBool(flagVerboseList)
		m.show, _ = env.Flags.GetString(flagShow)
		m.diagnostics, _ = env.Flags.GetBool(flagDiagnostics)
	}
	return m, nil
}

// Run implements plugin.Module.
func (m *Module) Run(context.Context) error {
	switch {
	case m.show != "":
		return m.showModule(m.show)
	case m.diagnostics:
		return m.showDiagnostics()
	default:
		m.list()
		return nil
	}
}

func (m *Module) list() {
	out := m.env.Console
	out.Display("Available modules:")
	for _, d := range m.env.Catalog.All() {
		out.Print("  %s", listLine(d))
		if !m.verboseList {
			continue
		}
		if len(d.Tags) > 0 {
			out.Print("      tags: %s", strings.Join(d.Tags, ", "))
		}
		if d.Author != "" {
			out.Print("      author: %s", d.Author)
		}
		if d.Version != "" {
			out.Print("      version: %s", d.Version)
		}
		out.Print("      path: %s", d.Path)
	}
}

// listLine renders "<padded name> <short help> (<Provenance>)", with an
// "overwrites <provenance>" marker when the module replaced another.
func listLine(d *plugin.Descriptor) string {
	origin := d.Provenance.Label()
	if d.Overwrites != nil {
		origin += ", overwrites " + d.Overwrites.Provenance.String()
	}
	return fmt.Sprintf("%s %s (%s)", d.PaddedName(), d.ShortHelp, origin)
}

func (m *Module) showModule(name string) error {
	d, ok := m.env.Catalog.Lookup(strings.ToLower(name))
	if !ok {
		return issue.NewErrorContext().
			WithOperation("show module").
			WithResource(name).
			WithSuggestion("Run 'reptor plugins' to list the available modules").
			WithIssue(issue.ModuleNotFoundId).
			BuildError()
	}
	return m.env.Console.Markdown(moduleMarkdown(d))
}

func moduleMarkdown(d *plugin.Descriptor) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", d.Name)
	if d.ShortHelp != "" {
		fmt.Fprintf(&b, "%s\n\n", d.ShortHelp)
	}
	if d.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", d.Description)
	}
	fmt.Fprintf(&b, "- **Origin:** %s\n", d.Provenance.Label())
	fmt.Fprintf(&b, "- **Group:** %s\n", d.Capability.Title())
	for _, field := range []struct{ label, value string }{
		{"Author", d.Author},
		{"Version", d.Version},
		{"Website", d.Website},
		{"License", d.License},
		{"Tags", strings.Join(d.Tags, ", ")},
	} {
		if field.value != "" {
			fmt.Fprintf(&b, "- **%s:** %s\n", field.label, field.value)
		}
	}
	fmt.Fprintf(&b, "- **Path:** `%s`\n", d.Path)
	if d.Overwrites != nil {
		fmt.Fprintf(&b, "- **Overwrites:** %s module from `%s`\n", d.Overwrites.Provenance, d.Overwrites.Path)
	}
	return b.String()
}

func (m *Module) showDiagnostics() error {
	res, ok := m.env.Catalog.(*discovery.Result)
	if !ok || len(res.Diagnostics) == 0 {
		m.env.Console.Success("No discovery diagnostics.")
		return nil
	}
	verbose := m.env.Config != nil && m.env.Config.CLIBool("verbose")
	for _, d := range res.Diagnostics {
		if d.Severity == discovery.SeverityError {
			m.env.Console.Fail("%s", d.String())
		} else {
			m.env.Console.Highlight("%s", d.String())
		}
		if !verbose || d.Issue == 0 {
			continue
		}
		if i := issue.Get(d.Issue); i != nil {
			if err := m.env.Console.Markdown(string(i.MarkdownMsg())); err != nil {
				return err
			}
		}
	}
	return nil
}
