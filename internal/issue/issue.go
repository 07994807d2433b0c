// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"

	"github.com/charmbracelet/glamour"
)

// Id identifies a catalog entry.
type Id int

const (
	ConfigLoadFailedId Id = iota + 1
	ModuleLoadFailedId
	ModuleOverriddenId
	FlagConflictId
	ModuleNotFoundId
	MutuallyExclusiveFlagsId
	ScriptFailedId
)

type (
	// MarkdownMsg is guidance text rendered with glamour.
	MarkdownMsg string

	// HttpLink is a documentation URL.
	HttpLink string

	// Issue is a catalog entry.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
	}
)

// Id returns the catalog identifier.
func (i *Issue) Id() Id { return i.id }

// MarkdownMsg returns the raw guidance.
func (i *Issue) MarkdownMsg() MarkdownMsg { return i.mdMsg }

// DocLinks returns a copy of the documentation links.
func (i *Issue) DocLinks() []HttpLink { return slices.Clone(i.docLinks) }

// Render renders the guidance for a terminal. stylePath is a glamour style
// name such as "dark", "light" or "notty".
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.docLinks) > 0 {
		md += "\n\n## See also\n"
		for _, link := range i.docLinks {
			md += "\n- <" + string(link) + ">"
		}
	}
	return render(md, stylePath)
}

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration

reptor could not read its configuration file and continued with defaults,
environment variables and command-line flags.

## Configuration file locations
- ` + "`$REPTOR_CONFIG`" + ` when set
- Linux: ` + "`~/.config/reptor/config.{cue,yaml,yml,toml}`" + `
- macOS: ` + "`~/Library/Application Support/reptor/`" + `
- Windows: ` + "`%APPDATA%\\reptor\\`" + `

## Things you can try
- Fix the syntax reported above
- Rewrite the file interactively with ` + "`reptor conf`",
	}

	moduleLoadFailedIssue = &Issue{
		id: ModuleLoadFailedId,
		mdMsg: `
# A module failed to load

The module was skipped; every other module is still available.

## Things you can try
- Check the manifest against the expected fields: ` + "`type`, `doc`, `script`" + `
- Make sure the type name starts with a letter and uses only letters, digits, ` + "`_` and `-`" + `
- Run ` + "`reptor plugins --diagnostics`" + ` to list every problem`,
	}

	moduleOverriddenIssue = &Issue{
		id: ModuleOverriddenId,
		mdMsg: `
# A module replaces another one

Two modules declare the same name. Private modules win over community
modules, which win over core modules.

## Things you can try
- Rename your module if the override is unintended
- Run ` + "`reptor plugins`" + ` to see which module is active`,
	}

	flagConflictIssue = &Issue{
		id: FlagConflictId,
		mdMsg: `
# A module declares a conflicting flag

Module flags must not reuse the names or shorthands of global flags
(` + "`--server`, `--token`, `--project-id`, `--verbose`" + ` and the others) or
declare the same flag twice.

## Things you can try
- Rename the flag in the module manifest`,
	}

	moduleNotFoundIssue = &Issue{
		id: ModuleNotFoundId,
		mdMsg: `
# Unknown module

No loaded module has this name.

## Things you can try
- Run ` + "`reptor`" + ` without arguments to list the available modules
- Check that private modules live in ` + "`<config dir>/plugins`",
	}

	mutuallyExclusiveFlagsIssue = &Issue{
		id: MutuallyExclusiveFlagsId,
		mdMsg: `
# Conflicting destination flags

` + "`--project-id`" + ` and ` + "`--private-note`" + ` select where output goes and cannot
be combined.

## Things you can try
- Keep only one of the two flags`,
	}

	scriptFailedIssue = &Issue{
		id: ScriptFailedId,
		mdMsg: `
# Module script failed

The module's script exited with a non-zero status.

## Things you can try
- Re-run with ` + "`--verbose`" + ` for debug logs
- Check the ` + "`REPTOR_*`" + ` variables the script relies on`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.id:       configLoadFailedIssue,
		moduleLoadFailedIssue.id:       moduleLoadFailedIssue,
		moduleOverriddenIssue.id:       moduleOverriddenIssue,
		flagConflictIssue.id:           flagConflictIssue,
		moduleNotFoundIssue.id:         moduleNotFoundIssue,
		mutuallyExclusiveFlagsIssue.id: mutuallyExclusiveFlagsIssue,
		scriptFailedIssue.id:           scriptFailedIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int {
		return int(a.id) - int(b.id)
	})
}

// Get returns the entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
