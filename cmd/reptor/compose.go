// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/reptor/reptor/internal/console"
	"github.com/reptor/reptor/internal/plugin"
)

// Global flag names.
const (
	FlagServer      = "server"
	FlagToken       = "token"
	FlagForceUnlock = "force-unlock"
	FlagInsecure    = "insecure"
	FlagProjectID   = "project-id"
	FlagPrivateNote = "private-note"
	FlagVerbose     = "verbose"
	FlagNoteName    = "notename"
	FlagNoTimestamp = "no-timestamp"

	// flagFile is not global; modules that take a file declare it themselves
	// and it is passed on as Env.File.
	flagFile = "file"
)

// addGlobalFlags declares the flags every invocation accepts.
func addGlobalFlags(fs *pflag.FlagSet) {
	fs.StringP(FlagServer, "s", "", "reptor server URL")
	fs.StringP(FlagToken, "t", "", "reptor API token")
	fs.BoolP(FlagForceUnlock, "f", false, "force unlock notes")
	fs.Bool(FlagInsecure, false, "do not verify server certificate")
	fs.StringP(FlagProjectID, "p", "", "reptor project ID")
	fs.Bool(FlagPrivateNote, false, "add notes to private notes")
	fs.BoolP(FlagVerbose, "v", false, "print verbose output")
	fs.StringP(FlagNoteName, "n", "", "note name")
	fs.Bool(FlagNoTimestamp, false, "do not prepend timestamp to note lines")
}

// GlobalFlagProbe returns a fresh flag set holding the global flags and the
// help flag. Discovery declares each module's flags on one to reject
// modules that would collide with them.
func GlobalFlagProbe() *pflag.FlagSet {
	fs := pflag.NewFlagSet("reptor", pflag.ContinueOnError)
	addGlobalFlags(fs)
	fs.BoolP("help", "h", false, "")
	return fs
}

// Compose builds the root command with one subcommand per active module.
func Compose(app *App, catalog plugin.Catalog) *cobra.Command {
	root := &cobra.Command{
		Use:               "reptor",
		Short:             "Pluggable reporting command-line client",
		Long:              rootLong(catalog),
		Args:              cobra.NoArgs,
		PersistentPreRunE: app.configure,
		RunE:              app.noMatch,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetIn(app.stdin)
	root.SetOut(app.stdout)
	root.SetErr(app.stderr)

	addGlobalFlags(root.PersistentFlags())
	root.MarkFlagsMutuallyExclusive(FlagProjectID, FlagPrivateNote)

	for _, d := range catalog.All() {
		root.AddCommand(moduleCommand(app, catalog, d))
	}
	return root
}

func moduleCommand(app *App, catalog plugin.Catalog, d *plugin.Descriptor) *cobra.Command {
	c := &cobra.Command{
		Use:   d.Name,
		Short: d.ShortHelp,
		Long:  d.Description,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.invoke(cmd, catalog, d, args)
		},
	}
	d.Loader.AddArguments(c.Flags())
	if g, ok := d.Loader.(plugin.FlagGrouper); ok {
		for _, group := range g.ExclusiveFlagGroups() {
			c.MarkFlagsMutuallyExclusive(group...)
		}
	}
	return c
}

// rootLong renders the grouped module summaries shown by top-level help.
func rootLong(catalog plugin.Catalog) string {
	var b strings.Builder
	b.WriteString(console.TitleStyle.Render("reptor"))
	b.WriteString(console.SubtitleStyle.Render(" - pluggable reporting command-line client"))
	b.WriteString("\n")
	for _, g := range catalog.Grouped() {
		b.WriteString("\n")
		b.WriteString(console.SubtitleStyle.Render(g.Title() + ":"))
		b.WriteString("\n")
		for _, d := range g.Descriptors {
			b.WriteString("  ")
			b.WriteString(d.PaddedName())
			b.WriteString(console.CmdStyle.Render(d.ShortHelp))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
