// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/reptor/reptor/internal/console"
	"github.com/reptor/reptor/internal/issue"
	"github.com/reptor/reptor/internal/plugin"
	"github.com/reptor/reptor/pkg/types"

	// Core modules register themselves from init.
	_ "github.com/reptor/reptor/internal/modules/conf"
	_ "github.com/reptor/reptor/internal/modules/plugins"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI with the process arguments and exits. It is called
// by main.main.
func Execute() {
	ctx := context.Background()
	app := NewApp(Dependencies{})
	console.Install(app.Logger)

	root, err := app.Command(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, console.ErrorStyle.Render(formatErrorForDisplay(err, false)))
		os.Exit(int(types.ExitFailure))
	}
	if err := fang.Execute(
		ctx,
		root,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(int(exitCode(err)))
	}
}

// execute runs the CLI without fang and returns the exit code. The CLI tests
// run it in place of the binary.
func execute() int {
	app := NewApp(Dependencies{})
	console.Install(app.Logger)

	err := app.Run(context.Background(), os.Args[1:])
	if err == nil {
		return int(types.ExitSuccess)
	}
	fmt.Fprintln(os.Stderr, console.ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, app.Config.CLIBool(FlagVerbose)))
	return int(exitCode(err))
}

// exitCode maps a module's *plugin.ExitError to its code and any other error
// to ExitFailure. A failed run never maps to ExitSuccess.
func exitCode(err error) types.ExitCode {
	var exitErr *plugin.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.Code.Normalize(); !code.IsSuccess() {
			return code
		}
	}
	return types.ExitFailure
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
