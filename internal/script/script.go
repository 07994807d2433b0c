// SPDX-License-Identifier: MPL-2.0

package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/reptor/reptor/pkg/types"
)

// FlagEnvPrefix prefixes the variables carrying module flag values.
const FlagEnvPrefix = "REPTOR_FLAG_"

type (
	// IO holds the standard streams of a script.
	IO struct {
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// Request describes one script execution.
	Request struct {
		// Name labels the script in parse errors.
		Name string
		// Source is the shell program.
		Source string
		// Dir is the working directory; empty means the current one.
		Dir string
		// Env is layered over the inherited process environment.
		Env map[string]string
		// Args become the positional parameters $1..$n.
		Args []string
		IO   IO
	}

	// Result is the outcome of Run. Error is set when the script could not
	// run at all; a script that ran and failed only sets ExitCode.
	Result struct {
		ExitCode types.ExitCode
		Error    error
	}
)

// Validate parses source without running it.
func Validate(source, name string) error {
	if _, err := syntax.NewParser().Parse(strings.NewReader(source), name); err != nil {
		return fmt.Errorf("script syntax error: %w", err)
	}
	return nil
}

// Run executes the request and waits for it to finish.
func Run(ctx context.Context, req Request) *Result {
	name := req.Name
	if name == "" {
		name = "script"
	}
	prog, err := syntax.NewParser().Parse(strings.NewReader(req.Source), name)
	if err != nil {
		return &Result{ExitCode: types.ExitFailure, Error: fmt.Errorf("failed to parse script: %w", err)}
	}

	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(buildEnv(os.Environ(), req.Env)...)),
		interp.StdIO(req.IO.Stdin, req.IO.Stdout, req.IO.Stderr),
	}
	if req.Dir != "" {
		opts = append(opts, interp.Dir(req.Dir))
	}
	// "--" keeps arguments such as "-v" from being read as shell options.
	if len(req.Args) > 0 {
		opts = append(opts, interp.Params(append([]string{"--"}, req.Args...)...))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return &Result{ExitCode: types.ExitFailure, Error: fmt.Errorf("failed to create interpreter: %w", err)}
	}

	if err := runner.Run(ctx, prog); err != nil {
		var status interp.ExitStatus
		if errors.As(err, &status) {
			return &Result{ExitCode: types.ExitCode(status)}
		}
		return &Result{ExitCode: types.ExitFailure, Error: fmt.Errorf("script execution failed: %w", err)}
	}
	return &Result{ExitCode: types.ExitSuccess}
}

// buildEnv drops inherited REPTOR_FLAG_* values, so a module script started
// from another module's script only sees its own flags, then layers extra on
// top in sorted order.
func buildEnv(inherited []string, extra map[string]string) []string {
	env := FilterFlagEnv(inherited)
	for _, k := range slices.Sorted(maps.Keys(extra)) {
		env = append(env, k+"="+extra[k])
	}
	return env
}

// FilterFlagEnv removes REPTOR_FLAG_* entries from a KEY=VALUE list.
func FilterFlagEnv(environ []string) []string {
	out := make([]string, 0, len(environ))
	for _, e := range environ {
		if strings.HasPrefix(e, FlagEnvPrefix) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FlagEnvName converts a flag name to its variable name, e.g. "dry-run" to
// REPTOR_FLAG_DRY_RUN.
func FlagEnvName(flag string) string {
	return FlagEnvPrefix + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}
