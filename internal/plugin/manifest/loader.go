// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cast"
	"github.com/spf13/pflag"

	"github.com/reptor/reptor/internal/config"
	"github.com/reptor/reptor/internal/issue"
	"github.com/reptor/reptor/internal/plugin"
	"github.com/reptor/reptor/internal/script"
)

// Loader is the plugin.Loader of a manifest module.
type Loader struct {
	manifest *Manifest
	path     string
}

var _ plugin.Loader = (*Loader)(nil)

// Manifest returns the decoded manifest.
func (l *Loader) Manifest() *Manifest { return l.manifest }

// Path returns the absolute manifest path.
func (l *Loader) Path() string { return l.path }

// TypeName implements plugin.Loader.
func (l *Loader) TypeName() string { return l.manifest.Type }

// Doc implements plugin.Loader.
func (l *Loader) Doc() string { return l.manifest.Doc }

// Capability implements plugin.Loader.
func (l *Loader) Capability() plugin.Capability {
	return plugin.Capability(l.manifest.Capability).Normalize()
}

// AddArguments implements plugin.Loader.
func (l *Loader) AddArguments(fs *pflag.FlagSet) {
	for _, f := range l.manifest.Flags {
		switch f.Kind {
		case KindBool:
			fs.BoolP(f.Name, f.Short, cast.ToBool(f.Default), f.Help)
		case KindInt:
			fs.IntP(f.Name, f.Short, cast.ToInt(f.Default), f.Help)
		default:
			fs.StringP(f.Name, f.Short, cast.ToString(f.Default), f.Help)
		}
	}
}

// New implements plugin.Loader.
func (l *Loader) New(env *plugin.Env) (plugin.Module, error) {
	if env == nil || env.Config == nil {
		return nil, fmt.Errorf("module %s: missing environment", l.manifest.Type)
	}
	return &scriptModule{loader: l, env: env}, nil
}

type scriptModule struct {
	loader *Loader
	env    *plugin.Env
}

func (m *scriptModule) Run(ctx context.Context) error {
	name := m.loader.manifest.Type
	if m.env.Logger != nil {
		m.env.Logger.Debug("running module script", "module", name, "path", m.loader.path)
	}

	res := script.Run(ctx, script.Request{
		Name:   m.loader.path,
		Source: m.loader.manifest.Script,
		Dir:    filepath.Dir(m.loader.path),
		Env:    m.scriptEnv(),
		Args:   m.env.Args,
		IO: script.IO{
			Stdin:  m.env.Stdin,
			Stdout: m.env.Stdout,
			Stderr: m.env.Stderr,
		},
	})
	if res.Error != nil {
		return fmt.Errorf("module %s: %w", name, res.Error)
	}
	if !res.ExitCode.IsSuccess() {
		return &plugin.ExitError{
			Code: res.ExitCode,
			Err: issue.NewErrorContext().
				WithOperation("run module "+name).
				WithResource(m.loader.path).
				WithIssue(issue.ScriptFailedId).
				Wrap(fmt.Errorf("exit status %d", res.ExitCode)).
				BuildError(),
		}
	}
	return nil
}

// scriptEnv exposes the resolved connection settings and the module's flag
// values to the script.
func (m *scriptModule) scriptEnv() map[string]string {
	cfg := m.env.Config
	env := map[string]string{
		"REPTOR_SERVER":     cfg.GetString(config.KeyServer),
		"REPTOR_PROJECT_ID": cfg.GetString(config.KeyProjectID),
		"REPTOR_TOKEN":      cfg.GetString(config.KeyToken),
		"REPTOR_INSECURE":   strconv.FormatBool(cfg.GetBool(config.KeyInsecure)),
		"REPTOR_NOTENAME":   m.env.NoteName,
	}
	for _, f := range m.loader.manifest.Flags {
		value := cast.ToString(f.Default)
		if m.env.Flags != nil {
			if pf := m.env.Flags.Lookup(f.Name); pf != nil {
				value = pf.Value.String()
			}
		}
		env[script.FlagEnvName(f.Name)] = value
	}
	return env
}
