// SPDX-License-Identifier: MPL-2.0

// Package conf implements the "conf" core module: it shows the connection
// settings and the loaded modules, or asks for new settings interactively and
// saves them to the configuration file.
package conf

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/pflag"

	"github.com/reptor/reptor/internal/config"
	"github.com/reptor/reptor/internal/plugin"
)

const docs = `
Shows or changes the connection settings

Author: reptor
License: MIT
Tags: core, config

Short Help:
Shows or changes the connection settings

Description:
Without flags, asks for the server URL, API token, project ID and
certificate checking, then saves them to the configuration file.
--list prints the settings currently in effect, --modules lists
the loaded modules by group.
`

const (
	flagList    = "list"
	flagModules = "modules"
)

// ErrConflictingModes is returned by New when --list and --modules are
// combined. The command line rejects the pair before New is reached.
var ErrConflictingModes = errors.New("--list and --modules cannot be combined")

func init() {
	plugin.Register(plugin.Registration{
		Type:           "Conf",
		Docs:           docs,
		Group:          plugin.CapabilityCore,
		Provenance:     plugin.Core,
		Flags:          addFlags,
		ExclusiveFlags: [][]string{{flagList, flagModules}},
		Constructor:    New,
	})
}

func addFlags(fs *pflag.FlagSet) {
	fs.Bool(flagList, false, "Shows current connection settings")
	fs.Bool(flagModules, false, "Shows current loaded modules")
}

// Module is the conf module.
type Module struct {
	env     *plugin.Env
	list    bool
	modules bool
}

// New constructs the module from its parsed flags.
func New(env *plugin.Env) (plugin.Module, error) {
	m := &Module{env: env}
	if env.Flags != nil {
		m.list, _ = env.Flags.GetBool(flagList)
		m.modules, _ = env.Flags.GetBool(flagModules)
	}
	if m.list && m.modules {
		return nil, ErrConflictingModes
	}
	return m, nil
}

// Run implements plugin.Module.
func (m *Module) Run(ctx context.Context) error {
	switch {
	case m.list:
		m.showSettings()
		return nil
	case m.modules:
		m.showModules()
		return nil
	default:
		return m.interactive(ctx)
	}
}

func (m *Module) showSettings() {
	cfg, out := m.env.Config, m.env.Console
	out.Display("Connected to: %s", valueOr(cfg.GetString(config.KeyServer), "(no server configured)"))
	if project := cfg.GetString(config.KeyProjectID); project != "" {
		out.Display("Using Project: %s", project)
	} else {
		out.Display("Writing globally.")
	}
	if cfg.GetBool(config.KeyInsecure) {
		out.Highlight("Certificate verification is disabled.")
	}
	if f := cfg.ConfigFile(); f != "" {
		out.Print("Config file: %s", f)
	}
}

func (m *Module) showModules() {
	if m.env.Catalog == nil {
		return
	}
	for _, g := range m.env.Catalog.Grouped() {
		m.env.Console.Display("%s:", g.Title())
		for _, d := range g.Descriptors {
			m.env.Console.Print("  %s", d.HelpLine())
		}
	}
}

func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
