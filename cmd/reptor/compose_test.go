// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/reptor/reptor/internal/plugin"
)

func TestGlobalFlagProbe(t *testing.T) {
	t.Parallel()

	fs := GlobalFlagProbe()
	for _, name := range []string{
		FlagServer, FlagToken, FlagForceUnlock, FlagInsecure, FlagProjectID,
		FlagPrivateNote, FlagVerbose, FlagNoteName, FlagNoTimestamp, "help",
	} {
		if fs.Lookup(name) == nil {
			t.Errorf("probe is missing --%s", name)
		}
	}
	for _, short := range []string{"s", "t", "f", "p", "v", "n", "h"} {
		if fs.ShorthandLookup(short) == nil {
			t.Errorf("probe is missing -%s", short)
		}
	}
	if GlobalFlagProbe() == fs {
		t.Error("GlobalFlagProbe() returned a shared flag set")
	}
}

func TestCompose_Tree(t *testing.T) {
	t.Parallel()

	h := newHarness(t, plugin.Registration{
		Type:       "Gamma",
		Docs:       "Short Help:\ngamma only\n\nDescription:\nGamma has its own flag.",
		Group:      plugin.CapabilityImporter,
		Provenance: plugin.Core,
		Flags:      func(fs *pflag.FlagSet) { fs.Bool("only-gamma", false, "") },
		Constructor: func(*plugin.Env) (plugin.Module, error) {
			return plugin.ModuleFunc(func(context.Context) error { return nil }), nil
		},
	})
	root, err := h.app.Command(t.Context())
	if err != nil {
		t.Fatalf("Command() error = %v", err)
	}

	if !root.CompletionOptions.DisableDefaultCmd {
		t.Error("completion command enabled")
	}
	if root.PersistentFlags().Lookup(FlagProjectID) == nil {
		t.Error("global flags are not persistent")
	}

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	if got := strings.Join(names, ","); got != "alpha,beta,gamma" {
		t.Errorf("subcommands = %s", got)
	}

	gamma, _, err := root.Find([]string{"gamma"})
	if err != nil {
		t.Fatal(err)
	}
	if gamma.Short != "gamma only" || gamma.Long != "Gamma has its own flag." {
		t.Errorf("gamma Short=%q Long=%q", gamma.Short, gamma.Long)
	}
	if gamma.LocalNonPersistentFlags().Lookup("only-gamma") == nil {
		t.Error("gamma is missing its own flag")
	}
	beta, _, err := root.Find([]string{"beta"})
	if err != nil {
		t.Fatal(err)
	}
	if beta.Flags().Lookup("only-gamma") != nil {
		t.Error("gamma's flag leaked into beta")
	}

	long := root.Long
	tools, importers := strings.Index(long, "Tools:"), strings.Index(long, "Importers:")
	if tools < 0 || importers < 0 || tools > importers {
		t.Errorf("groups missing or out of order:\n%s", long)
	}
	if !strings.Contains(long, "alpha          ") {
		t.Errorf("names not padded to 15 columns:\n%s", long)
	}
}

func TestRun_ModuleFlagsAreIsolated(t *testing.T) {
	t.Parallel()

	h := newHarness(t, plugin.Registration{
		Type:       "Gamma",
		Docs:       "Short Help:\ngamma",
		Provenance: plugin.Core,
		Flags:      func(fs *pflag.FlagSet) { fs.Bool("only-gamma", false, "") },
		Constructor: func(*plugin.Env) (plugin.Module, error) {
			return plugin.ModuleFunc(func(context.Context) error { return nil }), nil
		},
	})
	if err := h.run(t, "beta", "--only-gamma"); err == nil {
		t.Fatal("Run(beta --only-gamma) error = nil, want unknown flag")
	}
	if h.rec.total() != 0 {
		t.Errorf("module invoked: %v", h.rec.runs)
	}
}

func TestState_String(t *testing.T) {
	t.Parallel()

	if StateConfiguringStore.String() != "configuring-store" || State(99).String() != "state(99)" {
		t.Errorf("unexpected names: %s %s", StateConfiguringStore, State(99))
	}
}
