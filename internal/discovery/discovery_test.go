// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/spf13/pflag"

	"github.com/reptor/reptor/internal/issue"
	"github.com/reptor/reptor/internal/plugin"
	"github.com/reptor/reptor/internal/testutil"
)

func noopModule(*plugin.Env) (plugin.Module, error) {
	return plugin.ModuleFunc(func(context.Context) error { return nil }), nil
}

func registration(typeName, docs string, prov plugin.Provenance) plugin.Registration {
	return plugin.Registration{
		Type:        typeName,
		Docs:        docs,
		Provenance:  prov,
		Constructor: noopModule,
	}
}

func writeManifest(t *testing.T, path, typeName, docs string) {
	t.Helper()
	testutil.WriteManifest(t, path, typeName, docs, "echo "+typeName)
}

func globalProbe() *pflag.FlagSet {
	fs := pflag.NewFlagSet("probe", pflag.ContinueOnError)
	fs.BoolP("help", "h", false, "")
	fs.StringP("server", "s", "", "")
	fs.BoolP("verbose", "v", false, "")
	return fs
}

func discover(t *testing.T, locations ...Location) *Result {
	t.Helper()
	res, err := Discover(t.Context(), locations, WithLogger(testutil.QuietLogger()), WithFlagProbe(globalProbe))
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	return res
}

func names(ds []*plugin.Descriptor) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.Name)
	}
	return out
}

func codes(diags []Diagnostic) []string {
	out := make([]string, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.Code)
	}
	return out
}

func TestDiscover_Registry(t *testing.T) {
	t.Parallel()

	reg := plugin.NewRegistry()
	reg.Register(plugin.Registration{Type: "Beta", Docs: "Beta module", Group: plugin.CapabilityTool, Constructor: noopModule})
	reg.Register(plugin.Registration{Type: "Alpha", Docs: "Alpha module", Constructor: noopModule})
	reg.Register(plugin.Registration{Type: "Conf", Docs: "Configure", Group: plugin.CapabilityCore, Constructor: noopModule})

	res := discover(t, Location{Registry: reg})

	if got := names(res.Descriptors); !slices.Equal(got, []string{"alpha", "beta", "conf"}) {
		t.Errorf("Descriptors = %v", got)
	}
	if len(res.Diagnostics) != 0 {
		t.Errorf("unexpected diagnostics: %v", res.Diagnostics)
	}

	var groups []plugin.Capability
	for _, g := range res.Grouped() {
		groups = append(groups, g.Capability)
	}
	if !slices.Equal(groups, []plugin.Capability{plugin.CapabilityCore, plugin.CapabilityTool, plugin.CapabilityOther}) {
		t.Errorf("groups = %v", groups)
	}

	d, ok := res.Lookup("alpha")
	if !ok || d.Path != "builtin:alpha" || d.Provenance != plugin.Core {
		t.Errorf("Lookup(alpha) = %+v, %v", d, ok)
	}
	if _, ok := res.Lookup("missing"); ok {
		t.Error("Lookup(missing) succeeded")
	}
}

func TestDiscover_CollisionPrecedence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		core        bool
		community   bool
		private     bool
		want        plugin.Provenance
		wantChain   []plugin.Provenance
		wantWarning int
	}{
		{name: "private over community over core", core: true, community: true, private: true,
			want: plugin.Private, wantChain: []plugin.Provenance{plugin.Community, plugin.Core}, wantWarning: 2},
		{name: "private over core", core: true, private: true,
			want: plugin.Private, wantChain: []plugin.Provenance{plugin.Core}, wantWarning: 1},
		{name: "community over core", core: true, community: true,
			want: plugin.Community, wantChain: []plugin.Provenance{plugin.Core}, wantWarning: 1},
		{name: "private over community", community: true, private: true,
			want: plugin.Private, wantChain: []plugin.Provenance{plugin.Community}, wantWarning: 1},
		{name: "core alone", core: true, want: plugin.Core},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root := t.TempDir()
			communityDir := filepath.Join(root, "community")
			privateDir := filepath.Join(root, "private")
			reg := plugin.NewRegistry()
			if tt.core {
				reg.Register(registration("X", "core x", plugin.Core))
			}
			if tt.community {
				writeManifest(t, filepath.Join(communityDir, "x.cue"), "X", "community x")
			}
			if tt.private {
				writeManifest(t, filepath.Join(privateDir, "x", "x.cue"), "X", "private x")
			}

			// Location order in the slice must not matter across tiers.
			res := discover(t,
				Location{Provenance: plugin.Private, Dir: privateDir},
				Location{Provenance: plugin.Community, Dir: communityDir},
				Location{Registry: reg},
			)

			if len(res.Descriptors) != 1 {
				t.Fatalf("Descriptors = %v, want exactly one", names(res.Descriptors))
			}
			d := res.Descriptors[0]
			if d.Provenance != tt.want {
				t.Errorf("winner = %v, want %v", d.Provenance, tt.want)
			}

			var chain []plugin.Provenance
			for o := d.Overwrites; o != nil; o = o.Overwrites {
				chain = append(chain, o.Provenance)
			}
			if !slices.Equal(chain, tt.wantChain) {
				t.Errorf("overwrite chain = %v, want %v", chain, tt.wantChain)
			}

			warnings := 0
			for _, diag := range res.Diagnostics {
				if diag.Code == CodeOverridden && diag.Severity == SeverityWarning {
					warnings++
				}
			}
			if warnings != tt.wantWarning {
				t.Errorf("override warnings = %d, want %d", warnings, tt.wantWarning)
			}
		})
	}
}

func TestDiscover_SameTierLaterLocationWins(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	first, second := filepath.Join(root, "a"), filepath.Join(root, "b")
	writeManifest(t, filepath.Join(first, "dup.cue"), "Dup", "first")
	writeManifest(t, filepath.Join(second, "dup.cue"), "Dup", "second")

	res := discover(t,
		Location{Provenance: plugin.Private, Dir: first},
		Location{Provenance: plugin.Private, Dir: second},
	)

	d, ok := res.Lookup("dup")
	if !ok || d.ShortHelp != "second" || d.Overwrites == nil || d.Overwrites.ShortHelp != "first" {
		t.Errorf("Lookup(dup) = %+v", d)
	}
}

func TestDiscover_CompiledCommunityRegistration(t *testing.T) {
	t.Parallel()

	reg := plugin.NewRegistry()
	reg.Register(registration("Zap", "community zap", plugin.Community))
	reg.Register(registration("Zap", "core zap", plugin.Core))

	res := discover(t, Location{Registry: reg})
	d, _ := res.Lookup("zap")
	if d == nil || d.Provenance != plugin.Community || d.Overwrites == nil || d.Overwrites.Provenance != plugin.Core {
		t.Errorf("Lookup(zap) = %+v", d)
	}
}

func TestDiscover_LoadIsolation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeManifest(t, filepath.Join(dir, "good.cue"), "Good", "fine")
	writeManifest(t, filepath.Join(dir, "badname.cue"), "1bad", "invalid name")
	if err := os.WriteFile(filepath.Join(dir, "broken.cue"), []byte(`type: "Broken`), 0o600); err != nil {
		t.Fatal(err)
	}

	reg := plugin.NewRegistry()
	reg.Register(plugin.Registration{Type: "NoCtor", Docs: "x"})
	reg.Register(plugin.Registration{
		Type: "Panicky", Docs: "x", Constructor: noopModule,
		Flags: func(*pflag.FlagSet) { panic("boom") },
	})
	reg.Register(plugin.Registration{
		Type: "Clash", Docs: "x", Constructor: noopModule,
		Flags: func(fs *pflag.FlagSet) { fs.String("server", "", "") },
	})
	reg.Register(plugin.Registration{
		Type: "ShortClash", Docs: "x", Constructor: noopModule,
		Flags: func(fs *pflag.FlagSet) { fs.BoolP("version-info", "v", false, "") },
	})
	reg.Register(plugin.Registration{Type: "Help", Docs: "x", Constructor: noopModule})
	reg.Register(registration("Alpha", "alpha", plugin.Core))

	res := discover(t, Location{Registry: reg}, Location{Provenance: plugin.Private, Dir: dir})

	if got := names(res.Descriptors); !slices.Equal(got, []string{"alpha", "good"}) {
		t.Errorf("Descriptors = %v, want [alpha good]", got)
	}

	errs := res.Errors()
	if len(errs) != 7 {
		t.Fatalf("got %d error diagnostics, want 7: %v", len(errs), codes(errs))
	}
	want := map[string]int{
		CodeNoConstructor: 1,
		CodeFlagConflict:  3,
		CodeInvalidName:   2,
		CodeLoadFailed:    1,
	}
	got := map[string]int{}
	for _, d := range errs {
		got[d.Code]++
		if d.Path == "" || d.Cause == nil {
			t.Errorf("diagnostic without path or cause: %+v", d)
		}
	}
	for code, n := range want {
		if got[code] != n {
			t.Errorf("%s diagnostics = %d, want %d (all: %v)", code, got[code], n, codes(errs))
		}
	}
}

func TestDiscover_PanicInLoaderIsContained(t *testing.T) {
	t.Parallel()

	reg := plugin.NewRegistry()
	reg.Register(plugin.Registration{Type: "Ok", Docs: "fine", Constructor: noopModule})

	loc := []Location{{Registry: reg}}
	res, err := Discover(t.Context(), loc, WithLogger(testutil.QuietLogger()), WithFlagProbe(func() *pflag.FlagSet {
		panic("probe exploded")
	}))
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(res.Descriptors) != 0 || len(res.Diagnostics) != 1 || res.Diagnostics[0].Code != CodePanic {
		t.Errorf("result = %v / %v", names(res.Descriptors), codes(res.Diagnostics))
	}
}

func TestDiscover_DirectoryLayout(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeManifest(t, filepath.Join(dir, "flat.cue"), "Flat", "flat")
	writeManifest(t, filepath.Join(dir, "nested", "nested.cue"), "Nested", "nested")
	writeManifest(t, filepath.Join(dir, "mismatch", "other.cue"), "Mismatch", "x")
	writeManifest(t, filepath.Join(dir, ".hidden.cue"), "Hidden", "x")
	writeManifest(t, filepath.Join(dir, "__pycache__", "__pycache__.cue"), "Cache", "x")
	writeManifest(t, filepath.Join(dir, "_skip.cue"), "Skip", "x")
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("# notes"), 0o600); err != nil {
		t.Fatal(err)
	}

	res := discover(t, Location{Provenance: plugin.Community, Dir: dir})

	if got := names(res.Descriptors); !slices.Equal(got, []string{"flat", "nested"}) {
		t.Errorf("Descriptors = %v, want [flat nested]", got)
	}
	if len(res.Diagnostics) != 0 {
		t.Errorf("skipped entries produced diagnostics: %v", res.Diagnostics)
	}
	d, _ := res.Lookup("nested")
	if d == nil || d.Path != filepath.Join(dir, "nested", "nested.cue") {
		t.Errorf("nested path = %+v", d)
	}
}

func TestDiscover_MissingDirectoryIsSilent(t *testing.T) {
	t.Parallel()

	res := discover(t, Location{Provenance: plugin.Private, Dir: filepath.Join(t.TempDir(), "absent")})
	if len(res.Descriptors) != 0 || len(res.Diagnostics) != 0 {
		t.Errorf("result = %v / %v", names(res.Descriptors), res.Diagnostics)
	}
}

func TestDiscover_DirectoryIsAFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "plugins")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	res := discover(t, Location{Provenance: plugin.Private, Dir: path})
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Code != CodeDirUnreadable {
		t.Errorf("diagnostics = %v", res.Diagnostics)
	}
}

func TestDiscover_EmptyDocumentationWarns(t *testing.T) {
	t.Parallel()

	reg := plugin.NewRegistry()
	reg.Register(registration("Quiet", "", plugin.Core))

	res := discover(t, Location{Registry: reg})
	if len(res.Descriptors) != 1 {
		t.Fatalf("module without docs was dropped")
	}
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Code != CodeMissingDocs || res.Diagnostics[0].Severity != SeverityWarning {
		t.Errorf("diagnostics = %v", res.Diagnostics)
	}
	if len(res.Errors()) != 0 {
		t.Error("missing docs must not be an error")
	}
}

func TestDiscover_Canceled(t *testing.T) {
	t.Parallel()

	reg := plugin.NewRegistry()
	reg.Register(registration("A", "a", plugin.Core))

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	if _, err := Discover(ctx, []Location{{Registry: reg}}); !errors.Is(err, context.Canceled) {
		t.Errorf("Discover() error = %v, want context.Canceled", err)
	}
}

func TestDiagnostic_String(t *testing.T) {
	t.Parallel()

	d := errorDiagnostic(CodeLoadFailed, "x", "/p/x.cue", issue.ModuleLoadFailedId, errors.New("bad"), "module failed to load")
	if got := d.String(); got != "error: module failed to load (/p/x.cue): bad" {
		t.Errorf("String() = %q", got)
	}
}

func TestDiscover_ExclusiveFlagGroupsMustNameModuleFlags(t *testing.T) {
	t.Parallel()

	withFlags := func(typeName string, groups ...[]string) plugin.Registration {
		r := registration(typeName, "Short Help:\n"+typeName, plugin.Core)
		r.Flags = func(fs *pflag.FlagSet) {
			fs.Bool("one", false, "")
			fs.Bool("two", false, "")
		}
		r.ExclusiveFlags = groups
		return r
	}

	reg := plugin.NewRegistry()
	reg.Register(withFlags("Good", []string{"one", "two"}))
	reg.Register(withFlags("Typo", []string{"one", "three"}))
	reg.Register(withFlags("Global", []string{"one", "server"}))

	res := discover(t, Location{Provenance: plugin.Core, Registry: reg})
	if got := names(res.Descriptors); !slices.Equal(got, []string{"good"}) {
		t.Errorf("Descriptors = %v, want [good]", got)
	}
	if got := codes(res.Errors()); !slices.Equal(got, []string{CodeFlagConflict, CodeFlagConflict}) {
		t.Errorf("error codes = %v", got)
	}
}
