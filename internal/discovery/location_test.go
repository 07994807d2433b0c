// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"path/filepath"
	"testing"

	"github.com/reptor/reptor/internal/config"
	"github.com/reptor/reptor/internal/plugin"
	"github.com/reptor/reptor/internal/testutil"
)

func TestDefaultLocations(t *testing.T) {
	cfgDir := t.TempDir()
	testutil.SetConfigDir(t, cfgDir)

	store := testutil.NewStore(t, cfgDir)
	store.Set(config.KeyCommunityPluginDirs, []string{"/opt/community"})
	store.Set(config.KeyPluginDirs, []string{"/home/me/extra"})
	reg := plugin.NewRegistry()

	locs := DefaultLocations(store, reg)

	if len(locs) != 4 {
		t.Fatalf("got %d locations: %v", len(locs), locs)
	}
	if locs[0].Registry != reg {
		t.Error("first location must be the registry")
	}
	want := []Location{
		{Provenance: plugin.Community, Dir: "/opt/community"},
		{Provenance: plugin.Private, Dir: filepath.Join(cfgDir, "plugins")},
		{Provenance: plugin.Private, Dir: "/home/me/extra"},
	}
	for i, w := range want {
		if got := locs[i+1]; got.Provenance != w.Provenance || got.Dir != w.Dir {
			t.Errorf("locations[%d] = %v, want %v", i+1, got, w)
		}
	}
}
