// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"github.com/reptor/reptor/internal/config"
	"github.com/reptor/reptor/internal/plugin"
)

// Location is one place modules are loaded from: either Registry or Dir is
// set. Registry candidates take their provenance from each registration;
// directory candidates take Provenance.
type Location struct {
	Provenance plugin.Provenance
	Registry   *plugin.Registry
	Dir        string
}

// String describes the location for logs.
func (l Location) String() string {
	if l.Registry != nil {
		return "builtin registry"
	}
	return l.Provenance.String() + " directory " + l.Dir
}

// DefaultLocations returns the standard search path: the compiled-in
// registry, the community directories from community_plugin_dirs, then the
// private directory <config dir>/plugins and any plugin_dirs entries.
func DefaultLocations(store *config.Store, reg *plugin.Registry) []Location {
	locations := []Location{{Provenance: plugin.Core, Registry: reg}}

	for _, dir := range store.GetStringSlice(config.KeyCommunityPluginDirs) {
		locations = append(locations, Location{Provenance: plugin.Community, Dir: dir})
	}
	if dir, err := config.PluginsDir(); err == nil {
		locations = append(locations, Location{Provenance: plugin.Private, Dir: dir})
	}
	for _, dir := range store.GetStringSlice(config.KeyPluginDirs) {
		locations = append(locations, Location{Provenance: plugin.Private, Dir: dir})
	}
	return locations
}
