// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/reptor/reptor/internal/issue"
	"github.com/reptor/reptor/internal/plugin"
	"github.com/reptor/reptor/internal/plugin/manifest"
	"github.com/reptor/reptor/pkg/types"
)

// candidate is a module that has been found but not yet loaded.
type candidate struct {
	provenance plugin.Provenance
	// order is the index of the location the candidate came from.
	order int
	// key orders candidates within a location.
	key  string
	path string
	load func() (plugin.Loader, error)
}

func registryCandidates(reg *plugin.Registry, order int) []candidate {
	regs := reg.Registrations()
	out := make([]candidate, 0, len(regs))
	for _, r := range regs {
		name := types.ModuleNameFromType(r.Type).String()
		out = append(out, candidate{
			provenance: r.Provenance,
			order:      order,
			key:        name,
			path:       "builtin:" + name,
			load: func() (plugin.Loader, error) {
				if !r.HasConstructor() {
					return nil, plugin.ErrNoConstructor
				}
				return r, nil
			},
		})
	}
	return out
}

// dirCandidates lists <dir>/<name>.cue files and <dir>/<name>/<name>.cue
// manifests. Hidden and underscore-prefixed entries, other files and
// directories without a same-named manifest are skipped. A missing directory
// yields nothing.
func dirCandidates(loc Location, order int) ([]candidate, *Diagnostic) {
	entries, err := os.ReadDir(loc.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		d := warningDiagnostic(CodeDirUnreadable, "", loc.Dir, issue.ModuleLoadFailedId,
			"cannot read %s module directory", loc.Provenance)
		d.Cause = err
		return nil, &d
	}

	var out []candidate
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			continue
		}

		full := filepath.Join(loc.Dir, name)
		info, err := os.Stat(full)
		if err != nil {
			continue
		}

		var path, stem string
		switch {
		case info.IsDir():
			entry := filepath.Join(full, name+manifest.Extension)
			if fi, err := os.Stat(entry); err != nil || fi.IsDir() {
				continue
			}
			path, stem = entry, name
		case strings.HasSuffix(name, manifest.Extension):
			path, stem = full, strings.TrimSuffix(name, manifest.Extension)
		default:
			continue
		}

		out = append(out, candidate{
			provenance: loc.Provenance,
			order:      order,
			key:        strings.ToLower(stem),
			path:       path,
			load: func() (plugin.Loader, error) {
				l, err := manifest.Load(path)
				if err != nil {
					return nil, fmt.Errorf("load manifest: %w", err)
				}
				return l, nil
			},
		})
	}
	return out, nil
}
