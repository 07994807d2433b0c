// SPDX-License-Identifier: MPL-2.0

package config

import (
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/pflag"
)

// Fold merges parsed command-line flags into the store.
//
// For each of FoldKeys with a matching flag (project_id reads --project-id),
// a supplied flag overrides every lower layer; an absent flag keeps the value
// already resolved from defaults, the file or the environment. A string flag
// counts as supplied when it was given with a non-empty value, a bool flag
// whenever it was given, so --insecure=false overrides a file value of true.
//
// Every flag of fs, given or not, is also recorded under the "cli" key with
// dashes replaced by underscores.
func (s *Store) Fold(fs *pflag.FlagSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sealed {
		return ErrStoreSealed
	}

	for _, key := range FoldKeys {
		f := fs.Lookup(strings.ReplaceAll(key, "_", "-"))
		if f == nil || !supplied(f) {
			continue
		}
		s.v.Set(key, flagValue(f))
		s.overrides[key] = true
		s.logger().Debug("configuration folded from flag", "key", key)
	}

	cli := make(map[string]any)
	fs.VisitAll(func(f *pflag.Flag) {
		cli[flagKey(f.Name)] = flagValue(f)
	})
	s.cli = cli
	s.overrides[KeyCLI] = true
	s.v.Set(KeyCLI, cli)
	return nil
}

func supplied(f *pflag.Flag) bool {
	if !f.Changed {
		return false
	}
	if f.Value.Type() == "string" {
		return f.Value.String() != ""
	}
	return true
}

// flagValue converts a flag to the Go type matching its pflag type.
func flagValue(f *pflag.Flag) any {
	switch f.Value.Type() {
	case "bool":
		return cast.ToBool(f.Value.String())
	case "int":
		return cast.ToInt(f.Value.String())
	case "count":
		return cast.ToInt(f.Value.String())
	case "stringSlice", "stringArray":
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			return sv.GetSlice()
		}
	}
	return f.Value.String()
}

func flagKey(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}
