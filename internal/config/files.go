// SPDX-License-Identifier: MPL-2.0

package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/reptor/reptor/pkg/cueutil"
)

// Supported file formats, in search order.
const (
	FormatCUE  = "cue"
	FormatYAML = "yaml"
	FormatYML  = "yml"
	FormatTOML = "toml"
)

// ErrUnsupportedFormat is returned for configuration files with an unknown
// extension.
var ErrUnsupportedFormat = errors.New("unsupported configuration format")

//go:embed config_schema.cue
var configSchema []byte

var searchOrder = []string{FormatCUE, FormatYAML, FormatYML, FormatTOML}

// findConfigFile returns the first config.<ext> in dir, or "".
func findConfigFile(dir string) string {
	for _, ext := range searchOrder {
		p := filepath.Join(dir, ConfigFileName+"."+ext)
		if fileExists(p) {
			return p
		}
	}
	return ""
}

func formatOf(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// readConfigFile decodes and validates a configuration file. A missing file
// yields a nil map and a nil error. Keys without a value, such as a bare
// "project_id:" in YAML, are dropped. Error messages leave out path; the
// caller reports it.
func readConfigFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, ""); err != nil {
		return nil, err
	}

	var values map[string]any
	switch formatOf(path) {
	case FormatCUE:
		res, err := cueutil.ParseAndDecode[map[string]any](configSchema, data, "#Config",
			cueutil.WithFilename(path), cueutil.WithConcrete(false), cueutil.WithBareErrors())
		if err != nil {
			return nil, err
		}
		return *res.Value, nil
	case FormatYAML, FormatYML:
		if err := yaml.Unmarshal(data, &values); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &values); err != nil {
			return nil, fmt.Errorf("invalid TOML: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedFormat, filepath.Ext(path))
	}

	values = dropNulls(values)
	if err := validate(values); err != nil {
		return nil, err
	}
	return values, nil
}

// dropNulls removes nil entries from m and its nested maps. It never
// returns nil.
func dropNulls(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch x := v.(type) {
		case nil:
			continue
		case map[string]any:
			out[k] = dropNulls(x)
		default:
			out[k] = v
		}
	}
	return out
}

// validate checks decoded values against the #Config schema.
func validate(values map[string]any) error {
	ctx := cuecontext.New()
	schema := ctx.CompileBytes(configSchema).LookupPath(cue.ParsePath("#Config"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("internal error: compile config schema: %w", err)
	}
	data := ctx.Encode(values)
	if err := data.Err(); err != nil {
		return cueutil.FormatError(err, "")
	}
	if err := schema.Unify(data).Validate(cue.Concrete(true)); err != nil {
		return cueutil.FormatError(err, "")
	}
	return nil
}

// writeConfigFile encodes values in the format implied by path's extension.
func writeConfigFile(path string, values map[string]any) error {
	if err := validate(values); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	switch formatOf(path) {
	case FormatCUE:
		data, err = cueutil.Encode(values)
	case FormatYAML, FormatYML:
		data, err = yaml.Marshal(values)
	case FormatTOML:
		data, err = toml.Marshal(values)
	default:
		return fmt.Errorf("%w %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("encode configuration: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	// The file may hold an API token.
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
