// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/reptor/reptor/internal/script"
	"github.com/reptor/reptor/pkg/cueutil"
)

// Extension is the manifest file extension.
const Extension = ".cue"

// Flag kinds.
const (
	KindString = "string"
	KindBool   = "bool"
	KindInt    = "int"
)

// ErrInvalidDefault is returned when a flag default does not match its kind.
var ErrInvalidDefault = errors.New("flag default does not match its kind")

//go:embed manifest_schema.cue
var schema []byte

type (
	// Flag declares one module flag.
	Flag struct {
		Name    string `json:"name"`
		Short   string `json:"short,omitempty"`
		Kind    string `json:"kind"`
		Default any    `json:"default,omitempty"`
		Help    string `json:"help,omitempty"`
	}

	// Manifest is a decoded module manifest.
	Manifest struct {
		Type       string `json:"type"`
		Doc        string `json:"doc"`
		Capability string `json:"capability,omitempty"`
		Flags      []Flag `json:"flags,omitempty"`
		Script     string `json:"script"`
	}
)

// Parse decodes and validates manifest data. filename is used in errors.
func Parse(data []byte, filename string) (*Manifest, error) {
	res, err := cueutil.ParseAndDecode[Manifest](schema, data, "#Manifest", cueutil.WithFilename(filename))
	if err != nil {
		return nil, err
	}
	m := res.Value
	for i, f := range m.Flags {
		if err := checkDefault(f); err != nil {
			return nil, fmt.Errorf("%s: flags[%d]: %w", filename, i, err)
		}
	}
	if err := script.Validate(m.Script, filename); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return m, nil
}

// Load reads and parses the manifest at path.
func Load(path string) (*Loader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m, err := Parse(data, path)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return &Loader{manifest: m, path: abs}, nil
}

func checkDefault(f Flag) error {
	if f.Default == nil {
		return nil
	}
	ok := false
	switch f.Kind {
	case KindString:
		_, ok = f.Default.(string)
	case KindBool:
		_, ok = f.Default.(bool)
	case KindInt:
		switch f.Default.(type) {
		case int, int64, float64:
			ok = true
		}
	}
	if !ok {
		return fmt.Errorf("%s: %w (kind %s, default %v)", f.Name, ErrInvalidDefault, f.Kind, f.Default)
	}
	return nil
}
