// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/reptor/reptor/internal/issue"
)

const (
	// AppName names the configuration directory.
	AppName = "reptor"
	// ConfigFileName is the configuration file name without extension.
	ConfigFileName = "config"
	// EnvPrefix prefixes environment variables, e.g. REPTOR_SERVER.
	EnvPrefix = "REPTOR"
	// EnvConfigPath points at an explicit configuration file.
	EnvConfigPath = "REPTOR_CONFIG"
)

// Well-known keys.
const (
	KeyServer              = "server"
	KeyToken               = "token"
	KeyProjectID           = "project_id"
	KeySessionID           = "session_id"
	KeyInsecure            = "insecure"
	KeyPluginDirs          = "plugin_dirs"
	KeyCommunityPluginDirs = "community_plugin_dirs"
	KeyLogLevel            = "log_level"
	// KeyCLI holds every parsed flag of the current invocation.
	KeyCLI = "cli"
)

// FoldKeys are the keys a supplied command-line flag overrides.
var FoldKeys = []string{KeyServer, KeyToken, KeyProjectID, KeySessionID, KeyInsecure}

// ErrStoreSealed is returned by Fold once the store has been sealed.
var ErrStoreSealed = errors.New("configuration store is sealed")

type (
	// LoadOptions selects where the persisted layer comes from. Zero values
	// fall back to REPTOR_CONFIG and the platform configuration directory.
	LoadOptions struct {
		ConfigFilePath string
		ConfigDirPath  string
		Logger         *log.Logger
	}

	// Store is the layered configuration. Its methods are safe for
	// concurrent use.
	Store struct {
		mu         sync.RWMutex
		v          *viper.Viper
		opts       LoadOptions
		fileValues map[string]any
		configFile string
		cli        map[string]any
		overrides  map[string]bool
		sealed     bool

		loadOnce sync.Once
		loadErr  error
	}
)

var (
	sharedOnce  sync.Once
	sharedStore *Store
)

// Shared returns the process-wide store, creating it on first use.
func Shared() *Store {
	sharedOnce.Do(func() {
		sharedStore = New(LoadOptions{})
	})
	return sharedStore
}

// New creates a store holding only defaults and the environment layer. Call
// Load to add the persisted file.
func New(opts LoadOptions) *Store {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyServer, "")
	v.SetDefault(KeyToken, "")
	v.SetDefault(KeyProjectID, "")
	v.SetDefault(KeySessionID, "")
	v.SetDefault(KeyInsecure, false)
	v.SetDefault(KeyLogLevel, "")
	v.SetDefault(KeyPluginDirs, []string{})
	v.SetDefault(KeyCommunityPluginDirs, []string{})

	return &Store{v: v, opts: opts, cli: map[string]any{}, overrides: map[string]bool{}}
}

// Load reads the persisted file. It runs once per store; later calls return
// the first result. A missing file is not an error. A file that cannot be
// decoded or fails validation returns an *issue.ActionableError and the store
// keeps its other layers.
func (s *Store) Load(ctx context.Context) error {
	s.loadOnce.Do(func() {
		s.loadErr = s.load(ctx)
	})
	return s.loadErr
}

func (s *Store) load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("load config canceled: %w", err)
	}

	path, err := s.resolvePath()
	if err != nil {
		return err
	}
	if path == "" {
		return nil
	}

	values, err := readConfigFile(path)
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(path).
			WithSuggestion("Check the file syntax and the value types of server, token, project_id and insecure").
			WithSuggestion("Rewrite the file with 'reptor conf'").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(err).
			BuildError()
	}
	if values == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.v.MergeConfigMap(values); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	s.fileValues = values
	s.configFile = path
	s.logger().Debug("loaded configuration", "path", path)
	return nil
}

// resolvePath picks the file to read, or "" when there is none.
func (s *Store) resolvePath() (string, error) {
	if s.opts.ConfigFilePath != "" {
		return s.opts.ConfigFilePath, nil
	}
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	dir, err := s.configDir()
	if err != nil {
		return "", err
	}
	return findConfigFile(dir), nil
}

func (s *Store) configDir() (string, error) {
	if s.opts.ConfigDirPath != "" {
		return s.opts.ConfigDirPath, nil
	}
	return ConfigDir()
}

// ConfigFile returns the file the persisted layer was read from, or "".
func (s *Store) ConfigFile() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.configFile
}

// Get returns the resolved value of key, or def when neither the file, the
// environment, a folded flag nor Set holds it. Built-in defaults do not count,
// so Get(KeyProjectID, "x") is "x" until a project is configured.
func (s *Store) Get(key string, def any) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.explicit(key) {
		return def
	}
	return s.v.Get(key)
}

// explicit reports whether a layer above the defaults holds key.
func (s *Store) explicit(key string) bool {
	key = strings.ToLower(key)
	top, _, _ := strings.Cut(key, ".")
	if s.overrides[key] || s.overrides[top] || s.v.InConfig(key) {
		return true
	}
	env := EnvPrefix + "_" + strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
	val, ok := os.LookupEnv(env)
	return ok && val != ""
}

// GetString returns key as a string.
func (s *Store) GetString(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.GetString(key)
}

// GetBool returns key as a bool.
func (s *Store) GetBool(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.GetBool(key)
}

// GetStringSlice returns key as a string slice.
func (s *Store) GetStringSlice(key string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.GetStringSlice(key)
}

// IsSet reports whether any layer, defaults included, holds key.
func (s *Store) IsSet(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.IsSet(key)
}

// Set writes key to the top layer. Writes after Seal are still applied.
func (s *Store) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sealed {
		s.logger().Debug("configuration set after fold", "key", key)
	}
	s.overrides[strings.ToLower(key)] = true
	s.v.Set(key, value)
}

// AllSettings returns the merged view of every layer.
func (s *Store) AllSettings() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.AllSettings()
}

// Seal marks the end of flag folding.
func (s *Store) Seal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sealed = true
}

// Sealed reports whether Seal was called.
func (s *Store) Sealed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sealed
}

// CLI returns a copy of the flag values recorded by Fold.
func (s *Store) CLI() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.cli)
}

// CLIString returns a recorded flag value as a string. name may use dashes
// or underscores.
func (s *Store) CLIString(name string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cast.ToString(s.cli[flagKey(name)])
}

// CLIBool returns a recorded flag value as a bool.
func (s *Store) CLIBool(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cast.ToBool(s.cli[flagKey(name)])
}

// Persist merges values into the persisted layer and writes it back. The
// file keeps its format; without one, config.yaml is created in the
// configuration directory. Flag and environment values are never written.
func (s *Store) Persist(ctx context.Context, values map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.PersistPath()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	merged := maps.Clone(s.fileValues)
	if merged == nil {
		merged = map[string]any{}
	}
	maps.Copy(merged, values)

	if err := writeConfigFile(path, merged); err != nil {
		return issue.NewErrorContext().
			WithOperation("save configuration").
			WithResource(path).
			Wrap(err).
			BuildError()
	}
	if err := s.v.MergeConfigMap(values); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	s.fileValues = merged
	s.configFile = path
	s.logger().Debug("saved configuration", "path", path)
	return nil
}

// PersistPath is where Persist writes: the loaded file, the explicit path,
// or config.yaml in the configuration directory.
func (s *Store) PersistPath() (string, error) {
	if f := s.ConfigFile(); f != "" {
		return f, nil
	}
	path, err := s.resolvePath()
	if err != nil {
		return "", err
	}
	if path != "" {
		return path, nil
	}
	dir, err := s.configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName+"."+FormatYAML), nil
}

func (s *Store) logger() *log.Logger {
	if s.opts.Logger != nil {
		return s.opts.Logger
	}
	return log.Default()
}
