// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/reptor/reptor/internal/config"
)

// QuietLogger returns a logger that discards everything.
func QuietLogger() *log.Logger {
	return log.New(io.Discard)
}

// NewStore returns a loaded store whose configuration directory is dir.
func NewStore(t testing.TB, dir string) *config.Store {
	t.Helper()
	store := config.New(config.LoadOptions{ConfigDirPath: dir, Logger: QuietLogger()})
	if err := store.Load(t.Context()); err != nil {
		t.Fatalf("failed to load configuration from %s: %v", dir, err)
	}
	return store
}

// SetConfigDir points config.ConfigDir at dir until the test ends. Tests
// calling it must not run in parallel.
func SetConfigDir(t testing.TB, dir string) {
	t.Helper()
	config.SetConfigDirOverride(dir)
	t.Cleanup(config.Reset)
}
