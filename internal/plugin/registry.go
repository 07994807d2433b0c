// SPDX-License-Identifier: MPL-2.0

package plugin

import (
	"slices"
	"sync"
)

// DefaultRegistry holds the compiled-in modules. Modules register during
// package initialization.
var DefaultRegistry = NewRegistry()

// Registry is an ordered list of compiled-in registrations. It is safe for
// concurrent use. Unlike a lookup table it keeps duplicates and invalid
// entries: discovery validates and resolves them so one bad module cannot
// break the process at init time.
type Registry struct {
	mu      sync.RWMutex
	entries []Registration
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends reg.
func (r *Registry) Register(reg Registration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, reg)
}

// Registrations returns a copy of the entries in registration order.
func (r *Registry) Registrations() []Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.entries)
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}

// Register adds reg to DefaultRegistry. Call it from init.
func Register(reg Registration) {
	DefaultRegistry.Register(reg)
}
