package core

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sutter-pierre/dialog-integrations/internal/model"
)

// AdapterRegistry keeps track of available source adapters, keyed by
// organization name. The mutex guards concurrent lookups from the control
// API; pipeline runs themselves are sequential.
type AdapterRegistry struct {
	adapters map[string]model.SourceAdapter
	mutex    sync.RWMutex
}

// NewAdapterRegistry creates an empty adapter registry
func NewAdapterRegistry() *AdapterRegistry {
	return &AdapterRegistry{adapters: make(map[string]model.SourceAdapter)}
}

// Register adds an adapter to the registry. Registering two adapters for
// the same organization is an error.
func (r *AdapterRegistry) Register(adapter model.SourceAdapter) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	key := strings.ToLower(adapter.Organization())
	if _, exists := r.adapters[key]; exists {
		return fmt.Errorf("adapter already registered for organization %q", key)
	}
	r.adapters[key] = adapter
	return nil
}

// Get retrieves the adapter for an organization
func (r *AdapterRegistry) Get(organization string) (model.SourceAdapter, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	adapter, exists := r.adapters[strings.ToLower(organization)]
	return adapter, exists
}

// Organizations returns the registered organization names, sorted
func (r *AdapterRegistry) Organizations() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
