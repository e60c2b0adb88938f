package providers

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// AdaptorFactory creates a new Adaptor instance.
type AdaptorFactory func() Adaptor

// Registry maps provider names to adaptor factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]AdaptorFactory
}

var globalRegistry = NewRegistry()

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]AdaptorFactory),
	}
}

// Register adds or replaces a factory. Names are case-insensitive.
func (r *Registry) Register(name string, factory AdaptorFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[strings.ToLower(name)] = factory
}

// Get retrieves the factory for a registered provider.
func (r *Registry) Get(name string) (AdaptorFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	factory, exists := r.factories[strings.ToLower(name)]
	return factory, exists
}

// List returns the registered provider names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetAdaptor creates a new Adaptor for the given provider name.
func (r *Registry) GetAdaptor(name string) (Adaptor, error) {
	factory, exists := r.Get(name)
	if !exists {
		return nil, fmt.Errorf("unknown provider: %s", name)
	}
	return factory(), nil
}

// Register adds a factory to the global registry.
func Register(name string, factory AdaptorFactory) {
	globalRegistry.Register(name, factory)
}

// GetAdaptor creates an Adaptor from the global registry.
func GetAdaptor(name string) (Adaptor, error) {
	return globalRegistry.GetAdaptor(name)
}

// List returns all providers in the global registry.
func List() []string {
	return globalRegistry.List()
}
