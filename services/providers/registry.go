package providers

import (
	"errors"
	"sync"

	"github.com/kerrizor/buffet/models"
)

var (
	// ErrAdapterNotFound is returned when no adapter is registered for a service
	ErrAdapterNotFound = errors.New("adapter not found")

	// ErrAdapterAlreadyRegistered is returned when trying to register a duplicate adapter
	ErrAdapterAlreadyRegistered = errors.New("adapter already registered")
)

// Registry is the static service-registration table: service tag to adapter
// instance, populated once at process start. Lookup is by key; there is no
// runtime name synthesis. Registration order is preserved because it defines
// fan-out submission order, and with it the order of merged results.
type Registry struct {
	mu       sync.RWMutex
	adapters map[models.Service]Adapter
	order    []models.Service
}

// NewRegistry creates an empty adapter registry
func NewRegistry() *Registry {
	return &Registry{
		adapters: make(map[models.Service]Adapter),
	}
}

// Register adds an adapter under its own service tag.
func (r *Registry) Register(adapter Adapter) error {
	if adapter == nil {
		return errors.New("adapter cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	name := adapter.Name()
	if name == "" {
		return errors.New("adapter name cannot be empty")
	}

	if _, exists := r.adapters[name]; exists {
		return ErrAdapterAlreadyRegistered
	}

	r.adapters[name] = adapter
	r.order = append(r.order, name)
	return nil
}

// Get retrieves the adapter for a service tag.
func (r *Registry) Get(service models.Service) (Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	adapter, exists := r.adapters[service]
	if !exists {
		return nil, ErrAdapterNotFound
	}
	return adapter, nil
}

// Services returns all registered service tags in registration order.
func (r *Registry) Services() []models.Service {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Service, len(r.order))
	copy(out, r.order)
	return out
}

// Count returns the number of registered adapters
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.adapters)
}
