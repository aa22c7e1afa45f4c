package agent

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrNilFactory is returned when attempting to register a nil factory.
	ErrNilFactory = errors.New("strategy factory must not be nil")

	// ErrAlreadyRegistered is returned when attempting to register a duplicate
	// agent type.
	ErrAlreadyRegistered = errors.New("agent type already registered")
)

// UnknownAgentTypeError is returned when a strategy is requested for an
// agent type the registry does not know.
type UnknownAgentTypeError struct {
	AgentType string
	Supported []string
}

func (e *UnknownAgentTypeError) Error() string {
	return fmt.Sprintf("unknown agent type %q (supported: %s)",
		e.AgentType, strings.Join(e.Supported, ", "))
}

// Factory constructs a fresh strategy instance.
type Factory func() Strategy

// Registry maps agent types to strategy factories. New strategies can be
// registered at runtime; instance maps produced by Instantiate are
// independent of later registrations and of each other.
//
// Safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a registry with the built-in strategies registered.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.factories[TypeNone] = func() Strategy { return NewDirectStrategy() }
	r.factories[TypeChainOfThought] = func() Strategy { return NewChainOfThoughtStrategy() }
	return r
}

// Register adds a strategy factory under the given agent type.
func (r *Registry) Register(agentType string, factory Factory) error {
	if factory == nil {
		return ErrNilFactory
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[agentType]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, agentType)
	}
	r.factories[agentType] = factory
	return nil
}

// CreateService instantiates a fresh strategy for the given agent type.
func (r *Registry) CreateService(agentType string) (Strategy, error) {
	r.mu.RLock()
	factory, ok := r.factories[agentType]
	r.mu.RUnlock()

	if !ok {
		return nil, &UnknownAgentTypeError{
			AgentType: agentType,
			Supported: r.SupportedTypes(),
		}
	}
	return factory(), nil
}

// Instantiate builds a fresh agent-type-to-instance map for one evaluation
// run. Each call returns distinct strategy instances so per-instance state
// cannot leak across runs.
func (r *Registry) Instantiate() map[string]Strategy {
	r.mu.RLock()
	defer r.mu.RUnlock()

	instances := make(map[string]Strategy, len(r.factories))
	for agentType, factory := range r.factories {
		instances[agentType] = factory()
	}
	return instances
}

// SupportedTypes returns the registered agent types in sorted order.
func (r *Registry) SupportedTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.factories))
	for agentType := range r.factories {
		types = append(types, agentType)
	}
	sort.Strings(types)
	return types
}
