// Package registry resolves callback and guard names from declarative machine
// definitions (YAML configs) to Go functions.
package registry

import (
	"fmt"
	"sync"

	"github.com/alvion/transitions/pkg/domain"
)

// Registry maps names to callbacks and conditions.
type Registry struct {
	mu         sync.RWMutex
	callbacks  map[string]domain.Callback
	conditions map[string]domain.ConditionFunc
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		callbacks:  make(map[string]domain.Callback),
		conditions: make(map[string]domain.ConditionFunc),
	}
}

// RegisterCallback adds a named callback. An existing name is overwritten.
func (r *Registry) RegisterCallback(name string, cb domain.Callback) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callbacks[name] = cb
}

// RegisterCondition adds a named guard. An existing name is overwritten.
func (r *Registry) RegisterCondition(name string, fn domain.ConditionFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conditions[name] = fn
}

// Callback looks up a named callback.
func (r *Registry) Callback(name string) (domain.Callback, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cb, ok := r.callbacks[name]
	if !ok {
		return nil, fmt.Errorf("callback not found: %s", name)
	}
	return cb, nil
}

// Condition looks up a named guard.
func (r *Registry) Condition(name string) (domain.ConditionFunc, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.conditions[name]
	if !ok {
		return nil, fmt.Errorf("condition not found: %s", name)
	}
	return fn, nil
}

// Callbacks resolves a list of names, preserving order.
func (r *Registry) Callbacks(names []string) ([]domain.Callback, error) {
	out := make([]domain.Callback, 0, len(names))
	for _, name := range names {
		cb, err := r.Callback(name)
		if err != nil {
			return nil, err
		}
		out = append(out, cb)
	}
	return out, nil
}

// Conditions resolves a list of guard names, preserving order.
func (r *Registry) Conditions(names []string) ([]domain.ConditionFunc, error) {
	out := make([]domain.ConditionFunc, 0, len(names))
	for _, name := range names {
		fn, err := r.Condition(name)
		if err != nil {
			return nil, err
		}
		out = append(out, fn)
	}
	return out, nil
}
