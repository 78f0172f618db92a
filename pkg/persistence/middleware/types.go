// Package middleware wraps a ports.StateStore with cross-cutting behavior
// applied on the way to and from the backing store.
package middleware

import "github.com/alvion/transitions/pkg/ports"

// Middleware allows wrapping a StateStore to add behavior.
type Middleware func(ports.StateStore) ports.StateStore

// Chain applies middlewares to a store so that the first middleware in the
// list is the outermost wrapper.
func Chain(store ports.StateStore, middlewares ...Middleware) ports.StateStore {
	for i := len(middlewares) - 1; i >= 0; i-- {
		store = middlewares[i](store)
	}
	return store
}
