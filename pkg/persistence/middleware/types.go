// Package middleware wraps a ports.StateStore with encryption at rest and
// masking of sensitive session variables.
package middleware

import "github.com/aretw0/chatsim/pkg/ports"

// Middleware allows wrapping a StateStore to add behavior.
type Middleware func(ports.StateStore) ports.StateStore

// Chain applies mws to store; the first middleware sees calls first.
func Chain(store ports.StateStore, mws ...Middleware) ports.StateStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
