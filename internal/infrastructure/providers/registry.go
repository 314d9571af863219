package providers

import (
	"fmt"

	"github.com/catsec/phoneinfo/internal/domain"
)

// Registry holds the known providers in registration order.
type Registry struct {
	byID  map[string]domain.Provider
	order []domain.Provider
}

func NewRegistry(providers ...domain.Provider) *Registry {
	r := &Registry{byID: make(map[string]domain.Provider)}
	for _, p := range providers {
		if _, ok := r.byID[p.ID()]; ok {
			continue
		}
		r.byID[p.ID()] = p
		r.order = append(r.order, p)
	}
	return r
}

// Get returns the provider registered under id.
func (r *Registry) Get(id string) (domain.Provider, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownProvider, id)
	}
	return p, nil
}

// All returns every registered provider in registration order.
func (r *Registry) All() []domain.Provider {
	return r.order
}

// Configured returns the providers that have credentials set. Unconfigured
// providers stay registered but are skipped during lookups.
func (r *Registry) Configured() []domain.Provider {
	var out []domain.Provider
	for _, p := range r.order {
		if p.Configured() {
			out = append(out, p)
		}
	}
	return out
}
