// Package tables resolves named content tables across layered scopes:
// district, city, the global store and the built-in fallback pool.
package tables

import (
	"github.com/lawnchairsociety/hexforge/internal/content"
	"github.com/lawnchairsociety/hexforge/internal/logger"
)

// Scope is an authored table source such as a district or a city.
// Implementations must accept nil receivers.
type Scope interface {
	Lookup(category content.Category, name string) []string
}

// Store is the global table store, keyed by (category, table, language).
// A missing table is an empty result, not an error.
type Store interface {
	Table(category, name, language string) ([]string, error)
}

// Resolver probes scopes in order, then the global store, then the
// fallback pool. The first non-empty table wins; an empty table at a more
// specific level never blocks the next one.
type Resolver struct {
	store    Store
	language string
	pool     content.Pool
}

// NewResolver creates a resolver over store (which may be nil) for language.
func NewResolver(store Store, language string) *Resolver {
	return &Resolver{
		store:    store,
		language: CanonicalLanguage(language),
		pool:     content.Fallback(),
	}
}

// WithPool returns a copy of the resolver using pool as the last level.
func (r *Resolver) WithPool(pool content.Pool) *Resolver {
	c := *r
	c.pool = pool
	return &c
}

// Resolve returns the first non-empty table called name for category.
// Scopes are probed in the order given, most specific first. It never
// fails; when nothing is populated it returns an empty slice.
func (r *Resolver) Resolve(category content.Category, name string, scopes ...Scope) []string {
	for _, scope := range scopes {
		if scope == nil {
			continue
		}
		if list := scope.Lookup(category, name); len(list) > 0 {
			return list
		}
	}

	if r.store != nil {
		list, err := r.store.Table(category.String(), name, r.language)
		if err != nil {
			logger.Warning("Global table lookup failed, using fallback",
				"category", category.String(), "table", name, "language", r.language, "error", err)
		} else if len(list) > 0 {
			return list
		}
	}

	if list := r.pool.Lookup(category.String(), name); len(list) > 0 {
		return list
	}
	return []string{}
}

// ResolveFirst resolves each table name in turn and returns the first
// non-empty result. Used for specific-then-generic pairs such as
// "names_forest" then "names".
func (r *Resolver) ResolveFirst(category content.Category, names []string, scopes ...Scope) []string {
	for _, name := range names {
		if list := r.Resolve(category, name, scopes...); len(list) > 0 {
			return list
		}
	}
	return []string{}
}
