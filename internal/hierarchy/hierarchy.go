// Package hierarchy resolves entity class chains and virtual function tables.
package hierarchy

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	schemaerrors "github.com/s2inspect/memlayout/errors"
	"github.com/s2inspect/memlayout/internal/registry"
)

// DefaultCacheSize is the default number of classified entity names kept.
const DefaultCacheSize = 1024

type classification struct {
	class string
	ok    bool
}

// Resolver answers class hierarchy questions over one registry.
type Resolver struct {
	reg     *registry.Registry
	log     zerolog.Logger
	classes *lru.Cache[string, classification]
}

// New returns a resolver that remembers up to cacheSize classified names.
func New(reg *registry.Registry, cacheSize int, log zerolog.Logger) (*Resolver, error) {
	classes, err := lru.New[string, classification](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("classifier cache: %w", err)
	}
	return &Resolver{
		reg:     reg,
		log:     log.With().Str("component", "hierarchy").Logger(),
		classes: classes,
	}, nil
}

// Classify returns the subclass the default classifiers assign to a runtime
// entity type name.
func (r *Resolver) Classify(entityName string) (string, bool) {
	if c, ok := r.classes.Get(entityName); ok {
		return c.class, c.ok
	}
	class, ok := r.reg.Classify(entityName)
	r.classes.Add(entityName, classification{class: class, ok: ok})
	return class, ok
}

// ClassHierarchy returns the class chain of a runtime entity type name from
// its most derived class to the root class. Entities no classifier matches
// only have the root class.
func (r *Resolver) ClassHierarchy(entityName string) ([]string, error) {
	class, ok := r.Classify(entityName)
	if !ok {
		return []string{registry.RootClass}, nil
	}
	return r.Chain(class)
}

// Chain walks the parent map from class up to the root class. The root is
// always the last element.
func (r *Resolver) Chain(class string) ([]string, error) {
	var out []string
	for cur := class; cur != registry.RootClass; {
		out = append(out, cur)
		parent, ok := r.reg.Parent(cur)
		if !ok {
			r.log.Warn().Str("class", cur).Str("from", class).Msg("class has no parent mapping")
			return nil, schemaerrors.NewIssuef(schemaerrors.ErrUnknownClass, cur, "class %s is not part of the entity class hierarchy", cur)
		}
		cur = parent
	}
	return append(out, registry.RootClass), nil
}

// VirtualFunctions returns the vtable entries of a type, most derived first.
// Types in the entity hierarchy aggregate the entries of every class up to
// the root; other types only report their own, and must have some.
func (r *Resolver) VirtualFunctions(typeName string) ([]registry.VirtualFunction, error) {
	if !r.reg.InHierarchy(typeName) {
		funcs, ok := r.reg.VirtualFunctions(typeName)
		if !ok {
			return nil, schemaerrors.NewIssuef(schemaerrors.ErrNoVirtualFunctions, typeName, "no virtual functions registered for %s", typeName)
		}
		return append([]registry.VirtualFunction(nil), funcs...), nil
	}

	chain, err := r.Chain(typeName)
	if err != nil {
		return nil, err
	}
	var out []registry.VirtualFunction
	for _, level := range chain {
		funcs, _ := r.reg.VirtualFunctions(level)
		out = append(out, funcs...)
	}
	return out, nil
}
