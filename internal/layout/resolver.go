package layout

import (
	"sync"

	"github.com/rs/zerolog"

	schemaerrors "github.com/s2inspect/memlayout/errors"
	"github.com/s2inspect/memlayout/internal/field"
	"github.com/s2inspect/memlayout/internal/fieldtype"
	"github.com/s2inspect/memlayout/internal/registry"
)

// Resolver computes sizes and alignments over one registry. Results are
// memoized per type name and per built-in composite for the lifetime of the
// resolver; the registry is immutable so cached values never go stale.
type Resolver struct {
	reg *registry.Registry
	log zerolog.Logger

	mu            sync.RWMutex
	rootSizes     map[fieldtype.Tag]uint64
	typeSizes     map[string]uint64
	subclassSizes map[string]uint64
	typeAligns    map[string]uint8
}

// New returns a resolver over reg.
func New(reg *registry.Registry, log zerolog.Logger) *Resolver {
	return &Resolver{
		reg:           reg,
		log:           log.With().Str("component", "layout").Logger(),
		rootSizes:     make(map[fieldtype.Tag]uint64),
		typeSizes:     make(map[string]uint64),
		subclassSizes: make(map[string]uint64),
		typeAligns:    make(map[string]uint8),
	}
}

// Registry returns the registry the resolver works on.
func (r *Resolver) Registry() *registry.Registry {
	return r.reg
}

func cached[K comparable, V any](r *Resolver, m map[K]V, key K) (V, bool) {
	r.mu.RLock()
	v, ok := m[key]
	r.mu.RUnlock()
	return v, ok
}

func store[K comparable, V any](r *Resolver, m map[K]V, key K, v V) V {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := m[key]; ok {
		return prev
	}
	m[key] = v
	return v
}

// SizeOf returns the byte size of a field.
func (r *Resolver) SizeOf(f *field.Field) uint64 {
	if f == nil {
		return 0
	}
	if f.Pointer {
		return fieldtype.PointerSize
	}
	if f.Size != 0 {
		return f.Size
	}
	switch sh := f.Kind().(type) {
	case field.Array:
		return sh.Length * r.TypeSize(sh.Elem)
	case field.Matrix:
		return sh.Rows * sh.Columns * r.TypeSize(sh.Elem)
	case field.StructRef:
		return r.TypeSize(sh.Name)
	}
	return r.rootSize(f.Tag)
}

// ListSize returns the sum of the sizes of a field list.
func (r *Resolver) ListSize(list field.List) uint64 {
	var total uint64
	for _, f := range list {
		total += r.SizeOf(f)
	}
	return total
}

func (r *Resolver) rootSize(tag fieldtype.Tag) uint64 {
	if v, ok := cached(r, r.rootSizes, tag); ok {
		return v
	}
	list, ok := r.reg.RootFields(tag)
	if !ok {
		r.log.Debug().Str("type", tag.String()).Msg("no fields registered for built-in type")
		return 0
	}
	return store(r, r.rootSizes, tag, r.ListSize(list))
}

// TypeSize returns the byte size of a type by name: permanent pointer types,
// schema structs and built-in types. Unknown names are 0.
func (r *Resolver) TypeSize(name string) uint64 {
	if name == "" {
		return 0
	}
	if r.reg.IsPermanentPointer(name) {
		return fieldtype.PointerSize
	}
	if v, ok := cached(r, r.typeSizes, name); ok {
		return v
	}

	var size uint64
	if list, ok := r.reg.Struct(name); ok {
		size = r.ListSize(list)
	} else if tag, ok := fieldtype.Lookup(name); ok {
		size = fieldtype.NominalSize(tag)
		if size == 0 {
			size = r.rootSize(tag)
		}
	} else {
		r.soft(schemaerrors.ErrUnknownType, name, "size requested for unknown type")
	}
	return store(r, r.typeSizes, name, size)
}

// SubclassSize returns the summed field size of an entity subclass.
func (r *Resolver) SubclassSize(name string) uint64 {
	if v, ok := cached(r, r.subclassSizes, name); ok {
		return v
	}
	list, ok := r.reg.Subclass(name)
	if !ok {
		r.soft(schemaerrors.ErrUnknownType, name, "size requested for unknown entity subclass")
		return 0
	}
	return store(r, r.subclassSizes, name, r.ListSize(list))
}

// AlignmentOf returns the alignment of a field: 1, 2, 4 or 8.
func (r *Resolver) AlignmentOf(f *field.Field) uint8 {
	if f == nil {
		return 1
	}
	if f.Pointer {
		return fieldtype.PointerSize
	}
	switch sh := f.Kind().(type) {
	case field.Array:
		return r.TypeAlignment(sh.Elem)
	case field.Matrix:
		return r.TypeAlignment(sh.Elem)
	case field.StructRef:
		return r.TypeAlignment(sh.Name)
	}
	return r.TagAlignment(f.Tag)
}

// TagAlignment returns the alignment class of a built-in tag. Skip has no
// alignment and reports pointer width.
func (r *Resolver) TagAlignment(tag fieldtype.Tag) uint8 {
	a, ok := fieldtype.Alignment(tag)
	if !ok {
		r.soft(schemaerrors.ErrUnknownAlignment, tag.String(), "alignment of padding is undefined")
	}
	return a
}

// TypeAlignment returns the alignment of a type by name. Explicit overrides
// win over the widest field of a struct.
func (r *Resolver) TypeAlignment(name string) uint8 {
	if r.reg.IsPermanentPointer(name) {
		return fieldtype.PointerSize
	}
	if tag, ok := fieldtype.Lookup(name); ok {
		if fieldtype.IsPointer(tag) {
			return fieldtype.PointerSize
		}
		return r.TagAlignment(tag)
	}
	if a, ok := r.reg.Alignment(name); ok {
		return a
	}
	if v, ok := cached(r, r.typeAligns, name); ok {
		return v
	}
	list, ok := r.reg.Struct(name)
	if !ok {
		r.soft(schemaerrors.ErrUnknownAlignment, name, "alignment requested for unknown type")
		return fieldtype.PointerSize
	}
	var widest uint8
	for _, f := range list {
		if a := r.AlignmentOf(f); a > widest {
			widest = a
			if widest >= fieldtype.PointerSize {
				break
			}
		}
	}
	if widest == 0 {
		r.soft(schemaerrors.ErrUnknownAlignment, name, "alignment not found")
		widest = fieldtype.PointerSize
	}
	return store(r, r.typeAligns, name, widest)
}

// Nested returns the field list a field descends into, regardless of whether
// the field is read through a pointer: the named struct of a struct
// reference or the registered fields of a built-in composite.
func (r *Resolver) Nested(f *field.Field) (field.List, bool) {
	switch sh := f.Kind().(type) {
	case field.StructRef:
		return r.reg.Struct(sh.Name)
	case field.Composite:
		return r.reg.RootFields(f.Tag)
	}
	return nil, false
}

func (r *Resolver) soft(code schemaerrors.ErrorCode, path, msg string) {
	r.log.Warn().Str("code", string(code)).Str("type", path).Msg(msg)
}
