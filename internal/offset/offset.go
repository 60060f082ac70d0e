// Package offset resolves dotted field paths to absolute addresses.
package offset

import (
	"strings"

	"github.com/rs/zerolog"

	schemaerrors "github.com/s2inspect/memlayout/errors"
	"github.com/s2inspect/memlayout/internal/field"
	"github.com/s2inspect/memlayout/internal/fieldtype"
	"github.com/s2inspect/memlayout/internal/layout"
	"github.com/s2inspect/memlayout/memory"
)

// Resolver walks field lists accumulating field sizes.
type Resolver struct {
	layout *layout.Resolver
	log    zerolog.Logger
}

// New returns an offset resolver using sizes from l.
func New(l *layout.Resolver, log zerolog.Logger) *Resolver {
	return &Resolver{
		layout: l,
		log:    log.With().Str("component", "offset").Logger(),
	}
}

// Resolve returns the address of path inside list, which starts at base.
// Pointer fields along the path are followed through mem; mem may be nil when
// the path crosses no pointer. Array and matrix elements cannot be addressed.
func (r *Resolver) Resolve(mem memory.Reader, list field.List, path string, base uint64) (uint64, error) {
	addr := base
	walked := ""
	for {
		head, rest, more := strings.Cut(path, ".")
		f, skipped := r.scan(list, head)
		if f == nil {
			return 0, r.miss(schemaerrors.NewIssuef(schemaerrors.ErrUnknownField, walked+head, "no field named %q", head))
		}
		addr += skipped
		if !more {
			return addr, nil
		}
		walked += head + "."

		switch f.Kind().(type) {
		case field.OnHeap:
			return 0, r.miss(schemaerrors.NewIssue(schemaerrors.ErrUnsupportedPath, "cannot descend through an on-heap pointer", walked+rest))
		case field.Array, field.Matrix:
			return 0, r.miss(schemaerrors.NewIssue(schemaerrors.ErrUnsupportedPath, "cannot address array or matrix elements", walked+rest))
		}
		nested, ok := r.layout.Nested(f)
		if !ok {
			return 0, r.miss(schemaerrors.NewIssuef(schemaerrors.ErrUnknownType, walked+rest, "field %s of type %s has no nested fields", f.Name, f.TypeName))
		}
		if f.Pointer {
			target, err := deref(mem, addr)
			if err != nil {
				return 0, r.miss(schemaerrors.NewIssuef(schemaerrors.ErrPointerRead, strings.TrimSuffix(walked, "."), "read pointer at %#x: %v", addr, err))
			}
			addr = target
		}
		list, path = nested, rest
	}
}

// scan finds name in list and returns the byte distance from the list start.
func (r *Resolver) scan(list field.List, name string) (*field.Field, uint64) {
	var offset uint64
	for _, f := range list {
		if f.Name == name {
			return f, offset
		}
		offset += r.layout.SizeOf(f)
	}
	return nil, 0
}

func deref(mem memory.Reader, addr uint64) (uint64, error) {
	if mem == nil || !mem.IsValid(addr, fieldtype.PointerSize) {
		return 0, memory.ErrInvalidAddress
	}
	target, err := mem.ReadQword(addr)
	if err != nil {
		return 0, err
	}
	if target == 0 {
		return 0, memory.ErrInvalidAddress
	}
	return target, nil
}

func (r *Resolver) miss(issue *schemaerrors.Issue) error {
	r.log.Debug().Str("code", string(issue.Code)).Str("path", issue.Path).Msg(issue.Message)
	return issue
}
