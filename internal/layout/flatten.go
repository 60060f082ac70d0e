package layout

import (
	"github.com/s2inspect/memlayout/internal/field"
	"github.com/s2inspect/memlayout/internal/state"
)

// Slot is one field of a flattened layout.
type Slot struct {
	// Path is the dotted path of the field from the flattened root.
	Path   string
	Field  *field.Field
	Offset uint64
	Size   uint64
	Align  uint8
	Depth  int
}

type frame struct {
	list   field.List
	index  int
	offset uint64
	prefix string
	depth  int
}

// Flatten lists every field of list in declaration order, descending into
// by-value nested structs and composites. Offsets are relative to the start
// of list; fields are laid out back to back.
func (r *Resolver) Flatten(list field.List) []Slot {
	out := make([]Slot, 0, len(list))
	stack := state.NewStack[frame](8)
	stack.Push(frame{list: list})
	for stack.Len() > 0 {
		top, _ := stack.Pop()
		if top.index >= len(top.list) {
			continue
		}
		f := top.list[top.index]
		slot := Slot{
			Path:   top.prefix + f.Name,
			Field:  f,
			Offset: top.offset,
			Size:   r.SizeOf(f),
			Align:  r.AlignmentOf(f),
			Depth:  top.depth,
		}
		out = append(out, slot)

		next := top
		next.index++
		next.offset += slot.Size
		stack.Push(next)

		if f.Pointer {
			continue
		}
		if children, ok := r.Nested(f); ok && len(children) > 0 {
			stack.Push(frame{
				list:   children,
				offset: slot.Offset,
				prefix: slot.Path + ".",
				depth:  top.depth + 1,
			})
		}
	}
	return out
}
