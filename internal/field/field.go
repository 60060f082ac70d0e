package field

import "github.com/s2inspect/memlayout/internal/fieldtype"

// Field describes one named slot of a struct layout.
type Field struct {
	Name    string
	Comment string
	Tag     fieldtype.Tag
	// TypeName is the type name as written in the schema.
	TypeName string
	Pointer  bool
	// Size is the declared or nominal byte size, 0 when it must be resolved.
	Size  uint64
	Shape Shape
}

// Kind returns the field's shape, never nil.
func (f *Field) Kind() Shape {
	if f == nil || f.Shape == nil {
		return Scalar{}
	}
	return f.Shape
}

// StructName returns the name of the schema struct the field refers to, if any.
func (f *Field) StructName() string {
	if s, ok := f.Kind().(StructRef); ok {
		return s.Name
	}
	return ""
}

// ElementType returns the element type of an Array, Matrix or Sequence.
func (f *Field) ElementType() string {
	switch s := f.Kind().(type) {
	case Array:
		return s.Elem
	case Matrix:
		return s.Elem
	case Sequence:
		return s.Elem
	}
	return ""
}

// Parameters returns the first and second generic parameters of the field:
// container key/value or element types, the element type of arrays and
// matrices, the ref name of flags and states, the owner of a vtable.
func (f *Field) Parameters() (first, second string) {
	switch s := f.Kind().(type) {
	case Array:
		return s.Elem, ""
	case Matrix:
		return s.Elem, ""
	case Sequence:
		return s.Elem, ""
	case Associative:
		return s.Key, s.Value
	case Titled:
		return s.Ref, ""
	case VirtualTable:
		return s.Owner, ""
	case OnHeap:
		return s.Target, ""
	}
	return "", ""
}

// Elements returns the element count of fixed strings and arrays, and
// rows*columns for matrices.
func (f *Field) Elements() uint64 {
	switch s := f.Kind().(type) {
	case FixedString:
		return s.Length
	case Array:
		return s.Length
	case Matrix:
		return s.Rows * s.Columns
	}
	return 0
}

// List is an ordered field list with unique names.
type List []*Field

// Find returns the field with the given name and its index.
func (l List) Find(name string) (*Field, int) {
	for i, f := range l {
		if f.Name == name {
			return f, i
		}
	}
	return nil, -1
}

// Names returns the field names in declaration order.
func (l List) Names() []string {
	names := make([]string, len(l))
	for i, f := range l {
		names[i] = f.Name
	}
	return names
}
