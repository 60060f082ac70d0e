package memlayout

import (
	"github.com/s2inspect/memlayout/internal/field"
	"github.com/s2inspect/memlayout/internal/fieldtype"
	"github.com/s2inspect/memlayout/internal/layout"
	"github.com/s2inspect/memlayout/internal/registry"
)

// PointerSize is the byte width of pointers in the inspected process.
const PointerSize = fieldtype.PointerSize

// RootClass is the class every entity class chain ends with.
const RootClass = registry.RootClass

type (
	// Tag identifies a built-in type.
	Tag = fieldtype.Tag
	// Field describes one field of a struct.
	Field = field.Field
	// FieldList is an ordered list of fields with unique names.
	FieldList = field.List
	// Shape is the tag-specific payload of a field.
	Shape = field.Shape
	// Slot is one entry of a flattened layout.
	Slot = layout.Slot
	// RefEntry is one labelled code of a ref table.
	RefEntry = registry.RefEntry
	// VirtualFunction is one vtable slot.
	VirtualFunction = registry.VirtualFunction
	// RoomCode is a labelled, coloured room code.
	RoomCode = registry.RoomCode
	// Classifier maps runtime entity type names to a default class.
	Classifier = registry.Classifier
)

// Field shapes.
type (
	Scalar       = field.Scalar
	Padding      = field.Padding
	FixedString  = field.FixedString
	Array        = field.Array
	Matrix       = field.Matrix
	Sequence     = field.Sequence
	Associative  = field.Associative
	Titled       = field.Titled
	VirtualTable = field.VirtualTable
	OnHeap       = field.OnHeap
	StructRef    = field.StructRef
	Composite    = field.Composite
)

// LookupTag returns the built-in tag with the given schema name.
func LookupTag(name string) (Tag, bool) {
	return fieldtype.Lookup(name)
}

// TagDisplayName returns the human readable name of a built-in tag.
func TagDisplayName(tag Tag) string {
	return fieldtype.DisplayName(tag)
}

// TagCPPName returns the C++ spelling of a built-in tag, empty when it has none.
func TagCPPName(tag Tag) string {
	return fieldtype.CPPName(tag)
}
