package field

// Shape carries the tag-specific attributes of a field. Exactly one variant
// applies to a field; the zero Shape is Scalar.
type Shape interface {
	shape()
}

// Scalar is a fixed-size built-in value with no further attributes.
type Scalar struct{}

// Padding is a Skip field; its byte count is the field's Size.
type Padding struct{}

// FixedString is an inline UTF-16 or UTF-8 character array.
type FixedString struct {
	Length    uint64
	UnitWidth uint64
}

// Array is a fixed count of elements of a named type.
type Array struct {
	Length uint64
	Elem   string
}

// Matrix is a Rows x Columns block of elements of a named type.
type Matrix struct {
	Rows    uint64
	Columns uint64
	Elem    string
}

// Sequence is a vector or list container.
type Sequence struct {
	Elem string
}

// Associative is a map or set container. A set has an empty Value.
type Associative struct {
	Key   string
	Value string
}

// IsSet reports whether the container carries keys only.
func (a Associative) IsSet() bool {
	return a.Value == ""
}

// Titled is a flags or state value whose codes are labelled by a ref table.
type Titled struct {
	Ref string
}

// VirtualTable is a vtable pointer owned by a type.
type VirtualTable struct {
	Owner string
}

// OnHeap is an offset into the game heap, optionally typed.
type OnHeap struct {
	Target string
}

// StructRef names a schema-defined struct.
type StructRef struct {
	Name string
}

// Composite is a root-object field whose layout is the field list declared
// under the tag's own name.
type Composite struct{}

func (Scalar) shape()       {}
func (Padding) shape()      {}
func (FixedString) shape()  {}
func (Array) shape()        {}
func (Matrix) shape()       {}
func (Sequence) shape()     {}
func (Associative) shape()  {}
func (Titled) shape()       {}
func (VirtualTable) shape() {}
func (OnHeap) shape()       {}
func (StructRef) shape()    {}
func (Composite) shape()    {}
