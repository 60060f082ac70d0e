package memlayout

import (
	"github.com/rs/zerolog"

	"github.com/s2inspect/memlayout/errors"
	"github.com/s2inspect/memlayout/internal/field"
	"github.com/s2inspect/memlayout/internal/fieldtype"
	"github.com/s2inspect/memlayout/internal/hierarchy"
	"github.com/s2inspect/memlayout/internal/layout"
	"github.com/s2inspect/memlayout/internal/offset"
	"github.com/s2inspect/memlayout/internal/registry"
	"github.com/s2inspect/memlayout/memory"
)

const (
	unknownState = "UNKNOWN STATE"
	maxFlagBit   = 32
	entityDBType = "EntityDB"
)

// Schema is an immutable, loaded schema with its query caches. It is safe
// for concurrent use.
type Schema struct {
	reg         *registry.Registry
	diagnostics []errors.Issue
	layout      *layout.Resolver
	offsets     *offset.Resolver
	classes     *hierarchy.Resolver
	log         zerolog.Logger
}

func notLoaded() error {
	return errors.NewIssue(errors.ErrSchemaNotLoaded, "schema not loaded", "")
}

func (s *Schema) loaded() bool {
	return s != nil && s.reg != nil
}

// Diagnostics returns the non-fatal issues found while loading.
func (s *Schema) Diagnostics() []errors.Issue {
	if !s.loaded() {
		return nil
	}
	return append([]errors.Issue(nil), s.diagnostics...)
}

// Fields returns the fields of a schema struct, or nil when it is unknown.
func (s *Schema) Fields(name string) FieldList {
	if !s.loaded() {
		return nil
	}
	list, ok := s.reg.Struct(name)
	if !ok {
		s.miss(errors.ErrUnknownType, name, "unknown struct")
		return nil
	}
	return list
}

// RootFields returns the fields registered for a built-in composite type.
func (s *Schema) RootFields(tag Tag) FieldList {
	if !s.loaded() {
		return nil
	}
	list, ok := s.reg.RootFields(tag)
	if !ok {
		s.miss(errors.ErrUnknownType, tag.String(), "no fields registered for built-in type")
		return nil
	}
	return list
}

// SubclassFields returns the fields of an entity subclass.
func (s *Schema) SubclassFields(name string) FieldList {
	if !s.loaded() {
		return nil
	}
	list, ok := s.reg.Subclass(name)
	if !ok {
		s.miss(errors.ErrUnknownType, name, "unknown entity subclass")
		return nil
	}
	return list
}

// IsEntitySubclass reports whether name has an entity subclass field list.
func (s *Schema) IsEntitySubclass(name string) bool {
	if !s.loaded() {
		return false
	}
	_, ok := s.reg.Subclass(name)
	return ok
}

// BuiltinType returns the built-in tag named name.
func (s *Schema) BuiltinType(name string) (Tag, bool) {
	return fieldtype.Lookup(name)
}

// FieldForType returns a standalone field describing a value of the named
// type, or nil when the name is neither built in nor a schema struct.
func (s *Schema) FieldForType(name string) *Field {
	if !s.loaded() {
		return nil
	}
	f := &Field{Name: name, TypeName: name, Tag: fieldtype.StructRef}
	if tag, ok := fieldtype.Lookup(name); ok {
		f.Tag = tag
		f.Size = fieldtype.NominalSize(tag)
		f.Pointer = fieldtype.IsPointer(tag)
		if fieldtype.IsRootObject(tag) {
			f.Shape = field.Composite{}
		} else {
			f.Shape = field.Scalar{}
		}
	} else if _, ok := s.reg.Struct(name); ok || s.reg.IsPermanentPointer(name) {
		f.Shape = field.StructRef{Name: name}
		f.Pointer = s.reg.IsPermanentPointer(name)
	} else {
		s.miss(errors.ErrUnknownType, name, "no field can be made for unknown type")
		return nil
	}
	if f.Pointer {
		f.Size = PointerSize
	}
	return f
}

// SizeOf returns the byte size of a field.
func (s *Schema) SizeOf(f *Field) uint64 {
	if !s.loaded() {
		return 0
	}
	return s.layout.SizeOf(f)
}

// TypeSize returns the byte size of a named type, 0 when it is unknown.
func (s *Schema) TypeSize(name string) uint64 {
	if !s.loaded() {
		return 0
	}
	return s.layout.TypeSize(name)
}

// SubclassSize returns the byte size of the fields of an entity subclass.
func (s *Schema) SubclassSize(name string) uint64 {
	if !s.loaded() {
		return 0
	}
	return s.layout.SubclassSize(name)
}

// AlignmentOf returns the alignment of a field.
func (s *Schema) AlignmentOf(f *Field) uint8 {
	if !s.loaded() {
		return PointerSize
	}
	return s.layout.AlignmentOf(f)
}

// TypeAlignment returns the alignment of a named type.
func (s *Schema) TypeAlignment(name string) uint8 {
	if !s.loaded() {
		return PointerSize
	}
	return s.layout.TypeAlignment(name)
}

// Layout flattens a struct or built-in composite into slots with offsets
// relative to its start.
func (s *Schema) Layout(name string) []Slot {
	if !s.loaded() {
		return nil
	}
	if list, ok := s.reg.Struct(name); ok {
		return s.layout.Flatten(list)
	}
	if tag, ok := fieldtype.Lookup(name); ok {
		if list, ok := s.reg.RootFields(tag); ok {
			return s.layout.Flatten(list)
		}
	}
	if list, ok := s.reg.Subclass(name); ok {
		return s.layout.Flatten(list)
	}
	s.miss(errors.ErrUnknownType, name, "layout requested for unknown type")
	return nil
}

// OffsetOf returns the address of a dotted field path inside fields placed
// at base. Pointers along the path are read through mem. The second result
// is false when the path cannot be resolved.
func (s *Schema) OffsetOf(mem memory.Reader, fields FieldList, path string, base uint64) (uint64, bool) {
	if !s.loaded() {
		return 0, false
	}
	addr, err := s.offsets.Resolve(mem, fields, path, base)
	if err != nil {
		return 0, false
	}
	return addr, true
}

// ResolveOffset is OffsetOf reporting why a path could not be resolved.
func (s *Schema) ResolveOffset(mem memory.Reader, fields FieldList, path string, base uint64) (uint64, error) {
	if !s.loaded() {
		return 0, notLoaded()
	}
	return s.offsets.Resolve(mem, fields, path, base)
}

// EntityDBSlot returns the address of entry index of an entity database
// array starting at base, or 0 when base is 0.
func (s *Schema) EntityDBSlot(base, index uint64) uint64 {
	if base == 0 || !s.loaded() {
		return 0
	}
	return base + index*s.layout.TypeSize(entityDBType)
}

// ClassHierarchy returns the class chain of a runtime entity type name, most
// derived first and ending with RootClass.
func (s *Schema) ClassHierarchy(entityName string) ([]string, error) {
	if !s.loaded() {
		return nil, notLoaded()
	}
	return s.classes.ClassHierarchy(entityName)
}

// VirtualFunctions returns the vtable entries of a type, most derived first.
func (s *Schema) VirtualFunctions(typeName string) ([]VirtualFunction, error) {
	if !s.loaded() {
		return nil, notLoaded()
	}
	return s.classes.VirtualFunctions(typeName)
}

// FlagTitle returns the label of a 1-based flag bit, or "" when the bit has
// none.
func (s *Schema) FlagTitle(ref string, bit uint8) string {
	if bit < 1 || bit > maxFlagBit || !s.loaded() {
		return ""
	}
	label, _ := s.refLabel(ref, int64(bit))
	return label
}

// StateTitle returns the label of a state code, or "UNKNOWN STATE".
func (s *Schema) StateTitle(ref string, code int64) string {
	if !s.loaded() {
		return unknownState
	}
	if label, ok := s.refLabel(ref, code); ok {
		return label
	}
	return unknownState
}

func (s *Schema) refLabel(ref string, code int64) (string, bool) {
	table, ok := s.reg.Ref(ref)
	if !ok {
		s.miss(errors.ErrUnknownRef, ref, "unknown ref table")
		return "", false
	}
	return table.Label(code)
}

// RefTitles returns the entries of a ref table in declaration order.
func (s *Schema) RefTitles(ref string) []RefEntry {
	if !s.loaded() {
		return nil
	}
	table, ok := s.reg.Ref(ref)
	if !ok {
		s.miss(errors.ErrUnknownRef, ref, "unknown ref table")
		return nil
	}
	return append([]RefEntry(nil), table.Entries...)
}

// RoomCode returns a room code, or the unknown room code placeholder.
func (s *Schema) RoomCode(id uint16) RoomCode {
	if s.loaded() {
		if rc, ok := s.reg.RoomCode(id); ok {
			return rc
		}
	}
	rc := registry.UnknownRoomCode
	rc.ID = id
	return rc
}

// JournalPages returns the journal page struct names in schema order.
func (s *Schema) JournalPages() []string {
	if !s.loaded() {
		return nil
	}
	return s.reg.JournalPages()
}

// Classifiers returns the default entity type patterns in evaluation order.
func (s *Schema) Classifiers() []Classifier {
	if !s.loaded() {
		return nil
	}
	return s.reg.Classifiers()
}

// StructNames returns the schema struct names, sorted.
func (s *Schema) StructNames() []string {
	if !s.loaded() {
		return nil
	}
	return s.reg.StructNames()
}

// SubclassNames returns the entity subclass names, sorted.
func (s *Schema) SubclassNames() []string {
	if !s.loaded() {
		return nil
	}
	return s.reg.SubclassNames()
}

func (s *Schema) miss(code errors.ErrorCode, name, msg string) {
	s.log.Debug().Str("code", string(code)).Str("name", name).Msg(msg)
}
