package registry

import (
	"regexp"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/s2inspect/memlayout/internal/field"
	"github.com/s2inspect/memlayout/internal/fieldtype"
)

// Registry is an immutable snapshot of everything a schema load produced.
// It is never modified after Builder.Build returns it.
type Registry struct {
	pointerTypes map[string]struct{}
	journalPages []string
	alignments   map[string]uint8
	refs         map[string]RefTable
	structs      map[string]field.List
	rootFields   map[fieldtype.Tag]field.List
	subclasses   map[string]field.List
	parents      map[string]string
	classifiers  []compiledClassifier
	vfuncs       map[string][]VirtualFunction
	roomCodes    map[uint16]RoomCode
}

type compiledClassifier struct {
	Classifier
	re *regexp.Regexp
}

// IsPermanentPointer reports whether a type name is always read through a pointer.
func (r *Registry) IsPermanentPointer(name string) bool {
	_, ok := r.pointerTypes[name]
	return ok
}

// JournalPages returns the journal page struct names in schema order.
func (r *Registry) JournalPages() []string {
	return slices.Clone(r.journalPages)
}

// Alignment returns the explicit alignment override of a struct.
func (r *Registry) Alignment(name string) (uint8, bool) {
	a, ok := r.alignments[name]
	return a, ok
}

// Ref returns a named ref table.
func (r *Registry) Ref(name string) (RefTable, bool) {
	t, ok := r.refs[name]
	return t, ok
}

// Struct returns the fields of a plain struct.
func (r *Registry) Struct(name string) (field.List, bool) {
	l, ok := r.structs[name]
	return l, ok
}

// RootFields returns the fields declared for a root-object tag.
func (r *Registry) RootFields(tag fieldtype.Tag) (field.List, bool) {
	l, ok := r.rootFields[tag]
	return l, ok
}

// Subclass returns the fields of an entity subclass.
func (r *Registry) Subclass(name string) (field.List, bool) {
	l, ok := r.subclasses[name]
	return l, ok
}

// Parent returns the immediate parent of an entity subclass.
func (r *Registry) Parent(name string) (string, bool) {
	p, ok := r.parents[name]
	return p, ok
}

// InHierarchy reports whether name is the root class or has a parent mapping.
func (r *Registry) InHierarchy(name string) bool {
	if name == RootClass {
		return true
	}
	_, ok := r.parents[name]
	return ok
}

// Classify returns the class of the first classifier matching the runtime
// entity type name.
func (r *Registry) Classify(entityName string) (string, bool) {
	for _, c := range r.classifiers {
		if c.re.MatchString(entityName) {
			return c.Class, true
		}
	}
	return "", false
}

// Classifiers returns the default-class patterns in evaluation order.
func (r *Registry) Classifiers() []Classifier {
	out := make([]Classifier, len(r.classifiers))
	for i, c := range r.classifiers {
		out[i] = c.Classifier
	}
	return out
}

// VirtualFunctions returns the entries declared directly by a type.
func (r *Registry) VirtualFunctions(name string) ([]VirtualFunction, bool) {
	v, ok := r.vfuncs[name]
	return v, ok
}

// RoomCode returns a room code definition.
func (r *Registry) RoomCode(id uint16) (RoomCode, bool) {
	rc, ok := r.roomCodes[id]
	return rc, ok
}

// StructNames returns the plain struct names in sorted order.
func (r *Registry) StructNames() []string {
	names := maps.Keys(r.structs)
	slices.Sort(names)
	return names
}

// SubclassNames returns the entity subclass names in sorted order.
func (r *Registry) SubclassNames() []string {
	names := maps.Keys(r.subclasses)
	slices.Sort(names)
	return names
}

// RootTags returns the root-object tags with declared fields, in tag order.
func (r *Registry) RootTags() []fieldtype.Tag {
	tags := maps.Keys(r.rootFields)
	slices.Sort(tags)
	return tags
}

// Parents returns a copy of the subclass -> parent mapping.
func (r *Registry) Parents() map[string]string {
	return maps.Clone(r.parents)
}
