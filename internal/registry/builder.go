package registry

import (
	"fmt"
	"regexp"

	"github.com/s2inspect/memlayout/internal/field"
	"github.com/s2inspect/memlayout/internal/fieldtype"
)

// Builder accumulates a registry during one load attempt. A Builder is
// single-use and not safe for concurrent use.
type Builder struct {
	reg   *Registry
	built bool
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{reg: &Registry{
		pointerTypes: make(map[string]struct{}),
		alignments:   make(map[string]uint8),
		refs:         make(map[string]RefTable),
		structs:      make(map[string]field.List),
		rootFields:   make(map[fieldtype.Tag]field.List),
		subclasses:   make(map[string]field.List),
		parents:      make(map[string]string),
		vfuncs:       make(map[string][]VirtualFunction),
		roomCodes:    make(map[uint16]RoomCode),
	}}
}

// View exposes the registry under construction for lookups that the loader
// needs while it is still adding definitions.
func (b *Builder) View() *Registry {
	return b.reg
}

// AddPointerType marks a type name as always read through a pointer.
func (b *Builder) AddPointerType(name string) {
	b.reg.pointerTypes[name] = struct{}{}
}

// AddJournalPage appends a journal page struct name.
func (b *Builder) AddJournalPage(name string) {
	b.reg.journalPages = append(b.reg.journalPages, name)
}

// SetAlignment sets an explicit struct alignment.
func (b *Builder) SetAlignment(name string, alignment uint8) {
	b.reg.alignments[name] = alignment
}

// SetRef registers or replaces a ref table.
func (b *Builder) SetRef(name string, entries []RefEntry) {
	b.reg.refs[name] = RefTable{Name: name, Entries: entries}
}

// AddRef registers a ref table unless one with that name exists.
func (b *Builder) AddRef(name string, entries []RefEntry) bool {
	if _, exists := b.reg.refs[name]; exists {
		return false
	}
	b.SetRef(name, entries)
	return true
}

// SetStruct registers a plain struct unless one with that name exists.
func (b *Builder) SetStruct(name string, fields field.List) bool {
	if _, exists := b.reg.structs[name]; exists {
		return false
	}
	b.reg.structs[name] = fields
	return true
}

// SetRootFields registers the fields of a root-object tag.
func (b *Builder) SetRootFields(tag fieldtype.Tag, fields field.List) {
	b.reg.rootFields[tag] = fields
}

// SetSubclass registers the fields of an entity subclass.
func (b *Builder) SetSubclass(name string, fields field.List) {
	b.reg.subclasses[name] = fields
}

// SetParent maps an entity subclass to its parent. Self mappings are ignored.
func (b *Builder) SetParent(name, parent string) {
	if name == parent {
		return
	}
	b.reg.parents[name] = parent
}

// AddClassifier appends a default-class pattern. Patterns must match the whole
// entity type name.
func (b *Builder) AddClassifier(pattern, class string) error {
	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return fmt.Errorf("classifier %q: %w", pattern, err)
	}
	b.reg.classifiers = append(b.reg.classifiers, compiledClassifier{
		Classifier: Classifier{Pattern: pattern, Class: class},
		re:         re,
	})
	return nil
}

// AddVirtualFunctions appends vtable entries declared by a type.
func (b *Builder) AddVirtualFunctions(owner string, funcs ...VirtualFunction) {
	if len(funcs) == 0 {
		if _, ok := b.reg.vfuncs[owner]; !ok {
			b.reg.vfuncs[owner] = nil
		}
		return
	}
	b.reg.vfuncs[owner] = append(b.reg.vfuncs[owner], funcs...)
}

// SetRoomCode registers a room code, keeping the first definition of an id.
func (b *Builder) SetRoomCode(rc RoomCode) {
	if _, exists := b.reg.roomCodes[rc.ID]; exists {
		return
	}
	b.reg.roomCodes[rc.ID] = rc
}

// Build freezes the builder and returns the registry.
func (b *Builder) Build() (*Registry, error) {
	if b.built {
		return nil, fmt.Errorf("registry builder already used")
	}
	b.built = true
	return b.reg, nil
}
