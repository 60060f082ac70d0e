package fieldtype

// Get returns the table row of a tag.
func Get(tag Tag) (Info, bool) {
	info, ok := defaultRegistry.byTag[tag]
	return info, ok
}

// Lookup resolves a schema type name to its tag.
func Lookup(name string) (Tag, bool) {
	tag, ok := defaultRegistry.byName[name]
	return tag, ok
}

// List returns the table rows in declaration order.
func List() []Info {
	if len(defaultRegistry.ordered) == 0 {
		return nil
	}
	items := make([]Info, len(defaultRegistry.ordered))
	copy(items, defaultRegistry.ordered)
	return items
}

// IsPointer reports whether a tag is inherently a pointer.
func IsPointer(tag Tag) bool {
	info, ok := Get(tag)
	return ok && info.Pointer
}

// NominalSize returns the table size of a tag, 0 when computed or unknown.
func NominalSize(tag Tag) uint64 {
	info, ok := Get(tag)
	if !ok {
		return 0
	}
	return info.Size
}

// IsRootObject reports whether a tag names one of the well-known game root objects,
// whose fields are declared in the schema under the tag's own name.
func IsRootObject(tag Tag) bool {
	return tag >= GameManager && tag <= LiquidPhysics
}

// DisplayName returns the human readable name of a tag.
func DisplayName(tag Tag) string {
	info, ok := Get(tag)
	if !ok {
		return ""
	}
	return info.DisplayName
}

// CPPName returns the C++ spelling of a tag, if it has one.
func CPPName(tag Tag) string {
	info, ok := Get(tag)
	if !ok {
		return ""
	}
	return info.CPPName
}
