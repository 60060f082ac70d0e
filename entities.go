package memlayout

const unknownEntity = "UNKNOWN/DEAD ENTITY"

// EntityList maps numeric entity type ids to their names.
type EntityList struct {
	names   map[uint32]string
	ids     map[string]uint32
	highest uint32
}

// NewEntityList builds an entity list from id -> name pairs.
func NewEntityList(names map[uint32]string) *EntityList {
	l := &EntityList{
		names: make(map[uint32]string, len(names)),
		ids:   make(map[string]uint32, len(names)),
	}
	for id, name := range names {
		l.names[id] = name
		if prev, ok := l.ids[name]; !ok || id < prev {
			l.ids[name] = id
		}
		if id > l.highest {
			l.highest = id
		}
	}
	return l
}

// DisplayName returns the name of an entity type id. Id 0, ids above the
// highest known id and unassigned ids are reported as "UNKNOWN/DEAD ENTITY".
func (l *EntityList) DisplayName(id uint32) string {
	if l == nil || id == 0 || id > l.highest {
		return unknownEntity
	}
	if name, ok := l.names[id]; ok {
		return name
	}
	return unknownEntity
}

// ID returns the lowest id registered for a name.
func (l *EntityList) ID(name string) (uint32, bool) {
	if l == nil {
		return 0, false
	}
	id, ok := l.ids[name]
	return id, ok
}

// HighestID returns the largest id in the list.
func (l *EntityList) HighestID() uint32 {
	if l == nil {
		return 0
	}
	return l.highest
}
