package loader

import (
	"image/color"

	schemaerrors "github.com/s2inspect/memlayout/errors"
	"github.com/s2inspect/memlayout/internal/fieldtype"
	"github.com/s2inspect/memlayout/internal/registry"
	"github.com/s2inspect/memlayout/internal/schemadoc"
)

const maxAlignment = fieldtype.PointerSize

const (
	defaultRoomCodeName = "Unnamed room code"
	vtableFunctionsKey  = "vftablefunctions"
)

func (s *session) requireObject(root *schemadoc.Node) bool {
	if root == nil || root.Kind != schemadoc.Object {
		kind := schemadoc.Null
		if root != nil {
			kind = root.Kind
		}
		s.fail(schemaerrors.NewIssuef(schemaerrors.ErrSourceParse, "", "document root must be an object, got %s", kind))
		return false
	}
	return true
}

func (s *session) stringList(n *schemadoc.Node, path string, add func(string)) {
	for _, item := range n.Items {
		v, err := item.Str()
		if err != nil {
			s.fail(schemaerrors.NewIssue(schemaerrors.ErrAttributeInvalid, err.Error(), path))
			continue
		}
		add(v)
	}
}

func (s *session) processMain(root *schemadoc.Node) {
	if !s.requireObject(root) {
		return
	}
	if n, ok := s.section(root, "pointer_types", schemadoc.Array); ok {
		s.stringList(n, "pointer_types", s.b.AddPointerType)
	}
	if n, ok := s.section(root, "journal_pages", schemadoc.Array); ok {
		s.stringList(n, "journal_pages", s.b.AddJournalPage)
	}
	if n, ok := s.section(root, "struct_alignments", schemadoc.Object); ok {
		for _, m := range n.Members {
			path := "struct_alignments." + m.Key
			v, err := m.Value.Uint()
			if err != nil {
				s.fail(schemaerrors.NewIssue(schemaerrors.ErrAttributeInvalid, err.Error(), path))
				continue
			}
			if v == 0 || v > maxAlignment || v&(v-1) != 0 {
				s.fail(schemaerrors.NewIssuef(schemaerrors.ErrAlignmentRange, path, "alignment %d of %s is not a power of two up to %d", v, m.Key, maxAlignment))
				continue
			}
			s.b.SetAlignment(m.Key, uint8(v))
		}
	}
	if n, ok := s.section(root, "refs", schemadoc.Object); ok {
		for _, m := range n.Members {
			if entries, ok := s.refEntries(m.Value, "refs."+m.Key); ok {
				s.b.SetRef(m.Key, entries)
			}
		}
	}
	if n, ok := s.section(root, "fields", schemadoc.Object); ok {
		for _, m := range n.Members {
			list := s.fieldList(m.Value, m.Key, nil)
			if tag, builtin := fieldtype.Lookup(m.Key); builtin {
				s.b.SetRootFields(tag, list)
				continue
			}
			if !s.b.SetStruct(m.Key, list) {
				s.warn(schemaerrors.NewIssuef(schemaerrors.WarnDuplicateStruct, m.Key, "struct %s defined twice, keeping the first definition", m.Key))
			}
		}
	}
}

func (s *session) processEntities(root *schemadoc.Node) {
	if !s.requireObject(root) {
		return
	}
	if n, ok := s.section(root, "entity_class_hierarchy", schemadoc.Object); ok {
		for _, m := range n.Members {
			parent, err := m.Value.Str()
			if err != nil {
				s.fail(schemaerrors.NewIssue(schemaerrors.ErrAttributeInvalid, err.Error(), "entity_class_hierarchy."+m.Key))
				continue
			}
			s.b.SetParent(m.Key, parent)
		}
	}
	if n, ok := s.section(root, "default_entity_types", schemadoc.Object); ok {
		for _, m := range n.Members {
			path := "default_entity_types." + m.Key
			class, err := m.Value.Str()
			if err != nil {
				s.fail(schemaerrors.NewIssue(schemaerrors.ErrAttributeInvalid, err.Error(), path))
				continue
			}
			if err := s.b.AddClassifier(m.Key, class); err != nil {
				s.fail(schemaerrors.NewIssue(schemaerrors.ErrAttributeInvalid, err.Error(), path))
			}
		}
	}
	if n, ok := s.section(root, "fields", schemadoc.Object); ok {
		for _, m := range n.Members {
			owner := m.Key
			list := s.fieldList(m.Value, owner, func(item *schemadoc.Node) bool {
				fn, ok := item.Get(vtableFunctionsKey)
				if !ok {
					return false
				}
				s.virtualFunctions(fn, owner, owner+"."+vtableFunctionsKey)
				return true
			})
			s.b.SetSubclass(owner, list)
		}
	}
}

func (s *session) processRoomCodes(root *schemadoc.Node) {
	if !s.requireObject(root) {
		return
	}
	colors := make(map[string]color.RGBA)
	if n, ok := s.section(root, "colors", schemadoc.Object); ok {
		for _, m := range n.Members {
			if c, ok := s.color(m.Value, "colors."+m.Key); ok {
				colors[m.Key] = c
			}
		}
	}
	n, ok := s.section(root, "roomcodes", schemadoc.Object)
	if !ok {
		return
	}
	for _, m := range n.Members {
		path := "roomcodes." + m.Key
		id, err := schemadoc.ParseHex16(m.Key)
		if err != nil {
			s.fail(schemaerrors.NewIssue(schemaerrors.ErrAttributeInvalid, err.Error(), path))
			continue
		}
		if m.Value.Kind != schemadoc.Object {
			s.fail(schemaerrors.NewIssuef(schemaerrors.ErrAttributeInvalid, path, "expected object, got %s", m.Value.Kind))
			continue
		}
		name, err := m.Value.StringOr("name", defaultRoomCodeName)
		if err != nil {
			s.fail(schemaerrors.NewIssue(schemaerrors.ErrAttributeInvalid, err.Error(), path))
			continue
		}
		colorName, err := m.Value.StringOr("color", "")
		if err != nil {
			s.fail(schemaerrors.NewIssue(schemaerrors.ErrAttributeInvalid, err.Error(), path))
			continue
		}
		c, ok := colors[colorName]
		if !ok {
			c = registry.UnknownRoomCode.Color
		}
		s.b.SetRoomCode(registry.RoomCode{ID: id, Name: name, Color: c})
	}
}

func (s *session) color(n *schemadoc.Node, path string) (color.RGBA, bool) {
	if n.Kind != schemadoc.Object {
		s.fail(schemaerrors.NewIssuef(schemaerrors.ErrAttributeInvalid, path, "expected object, got %s", n.Kind))
		return color.RGBA{}, false
	}
	a := attrs{s: s, n: n, path: path}
	var channels [4]uint8
	for i, key := range []string{"r", "g", "b", "a"} {
		v, st := a.uint(key)
		switch {
		case st == invalid:
			return color.RGBA{}, false
		case st == absent:
			s.fail(schemaerrors.NewIssuef(schemaerrors.ErrAttributeInvalid, path, "missing `%s` channel", key))
			return color.RGBA{}, false
		case v > 255:
			s.fail(schemaerrors.NewIssuef(schemaerrors.ErrAttributeInvalid, path, "channel `%s` out of range: %d", key, v))
			return color.RGBA{}, false
		}
		channels[i] = uint8(v)
	}
	return color.RGBA{R: channels[0], G: channels[1], B: channels[2], A: channels[3]}, true
}
