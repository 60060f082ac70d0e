package loader

import (
	"strconv"

	schemaerrors "github.com/s2inspect/memlayout/errors"
	"github.com/s2inspect/memlayout/internal/field"
	"github.com/s2inspect/memlayout/internal/fieldtype"
	"github.com/s2inspect/memlayout/internal/registry"
	"github.com/s2inspect/memlayout/internal/schemadoc"
)

const (
	defaultFunctionName   = "unnamed function"
	defaultFunctionReturn = "void"
)

// populateField builds one field descriptor of the struct owner. It returns
// nil when the field is unusable; the reason has been recorded.
func (s *session) populateField(n *schemadoc.Node, owner string) *field.Field {
	if n == nil || n.Kind != schemadoc.Object {
		s.fail(schemaerrors.NewIssue(schemaerrors.ErrAttributeInvalid, "field entry must be an object", owner))
		return nil
	}
	head := attrs{s: s, n: n, path: owner}
	name, st := head.str("field")
	if st != valid {
		if st == absent {
			s.fail(schemaerrors.NewIssue(schemaerrors.ErrAttributeInvalid, "missing `field` name", owner))
		}
		return nil
	}
	path := owner + "." + name
	a := attrs{s: s, n: n, path: path}
	typeName, st := a.str("type")
	if st != valid {
		if st == absent {
			s.fail(schemaerrors.NewIssue(schemaerrors.ErrAttributeInvalid, "missing `type`", path))
		}
		return nil
	}
	comment, _ := a.str("comment")

	f := &field.Field{
		Name:     name,
		Comment:  comment,
		Tag:      fieldtype.StructRef,
		TypeName: typeName,
	}
	explicitPointer, _ := a.boolean("pointer")
	if explicitPointer || s.b.View().IsPermanentPointer(typeName) {
		f.Pointer = true
		f.Size = fieldtype.PointerSize
	}

	switch typeName {
	case fieldtype.NameStdSet:
		f.Tag = fieldtype.StdMap
		f.Size = fieldtype.NominalSize(fieldtype.StdMap)
	case fieldtype.NameStdUnorderedSet:
		f.Tag = fieldtype.StdUnorderedMap
		f.Size = fieldtype.NominalSize(fieldtype.StdUnorderedMap)
	default:
		if tag, ok := fieldtype.Lookup(typeName); ok {
			f.Tag = tag
			f.Size = fieldtype.NominalSize(tag)
		}
	}
	if offset, st := a.uint("offset"); st == valid {
		f.Size = offset
	}

	isSet := typeName == fieldtype.NameStdSet || typeName == fieldtype.NameStdUnorderedSet
	ok := s.shapeField(f, a, owner, typeName, isSet)
	if !ok {
		return nil
	}

	if fieldtype.IsPointer(f.Tag) {
		f.Pointer = true
	}
	if f.Pointer {
		f.Size = fieldtype.PointerSize
	}
	return f
}

func (s *session) shapeField(f *field.Field, a attrs, owner, typeName string, isSet bool) bool {
	switch f.Tag {
	case fieldtype.Skip:
		if f.Pointer {
			s.fail(schemaerrors.NewIssue(schemaerrors.ErrSkipPointer, "Skip element cannot be marked as pointer", a.path))
			return false
		}
		if f.Size == 0 {
			s.fail(schemaerrors.NewIssue(schemaerrors.ErrSkipSize, "no offset specified for Skip", a.path))
			return false
		}
		f.Shape = field.Padding{}

	case fieldtype.StdMap, fieldtype.StdUnorderedMap:
		shape := field.Associative{Key: s.elementType(a, "keytype", typeName)}
		if !isSet {
			shape.Value = s.elementType(a, "valuetype", typeName)
		}
		f.Shape = shape

	case fieldtype.StdVector, fieldtype.StdList, fieldtype.OldStdList:
		f.Shape = field.Sequence{Elem: s.elementType(a, "valuetype", typeName)}

	case fieldtype.Flags8, fieldtype.Flags16, fieldtype.Flags32:
		f.Shape = field.Titled{Ref: s.titles(a, owner, f.Name, "flags")}

	case fieldtype.State8, fieldtype.State16, fieldtype.State32:
		f.Shape = field.Titled{Ref: s.titles(a, owner, f.Name, "states")}

	case fieldtype.VirtualFunctionTable:
		f.Shape = field.VirtualTable{Owner: owner}
		if fn, ok := a.n.Get("functions"); ok {
			s.virtualFunctions(fn, owner, a.path+".functions")
		}

	case fieldtype.UTF16StringFixedSize:
		length, st := a.uint("length")
		switch {
		case st == invalid:
			return false
		case st == valid:
			f.Size = length * 2
		case f.Size == 0:
			s.fail(schemaerrors.NewIssue(schemaerrors.ErrStringLength, "missing `length` or `offset` parameter for UTF16StringFixedSize", a.path))
			return false
		default:
			length = f.Size / 2
		}
		f.Shape = field.FixedString{Length: length, UnitWidth: 2}

	case fieldtype.UTF8StringFixedSize:
		length, st := a.uint("length")
		if st == invalid {
			return false
		}
		if st == valid {
			f.Size = length
		}
		if f.Size == 0 {
			s.fail(schemaerrors.NewIssue(schemaerrors.ErrStringLength, "missing valid `length` or `offset` parameter for UTF8StringFixedSize", a.path))
			return false
		}
		f.Shape = field.FixedString{Length: f.Size, UnitWidth: 1}

	case fieldtype.Array:
		length, st := a.uint("length")
		switch st {
		case absent:
			s.fail(schemaerrors.NewIssue(schemaerrors.ErrArrayLength, "missing `length` parameter for Array", a.path))
			return false
		case invalid:
			return false
		}
		if length == 0 {
			s.fail(schemaerrors.NewIssue(schemaerrors.ErrArrayLength, "length 0 not allowed for Array type", a.path))
			return false
		}
		elem, st := a.str("arraytype")
		if st != valid {
			if st == absent {
				s.fail(schemaerrors.NewIssue(schemaerrors.ErrArrayType, "missing `arraytype` parameter for Array", a.path))
			}
			return false
		}
		f.Shape = field.Array{Length: length, Elem: elem}

	case fieldtype.Matrix:
		elem, st := a.str("matrixtype")
		if st != valid {
			if st == absent {
				s.fail(schemaerrors.NewIssue(schemaerrors.ErrMatrixType, "missing `matrixtype` parameter for Matrix", a.path))
			}
			return false
		}
		rows, ok := s.dimension(a, "row")
		if !ok {
			return false
		}
		cols, ok := s.dimension(a, "col")
		if !ok {
			return false
		}
		f.Shape = field.Matrix{Rows: rows, Columns: cols, Elem: elem}

	case fieldtype.OnHeapPointer:
		target, _ := a.str("pointertype")
		f.Shape = field.OnHeap{Target: target}

	case fieldtype.UndeterminedThemeInfoPointer:
		f.Shape = field.StructRef{Name: "ThemeInfoPointer"}

	case fieldtype.StructRef:
		f.Shape = field.StructRef{Name: typeName}

	default:
		if fieldtype.IsRootObject(f.Tag) {
			f.Shape = field.Composite{}
		} else {
			f.Shape = field.Scalar{}
		}
	}
	return true
}

func (s *session) dimension(a attrs, key string) (uint64, bool) {
	v, st := a.uint(key)
	switch st {
	case absent:
		s.fail(schemaerrors.NewIssuef(schemaerrors.ErrMatrixShape, a.path, "missing `%s` parameter for Matrix", key))
		return 0, false
	case invalid:
		return 0, false
	}
	if v == 0 {
		s.fail(schemaerrors.NewIssue(schemaerrors.ErrMatrixShape, "size 0 not allowed for Matrix type", a.path))
		return 0, false
	}
	return v, true
}

// elementType returns a container type parameter, defaulting it with a diagnostic.
func (s *session) elementType(a attrs, key, typeName string) string {
	v, st := a.str(key)
	if st == valid {
		return v
	}
	if st == absent {
		s.warn(schemaerrors.NewIssuef(schemaerrors.WarnDefaultElementType, a.path, "no %s specified for %s", key, typeName))
	}
	return fieldtype.DefaultElementType
}

// titles returns the ref table name of a flags or state field, registering an
// inline table under owner.field when one is given.
func (s *session) titles(a attrs, owner, name, inlineKey string) string {
	if ref, st := a.str("ref"); st != absent {
		if st == valid {
			return ref
		}
		return registry.UnknownRef
	}
	if inline, ok := a.n.Get(inlineKey); ok {
		entries, ok := s.refEntries(inline, a.path+"."+inlineKey)
		if !ok {
			return registry.UnknownRef
		}
		refName := owner + "." + name
		s.b.AddRef(refName, entries)
		return refName
	}
	s.warn(schemaerrors.NewIssuef(schemaerrors.WarnMissingTitles, a.path, "missing `%s` or `ref`", inlineKey))
	return registry.UnknownRef
}

func (s *session) refEntries(n *schemadoc.Node, path string) ([]registry.RefEntry, bool) {
	if n.Kind != schemadoc.Object {
		s.fail(schemaerrors.NewIssuef(schemaerrors.ErrAttributeInvalid, path, "expected object, got %s", n.Kind))
		return nil, false
	}
	entries := make([]registry.RefEntry, 0, len(n.Members))
	ok := true
	for _, m := range n.Members {
		code, err := schemadoc.ParseCode(m.Key)
		if err != nil {
			s.fail(schemaerrors.NewIssue(schemaerrors.ErrAttributeInvalid, err.Error(), path))
			ok = false
			continue
		}
		label, err := m.Value.Str()
		if err != nil {
			s.fail(schemaerrors.NewIssuef(schemaerrors.ErrAttributeInvalid, path, "code %d: %v", code, err))
			ok = false
			continue
		}
		entries = append(entries, registry.RefEntry{Code: code, Label: label})
	}
	return entries, ok
}

// virtualFunctions registers an index -> {name, params, return} object under owner.
func (s *session) virtualFunctions(n *schemadoc.Node, owner, path string) {
	if n.Kind != schemadoc.Object {
		s.fail(schemaerrors.NewIssuef(schemaerrors.ErrAttributeInvalid, path, "expected object, got %s", n.Kind))
		return
	}
	funcs := make([]registry.VirtualFunction, 0, len(n.Members))
	for _, m := range n.Members {
		index, err := strconv.ParseUint(m.Key, 10, 64)
		if err != nil {
			s.fail(schemaerrors.NewIssuef(schemaerrors.ErrAttributeInvalid, path, "invalid function index %q", m.Key))
			continue
		}
		if m.Value.Kind != schemadoc.Object {
			s.fail(schemaerrors.NewIssuef(schemaerrors.ErrAttributeInvalid, path, "function %d must be an object", index))
			continue
		}
		fn := registry.VirtualFunction{Index: index, Owner: owner}
		var errs [3]error
		fn.Name, errs[0] = m.Value.StringOr("name", defaultFunctionName)
		fn.Params, errs[1] = m.Value.StringOr("params", "")
		fn.Return, errs[2] = m.Value.StringOr("return", defaultFunctionReturn)
		bad := false
		for _, err := range errs {
			if err != nil {
				s.fail(schemaerrors.NewIssuef(schemaerrors.ErrAttributeInvalid, path, "function %d: %v", index, err))
				bad = true
			}
		}
		if !bad {
			funcs = append(funcs, fn)
		}
	}
	s.b.AddVirtualFunctions(owner, funcs...)
}

// fieldList populates every field of one struct, rejecting duplicate names.
func (s *session) fieldList(n *schemadoc.Node, owner string, visit func(item *schemadoc.Node) bool) field.List {
	if n.Kind != schemadoc.Array {
		s.fail(schemaerrors.NewIssuef(schemaerrors.ErrAttributeInvalid, owner, "field list must be an array, got %s", n.Kind))
		return nil
	}
	list := make(field.List, 0, len(n.Items))
	seen := make(map[string]struct{}, len(n.Items))
	for _, item := range n.Items {
		if visit != nil && visit(item) {
			continue
		}
		f := s.populateField(item, owner)
		if f == nil {
			continue
		}
		if _, dup := seen[f.Name]; dup {
			s.fail(schemaerrors.NewIssuef(schemaerrors.ErrDuplicateField, owner+"."+f.Name, "struct (%s) contains duplicate field name: (%s)", owner, f.Name))
			continue
		}
		seen[f.Name] = struct{}{}
		list = append(list, f)
	}
	return list
}
