package offset

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	schemaerrors "github.com/s2inspect/memlayout/errors"
	"github.com/s2inspect/memlayout/internal/field"
	"github.com/s2inspect/memlayout/internal/fieldtype"
	"github.com/s2inspect/memlayout/internal/layout"
	"github.com/s2inspect/memlayout/internal/registry"
	"github.com/s2inspect/memlayout/memory"
)

func scalar(name string, tag fieldtype.Tag) *field.Field {
	return &field.Field{Name: name, Tag: tag, Size: fieldtype.NominalSize(tag), Shape: field.Scalar{}}
}

func ref(name, target string, pointer bool) *field.Field {
	f := &field.Field{Name: name, Tag: fieldtype.StructRef, TypeName: target, Shape: field.StructRef{Name: target}}
	if pointer {
		f.Pointer = true
		f.Size = fieldtype.PointerSize
	}
	return f
}

// Outer: pad(4) a:Mid(by value) ptr:*Mid
// Mid: skip(6) b:Inner
// Inner: x(2) c(4)
func newResolver(t *testing.T) (*Resolver, field.List) {
	t.Helper()
	b := registry.NewBuilder()
	b.SetStruct("Inner", field.List{scalar("x", fieldtype.Word), scalar("c", fieldtype.UnsignedDword)})
	b.SetStruct("Mid", field.List{
		{Name: "pad", Tag: fieldtype.Skip, Size: 6, Shape: field.Padding{}},
		ref("b", "Inner", false),
	})
	outer := field.List{
		scalar("head", fieldtype.UnsignedDword),
		ref("a", "Mid", false),
		ref("ptr", "Mid", true),
		{Name: "arr", Tag: fieldtype.Array, Shape: field.Array{Length: 2, Elem: "Inner"}},
		{Name: "heap", Tag: fieldtype.OnHeapPointer, Size: 8, Shape: field.OnHeap{Target: "Inner"}},
		scalar("tail", fieldtype.Byte),
	}
	b.SetStruct("Outer", outer)
	reg, err := b.Build()
	require.NoError(t, err)
	return New(layout.New(reg, zerolog.Nop()), zerolog.Nop()), outer
}

func TestResolveNestedByValue(t *testing.T) {
	r, outer := newResolver(t)
	const base = 0x1000
	// a at 4, b at 6 inside Mid, c at 2 inside Inner
	got, err := r.Resolve(nil, outer, "a.b.c", base)
	require.NoError(t, err)
	assert.Equal(t, uint64(base+4+6+2), got)

	got, err = r.Resolve(nil, outer, "head", base)
	require.NoError(t, err)
	assert.Equal(t, uint64(base), got)

	// head 4 + a 12 + ptr 8 + arr 12 + heap 8
	got, err = r.Resolve(nil, outer, "tail", base)
	require.NoError(t, err)
	assert.Equal(t, uint64(base+44), got)
}

func TestResolveThroughPointer(t *testing.T) {
	r, outer := newResolver(t)
	const base = 0x1000
	const target = 0x8000

	img := memory.NewImage()
	require.NoError(t, img.Map(base, make([]byte, 64)))
	require.NoError(t, img.WriteQword(base+16, target))

	got, err := r.Resolve(img, outer, "ptr.b.c", base)
	require.NoError(t, err)
	assert.Equal(t, uint64(target+6+2), got)

	got, err = r.Resolve(img, outer, "ptr", base)
	require.NoError(t, err)
	assert.Equal(t, uint64(base+16), got, "the last segment is not dereferenced")
}

func TestResolveMisses(t *testing.T) {
	r, outer := newResolver(t)
	tests := []struct {
		name string
		mem  memory.Reader
		path string
		code schemaerrors.ErrorCode
	}{
		{"unknown head", nil, "missing", schemaerrors.ErrUnknownField},
		{"unknown nested", nil, "a.b.zz", schemaerrors.ErrUnknownField},
		{"empty path", nil, "", schemaerrors.ErrUnknownField},
		{"scalar descent", nil, "head.x", schemaerrors.ErrUnknownType},
		{"array element", nil, "arr.c", schemaerrors.ErrUnsupportedPath},
		{"on-heap descent", nil, "heap.c", schemaerrors.ErrUnsupportedPath},
		{"no memory", nil, "ptr.b", schemaerrors.ErrPointerRead},
		{"unmapped pointer", memory.NewImage(), "ptr.b", schemaerrors.ErrPointerRead},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Resolve(tt.mem, outer, tt.path, 0x1000)
			require.Error(t, err)
			assert.True(t, schemaerrors.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestResolveNullPointer(t *testing.T) {
	r, outer := newResolver(t)
	img := memory.NewImage()
	require.NoError(t, img.Map(0x1000, make([]byte, 64)))
	_, err := r.Resolve(img, outer, "ptr.b.c", 0x1000)
	assert.True(t, schemaerrors.HasCode(err, schemaerrors.ErrPointerRead))
}
