package memlayout_test

import (
	"reflect"
	"sync"
	"testing"

	"github.com/s2inspect/memlayout"
	"github.com/s2inspect/memlayout/errors"
	"github.com/s2inspect/memlayout/memory"
)

func TestSchemaSizes(t *testing.T) {
	schema := mustLoadFixture(t)

	tests := []struct {
		name string
		want uint64
	}{
		{"Vec", 8},
		{"Inner", 6},
		{"Mid", 14},
		{"Outer", 130},
		{"Illumination", memlayout.PointerSize},
		{"EntityDB", 288},
		{"UnsignedWord", 2},
		{"Unknown", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := schema.TypeSize(tt.name); got != tt.want {
			t.Errorf("TypeSize(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}

	outer := schema.Fields("Outer")
	path, _ := outer.Find("path")
	if got := schema.SizeOf(path); got != 4*schema.TypeSize("Vec") {
		t.Errorf("SizeOf(path) = %d, want 4 * Vec", got)
	}
	grid, _ := outer.Find("grid")
	if got := schema.SizeOf(grid); got != 15 {
		t.Errorf("SizeOf(grid) = %d, want 15", got)
	}
	midPtr, _ := outer.Find("mid_ptr")
	if got := schema.SizeOf(midPtr); got != memlayout.PointerSize {
		t.Errorf("SizeOf(mid_ptr) = %d, want pointer size", got)
	}
	if got := schema.AlignmentOf(midPtr); got != memlayout.PointerSize {
		t.Errorf("AlignmentOf(mid_ptr) = %d, want pointer size", got)
	}
	if got := schema.SubclassSize("Leaf"); got != 9 {
		t.Errorf("SubclassSize(Leaf) = %d, want 9", got)
	}
}

func TestSchemaAlignment(t *testing.T) {
	schema := mustLoadFixture(t)
	tests := map[string]uint8{
		"Vec":    4,
		"Inner":  4,
		"Packed": 1,
		"Outer":  8,
		"Bool":   1,
	}
	for name, want := range tests {
		if got := schema.TypeAlignment(name); got != want {
			t.Errorf("TypeAlignment(%q) = %d, want %d", name, got, want)
		}
	}
}

func TestSchemaOffsetOf(t *testing.T) {
	schema := mustLoadFixture(t)
	outer := schema.Fields("Outer")
	const base = 0x1000

	got, ok := schema.OffsetOf(nil, outer, "mid.inner.value", base)
	if !ok || got != base+8+8+2 {
		t.Fatalf("OffsetOf(mid.inner.value) = %#x, %v", got, ok)
	}

	img := memory.NewImage()
	if err := img.Map(base, make([]byte, 256)); err != nil {
		t.Fatalf("Map() error = %v", err)
	}
	if err := img.WriteQword(base+22, 0x5000); err != nil {
		t.Fatalf("WriteQword() error = %v", err)
	}
	got, ok = schema.OffsetOf(img, outer, "mid_ptr.inner.value", base)
	if !ok || got != 0x5000+8+2 {
		t.Fatalf("OffsetOf(mid_ptr.inner.value) = %#x, %v", got, ok)
	}

	if _, ok := schema.OffsetOf(img, outer, "light.radius", base); ok {
		t.Fatal("OffsetOf(light.radius) resolved through a null pointer")
	}
	if _, ok := schema.OffsetOf(nil, outer, "mid.nothing", base); ok {
		t.Fatal("OffsetOf(mid.nothing) ok = true")
	}
	_, err := schema.ResolveOffset(nil, outer, "path.x", base)
	if !errors.HasCode(err, errors.ErrUnsupportedPath) {
		t.Fatalf("ResolveOffset(path.x) error = %v, want %s", err, errors.ErrUnsupportedPath)
	}
}

func TestSchemaHierarchy(t *testing.T) {
	schema := mustLoadFixture(t)

	chain, err := schema.ClassHierarchy("ITEM_LEAF_GOLDBAR")
	if err != nil {
		t.Fatalf("ClassHierarchy() error = %v", err)
	}
	if want := []string{"Leaf", "Mid", memlayout.RootClass}; !reflect.DeepEqual(chain, want) {
		t.Fatalf("ClassHierarchy() = %v, want %v", chain, want)
	}

	funcs, err := schema.VirtualFunctions("Leaf")
	if err != nil {
		t.Fatalf("VirtualFunctions() error = %v", err)
	}
	var names []string
	for _, f := range funcs {
		names = append(names, f.Name)
	}
	if want := []string{"leaf", "mid_a", "mid_b", "dtor"}; !reflect.DeepEqual(names, want) {
		t.Fatalf("VirtualFunctions(Leaf) = %v, want %v", names, want)
	}

	if _, err := schema.VirtualFunctions("Vec"); !errors.HasCode(err, errors.ErrNoVirtualFunctions) {
		t.Fatalf("VirtualFunctions(Vec) error = %v", err)
	}
	if !schema.IsEntitySubclass("Leaf") || schema.IsEntitySubclass("Vec") {
		t.Fatal("IsEntitySubclass() mismatch")
	}
}

func TestSchemaTitles(t *testing.T) {
	schema := mustLoadFixture(t)

	if got := schema.FlagTitle("Outer.flags", 3); got != "hidden" {
		t.Errorf("FlagTitle(3) = %q, want hidden", got)
	}
	for _, bit := range []uint8{0, 2, 33} {
		if got := schema.FlagTitle("Outer.flags", bit); got != "" {
			t.Errorf("FlagTitle(%d) = %q, want empty", bit, got)
		}
	}
	if got := schema.FlagTitle("unknown", 7); got != "unknown_07" {
		t.Errorf("FlagTitle(unknown, 7) = %q", got)
	}
	if got := schema.StateTitle("theme_states", 1); got != "active" {
		t.Errorf("StateTitle(1) = %q, want active", got)
	}
	if got := schema.StateTitle("theme_states", 9); got != "UNKNOWN STATE" {
		t.Errorf("StateTitle(9) = %q", got)
	}
	if got := schema.StateTitle("missing", 0); got != "UNKNOWN STATE" {
		t.Errorf("StateTitle(missing) = %q", got)
	}
	if got := len(schema.RefTitles("unknown")); got != 32 {
		t.Errorf("len(RefTitles(unknown)) = %d, want 32", got)
	}
}

func TestSchemaAuxiliaryData(t *testing.T) {
	schema := mustLoadFixture(t)

	if rc := schema.RoomCode(1); rc.Name != "setroom" || rc.Color.G != 255 {
		t.Errorf("RoomCode(1) = %+v", rc)
	}
	if rc := schema.RoomCode(0x99); rc.Name != "Unknown room code" || rc.ID != 0x99 {
		t.Errorf("RoomCode(0x99) = %+v", rc)
	}
	if got := schema.JournalPages(); !reflect.DeepEqual(got, []string{"JournalPageProgress", "JournalPagePlace"}) {
		t.Errorf("JournalPages() = %v", got)
	}
	if got := schema.EntityDBSlot(0x2000, 3); got != 0x2000+3*288 {
		t.Errorf("EntityDBSlot() = %#x", got)
	}
	if got := schema.EntityDBSlot(0, 3); got != 0 {
		t.Errorf("EntityDBSlot(0) = %#x, want 0", got)
	}
	if got := schema.SubclassNames(); !reflect.DeepEqual(got, []string{"Entity", "Leaf", "Mid"}) {
		t.Errorf("SubclassNames() = %v", got)
	}

	if got := schema.Classifiers(); len(got) != 2 || got[0].Pattern != "ITEM_LEAF_.*" || got[1].Class != "Mid" {
		t.Errorf("Classifiers() = %+v", got)
	}

	diags := schema.Diagnostics()
	if len(diags) != 1 || diags[0].Code != errors.WarnDefaultElementType || diags[0].Path != "Outer.items" {
		t.Fatalf("Diagnostics() = %v", diags)
	}
	items, _ := schema.Fields("Outer").Find("items")
	if first, _ := items.Parameters(); first != "UnsignedQword" {
		t.Errorf("items element type = %q, want UnsignedQword", first)
	}
}

func TestSchemaFieldForType(t *testing.T) {
	schema := mustLoadFixture(t)

	f := schema.FieldForType("Vec")
	if f == nil || f.StructName() != "Vec" || schema.SizeOf(f) != 8 {
		t.Fatalf("FieldForType(Vec) = %+v", f)
	}
	f = schema.FieldForType("GameManager")
	if f == nil || schema.SizeOf(f) != 8 {
		t.Fatalf("FieldForType(GameManager) = %+v", f)
	}
	if _, ok := f.Shape.(memlayout.Composite); !ok {
		t.Fatalf("FieldForType(GameManager).Shape = %T", f.Shape)
	}
	f = schema.FieldForType("Illumination")
	if f == nil || !f.Pointer {
		t.Fatalf("FieldForType(Illumination) = %+v", f)
	}
	if f := schema.FieldForType("Nope"); f != nil {
		t.Fatalf("FieldForType(Nope) = %+v, want nil", f)
	}
}

func TestSchemaLayout(t *testing.T) {
	schema := mustLoadFixture(t)
	slots := schema.Layout("Mid")
	var paths []string
	for _, s := range slots {
		paths = append(paths, s.Path)
	}
	want := []string{"pad", "inner", "inner.id", "inner.value"}
	if !reflect.DeepEqual(paths, want) {
		t.Fatalf("Layout(Mid) paths = %v, want %v", paths, want)
	}
	if last := slots[len(slots)-1]; last.Offset != 10 || last.Size != 4 {
		t.Fatalf("Layout(Mid) last slot = %+v", last)
	}
	if got := schema.Layout("GameManager"); len(got) != 1 {
		t.Fatalf("Layout(GameManager) = %v", got)
	}
	if got := schema.Layout("Nope"); got != nil {
		t.Fatalf("Layout(Nope) = %v", got)
	}
}

func TestSchemaConcurrentQueries(t *testing.T) {
	schema := mustLoadFixture(t)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if got := schema.TypeSize("Outer"); got != 130 {
					t.Errorf("TypeSize(Outer) = %d", got)
					return
				}
				if _, err := schema.ClassHierarchy("ITEM_CRATE"); err != nil {
					t.Errorf("ClassHierarchy() error = %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestNilSchema(t *testing.T) {
	var schema *memlayout.Schema
	if _, err := schema.ClassHierarchy("x"); !errors.HasCode(err, errors.ErrSchemaNotLoaded) {
		t.Fatalf("ClassHierarchy() error = %v", err)
	}
	if got := schema.TypeSize("Vec"); got != 0 {
		t.Fatalf("TypeSize() = %d", got)
	}
	if got := schema.StateTitle("x", 1); got != "UNKNOWN STATE" {
		t.Fatalf("StateTitle() = %q", got)
	}
}

func TestEntityList(t *testing.T) {
	list := memlayout.NewEntityList(map[uint32]string{1: "ENT_TYPE_FLOOR", 5: "ENT_TYPE_PLAYER"})
	tests := map[uint32]string{
		0: "UNKNOWN/DEAD ENTITY",
		1: "ENT_TYPE_FLOOR",
		3: "UNKNOWN/DEAD ENTITY",
		5: "ENT_TYPE_PLAYER",
		6: "UNKNOWN/DEAD ENTITY",
	}
	for id, want := range tests {
		if got := list.DisplayName(id); got != want {
			t.Errorf("DisplayName(%d) = %q, want %q", id, got, want)
		}
	}
	if id, ok := list.ID("ENT_TYPE_PLAYER"); !ok || id != 5 {
		t.Errorf("ID() = %d, %v", id, ok)
	}
	if list.HighestID() != 5 {
		t.Errorf("HighestID() = %d", list.HighestID())
	}
}
