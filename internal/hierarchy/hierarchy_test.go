package hierarchy

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	schemaerrors "github.com/s2inspect/memlayout/errors"
	"github.com/s2inspect/memlayout/internal/registry"
)

func vf(owner string, index uint64, name string) registry.VirtualFunction {
	return registry.VirtualFunction{Index: index, Name: name, Return: "void", Owner: owner}
}

func newResolver(t *testing.T) *Resolver {
	t.Helper()
	b := registry.NewBuilder()
	b.SetParent("Leaf", "Mid")
	b.SetParent("Mid", "Entity")
	b.SetParent("Orphan", "Missing")
	require.NoError(t, b.AddClassifier("ITEM_LEAF_.*", "Leaf"))
	require.NoError(t, b.AddClassifier("ITEM_.*", "Mid"))
	require.NoError(t, b.AddClassifier("BROKEN", "Orphan"))
	b.AddVirtualFunctions("Leaf", vf("Leaf", 10, "leaf"))
	b.AddVirtualFunctions("Mid", vf("Mid", 4, "mid_a"), vf("Mid", 5, "mid_b"))
	b.AddVirtualFunctions(registry.RootClass, vf(registry.RootClass, 0, "dtor"))
	b.AddVirtualFunctions("Menu", vf("Menu", 1, "draw"))
	reg, err := b.Build()
	require.NoError(t, err)

	r, err := New(reg, 4, zerolog.Nop())
	require.NoError(t, err)
	return r
}

func TestClassHierarchy(t *testing.T) {
	r := newResolver(t)

	chain, err := r.ClassHierarchy("ITEM_LEAF_ROCK")
	require.NoError(t, err)
	assert.Equal(t, []string{"Leaf", "Mid", "Entity"}, chain)

	chain, err = r.ClassHierarchy("ITEM_CRATE")
	require.NoError(t, err)
	assert.Equal(t, []string{"Mid", "Entity"}, chain, "first matching classifier wins")

	chain, err = r.ClassHierarchy("FX_SMOKE")
	require.NoError(t, err)
	assert.Equal(t, []string{"Entity"}, chain)

	_, err = r.ClassHierarchy("BROKEN")
	require.Error(t, err)
	assert.True(t, schemaerrors.HasCode(err, schemaerrors.ErrUnknownClass))
	assert.Equal(t, schemaerrors.SeverityInconsistent, schemaerrors.ErrUnknownClass.Severity())
}

func TestClassifyIsCached(t *testing.T) {
	r := newResolver(t)
	for i := 0; i < 3; i++ {
		class, ok := r.Classify("ITEM_LEAF_ROCK")
		require.True(t, ok)
		assert.Equal(t, "Leaf", class)
	}
	_, ok := r.Classify("NOPE")
	assert.False(t, ok)
	assert.Equal(t, 2, r.classes.Len())

	_, err := New(nil, 0, zerolog.Nop())
	assert.Error(t, err)
}

func TestVirtualFunctionsAggregateMostDerivedFirst(t *testing.T) {
	r := newResolver(t)

	funcs, err := r.VirtualFunctions("Leaf")
	require.NoError(t, err)
	require.Len(t, funcs, 4)
	names := make([]string, len(funcs))
	for i, f := range funcs {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"leaf", "mid_a", "mid_b", "dtor"}, names)

	funcs, err = r.VirtualFunctions(registry.RootClass)
	require.NoError(t, err)
	assert.Equal(t, []registry.VirtualFunction{vf(registry.RootClass, 0, "dtor")}, funcs)
}

func TestVirtualFunctionsOutsideHierarchy(t *testing.T) {
	r := newResolver(t)

	funcs, err := r.VirtualFunctions("Menu")
	require.NoError(t, err)
	assert.Equal(t, []registry.VirtualFunction{vf("Menu", 1, "draw")}, funcs)

	_, err = r.VirtualFunctions("Nothing")
	require.Error(t, err)
	assert.True(t, schemaerrors.HasCode(err, schemaerrors.ErrNoVirtualFunctions))

	_, err = r.VirtualFunctions("Orphan")
	assert.True(t, schemaerrors.HasCode(err, schemaerrors.ErrUnknownClass))
}
