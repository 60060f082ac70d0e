package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s2inspect/memlayout/internal/field"
	"github.com/s2inspect/memlayout/internal/fieldtype"
)

func TestBuilderProducesSnapshot(t *testing.T) {
	b := NewBuilder()
	b.AddPointerType("LayerPointer")
	b.AddJournalPage("JournalPageProgress")
	b.SetAlignment("Vec2", 4)
	b.SetRef("entity_flags", []RefEntry{{1, "invisible"}, {2, "indestructible"}})
	require.True(t, b.SetStruct("Vec2", field.List{{Name: "x", Tag: fieldtype.Float}}))
	require.False(t, b.SetStruct("Vec2", nil))
	b.SetRootFields(fieldtype.State, field.List{{Name: "screen", Tag: fieldtype.Dword}})
	b.SetSubclass("Movable", field.List{{Name: "velocityx", Tag: fieldtype.Float}})
	b.SetParent("Movable", RootClass)
	b.SetParent("Entity", "Entity")
	require.NoError(t, b.AddClassifier("ENT_TYPE_CHAR_.*", "Player"))
	b.AddVirtualFunctions("Movable", VirtualFunction{Index: 3, Name: "on_move", Owner: "Movable"})

	reg, err := b.Build()
	require.NoError(t, err)
	_, err = b.Build()
	require.Error(t, err)

	assert.True(t, reg.IsPermanentPointer("LayerPointer"))
	assert.Equal(t, []string{"JournalPageProgress"}, reg.JournalPages())
	a, ok := reg.Alignment("Vec2")
	assert.True(t, ok)
	assert.Equal(t, uint8(4), a)

	ref, ok := reg.Ref("entity_flags")
	require.True(t, ok)
	label, ok := ref.Label(2)
	assert.True(t, ok)
	assert.Equal(t, "indestructible", label)

	_, ok = reg.Parent("Entity")
	assert.False(t, ok, "self mapping must be discarded")
	assert.True(t, reg.InHierarchy("Entity"))
	assert.True(t, reg.InHierarchy("Movable"))
	assert.False(t, reg.InHierarchy("Player"))

	class, ok := reg.Classify("ENT_TYPE_CHAR_ANA_SPELUNKY")
	assert.True(t, ok)
	assert.Equal(t, "Player", class)
	_, ok = reg.Classify("XENT_TYPE_CHAR_ANA")
	assert.False(t, ok, "patterns match the whole name")

	assert.Equal(t, []string{"Vec2"}, reg.StructNames())
	assert.Equal(t, []string{"Movable"}, reg.SubclassNames())
	assert.Equal(t, []fieldtype.Tag{fieldtype.State}, reg.RootTags())
}

func TestRefTableFirstMatchWins(t *testing.T) {
	table := RefTable{Entries: []RefEntry{{1, "first"}, {1, "second"}}}
	label, ok := table.Label(1)
	assert.True(t, ok)
	assert.Equal(t, "first", label)

	_, ok = table.Label(9)
	assert.False(t, ok)
}

func TestAddClassifierRejectsBadPattern(t *testing.T) {
	b := NewBuilder()
	require.Error(t, b.AddClassifier("ENT_(", "Foo"))
}

func TestAddVirtualFunctionsRegistersEmptyOwner(t *testing.T) {
	b := NewBuilder()
	b.AddVirtualFunctions("Online")
	reg, err := b.Build()
	require.NoError(t, err)
	funcs, ok := reg.VirtualFunctions("Online")
	assert.True(t, ok)
	assert.Empty(t, funcs)
}
