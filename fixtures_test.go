package memlayout_test

import (
	"testing"
	"testing/fstest"

	"github.com/s2inspect/memlayout"
)

const mainSchema = `{
	"pointer_types": ["Illumination"],
	"journal_pages": ["JournalPageProgress", "JournalPagePlace"],
	"struct_alignments": {"Packed": 1},
	"refs": {"theme_states": {"0": "idle", "1": "active"}},
	"fields": {
		"Vec": [
			{"field": "x", "type": "Float"},
			{"field": "y", "type": "Float"},
		],
		"Inner": [
			{"field": "id", "type": "UnsignedWord"},
			{"field": "value", "type": "UnsignedDword"},
		],
		"Mid": [
			{"field": "pad", "type": "Skip", "offset": 8},
			{"field": "inner", "type": "Inner"},
		],
		"Outer": [
			{"field": "head", "type": "UnsignedQword"},
			{"field": "mid", "type": "Mid"},
			{"field": "mid_ptr", "type": "Mid", "pointer": true},
			{"field": "light", "type": "Illumination"},
			{"field": "path", "type": "Array", "arraytype": "Vec", "length": 4},
			{"field": "grid", "type": "Matrix", "matrixtype": "UnsignedByte", "row": 3, "col": 5},
			{"field": "items", "type": "StdVector"},
			{"field": "flags", "type": "Flags32", "flags": {"1": "alive", "3": "hidden"}},
			{"field": "state", "type": "State8", "ref": "theme_states"},
			{"field": "name", "type": "UTF16StringFixedSize", "length": 8},
		],
		"Packed": [{"field": "q", "type": "Qword"}],
		"Illumination": [{"field": "radius", "type": "Float"}],
		"EntityDB": [
			{"field": "create_func", "type": "CodePointer"},
			{"field": "pad", "type": "Skip", "offset": 280},
		],
		"GameManager": [{"field": "music", "type": "UnsignedQword"}],
	},
}`

const entitySchema = `{
	"entity_class_hierarchy": {
		"Leaf": "Mid",
		"Mid": "Entity",
		"Entity": "Entity",
	},
	"default_entity_types": {
		"ITEM_LEAF_.*": "Leaf",
		"ITEM_.*": "Mid",
	},
	"fields": {
		"Entity": [
			{"vftablefunctions": {"0": {"name": "dtor"}}},
			{"field": "type", "type": "EntityDBPointer"},
		],
		"Mid": [
			{"vftablefunctions": {"20": {"name": "mid_a"}, "21": {"name": "mid_b", "params": "int x", "return": "bool"}}},
			{"field": "speed", "type": "Float"},
		],
		"Leaf": [
			{"vftablefunctions": {"40": {"name": "leaf"}}},
			{"field": "health", "type": "UnsignedByte"},
			{"field": "pos", "type": "Vec"},
		],
	},
}`

const roomCodeSchema = `{
	"colors": {"green": {"r": 0, "g": 255, "b": 0, "a": 255}},
	"roomcodes": {"0x01": {"name": "setroom", "color": "green"}},
}`

func fixtureFS() fstest.MapFS {
	return fstest.MapFS{
		memlayout.DefaultMainSource:     {Data: []byte(mainSchema)},
		memlayout.DefaultEntitySource:   {Data: []byte(entitySchema)},
		memlayout.DefaultRoomCodeSource: {Data: []byte(roomCodeSchema)},
	}
}

func mustLoadFixture(t *testing.T) *memlayout.Schema {
	t.Helper()
	schema, err := memlayout.Load(fixtureFS(), memlayout.NewLoadOptions())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return schema
}
