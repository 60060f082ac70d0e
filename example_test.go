package memlayout_test

import (
	"fmt"
	"testing/fstest"

	"github.com/s2inspect/memlayout"
	"github.com/s2inspect/memlayout/errors"
)

func ExampleLoad() {
	fsys := fstest.MapFS{
		"main.json": &fstest.MapFile{Data: []byte(`{
			"fields": {
				"Vec": [
					{"field": "x", "type": "Float"},
					{"field": "y", "type": "Float"},
				],
			},
		}`)},
		"entities.json": &fstest.MapFile{Data: []byte(`{}`)},
	}
	opts := memlayout.NewLoadOptions().
		WithMainSource("main.json").
		WithEntitySource("entities.json").
		WithRoomCodeSource("")

	schema, err := memlayout.Load(fsys, opts)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Println("Vec size:", schema.TypeSize("Vec"))
	// Output: Vec size: 8
}

func ExampleSchema_OffsetOf() {
	schema, err := memlayout.Load(fixtureFS(), memlayout.NewLoadOptions())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	addr, ok := schema.OffsetOf(nil, schema.Fields("Outer"), "mid.inner.value", 0x1000)
	fmt.Printf("%#x %v\n", addr, ok)
	// Output: 0x1012 true
}

func Example_loadIssues() {
	fsys := fstest.MapFS{
		"main.json": &fstest.MapFile{Data: []byte(`{
			"fields": {"Broken": [{"field": "list", "type": "Array", "arraytype": "Byte"}]}
		}`)},
		"entities.json": &fstest.MapFile{Data: []byte(`{}`)},
	}
	opts := memlayout.NewLoadOptions().
		WithMainSource("main.json").
		WithEntitySource("entities.json").
		WithRoomCodeSource("")

	_, err := memlayout.Load(fsys, opts)
	issues, _ := errors.AsIssues(err)
	for _, issue := range issues {
		fmt.Println(issue.Code, issue.Path)
	}
	// Output: schema-array-length Broken.list
}
