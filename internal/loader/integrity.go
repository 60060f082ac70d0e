package loader

import (
	"errors"
	"sort"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	schemaerrors "github.com/s2inspect/memlayout/errors"
	"github.com/s2inspect/memlayout/internal/field"
	"github.com/s2inspect/memlayout/internal/fieldtype"
	"github.com/s2inspect/memlayout/internal/graphcycle"
	"github.com/s2inspect/memlayout/internal/registry"
)

// checkIntegrity rejects schemas whose size resolution or hierarchy walks
// would not terminate.
func (s *session) checkIntegrity() {
	s.checkContainment()
	s.checkHierarchy()
}

// checkContainment rejects structs that contain themselves by value.
func (s *session) checkContainment() {
	reg := s.b.View()
	lists := func(name string) (field.List, bool) {
		if list, ok := reg.Struct(name); ok {
			return list, true
		}
		if tag, ok := fieldtype.Lookup(name); ok {
			return reg.RootFields(tag)
		}
		return nil, false
	}

	starts := reg.StructNames()
	for _, tag := range reg.RootTags() {
		starts = append(starts, tag.String())
	}
	err := graphcycle.Detect(graphcycle.Config[string]{
		Starts:  starts,
		Missing: graphcycle.MissingPolicyIgnore,
		Exists: func(name string) bool {
			_, ok := lists(name)
			return ok
		},
		Next: func(name string) ([]string, error) {
			list, _ := lists(name)
			return containedTypes(reg, list), nil
		},
	})
	if err == nil {
		return
	}
	var cycle graphcycle.CycleError[string]
	if errors.As(err, &cycle) {
		s.fail(schemaerrors.NewIssuef(schemaerrors.ErrStructCycle, cycle.Key, "struct contains itself by value: %v", err))
		return
	}
	s.fail(schemaerrors.NewIssue(schemaerrors.ErrStructCycle, err.Error(), ""))
}

// containedTypes lists the type names a field list embeds by value. Permanent
// pointer types are always stored as pointers and never embed anything.
func containedTypes(reg *registry.Registry, list field.List) []string {
	var out []string
	byValue := func(name string) {
		if !reg.IsPermanentPointer(name) {
			out = append(out, name)
		}
	}
	for _, f := range list {
		if f.Pointer {
			continue
		}
		switch sh := f.Kind().(type) {
		case field.StructRef:
			byValue(sh.Name)
		case field.Array:
			byValue(sh.Elem)
		case field.Matrix:
			byValue(sh.Elem)
		case field.Composite:
			out = append(out, f.Tag.String())
		}
	}
	return out
}

type classNode struct {
	id   int64
	name string
}

func (n classNode) ID() int64 { return n.id }

// checkHierarchy rejects parent maps with cycles, which would make chain
// walks never reach the root class.
func (s *session) checkHierarchy() {
	parents := s.b.View().Parents()
	if len(parents) == 0 {
		return
	}
	g := simple.NewDirectedGraph()
	nodes := make(map[string]classNode)
	node := func(name string) classNode {
		if n, ok := nodes[name]; ok {
			return n
		}
		n := classNode{id: int64(len(nodes)), name: name}
		nodes[name] = n
		g.AddNode(n)
		return n
	}
	children := maps.Keys(parents)
	slices.Sort(children)
	for _, child := range children {
		g.SetEdge(g.NewEdge(node(child), node(parents[child])))
	}

	_, err := topo.Sort(g)
	if err == nil {
		return
	}
	var unorderable topo.Unorderable
	if !errors.As(err, &unorderable) {
		s.fail(schemaerrors.NewIssue(schemaerrors.ErrHierarchyCycle, err.Error(), "entity_class_hierarchy"))
		return
	}
	for _, component := range unorderable {
		names := componentNames(component)
		s.fail(schemaerrors.NewIssuef(schemaerrors.ErrHierarchyCycle, "entity_class_hierarchy",
			"class hierarchy cycle between %s", strings.Join(names, ", ")))
	}
}

func componentNames(component []graph.Node) []string {
	names := make([]string, 0, len(component))
	for _, n := range component {
		names = append(names, n.(classNode).name)
	}
	sort.Strings(names)
	return names
}
