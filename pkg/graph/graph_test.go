package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addNode(g *Graph, path string, deps ...string) {
	g.AddNode(&Node{Path: path, Deps: deps})
}

func indexOf(t *testing.T, order []string, path string) int {
	t.Helper()
	for i, p := range order {
		if p == path {
			return i
		}
	}
	t.Fatalf("path %s not in order %v", path, order)
	return -1
}

func TestTopoSort_DependenciesFirst(t *testing.T) {
	g := New()
	addNode(g, "user.proto", "common.proto", "address.proto")
	addNode(g, "address.proto", "common.proto")
	addNode(g, "common.proto")

	order, err := g.TopoSort()
	require.NoError(t, err)
	require.Len(t, order, 3)

	assert.Less(t, indexOf(t, order, "common.proto"), indexOf(t, order, "address.proto"))
	assert.Less(t, indexOf(t, order, "common.proto"), indexOf(t, order, "user.proto"))
	assert.Less(t, indexOf(t, order, "address.proto"), indexOf(t, order, "user.proto"))
}

func TestTopoSort_DeterministicTieBreak(t *testing.T) {
	g := New()
	addNode(g, "zebra.proto")
	addNode(g, "alpha.proto")
	addNode(g, "mango.proto")

	order, err := g.TopoSort()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha.proto", "mango.proto", "zebra.proto"}, order)

	// Stable across runs
	for i := 0; i < 5; i++ {
		again, err := g.TopoSort()
		require.NoError(t, err)
		assert.Equal(t, order, again)
	}
}

func TestTopoSort_CycleNamed(t *testing.T) {
	g := New()
	addNode(g, "a.proto", "b.proto")
	addNode(g, "b.proto", "c.proto")
	addNode(g, "c.proto", "a.proto")

	_, err := g.TopoSort()
	require.Error(t, err)

	var cycleErr *CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, []string{"a.proto", "b.proto", "c.proto", "a.proto"}, cycleErr.Cycle)
}

func TestTopoSort_CycleBelowAcyclicPrefix(t *testing.T) {
	g := New()
	addNode(g, "root.proto", "x.proto")
	addNode(g, "x.proto", "y.proto")
	addNode(g, "y.proto", "x.proto")

	_, err := g.TopoSort()
	require.Error(t, err)

	var cycleErr *CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, cycleErr.Cycle[0], cycleErr.Cycle[len(cycleErr.Cycle)-1])
	assert.Contains(t, cycleErr.Cycle, "x.proto")
	assert.Contains(t, cycleErr.Cycle, "y.proto")
}

func TestTopoSort_DanglingImport(t *testing.T) {
	g := New()
	addNode(g, "user.proto", "ghost.proto")

	_, err := g.TopoSort()
	require.Error(t, err)

	var unresolved *UnresolvedImportError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, "ghost.proto", unresolved.Import)
	assert.Equal(t, "user.proto", unresolved.From)
}

func TestTopoSort_StubsEligibleImmediately(t *testing.T) {
	g := New()
	g.AddNode(&Node{Path: "external.proto", Stub: &Stub{Subject: "demo.External", Version: 2, ID: 9}})
	addNode(g, "user.proto", "external.proto")

	order, err := g.TopoSort()
	require.NoError(t, err)
	assert.Equal(t, []string{"external.proto", "user.proto"}, order)
	assert.True(t, g.Node("external.proto").IsStub())
}
