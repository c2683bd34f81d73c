// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stats

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/citegraph/pkg/types"
)

// buildCorpus creates records for ids and adds the given edges.
func buildCorpus(ids []string, edges [][2]string) types.Corpus {
	c := make(types.Corpus)
	for _, id := range ids {
		c[id] = types.NewPaperRecord(id, "", "")
	}
	for _, e := range edges {
		c[e[0]].AddReference(e[1])
	}
	return c
}

func TestComputeCycleWithTail(t *testing.T) {
	// a -> b -> c -> a forms the largest SCC; d -> a hangs off it; e is isolated.
	c := buildCorpus(
		[]string{"a", "b", "c", "d", "e"},
		[][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}, {"d", "a"}},
	)
	s := Compute(c)

	assert.Equal(t, 5, s.Nodes)
	assert.Equal(t, 4, s.Edges)
	assert.Equal(t, 1, s.IsolatedNodes)
	assert.InDelta(t, 0.8, s.AvgDegree, 1e-9)
	assert.Equal(t, 3, s.LargestSCCSize)
	assert.Equal(t, 2, s.Diameter)

	assert.Equal(t, []Bucket{{0, 2}, {1, 2}, {2, 1}}, s.InDegrees)
	assert.Equal(t, []Bucket{{0, 1}, {1, 4}}, s.OutDegrees)
}

func TestComputeIgnoresReferencesOutsideCorpus(t *testing.T) {
	c := buildCorpus([]string{"a", "b"}, [][2]string{{"a", "b"}})
	c["a"].References["zzzz"] = struct{}{}

	s := Compute(c)
	assert.Equal(t, 1, s.Edges)
	assert.Zero(t, s.IsolatedNodes)
}

func TestComputeAcyclicGraph(t *testing.T) {
	c := buildCorpus([]string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}})
	s := Compute(c)
	assert.Equal(t, 1, s.LargestSCCSize)
	assert.Zero(t, s.Diameter)
}

func TestComputeLongerCycle(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}
	c := buildCorpus(ids, [][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}, {"d", "e"}, {"e", "a"}, {"a", "c"}})
	s := Compute(c)
	assert.Equal(t, 5, s.LargestSCCSize)
	// b -> a takes b -> c -> d -> e -> a.
	assert.Equal(t, 4, s.Diameter)
}

func TestLargestSCCPrefersSmallestID(t *testing.T) {
	// {c, d} and {a, b} are both 2-cycles; e only reaches them.
	c := buildCorpus(
		[]string{"a", "b", "c", "d", "e"},
		[][2]string{{"c", "d"}, {"d", "c"}, {"a", "b"}, {"b", "a"}, {"e", "a"}, {"e", "c"}},
	)
	g, ids := newGraph(c)
	scc := largestSCC(g)
	require.Len(t, scc, 2)
	assert.Equal(t, "a", ids[scc[0]])
	assert.Equal(t, "b", ids[scc[1]])
	assert.Equal(t, 1, diameter(g, scc))
}

func TestComputeEmpty(t *testing.T) {
	s := Compute(types.Corpus{})
	assert.Zero(t, s.Nodes)
	assert.Zero(t, s.AvgDegree)
	assert.Zero(t, s.Diameter)
	assert.Empty(t, s.InDegrees)
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output", "stats.json")
	c := buildCorpus([]string{"a", "b"}, [][2]string{{"a", "b"}, {"b", "a"}})
	require.NoError(t, WriteJSON(path, Compute(c)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, float64(2), raw["num_edges"])
	assert.Equal(t, float64(1), raw["diameter"])
	assert.Contains(t, raw, "in_degree_hist")
}
