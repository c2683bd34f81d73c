// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package stats computes summary statistics of a citation graph. There is
// an edge u -> v for every reference of u to a paper v present in the
// corpus.
package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/graph/traverse"

	"github.com/pdiddy/citegraph/pkg/types"
)

// Bucket counts the nodes having a given degree.
type Bucket struct {
	Degree int `json:"degree"`
	Count  int `json:"count"`
}

// Stats summarizes a citation graph.
type Stats struct {
	Nodes          int      `json:"num_nodes"`
	Edges          int      `json:"num_edges"`
	IsolatedNodes  int      `json:"num_isolated_nodes"`
	AvgDegree      float64  `json:"avg_node_deg"`
	LargestSCCSize int      `json:"largest_scc_size"`
	Diameter       int      `json:"diameter"`
	InDegrees      []Bucket `json:"in_degree_hist"`
	OutDegrees     []Bucket `json:"out_degree_hist"`
}

// newGraph builds the citation graph of c. Node i is the i-th id in id
// order.
func newGraph(c types.Corpus) (*simple.DirectedGraph, []types.PaperID) {
	ids := c.IDs()
	index := make(map[types.PaperID]int64, len(ids))
	g := simple.NewDirectedGraph()
	for i, id := range ids {
		index[id] = int64(i)
		g.AddNode(simple.Node(i))
	}
	for i, id := range ids {
		for _, ref := range c[id].SortedReferences() {
			j, ok := index[ref]
			if !ok || j == int64(i) {
				continue
			}
			g.SetEdge(g.NewEdge(simple.Node(i), simple.Node(j)))
		}
	}
	return g, ids
}

// Compute returns the statistics of the graph induced by c.
func Compute(c types.Corpus) Stats {
	g, ids := newGraph(c)
	s := Stats{Nodes: len(ids)}

	inHist := make(map[int]int)
	outHist := make(map[int]int)
	for i := range ids {
		out := len(graph.NodesOf(g.From(int64(i))))
		in := len(graph.NodesOf(g.To(int64(i))))
		s.Edges += out
		if out == 0 && in == 0 {
			s.IsolatedNodes++
		}
		inHist[in]++
		outHist[out]++
	}
	if s.Nodes > 0 {
		s.AvgDegree = float64(s.Edges) / float64(s.Nodes)
	}
	s.InDegrees = buckets(inHist)
	s.OutDegrees = buckets(outHist)

	scc := largestSCC(g)
	s.LargestSCCSize = len(scc)
	s.Diameter = diameter(g, scc)
	return s
}

func buckets(hist map[int]int) []Bucket {
	out := make([]Bucket, 0, len(hist))
	for d, n := range hist {
		out = append(out, Bucket{Degree: d, Count: n})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Degree < out[b].Degree })
	return out
}

// largestSCC returns the sorted node ids of the largest strongly connected
// component. Among equally large components the one containing the
// smallest id wins.
func largestSCC(g graph.Directed) []int64 {
	var best []int64
	for _, comp := range topo.TarjanSCC(g) {
		members := make([]int64, len(comp))
		for i, n := range comp {
			members[i] = n.ID()
		}
		slices.Sort(members)
		if len(members) > len(best) || (len(members) == len(best) && len(best) > 0 && members[0] < best[0]) {
			best = members
		}
	}
	return best
}

// diameter returns the longest shortest path between members of comp,
// following only edges inside comp.
func diameter(g *simple.DirectedGraph, comp []int64) int {
	member := make(map[int64]bool, len(comp))
	for _, id := range comp {
		member[id] = true
	}
	bfs := traverse.BreadthFirst{
		Traverse: func(e graph.Edge) bool { return member[e.To().ID()] },
	}

	longest := 0
	for _, id := range comp {
		bfs.Reset()
		bfs.Walk(g, g.Node(id), func(_ graph.Node, depth int) bool {
			longest = max(longest, depth)
			return false
		})
	}
	return longest
}

// WriteJSON writes s as indented JSON to path.
func WriteJSON(path string, s Stats) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling stats: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating stats directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
