// Package callgraph lifts the block-level CFG to a cluster-level call
// graph: one node per function cluster, one edge per resolved call.
package callgraph

import (
	"github.com/zboralski/lattice"

	"unsbf/internal/disasm"
)

// Build constructs a lattice.Graph from a program graph. Every cluster
// is a node even when nothing calls it; entrypoint reachability is the
// reader's question to ask of the graph, not ours to pre-answer.
func Build(g *disasm.Graph) *lattice.Graph {
	cg := &lattice.Graph{}
	for _, c := range g.Clusters {
		cg.Nodes = append(cg.Nodes, c.Label)
	}
	for _, e := range g.Calls {
		caller := g.ClusterFor(e.FromBlock)
		callee := g.ClusterFor(e.Target)
		if caller == nil || callee == nil {
			continue
		}
		cg.Edges = append(cg.Edges, lattice.Edge{
			Caller: caller.Label,
			Callee: callee.Label,
		})
	}
	cg.Dedup()
	return cg
}
