package disasm

import (
	"fmt"
	"sort"

	"unsbf/internal/sbf"
)

// BasicBlock is a contiguous run of instructions with a single entry.
// Its start PC is its identity everywhere: map key, edge endpoint, and
// the lbb_<pc> rendering identifier. Edges are PC values, never
// pointers, so the graph has no reference cycles.
type BasicBlock struct {
	Start   uint64
	Insns   []uint64 // instruction PCs, ascending
	Succs   []uint64 // control-flow successor block starts
	Pred    uint64   // address-order predecessor within the cluster
	HasPred bool     // Pred is only a layout aid, not control flow
}

// Cluster is a function: the blocks from one leader up to the next
// function leader in address order.
type Cluster struct {
	Leader uint64
	Label  string
	Blocks []uint64 // block starts, ascending
}

// CallEdge records a call site and its resolved callee cluster leader.
type CallEdge struct {
	FromPC    uint64
	FromBlock uint64
	Target    uint64
}

// Graph owns all basic blocks (keyed by start PC) and all clusters of a
// program's control-flow graph.
type Graph struct {
	Entry    uint64
	Blocks   map[uint64]*BasicBlock
	Order    []uint64 // block starts, ascending
	Clusters []*Cluster
	Calls    []CallEdge
}

// BuildGraph partitions a decoded instruction stream into basic blocks
// and function clusters and links control-flow edges. Two passes: block
// boundaries cannot be known until every branch target has been seen.
func BuildGraph(insns []sbf.Instruction, entry uint64, labeling bool) *Graph {
	g := &Graph{Entry: entry, Blocks: make(map[uint64]*BasicBlock)}
	if len(insns) == 0 {
		return g
	}

	pcIdx := make(map[uint64]int, len(insns))
	for i, in := range insns {
		pcIdx[in.PC] = i
	}

	// Pass 1: leaders. Block leaders are the entrypoint, every branch
	// target, and the instruction after any control transfer. Call
	// targets additionally lead functions.
	leaders := map[uint64]bool{entry: true}
	funcLeaders := map[uint64]bool{entry: true}
	// Instructions before the first function leader still need an owner.
	funcLeaders[insns[0].PC] = true

	for i, in := range insns {
		switch in.Kind() {
		case sbf.KindJump, sbf.KindBranch:
			if _, ok := pcIdx[in.JumpTarget()]; ok {
				leaders[in.JumpTarget()] = true
			}
		case sbf.KindCall:
			if _, ok := pcIdx[in.CallTarget()]; ok {
				leaders[in.CallTarget()] = true
				funcLeaders[in.CallTarget()] = true
			}
		}
		if in.IsControlTransfer() && i+1 < len(insns) {
			leaders[insns[i+1].PC] = true
		}
	}

	// Pass 2: partition into maximal runs between leaders.
	var cur *BasicBlock
	for _, in := range insns {
		if cur == nil || leaders[in.PC] {
			cur = &BasicBlock{Start: in.PC}
			g.Blocks[in.PC] = cur
			g.Order = append(g.Order, in.PC)
		}
		cur.Insns = append(cur.Insns, in.PC)
	}

	// Pass 3: edges, from each block's last instruction.
	for _, start := range g.Order {
		blk := g.Blocks[start]
		last := insns[pcIdx[blk.Insns[len(blk.Insns)-1]]]
		next, hasNext := nextPC(insns, pcIdx, last.PC)

		switch last.Kind() {
		case sbf.KindJump:
			if _, ok := g.Blocks[last.JumpTarget()]; ok {
				blk.Succs = append(blk.Succs, last.JumpTarget())
			}
		case sbf.KindBranch:
			if _, ok := g.Blocks[last.JumpTarget()]; ok {
				blk.Succs = append(blk.Succs, last.JumpTarget())
			}
			if hasNext {
				blk.Succs = append(blk.Succs, next)
			}
		case sbf.KindExit, sbf.KindSyscall:
			// Terminal; no successors.
		case sbf.KindCall:
			if _, ok := g.Blocks[last.CallTarget()]; ok {
				g.Calls = append(g.Calls, CallEdge{
					FromPC:    last.PC,
					FromBlock: blk.Start,
					Target:    last.CallTarget(),
				})
			}
			if hasNext {
				blk.Succs = append(blk.Succs, next)
			}
		default:
			// Block ended because the next instruction is a leader.
			if hasNext {
				blk.Succs = append(blk.Succs, next)
			}
		}
	}

	g.buildClusters(funcLeaders, labeling)
	return g
}

// nextPC returns the PC of the instruction following pc in the stream.
// Wide immediate loads occupy two slots, so this is a stream lookup, not
// pc+1.
func nextPC(insns []sbf.Instruction, pcIdx map[uint64]int, pc uint64) (uint64, bool) {
	i := pcIdx[pc]
	if i+1 >= len(insns) {
		return 0, false
	}
	return insns[i+1].PC, true
}

func (g *Graph) buildClusters(funcLeaders map[uint64]bool, labeling bool) {
	leaders := make([]uint64, 0, len(funcLeaders))
	for l := range funcLeaders {
		if _, ok := g.Blocks[l]; ok {
			leaders = append(leaders, l)
		}
	}
	sort.Slice(leaders, func(i, j int) bool { return leaders[i] < leaders[j] })

	for i, leader := range leaders {
		end := ^uint64(0)
		if i+1 < len(leaders) {
			end = leaders[i+1]
		}
		c := &Cluster{Leader: leader, Label: clusterLabel(leader, g.Entry, labeling)}
		for _, start := range g.Order {
			if start >= leader && start < end {
				c.Blocks = append(c.Blocks, start)
			}
		}
		// Layout back-references: each block points at its address-order
		// predecessor inside the cluster.
		for j := 1; j < len(c.Blocks); j++ {
			blk := g.Blocks[c.Blocks[j]]
			blk.Pred = c.Blocks[j-1]
			blk.HasPred = true
		}
		g.Clusters = append(g.Clusters, c)
	}
}

func clusterLabel(leader, entry uint64, labeling bool) string {
	if !labeling {
		return fmt.Sprintf("lbb_%d", leader)
	}
	if leader == entry {
		return "entrypoint"
	}
	return fmt.Sprintf("function_%d", leader)
}

// ClusterFor returns the cluster owning a block start.
func (g *Graph) ClusterFor(start uint64) *Cluster {
	var owner *Cluster
	for _, c := range g.Clusters {
		if c.Leader <= start {
			owner = c
		} else {
			break
		}
	}
	return owner
}

// IsBlockStart reports whether pc begins a basic block.
func (g *Graph) IsBlockStart(pc uint64) bool {
	_, ok := g.Blocks[pc]
	return ok
}

// Reduced returns the view without runtime/library code: only clusters
// whose leader is strictly greater than the entrypoint survive. The
// predicate is an approximation; compilers usually place runtime code
// before user code, but nothing guarantees it.
func (g *Graph) Reduced() *Graph {
	return g.filter(func(c *Cluster) bool { return c.Leader > g.Entry }, false)
}

// EntrypointOnly returns the view holding exactly the entrypoint's own
// cluster, with every edge leaving it dropped.
func (g *Graph) EntrypointOnly() *Graph {
	return g.filter(func(c *Cluster) bool { return c.Leader == g.Entry }, true)
}

// filter produces a copy keeping only clusters accepted by keep. Edges
// to blocks outside the kept set are dropped; call edges survive only
// when both endpoint clusters survive, and never when dropExternal.
func (g *Graph) filter(keep func(*Cluster) bool, dropExternal bool) *Graph {
	out := &Graph{Entry: g.Entry, Blocks: make(map[uint64]*BasicBlock)}
	kept := make(map[uint64]bool)

	for _, c := range g.Clusters {
		if !keep(c) {
			continue
		}
		cc := &Cluster{Leader: c.Leader, Label: c.Label, Blocks: append([]uint64(nil), c.Blocks...)}
		out.Clusters = append(out.Clusters, cc)
		for _, b := range c.Blocks {
			kept[b] = true
		}
	}

	for _, start := range g.Order {
		if !kept[start] {
			continue
		}
		src := g.Blocks[start]
		blk := &BasicBlock{Start: src.Start, Insns: src.Insns, Pred: src.Pred, HasPred: src.HasPred}
		for _, s := range src.Succs {
			if kept[s] {
				blk.Succs = append(blk.Succs, s)
			}
		}
		out.Blocks[start] = blk
		out.Order = append(out.Order, start)
	}

	if !dropExternal {
		for _, e := range g.Calls {
			if kept[e.FromBlock] && kept[e.Target] {
				out.Calls = append(out.Calls, e)
			}
		}
	}
	return out
}
