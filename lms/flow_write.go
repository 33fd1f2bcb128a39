package lms

import (
	"fmt"

	"github.com/robert-malhotra/go-lms/binio"
	"github.com/robert-malhotra/go-lms/internal/label"
)

// Fixed hash bucket count for flowchart labels, used when the adapter
// asks for fixed buckets.
const fixedBucketsFlow = 59

// Encode packs the graph into an MSBF buffer. Each root's reachable
// nodes are flattened into one shared, index-addressed table; a node
// reachable from several predecessors appears exactly once.
func (g *FlowGraph) Encode() ([]byte, error) {
	if err := g.checkLabels(); err != nil {
		return nil, err
	}

	cur := binio.NewCursor(nil, g.bigEndian)
	writeContainerHeader(cur, magicFlow, -1)

	order, index := g.flatten()

	g.writeNodeSection(cur, order, index)
	if err := g.writeLabelSection(cur, index); err != nil {
		return nil, err
	}

	patchContainerHeader(cur, 2)
	return cur.Bytes(), nil
}

// checkLabels re-validates root label uniqueness; the flowchart slice
// is reachable by callers and may have been altered outside
// NewFlowchart.
func (g *FlowGraph) checkLabels() error {
	seen := make(map[string]struct{}, len(g.flowcharts))
	for _, f := range g.flowcharts {
		if _, ok := seen[f.Label]; ok {
			return fmt.Errorf("flowchart %q: %w", f.Label, ErrDuplicateLabel)
		}
		seen[f.Label] = struct{}{}
	}
	return nil
}

// flatten performs an order-preserving breadth-first traversal over all
// roots, in root order, assigning each distinct node its table index at
// first sight. The graph may reconverge, so a node is enqueued at most
// once; identity is pointer identity.
func (g *FlowGraph) flatten() ([]Node, map[Node]int) {
	var order []Node
	index := make(map[Node]int)

	var queue []Node
	visit := func(n Node) {
		if n == nil {
			return
		}
		if _, seen := index[n]; seen {
			return
		}
		index[n] = len(order)
		order = append(order, n)
		queue = append(queue, n)
	}

	for _, root := range g.flowcharts {
		visit(root)
		for len(queue) > 0 {
			node := queue[0]
			queue = queue[1:]

			switch n := node.(type) {
			case *EntryNode:
				visit(n.Next)
			case *MessageNode:
				visit(n.Next)
			case *BranchNode:
				visit(n.Next)
				visit(n.Else)
			case *EventNode:
				visit(n.Next)
			}
		}
	}

	return order, index
}

// writeNodeSection writes FLW2: node and branch-index counts, the node
// table, then the branch-index table. The reference-bearing arg slots
// are recomputed from the resolved successors before each node is
// written.
func (g *FlowGraph) writeNodeSection(cur *binio.Cursor, order []Node, index map[Node]int) {
	indexOf := func(n Node) uint16 {
		if n == nil {
			return noNode
		}
		return uint16(index[n])
	}

	branches := 0
	for _, node := range order {
		if _, ok := node.(*BranchNode); ok {
			branches++
		}
	}

	payload := binio.NewCursor(nil, g.bigEndian)
	payload.WriteUint16(uint16(len(order)))
	payload.WriteUint16(uint16(branches * 2))
	payload.WriteZeros(4)

	var branchIndices []uint16
	for _, node := range order {
		switch n := node.(type) {
		case *EntryNode:
			n.Args[1] = indexOf(n.Next)
		case *MessageNode:
			n.Args[3] = indexOf(n.Next)
		case *BranchNode:
			n.Args[4] = uint16(len(branchIndices))
			branchIndices = append(branchIndices, indexOf(n.Next), indexOf(n.Else))
		case *EventNode:
			n.Args[2] = indexOf(n.Next)
		}

		payload.WriteUint16(node.Type())
		node.rawArgs().writeArgs(payload)
	}

	for _, idx := range branchIndices {
		payload.WriteUint16(idx)
	}

	writeSection(cur, magicFLW2, payload.Bytes())
}

// writeLabelSection writes FEN1, the hash table binding each root's
// label to the root's index in the flattened node table.
func (g *FlowGraph) writeLabelSection(cur *binio.Cursor, index map[Node]int) error {
	buckets := fixedBucketsFlow
	if !g.adapter.UsesFixedBucketCount() {
		buckets = label.FindGreaterPrime(len(g.flowcharts))
	}

	entries := make([]label.Entry, len(g.flowcharts))
	for i, f := range g.flowcharts {
		entries[i] = label.Entry{Pos: index[f], Label: f.Label}
	}

	payload := binio.NewCursor(nil, g.bigEndian)
	if err := label.Pack(payload, entries, buckets); err != nil {
		return err
	}

	writeSection(cur, magicFEN1, payload.Bytes())
	return nil
}
