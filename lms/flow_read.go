package lms

import (
	"fmt"

	"github.com/robert-malhotra/go-lms/binio"
	"github.com/robert-malhotra/go-lms/internal/label"
)

// Flowchart section magics.
const (
	magicFLW2 = "FLW2"
	magicFEN1 = "FEN1"
	magicREF1 = "REF1"
)

// flowDecoder gathers the flat node table, branch-index array and entry
// labels until the join pass rebuilds the graph.
type flowDecoder struct {
	graph *FlowGraph
	cur   *binio.Cursor

	nodes   []Node
	indices []uint16
	labels  map[int]string

	haveNodes bool
}

// DecodeFlowGraph parses an MSBF buffer into a FlowGraph. The adapter
// must declare flowchart support. Decoding fails fast on the first
// structural violation; no partial graph is returned.
func DecodeFlowGraph(ad Adapter, buf []byte) (*FlowGraph, error) {
	graph, err := NewFlowGraph(ad)
	if err != nil {
		return nil, err
	}

	// The BOM decides the real byte order; reading starts big endian
	// and swaps if the BOM says so.
	cur := binio.NewCursor(buf, true)

	_, sections, err := readContainerHeader(cur, magicFlow, false)
	if err != nil {
		return nil, err
	}
	graph.bigEndian = cur.IsBigEndian()

	dec := &flowDecoder{graph: graph, cur: cur}

	offset := headerSize
	for i := 0; i < sections; i++ {
		if err := cur.Seek(offset); err != nil {
			return nil, err
		}
		sec, err := readSectionHeader(cur)
		if err != nil {
			return nil, err
		}
		if err := dec.readSection(sec); err != nil {
			return nil, err
		}
		offset = sec.end()
	}

	if err := dec.join(); err != nil {
		return nil, err
	}
	return graph, nil
}

// readSection dispatches one section by magic.
func (dec *flowDecoder) readSection(sec sectionHeader) error {
	switch sec.magic {
	case magicFLW2:
		return dec.readNodes(sec)
	case magicFEN1:
		return dec.readLabels(sec)
	case magicREF1:
		return fmt.Errorf("REF1 section: %w", ErrUnimplemented)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSection, sec.magic)
	}
}

func (dec *flowDecoder) readNodes(sec sectionHeader) error {
	cur := dec.cur
	if err := cur.Seek(sec.start); err != nil {
		return err
	}

	nodeCount, err := cur.ReadUint16()
	if err != nil {
		return err
	}
	indexCount, err := cur.ReadUint16()
	if err != nil {
		return err
	}
	cur.Skip(4)

	for i := 0; i < int(nodeCount); i++ {
		tag, err := cur.ReadUint16()
		if err != nil {
			return err
		}

		var node Node
		switch tag {
		case nodeTypeMessage:
			node = NewMessageNode()
		case nodeTypeBranch:
			node = NewBranchNode()
		case nodeTypeEvent:
			node = NewEventNode()
		case nodeTypeEntry:
			node = NewEntryNode()
		default:
			return fmt.Errorf("%w: %d", ErrUnknownNodeType, tag)
		}

		if err := node.rawArgs().readArgs(cur); err != nil {
			return err
		}
		dec.nodes = append(dec.nodes, node)
	}

	for i := 0; i < int(indexCount); i++ {
		idx, err := cur.ReadUint16()
		if err != nil {
			return err
		}
		dec.indices = append(dec.indices, idx)
	}

	dec.haveNodes = true
	return nil
}

func (dec *flowDecoder) readLabels(sec sectionHeader) error {
	if err := dec.cur.Seek(sec.start); err != nil {
		return err
	}
	labels, err := label.Unpack(dec.cur)
	if err != nil {
		return err
	}
	dec.labels = labels
	return nil
}

// join attaches labels to entry nodes, registers them as flowchart
// roots and resolves every successor index into a node reference.
func (dec *flowDecoder) join() error {
	if !dec.haveNodes {
		return fmt.Errorf("FLW2: %w", ErrMissingSection)
	}
	if dec.labels == nil {
		return fmt.Errorf("FEN1: %w", ErrMissingSection)
	}

	resolve := func(idx uint16) (Node, error) {
		if idx == noNode {
			return nil, nil
		}
		if int(idx) >= len(dec.nodes) {
			return nil, fmt.Errorf("%w: %d of %d nodes", ErrUnresolvedNode, idx, len(dec.nodes))
		}
		return dec.nodes[idx], nil
	}

	branchTarget := func(i int) (Node, error) {
		if i >= len(dec.indices) {
			return nil, fmt.Errorf("%w: branch table entry %d of %d", ErrUnresolvedNode, i, len(dec.indices))
		}
		return resolve(dec.indices[i])
	}

	var err error
	for i, node := range dec.nodes {
		switch n := node.(type) {
		case *EntryNode:
			name, ok := dec.labels[i]
			if !ok {
				return fmt.Errorf("entry node %d: %w", i, ErrMissingLabel)
			}
			n.Label = name
			dec.graph.flowcharts = append(dec.graph.flowcharts, n)

			if n.Next, err = resolve(n.Args[1]); err != nil {
				return err
			}

		case *MessageNode:
			if n.Next, err = resolve(n.Args[3]); err != nil {
				return err
			}

		case *BranchNode:
			if n.Next, err = branchTarget(int(n.Args[4])); err != nil {
				return err
			}
			if n.Else, err = branchTarget(int(n.Args[4]) + 1); err != nil {
				return err
			}

		case *EventNode:
			if n.Next, err = resolve(n.Args[2]); err != nil {
				return err
			}
		}
	}

	return nil
}
