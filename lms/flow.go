package lms

import (
	"fmt"

	"github.com/robert-malhotra/go-lms/binio"
)

// Flow node type tags as stored in the FLW2 node table.
const (
	nodeTypeMessage uint16 = 1
	nodeTypeBranch  uint16 = 2
	nodeTypeEvent   uint16 = 3
	nodeTypeEntry   uint16 = 4
)

// noNode is the "no successor" index sentinel.
const noNode uint16 = 0xFFFF

// flowArgs holds the five generic 16-bit slots every node carries. The
// slots are reinterpreted per node variant; the reference-bearing ones
// are recomputed from the Next/Else fields on every encode, the rest
// round-trip untouched.
type flowArgs struct {
	Args [5]uint16
}

func (a *flowArgs) readArgs(cur *binio.Cursor) error {
	for i := range a.Args {
		v, err := cur.ReadUint16()
		if err != nil {
			return err
		}
		a.Args[i] = v
	}
	return nil
}

func (a *flowArgs) writeArgs(cur *binio.Cursor) {
	for _, v := range a.Args {
		cur.WriteUint16(v)
	}
}

// Node is one node of a dialogue flowchart. The variant set is closed:
// EntryNode, MessageNode, BranchNode and EventNode. Successor references
// are plain fields on the variants; node identity for serialization is
// the node's position in the flattened table, never its address.
type Node interface {
	// Type returns the node's FLW2 type tag.
	Type() uint16

	rawArgs() *flowArgs
}

// EntryNode is the root of one flowchart. Its label is indexed by the
// FEN1 section.
type EntryNode struct {
	flowArgs
	Label string
	Next  Node
}

// NewEntryNode creates an entry node with no successor.
func NewEntryNode() *EntryNode {
	n := &EntryNode{}
	n.Args[1] = noNode
	return n
}

// Type returns the entry type tag.
func (n *EntryNode) Type() uint16 { return nodeTypeEntry }

func (n *EntryNode) rawArgs() *flowArgs { return &n.flowArgs }

// MessageNode displays one message of the companion message table.
type MessageNode struct {
	flowArgs
	Next Node
}

// NewMessageNode creates a message node with no successor and no
// message-table index assigned.
func NewMessageNode() *MessageNode {
	n := &MessageNode{}
	n.Args[1] = 0x88
	n.Args[2] = noNode
	n.Args[3] = noNode
	return n
}

// Type returns the message type tag.
func (n *MessageNode) Type() uint16 { return nodeTypeMessage }

func (n *MessageNode) rawArgs() *flowArgs { return &n.flowArgs }

// MessageIndex returns the index into the companion message table.
func (n *MessageNode) MessageIndex() uint16 { return n.Args[2] }

// SetMessageIndex sets the index into the companion message table.
func (n *MessageNode) SetMessageIndex(idx uint16) { n.Args[2] = idx }

// BranchNode forks the flow on a game-evaluated condition: Next is
// taken when the condition holds, Else otherwise.
type BranchNode struct {
	flowArgs
	Next Node
	Else Node
}

// NewBranchNode creates a branch node with no successors.
func NewBranchNode() *BranchNode {
	n := &BranchNode{}
	n.Args[1] = 2
	return n
}

// Type returns the branch type tag.
func (n *BranchNode) Type() uint16 { return nodeTypeBranch }

func (n *BranchNode) rawArgs() *flowArgs { return &n.flowArgs }

// ConditionKind returns the kind of condition the game evaluates.
func (n *BranchNode) ConditionKind() uint16 { return n.Args[2] }

// SetConditionKind sets the condition kind.
func (n *BranchNode) SetConditionKind(kind uint16) { n.Args[2] = kind }

// ConditionParam returns the condition's parameter.
func (n *BranchNode) ConditionParam() uint16 { return n.Args[3] }

// SetConditionParam sets the condition's parameter.
func (n *BranchNode) SetConditionParam(param uint16) { n.Args[3] = param }

// EventNode triggers a game-specific event before flowing on.
type EventNode struct {
	flowArgs
	Next Node
}

// NewEventNode creates an event node with no successor.
func NewEventNode() *EventNode {
	n := &EventNode{}
	n.Args[2] = noNode
	return n
}

// Type returns the event type tag.
func (n *EventNode) Type() uint16 { return nodeTypeEvent }

func (n *EventNode) rawArgs() *flowArgs { return &n.flowArgs }

// EventType returns the game-specific event type.
func (n *EventNode) EventType() uint16 { return n.Args[1] }

// SetEventType sets the event type.
func (n *EventNode) SetEventType(t uint16) { n.Args[1] = t }

// EventParam returns the event's parameter.
func (n *EventNode) EventParam() uint16 { return n.Args[4] }

// SetEventParam sets the event's parameter.
func (n *EventNode) SetEventParam(param uint16) { n.Args[4] = param }

// FlowGraph is an in-memory flowchart container (MSBF): an ordered list
// of uniquely labeled entry nodes, each rooting a directed graph that
// may reconverge. The flattened node table is recomputed from scratch
// on every Encode.
type FlowGraph struct {
	adapter    Adapter
	bigEndian  bool
	flowcharts []*EntryNode
}

// NewFlowGraph creates an empty flowchart container bound to the
// adapter. The adapter must declare flowchart support.
func NewFlowGraph(ad Adapter) (*FlowGraph, error) {
	if !ad.SupportsFlowcharts() {
		return nil, ErrNoFlowSupport
	}
	return &FlowGraph{adapter: ad, bigEndian: ad.IsBigEndian()}, nil
}

// Adapter returns the adapter the graph is bound to.
func (g *FlowGraph) Adapter() Adapter { return g.adapter }

// Flowcharts returns the root entry nodes in container order.
func (g *FlowGraph) Flowcharts() []*EntryNode { return g.flowcharts }

// IsBigEndian reports the byte order the graph encodes with.
func (g *FlowGraph) IsBigEndian() bool { return g.bigEndian }

// SetBigEndian forces big endian byte order.
func (g *FlowGraph) SetBigEndian() { g.bigEndian = true }

// SetLittleEndian forces little endian byte order.
func (g *FlowGraph) SetLittleEndian() { g.bigEndian = false }

// NewFlowchart creates an entry node with the given label and registers
// it as a new flowchart root. Labels are unique within a graph.
func (g *FlowGraph) NewFlowchart(labelName string) (*EntryNode, error) {
	for _, f := range g.flowcharts {
		if f.Label == labelName {
			return nil, fmt.Errorf("flowchart %q: %w", labelName, ErrDuplicateLabel)
		}
	}

	root := NewEntryNode()
	root.Label = labelName
	g.flowcharts = append(g.flowcharts, root)
	return root, nil
}
