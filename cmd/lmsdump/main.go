// Diagnostic tool for inspecting MSBT and MSBF files.
package main

import (
	"bytes"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/robert-malhotra/go-lms/binio"
	"github.com/robert-malhotra/go-lms/lms"
)

func main() {
	attrSize := flag.Int("attr-size", 0, "treat ATR1 records as opaque blobs of this many bytes")
	styles := flag.Bool("styles", false, "expect a TSY1 style section")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: lmsdump [-attr-size N] [-styles] <file.msbt|file.msbf>")
		os.Exit(1)
	}
	path := flag.Arg(0)

	buf, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}

	ad := dumpAdapter{attrSize: *attrSize, styles: *styles}
	fmt.Printf("=== %s (%d bytes) ===\n\n", path, len(buf))

	switch {
	case bytes.HasPrefix(buf, []byte("MsgStdBn")):
		err = dumpDocument(ad, buf)
	case bytes.HasPrefix(buf, []byte("MsgFlwBn")):
		err = dumpFlowGraph(ad, buf)
	default:
		err = fmt.Errorf("not an MSBT or MSBF file")
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func dumpDocument(ad lms.Adapter, buf []byte) error {
	doc, err := lms.DecodeDocument(ad, buf)
	if err != nil {
		return err
	}

	fmt.Printf("Message table: charset %s, %s\n\n", doc.Charset(), orderName(doc.IsBigEndian()))
	for i, msg := range doc.Messages() {
		fmt.Printf("[%d] %s\n", i, msg.Label)
		if msg.Attributes != nil {
			if raw, ok := msg.Attributes["raw"].([]byte); ok {
				fmt.Printf("    attributes: %X\n", raw)
			}
		}
		if msg.Style != -1 {
			fmt.Printf("    style: %d\n", msg.Style)
		}
		fmt.Printf("    %q\n", msg.Text)
	}
	return nil
}

func dumpFlowGraph(ad lms.Adapter, buf []byte) error {
	graph, err := lms.DecodeFlowGraph(ad, buf)
	if err != nil {
		return err
	}

	fmt.Printf("Flowcharts: %d, %s\n\n", len(graph.Flowcharts()), orderName(graph.IsBigEndian()))
	seen := make(map[lms.Node]bool)
	for _, root := range graph.Flowcharts() {
		fmt.Printf("flowchart %q:\n", root.Label)
		walkNode(root, "  ", seen)
		fmt.Println()
	}
	return nil
}

func walkNode(node lms.Node, indent string, seen map[lms.Node]bool) {
	if node == nil {
		fmt.Printf("%s(end)\n", indent)
		return
	}
	if seen[node] {
		fmt.Printf("%s%s [shared, see above]\n", indent, nodeName(node))
		return
	}
	seen[node] = true

	fmt.Printf("%s%s\n", indent, nodeName(node))
	switch n := node.(type) {
	case *lms.EntryNode:
		walkNode(n.Next, indent+"  ", seen)
	case *lms.MessageNode:
		walkNode(n.Next, indent+"  ", seen)
	case *lms.BranchNode:
		fmt.Printf("%s  then:\n", indent)
		walkNode(n.Next, indent+"    ", seen)
		fmt.Printf("%s  else:\n", indent)
		walkNode(n.Else, indent+"    ", seen)
	case *lms.EventNode:
		walkNode(n.Next, indent+"  ", seen)
	}
}

func nodeName(node lms.Node) string {
	switch n := node.(type) {
	case *lms.EntryNode:
		return fmt.Sprintf("entry %q", n.Label)
	case *lms.MessageNode:
		return fmt.Sprintf("message #%d", n.MessageIndex())
	case *lms.BranchNode:
		return fmt.Sprintf("branch (condition %d, param %d)", n.ConditionKind(), n.ConditionParam())
	case *lms.EventNode:
		return fmt.Sprintf("event %d (param %d)", n.EventType(), n.EventParam())
	default:
		return "unknown node"
	}
}

func orderName(bigEndian bool) string {
	if bigEndian {
		return "big endian"
	}
	return "little endian"
}

// dumpAdapter is a game-agnostic profile: tags render as
// "[group.kind:HEXDATA]" placeholders and attribute records, when a
// stride is given, pass through as raw bytes.
type dumpAdapter struct {
	lms.BaseAdapter
	attrSize int
	styles   bool
}

func (a dumpAdapter) SupportsFlowcharts() bool { return true }

func (a dumpAdapter) ReadTag(cur *binio.Cursor) (string, error) {
	group, err := cur.ReadUint16()
	if err != nil {
		return "", err
	}
	kind, err := cur.ReadUint16()
	if err != nil {
		return "", err
	}
	size, err := cur.ReadUint16()
	if err != nil {
		return "", err
	}
	data, err := cur.ReadBytes(int(size))
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return fmt.Sprintf("[%d.%d]", group, kind), nil
	}
	return fmt.Sprintf("[%d.%d:%X]", group, kind, data), nil
}

func (a dumpAdapter) WriteTag(cur *binio.Cursor, body string) error {
	ids, rawHex, _ := strings.Cut(body, ":")
	groupStr, kindStr, ok := strings.Cut(ids, ".")
	if !ok {
		return fmt.Errorf("tag %q: want group.kind[:hexdata]", body)
	}
	group, err := strconv.ParseUint(groupStr, 10, 16)
	if err != nil {
		return fmt.Errorf("tag %q: %v", body, err)
	}
	kind, err := strconv.ParseUint(kindStr, 10, 16)
	if err != nil {
		return fmt.Errorf("tag %q: %v", body, err)
	}
	data, err := hex.DecodeString(rawHex)
	if err != nil {
		return fmt.Errorf("tag %q: %v", body, err)
	}

	cur.WriteUint16(uint16(group))
	cur.WriteUint16(uint16(kind))
	cur.WriteUint16(uint16(len(data)))
	cur.WriteBytes(data)
	return nil
}

func (a dumpAdapter) SupportsAttributes() bool { return a.attrSize > 0 }

func (a dumpAdapter) AttributesByteSize() int { return a.attrSize }

func (a dumpAdapter) CreateDefaultAttributes() lms.Attributes {
	return lms.Attributes{"raw": make([]byte, a.attrSize)}
}

func (a dumpAdapter) ParseAttributes(cur *binio.Cursor, _, _ int) (lms.Attributes, error) {
	raw, err := cur.ReadBytes(a.attrSize)
	if err != nil {
		return nil, err
	}
	return lms.Attributes{"raw": raw}, nil
}

func (a dumpAdapter) WriteAttributes(cur *binio.Cursor, attrs lms.Attributes) error {
	raw, _ := attrs["raw"].([]byte)
	if len(raw) != a.attrSize {
		return fmt.Errorf("attribute record is %d bytes, want %d", len(raw), a.attrSize)
	}
	cur.WriteBytes(raw)
	return nil
}

func (a dumpAdapter) SupportsStyles() bool { return a.styles }
