package lms

import (
	"fmt"
	"os"
)

// ReadDocumentFile reads and decodes the MSBT file at path.
func ReadDocumentFile(ad Adapter, path string) (*Document, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return DecodeDocument(ad, buf)
}

// WriteDocumentFile encodes the document and writes it to path.
func WriteDocumentFile(doc *Document, path string) error {
	buf, err := doc.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ReadFlowGraphFile reads and decodes the MSBF file at path.
func ReadFlowGraphFile(ad Adapter, path string) (*FlowGraph, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return DecodeFlowGraph(ad, buf)
}

// WriteFlowGraphFile encodes the graph and writes it to path.
func WriteFlowGraphFile(graph *FlowGraph, path string) error {
	buf, err := graph.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
