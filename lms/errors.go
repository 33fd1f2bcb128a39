// Package lms reads and writes LMS binary message containers: message
// tables (MSBT) holding localized dialogue text and flowchart graphs
// (MSBF) describing dialogue control flow. Game-specific behavior such
// as tag grammars and attribute layouts is supplied through the Adapter
// interface; the package itself is buffer-in/buffer-out.
package lms

import (
	"errors"

	"github.com/robert-malhotra/go-lms/binio"
	"github.com/robert-malhotra/go-lms/internal/label"
)

// Decoding and encoding fail fast on the first violation; every failure
// wraps one of these kinds so callers can test with errors.Is.
var (
	ErrBadMagic           = errors.New("bad file magic")
	ErrBadBOM             = errors.New("no proper byte order mark found")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrSizeMismatch       = errors.New("stored size does not match buffer size")
	ErrMissingSection     = errors.New("required section not found")
	ErrUnknownSection     = errors.New("unknown section magic")
	ErrUnexpectedSection  = errors.New("section not supported by adapter")
	ErrMissingLabel       = errors.New("entry has no label")
	ErrDuplicateLabel     = errors.New("label already exists")
	ErrUnknownNodeType    = errors.New("unknown flow node type")
	ErrUnresolvedNode     = errors.New("node index out of range")
	ErrUnterminatedTag    = errors.New("tag not closed")
	ErrUnbalancedBracket  = errors.New("tag closer found without opener")
	ErrDanglingEscape     = errors.New("no character to escape")
	ErrUnimplemented      = errors.New("not implemented")
	ErrBadCharset         = errors.New("unsupported charset")
	ErrNoFlowSupport      = errors.New("adapter does not support flowcharts")
)

// Re-exported kinds raised by the lower layers.
var (
	ErrEndOfData     = binio.ErrEndOfData
	ErrLabelTooLong  = label.ErrTooLong
	ErrNonASCIILabel = label.ErrNonASCII
)
