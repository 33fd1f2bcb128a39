package lms

import (
	"fmt"

	"github.com/robert-malhotra/go-lms/binio"
)

// Charset names a text encoding used for message text.
type Charset string

// Supported charsets. The 16-bit charset splits into a big and little
// endian variant following the container's byte order.
const (
	CharsetUTF8    Charset = "utf-8"
	CharsetUTF16BE Charset = "utf-16-be"
	CharsetUTF16LE Charset = "utf-16-le"
)

// charsetForEncoding maps a header encoding id and byte order to a charset.
func charsetForEncoding(encoding uint8, bigEndian bool) (Charset, error) {
	switch encoding {
	case 0:
		return CharsetUTF8, nil
	case 1:
		if bigEndian {
			return CharsetUTF16BE, nil
		}
		return CharsetUTF16LE, nil
	default:
		return "", fmt.Errorf("%w: encoding id %d", ErrBadCharset, encoding)
	}
}

// encodingForCharset maps a charset to its header encoding id.
func encodingForCharset(charset Charset) (uint8, error) {
	switch charset {
	case CharsetUTF8:
		return 0, nil
	case CharsetUTF16BE, CharsetUTF16LE:
		return 1, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrBadCharset, charset)
	}
}

// Attributes is an opaque per-message attribute record. Its keys and
// value types are defined entirely by the adapter that parses and
// writes it.
type Attributes map[string]any

// Adapter supplies the game-specific behavior the codecs delegate to:
// the text charset, the default byte order, tag transcoding, and the
// optional attribute and style extensions. Implementations embed
// BaseAdapter and override the capabilities their game uses.
//
// Adapters must be stateless with respect to a single encode or decode
// call; the same adapter value may serve several documents.
type Adapter interface {
	// Charset returns the default charset for new documents.
	Charset() Charset
	// IsBigEndian returns the default byte order for new documents.
	IsBigEndian() bool
	// UsesFixedBucketCount selects the fixed hash bucket counts (101
	// for message tables, 59 for flowcharts) instead of the
	// next-prime-above-entry-count policy.
	UsesFixedBucketCount() bool
	// SupportsFlowcharts reports whether the game ships MSBF files.
	SupportsFlowcharts() bool

	// ReadTag consumes a binary tag payload from the cursor and returns
	// its placeholder representation, conventionally enclosed in square
	// brackets. The cursor is positioned just after the 0x000E control
	// character.
	ReadTag(cur *binio.Cursor) (string, error)
	// WriteTag encodes the placeholder body (without brackets) back
	// into the binary tag payload. The 0x000E control character has
	// already been written when WriteTag is called.
	WriteTag(cur *binio.Cursor, body string) error

	// SupportsAttributes reports whether messages carry an ATR1 record.
	SupportsAttributes() bool
	// AttributesByteSize is the fixed stride of one attribute record.
	AttributesByteSize() int
	// CreateDefaultAttributes returns the attributes a new message
	// starts with.
	CreateDefaultAttributes() Attributes
	// ParseAttributes reads one attribute record. sectionStart and
	// sectionSize describe the enclosing ATR1 section for adapters
	// whose records reference section-relative offsets.
	ParseAttributes(cur *binio.Cursor, sectionStart, sectionSize int) (Attributes, error)
	// WriteAttributes encodes one attribute record.
	WriteAttributes(cur *binio.Cursor, attrs Attributes) error

	// SupportsStyles reports whether messages carry a TSY1 style id.
	SupportsStyles() bool
	// CreateDefaultStyle returns the style id a new message starts with.
	CreateDefaultStyle() int
}

// BaseAdapter provides the neutral defaults of the capability set:
// utf-16-be text, big endian, prime-searched bucket counts, and no
// flowchart, tag, attribute or style support. Concrete game profiles
// embed it and override what their game defines.
type BaseAdapter struct{}

// Charset returns utf-16-be.
func (BaseAdapter) Charset() Charset { return CharsetUTF16BE }

// IsBigEndian returns true.
func (BaseAdapter) IsBigEndian() bool { return true }

// UsesFixedBucketCount returns false.
func (BaseAdapter) UsesFixedBucketCount() bool { return false }

// SupportsFlowcharts returns false.
func (BaseAdapter) SupportsFlowcharts() bool { return false }

// ReadTag fails with ErrUnimplemented.
func (BaseAdapter) ReadTag(*binio.Cursor) (string, error) {
	return "", fmt.Errorf("read tag: %w", ErrUnimplemented)
}

// WriteTag fails with ErrUnimplemented.
func (BaseAdapter) WriteTag(*binio.Cursor, string) error {
	return fmt.Errorf("write tag: %w", ErrUnimplemented)
}

// SupportsAttributes returns false.
func (BaseAdapter) SupportsAttributes() bool { return false }

// AttributesByteSize returns 0.
func (BaseAdapter) AttributesByteSize() int { return 0 }

// CreateDefaultAttributes returns nil.
func (BaseAdapter) CreateDefaultAttributes() Attributes { return nil }

// ParseAttributes fails with ErrUnimplemented.
func (BaseAdapter) ParseAttributes(*binio.Cursor, int, int) (Attributes, error) {
	return nil, fmt.Errorf("parse attributes: %w", ErrUnimplemented)
}

// WriteAttributes fails with ErrUnimplemented.
func (BaseAdapter) WriteAttributes(*binio.Cursor, Attributes) error {
	return fmt.Errorf("write attributes: %w", ErrUnimplemented)
}

// SupportsStyles returns false.
func (BaseAdapter) SupportsStyles() bool { return false }

// CreateDefaultStyle returns -1, the unset style id.
func (BaseAdapter) CreateDefaultStyle() int { return -1 }
