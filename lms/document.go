package lms

import "fmt"

// Message is one entry of a message table: an escaped text with embedded
// tag placeholders, the label that names it, and the optional attribute
// record and style id the adapter defines. A message belongs to exactly
// one Document; its position in the document's message list is the index
// the container's label, attribute and style sections are keyed on.
type Message struct {
	Label      string
	Text       string
	Attributes Attributes
	Style      int
}

// Document is an in-memory message table (MSBT). It owns an ordered list
// of messages plus the charset and byte order the container is encoded
// with. Create one empty with NewDocument or from bytes with
// DecodeDocument.
//
// A Document holds no cached layout; offsets, indices and bucket
// assignments are recomputed on every Encode. Concurrent encodes of
// distinct documents are safe, concurrent mutation of one document
// during its own Encode is not.
type Document struct {
	adapter   Adapter
	charset   Charset
	bigEndian bool
	messages  []*Message
}

// NewDocument creates an empty message table bound to the adapter,
// taking the adapter's charset and byte order as defaults.
func NewDocument(ad Adapter) *Document {
	return &Document{
		adapter:   ad,
		charset:   ad.Charset(),
		bigEndian: ad.IsBigEndian(),
	}
}

// Adapter returns the adapter the document is bound to.
func (d *Document) Adapter() Adapter { return d.adapter }

// Messages returns the document's messages in container order.
func (d *Document) Messages() []*Message { return d.messages }

// Charset returns the active text charset.
func (d *Document) Charset() Charset { return d.charset }

// SetCharset selects the text charset. The utf-16 variants imply a byte
// order; picking one switches the document's order to match.
func (d *Document) SetCharset(charset Charset) error {
	switch charset {
	case CharsetUTF8:
	case CharsetUTF16BE:
		d.bigEndian = true
	case CharsetUTF16LE:
		d.bigEndian = false
	default:
		return fmt.Errorf("%w: %q", ErrBadCharset, charset)
	}
	d.charset = charset
	return nil
}

// IsBigEndian reports the byte order the document encodes with.
func (d *Document) IsBigEndian() bool { return d.bigEndian }

// SetBigEndian forces big endian byte order. A utf-16-le charset
// switches to utf-16-be.
func (d *Document) SetBigEndian() {
	if d.charset == CharsetUTF16LE {
		d.charset = CharsetUTF16BE
	}
	d.bigEndian = true
}

// SetLittleEndian forces little endian byte order. A utf-16-be charset
// switches to utf-16-le.
func (d *Document) SetLittleEndian() {
	if d.charset == CharsetUTF16BE {
		d.charset = CharsetUTF16LE
	}
	d.bigEndian = false
}

// NewMessage creates a message with the given label, fills in the
// adapter's default attributes and style, and appends it to the
// document. Labels are unique within a document; reusing one fails with
// ErrDuplicateLabel.
func (d *Document) NewMessage(labelName string) (*Message, error) {
	for _, m := range d.messages {
		if m.Label == labelName {
			return nil, fmt.Errorf("message %q: %w", labelName, ErrDuplicateLabel)
		}
	}

	msg := &Message{Label: labelName, Style: -1}
	if d.adapter.SupportsAttributes() {
		msg.Attributes = d.adapter.CreateDefaultAttributes()
	}
	if d.adapter.SupportsStyles() {
		msg.Style = d.adapter.CreateDefaultStyle()
	}

	d.messages = append(d.messages, msg)
	return msg, nil
}
