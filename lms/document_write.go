package lms

import (
	"fmt"

	"github.com/robert-malhotra/go-lms/binio"
	"github.com/robert-malhotra/go-lms/internal/label"
)

// Fixed hash bucket count for message-table labels, used when the
// adapter asks for fixed buckets.
const fixedBucketsDocument = 101

// Encode packs the document into an MSBT buffer. The section count and
// file size are patched into the header after all sections are written.
// Encoding fails fast on the first invalid label or malformed text.
func (d *Document) Encode() ([]byte, error) {
	if err := d.checkLabels(); err != nil {
		return nil, err
	}
	encoding, err := encodingForCharset(d.charset)
	if err != nil {
		return nil, err
	}

	cur := binio.NewCursor(nil, d.bigEndian)
	writeContainerHeader(cur, magicDocument, int(encoding))

	sections := 0

	if err := d.writeLabelSection(cur); err != nil {
		return nil, err
	}
	sections++

	if d.adapter.SupportsAttributes() {
		if err := d.writeAttributeSection(cur); err != nil {
			return nil, err
		}
		sections++
	}

	if err := d.writeTextSection(cur); err != nil {
		return nil, err
	}
	sections++

	if d.adapter.SupportsStyles() {
		d.writeStyleSection(cur)
		sections++
	}

	patchContainerHeader(cur, sections)
	return cur.Bytes(), nil
}

// checkLabels re-validates label uniqueness; the message slice is
// reachable by callers and may have been altered outside NewMessage.
func (d *Document) checkLabels() error {
	seen := make(map[string]struct{}, len(d.messages))
	for _, m := range d.messages {
		if _, ok := seen[m.Label]; ok {
			return fmt.Errorf("message %q: %w", m.Label, ErrDuplicateLabel)
		}
		seen[m.Label] = struct{}{}
	}
	return nil
}

func (d *Document) writeLabelSection(cur *binio.Cursor) error {
	buckets := fixedBucketsDocument
	if !d.adapter.UsesFixedBucketCount() {
		buckets = label.FindGreaterPrime(len(d.messages))
	}

	entries := make([]label.Entry, len(d.messages))
	for i, m := range d.messages {
		entries[i] = label.Entry{Pos: i, Label: m.Label}
	}

	payload := binio.NewCursor(nil, d.bigEndian)
	if err := label.Pack(payload, entries, buckets); err != nil {
		return err
	}

	writeSection(cur, magicLBL1, payload.Bytes())
	return nil
}

func (d *Document) writeTextSection(cur *binio.Cursor) error {
	payload := binio.NewCursor(nil, d.bigEndian)
	payload.WriteInt32(int32(len(d.messages)))
	payload.WriteZeros(len(d.messages) * 0x04)

	// The offset table slots are filled in as each text lands at the
	// current end of the payload.
	for i, m := range d.messages {
		payload.Seek(0x04 + i*0x04)
		payload.WriteUint32(uint32(payload.Size()))

		payload.Seek(payload.Size())
		if err := writeText(payload, d.adapter, d.charset, m.Text); err != nil {
			return fmt.Errorf("message %q: %w", m.Label, err)
		}
	}

	writeSection(cur, magicTXT2, payload.Bytes())
	return nil
}

func (d *Document) writeAttributeSection(cur *binio.Cursor) error {
	stride := d.adapter.AttributesByteSize()

	payload := binio.NewCursor(nil, d.bigEndian)
	payload.WriteInt32(int32(len(d.messages)))
	payload.WriteInt32(int32(stride))
	payload.WriteZeros(len(d.messages) * stride)

	for i, m := range d.messages {
		payload.Seek(0x08 + i*stride)
		if err := d.adapter.WriteAttributes(payload, m.Attributes); err != nil {
			return fmt.Errorf("message %q: %w", m.Label, err)
		}
	}

	writeSection(cur, magicATR1, payload.Bytes())
	return nil
}

func (d *Document) writeStyleSection(cur *binio.Cursor) {
	payload := binio.NewCursor(nil, d.bigEndian)
	for _, m := range d.messages {
		payload.WriteInt32(int32(m.Style))
	}
	writeSection(cur, magicTSY1, payload.Bytes())
}
