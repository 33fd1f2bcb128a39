package lms

import (
	"fmt"

	"github.com/robert-malhotra/go-lms/binio"
	"github.com/robert-malhotra/go-lms/internal/label"
)

// Message table section magics.
const (
	magicLBL1 = "LBL1"
	magicTXT2 = "TXT2"
	magicATR1 = "ATR1"
	magicATO1 = "ATO1"
	magicTSY1 = "TSY1"
)

// documentDecoder gathers the per-section results until the join pass
// assembles them into messages.
type documentDecoder struct {
	doc *Document
	cur *binio.Cursor

	labels map[int]string
	texts  []string
	attrs  []Attributes
	styles []int

	haveAttrs  bool
	haveStyles bool
}

// DecodeDocument parses an MSBT buffer into a Document. Decoding fails
// fast on the first structural violation; no partial document is
// returned.
func DecodeDocument(ad Adapter, buf []byte) (*Document, error) {
	// The BOM decides the real byte order; reading starts big endian
	// and swaps if the BOM says so.
	cur := binio.NewCursor(buf, true)

	encoding, sections, err := readContainerHeader(cur, magicDocument, true)
	if err != nil {
		return nil, err
	}

	doc := NewDocument(ad)
	doc.bigEndian = cur.IsBigEndian()
	if doc.charset, err = charsetForEncoding(encoding, doc.bigEndian); err != nil {
		return nil, err
	}

	dec := &documentDecoder{doc: doc, cur: cur}

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
	return doc, nil
}

// readSection dispatches one section by magic.
func (dec *documentDecoder) readSection(sec sectionHeader) error {
	switch sec.magic {
	case magicLBL1:
		return dec.readLabels(sec)
	case magicTXT2:
		return dec.readTexts(sec)
	case magicATR1:
		return dec.readAttributes(sec)
	case magicATO1:
		return fmt.Errorf("ATO1 section: %w", ErrUnimplemented)
	case magicTSY1:
		return dec.readStyles(sec)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSection, sec.magic)
	}
}

func (dec *documentDecoder) readLabels(sec sectionHeader) error {
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

func (dec *documentDecoder) readTexts(sec sectionHeader) error {
	cur := dec.cur
	if err := cur.Seek(sec.start); err != nil {
		return err
	}
	count, err := cur.ReadInt32()
	if err != nil {
		return err
	}

	for i := 0; i < int(count); i++ {
		if err := cur.Seek(sec.start + 0x04 + i*0x04); err != nil {
			return err
		}
		offText, err := cur.ReadUint32()
		if err != nil {
			return err
		}
		if err := cur.Seek(sec.start + int(offText)); err != nil {
			return err
		}

		text, err := readText(cur, dec.doc.adapter, dec.doc.charset)
		if err != nil {
			return fmt.Errorf("text %d: %w", i, err)
		}
		dec.texts = append(dec.texts, text)
	}

	return nil
}

func (dec *documentDecoder) readAttributes(sec sectionHeader) error {
	ad := dec.doc.adapter
	if !ad.SupportsAttributes() {
		return fmt.Errorf("ATR1: %w", ErrUnexpectedSection)
	}

	cur := dec.cur
	if err := cur.Seek(sec.start); err != nil {
		return err
	}
	count, err := cur.ReadInt32()
	if err != nil {
		return err
	}
	stride, err := cur.ReadInt32()
	if err != nil {
		return err
	}

	for i := 0; i < int(count); i++ {
		if err := cur.Seek(sec.start + 0x08 + i*int(stride)); err != nil {
			return err
		}
		attrs, err := ad.ParseAttributes(cur, sec.start, sec.size)
		if err != nil {
			return fmt.Errorf("attribute record %d: %w", i, err)
		}
		dec.attrs = append(dec.attrs, attrs)
	}

	dec.haveAttrs = true
	return nil
}

func (dec *documentDecoder) readStyles(sec sectionHeader) error {
	if !dec.doc.adapter.SupportsStyles() {
		return fmt.Errorf("TSY1: %w", ErrUnexpectedSection)
	}

	cur := dec.cur
	if err := cur.Seek(sec.start); err != nil {
		return err
	}
	for i := 0; i < sec.size/4; i++ {
		style, err := cur.ReadInt32()
		if err != nil {
			return err
		}
		dec.styles = append(dec.styles, int(style))
	}

	dec.haveStyles = true
	return nil
}

// join binds each text to its label, attributes and style by position.
// The label is mandatory; short attribute and style lists fall back to
// the adapter's defaults.
func (dec *documentDecoder) join() error {
	ad := dec.doc.adapter

	if dec.labels == nil {
		return fmt.Errorf("LBL1: %w", ErrMissingSection)
	}
	if ad.SupportsAttributes() && !dec.haveAttrs {
		return fmt.Errorf("ATR1: %w", ErrMissingSection)
	}
	if ad.SupportsStyles() && !dec.haveStyles {
		return fmt.Errorf("TSY1: %w", ErrMissingSection)
	}

	for i, text := range dec.texts {
		msg := &Message{Text: text, Style: -1}

		name, ok := dec.labels[i]
		if !ok {
			return fmt.Errorf("message %d: %w", i, ErrMissingLabel)
		}
		msg.Label = name

		if dec.haveAttrs {
			if i < len(dec.attrs) {
				msg.Attributes = dec.attrs[i]
			} else {
				msg.Attributes = ad.CreateDefaultAttributes()
			}
		}
		if dec.haveStyles {
			if i < len(dec.styles) {
				msg.Style = dec.styles[i]
			} else {
				msg.Style = ad.CreateDefaultStyle()
			}
		}

		dec.doc.messages = append(dec.doc.messages, msg)
	}

	return nil
}
