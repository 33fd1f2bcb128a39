package lms

import (
	"fmt"

	"github.com/robert-malhotra/go-lms/binio"
)

// Container framing shared by message tables and flowcharts: an 8-byte
// magic, a BOM, a versioned 32-byte header, then 16-byte-aligned tagged
// sections padded with 0xAB.
const (
	magicDocument = "MsgStdBn"
	magicFlow     = "MsgFlwBn"

	headerSize    = 32
	formatVersion = 3

	bomNative  = 0xFEFF
	bomSwapped = 0xFFFE

	sectionAlign = 16
	sectionPad   = 0xAB

	// Header patch offsets for the fields only known after the
	// sections are written.
	offSectionCount = 0x0E
	offFileSize     = 0x12
)

// sectionHeader describes one section as read from the container.
type sectionHeader struct {
	magic string
	size  int
	start int
}

// end returns the aligned offset at which the next section begins.
func (s sectionHeader) end() int {
	return (s.start + s.size + sectionAlign - 1) &^ (sectionAlign - 1)
}

// readContainerHeader validates the fixed header at the start of the
// cursor. The BOM value 0xFFFE swaps the cursor's byte order; 0xFEFF
// keeps it. withEncoding selects the message-table header flavor, which
// carries an encoding id byte where the flowchart header is reserved.
// Returns the encoding id (zero when absent) and the section count.
func readContainerHeader(cur *binio.Cursor, magic string, withEncoding bool) (encoding uint8, sections int, err error) {
	raw, err := cur.ReadBytes(8)
	if err != nil {
		return 0, 0, err
	}
	if string(raw) != magic {
		return 0, 0, fmt.Errorf("%w: expected %q", ErrBadMagic, magic)
	}

	bom, err := cur.ReadUint16()
	if err != nil {
		return 0, 0, err
	}
	switch bom {
	case bomSwapped:
		cur.SwapEndian()
	case bomNative:
	default:
		return 0, 0, fmt.Errorf("%w: 0x%04X", ErrBadBOM, bom)
	}

	if withEncoding {
		cur.Skip(2)
		if encoding, err = cur.ReadUint8(); err != nil {
			return 0, 0, err
		}
	} else {
		cur.Skip(3)
	}

	version, err := cur.ReadUint8()
	if err != nil {
		return 0, 0, err
	}
	if version != formatVersion {
		return 0, 0, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	sectionCount, err := cur.ReadUint16()
	if err != nil {
		return 0, 0, err
	}
	cur.Skip(2)

	fileSize, err := cur.ReadUint32()
	if err != nil {
		return 0, 0, err
	}
	if int(fileSize) != cur.Size() {
		return 0, 0, fmt.Errorf("%w: header says %d, buffer has %d",
			ErrSizeMismatch, fileSize, cur.Size())
	}
	cur.Skip(10)

	return encoding, int(sectionCount), nil
}

// readSectionHeader reads one section header at the cursor and verifies
// that the declared payload fits inside the buffer.
func readSectionHeader(cur *binio.Cursor) (sectionHeader, error) {
	raw, err := cur.ReadBytes(4)
	if err != nil {
		return sectionHeader{}, err
	}
	size, err := cur.ReadUint32()
	if err != nil {
		return sectionHeader{}, err
	}
	cur.Skip(8)

	sec := sectionHeader{magic: string(raw), size: int(size), start: cur.Tell()}
	if sec.start+sec.size > cur.Size() {
		return sectionHeader{}, fmt.Errorf("section %s: payload of %d bytes extends past end of buffer: %w",
			sec.magic, sec.size, ErrSizeMismatch)
	}
	return sec, nil
}

// writeContainerHeader writes the fixed header with zero placeholders
// for the section count and file size. encoding is the encoding id for
// message tables, or -1 for the flowchart flavor.
func writeContainerHeader(cur *binio.Cursor, magic string, encoding int) {
	cur.WriteBytes([]byte(magic))
	cur.WriteUint16(bomNative)
	if encoding >= 0 {
		cur.WriteZeros(2)
		cur.WriteUint8(uint8(encoding))
	} else {
		cur.WriteZeros(3)
	}
	cur.WriteUint8(formatVersion)
	cur.WriteUint16(0)
	cur.WriteZeros(2)
	cur.WriteUint32(0)
	cur.WriteZeros(10)
}

// patchContainerHeader fills in the section count and final file size
// once every section has been written.
func patchContainerHeader(cur *binio.Cursor, sections int) {
	cur.Seek(offSectionCount)
	cur.WriteUint16(uint16(sections))
	cur.Seek(offFileSize)
	cur.WriteUint32(uint32(cur.Size()))
}

// writeSection appends a tagged section holding payload and pads the
// container to the section alignment.
func writeSection(cur *binio.Cursor, magic string, payload []byte) {
	cur.Seek(cur.Size())
	cur.WriteBytes([]byte(magic))
	cur.WriteUint32(uint32(len(payload)))
	cur.WriteZeros(8)
	cur.WriteBytes(payload)
	cur.Pad(sectionAlign, sectionPad)
}
