package lms

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/robert-malhotra/go-lms/binio"
)

// gameAdapter is the game profile the tests run against. Tags use a
// generic u16 group, u16 kind, u16 length payload rendered as
// "[group.kind:HEX]"; attribute records are a fixed pair of u32 fields.
type gameAdapter struct {
	BaseAdapter

	charset      Charset
	littleEndian bool
	fixedBuckets bool
	flowcharts   bool
	attributes   bool
	styles       bool

	tagReads  int
	tagWrites int
}

func (a *gameAdapter) Charset() Charset {
	if a.charset != "" {
		return a.charset
	}
	return CharsetUTF16BE
}

func (a *gameAdapter) IsBigEndian() bool { return !a.littleEndian }

func (a *gameAdapter) UsesFixedBucketCount() bool { return a.fixedBuckets }

func (a *gameAdapter) SupportsFlowcharts() bool { return a.flowcharts }

func (a *gameAdapter) ReadTag(cur *binio.Cursor) (string, error) {
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

	a.tagReads++
	if len(data) == 0 {
		return fmt.Sprintf("[%d.%d]", group, kind), nil
	}
	return fmt.Sprintf("[%d.%d:%X]", group, kind, data), nil
}

func (a *gameAdapter) WriteTag(cur *binio.Cursor, body string) error {
	ids, rawData, hasData := strings.Cut(body, ":")
	rawGroup, rawKind, ok := strings.Cut(ids, ".")
	if !ok {
		return fmt.Errorf("tag %q: missing kind", body)
	}
	group, err := strconv.ParseUint(rawGroup, 10, 16)
	if err != nil {
		return fmt.Errorf("tag %q: %w", body, err)
	}
	kind, err := strconv.ParseUint(rawKind, 10, 16)
	if err != nil {
		return fmt.Errorf("tag %q: %w", body, err)
	}
	var data []byte
	if hasData {
		if data, err = hex.DecodeString(rawData); err != nil {
			return fmt.Errorf("tag %q: %w", body, err)
		}
	}

	cur.WriteUint16(uint16(group))
	cur.WriteUint16(uint16(kind))
	cur.WriteUint16(uint16(len(data)))
	cur.WriteBytes(data)
	a.tagWrites++
	return nil
}

func (a *gameAdapter) SupportsAttributes() bool { return a.attributes }

func (a *gameAdapter) AttributesByteSize() int { return 8 }

func (a *gameAdapter) CreateDefaultAttributes() Attributes {
	return Attributes{"sound": uint32(0), "camera": uint32(0)}
}

func (a *gameAdapter) ParseAttributes(cur *binio.Cursor, _, _ int) (Attributes, error) {
	sound, err := cur.ReadUint32()
	if err != nil {
		return nil, err
	}
	camera, err := cur.ReadUint32()
	if err != nil {
		return nil, err
	}
	return Attributes{"sound": sound, "camera": camera}, nil
}

func (a *gameAdapter) WriteAttributes(cur *binio.Cursor, attrs Attributes) error {
	sound, _ := attrs["sound"].(uint32)
	camera, _ := attrs["camera"].(uint32)
	cur.WriteUint32(sound)
	cur.WriteUint32(camera)
	return nil
}

func (a *gameAdapter) SupportsStyles() bool { return a.styles }

func (a *gameAdapter) CreateDefaultStyle() int {
	if a.styles {
		return 0
	}
	return -1
}
