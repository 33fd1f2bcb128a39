// Package binio provides an endian-switchable cursor over an in-memory
// byte buffer, used for parsing and building LMS binary containers.
package binio

import (
	"encoding/binary"
	"errors"
	"math"
)

// ErrEndOfData is returned when a read would exceed the buffer. After this
// error the cursor position is unreliable and the caller must not continue
// reading.
var ErrEndOfData = errors.New("read past end of data")

// ErrNegativeOffset is returned by Seek and Skip for negative arguments.
var ErrNegativeOffset = errors.New("negative offset not allowed")

// Cursor is a positioned reader/writer over a growable in-memory buffer.
// Multi-byte primitives honor the cursor's current byte order; single-byte
// operations do not. Writing past the end of the buffer grows it, and a
// forward seek followed by a write zero-fills the gap.
//
// A Cursor is not safe for concurrent use; each encode or decode call owns
// exactly one cursor.
type Cursor struct {
	buf       []byte
	pos       int
	bigEndian bool
}

// NewCursor creates a cursor over data with the given byte order. The
// buffer is not copied.
func NewCursor(data []byte, bigEndian bool) *Cursor {
	return &Cursor{buf: data, bigEndian: bigEndian}
}

// SetBigEndian forces big endian byte order for subsequent multi-byte
// primitives.
func (c *Cursor) SetBigEndian() { c.bigEndian = true }

// SetLittleEndian forces little endian byte order for subsequent multi-byte
// primitives.
func (c *Cursor) SetLittleEndian() { c.bigEndian = false }

// SwapEndian flips the current byte order.
func (c *Cursor) SwapEndian() { c.bigEndian = !c.bigEndian }

// IsBigEndian reports whether the cursor reads and writes big endian.
func (c *Cursor) IsBigEndian() bool { return c.bigEndian }

// order returns the active byte order.
func (c *Cursor) order() binary.ByteOrder {
	if c.bigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// Tell returns the current position.
func (c *Cursor) Tell() int { return c.pos }

// Size returns the current buffer length.
func (c *Cursor) Size() int { return len(c.buf) }

// Bytes returns the underlying buffer. The slice is shared with the
// cursor, not copied.
func (c *Cursor) Bytes() []byte { return c.buf }

// Seek sets the position. Seeking past the end is allowed; the gap is
// zero-filled by the next write.
func (c *Cursor) Seek(pos int) error {
	if pos < 0 {
		return ErrNegativeOffset
	}
	c.pos = pos
	return nil
}

// Skip advances the position by n bytes. Negative values are not allowed.
func (c *Cursor) Skip(n int) error {
	if n < 0 {
		return ErrNegativeOffset
	}
	c.pos += n
	return nil
}

// ReadBytes reads exactly n bytes from the current position. The returned
// slice is a copy.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrNegativeOffset
	}
	if c.pos+n > len(c.buf) {
		return nil, ErrEndOfData
	}
	out := make([]byte, n)
	copy(out, c.buf[c.pos:])
	c.pos += n
	return out, nil
}

// read returns a view of the next n bytes without copying.
func (c *Cursor) read(n int) ([]byte, error) {
	if c.pos+n > len(c.buf) {
		return nil, ErrEndOfData
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// WriteBytes writes data at the current position, growing the buffer as
// needed.
func (c *Cursor) WriteBytes(data []byte) {
	end := c.pos + len(data)
	if end > len(c.buf) {
		old := len(c.buf)
		if end > cap(c.buf) {
			grown := make([]byte, end, end+end/2)
			copy(grown, c.buf)
			c.buf = grown
		} else {
			c.buf = c.buf[:end]
			// A forward seek may leave a gap of stale capacity bytes.
			for i := old; i < c.pos; i++ {
				c.buf[i] = 0
			}
		}
	}
	copy(c.buf[c.pos:], data)
	c.pos = end
}

// WriteZeros writes n zero bytes.
func (c *Cursor) WriteZeros(n int) {
	if n <= 0 {
		return
	}
	c.WriteBytes(make([]byte, n))
}

// Pad appends fill bytes until the buffer length is a multiple of
// alignment. Padding is written at the end of the buffer, not at the
// cursor position.
func (c *Cursor) Pad(alignment int, fill byte) {
	if alignment <= 1 {
		return
	}
	remainder := len(c.buf) % alignment
	if remainder == 0 {
		return
	}
	c.pos = len(c.buf)
	pad := make([]byte, alignment-remainder)
	for i := range pad {
		pad[i] = fill
	}
	c.WriteBytes(pad)
}

// ReadUint8 reads an unsigned 8-bit integer.
func (c *Cursor) ReadUint8() (uint8, error) {
	b, err := c.read(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadInt8 reads a signed 8-bit integer.
func (c *Cursor) ReadInt8() (int8, error) {
	v, err := c.ReadUint8()
	return int8(v), err
}

// ReadBool reads a single byte and reports whether it is nonzero.
func (c *Cursor) ReadBool() (bool, error) {
	v, err := c.ReadUint8()
	return v != 0, err
}

// ReadUint16 reads an unsigned 16-bit integer in the current byte order.
func (c *Cursor) ReadUint16() (uint16, error) {
	b, err := c.read(2)
	if err != nil {
		return 0, err
	}
	return c.order().Uint16(b), nil
}

// ReadInt16 reads a signed 16-bit integer in the current byte order.
func (c *Cursor) ReadInt16() (int16, error) {
	v, err := c.ReadUint16()
	return int16(v), err
}

// ReadUint32 reads an unsigned 32-bit integer in the current byte order.
func (c *Cursor) ReadUint32() (uint32, error) {
	b, err := c.read(4)
	if err != nil {
		return 0, err
	}
	return c.order().Uint32(b), nil
}

// ReadInt32 reads a signed 32-bit integer in the current byte order.
func (c *Cursor) ReadInt32() (int32, error) {
	v, err := c.ReadUint32()
	return int32(v), err
}

// ReadUint64 reads an unsigned 64-bit integer in the current byte order.
func (c *Cursor) ReadUint64() (uint64, error) {
	b, err := c.read(8)
	if err != nil {
		return 0, err
	}
	return c.order().Uint64(b), nil
}

// ReadInt64 reads a signed 64-bit integer in the current byte order.
func (c *Cursor) ReadInt64() (int64, error) {
	v, err := c.ReadUint64()
	return int64(v), err
}

// ReadFloat32 reads an IEEE 754 single-precision float.
func (c *Cursor) ReadFloat32() (float32, error) {
	v, err := c.ReadUint32()
	return math.Float32frombits(v), err
}

// ReadFloat64 reads an IEEE 754 double-precision float.
func (c *Cursor) ReadFloat64() (float64, error) {
	v, err := c.ReadUint64()
	return math.Float64frombits(v), err
}

// WriteUint8 writes an unsigned 8-bit integer.
func (c *Cursor) WriteUint8(v uint8) {
	c.WriteBytes([]byte{v})
}

// WriteInt8 writes a signed 8-bit integer.
func (c *Cursor) WriteInt8(v int8) {
	c.WriteUint8(uint8(v))
}

// WriteBool writes a bool as a single byte.
func (c *Cursor) WriteBool(v bool) {
	if v {
		c.WriteUint8(1)
	} else {
		c.WriteUint8(0)
	}
}

// WriteUint16 writes an unsigned 16-bit integer in the current byte order.
func (c *Cursor) WriteUint16(v uint16) {
	var b [2]byte
	c.order().PutUint16(b[:], v)
	c.WriteBytes(b[:])
}

// WriteInt16 writes a signed 16-bit integer in the current byte order.
func (c *Cursor) WriteInt16(v int16) {
	c.WriteUint16(uint16(v))
}

// WriteUint32 writes an unsigned 32-bit integer in the current byte order.
func (c *Cursor) WriteUint32(v uint32) {
	var b [4]byte
	c.order().PutUint32(b[:], v)
	c.WriteBytes(b[:])
}

// WriteInt32 writes a signed 32-bit integer in the current byte order.
func (c *Cursor) WriteInt32(v int32) {
	c.WriteUint32(uint32(v))
}

// WriteUint64 writes an unsigned 64-bit integer in the current byte order.
func (c *Cursor) WriteUint64(v uint64) {
	var b [8]byte
	c.order().PutUint64(b[:], v)
	c.WriteBytes(b[:])
}

// WriteInt64 writes a signed 64-bit integer in the current byte order.
func (c *Cursor) WriteInt64(v int64) {
	c.WriteUint64(uint64(v))
}

// WriteFloat32 writes an IEEE 754 single-precision float.
func (c *Cursor) WriteFloat32(v float32) {
	c.WriteUint32(math.Float32bits(v))
}

// WriteFloat64 writes an IEEE 754 double-precision float.
func (c *Cursor) WriteFloat64(v float64) {
	c.WriteUint64(math.Float64bits(v))
}
