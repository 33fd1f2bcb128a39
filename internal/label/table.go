// Package label implements the hash-table index that binds entry
// positions to their textual labels in LMS containers. The same blob
// layout backs the LBL1 section of message tables and the FEN1 section
// of flowcharts.
package label

import (
	"errors"
	"fmt"

	"github.com/robert-malhotra/go-lms/binio"
)

// Errors
var (
	ErrTooLong  = errors.New("label longer than 255 bytes")
	ErrNonASCII = errors.New("label contains non-ASCII characters")
	ErrBadTable = errors.New("malformed label hash table")
)

// Entry binds a label to the position of the entry it names.
type Entry struct {
	Pos   int
	Label string
}

// Hash computes the rolling label hash used for bucket assignment.
func Hash(label []byte) uint32 {
	var h uint32
	for _, b := range label {
		h = h*0x492 + uint32(b)
	}
	return h
}

// BucketIndex returns the bucket the label belongs to among bucketCount
// buckets.
func BucketIndex(label []byte, bucketCount int) int {
	return int(Hash(label) % uint32(bucketCount))
}

// FindGreaterPrime returns the smallest prime strictly greater than n,
// using 6k±1 trial division.
func FindGreaterPrime(n int) int {
	if n < 5 {
		if n < 2 {
			return 2
		}
		if n == 2 {
			// Needed because of the "n % 3" test below.
			return 3
		}
		// 3 and 4 skip to 5 because of the "n % 5" test below.
		return 5
	}

	// Start at the next odd number.
	if n&1 == 1 {
		n += 2
	} else {
		n++
	}

	for {
		if n%3 == 0 || n%5 == 0 {
			n += 2
			continue
		}

		prime := true
		for i := 5; i*i <= n && prime; i += 6 {
			if n%i == 0 || n%(i+2) == 0 {
				prime = false
			}
		}

		if prime {
			return n
		}
		n += 2
	}
}

// checkLabel validates that a label is pure ASCII and at most 255 bytes.
func checkLabel(name string) ([]byte, error) {
	for i := 0; i < len(name); i++ {
		if name[i] > 0x7F {
			return nil, fmt.Errorf("label %q: %w", name, ErrNonASCII)
		}
	}
	if len(name) > 255 {
		return nil, fmt.Errorf("label %q: %w", name, ErrTooLong)
	}
	return []byte(name), nil
}

// Pack partitions the entries into bucketCount buckets and writes the
// hash-table blob at the cursor. Offsets inside the blob are relative to
// the cursor position on entry, which is expected to be 0 (each section
// is built on its own cursor).
func Pack(cur *binio.Cursor, entries []Entry, bucketCount int) error {
	type record struct {
		name []byte
		pos  int
	}
	buckets := make([][]record, bucketCount)

	cur.WriteInt32(int32(bucketCount))

	for _, e := range entries {
		name, err := checkLabel(e.Label)
		if err != nil {
			return err
		}
		i := BucketIndex(name, bucketCount)
		buckets[i] = append(buckets[i], record{name, e.Pos})
	}

	// Bucket headers interleave with the label runs they point at: each
	// header is written in place, then the cursor jumps to the run area,
	// writes the records, and jumps back for the next header.
	offLabels := 0x04 + bucketCount*0x08

	for _, bucket := range buckets {
		cur.WriteInt32(int32(len(bucket)))
		cur.WriteInt32(int32(offLabels))
		next := cur.Tell()

		if err := cur.Seek(offLabels); err != nil {
			return err
		}
		for _, rec := range bucket {
			cur.WriteUint8(uint8(len(rec.name)))
			cur.WriteBytes(rec.name)
			cur.WriteInt32(int32(rec.pos))
		}
		offLabels = cur.Tell()

		if err := cur.Seek(next); err != nil {
			return err
		}
	}

	return nil
}

// Unpack reads a hash-table blob at the cursor and returns the mapping
// of entry position to label. Bucket offsets are honored as written; no
// ordering or contiguity beyond them is assumed.
func Unpack(cur *binio.Cursor) (map[int]string, error) {
	start := cur.Tell()

	bucketCount, err := cur.ReadInt32()
	if err != nil {
		return nil, err
	}
	if bucketCount < 0 {
		return nil, fmt.Errorf("%w: negative bucket count %d", ErrBadTable, bucketCount)
	}
	offBuckets := cur.Tell()

	labels := make(map[int]string)

	for i := 0; i < int(bucketCount); i++ {
		if err := cur.Seek(offBuckets + i*0x08); err != nil {
			return nil, err
		}
		entryCount, err := cur.ReadInt32()
		if err != nil {
			return nil, err
		}
		offLabels, err := cur.ReadInt32()
		if err != nil {
			return nil, err
		}
		if entryCount < 0 || offLabels < 0 {
			return nil, fmt.Errorf("%w: bucket %d", ErrBadTable, i)
		}

		if err := cur.Seek(start + int(offLabels)); err != nil {
			return nil, err
		}
		for j := 0; j < int(entryCount); j++ {
			length, err := cur.ReadUint8()
			if err != nil {
				return nil, err
			}
			name, err := cur.ReadBytes(int(length))
			if err != nil {
				return nil, err
			}
			pos, err := cur.ReadInt32()
			if err != nil {
				return nil, err
			}
			labels[int(pos)] = string(name)
		}
	}

	return labels, nil
}
