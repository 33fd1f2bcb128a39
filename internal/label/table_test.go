package label

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/robert-malhotra/go-lms/binio"
)

func TestFindGreaterPrime(t *testing.T) {
	cases := []struct{ n, want int }{
		{0, 2},
		{1, 2},
		{2, 3},
		{3, 5},
		{4, 5},
		{5, 7},
		{10, 11},
		{13, 17},
		{100, 101},
		{101, 103},
	}
	for _, c := range cases {
		if got := FindGreaterPrime(c.n); got != c.want {
			t.Errorf("FindGreaterPrime(%d) = %d, want %d", c.n, got, c.want)
		}
	}
}

func TestHash(t *testing.T) {
	if h := Hash(nil); h != 0 {
		t.Fatalf("Hash(nil) = %d, want 0", h)
	}
	if h := Hash([]byte("A")); h != 0x41 {
		t.Fatalf(`Hash("A") = %#x, want 0x41`, h)
	}
	// h("AB") = 0x41*0x492 + 0x42
	if h := Hash([]byte("AB")); h != 0x41*0x492+0x42 {
		t.Fatalf(`Hash("AB") = %#x`, h)
	}
}

func TestBucketIndexSingleBucket(t *testing.T) {
	for _, name := range []string{"", "Yes", "No", "a_long_label_name"} {
		if i := BucketIndex([]byte(name), 1); i != 0 {
			t.Errorf("BucketIndex(%q, 1) = %d, want 0", name, i)
		}
	}
}

func TestPackUnpackRoundTrip(t *testing.T) {
	entries := []Entry{
		{Pos: 0, Label: "Yes"},
		{Pos: 1, Label: "No"},
		{Pos: 2, Label: "Cancel"},
	}

	cur := binio.NewCursor(nil, true)
	if err := Pack(cur, entries, 3); err != nil {
		t.Fatalf("Pack: %v", err)
	}

	if err := cur.Seek(0); err != nil {
		t.Fatal(err)
	}
	got, err := Unpack(cur)
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	want := map[int]string{0: "Yes", 1: "No", 2: "Cancel"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Unpack = %v, want %v", got, want)
	}
}

func TestPackLayout(t *testing.T) {
	cur := binio.NewCursor(nil, true)
	if err := Pack(cur, []Entry{{Pos: 7, Label: "Hi"}}, 1); err != nil {
		t.Fatalf("Pack: %v", err)
	}

	// s32 bucketCount, one bucket header, then the single run.
	if err := cur.Seek(0); err != nil {
		t.Fatal(err)
	}
	bucketCount, _ := cur.ReadInt32()
	entryCount, _ := cur.ReadInt32()
	offset, _ := cur.ReadInt32()
	if bucketCount != 1 || entryCount != 1 || offset != 0x0C {
		t.Fatalf("header = %d buckets, %d entries, offset %#x", bucketCount, entryCount, offset)
	}

	length, _ := cur.ReadUint8()
	name, _ := cur.ReadBytes(int(length))
	pos, _ := cur.ReadInt32()
	if string(name) != "Hi" || pos != 7 {
		t.Fatalf("run = %q at %d", name, pos)
	}
}

func TestPackEmptyTable(t *testing.T) {
	cur := binio.NewCursor(nil, true)
	if err := Pack(cur, nil, 2); err != nil {
		t.Fatalf("Pack: %v", err)
	}

	if err := cur.Seek(0); err != nil {
		t.Fatal(err)
	}
	got, err := Unpack(cur)
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Unpack = %v, want empty", got)
	}
}

func TestPackRejectsBadLabels(t *testing.T) {
	cur := binio.NewCursor(nil, true)

	long := strings.Repeat("x", 256)
	if err := Pack(cur, []Entry{{Pos: 0, Label: long}}, 1); !errors.Is(err, ErrTooLong) {
		t.Fatalf("Pack(long label) = %v, want ErrTooLong", err)
	}
	if err := Pack(cur, []Entry{{Pos: 0, Label: "日本"}}, 1); !errors.Is(err, ErrNonASCII) {
		t.Fatalf("Pack(non-ASCII label) = %v, want ErrNonASCII", err)
	}
}

func TestUnpackRejectsNegativeCounts(t *testing.T) {
	cur := binio.NewCursor(nil, true)
	cur.WriteInt32(-1)
	if err := cur.Seek(0); err != nil {
		t.Fatal(err)
	}
	if _, err := Unpack(cur); !errors.Is(err, ErrBadTable) {
		t.Fatalf("Unpack(negative bucket count) = %v, want ErrBadTable", err)
	}

	cur = binio.NewCursor(nil, true)
	cur.WriteInt32(1)
	cur.WriteInt32(-5)
	cur.WriteInt32(0x0C)
	if err := cur.Seek(0); err != nil {
		t.Fatal(err)
	}
	if _, err := Unpack(cur); !errors.Is(err, ErrBadTable) {
		t.Fatalf("Unpack(negative entry count) = %v, want ErrBadTable", err)
	}
}

func TestUnpackTruncated(t *testing.T) {
	cur := binio.NewCursor(nil, true)
	cur.WriteInt32(1)
	cur.WriteInt32(1)    // one entry
	cur.WriteInt32(0x0C) // run offset past the end of the blob
	if err := cur.Seek(0); err != nil {
		t.Fatal(err)
	}
	if _, err := Unpack(cur); !errors.Is(err, binio.ErrEndOfData) {
		t.Fatalf("Unpack(truncated) = %v, want ErrEndOfData", err)
	}
}
