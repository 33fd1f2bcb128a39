package lms

import (
	"errors"
	"testing"

	"github.com/robert-malhotra/go-lms/binio"
)

func TestTextRoundTripPerCharset(t *testing.T) {
	texts := []string{
		"",
		"plain ascii",
		"accents éàü and kana こんにちは",
		"beyond the BMP 😀🎮",
		`escaped \[bracket\] and \\ backslash`,
	}

	for _, charset := range []Charset{CharsetUTF8, CharsetUTF16BE, CharsetUTF16LE} {
		ad := &gameAdapter{}
		for _, text := range texts {
			cur := binio.NewCursor(nil, true)
			if err := writeText(cur, ad, charset, text); err != nil {
				t.Fatalf("%s: writeText(%q): %v", charset, text, err)
			}
			if err := cur.Seek(0); err != nil {
				t.Fatal(err)
			}
			got, err := readText(cur, ad, charset)
			if err != nil {
				t.Fatalf("%s: readText(%q): %v", charset, text, err)
			}
			if got != text {
				t.Errorf("%s: round trip %q -> %q", charset, text, got)
			}
		}
		if ad.tagWrites != 0 || ad.tagReads != 0 {
			t.Errorf("%s: escaped text reached the tag codec (%d writes, %d reads)",
				charset, ad.tagWrites, ad.tagReads)
		}
	}
}

func TestTextTagHandOff(t *testing.T) {
	ad := &gameAdapter{}
	cur := binio.NewCursor(nil, true)

	if err := writeText(cur, ad, CharsetUTF16BE, "pick [2.7:C0FFEE] up"); err != nil {
		t.Fatalf("writeText: %v", err)
	}
	if ad.tagWrites != 1 {
		t.Fatalf("tagWrites = %d, want 1", ad.tagWrites)
	}

	if err := cur.Seek(0); err != nil {
		t.Fatal(err)
	}
	got, err := readText(cur, ad, CharsetUTF16BE)
	if err != nil {
		t.Fatalf("readText: %v", err)
	}
	if got != "pick [2.7:C0FFEE] up" {
		t.Fatalf("readText = %q", got)
	}
	if ad.tagReads != 1 {
		t.Fatalf("tagReads = %d, want 1", ad.tagReads)
	}
}

func TestWriteTextSyntaxErrors(t *testing.T) {
	cases := []struct {
		text string
		want error
	}{
		{"closer ] without opener", ErrUnbalancedBracket},
		{"opener [2.7 without closer", ErrUnterminatedTag},
		{`trailing escape \`, ErrDanglingEscape},
	}
	for _, c := range cases {
		cur := binio.NewCursor(nil, true)
		if err := writeText(cur, &gameAdapter{}, CharsetUTF16BE, c.text); !errors.Is(err, c.want) {
			t.Errorf("writeText(%q) = %v, want %v", c.text, err, c.want)
		}
	}
}

func TestReadTextMissingTerminator(t *testing.T) {
	cur := binio.NewCursor(nil, true)
	if err := writeChars(cur, CharsetUTF16BE, "no null"); err != nil {
		t.Fatal(err)
	}
	if err := cur.Seek(0); err != nil {
		t.Fatal(err)
	}
	if _, err := readText(cur, &gameAdapter{}, CharsetUTF16BE); !errors.Is(err, ErrEndOfData) {
		t.Fatalf("readText = %v, want ErrEndOfData", err)
	}
}

func TestWriteTextBadCharset(t *testing.T) {
	cur := binio.NewCursor(nil, true)
	if err := writeText(cur, &gameAdapter{}, "latin-1", "x"); !errors.Is(err, ErrBadCharset) {
		t.Fatalf("writeText = %v, want ErrBadCharset", err)
	}
}
