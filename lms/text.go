package lms

import (
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"

	"github.com/robert-malhotra/go-lms/binio"
)

// Text control code points. A tag character hands off to the adapter's
// tag reader; a null terminates the text.
const (
	charNull = 0x0000
	charTag  = 0x000E
)

// readChar decodes one character from the cursor in the given charset.
// The 16-bit charsets pair surrogates into a single rune.
func readChar(cur *binio.Cursor, charset Charset) (rune, error) {
	switch charset {
	case CharsetUTF8:
		first, err := cur.ReadUint8()
		if err != nil {
			return 0, err
		}
		var extra int
		switch {
		case first >= 0xF0:
			extra = 3
		case first >= 0xE0:
			extra = 2
		case first >= 0xC0:
			extra = 1
		}
		if extra == 0 {
			return rune(first), nil
		}
		rest, err := cur.ReadBytes(extra)
		if err != nil {
			return 0, err
		}
		r, _ := utf8.DecodeRune(append([]byte{first}, rest...))
		return r, nil

	case CharsetUTF16BE, CharsetUTF16LE:
		unit, err := readUnit16(cur, charset)
		if err != nil {
			return 0, err
		}
		if unit < 0xD800 || unit >= 0xE000 {
			return rune(unit), nil
		}
		second, err := readUnit16(cur, charset)
		if err != nil {
			return 0, err
		}
		return utf16.DecodeRune(rune(unit), rune(second)), nil

	default:
		return 0, fmt.Errorf("%w: %q", ErrBadCharset, charset)
	}
}

// readUnit16 reads one 16-bit code unit in the charset's byte order.
func readUnit16(cur *binio.Cursor, charset Charset) (uint16, error) {
	b, err := cur.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	if charset == CharsetUTF16BE {
		return uint16(b[0])<<8 | uint16(b[1]), nil
	}
	return uint16(b[1])<<8 | uint16(b[0]), nil
}

// writeChars encodes a raw run of characters in the given charset and
// writes it to the cursor.
func writeChars(cur *binio.Cursor, charset Charset, s string) error {
	switch charset {
	case CharsetUTF8:
		cur.WriteBytes([]byte(s))
		return nil
	case CharsetUTF16BE, CharsetUTF16LE:
		endian := unicode.BigEndian
		if charset == CharsetUTF16LE {
			endian = unicode.LittleEndian
		}
		enc := unicode.UTF16(endian, unicode.IgnoreBOM).NewEncoder()
		raw, err := enc.Bytes([]byte(s))
		if err != nil {
			return fmt.Errorf("encoding text: %w", err)
		}
		cur.WriteBytes(raw)
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrBadCharset, charset)
	}
}

// readText reads a null-terminated text from the cursor. Tag characters
// delegate to the adapter, which returns a bracketed placeholder; the
// literal characters '[', ']' and '\' are escaped with a backslash so
// the placeholder syntax stays unambiguous.
func readText(cur *binio.Cursor, ad Adapter, charset Charset) (string, error) {
	var sb strings.Builder

	for {
		ch, err := readChar(cur, charset)
		if err != nil {
			return "", err
		}

		switch ch {
		case charNull:
			return sb.String(), nil
		case charTag:
			tag, err := ad.ReadTag(cur)
			if err != nil {
				return "", err
			}
			sb.WriteString(tag)
		case '[':
			sb.WriteString(`\[`)
		case ']':
			sb.WriteString(`\]`)
		case '\\':
			sb.WriteString(`\\`)
		default:
			sb.WriteRune(ch)
		}
	}
}

// writeText writes a text to the cursor and null-terminates it. An
// unescaped bracket pair delimits a tag placeholder whose body is handed
// to the adapter's tag writer; a backslash makes the following character
// literal.
func writeText(cur *binio.Cursor, ad Adapter, charset Charset, text string) error {
	runes := []rune(text)

	// tagStart holds the rune index one past the opening bracket; zero
	// means no tag span is open.
	tagStart := 0
	escape := false

	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch {
		case escape:
			if err := writeChars(cur, charset, string(ch)); err != nil {
				return err
			}
			escape = false
		case ch == '\\':
			escape = true
		case ch == ']':
			if tagStart == 0 {
				return fmt.Errorf("%w at index %d", ErrUnbalancedBracket, i)
			}
			if err := writeChars(cur, charset, "\x0E"); err != nil {
				return err
			}
			if err := ad.WriteTag(cur, string(runes[tagStart:i])); err != nil {
				return err
			}
			tagStart = 0
		case ch == '[':
			tagStart = i + 1
		case tagStart == 0:
			if err := writeChars(cur, charset, string(ch)); err != nil {
				return err
			}
		}
	}

	if tagStart > 0 {
		return ErrUnterminatedTag
	}
	if escape {
		return ErrDanglingEscape
	}

	return writeChars(cur, charset, "\x00")
}
