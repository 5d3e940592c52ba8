package nbt

import (
	"unicode/utf16"
	"unicode/utf8"
)

// Modified UTF-8 differs from UTF-8 in two places: U+0000 is written as the
// two-byte sequence C0 80, and supplementary characters are written as a
// UTF-16 surrogate pair with each half encoded as a three-byte sequence.

// isPlainUTF8 reports whether s has the same bytes in UTF-8 and modified UTF-8.
func isPlainUTF8(s string) bool {
	for i := 0; i < len(s); i++ {
		if b := s[i]; b == 0 || b >= 0xF0 {
			return false
		}
	}
	return utf8.ValidString(s)
}

// mutf8Len returns the encoded length of s in modified UTF-8.
func mutf8Len(s string) int {
	if isPlainUTF8(s) {
		return len(s)
	}
	n := 0
	for _, r := range s {
		switch {
		case r == 0:
			n += 2
		case r < 0x80:
			n++
		case r < 0x800:
			n += 2
		case r < 0x10000:
			n += 3
		default:
			n += 6
		}
	}
	return n
}

// appendMUTF8 appends the modified UTF-8 form of s to dst.
// Invalid UTF-8 in s is replaced by U+FFFD, as range over a string does.
func appendMUTF8(dst []byte, s string) []byte {
	if isPlainUTF8(s) {
		return append(dst, s...)
	}
	for _, r := range s {
		switch {
		case r == 0:
			dst = append(dst, 0xC0, 0x80)
		case r < 0x80:
			dst = append(dst, byte(r))
		case r < 0x800:
			dst = append(dst, 0xC0|byte(r>>6), 0x80|byte(r&0x3F))
		case r < 0x10000:
			dst = appendUnit(dst, r)
		default:
			hi, lo := utf16.EncodeRune(r)
			dst = appendUnit(appendUnit(dst, hi), lo)
		}
	}
	return dst
}

func appendUnit(dst []byte, r rune) []byte {
	return append(dst, 0xE0|byte(r>>12), 0x80|byte((r>>6)&0x3F), 0x80|byte(r&0x3F))
}

// decodeMUTF8 converts modified UTF-8 bytes to a Go string. Only canonical
// encodings are accepted, so every accepted input re-encodes to the same bytes.
func decodeMUTF8(b []byte) (string, error) {
	plain := true
	for _, c := range b {
		if c == 0 || c >= 0x80 {
			plain = false
			break
		}
	}
	if plain {
		return string(b), nil
	}

	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); {
		r, n, ok := decodeUnit(b[i:])
		if !ok {
			return "", ErrInvalidJavaString
		}
		i += n
		switch {
		case utf16.IsSurrogate(r):
			if r >= 0xDC00 {
				return "", ErrInvalidJavaString // lone low surrogate
			}
			lo, m, ok := decodeUnit(b[i:])
			if !ok || lo < 0xDC00 || lo > 0xDFFF {
				return "", ErrInvalidJavaString
			}
			i += m
			out = utf8.AppendRune(out, utf16.DecodeRune(r, lo))
		default:
			out = utf8.AppendRune(out, r)
		}
	}
	return string(out), nil
}

// decodeUnit decodes one 1-3 byte modified UTF-8 sequence into a UTF-16 code unit.
func decodeUnit(b []byte) (rune, int, bool) {
	if len(b) == 0 {
		return 0, 0, false
	}
	c := b[0]
	switch {
	case c == 0:
		return 0, 0, false
	case c < 0x80:
		return rune(c), 1, true
	case c&0xE0 == 0xC0:
		if len(b) < 2 || b[1]&0xC0 != 0x80 {
			return 0, 0, false
		}
		r := rune(c&0x1F)<<6 | rune(b[1]&0x3F)
		if r != 0 && r < 0x80 {
			return 0, 0, false // overlong
		}
		return r, 2, true
	case c&0xF0 == 0xE0:
		if len(b) < 3 || b[1]&0xC0 != 0x80 || b[2]&0xC0 != 0x80 {
			return 0, 0, false
		}
		r := rune(c&0x0F)<<12 | rune(b[1]&0x3F)<<6 | rune(b[2]&0x3F)
		if r < 0x800 {
			return 0, 0, false // overlong
		}
		return r, 3, true
	default:
		return 0, 0, false
	}
}
