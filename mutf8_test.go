package nbt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModifiedUTF8(t *testing.T) {
	tests := []struct {
		name string
		str  string
		want []byte
	}{
		{"Empty", "", []byte{}},
		{"ASCII", "How are you?", []byte("How are you?")},
		{"NUL", "a\x00b", []byte{'a', 0xC0, 0x80, 'b'}},
		{"TwoByte", "é", []byte{0xC3, 0xA9}},
		{"ThreeByte", "€", []byte{0xE2, 0x82, 0xAC}},
		{"Heart", "hi ❤️", []byte("hi ❤️")},
		{"Supplementary", "😀", []byte{0xED, 0xA0, 0xBD, 0xED, 0xB8, 0x80}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := appendMUTF8(nil, tt.str)
			assert.Equal(t, tt.want, append([]byte{}, got...))
			assert.Equal(t, len(tt.want), mutf8Len(tt.str))

			back, err := decodeMUTF8(tt.want)
			require.NoError(t, err)
			assert.Equal(t, tt.str, back)
		})
	}
}

func TestModifiedUTF8Rejects(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
	}{
		{"RawNUL", []byte{'a', 0x00}},
		{"OverlongASCII", []byte{0xC0, 0x81}},
		{"OverlongThreeByte", []byte{0xE0, 0x80, 0x80}},
		{"LoneLowSurrogate", []byte{0xED, 0xB0, 0x80}},
		{"HighSurrogateThenASCII", []byte{0xED, 0xA0, 0xBD, 'a'}},
		{"TruncatedSequence", []byte{0xE2, 0x82}},
		{"FourByteUTF8", []byte{0xF0, 0x9F, 0x98, 0x80}},
		{"BadContinuation", []byte{0xC3, 0x29}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeMUTF8(tt.in)
			assert.ErrorIs(t, err, ErrInvalidJavaString)
		})
	}
}

func TestStringRoundTripThroughCursor(t *testing.T) {
	for _, str := range []string{"", "plain", "nul\x00inside", "emoji 😀 and € and é", strings.Repeat("ab", 1000)} {
		w := NewBytesWriter(make([]byte, 2+mutf8Len(str)))
		bw, err := NewWriter(w)
		require.NoError(t, err)
		bw.WriteNBTString(str)
		_, err = bw.Result()
		require.NoError(t, err)

		got, err := NewCursor(w.Bytes()).String()
		require.NoError(t, err)
		assert.Equal(t, str, got)
	}
}
