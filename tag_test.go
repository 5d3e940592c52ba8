package nbt

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// sampleCompound holds one entry of every variant that can appear in a compound.
func sampleCompound() *Compound {
	return CompoundOf(
		Entry{"byte", Byte(-3)},
		Entry{"short", Short(300)},
		Entry{"int", Int(1)},
		Entry{"long", Long(2137)},
		Entry{"float", Float(0.5)},
		Entry{"double", Double(-1.25)},
		Entry{"string", String("hi ❤️")},
		Entry{"bytes", ByteArray{0, 1, 0xFF}},
		Entry{"ints", IntArray{1, -1}},
		Entry{"longs", LongArray{1 << 40}},
		Entry{"list", List{Short(1), Short(2), Short(3)}},
		Entry{"empty", List{}},
		Entry{"nested", CompoundOf(Entry{"key", String("value")})},
		Entry{"compounds", List{CompoundOf(Entry{"int", Int(5)}), NewCompound()}},
	)
}

func encodePayload(t *testing.T, tag Tag) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	require.NoError(t, err)
	WritePayload(w, tag)
	_, err = w.Result()
	require.NoError(t, err)
	return buf.Bytes()
}

// nestedLists returns the payload of a list nested depth levels deep.
func nestedLists(depth int) []byte {
	var b []byte
	for range depth - 1 {
		b = append(b, byte(TagList), 0, 0, 0, 1)
	}
	return append(b, byte(TagEnd), 0, 0, 0, 0)
}

type TagTestSuite struct {
	suite.Suite
}

func TestTagTestSuite(t *testing.T) {
	suite.Run(t, new(TagTestSuite))
}

func (s *TagTestSuite) TestPayloadBytes() {
	tests := []struct {
		name string
		tag  Tag
		want []byte
	}{
		{"Long", Long(2137), []byte{0, 0, 0, 0, 0, 0, 0x08, 0x59}},
		{"String", String("How are you?"), append([]byte{0x00, 0x0C}, "How are you?"...)},
		{"Byte", Byte(-1), []byte{0xFF}},
		{"Float", Float(1), []byte{0x3F, 0x80, 0x00, 0x00}},
		{"ByteArray", ByteArray{1, 2}, []byte{0, 0, 0, 2, 1, 2}},
		{"IntArray", IntArray{1}, []byte{0, 0, 0, 1, 0, 0, 0, 1}},
		{"EmptyLongArray", LongArray{}, []byte{0, 0, 0, 0}},
		{"EmptyList", List{}, []byte{byte(TagEnd), 0, 0, 0, 0}},
		{"ShortList", List{Short(7)}, []byte{byte(TagShort), 0, 0, 0, 1, 0, 7}},
		{"EmptyCompound", NewCompound(), []byte{byte(TagEnd)}},
	}

	for _, tt := range tests {
		s.T().Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, encodePayload(t, tt.tag))
			assert.Equal(t, len(tt.want), PayloadSize(tt.tag))
		})
	}
}

func (s *TagTestSuite) TestRoundTrip() {
	sample := sampleCompound()
	tags := map[string]Tag{"compound": sample}
	for name, t := range sample.All() {
		tags[name] = t
	}

	for name, tag := range tags {
		s.T().Run(name, func(t *testing.T) {
			data := encodePayload(t, tag)
			assert.Equal(t, len(data), PayloadSize(tag))

			c := NewCursor(data)
			got, err := ReadPayload(c, tag.ID())
			require.NoError(t, err)
			assert.Equal(t, tag, got)
			assert.False(t, c.HasRemaining())
		})
	}
}

func (s *TagTestSuite) TestNamedTag() {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	s.Require().NoError(err)
	WriteNamedTag(w, "hello", Int(1))
	WriteTag(w, Short(2))
	_, err = w.Result()
	s.Require().NoError(err)

	s.Equal([]byte{0x03, 0x00, 0x05, 'h', 'e', 'l', 'l', 'o', 0, 0, 0, 1, 0x02, 0, 2}, buf.Bytes())

	c := NewCursor(buf.Bytes())
	name, t, err := ReadNamedTag(c)
	s.Require().NoError(err)
	s.Equal("hello", name)
	s.Equal(Int(1), t)

	t, err = ReadTag(c)
	s.Require().NoError(err)
	s.Equal(Short(2), t)

	name, t, err = ReadNamedTag(NewCursor([]byte{0x00}))
	s.Require().NoError(err)
	s.Empty(name)
	s.Equal(End{}, t)
}

func (s *TagTestSuite) TestListHomogeneity() {
	s.T().Run("WriteMixed", func(t *testing.T) {
		w, err := NewWriter(&bytes.Buffer{})
		require.NoError(t, err)
		WritePayload(w, List{Int(1), Short(2)})
		assert.Equal(t, &ListTypeMismatchError{Want: TagInt, Got: TagShort, Index: 1}, w.Err())
	})

	s.T().Run("NewListMixed", func(t *testing.T) {
		_, err := NewList(String("a"), Int(1))
		assert.ErrorIs(t, err, ErrListTypeMismatch)

		l, err := NewList()
		require.NoError(t, err)
		assert.NotNil(t, l)
		assert.Equal(t, TagEnd, l.ElemID())
	})

	s.T().Run("EndElement", func(t *testing.T) {
		_, err := NewList(End{})
		assert.ErrorIs(t, err, ErrUnsupportedType)
	})

	s.T().Run("EndCompoundEntry", func(t *testing.T) {
		c := CompoundOf(Entry{"x", End{}}, Entry{"y", Int(5)})
		var buf bytes.Buffer
		w, err := NewWriter(&buf)
		require.NoError(t, err)
		c.WriteContent(w)
		_, err = w.Result()
		assert.Equal(t, &UnsupportedTypeError{Kind: "End tag as compound entry"}, err)

		_, err = DocumentOf(c).MarshalUnnamed()
		assert.ErrorIs(t, err, ErrUnsupportedType)

		_, err = NewDocument("root", CompoundOf(Entry{"nested", c})).MarshalBinary()
		assert.ErrorIs(t, err, ErrUnsupportedType)
	})

	s.T().Run("ReadEndTypedNonEmpty", func(t *testing.T) {
		_, err := ReadPayload(NewCursor([]byte{byte(TagEnd), 0, 0, 0, 2}), TagList)
		assert.ErrorIs(t, err, ErrListTypeMismatch)
	})

	s.T().Run("ReadNegativeLength", func(t *testing.T) {
		_, err := ReadPayload(NewCursor([]byte{byte(TagInt), 0xFF, 0xFF, 0xFF, 0xFF}), TagList)
		assert.ErrorIs(t, err, ErrNegativeLength)
	})
}

func (s *TagTestSuite) TestUnknownTagID() {
	_, err := ReadPayload(NewCursor(nil), TagID(13))
	s.Equal(&UnknownTagIDError{ID: 13}, err)

	_, err = ReadTag(NewCursor([]byte{0x0D}))
	s.ErrorIs(err, ErrUnknownTagID)

	_, err = ReadPayload(NewCursor([]byte{0x0D, 0, 0, 0, 1}), TagList)
	s.ErrorIs(err, ErrUnknownTagID)

	s.Equal("TagID(13)", TagID(13).String())
	s.Equal("Compound", TagCompound.String())
}

func (s *TagTestSuite) TestTruncated() {
	data := encodePayload(s.T(), sampleCompound())
	for n := 0; n < len(data); n++ {
		_, err := ReadPayload(NewCursor(data[:n]), TagCompound)
		s.Require().Error(err, "prefix of %d bytes", n)
		s.True(errors.Is(err, ErrNotEnoughBytes) || errors.Is(err, ErrNegativeLength), "prefix of %d bytes: %v", n, err)
	}
}

func (s *TagTestSuite) TestHostileLengths() {
	// declared lengths far beyond the input fail before allocating
	for _, id := range []TagID{TagByteArray, TagIntArray, TagLongArray} {
		_, err := ReadPayload(NewCursor([]byte{0x7F, 0xFF, 0xFF, 0xFF, 1, 2}), id)
		s.ErrorIs(err, ErrNotEnoughBytes, id.String())
	}
	_, err := ReadPayload(NewCursor([]byte{byte(TagLong), 0x7F, 0xFF, 0xFF, 0xFF}), TagList)
	s.ErrorIs(err, ErrNotEnoughBytes)
}

func (s *TagTestSuite) TestDepthLimit() {
	s.T().Run("ReadDefault", func(t *testing.T) {
		_, err := ReadPayload(NewCursor(nestedLists(DefaultMaxDepth)), TagList)
		require.NoError(t, err)

		_, err = ReadPayload(NewCursor(nestedLists(DefaultMaxDepth+1)), TagList)
		assert.Equal(t, &DepthLimitError{Limit: DefaultMaxDepth}, err)
	})

	s.T().Run("ReadConfigured", func(t *testing.T) {
		opts := DefaultReadOptions().WithMaxDepth(3)
		_, err := ReadPayloadWith(NewCursor(nestedLists(3)), TagList, opts)
		require.NoError(t, err)

		_, err = ReadPayloadWith(NewCursor(nestedLists(4)), TagList, opts)
		assert.ErrorIs(t, err, ErrDepthLimit)
	})

	s.T().Run("Write", func(t *testing.T) {
		var tag Tag = NewCompound()
		for range 10 {
			tag = CompoundOf(Entry{"c", tag})
		}
		w, err := NewWriter(&bytes.Buffer{})
		require.NoError(t, err)
		w.WithMaxDepth(5)
		WritePayload(w, tag)
		assert.ErrorIs(t, w.Err(), ErrDepthLimit)
	})

	s.T().Run("Skip", func(t *testing.T) {
		c := NewCursor(nestedLists(10))
		assert.ErrorIs(t, skipPayload(c, TagList, 5, 0), ErrDepthLimit)

		c = NewCursor(nestedLists(10))
		require.NoError(t, skipPayload(c, TagList, 10, 0))
		assert.False(t, c.HasRemaining())
	})
}

func (s *TagTestSuite) TestSkipPayload() {
	data := encodePayload(s.T(), sampleCompound())
	c := NewCursor(append(data, 0xAA))
	s.Require().NoError(skipPayload(c, TagCompound, DefaultMaxDepth, 0))
	s.Equal([]byte{0xAA}, c.Bytes())

	_, err := ReadPayload(NewCursor(nil), TagEnd)
	s.NoError(err)
	s.Error(skipPayload(NewCursor([]byte{1, 2}), TagInt, DefaultMaxDepth, 0))
}

func (s *TagTestSuite) TestExtractors() {
	v, ok := AsInt(Int(5))
	s.True(ok)
	s.Equal(int32(5), v)

	_, ok = AsInt(Short(5))
	s.False(ok)

	b, ok := AsBool(Byte(2))
	s.True(ok)
	s.True(b)

	_, ok = AsCompound(nil)
	s.False(ok)

	s.Equal(Byte(1), Bool(true))
	s.Equal(Byte(0), Bool(false))
}
