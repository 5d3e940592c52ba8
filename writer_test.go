package nbt

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type WriterTestSuite struct {
	suite.Suite
}

func TestWriterTestSuite(t *testing.T) {
	suite.Run(t, new(WriterTestSuite))
}

// plainWriter hides the concrete type of its buffer so NewWriter buffers it.
type plainWriter struct{ buf bytes.Buffer }

func (p *plainWriter) Write(b []byte) (int, error) { return p.buf.Write(b) }

func (s *WriterTestSuite) TestBigEndian() {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	s.Require().NoError(err)

	w.WriteTagID(TagShort)
	w.WriteInt16(0x0102)
	w.WriteInt32(-2)
	w.WriteInt64(2137)
	w.WriteFloat32(1)
	w.WriteFloat64(2)
	w.WriteNBTString("ab")
	n, err := w.Result()
	s.Require().NoError(err)

	want := []byte{
		0x02,
		0x01, 0x02,
		0xFF, 0xFF, 0xFF, 0xFE,
		0, 0, 0, 0, 0, 0, 0x08, 0x59,
		0x3F, 0x80, 0x00, 0x00,
		0x40, 0, 0, 0, 0, 0, 0, 0,
		0x00, 0x02, 'a', 'b',
	}
	s.Equal(want, buf.Bytes())
	s.Equal(int64(len(want)), n)
}

func (s *WriterTestSuite) TestConstruction() {
	s.T().Run("Nil", func(t *testing.T) {
		_, err := NewWriter(nil)
		assert.ErrorIs(t, err, ErrNilIO)
	})

	s.T().Run("SmallBufio", func(t *testing.T) {
		bw := bufio.NewWriterSize(&bytes.Buffer{}, 16)
		_, err := NewWriterSize(bw, 4096)
		assert.ErrorIs(t, err, ErrAlreadyBuffered)

		_, err = NewWriterSize(bw, 16)
		assert.NoError(t, err)
	})

	s.T().Run("NestedOnlyOuterFlushes", func(t *testing.T) {
		dst := &plainWriter{}
		outer, err := NewWriter(dst)
		require.NoError(t, err)
		inner, err := NewWriter(outer)
		require.NoError(t, err)

		inner.WriteInt8(7)
		require.NoError(t, inner.Flush())
		assert.Zero(t, dst.buf.Len())

		require.NoError(t, outer.Flush())
		assert.Equal(t, []byte{7}, dst.buf.Bytes())
	})
}

func (s *WriterTestSuite) TestStickyError() {
	bw := NewBytesWriter(make([]byte, 5))
	w, err := NewWriter(bw)
	s.Require().NoError(err)

	w.WriteInt32(1)
	s.NoError(w.Err())

	w.WriteInt32(2)
	s.ErrorIs(w.Err(), io.ErrShortWrite)
	s.Equal(int64(5), w.Count())

	first := w.Err()
	w.WriteInt8(3)
	w.WriteNBTString("more")
	s.Equal(first, w.Err())
	s.Equal(int64(5), w.Count())

	_, err = w.Result()
	s.ErrorIs(err, io.ErrShortWrite)
}

func (s *WriterTestSuite) TestStringTooLong() {
	w, err := NewWriter(&bytes.Buffer{})
	s.Require().NoError(err)
	w.WriteNBTString(strings.Repeat("a", 1<<16))
	s.ErrorIs(w.Err(), ErrStringTooLong)

	// NUL grows to two bytes, so the encoded form overflows first
	w, err = NewWriter(&bytes.Buffer{})
	s.Require().NoError(err)
	w.WriteNBTString(strings.Repeat("\x00", 1<<15))
	s.ErrorIs(w.Err(), ErrStringTooLong)

	w, err = NewWriter(&bytes.Buffer{})
	s.Require().NoError(err)
	w.WriteNBTString(strings.Repeat("a", 1<<16-1))
	s.NoError(w.Err())
}

func (s *WriterTestSuite) TestBytesWriter() {
	bw := NewBytesWriter(make([]byte, 4))
	n, err := bw.Write([]byte{1, 2, 3})
	s.NoError(err)
	s.Equal(3, n)
	s.Equal(1, bw.Available())

	n, err = bw.WriteString("xy")
	s.ErrorIs(err, io.ErrShortWrite)
	s.Equal(1, n)
	s.Equal([]byte{1, 2, 3, 'x'}, bw.Bytes())

	s.ErrorIs(bw.WriteByte(0), io.ErrShortWrite)

	bw.Reset()
	s.Zero(bw.Len())
	s.Equal(4, bw.Size())
}

func (s *WriterTestSuite) TestLargeArray() {
	// longer than the scratch buffer writeArray chunks through
	in := make(LongArray, 1000)
	for i := range in {
		in[i] = int64(i) << 20
	}
	data := encodePayload(s.T(), in)
	s.Len(data, 4+8*len(in))

	got, err := ReadPayload(NewCursor(data), TagLongArray)
	s.Require().NoError(err)
	s.Equal(in, got)
}
