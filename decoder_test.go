package nbt

import (
	"testing"

	"github.com/oy3o/nbt/serde"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type DecoderTestSuite struct {
	suite.Suite
}

func TestDecoderTestSuite(t *testing.T) {
	suite.Run(t, new(DecoderTestSuite))
}

func networkBytes(t *testing.T, c *Compound) []byte {
	t.Helper()
	data, err := DocumentOf(c).MarshalUnnamed()
	require.NoError(t, err)
	return data
}

func (s *DecoderTestSuite) TestStructRoundTrip() {
	want := basicValue()
	data, err := MarshalUnnamed(want)
	s.Require().NoError(err)

	var got basic
	s.Require().NoError(UnmarshalUnnamed(data, &got))
	s.Equal(want, got)
}

func (s *DecoderTestSuite) TestEmptySequences() {
	data := networkBytes(s.T(), CompoundOf(
		Entry{"sub_vec", List{}},
		Entry{"array", IntArray{}},
		Entry{"list", List{}},
	))

	var got basic
	s.Require().NoError(UnmarshalUnnamed(data, &got))
	s.NotNil(got.SubVec)
	s.Empty(got.SubVec)
	s.NotNil(got.Array)
	s.Empty(got.Array)
	s.NotNil(got.List)
}

func (s *DecoderTestSuite) TestNamedRoot() {
	data, err := MarshalNamed("a fairly long root name", inner{Int: 9})
	s.Require().NoError(err)

	var got inner
	s.Require().NoError(Unmarshal(data, &got))
	s.Equal(int32(9), got.Int)
}

func (s *DecoderTestSuite) TestNoRootCompound() {
	var got inner
	err := UnmarshalUnnamed([]byte{byte(TagInt), 0, 0, 0, 1}, &got)
	s.Equal(&NoRootCompoundError{ID: TagInt}, err)

	err = Unmarshal(nil, &got)
	s.ErrorIs(err, ErrNotEnoughBytes)
}

func (s *DecoderTestSuite) TestBool() {
	type flags struct {
		Flag  bool  `nbt:"flag"`
		After int32 `nbt:"after"`
	}

	tests := []struct {
		name string
		tag  Tag
		want bool
	}{
		{"Zero", Byte(0), false},
		{"One", Byte(1), true},
		{"Nonzero", Byte(-7), true},
		{"Int", Int(7), false},
		{"String", String("true"), false},
		{"Compound", CompoundOf(Entry{"x", Byte(1)}), false},
		{"List", List{Byte(1)}, false},
	}
	for _, tt := range tests {
		s.T().Run(tt.name, func(t *testing.T) {
			data := networkBytes(t, CompoundOf(Entry{"flag", tt.tag}, Entry{"after", Int(42)}))

			got := flags{Flag: !tt.want}
			require.NoError(t, UnmarshalUnnamed(data, &got))
			assert.Equal(t, tt.want, got.Flag)
			assert.Equal(t, int32(42), got.After, "decoding must stay aligned after the bool")
		})
	}
}

func (s *DecoderTestSuite) TestOptionalBool() {
	type style struct {
		Bold *bool `nbt:"bold"`
	}
	type text struct {
		style
		Text string `nbt:"text"`
	}

	data := networkBytes(s.T(), CompoundOf(Entry{"bold", Byte(0)}, Entry{"text", String("hi")}))
	var got text
	s.Require().NoError(UnmarshalUnnamed(data, &got))
	s.Equal(Ptr(false), got.Bold)
	s.Equal("hi", got.Text)

	out, err := MarshalUnnamed(text{Text: "hi"})
	s.Require().NoError(err)
	doc, err := ReadUnnamed(out)
	s.Require().NoError(err)
	s.False(doc.Root.Has("bold"))
}

func (s *DecoderTestSuite) TestUnknownFieldsSkipped() {
	extra := sampleCompound()
	data := networkBytes(s.T(), CompoundOf(
		Entry{"skip", extra},
		Entry{"skip_list", List{extra, NewCompound()}},
		Entry{"skip_longs", LongArray{1, 2, 3}},
		Entry{"int", Int(77)},
		Entry{"tail", String("ignored")},
	))

	var got inner
	s.Require().NoError(UnmarshalUnnamed(data, &got))
	s.Equal(int32(77), got.Int)

	// nothing is left over once the root is drained
	dec := NewNetworkDecoder(data)
	s.Require().NoError(dec.Decode(&got))
	s.Zero(dec.Remaining())
}

func (s *DecoderTestSuite) TestDuplicateFieldFirstWins() {
	data := []byte{
		0x0A,
		0x03, 0x00, 0x03, 'i', 'n', 't', 0, 0, 0, 1,
		0x03, 0x00, 0x03, 'i', 'n', 't', 0, 0, 0, 2,
		0x00,
	}

	var got inner
	s.Require().NoError(UnmarshalUnnamed(data, &got))
	s.Equal(int32(1), got.Int)

	doc, err := ReadUnnamed(data)
	s.Require().NoError(err)
	v, _ := doc.Root.GetInt("int")
	s.Equal(got.Int, v)
}

func (s *DecoderTestSuite) TestIntoTags() {
	sample := sampleCompound()
	data := networkBytes(s.T(), sample)

	s.T().Run("Compound", func(t *testing.T) {
		var got *Compound
		require.NoError(t, UnmarshalUnnamed(data, &got))
		assert.Equal(t, sample, got)
	})

	s.T().Run("Tag", func(t *testing.T) {
		var got Tag
		require.NoError(t, UnmarshalUnnamed(data, &got))
		assert.Equal(t, sample, got)
	})

	s.T().Run("Document", func(t *testing.T) {
		var got Document
		require.NoError(t, UnmarshalUnnamed(data, &got))
		assert.Equal(t, sample, got.Root)
	})

	s.T().Run("MapOfTags", func(t *testing.T) {
		var got map[string]Tag
		require.NoError(t, UnmarshalUnnamed(data, &got))
		assert.Len(t, got, sample.Len())
		assert.Equal(t, IntArray{1, -1}, got["ints"])
		assert.Equal(t, ByteArray{0, 1, 0xFF}, got["bytes"])
		assert.Equal(t, List{}, got["empty"])
	})

	s.T().Run("StructWithTagFields", func(t *testing.T) {
		type mixed struct {
			Nested *Compound `nbt:"nested"`
			Any    Tag       `nbt:"list"`
			Longs  LongArray `nbt:"longs"`
		}
		var got mixed
		require.NoError(t, UnmarshalUnnamed(data, &got))
		v, _ := got.Nested.GetString("key")
		assert.Equal(t, "value", v)
		assert.Equal(t, List{Short(1), Short(2), Short(3)}, got.Any)
		assert.Equal(t, LongArray{1 << 40}, got.Longs)
	})
}

func (s *DecoderTestSuite) TestIntoAny() {
	data := networkBytes(s.T(), networkSample())

	var got map[string]any
	s.Require().NoError(UnmarshalUnnamed(data, &got))
	s.Equal(map[string]any{
		"int":    int32(1),
		"nested": map[string]any{"key": "value"},
	}, got)

	var v any
	s.Require().NoError(UnmarshalUnnamed(networkBytes(s.T(), CompoundOf(Entry{"l", List{Byte(1)}})), &v))
	s.Equal(map[string]any{"l": []any{int8(1)}}, v)
}

func (s *DecoderTestSuite) TestPackedArrays() {
	type arrays struct {
		Bytes []byte  `nbt:"bytes"`
		Ints  []int32 `nbt:"ints"`
		Longs []int64 `nbt:"longs"`
		Fixed [2]int32
	}
	data := networkBytes(s.T(), CompoundOf(
		Entry{"bytes", ByteArray{0, 1, 0xFF}},
		Entry{"ints", IntArray{1, -1}},
		Entry{"longs", LongArray{1 << 40}},
		Entry{"Fixed", IntArray{3, 4}},
	))

	var got arrays
	s.Require().NoError(UnmarshalUnnamed(data, &got))
	s.Equal([]byte{0, 1, 0xFF}, got.Bytes)
	s.Equal([]int32{1, -1}, got.Ints)
	s.Equal([]int64{1 << 40}, got.Longs)
	s.Equal([2]int32{3, 4}, got.Fixed)

	// a list of the matching scalar fills a packed array type too
	data = networkBytes(s.T(), CompoundOf(Entry{"array", List{Int(8), Int(9)}}))
	var b basic
	s.Require().NoError(UnmarshalUnnamed(data, &b))
	s.Equal(IntArray{8, 9}, b.Array)
}

func (s *DecoderTestSuite) TestTypeErrors() {
	s.T().Run("Overflow", func(t *testing.T) {
		var got struct {
			V int8 `nbt:"v"`
		}
		err := UnmarshalUnnamed(networkBytes(t, CompoundOf(Entry{"v", Int(300)})), &got)
		var serr *serde.Error
		assert.ErrorAs(t, err, &serr)
	})

	s.T().Run("Widening", func(t *testing.T) {
		var got struct {
			V int64   `nbt:"v"`
			F float64 `nbt:"f"`
		}
		err := UnmarshalUnnamed(networkBytes(t, CompoundOf(Entry{"v", Short(-3)}, Entry{"f", Float(0.5)})), &got)
		require.NoError(t, err)
		assert.Equal(t, int64(-3), got.V)
		assert.Equal(t, 0.5, got.F)
	})

	s.T().Run("WrongShape", func(t *testing.T) {
		var got struct {
			V string `nbt:"v"`
		}
		err := UnmarshalUnnamed(networkBytes(t, CompoundOf(Entry{"v", Int(1)})), &got)
		assert.ErrorIs(t, err, serde.ErrInvalidType)
	})

	s.T().Run("ByteIntoUint8", func(t *testing.T) {
		var got struct {
			U uint8 `nbt:"u"`
		}
		require.NoError(t, UnmarshalUnnamed(networkBytes(t, CompoundOf(Entry{"u", Byte(-56)})), &got))
		assert.Equal(t, uint8(200), got.U)
	})

	s.T().Run("NotPointer", func(t *testing.T) {
		var got inner
		assert.Error(t, UnmarshalUnnamed(networkBytes(t, NewCompound()), got))
	})
}

func (s *DecoderTestSuite) TestMalformed() {
	data := networkBytes(s.T(), sampleCompound())

	s.T().Run("Truncated", func(t *testing.T) {
		for n := 1; n < len(data); n++ {
			var got map[string]any
			assert.Error(t, UnmarshalUnnamed(data[:n], &got), "prefix of %d bytes", n)
		}
	})

	s.T().Run("UnknownTagID", func(t *testing.T) {
		var got map[string]any
		err := UnmarshalUnnamed([]byte{0x0A, 0x0D, 0x00, 0x01, 'x', 0x00}, &got)
		assert.ErrorIs(t, err, ErrUnknownTagID)
	})

	s.T().Run("DepthLimit", func(t *testing.T) {
		deep := []byte{byte(TagCompound)}
		for range DefaultMaxDepth {
			deep = append(deep, byte(TagCompound), 0x00, 0x00)
		}
		for range DefaultMaxDepth + 1 {
			deep = append(deep, byte(TagEnd))
		}

		var got map[string]any
		assert.ErrorIs(t, UnmarshalUnnamed(deep, &got), ErrDepthLimit)

		var skipped struct{}
		assert.ErrorIs(t, UnmarshalUnnamed(deep, &skipped), ErrDepthLimit)

		dec := NewNetworkDecoder(networkBytes(t, networkSample())).WithMaxDepth(1)
		assert.ErrorIs(t, dec.Decode(&got), ErrDepthLimit)
	})
}
