package nbt

import (
	"testing"
)

type BenchmarkPayload struct {
	Name     string    `nbt:"name"`
	Health   float32   `nbt:"health"`
	OnGround bool      `nbt:"on_ground"`
	Pos      []float64 `nbt:"pos"`
	Motion   IntArray  `nbt:"motion"`
	Items    []inner   `nbt:"items"`
}

func benchmarkPayload() BenchmarkPayload {
	items := make([]inner, 32)
	for i := range items {
		items[i].Int = int32(i)
	}
	return BenchmarkPayload{
		Name:     "zombie",
		Health:   20,
		OnGround: true,
		Pos:      []float64{1.5, 64, -12.25},
		Motion:   IntArray{0, -1, 0},
		Items:    items,
	}
}

func BenchmarkDocumentMarshalBinary(b *testing.B) {
	doc := NewDocument("bench", sampleCompound())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = doc.MarshalBinary()
	}
}

func BenchmarkDocumentMarshalTo(b *testing.B) {
	doc := NewDocument("bench", sampleCompound())
	buf := make([]byte, doc.Size())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = doc.MarshalTo(buf)
	}
}

func BenchmarkDocumentRead(b *testing.B) {
	data, _ := NewDocument("bench", sampleCompound()).MarshalBinary()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Read(data)
	}
}

func BenchmarkMarshalStruct(b *testing.B) {
	v := benchmarkPayload()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = MarshalUnnamed(v)
	}
}

func BenchmarkUnmarshalStruct(b *testing.B) {
	data, _ := MarshalUnnamed(benchmarkPayload())
	var v BenchmarkPayload
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = UnmarshalUnnamed(data, &v)
	}
}

// Baseline: decoding the same bytes into a tag tree instead of a struct.
func BenchmarkUnmarshalTagTree(b *testing.B) {
	data, _ := MarshalUnnamed(benchmarkPayload())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ReadUnnamed(data)
	}
}
