package serde

// BaseVisitor rejects every value with an *InvalidTypeError naming Expect.
// Embed it and override the methods the destination accepts.
type BaseVisitor struct {
	Expect string
}

func (b BaseVisitor) Expecting() string {
	if b.Expect == "" {
		return "a value"
	}
	return b.Expect
}

func (b BaseVisitor) fail(got string) error {
	return &InvalidTypeError{Got: got, Expected: b.Expecting()}
}

func (b BaseVisitor) VisitBool(bool) error         { return b.fail("bool") }
func (b BaseVisitor) VisitInt8(int8) error         { return b.fail("int8") }
func (b BaseVisitor) VisitInt16(int16) error       { return b.fail("int16") }
func (b BaseVisitor) VisitInt32(int32) error       { return b.fail("int32") }
func (b BaseVisitor) VisitInt64(int64) error       { return b.fail("int64") }
func (b BaseVisitor) VisitUint64(uint64) error     { return b.fail("uint64") }
func (b BaseVisitor) VisitFloat32(float32) error   { return b.fail("float32") }
func (b BaseVisitor) VisitFloat64(float64) error   { return b.fail("float64") }
func (b BaseVisitor) VisitString(string) error     { return b.fail("string") }
func (b BaseVisitor) VisitBytes([]byte) error      { return b.fail("bytes") }
func (b BaseVisitor) VisitNone() error             { return b.fail("none") }
func (b BaseVisitor) VisitSome(Deserializer) error { return b.fail("option") }
func (b BaseVisitor) VisitSeq(SeqAccess) error     { return b.fail("sequence") }
func (b BaseVisitor) VisitMap(MapAccess) error     { return b.fail("map") }

// IgnoredAny accepts and discards any value, draining nested sequences and
// maps. Formats that can skip input without decoding need not call it.
type IgnoredAny struct{}

var _ Visitor = IgnoredAny{}

func (IgnoredAny) Expecting() string              { return "anything" }
func (IgnoredAny) VisitBool(bool) error           { return nil }
func (IgnoredAny) VisitInt8(int8) error           { return nil }
func (IgnoredAny) VisitInt16(int16) error         { return nil }
func (IgnoredAny) VisitInt32(int32) error         { return nil }
func (IgnoredAny) VisitInt64(int64) error         { return nil }
func (IgnoredAny) VisitUint64(uint64) error       { return nil }
func (IgnoredAny) VisitFloat32(float32) error     { return nil }
func (IgnoredAny) VisitFloat64(float64) error     { return nil }
func (IgnoredAny) VisitString(string) error       { return nil }
func (IgnoredAny) VisitBytes([]byte) error        { return nil }
func (IgnoredAny) VisitNone() error               { return nil }
func (IgnoredAny) VisitSome(d Deserializer) error { return d.DeserializeIgnoredAny(IgnoredAny{}) }

func (IgnoredAny) VisitSeq(s SeqAccess) error {
	for {
		ok, err := s.NextElement(ignore)
		if err != nil || !ok {
			return err
		}
	}
}

func (IgnoredAny) VisitMap(m MapAccess) error {
	for {
		ok, err := m.NextKey(ignore)
		if err != nil || !ok {
			return err
		}
		if err := m.NextValue(ignore); err != nil {
			return err
		}
	}
}

func ignore(d Deserializer) error { return d.DeserializeIgnoredAny(IgnoredAny{}) }
