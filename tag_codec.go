package nbt

import "fmt"

// --- Encoding ---

// WritePayload writes the payload of t with no leading id or name.
// Errors are latched in w; check w.Err or w.Result afterwards.
func WritePayload(w *Writer, t Tag) {
	writePayload(w, t, 0)
}

// WriteTag writes t as [id][payload].
func WriteTag(w *Writer, t Tag) {
	if t == nil {
		w.setError(&UnsupportedTypeError{Kind: "nil tag"})
		return
	}
	w.WriteTagID(t.ID())
	writePayload(w, t, 0)
}

// WriteNamedTag writes t as [id][name][payload], the form used for compound entries.
func WriteNamedTag(w *Writer, name string, t Tag) {
	writeNamed(w, name, t, 0)
}

func writeNamed(w *Writer, name string, t Tag, depth int) {
	if t == nil {
		w.setError(&UnsupportedTypeError{Kind: "nil tag"})
		return
	}
	// a named End would read back as the compound terminator
	if t.ID() == TagEnd {
		w.setError(&UnsupportedTypeError{Kind: "End tag as compound entry"})
		return
	}
	w.WriteTagID(t.ID())
	w.WriteNBTString(name)
	writePayload(w, t, depth)
}

func writePayload(w *Writer, t Tag, depth int) {
	if w.err != nil {
		return
	}
	switch v := t.(type) {
	case End:
	case Byte:
		w.WriteInt8(int8(v))
	case Short:
		w.WriteInt16(int16(v))
	case Int:
		w.WriteInt32(int32(v))
	case Long:
		w.WriteInt64(int64(v))
	case Float:
		w.WriteFloat32(float32(v))
	case Double:
		w.WriteFloat64(float64(v))
	case ByteArray:
		w.WriteLength(len(v))
		_, _ = w.Write(v)
	case String:
		w.WriteNBTString(string(v))
	case List:
		writeList(w, v, depth+1)
	case *Compound:
		v.writeContent(w, depth+1)
	case IntArray:
		w.WriteLength(len(v))
		writeArray(w, v, 4, func(b []byte, x int32) { Order.PutUint32(b, uint32(x)) })
	case LongArray:
		w.WriteLength(len(v))
		writeArray(w, v, 8, func(b []byte, x int64) { Order.PutUint64(b, uint64(x)) })
	default:
		w.setError(&UnsupportedTypeError{Kind: fmt.Sprintf("%T", t)})
	}
}

func writeList(w *Writer, l List, depth int) {
	if depth > w.depthLimit() {
		w.setError(&DepthLimitError{Limit: w.depthLimit()})
		return
	}
	if err := l.Validate(); err != nil {
		w.setError(err)
		return
	}
	w.WriteTagID(l.ElemID())
	w.WriteLength(len(l))
	for _, t := range l {
		writePayload(w, t, depth)
	}
}

// PayloadSize returns the number of bytes WritePayload produces for t.
func PayloadSize(t Tag) int {
	switch v := t.(type) {
	case Byte, Short, Int, Long, Float, Double:
		return v.ID().fixedSize()
	case ByteArray:
		return 4 + len(v)
	case String:
		return 2 + mutf8Len(string(v))
	case List:
		n := 5
		for _, e := range v {
			n += PayloadSize(e)
		}
		return n
	case *Compound:
		return v.contentSize()
	case IntArray:
		return 4 + 4*len(v)
	case LongArray:
		return 4 + 8*len(v)
	}
	return 0
}

// --- Decoding ---

// ReadPayload parses the payload of a tag whose id the caller has already read.
func ReadPayload(c *Cursor, id TagID) (Tag, error) {
	return readPayload(c, id, DefaultReadOptions(), 0)
}

// ReadPayloadWith is ReadPayload with explicit options.
func ReadPayloadWith(c *Cursor, id TagID, opts ReadOptions) (Tag, error) {
	return readPayload(c, id, opts, 0)
}

// ReadTag reads a tag framed as [id][payload].
func ReadTag(c *Cursor) (Tag, error) {
	id, err := c.TagID()
	if err != nil {
		return nil, err
	}
	return ReadPayload(c, id)
}

// ReadNamedTag reads a tag framed as [id][name][payload]. A bare End id
// yields End with an empty name.
func ReadNamedTag(c *Cursor) (string, Tag, error) {
	id, err := c.TagID()
	if err != nil {
		return "", nil, err
	}
	if id == TagEnd {
		return "", End{}, nil
	}
	name, err := c.String()
	if err != nil {
		return "", nil, err
	}
	t, err := ReadPayload(c, id)
	if err != nil {
		return "", nil, err
	}
	return name, t, nil
}

func readPayload(c *Cursor, id TagID, opts ReadOptions, depth int) (Tag, error) {
	switch id {
	case TagEnd:
		return End{}, nil
	case TagByte:
		v, err := c.I8()
		if err != nil {
			return nil, err
		}
		return Byte(v), nil
	case TagShort:
		v, err := c.I16()
		if err != nil {
			return nil, err
		}
		return Short(v), nil
	case TagInt:
		v, err := c.I32()
		if err != nil {
			return nil, err
		}
		return Int(v), nil
	case TagLong:
		v, err := c.I64()
		if err != nil {
			return nil, err
		}
		return Long(v), nil
	case TagFloat:
		v, err := c.F32()
		if err != nil {
			return nil, err
		}
		return Float(v), nil
	case TagDouble:
		v, err := c.F64()
		if err != nil {
			return nil, err
		}
		return Double(v), nil
	case TagByteArray:
		n, err := c.Length()
		if err != nil {
			return nil, err
		}
		b, err := c.ReadOwned(n)
		if err != nil {
			return nil, err
		}
		return ByteArray(b), nil
	case TagString:
		s, err := c.String()
		if err != nil {
			return nil, err
		}
		return String(s), nil
	case TagList:
		return readList(c, opts, depth+1)
	case TagCompound:
		return readCompoundContent(c, opts, depth+1)
	case TagIntArray:
		n, err := c.Length()
		if err != nil {
			return nil, err
		}
		s, err := readArray(c, n, 4, func(b []byte) int32 { return int32(Order.Uint32(b)) })
		if err != nil {
			return nil, err
		}
		return IntArray(s), nil
	case TagLongArray:
		n, err := c.Length()
		if err != nil {
			return nil, err
		}
		s, err := readArray(c, n, 8, func(b []byte) int64 { return int64(Order.Uint64(b)) })
		if err != nil {
			return nil, err
		}
		return LongArray(s), nil
	}
	return nil, &UnknownTagIDError{ID: id}
}

// readListHeader reads [element id][i32 count] and rejects headers that
// cannot describe a well-formed list.
func readListHeader(c *Cursor) (TagID, int, error) {
	elem, err := c.TagID()
	if err != nil {
		return 0, 0, err
	}
	n, err := c.Length()
	if err != nil {
		return 0, 0, err
	}
	if !elem.Valid() {
		return 0, 0, &UnknownTagIDError{ID: elem}
	}
	if elem == TagEnd && n > 0 {
		return 0, 0, fmt.Errorf("%w: %d elements declared with element type End", ErrListTypeMismatch, n)
	}
	return elem, n, nil
}

func readList(c *Cursor, opts ReadOptions, depth int) (Tag, error) {
	if depth > opts.maxDepth() {
		return nil, &DepthLimitError{Limit: opts.maxDepth()}
	}
	elem, n, err := readListHeader(c)
	if err != nil {
		return nil, err
	}
	// every element occupies at least one byte, so cap the preallocation
	l := make(List, 0, min(n, c.Remaining()))
	for i := 0; i < n; i++ {
		t, err := readPayload(c, elem, opts, depth)
		if err != nil {
			return nil, err
		}
		if t.ID() != elem {
			return nil, &ListTypeMismatchError{Want: elem, Got: t.ID(), Index: i}
		}
		l = append(l, t)
	}
	return l, nil
}

// skipPayload advances c past a payload of the given id without building tags.
func skipPayload(c *Cursor, id TagID, limit, depth int) error {
	if size := id.fixedSize(); size > 0 {
		return c.Skip(size)
	}
	switch id {
	case TagEnd:
		return nil
	case TagByteArray, TagIntArray, TagLongArray:
		n, err := c.Length()
		if err != nil {
			return err
		}
		width := 1
		switch id {
		case TagIntArray:
			width = 4
		case TagLongArray:
			width = 8
		}
		if n > c.Remaining()/width {
			return &InvalidSkipError{Amount: n * width, Available: c.Remaining()}
		}
		return c.Skip(n * width)
	case TagString:
		return c.SkipString()
	case TagList:
		if depth+1 > limit {
			return &DepthLimitError{Limit: limit}
		}
		elem, n, err := readListHeader(c)
		if err != nil {
			return err
		}
		if size := elem.fixedSize(); size > 0 {
			if n > c.Remaining()/size {
				return &InvalidSkipError{Amount: n * size, Available: c.Remaining()}
			}
			return c.Skip(n * size)
		}
		for i := 0; i < n; i++ {
			if err := skipPayload(c, elem, limit, depth+1); err != nil {
				return err
			}
		}
		return nil
	case TagCompound:
		if depth+1 > limit {
			return &DepthLimitError{Limit: limit}
		}
		for {
			child, err := c.TagID()
			if err != nil {
				return err
			}
			if child == TagEnd {
				return nil
			}
			if err := c.SkipString(); err != nil {
				return err
			}
			if err := skipPayload(c, child, limit, depth+1); err != nil {
				return err
			}
		}
	}
	return &UnknownTagIDError{ID: id}
}
