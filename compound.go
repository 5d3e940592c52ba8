package nbt

import "iter"

// Entry is one named child of a Compound.
type Entry struct {
	Name  string
	Value Tag
}

// Compound is an ordered set of uniquely named tags. Iteration and encoding
// follow insertion order, so a decoded compound re-encodes to the same bytes.
// Lookups go through an index, not a scan.
//
// The zero value is an empty compound ready to use.
type Compound struct {
	entries []Entry
	index   map[string]int
}

// NewCompound returns an empty compound.
func NewCompound() *Compound {
	return &Compound{}
}

// CompoundOf builds a compound from entries in order. Later duplicates of a
// name are discarded, as with Put.
func CompoundOf(entries ...Entry) *Compound {
	c := &Compound{}
	for _, e := range entries {
		c.Put(e.Name, e.Value)
	}
	return c
}

// Put inserts value under name unless name is already present, in which case
// the compound is left unchanged. It reports whether the value was inserted.
func (c *Compound) Put(name string, value Tag) bool {
	if _, ok := c.index[name]; ok {
		return false
	}
	if c.index == nil {
		c.index = make(map[string]int)
	}
	c.index[name] = len(c.entries)
	c.entries = append(c.entries, Entry{Name: name, Value: value})
	return true
}

// Get returns the tag stored under name.
func (c *Compound) Get(name string) (Tag, bool) {
	if c == nil {
		return nil, false
	}
	i, ok := c.index[name]
	if !ok {
		return nil, false
	}
	return c.entries[i].Value, true
}

// Has reports whether name is present.
func (c *Compound) Has(name string) bool {
	_, ok := c.Get(name)
	return ok
}

// Len returns the number of entries.
func (c *Compound) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Keys returns the entry names in order.
func (c *Compound) Keys() []string {
	keys := make([]string, 0, c.Len())
	for name := range c.All() {
		keys = append(keys, name)
	}
	return keys
}

// All iterates over the entries in order.
func (c *Compound) All() iter.Seq2[string, Tag] {
	return func(yield func(string, Tag) bool) {
		if c == nil {
			return
		}
		for _, e := range c.entries {
			if !yield(e.Name, e.Value) {
				return
			}
		}
	}
}

// --- Typed accessors ---
//
// Each returns false both when the name is missing and when it holds a
// different variant.

func (c *Compound) GetByte(name string) (int8, bool)         { return get(c, name, AsByte) }
func (c *Compound) GetShort(name string) (int16, bool)       { return get(c, name, AsShort) }
func (c *Compound) GetInt(name string) (int32, bool)         { return get(c, name, AsInt) }
func (c *Compound) GetLong(name string) (int64, bool)        { return get(c, name, AsLong) }
func (c *Compound) GetFloat(name string) (float32, bool)     { return get(c, name, AsFloat) }
func (c *Compound) GetDouble(name string) (float64, bool)    { return get(c, name, AsDouble) }
func (c *Compound) GetBool(name string) (bool, bool)         { return get(c, name, AsBool) }
func (c *Compound) GetString(name string) (string, bool)     { return get(c, name, AsString) }
func (c *Compound) GetByteArray(name string) ([]byte, bool)  { return get(c, name, AsByteArray) }
func (c *Compound) GetList(name string) (List, bool)         { return get(c, name, AsList) }
func (c *Compound) GetCompound(name string) (*Compound, bool) { return get(c, name, AsCompound) }
func (c *Compound) GetIntArray(name string) ([]int32, bool)  { return get(c, name, AsIntArray) }
func (c *Compound) GetLongArray(name string) ([]int64, bool) { return get(c, name, AsLongArray) }

func get[T any](c *Compound, name string, as func(Tag) (T, bool)) (T, bool) {
	t, ok := c.Get(name)
	if !ok {
		var zero T
		return zero, false
	}
	return as(t)
}

// --- Content codec ---

// ReadCompoundContent reads [id][name][payload] entries until a bare End id.
// With opts.Lenient, a child that fails to decode ends the compound and the
// entries read so far are returned without error.
func ReadCompoundContent(c *Cursor, opts ReadOptions) (*Compound, error) {
	return readCompoundContent(c, opts, 1)
}

func readCompoundContent(c *Cursor, opts ReadOptions, depth int) (*Compound, error) {
	if depth > opts.maxDepth() {
		return nil, &DepthLimitError{Limit: opts.maxDepth()}
	}
	comp := &Compound{}
	for {
		if opts.Lenient && !c.HasRemaining() {
			return comp, nil
		}
		id, err := c.TagID()
		if err != nil {
			return lenient(comp, opts, err)
		}
		if id == TagEnd {
			return comp, nil
		}
		name, err := c.String()
		if err != nil {
			return lenient(comp, opts, err)
		}
		t, err := readPayload(c, id, opts, depth)
		if err != nil {
			return lenient(comp, opts, err)
		}
		comp.Put(name, t)
	}
}

func lenient(comp *Compound, opts ReadOptions, err error) (*Compound, error) {
	if opts.Lenient {
		return comp, nil
	}
	return nil, err
}

// WriteContent writes every entry as [id][name][payload] in order, then End.
// Errors are latched in w.
func (c *Compound) WriteContent(w *Writer) {
	c.writeContent(w, 1)
}

func (c *Compound) writeContent(w *Writer, depth int) {
	if depth > w.depthLimit() {
		w.setError(&DepthLimitError{Limit: w.depthLimit()})
		return
	}
	for name, t := range c.All() {
		writeNamed(w, name, t, depth)
		if w.err != nil {
			return
		}
	}
	w.WriteTagID(TagEnd)
}

func (c *Compound) contentSize() int {
	n := 1
	for name, t := range c.All() {
		n += 1 + 2 + mutf8Len(name) + PayloadSize(t)
	}
	return n
}
