package nbt

import "io"

// Document is a root compound together with its name. The name is written
// only in the named framing; the network framing omits it entirely.
type Document struct {
	Name string
	Root *Compound
}

// NetworkDocument is a Document viewed through the unnamed (network)
// framing: [Compound id][content]. Obtain one with Document.Network.
type NetworkDocument Document

var (
	_ Codec = (*Document)(nil)
	_ Codec = (*NetworkDocument)(nil)
)

// NewDocument returns a document named name holding root.
func NewDocument(name string, root *Compound) *Document {
	return &Document{Name: name, Root: root}
}

// DocumentOf returns an unnamed document holding root.
func DocumentOf(root *Compound) *Document {
	return &Document{Root: root}
}

// Network returns a view of d that encodes and decodes with the network
// framing. The view shares d's fields.
func (d *Document) Network() *NetworkDocument {
	return (*NetworkDocument)(d)
}

// --- Reading ---

// Read parses a named document: [Compound id][name][content].
// Bytes after the root compound's End are ignored.
func Read(data []byte) (*Document, error) {
	return ReadWith(data, DefaultReadOptions())
}

// ReadWith is Read with explicit options.
func ReadWith(data []byte, opts ReadOptions) (*Document, error) {
	return readDocument(NewCursor(data), true, opts)
}

// ReadUnnamed parses a network document: [Compound id][content]. The
// returned document has an empty name.
func ReadUnnamed(data []byte) (*Document, error) {
	return ReadUnnamedWith(data, DefaultReadOptions())
}

// ReadUnnamedWith is ReadUnnamed with explicit options.
func ReadUnnamedWith(data []byte, opts ReadOptions) (*Document, error) {
	return readDocument(NewCursor(data), false, opts)
}

// ReadDocument parses a document from c, leaving c positioned after the
// root compound's End.
func ReadDocument(c *Cursor, named bool, opts ReadOptions) (*Document, error) {
	return readDocument(c, named, opts)
}

func readDocument(c *Cursor, named bool, opts ReadOptions) (*Document, error) {
	id, err := c.TagID()
	if err != nil {
		return nil, err
	}
	if id != TagCompound {
		return nil, &NoRootCompoundError{ID: id}
	}
	d := &Document{}
	if named {
		if d.Name, err = c.String(); err != nil {
			return nil, err
		}
	}
	if d.Root, err = readCompoundContent(c, opts, 1); err != nil {
		return nil, err
	}
	return d, nil
}

// --- Writing ---

func (d *Document) write(w *Writer, named bool) {
	w.WriteTagID(TagCompound)
	if named {
		w.WriteNBTString(d.Name)
	}
	d.Root.WriteContent(w)
}

func (d *Document) writeTo(dst io.Writer, named bool) (int64, error) {
	w, err := NewWriter(dst)
	if err != nil {
		return 0, err
	}
	d.write(w, named)
	return w.Result()
}

func (d *Document) size(named bool) int {
	n := 1 + d.Root.contentSize()
	if named {
		n += 2 + mutf8Len(d.Name)
	}
	return n
}

// Size returns the length of the named encoding.
func (d *Document) Size() int { return d.size(true) }

// WriteTo writes the named encoding to dst.
func (d *Document) WriteTo(dst io.Writer) (int64, error) { return d.writeTo(dst, true) }

// WriteUnnamedTo writes the network encoding to dst.
func (d *Document) WriteUnnamedTo(dst io.Writer) (int64, error) { return d.writeTo(dst, false) }

// MarshalBinary returns the named encoding.
func (d *Document) MarshalBinary() ([]byte, error) { return MarshalBinaryGeneric(d) }

// MarshalUnnamed returns the network encoding.
func (d *Document) MarshalUnnamed() ([]byte, error) { return d.Network().MarshalBinary() }

// MarshalTo writes the named encoding into buf.
func (d *Document) MarshalTo(buf []byte) (int, error) { return MarshalToGeneric(d, buf) }

// UnmarshalBinary decodes a named document. Trailing bytes must be zero
// padding of at most MAX_PADDING bytes.
func (d *Document) UnmarshalBinary(data []byte) error {
	return d.unmarshal(data, true)
}

// ReadFrom reads r to EOF and decodes a named document from it.
func (d *Document) ReadFrom(r io.Reader) (int64, error) { return ReadFromGeneric(d, r) }

func (d *Document) unmarshal(data []byte, named bool) error {
	c := NewCursor(data)
	doc, err := readDocument(c, named, DefaultReadOptions())
	if err != nil {
		return err
	}
	if c.HasRemaining() {
		if err := CheckBufferNotZeros(c.Bytes()); err != nil {
			return err
		}
	}
	*d = *doc
	return nil
}

// --- Network framing ---

func (d *NetworkDocument) doc() *Document { return (*Document)(d) }

func (d *NetworkDocument) Size() int { return d.doc().size(false) }

func (d *NetworkDocument) WriteTo(dst io.Writer) (int64, error) {
	return d.doc().writeTo(dst, false)
}

func (d *NetworkDocument) MarshalBinary() ([]byte, error) { return MarshalBinaryGeneric(d) }

func (d *NetworkDocument) MarshalTo(buf []byte) (int, error) { return MarshalToGeneric(d, buf) }

// UnmarshalBinary decodes a network document; the name becomes empty.
func (d *NetworkDocument) UnmarshalBinary(data []byte) error {
	return d.doc().unmarshal(data, false)
}

func (d *NetworkDocument) ReadFrom(r io.Reader) (int64, error) { return ReadFromGeneric(d, r) }
