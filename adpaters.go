package nbt

import "bytes"

// bytesBufferWriterAdapter lets a *bytes.Buffer act as a WriterPro; it grows
// on demand, so there is nothing to flush.
type bytesBufferWriterAdapter struct{ *bytes.Buffer }

func (w *bytesBufferWriterAdapter) Flush() error { return nil }
func (w *bytesBufferWriterAdapter) Size() int    { return w.Available() }
