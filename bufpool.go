package nbt

import (
	"bytes"
	"sync"
)

// bytesBufPool reuses buffers for encoding and for slurping streams before
// decoding. We pool *bytes.Buffer because they are easily reset and resized.
var bytesBufPool = sync.Pool{
	New: func() any {
		// A 4KB default is chosen to avoid re-allocations for common document sizes.
		return bytes.NewBuffer(make([]byte, 0, 4096))
	},
}

func getBuffer() *bytes.Buffer {
	buf := bytesBufPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// putBuffer returns buf to the pool unless it grew too large to be worth keeping.
func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() > 1<<20 {
		return
	}
	bytesBufPool.Put(buf)
}
