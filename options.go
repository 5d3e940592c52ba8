package nbt

// DefaultMaxDepth is the nesting limit applied when none is configured.
// It matches the limit the reference game client enforces.
const DefaultMaxDepth = 512

// ReadOptions configures decoding.
type ReadOptions struct {
	// Lenient makes compound decoding stop at the first child that fails to
	// decode and keep the entries read so far, instead of returning the error.
	// Data after the failing child is silently dropped.
	Lenient bool

	// MaxDepth bounds the nesting of compounds and lists. Zero or negative
	// means DefaultMaxDepth.
	MaxDepth int
}

// DefaultReadOptions returns strict options with the default depth limit.
func DefaultReadOptions() ReadOptions {
	return ReadOptions{MaxDepth: DefaultMaxDepth}
}

// WithLenient returns a copy of o with lenient compound decoding enabled.
func (o ReadOptions) WithLenient() ReadOptions {
	o.Lenient = true
	return o
}

// WithMaxDepth returns a copy of o with the given depth limit.
func (o ReadOptions) WithMaxDepth(n int) ReadOptions {
	o.MaxDepth = n
	return o
}

func (o ReadOptions) maxDepth() int {
	if o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}
