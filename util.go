package nbt

import (
	"encoding/binary"
	"fmt"
)

// Order is the byte order of every multi-byte scalar in the format.
var Order = binary.BigEndian

func Ptr[T any](v T) *T { return &v } // Ptr is a helper function to create a pointer to a value, making test setup cleaner.

// MAX_PADDING defines the maximum number of trailing bytes to check.
// Anything larger is considered a protocol error.
const MAX_PADDING = 1024 // 1KB

// CheckBufferNotZeros verifies that b holds at most MAX_PADDING bytes and
// that all of them are zero.
func CheckBufferNotZeros(b []byte) error {
	if len(b) > MAX_PADDING {
		return fmt.Errorf("%w: exceeds maximum expected size of %d bytes", ErrTrailingData, MAX_PADDING)
	}
	for i, c := range b {
		if c != 0 {
			return fmt.Errorf("%w: found non-zero byte 0x%02x at offset %d", ErrTrailingData, c, i)
		}
	}
	return nil
}
