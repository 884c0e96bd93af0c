// Package accountno generates candidate account numbers.
package accountno

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// Prefix is the fixed prefix carried by every account number.
const Prefix = "AC"

// New returns a candidate account number: the fixed prefix followed by six
// random digits (AC100000..AC999999). Uniqueness is not guaranteed here; the
// storage layer's unique constraint is the arbiter, and callers retry on
// collision.
func New() string {
	var b [4]byte
	_, _ = rand.Read(b[:])
	n := binary.BigEndian.Uint32(b[:])%900000 + 100000
	return fmt.Sprintf("%s%d", Prefix, n)
}
