package checksum

import (
	"encoding/hex"

	"lukechampine.com/blake3"
)

// Sum returns the hex-encoded BLAKE3-256 digest of data.
func Sum(data []byte) string {
	h := blake3.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Combine folds an ordered list of digests into a single digest. The order of
// parts is significant.
func Combine(parts ...string) string {
	h := blake3.New(32, nil)
	for _, p := range parts {
		_, _ = h.Write([]byte(p))
		_, _ = h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
