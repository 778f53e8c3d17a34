package util

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Digest is the hex BLAKE3 hash of data, used to let users compare a
// revealed payload with the one they hid.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
