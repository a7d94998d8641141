package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// SHA256Hex hashes the concatenation of parts, separating them with a NUL
// byte so ("ab","c") and ("a","bc") differ.
func SHA256Hex(parts ...string) string {
	h := sha256.New()
	for i, p := range parts {
		if i > 0 {
			h.Write([]byte{0})
		}
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// SHA256Bytes hashes raw data such as an uploaded audio clip.
func SHA256Bytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
