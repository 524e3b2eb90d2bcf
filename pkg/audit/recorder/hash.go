package recorder

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashContent returns the hex-encoded SHA-256 of the content, or an empty
// string for empty content. Fact snapshots are small; no truncation applies.
func HashContent(content []byte) string {
	if len(content) == 0 {
		return ""
	}
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
