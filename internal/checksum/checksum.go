// Package checksum computes the content digests the index uses to skip
// unchanged documents during sync and that document reads report.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of data. Digests are
// compared as opaque strings, so the encoding must stay stable across
// releases or every vault re-syncs from scratch.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
