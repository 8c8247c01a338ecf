package scene

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Fingerprint returns a stable content hash of the document. Two documents
// with equal content have equal fingerprints; any observable mutation changes
// it. Used by the dedup transform and by isolation checks in tests.
func (d *Document) Fingerprint() string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	// Encoding a Document cannot fail unless Extensions holds an
	// unmarshalable value, which the container codec never produces.
	_ = enc.Encode(d)
	return hex.EncodeToString(h.Sum(nil))
}

// HashBytes returns the sha256 hex digest of a raw blob.
func HashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
