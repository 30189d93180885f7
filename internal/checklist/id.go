package checklist

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

// ItemID derives an element key from a slash-separated relative path.
// Separators, dots and anything else outside [A-Za-z0-9_-] become '_', and a
// short digest of the original path keeps "a_b.stl" apart from "a/b.stl".
func ItemID(relPath string) string {
	var b strings.Builder
	b.Grow(len(relPath) + 9)

	for _, r := range relPath {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	sum := sha1.Sum([]byte(relPath))
	b.WriteByte('-')
	b.WriteString(hex.EncodeToString(sum[:4]))
	return b.String()
}
