package texttools

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"strings"

	"github.com/Lllllllleong/toolsuite/internal/tools"
	"github.com/google/uuid"
)

var digests = map[string]func() hash.Hash{
	"SHA-1":   sha1.New,
	"SHA-256": sha256.New,
	"SHA-384": sha512.New384,
	"SHA-512": sha512.New,
}

// Hash returns the lowercase hex digest of the UTF-8 bytes of text.
// Algorithm names are matched case-insensitively, with or without the dash.
func Hash(text, algorithm string) (string, error) {
	name := strings.ToUpper(strings.TrimSpace(algorithm))
	if !strings.Contains(name, "-") && strings.HasPrefix(name, "SHA") {
		name = "SHA-" + strings.TrimPrefix(name, "SHA")
	}
	newHash, ok := digests[name]
	if !ok {
		return "", tools.Invalid("Unsupported hash algorithm %q.", algorithm)
	}
	h := newHash()
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil)), nil
}

// UUIDs returns count random v4 identifiers; count is clamped to [1, 100].
func UUIDs(count int) ([]string, error) {
	count = max(1, min(100, count))
	out := make([]string, count)
	for i := range out {
		id, err := uuid.NewRandom()
		if err != nil {
			return nil, err
		}
		out[i] = id.String()
	}
	return out, nil
}
