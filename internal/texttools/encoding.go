package texttools

import (
	"encoding/base64"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Lllllllleong/toolsuite/internal/tools"
)

// EncodeBase64 encodes the UTF-8 bytes of s.
func EncodeBase64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

// DecodeBase64 accepts padded or unpadded standard base64 with embedded
// whitespace, and requires the payload to be UTF-8 text.
func DecodeBase64(s string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	cleaned = strings.TrimRight(cleaned, "=")
	raw, err := base64.RawStdEncoding.DecodeString(cleaned)
	if err != nil || !utf8.Valid(raw) {
		return "", tools.Invalid("Invalid base64 input.")
	}
	return string(raw), nil
}

const unreservedMarks = "-_.!~*'()"

// EncodeURIComponent percent-encodes every byte except ASCII letters,
// digits and -_.!~*'().
func EncodeURIComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < utf8.RuneSelf && (c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || strings.IndexByte(unreservedMarks, c) >= 0) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

// DecodeURIComponent reverses EncodeURIComponent. "+" is left alone.
func DecodeURIComponent(s string) (string, error) {
	out, err := url.PathUnescape(s)
	if err != nil || !utf8.ValidString(out) {
		return "", tools.Invalid("Invalid encoded URI component.")
	}
	return out, nil
}
