// Package texttools holds the text and data codecs: JSON, base64, CSV, URL
// encoding, markdown, hashing, UUIDs, diffs, word counts, passwords and QR
// codes.
package texttools

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/Lllllllleong/toolsuite/internal/tools"
)

// FormatJSON re-serializes src with two-space indentation, or compactly
// when pretty is false. On a parse failure nothing is returned but the
// parser message.
func FormatJSON(src string, pretty bool) (string, error) {
	data := []byte(strings.TrimSpace(src))
	if !json.Valid(data) {
		var v any
		err := json.Unmarshal(data, &v)
		if err == nil {
			return "", tools.Invalid("Invalid JSON.")
		}
		return "", tools.InvalidWrap(err, "%s", err.Error())
	}
	var out bytes.Buffer
	var err error
	if pretty {
		err = json.Indent(&out, data, "", "  ")
	} else {
		err = json.Compact(&out, data)
	}
	if err != nil {
		return "", tools.InvalidWrap(err, "%s", err.Error())
	}
	return out.String(), nil
}
