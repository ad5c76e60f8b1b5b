package texttools

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/Lllllllleong/toolsuite/internal/tools"
)

// Character groups leave out look-alikes such as I, O, l, 0 and 1.
const (
	upperChars  = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	lowerChars  = "abcdefghijkmnopqrstuvwxyz"
	digitChars  = "23456789"
	symbolChars = "!@#$%*"
)

const (
	MinPasswordLength     = 8
	MaxPasswordLength     = 64
	DefaultPasswordLength = 16
)

type PasswordOptions struct {
	Length  int
	Upper   bool
	Lower   bool
	Digits  bool
	Symbols bool
}

// GeneratePassword draws from crypto/rand. Length is clamped to
// [MinPasswordLength, MaxPasswordLength] and the result holds at least one
// character of every enabled group.
func GeneratePassword(opts PasswordOptions) (string, error) {
	var groups []string
	for _, g := range []struct {
		on    bool
		chars string
	}{{opts.Upper, upperChars}, {opts.Lower, lowerChars}, {opts.Digits, digitChars}, {opts.Symbols, symbolChars}} {
		if g.on {
			groups = append(groups, g.chars)
		}
	}
	if len(groups) == 0 {
		return "", tools.Invalid("Select at least one character group.")
	}
	length := max(MinPasswordLength, min(MaxPasswordLength, opts.Length))
	pool := strings.Join(groups, "")

	out := make([]byte, length)
	for i := range out {
		src := pool
		if i < len(groups) {
			src = groups[i]
		}
		c, err := pick(src)
		if err != nil {
			return "", err
		}
		out[i] = c
	}
	// Shuffle so the guaranteed characters are not always in front.
	for i := len(out) - 1; i > 0; i-- {
		j, err := randInt(i + 1)
		if err != nil {
			return "", err
		}
		out[i], out[j] = out[j], out[i]
	}
	return string(out), nil
}

func pick(chars string) (byte, error) {
	i, err := randInt(len(chars))
	if err != nil {
		return 0, err
	}
	return chars[i], nil
}

func randInt(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("failed to read random source: %w", err)
	}
	return int(v.Int64()), nil
}
