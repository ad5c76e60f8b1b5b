package texttools

import (
	"fmt"

	"github.com/Lllllllleong/toolsuite/internal/tools"
	"github.com/skip2/go-qrcode"
)

const (
	QRSize    = 260
	minQRSize = 64
	maxQRSize = 2048
)

// QRCode renders content as a PNG. Empty content encodes a single space.
// Sizes are clamped to [64, 2048] pixels; zero or less selects QRSize.
func QRCode(content string, size int) ([]byte, error) {
	if content == "" {
		content = " "
	}
	if size <= 0 {
		size = QRSize
	}
	size = min(max(size, minQRSize), maxQRSize)
	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, tools.InvalidWrap(err, "Text is too long for a QR code.")
	}
	png, err := q.PNG(size)
	if err != nil {
		return nil, fmt.Errorf("failed to render QR code: %w", err)
	}
	return png, nil
}
