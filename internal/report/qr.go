package report

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

const qrSize = 256

// qrPNG encodes url as a medium-recovery QR code image.
func qrPNG(url string) ([]byte, error) {
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return png, nil
}
