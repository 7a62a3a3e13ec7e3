package qr

import (
	qrcode "github.com/skip2/go-qrcode"
)

// ModuleSize is the edge of one QR module in pixels.
const ModuleSize = 8

// PNG encodes url at the highest error-correction level so printed codes
// still scan when worn or crumpled. The quiet border is kept.
func PNG(url string) ([]byte, error) {
	code, err := qrcode.New(url, qrcode.Highest)
	if err != nil {
		return nil, err
	}
	code.DisableBorder = false
	return code.PNG(-ModuleSize)
}
