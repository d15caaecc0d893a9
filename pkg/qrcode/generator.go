package qrcode

import (
	"encoding/base64"
	"errors"
	"strings"

	skipqrcode "github.com/skip2/go-qrcode"
)

// defaultSize is the size in pixels used when no size is specified
const defaultSize = 256

func newCode(content string) (*skipqrcode.QRCode, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	q, err := skipqrcode.New(content, skipqrcode.Medium)
	if err != nil {
		return nil, errors.Join(ErrFailedToGenerateQRCode, err)
	}
	return q, nil
}

// Generate renders content as a PNG image of size x size pixels.
func Generate(content string, size int) ([]byte, error) {
	q, err := newCode(content)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		size = defaultSize
	}
	png, err := q.PNG(size)
	if err != nil {
		return nil, errors.Join(ErrFailedToGenerateQRCode, err)
	}
	return png, nil
}

// GenerateBase64Image renders content as a data:image/png;base64 URI.
func GenerateBase64Image(content string, size int) (string, error) {
	png, err := Generate(content, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// Terminal renders content with Unicode half blocks so a phone can scan it
// straight from the terminal. Set inverse for light-on-dark terminals.
func Terminal(content string, inverse bool) (string, error) {
	q, err := newCode(content)
	if err != nil {
		return "", err
	}
	return q.ToSmallString(inverse), nil
}
