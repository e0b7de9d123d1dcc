package qr

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/skip2/go-qrcode"
)

var ErrEmptyToken = errors.New("empty qr token")

const size = 300

// PNG renders token as a QR code image.
func PNG(token string) ([]byte, error) {
	if token == "" {
		return nil, ErrEmptyToken
	}
	png, err := qrcode.Encode(token, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}

// DataURL renders token as an inline PNG data URL.
func DataURL(token string) (string, error) {
	png, err := PNG(token)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
