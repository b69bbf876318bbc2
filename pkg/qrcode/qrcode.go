// Package qrcode renders short links as PNG QR codes embedded in data URLs.
package qrcode

import (
	"encoding/base64"
	"errors"
	"fmt"
	"image/color"

	qr "github.com/skip2/go-qrcode"
)

const (
	DefaultSize = 256

	dataURLPrefix = "data:image/png;base64,"
)

var ErrEmptyContent = errors.New("qr content is empty")

var (
	dark  = color.RGBA{R: 0x0D, G: 0x11, B: 0x17, A: 0xFF}
	light = color.White
)

// PNG encodes content at the highest error correction level.
func PNG(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}
	if size <= 0 {
		size = DefaultSize
	}

	code, err := qr.New(content, qr.Highest)
	if err != nil {
		return nil, fmt.Errorf("new qr code: %w", err)
	}
	code.ForegroundColor = dark
	code.BackgroundColor = light

	png, err := code.PNG(size)
	if err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return png, nil
}

// DataURL returns content as a "data:image/png;base64,..." string.
func DataURL(content string) (string, error) {
	png, err := PNG(content, DefaultSize)
	if err != nil {
		return "", err
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(png), nil
}
