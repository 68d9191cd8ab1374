// Package qr renders session PINs as QR codes for students to scan.
package qr

import (
	"encoding/base64"
	"fmt"
	"image/color"

	"github.com/skip2/go-qrcode"
)

// Options controls the rendered image.
type Options struct {
	Size       int
	Foreground color.Color
	Background color.Color
	Level      qrcode.RecoveryLevel
}

// DefaultOptions renders 300px blue-on-white codes.
func DefaultOptions() Options {
	return Options{
		Size:       300,
		Foreground: color.RGBA{R: 0x25, G: 0x63, B: 0xeb, A: 0xff},
		Background: color.White,
		Level:      qrcode.Medium,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Size <= 0 {
		o.Size = d.Size
	}
	if o.Foreground == nil {
		o.Foreground = d.Foreground
	}
	if o.Background == nil {
		o.Background = d.Background
	}
	return o
}

// PNG encodes content as a PNG image.
func PNG(content string, opts Options) ([]byte, error) {
	opts = opts.withDefaults()
	code, err := qrcode.New(content, opts.Level)
	if err != nil {
		return nil, fmt.Errorf("qr encode: %w", err)
	}
	code.ForegroundColor = opts.Foreground
	code.BackgroundColor = opts.Background
	png, err := code.PNG(opts.Size)
	if err != nil {
		return nil, fmt.Errorf("qr png: %w", err)
	}
	return png, nil
}

// DataURL encodes content as a base64 PNG data URL.
func DataURL(content string, opts Options) (string, error) {
	png, err := PNG(content, opts)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
