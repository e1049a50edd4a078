/*
Package steg hides text messages in the least-significant bits of an image's pixel channels, and reads them back.

A message is written as a frame: an 8-bit tag naming the character encoding, the payload length in bits as a
32-bit number, and the payload itself, all most-significant bit first. The frame is spread over the image one bit
per eligible channel, walking pixels in row-major order and channels in RGBA order. Pure white or pure black
pixels can be left out, as can the alpha channel; decoding needs the same Config that was used in encoding.
*/
package steg

import (
	"image"
	"log/slog"
)

// Codec encodes and decodes messages with a fixed Config. It holds no other state, so one Codec may be shared
// between goroutines as long as they work on different images.
type Codec struct {
	cfg    Config
	logger *slog.Logger
}

// New returns a Codec using cfg. A nil logger discards all output.
func New(cfg Config, logger *slog.Logger) *Codec {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Codec{
		cfg:    cfg,
		logger: logger,
	}
}

// Config returns the configuration the codec was created with.
func (c *Codec) Config() Config {
	return c.cfg
}

func cloneNRGBA(img *image.NRGBA) *image.NRGBA {
	return &image.NRGBA{
		Pix:    append([]uint8(nil), img.Pix...),
		Stride: img.Stride,
		Rect:   img.Rect,
	}
}
