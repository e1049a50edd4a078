// Package algos provides the addressors that decide which pixel channels of an image carry hidden bits,
// and in which order they are visited.
package algos

import (
	"image"
)

const (
	channelsRGB  = 3
	channelsRGBA = 4

	white uint8 = 0xff
	black uint8 = 0x00
)

// Filter selects which pixels and channels of an image are eligible bit-slots.
type Filter struct {
	IncludeAlpha bool // Whether the alpha channel carries bits.
	SkipWhite    bool // Whether pixels with an (255, 255, 255) colour are left alone.
	SkipBlack    bool // Whether pixels with an (0, 0, 0) colour are left alone.
}

// ChannelsPerPix returns the number of channels per eligible pixel that carry bits.
func (f Filter) ChannelsPerPix() int {
	if f.IncludeAlpha {
		return channelsRGBA
	}
	return channelsRGB
}

// Skips reports whether a pixel with the given colour contributes no slots at all.
// Alpha is never part of this test.
func (f Filter) Skips(r, g, b uint8) bool {
	if f.SkipWhite && r == white && g == white && b == white {
		return true
	}
	return f.SkipBlack && r == black && g == black && b == black
}

// Slot is a single eligible bit-slot: one channel of one pixel.
type Slot struct {
	X, Y    int   // The pixel position, relative to the image bounds.
	Channel uint8 // The channel index, R=0, G=1, B=2, A=3.
	Offset  int   // The index of the channel byte within the image's Pix slice.
}

// Error types

// EmptyPoolError is returned when an addressor is called but it has no slots left to hand out.
type EmptyPoolError struct{}

func (e EmptyPoolError) Error() string {
	return "The pool of bit addresses is empty."
}

// Addressors

// SequentialAddressor walks the image in row-major pixel order, visiting the eligible channels of each pixel
// in ascending order. Every call returns a fresh addressor that yields the exact same sequence for the same
// image contents and filter.
func SequentialAddressor(img *image.NRGBA, filter Filter) func() (Slot, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	channels := uint8(filter.ChannelsPerPix())

	x, y := -1, 0
	c := channels
	base := 0
	return func() (Slot, error) {
		for c >= channels {
			x++
			if x >= w {
				x = 0
				y++
			}
			if y >= h || w <= 0 {
				// Stay exhausted on every later call
				x, y = w, h
				return Slot{}, &EmptyPoolError{}
			}

			base = img.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
			if filter.Skips(img.Pix[base], img.Pix[base+1], img.Pix[base+2]) {
				continue
			}
			c = 0
		}

		s := Slot{X: x, Y: y, Channel: c, Offset: base + int(c)}
		c++
		return s, nil
	}
}

// CountSlots runs a sequential addressor to exhaustion and returns the number of slots it handed out.
func CountSlots(img *image.NRGBA, filter Filter) int64 {
	next := SequentialAddressor(img, filter)
	var n int64
	for {
		if _, err := next(); err != nil {
			return n
		}
		n++
	}
}
