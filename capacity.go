package steg

import (
	"image"

	"github.com/alza54/find-web-session-challenge/internal/algos"
)

// Capacity returns an upper bound on the number of bits img can hold under cfg: one per channel of every pixel.
// Pixels excluded by the skip rules are still counted; EligibleSlots gives the exact figure.
func Capacity(img *image.NRGBA, cfg Config) int64 {
	if img == nil {
		return 0
	}
	b := img.Bounds()
	return int64(b.Dx()) * int64(b.Dy()) * int64(cfg.filter().ChannelsPerPix())
}

// EligibleSlots returns the exact number of bit-slots img offers under cfg, after the skip rules are applied.
func EligibleSlots(img *image.NRGBA, cfg Config) int64 {
	if img == nil {
		return 0
	}
	return algos.CountSlots(img, cfg.filter())
}

// FramedBits returns the number of bits text takes up once framed, header included.
func FramedBits(text string, nativeUTF16 bool) (int64, error) {
	enc, _ := SelectEncoding(text)
	f, err := BuildFrame(text, enc, nativeUTF16)
	if err != nil {
		return 0, err
	}
	return f.Len(), nil
}
