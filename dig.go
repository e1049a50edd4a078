package steg

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"

	"github.com/zedseven/binmani"

	"github.com/alza54/find-web-session-challenge/imgio"
	"github.com/alza54/find-web-session-challenge/internal/algos"
)

// Types

// DigConfig stores the configuration options for the Dig operation.
type DigConfig struct {
	ImagePath string // The path on disk to a supported image.
	OutPath   string // The path on disk to write the message to. Left alone if empty.
	Codec     Config // The codec configuration, which must match the one used in encoding.
}

// Primary method

// Dig extracts the message hidden in a provided image on disk, optionally saving it to a file as well.
// The configuration must perfectly match the one used in encoding in order to extract successfully.
func Dig(config DigConfig, logger *slog.Logger) (string, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	// Input validation
	if len(config.ImagePath) <= 0 {
		return "", &InvalidFormatError{"ImagePath is empty."}
	}

	logger.Info("loading the image", "path", config.ImagePath)
	img, info, err := imgio.LoadImage(config.ImagePath)
	if err != nil {
		return "", fmt.Errorf("unable to load the image at %q: %w", config.ImagePath, err)
	}
	logger.Info("image info", "width", info.W, "height", info.H, "model", info.Model, "format", info.Format)

	msg, err := New(config.Codec, logger).Decode(img)
	if err != nil {
		return "", err
	}

	if len(config.OutPath) > 0 {
		logger.Info("writing the message", "path", config.OutPath)
		if err = os.WriteFile(config.OutPath, []byte(msg), 0644); err != nil {
			return "", fmt.Errorf("unable to write the message to %q: %w", config.OutPath, err)
		}
	}

	return msg, nil
}

// Decode reads the message hidden in img.
//
// Content that fails validation never aborts decoding: it comes back as InvalidUTF8Text, InvalidUTF16Text or
// U+FFFD characters. An image that runs out of slots before a whole frame is read is decoded on a best-effort
// basis. An unknown encoding tag is an *InvalidEncodingTagError, unless FailSoft is set.
func (c *Codec) Decode(img *image.NRGBA) (string, error) {
	if img == nil {
		return "", &InvalidFormatError{"The image is nil."}
	}

	c.logger.Info("reading the message from the image", "capacity", Capacity(img, c.cfg))
	next := algos.SequentialAddressor(img, c.cfg.filter())

	var p frameParser
	for {
		slot, err := next()
		if err != nil {
			var empty *algos.EmptyPoolError
			if !errors.As(err, &empty) {
				return "", err
			}
			c.logger.Warn("the image ran out of slots before a whole message was read, decoding what was read",
				"bits", len(p.bits))
			return p.fallback(), nil
		}

		bit := uint8(binmani.ReadFrom(uint16(img.Pix[slot.Offset]), 0, 1))
		if c.cfg.Verbose {
			c.logger.Debug("read bit", "x", slot.X, "y", slot.Y, "channel", Channel(slot.Channel),
				"value", img.Pix[slot.Offset], "bit", bit)
		}

		done, err := p.push(bit)
		if err != nil {
			if c.cfg.FailSoft {
				c.logger.Warn("the header is not valid, decoding what was read", "error", err)
				return p.fallback(), nil
			}
			return "", err
		}
		if done {
			c.logger.Info("read the message", "encoding", p.encoding, "bits", p.length)
			return p.text, nil
		}
	}
}
