package steg

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/zedseven/binmani"

	"github.com/alza54/find-web-session-challenge/imgio"
	"github.com/alza54/find-web-session-challenge/internal/algos"
	"github.com/alza54/find-web-session-challenge/internal/util"
)

// HideConfig stores the configuration options for the Hide operation.
type HideConfig struct {
	// ImagePath is the path on disk to a supported image.
	ImagePath string
	// Message is the text to hide.
	Message string
	// OutPath is the path on disk to write the output image. DefaultOutPath(ImagePath) is used if it's empty.
	OutPath string
	// Encoding is the encoding the message is expected to need. EncodingUnknown accepts whichever is selected.
	Encoding Encoding
	// Codec is the codec configuration. Decoding has to use the same one.
	Codec Config
}

// Hide hides a message in a provided image on disk, and saves the result to a new image.
func Hide(config *HideConfig, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	// Input validation
	if len(config.ImagePath) <= 0 {
		return &InvalidFormatError{"ImagePath is empty."}
	}
	if config.Encoding != EncodingUnknown && !config.Encoding.IsValid() {
		return &InvalidFormatError{"Encoding is invalid."}
	}
	outPath := config.OutPath
	if len(outPath) <= 0 {
		outPath = DefaultOutPath(config.ImagePath)
	}
	format, err := imgio.FormatFromPath(outPath)
	if err != nil {
		return err
	}

	logger.Info(fmt.Sprintf("Steg v%v.", Version()))
	logger.Info("loading the image", "path", config.ImagePath)
	img, info, err := imgio.LoadImage(config.ImagePath)
	if err != nil {
		return fmt.Errorf("unable to load the image at %q: %w", config.ImagePath, err)
	}
	logger.Info("image info", "width", info.W, "height", info.H, "model", info.Model, "format", info.Format)

	codec := New(config.Codec, logger)
	expected := config.Encoding
	if expected == EncodingUnknown {
		expected, _ = SelectEncoding(config.Message)
	}
	out, err := codec.EncodeAs(img, config.Message, expected)
	if err != nil {
		return err
	}

	logger.Info("writing the encoded image", "path", outPath, "format", format)
	if err = imgio.WriteImage(out, outPath); err != nil {
		return fmt.Errorf("unable to write the encoded image to %q: %w", outPath, err)
	}

	logger.Info("all done")
	return nil
}

// DefaultOutPath returns the path an encoded image is written to when no other is given:
// the input's name with "_encoded.png" in place of its extension, in the same directory.
func DefaultOutPath(imgPath string) string {
	return strings.TrimSuffix(imgPath, filepath.Ext(imgPath)) + "_encoded.png"
}

// Encode hides text in a copy of img, using whichever encoding the text needs.
// The input image is never modified.
func (c *Codec) Encode(img *image.NRGBA, text string) (*image.NRGBA, error) {
	enc, _ := SelectEncoding(text)
	return c.EncodeAs(img, text, enc)
}

// EncodeAs hides text in a copy of img, failing if text needs an encoding other than expected.
//
// With FailSoft set an encoding mismatch is only logged, and img itself is returned untouched. A message too big
// for the image is always an error, and is detected before anything is written.
func (c *Codec) EncodeAs(img *image.NRGBA, text string, expected Encoding) (*image.NRGBA, error) {
	if img == nil {
		return nil, &InvalidFormatError{"The image is nil."}
	}

	frame, err := BuildFrame(text, expected, c.cfg.NativeUTF16)
	if err != nil {
		var mismatch *EncodingMismatchError
		if errors.As(err, &mismatch) && c.cfg.FailSoft {
			c.logger.Warn("leaving the image unmodified", "error", err)
			return img, nil
		}
		return nil, err
	}

	capacity := Capacity(img, c.cfg)
	c.logger.Info("encoding the message",
		"chars", utf8.RuneCountInString(text), "encoding", frame.Encoding, "bits", frame.Len(), "capacity", capacity)
	if c.cfg.Verbose {
		tag := fmt.Sprintf("%08b", uint8(frame.Encoding))
		size := fmt.Sprintf("%032b", frame.PayloadBits)
		c.logger.Debug("chosen string encoding",
			"value", frame.Encoding, "hex", fmt.Sprintf("%#x", uint8(frame.Encoding)), "binary", util.BinaryChunks(tag, 4))
		c.logger.Debug("calculated message size",
			"decimal", frame.PayloadBits, "hex", fmt.Sprintf("%#x", frame.PayloadBits), "binary", util.BinaryChunks(size, 4))
	}

	if frame.Len() > capacity {
		return nil, &InsufficientHidingSpotsError{Required: frame.Len(), Available: capacity}
	}
	if c.cfg.SkipWhite || c.cfg.SkipBlack {
		if slots := EligibleSlots(img, c.cfg); frame.Len() > slots {
			return nil, &InsufficientHidingSpotsError{Required: frame.Len(), Available: slots}
		}
	}

	out := cloneNRGBA(img)
	if err = c.embed(img, out, frame); err != nil {
		return nil, err
	}
	return out, nil
}

// embed writes the frame into dst, one bit per slot. Slots are chosen on src, which must have the same layout
// as dst and hold the image as it was before writing.
func (c *Codec) embed(src, dst *image.NRGBA, frame *Frame) error {
	filter := c.cfg.filter()
	next := algos.SequentialAddressor(src, filter)

	// A pixel only has to stay eligible once all of its channels are written
	var last *algos.Slot
	stable := func() error {
		if last == nil {
			return nil
		}
		p := last.Offset - int(last.Channel)
		if filter.Skips(dst.Pix[p], dst.Pix[p+1], dst.Pix[p+2]) {
			return &UnstableSlotError{X: last.X, Y: last.Y}
		}
		return nil
	}

	for i, bit := range frame.bits {
		slot, err := next()
		if err != nil {
			return &InsufficientHidingSpotsError{Required: frame.Len(), Available: int64(i), InnerError: err}
		}

		before := dst.Pix[slot.Offset]
		dst.Pix[slot.Offset] = uint8(binmani.WriteTo(uint16(before), 0, 1, uint16(bit)))

		if c.cfg.Verbose {
			c.logger.Debug("wrote bit", "x", slot.X, "y", slot.Y, "channel", Channel(slot.Channel),
				"before", before, "after", dst.Pix[slot.Offset], "bit", bit)
		}

		if last != nil && (last.X != slot.X || last.Y != slot.Y) {
			if err = stable(); err != nil {
				return err
			}
		}
		last = &slot
	}

	return stable()
}
