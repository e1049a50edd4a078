package steg

import (
	"fmt"

	"github.com/alza54/find-web-session-challenge/internal/algos"
)

const (
	bitsPerByte uint8 = 8
	tagBits           = 8
	lengthBits        = 32
	headerBits        = tagBits + lengthBits
	VersionMax  uint8 = 1
	VersionMid  uint8 = 0
	VersionMin  uint8 = 0
)

// Shared types

// Channel identifies a pixel channel by its position in the RGBA tuple.
type Channel uint8

const (
	Red   Channel = iota // The red channel, index 0.
	Green Channel = iota // The green channel, index 1.
	Blue  Channel = iota // The blue channel, index 2.
	Alpha Channel = iota // The alpha channel, index 3.
)

// Returns the name of the channel, or "<unknown>" if unknown.
func (c Channel) String() string {
	switch c {
	case Red:
		return "Red"
	case Green:
		return "Green"
	case Blue:
		return "Blue"
	case Alpha:
		return "Alpha"
	default:
		return "<unknown>"
	}
}

// Config stores the options shared by the encode and decode operations.
// Decoding only succeeds with the exact configuration used in encoding.
type Config struct {
	// IncludeAlpha is whether the alpha channel carries bits.
	IncludeAlpha bool `yaml:"include_alpha"`
	// SkipWhite is whether pure white (255, 255, 255) pixels are left untouched, as they often form the background.
	SkipWhite bool `yaml:"skip_white_pixels"`
	// SkipBlack is whether pure black (0, 0, 0) pixels are left untouched.
	SkipBlack bool `yaml:"skip_black_pixels"`
	// Verbose enables a debug trace of every channel read or written.
	Verbose bool `yaml:"verbose"`
	// FailSoft turns encoding mismatches and invalid header tags into logged warnings instead of errors.
	FailSoft bool `yaml:"fail_soft"`
	// NativeUTF16 writes UTF16-tagged payloads as real UTF-16 code units instead of UTF-8 bytes.
	// Images written with it set are not readable as intended by older decoders.
	NativeUTF16 bool `yaml:"native_utf16"`
}

// DefaultConfig returns the configuration the bundled adapters use when none is given.
func DefaultConfig() Config {
	return Config{SkipWhite: true, FailSoft: true}
}

func (c Config) filter() algos.Filter {
	return algos.Filter{IncludeAlpha: c.IncludeAlpha, SkipWhite: c.SkipWhite, SkipBlack: c.SkipBlack}
}

// Error types

// InvalidFormatError is returned when the provided arguments are unusable.
type InvalidFormatError struct {
	ErrorDesc string
}

func (e InvalidFormatError) Error() string {
	if len(e.ErrorDesc) > 0 {
		return e.ErrorDesc
	}
	return "The provided data is of an invalid format."
}

// InsufficientHidingSpotsError is returned when the framed message does not fit in the image.
type InsufficientHidingSpotsError struct {
	Required   int64 // The number of bits the frame needs.
	Available  int64 // The number of bit-slots on offer.
	InnerError error
}

func (e *InsufficientHidingSpotsError) Error() string {
	ret := fmt.Sprintf("There is not enough space available to store the message within the provided image: "+
		"%d bits are required but only %d are available.", e.Required, e.Available)
	if e.InnerError != nil {
		return fmt.Sprintf("%v Inner error: %v", ret, e.InnerError.Error())
	}
	return ret
}

func (e *InsufficientHidingSpotsError) Unwrap() error {
	return e.InnerError
}

// EncodingMismatchError is returned when the caller expects a different encoding than the one the message needs.
type EncodingMismatchError struct {
	Expected Encoding
	Selected Encoding
}

func (e *EncodingMismatchError) Error() string {
	return fmt.Sprintf("The encoding of the message (%v) does not match the expected encoding (%v).", e.Selected, e.Expected)
}

// InvalidEncodingTagError is returned when the header read from an image names an unknown encoding.
// Likely caused by a bad configuration or an image that carries no message.
type InvalidEncodingTagError struct {
	Tag uint8
}

func (e *InvalidEncodingTagError) Error() string {
	return fmt.Sprintf("The read header is not valid: unknown encoding tag %#02x.", e.Tag)
}

// UnstableSlotError is returned when writing a bit would turn an eligible pixel into one the skip rules exclude,
// so the message could never be read back.
type UnstableSlotError struct {
	X, Y int
}

func (e *UnstableSlotError) Error() string {
	return fmt.Sprintf("Writing to the pixel at (%d, %d) would make it a skipped colour; "+
		"disable the skip rules for this image.", e.X, e.Y)
}

// Library methods

// Version returns the library version string.
func Version() string {
	return fmt.Sprintf("%02d.%02d.%02d", VersionMax, VersionMid, VersionMin)
}
