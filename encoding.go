package steg

import (
	"strings"
	"unicode/utf8"
)

// Encoding is the character encoding of a hidden message, stored as the first byte of the header.
type Encoding uint8

const (
	EncodingUnknown Encoding = 0x00 // An unknown encoding.
	EncodingASCII   Encoding = 0x07 // 7-bit ASCII, one byte per character.
	EncodingUTF8    Encoding = 0x08 // UTF-8.
	EncodingUTF16   Encoding = 0x10 // UTF-16, big-endian code units.
	EncodingUTF32   Encoding = 0x20 // UTF-32, one 32-bit code point per character.
)

// IsValid reports whether e is one of the four known encodings.
func (e Encoding) IsValid() bool {
	switch e {
	case EncodingASCII, EncodingUTF8, EncodingUTF16, EncodingUTF32:
		return true
	default:
		return false
	}
}

// Returns the name of the encoding, or "<unknown>" if unknown.
func (e Encoding) String() string {
	switch e {
	case EncodingASCII:
		return "ASCII"
	case EncodingUTF8:
		return "UTF8"
	case EncodingUTF16:
		return "UTF16"
	case EncodingUTF32:
		return "UTF32"
	default:
		return "<unknown>"
	}
}

// groupBits is the width of one payload group when decoding.
func (e Encoding) groupBits() int {
	switch e {
	case EncodingUTF16:
		return 16
	case EncodingUTF32:
		return 32
	default:
		return int(bitsPerByte)
	}
}

// StringToEncoding parses an encoding name, or returns EncodingUnknown if the string is not recognized.
func StringToEncoding(str string) Encoding {
	switch strings.ToLower(strings.ReplaceAll(str, "-", "")) {
	case "ascii":
		return EncodingASCII
	case "utf8":
		return EncodingUTF8
	case "utf16":
		return EncodingUTF16
	case "utf32":
		return EncodingUTF32
	default:
		return EncodingUnknown
	}
}

// SelectEncoding picks the smallest encoding able to represent the whole of text, and returns it along with the
// exact number of payload bits it costs.
//
// Any code point above U+FFFF forces UTF32 for the entire message. Between UTF8 and UTF16 the cheaper one wins,
// ties going to UTF8.
func SelectEncoding(text string) (Encoding, uint64) {
	text = strings.ToValidUTF8(text, string(utf8.RuneError))

	var maxCodePoint rune
	var chars, utf8Bits uint64
	for _, r := range text {
		if r > maxCodePoint {
			maxCodePoint = r
		}
		chars++
		switch {
		case r <= 0x7f:
			utf8Bits += 8
		case r <= 0x7ff:
			utf8Bits += 16
		default:
			utf8Bits += 24
		}
	}

	switch {
	case maxCodePoint <= 0x7f:
		return EncodingASCII, chars * 8
	case maxCodePoint <= 0xffff:
		if utf16Bits := chars * 16; utf16Bits < utf8Bits {
			return EncodingUTF16, utf16Bits
		}
		return EncodingUTF8, utf8Bits
	default:
		return EncodingUTF32, chars * 32
	}
}
