package steg

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/zedseven/binmani"
	"golang.org/x/text/encoding/unicode"

	"github.com/alza54/find-web-session-challenge/internal/util"
)

// Text returned in place of a payload that fails validation.
const (
	InvalidUTF8Text  = "Invalid UTF-8"
	InvalidUTF16Text = "Invalid UTF-16"
)

// utf16BE has no BOM handling in either direction, so every code unit is payload.
var utf16BE = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// Frame is a message laid out as a bitstream: an 8-bit encoding tag, a 32-bit payload length in bits, and the
// payload. Every value is stored most-significant bit first, one bit per element.
type Frame struct {
	Encoding    Encoding // The encoding named in the header.
	PayloadBits uint32   // The payload length declared in the header.
	bits        []uint8
}

// Len returns the number of bits the frame occupies.
func (f *Frame) Len() int64 {
	return int64(len(f.bits))
}

// Bits returns a copy of the frame's bitstream.
func (f *Frame) Bits() []uint8 {
	return append([]uint8(nil), f.bits...)
}

// BuildFrame lays text out as a frame. The encoding is chosen by SelectEncoding and must equal expected.
//
// For every encoding except UTF32 the payload bits are the UTF-8 bytes of text, so a UTF16-tagged frame declares
// 16 bits per character while carrying the UTF-8 expansion. Decoders read it back as 16-bit units, which only
// reproduces the text if nativeUTF16 was set, in which case real UTF-16 code units are written instead.
func BuildFrame(text string, expected Encoding, nativeUTF16 bool) (*Frame, error) {
	if !expected.IsValid() {
		return nil, &InvalidFormatError{fmt.Sprintf("The expected encoding (%#02x) is not a known encoding.", uint8(expected))}
	}

	text = strings.ToValidUTF8(text, string(utf8.RuneError))
	enc, size := SelectEncoding(text)
	if enc != expected {
		return nil, &EncodingMismatchError{Expected: expected, Selected: enc}
	}
	if size > math.MaxUint32 {
		return nil, &InvalidFormatError{fmt.Sprintf("The message needs %d bits, more than a header can describe.", size)}
	}

	f := &Frame{Encoding: enc, PayloadBits: uint32(size)}
	f.bits = make([]uint8, 0, headerBits+len(text)*int(bitsPerByte))
	f.bits = appendByteBits(f.bits, uint8(enc))
	f.bits = appendUint32Bits(f.bits, f.PayloadBits)

	switch {
	case enc == EncodingUTF32:
		for _, r := range text {
			f.bits = appendUint32Bits(f.bits, uint32(r))
		}
	case enc == EncodingUTF16 && nativeUTF16:
		units, err := utf16BE.NewEncoder().String(text)
		if err != nil {
			return nil, err
		}
		for i := 0; i < len(units); i++ {
			f.bits = appendByteBits(f.bits, units[i])
		}
	default:
		for i := 0; i < len(text); i++ {
			f.bits = appendByteBits(f.bits, text[i])
		}
	}

	return f, nil
}

// ParseFrame runs the frame parser over bits. If the bits end before a frame is complete, the fallback decoding
// is returned with complete set to false.
func ParseFrame(bits []uint8) (text string, complete bool, err error) {
	var p frameParser
	for _, b := range bits {
		done, err := p.push(b)
		if err != nil {
			return "", false, err
		}
		if done {
			return p.text, true, nil
		}
	}
	return p.fallback(), false, nil
}

// Parser

type parseState uint8

const (
	stateTag parseState = iota
	stateLength
	statePayload
	stateDone
)

// frameParser reads a frame one bit at a time. The zero value is ready for use.
type frameParser struct {
	bits     []uint8
	state    parseState
	encoding Encoding
	length   uint32
	text     string
}

// push appends a bit and advances the parser, reporting whether a whole frame has now been read.
func (p *frameParser) push(bit uint8) (bool, error) {
	if p.state == stateDone {
		return true, nil
	}
	p.bits = append(p.bits, bit&1)

	switch p.state {
	case stateTag:
		if len(p.bits) < tagBits {
			return false, nil
		}
		tag := Encoding(foldBits(p.bits[:tagBits]))
		if !tag.IsValid() {
			return false, &InvalidEncodingTagError{Tag: uint8(tag)}
		}
		p.encoding = tag
		p.state = stateLength
		return false, nil
	case stateLength:
		if len(p.bits) < headerBits {
			return false, nil
		}
		p.length = foldBits(p.bits[tagBits:headerBits])
		p.state = statePayload
	}

	if uint64(len(p.bits)-headerBits) < uint64(p.length) {
		return false, nil
	}
	p.text = decodePayload(p.encoding, p.bits[headerBits:])
	p.state = stateDone
	return true, nil
}

// fallback decodes everything read so far, header included, as raw 32-bit code points.
func (p *frameParser) fallback() string {
	return decodeCodePoints(groupBits(p.bits, 32))
}

// Payload decoding

func decodePayload(enc Encoding, bits []uint8) string {
	groups := groupBits(bits, enc.groupBits())

	switch enc {
	case EncodingASCII:
		runes := make([]rune, len(groups))
		for i, g := range groups {
			runes[i] = rune(g)
		}
		return string(runes)
	case EncodingUTF8:
		b := make([]byte, len(groups))
		for i, g := range groups {
			b[i] = byte(g)
		}
		if !utf8.Valid(b) {
			return InvalidUTF8Text
		}
		return string(b)
	case EncodingUTF16:
		units := make([]uint16, len(groups))
		b := make([]byte, 0, 2*len(groups))
		for i, g := range groups {
			units[i] = uint16(g)
			b = binary.BigEndian.AppendUint16(b, units[i])
		}
		if !validUTF16(units) {
			return InvalidUTF16Text
		}
		text, err := utf16BE.NewDecoder().Bytes(b)
		if err != nil {
			return InvalidUTF16Text
		}
		return string(text)
	default:
		return decodeCodePoints(groups)
	}
}

// decodeCodePoints maps every group to its code point, substituting U+FFFD for values that aren't Unicode scalars.
func decodeCodePoints(groups []uint32) string {
	var b strings.Builder
	for _, g := range groups {
		r := rune(g)
		if g > utf8.MaxRune || !utf8.ValidRune(r) {
			r = utf8.RuneError
		}
		b.WriteRune(r)
	}
	return b.String()
}

// validUTF16 reports whether every surrogate in units is part of a high-low pair.
func validUTF16(units []uint16) bool {
	for i := 0; i < len(units); i++ {
		u := rune(units[i])
		if !utf16.IsSurrogate(u) {
			continue
		}
		if u >= 0xdc00 || i+1 >= len(units) {
			return false
		}
		if next := rune(units[i+1]); next < 0xdc00 || next > 0xdfff {
			return false
		}
		i++
	}
	return true
}

// Bit helpers

// appendByteBits appends the 8 bits of b, most-significant first.
func appendByteBits(bits []uint8, b byte) []uint8 {
	for j := uint8(0); j < bitsPerByte; j++ {
		bits = append(bits, uint8(binmani.ReadFrom(uint16(b), bitsPerByte-j-1, 1)))
	}
	return bits
}

// appendUint32Bits appends the 32 bits of v, most-significant first.
func appendUint32Bits(bits []uint8, v uint32) []uint8 {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	for _, b := range buf {
		bits = appendByteBits(bits, b)
	}
	return bits
}

// foldBits reads up to 32 bits as an unsigned number, most-significant first.
func foldBits(bits []uint8) uint32 {
	var v uint32
	for _, b := range bits {
		v = v<<1 | uint32(b&1)
	}
	return v
}

// groupBits splits bits into groups of width bits. A shorter final group is folded on its own.
func groupBits(bits []uint8, width int) []uint32 {
	groups := make([]uint32, 0, (len(bits)+width-1)/width)
	for i := 0; i < len(bits); i += width {
		groups = append(groups, foldBits(bits[i:util.Min(i+width, len(bits))]))
	}
	return groups
}
