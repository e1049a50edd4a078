package steg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// header returns the bits of a frame header.
func header(tag uint8, n uint32) []uint8 {
	return appendUint32Bits(appendByteBits(nil, tag), n)
}

func withBytes(bits []uint8, bs ...byte) []uint8 {
	for _, b := range bs {
		bits = appendByteBits(bits, b)
	}
	return bits
}

func withUint32s(bits []uint8, vs ...uint32) []uint8 {
	for _, v := range vs {
		bits = appendUint32Bits(bits, v)
	}
	return bits
}

func TestBuildFrameHeader(t *testing.T) {
	f, err := BuildFrame("Hi", EncodingASCII, false)
	require.NoError(t, err)

	assert.Equal(t, EncodingASCII, f.Encoding)
	assert.Equal(t, uint32(16), f.PayloadBits)
	assert.Equal(t, int64(56), f.Len())

	want := withBytes(header(0x07, 16), 'H', 'i')
	assert.Equal(t, want, f.Bits())
	assert.Equal(t, []uint8{0, 0, 0, 0, 0, 1, 1, 1}, f.Bits()[:8])
}

func TestBuildFrameEmpty(t *testing.T) {
	f, err := BuildFrame("", EncodingASCII, false)
	require.NoError(t, err)
	assert.Equal(t, int64(headerBits), f.Len())
	assert.Equal(t, header(0x07, 0), f.Bits())
}

func TestBuildFrameUTF32(t *testing.T) {
	f, err := BuildFrame("a😀", EncodingUTF32, false)
	require.NoError(t, err)
	assert.Equal(t, withUint32s(header(0x20, 64), 'a', 0x1f600), f.Bits())
}

func TestBuildFrameUTF8(t *testing.T) {
	f, err := BuildFrame("ñ", EncodingUTF8, false)
	require.NoError(t, err)
	assert.Equal(t, withBytes(header(0x08, 16), 0xc3, 0xb1), f.Bits())
}

func TestBuildFrameUTF16(t *testing.T) {
	// 你 = U+4F60, 好 = U+597D
	compat, err := BuildFrame("你好", EncodingUTF16, false)
	require.NoError(t, err)
	assert.Equal(t, uint32(32), compat.PayloadBits)
	assert.Equal(t, withBytes(header(0x10, 32), 0xe4, 0xbd, 0xa0, 0xe5, 0xa5, 0xbd), compat.Bits())

	native, err := BuildFrame("你好", EncodingUTF16, true)
	require.NoError(t, err)
	assert.Equal(t, withBytes(header(0x10, 32), 0x4f, 0x60, 0x59, 0x7d), native.Bits())
}

func TestBuildFrameMismatch(t *testing.T) {
	_, err := BuildFrame("héllo", EncodingASCII, false)
	var mismatch *EncodingMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, EncodingASCII, mismatch.Expected)
	assert.Equal(t, EncodingUTF8, mismatch.Selected)

	_, err = BuildFrame("hello", Encoding(0x42), false)
	var invalid *InvalidFormatError
	assert.ErrorAs(t, err, &invalid)
}

func TestParseFrame(t *testing.T) {
	tests := []struct {
		name string
		bits []uint8
		want string
	}{
		{"ascii", withBytes(header(0x07, 16), 'H', 'i'), "Hi"},
		{"ascii high byte", withBytes(header(0x07, 8), 0xe9), "é"},
		{"empty", header(0x07, 0), ""},
		{"utf8", withBytes(header(0x08, 16), 0xc3, 0xb1), "ñ"},
		{"utf8 invalid", withBytes(header(0x08, 8), 0xff), InvalidUTF8Text},
		{"utf8 truncated sequence", withBytes(header(0x08, 8), 0xc3), InvalidUTF8Text},
		{"utf16", withBytes(header(0x10, 32), 0x4f, 0x60, 0x59, 0x7d), "你好"},
		{"utf16 pair", withBytes(header(0x10, 32), 0xd8, 0x3d, 0xde, 0x00), "😀"},
		{"utf16 bom kept", withBytes(header(0x10, 16), 0xfe, 0xff), "\ufeff"},
		{"utf16 lone high", withBytes(header(0x10, 16), 0xd8, 0x00), InvalidUTF16Text},
		{"utf16 lone low", withBytes(header(0x10, 32), 0xdc, 0x00, 0x00, 0x41), InvalidUTF16Text},
		{"utf32", withUint32s(header(0x20, 64), 'A', 0x1f600), "A😀"},
		{"utf32 invalid", withUint32s(header(0x20, 96), 'A', 0x110000, 0xd800), "A\ufffd\ufffd"},
		{"partial group", append(header(0x07, 4), 0, 1, 0, 1), "\x05"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, complete, err := ParseFrame(tt.bits)
			require.NoError(t, err)
			assert.True(t, complete)
			assert.Equal(t, tt.want, text)
		})
	}
}

func TestParseFrameIgnoresTrailingBits(t *testing.T) {
	bits := withBytes(header(0x07, 8), 'x', 'y', 'z')
	text, complete, err := ParseFrame(bits)
	require.NoError(t, err)
	assert.True(t, complete)
	assert.Equal(t, "x", text)
}

func TestParseFrameInvalidTag(t *testing.T) {
	for _, tag := range []uint8{0x00, 0x06, 0x09, 0xff} {
		_, _, err := ParseFrame(header(tag, 8))
		var invalid *InvalidEncodingTagError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, tag, invalid.Tag)
	}
}

func TestParseFrameFallback(t *testing.T) {
	tests := []struct {
		name string
		bits []uint8
		want string
	}{
		{"nothing", nil, ""},
		{"short tag", []uint8{0, 0, 0, 0, 0, 1}, "\x01"},
		// 0x07000000 is no code point; the low length byte and the payload byte make U+4041
		{"short payload", withBytes(header(0x07, 64), 'A'), "\ufffd\u4041"},
		{"header only", header(0x08, 8), "\ufffd\x08"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, complete, err := ParseFrame(tt.bits)
			require.NoError(t, err)
			assert.False(t, complete)
			assert.Equal(t, tt.want, text)
		})
	}
}

func TestFrameRoundTrip(t *testing.T) {
	texts := []string{"", "Hello, world!", "ñandú", "Здравствуйте", "€100", "你好", "a😀b", "line\nbreak\ttab"}
	for _, native := range []bool{true, false} {
		for _, text := range texts {
			enc, _ := SelectEncoding(text)
			if enc == EncodingUTF16 && !native {
				continue
			}
			f, err := BuildFrame(text, enc, native)
			require.NoError(t, err)

			got, complete, err := ParseFrame(f.Bits())
			require.NoError(t, err)
			assert.True(t, complete)
			assert.Equal(t, text, got)
		}
	}
}
