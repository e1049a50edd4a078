package steg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectEncoding(t *testing.T) {
	tests := []struct {
		text string
		enc  Encoding
		bits uint64
	}{
		{"", EncodingASCII, 0},
		{"ASCII message", EncodingASCII, 13 * 8},
		{"Hi", EncodingASCII, 16},
		{"ñ", EncodingUTF8, 16},
		{"Здравствуйте", EncodingUTF8, 12 * 16},
		{"a你", EncodingUTF8, 32},
		{"€", EncodingUTF16, 16},
		{"你好", EncodingUTF16, 32},
		{"𐍈", EncodingUTF32, 32},
		{"a😀", EncodingUTF32, 64},
		{"Hello, world! Witaj, świecie ! Здравствуйте ! 你好", EncodingUTF8, 8*33 + 16*13 + 24*2},
	}
	for _, tt := range tests {
		enc, bits := SelectEncoding(tt.text)
		assert.Equal(t, tt.enc, enc, "encoding of %q", tt.text)
		assert.Equal(t, tt.bits, bits, "bits of %q", tt.text)
	}
}

func TestSelectEncodingMonotonic(t *testing.T) {
	base := "plain ascii text"

	enc, _ := SelectEncoding(base)
	assert.Equal(t, EncodingASCII, enc)

	for _, r := range []rune{0x80, 0x7ff, 0x800, 0xfffd, 0xffff} {
		enc, _ = SelectEncoding(base + string(r))
		assert.Contains(t, []Encoding{EncodingUTF8, EncodingUTF16}, enc, "with %U", r)
	}

	for _, r := range []rune{0x10000, 0x1f600, 0x10ffff} {
		enc, bits := SelectEncoding(base + string(r))
		assert.Equal(t, EncodingUTF32, enc, "with %U", r)
		assert.Equal(t, uint64(len(base)+1)*32, bits)
	}
}

func TestSelectEncodingInvalidInput(t *testing.T) {
	enc, bits := SelectEncoding("a\xffb")
	assert.Equal(t, EncodingUTF8, enc)
	assert.Equal(t, uint64(8+24+8), bits)
}

func TestEncodingNames(t *testing.T) {
	for _, e := range []Encoding{EncodingASCII, EncodingUTF8, EncodingUTF16, EncodingUTF32} {
		assert.True(t, e.IsValid())
		assert.Equal(t, e, StringToEncoding(e.String()))
	}
	assert.Equal(t, EncodingUTF8, StringToEncoding("UTF-8"))
	assert.Equal(t, EncodingUnknown, StringToEncoding("latin1"))
	assert.False(t, EncodingUnknown.IsValid())
	assert.False(t, Encoding(0x09).IsValid())
	assert.Equal(t, "<unknown>", Encoding(0x09).String())
}
