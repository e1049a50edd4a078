package steg

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapacity(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 3))

	assert.Equal(t, int64(72), Capacity(img, Config{}))
	assert.Equal(t, int64(96), Capacity(img, Config{IncludeAlpha: true}))
	assert.Equal(t, int64(3), Capacity(image.NewNRGBA(image.Rect(0, 0, 1, 1)), Config{}))
	assert.Equal(t, int64(4), Capacity(image.NewNRGBA(image.Rect(0, 0, 1, 1)), Config{IncludeAlpha: true}))
	assert.Zero(t, Capacity(nil, Config{}))
}

func TestCapacityIgnoresSkipRules(t *testing.T) {
	img := uniform(4, 4, color.NRGBA{255, 255, 255, 255})
	img.SetNRGBA(2, 2, color.NRGBA{12, 34, 56, 255})
	cfg := Config{SkipWhite: true}

	assert.Equal(t, int64(48), Capacity(img, cfg))
	assert.Equal(t, int64(3), EligibleSlots(img, cfg))
	assert.Equal(t, int64(48), EligibleSlots(img, Config{}))
	assert.Zero(t, EligibleSlots(nil, cfg))
}

func TestFramedBits(t *testing.T) {
	n, err := FramedBits("Hi", false)
	require.NoError(t, err)
	assert.Equal(t, int64(56), n)

	n, err = FramedBits("", false)
	require.NoError(t, err)
	assert.Equal(t, int64(40), n)

	// The UTF-8 expansion is written in full even though the header declares 16 bits per character
	n, err = FramedBits("你好", false)
	require.NoError(t, err)
	assert.Equal(t, int64(40+48), n)

	n, err = FramedBits("你好", true)
	require.NoError(t, err)
	assert.Equal(t, int64(40+32), n)
}
