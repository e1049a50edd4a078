package steg

import (
	"bytes"
	"fmt"

	"github.com/alza54/find-web-session-challenge/imgio"
)

// EncodeBytes hides text in an encoded image file held in memory, and returns the result as a PNG file.
func (c *Codec) EncodeBytes(data []byte, text string) ([]byte, error) {
	img, _, err := imgio.ReadImage(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unable to decode the image: %w", err)
	}

	out, err := c.Encode(img, text)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err = imgio.EncodeImage(&buf, out, imgio.FormatPNG); err != nil {
		return nil, fmt.Errorf("unable to encode the image: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeBytes reads the message hidden in an encoded image file held in memory.
func (c *Codec) DecodeBytes(data []byte) (string, error) {
	img, _, err := imgio.ReadImage(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("unable to decode the image: %w", err)
	}
	return c.Decode(img)
}
