// Package imgio loads images into the 8-bit non-premultiplied RGBA form the codec works on, and writes them
// back out in a lossless format.
package imgio

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Format is an output image format.
type Format int

const (
	FormatUnknown Format = iota // An unknown format.
	FormatPNG     Format = iota // PNG, at the best compression level.
	FormatBMP     Format = iota // Uncompressed BMP.
	FormatTIFF    Format = iota // Deflate-compressed TIFF.
)

// Returns the name of the format, or "<unknown>" if unknown.
func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatBMP:
		return "bmp"
	case FormatTIFF:
		return "tiff"
	default:
		return "<unknown>"
	}
}

// ImgInfo describes a loaded image as it was before conversion.
type ImgInfo struct {
	W, H   int
	Model  string // The colour model of the source image.
	Format string // The file format the image was decoded from.
}

// Error types

// UnsupportedFormatError is returned when an image can't be written in the format its path asks for.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	switch strings.ToLower(e.Ext) {
	case ".jpg", ".jpeg", ".gif", ".webp":
		return fmt.Sprintf("Writing %v images would destroy the hidden bits; use .png, .bmp or .tiff.", e.Ext)
	case "":
		return "The output path has no extension; use .png, .bmp or .tiff."
	default:
		return fmt.Sprintf("The output format %q is not supported; use .png, .bmp or .tiff.", e.Ext)
	}
}

// Primary methods

// FormatFromPath picks the output format from a path's extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	switch strings.ToLower(ext) {
	case ".png":
		return FormatPNG, nil
	case ".bmp":
		return FormatBMP, nil
	case ".tif", ".tiff":
		return FormatTIFF, nil
	default:
		return FormatUnknown, &UnsupportedFormatError{Ext: ext}
	}
}

// LoadImage reads and decodes the image at imgPath.
func LoadImage(imgPath string) (img *image.NRGBA, info ImgInfo, err error) {
	imgFile, err := os.Open(imgPath)
	if err != nil {
		return nil, ImgInfo{}, err
	}

	defer func() {
		if cerr := imgFile.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return ReadImage(imgFile)
}

// ReadImage decodes an image in any registered format from r.
func ReadImage(r io.Reader) (*image.NRGBA, ImgInfo, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		return nil, ImgInfo{}, err
	}

	dims := src.Bounds()
	info := ImgInfo{W: dims.Dx(), H: dims.Dy(), Model: ColourModelToStr(src.ColorModel()), Format: format}
	return ToNRGBA(src), info, nil
}

// WriteImage encodes img to outPath, in the format its extension names.
func WriteImage(img image.Image, outPath string) (err error) {
	format, err := FormatFromPath(outPath)
	if err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}

	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return EncodeImage(f, img, format)
}

// EncodeImage encodes img to w in the given format.
func EncodeImage(w io.Writer, img image.Image, format Format) error {
	switch format {
	case FormatPNG:
		encoder := png.Encoder{CompressionLevel: png.BestCompression}
		return encoder.Encode(w, img)
	case FormatBMP:
		return bmp.Encode(w, img)
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return &UnsupportedFormatError{Ext: format.String()}
	}
}

// ToNRGBA converts img to 8-bit non-premultiplied RGBA with bounds starting at (0, 0).
// An *image.NRGBA is copied so that the result never aliases the input.
func ToNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	switch simg := img.(type) {
	case *image.NRGBA:
		for y := 0; y < b.Dy(); y++ {
			i := simg.PixOffset(b.Min.X, b.Min.Y+y)
			copy(dst.Pix[y*dst.Stride:(y+1)*dst.Stride], simg.Pix[i:i+4*b.Dx()])
		}
	default:
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	}
	return dst
}

// ColourModelToStr names a standard colour model, or returns "<Unknown>".
func ColourModelToStr(model color.Model) string {
	switch model {
	case color.Alpha16Model:
		return "Alpha16"
	case color.AlphaModel:
		return "Alpha"
	case color.CMYKModel:
		return "CMYK"
	case color.Gray16Model:
		return "Gray16"
	case color.GrayModel:
		return "Gray"
	case color.NRGBA64Model:
		return "NRGBA64"
	case color.NRGBAModel:
		return "NRGBA"
	case color.RGBA64Model:
		return "RGBA64"
	case color.RGBAModel:
		return "RGBA"
	case color.NYCbCrAModel:
		return "NYCbCrA"
	case color.YCbCrModel:
		return "YCbCr"
	default:
		if _, ok := model.(color.Palette); ok {
			return "Paletted"
		}
		return "<Unknown>"
	}
}
