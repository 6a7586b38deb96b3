package avatar

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"io"

	// decoders for image.Decode
	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
)

const (
	// Size is the edge length of stored profile pictures.
	Size = 256

	MinScale = 0.5
	MaxScale = 3.0

	// MaxUploadBytes bounds what Decode will read.
	MaxUploadBytes = 8 << 20
	// MaxPixels bounds the decoded image area.
	MaxPixels = 40_000_000

	jpegQuality = 92
)

// Crop is the user's framing of an uploaded picture: a pan offset in source
// pixels and a zoom factor.
type Crop struct {
	OffsetX float64 `json:"cropX"`
	OffsetY float64 `json:"cropY"`
	Scale   float64 `json:"scale"`
}

// Decode reads a JPEG, PNG or GIF image. Anything else fails with
// ErrNotImage; oversized input fails with ErrTooLarge.
func Decode(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxUploadBytes {
		return nil, ErrTooLarge
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Join(ErrNotImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, ErrNotImage
	}
	if cfg.Width*cfg.Height > MaxPixels {
		return nil, ErrTooLarge
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Join(ErrNotImage, err)
	}
	return img, nil
}

// ClampScale limits the zoom factor to [MinScale, MaxScale]. Zero means 1.
func ClampScale(scale float64) float64 {
	if scale == 0 {
		return 1
	}
	return min(max(scale, MinScale), MaxScale)
}

// CropAndResize renders src into a size x size square. The source is centred
// on the square, shifted by the crop offset, and drawn at crop.Scale times
// its natural size. Uncovered areas are white.
func CropAndResize(src image.Image, size int, crop Crop) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	b := src.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	scale := ClampScale(crop.Scale)

	dx := crop.OffsetX + w/2 - float64(size)/2
	dy := crop.OffsetY + h/2 - float64(size)/2

	target := image.Rect(
		int(-dx),
		int(-dy),
		int(-dx+w*scale),
		int(-dy+h*scale),
	)
	if target.Empty() {
		return dst
	}

	draw.CatmullRom.Scale(dst, target, src, b, draw.Over, nil)
	return dst
}

// DataURL encodes img as a JPEG data URL.
func DataURL(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", err
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Process decodes r, applies crop at Size and returns the data URL.
func Process(r io.Reader, crop Crop) (string, error) {
	img, err := Decode(r)
	if err != nil {
		return "", err
	}
	return DataURL(CropAndResize(img, Size, crop))
}
