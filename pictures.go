package asset_shrinker

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"github.com/disintegration/imageorient"
	"github.com/ericpauley/go-quantize/quantize"
	"github.com/nfnt/resize"
	"golang.org/x/image/draw"

	// registers the decoders imageorient dispatches to
	_ "golang.org/x/image/webp"
	_ "image/jpeg"
)

// Codec is everything the shrinker needs from an imaging library.
type Codec interface {
	// Decode reads the file at path into a full color image with alpha.
	Decode(path string) (image.Image, error)
	Resize(img image.Image, width, height int) image.Image
	// Quantize reduces img to a palette of at most colors entries.
	Quantize(img image.Image, colors int) *image.Paletted
	// Encode writes img as PNG.
	Encode(out io.Writer, img image.Image) error
}

// ImageCodec is the Codec used by the shrinker binary.
type ImageCodec struct{}

func (ImageCodec) Decode(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open file: %w", err)
	}
	defer file.Close()

	img, _, err := imageorient.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("could not decode file: %w", err)
	}

	return toNRGBA(img), nil
}

func toNRGBA(img image.Image) *image.NRGBA {
	if nrgba, ok := img.(*image.NRGBA); ok && nrgba.Rect.Min == (image.Point{}) {
		return nrgba
	}
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

func (ImageCodec) Resize(img image.Image, width, height int) image.Image {
	return resize.Resize(uint(width), uint(height), img, resize.Lanczos3)
}

func (ImageCodec) Quantize(img image.Image, colors int) *image.Paletted {
	transparent, visible := alphaCoverage(img)

	var palette color.Palette
	if visible {
		// fully transparent pixels get the slot AddTransparent reserves and
		// must not take part in the median cut
		q := quantize.MedianCutQuantizer{
			Aggregation:    quantize.Mean,
			Weighting:      skipTransparent,
			AddTransparent: transparent,
		}
		palette = uniqueColors(q.Quantize(make(color.Palette, 0, colors), img))
	}
	if len(palette) > colors {
		palette = palette[:colors]
	}
	if transparent && !hasTransparentEntry(palette) {
		if len(palette) == colors {
			palette = palette[:colors-1]
		}
		palette = append(palette, color.Transparent)
	}
	if len(palette) == 0 {
		palette = color.Palette{color.Transparent}
	}

	b := img.Bounds()
	out := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), palette)
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

func skipTransparent(img image.Image, x, y int) uint32 {
	if _, _, _, a := img.At(x, y).RGBA(); a == 0 {
		return 0
	}
	return 1
}

// alphaCoverage reports whether img has any fully transparent pixel and any
// pixel that is at least partly visible.
func alphaCoverage(img image.Image) (transparent, visible bool) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a == 0 {
				transparent = true
			} else {
				visible = true
			}
			if transparent && visible {
				return
			}
		}
	}
	return
}

func hasTransparentEntry(palette color.Palette) bool {
	for _, c := range palette {
		if _, _, _, a := c.RGBA(); a == 0 {
			return true
		}
	}
	return false
}

func uniqueColors(palette color.Palette) color.Palette {
	seen := make(map[color.RGBA64]bool, len(palette))
	unique := palette[:0]
	for _, c := range palette {
		r, g, b, a := c.RGBA()
		key := color.RGBA64{uint16(r), uint16(g), uint16(b), uint16(a)}
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, c)
	}
	return unique
}

func (ImageCodec) Encode(out io.Writer, img image.Image) error {
	encoder := png.Encoder{
		CompressionLevel: png.BestCompression,
	}
	return encoder.Encode(out, img)
}

// FitWithin returns the dimensions of a width x height image scaled down so that
// its longer side is maxSide. ok is false when the image already fits.
func FitWithin(width, height, maxSide int) (w, h int, ok bool) {
	if width <= maxSide && height <= maxSide {
		return width, height, false
	}
	if width >= height {
		return maxSide, atLeastOne(height * maxSide / width), true
	}
	return atLeastOne(width * maxSide / height), maxSide, true
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
