package asset_shrinker

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// tempDir is t.TempDir with symlinks resolved, so paths compare equal to the
// ones CollectTargets produces.
func tempDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to resolve temp dir: %v", err)
	}
	return dir
}

func gradientImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: uint8((x + y) % 256),
				A: 255,
			})
		}
	}
	return img
}

func writeTestPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, gradientImage(w, h)); err != nil {
		t.Fatalf("Failed to encode %s: %v", path, err)
	}
}

func writeTestFile(t *testing.T, path string, content []byte) {
	t.Helper()
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
}

// pngSize returns the header of the png at path and the length of its
// palette, zero when it is not paletted.
func pngSize(t *testing.T, path string) (image.Config, int) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open %s: %v", path, err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("%s is not a png: %v", path, err)
	}
	palette, _ := cfg.ColorModel.(color.Palette)
	return cfg, len(palette)
}

func pngDecodePaletted(r io.Reader) (*image.Paletted, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, err
	}
	paletted, ok := img.(*image.Paletted)
	if !ok {
		return nil, fmt.Errorf("expected a paletted png, got %T", img)
	}
	return paletted, nil
}

// fakeCodec decodes files by name to blank images of preset sizes and records
// the parameters it is called with.
type fakeCodec struct {
	sizes map[string]image.Point

	decoded   []string
	resizes   []image.Point
	quantizes []int
	encodeErr error
}

const fakeEncodedSize = 100

func (c *fakeCodec) Decode(path string) (image.Image, error) {
	c.decoded = append(c.decoded, filepath.Base(path))
	size, ok := c.sizes[filepath.Base(path)]
	if !ok {
		return nil, errors.New("image: unknown format")
	}
	return image.NewNRGBA(image.Rect(0, 0, size.X, size.Y)), nil
}

func (c *fakeCodec) Resize(img image.Image, width, height int) image.Image {
	c.resizes = append(c.resizes, image.Pt(width, height))
	return image.NewNRGBA(image.Rect(0, 0, width, height))
}

func (c *fakeCodec) Quantize(img image.Image, colors int) *image.Paletted {
	c.quantizes = append(c.quantizes, colors)
	return image.NewPaletted(img.Bounds(), color.Palette{color.Transparent, color.White})
}

func (c *fakeCodec) Encode(out io.Writer, img image.Image) error {
	if c.encodeErr != nil {
		return c.encodeErr
	}
	_, err := out.Write(bytes.Repeat([]byte{'x'}, fakeEncodedSize))
	return err
}
