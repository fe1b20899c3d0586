package screenshot

import (
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/blend"
	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/imgio"
	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// PixelFormat is the channel layout of a decoded source image. Images of
// different formats are never compared.
type PixelFormat int

const (
	R8G8B8A8 PixelFormat = iota
	R16G16B16A16
)

func (f PixelFormat) String() string {
	if f == R16G16B16A16 {
		return "R16G16B16A16"
	}
	return "R8G8B8A8"
}

// Image is a decoded screenshot, always held as 8-bit RGBA.
type Image struct {
	*image.RGBA
	Format PixelFormat
}

var supportedTypes = []string{"png", "bmp", "tif"}

// LoadImage decodes path. Failures are *LoadError values carrying the result
// code the comparison should report.
func LoadImage(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		code := FileNotLoaded
		if errors.Is(err, fs.ErrNotExist) {
			code = FileNotFound
		}
		return nil, &LoadError{Code: code, Path: path, Err: err}
	}
	head := make([]byte, 262)
	n, err := io.ReadFull(f, head)
	f.Close()
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, &LoadError{Code: FileNotLoaded, Path: path, Err: err}
	}
	head = head[:n]

	supported := false
	for _, ext := range supportedTypes {
		if filetype.Is(head, ext) {
			supported = true
			break
		}
	}
	if !supported {
		kind, _ := filetype.Match(head)
		return nil, &LoadError{Code: WrongFormat, Path: path, Err: fmt.Errorf("unsupported image type %q", kind.Extension)}
	}

	img, err := imgio.Open(path)
	if err != nil {
		return nil, &LoadError{Code: FileNotLoaded, Path: path, Err: err}
	}
	return FromImage(img), nil
}

// FromImage converts any decoded image, remembering its source depth.
func FromImage(img image.Image) *Image {
	format := R8G8B8A8
	switch img.(type) {
	case *image.RGBA64, *image.NRGBA64, *image.Gray16:
		format = R16G16B16A16
	}
	return &Image{RGBA: clone.AsRGBA(img), Format: format}
}

// SizeMismatchError reports images of different dimensions.
type SizeMismatchError struct {
	Expected, Actual image.Point
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("sizes don't match: expected %d x %d but was %d x %d",
		e.Expected.X, e.Expected.Y, e.Actual.X, e.Actual.Y)
}

// DiffRMS returns the root mean square of per-pixel differences, where a
// pixel's difference is its largest channel difference scaled to [0, 1].
// Pixels whose difference does not exceed filter contribute zero but still
// count toward the mean.
func DiffRMS(expected, actual *image.RGBA, filter float32) (float32, error) {
	es, as := expected.Bounds().Size(), actual.Bounds().Size()
	if es != as {
		return 0, &SizeMismatchError{Expected: es, Actual: as}
	}
	pixels := es.X * es.Y
	if pixels == 0 {
		return 0, nil
	}

	var sum float64
	for y := 0; y < es.Y; y++ {
		eRow := expected.Pix[expected.PixOffset(expected.Rect.Min.X, expected.Rect.Min.Y+y):]
		aRow := actual.Pix[actual.PixOffset(actual.Rect.Min.X, actual.Rect.Min.Y+y):]
		for x := 0; x < es.X*4; x += 4 {
			var maxDiff uint8
			for c := range 4 {
				d := eRow[x+c] - aRow[x+c]
				if aRow[x+c] > eRow[x+c] {
					d = aRow[x+c] - eRow[x+c]
				}
				maxDiff = max(maxDiff, d)
			}
			diff := float32(maxDiff) / 255
			if diff > filter {
				sum += float64(diff) * float64(diff)
			}
		}
	}
	return float32(math.Sqrt(sum / float64(pixels))), nil
}

// WriteDiffImage writes the per-channel absolute difference as an opaque PNG.
func WriteDiffImage(expected, actual *image.RGBA, path string) error {
	if expected.Bounds().Size() != actual.Bounds().Size() {
		return &SizeMismatchError{Expected: expected.Bounds().Size(), Actual: actual.Bounds().Size()}
	}
	diff := blend.Difference(expected, actual)
	for i := 3; i < len(diff.Pix); i += 4 {
		diff.Pix[i] = 0xff
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return imgio.Save(path, diff, imgio.PNGEncoder())
}

// SavePNG writes img to path, creating parent directories.
func SavePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return imgio.Save(path, img, imgio.PNGEncoder())
}
