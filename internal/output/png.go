package output

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/wcharczuk/go-chart/v2"
	"golang.org/x/image/draw"
)

// CropPad is the margin, in pixels, kept around the drawn content.
const CropPad = 10

// WritePNG renders c and writes it to filePath, cropped to the drawn content.
// An existing file is replaced.
func WritePNG(c *chart.Chart, filePath string) (image.Rectangle, error) {
	var buf bytes.Buffer
	if err := c.Render(chart.PNG, &buf); err != nil {
		return image.Rectangle{}, fmt.Errorf("cannot render chart: %w", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return image.Rectangle{}, fmt.Errorf("cannot decode rendered chart: %w", err)
	}
	cropped := Crop(img, CropPad)

	buf.Reset()
	if err := png.Encode(&buf, cropped); err != nil {
		return image.Rectangle{}, fmt.Errorf("cannot encode image: %w", err)
	}
	if err := writeFile(filePath, buf.Bytes()); err != nil {
		return image.Rectangle{}, err
	}
	return cropped.Bounds(), nil
}

// Crop returns the part of img that differs from its top left pixel, grown
// by pad pixels on every side and limited to the original bounds. A uniform
// image is returned unchanged.
func Crop(img image.Image, pad int) image.Image {
	b := img.Bounds()
	if b.Empty() {
		return img
	}
	bg := color.RGBAModel.Convert(img.At(b.Min.X, b.Min.Y))
	content := image.Rectangle{}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if color.RGBAModel.Convert(img.At(x, y)) != bg {
				content = content.Union(image.Rect(x, y, x+1, y+1))
			}
		}
	}
	if content.Empty() {
		return img
	}
	r := image.Rect(content.Min.X-pad, content.Min.Y-pad, content.Max.X+pad, content.Max.Y+pad).Intersect(b)
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Copy(dst, image.Point{}, img, r, draw.Src, nil)
	return dst
}

// writeFile replaces filePath with data through a temporary file in the same
// directory.
func writeFile(filePath string, data []byte) error {
	dir := filepath.Dir(filePath)
	f, err := os.CreateTemp(dir, "."+filepath.Base(filePath)+".*")
	if err != nil {
		return fmt.Errorf("cannot create output file: %w", err)
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("cannot write output file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("cannot write output file: %w", err)
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("cannot write output file: %w", err)
	}
	if err := os.Rename(tmp, filePath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("cannot replace %s: %w", filePath, err)
	}
	return nil
}
