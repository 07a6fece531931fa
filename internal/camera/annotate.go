package camera

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/classmark/classmark/internal/database"
)

// Annotator writes preview frames with detected faces outlined and labeled.
// Previews are an operator aid only; every method is best-effort and failures
// never interrupt a scanning session.
type Annotator struct {
	dir string
}

// NewAnnotator creates an annotator writing previews into dir. The directory
// is created on first use.
func NewAnnotator(dir string) *Annotator {
	return &Annotator{dir: dir}
}

// Save decodes frame, draws the bounding box and label, and writes the
// result as a timestamped JPEG. bbox is [x1, y1, x2, y2] in pixels.
func (a *Annotator) Save(frame []byte, bbox []float64, label string) error {
	img, _, err := image.Decode(bytes.NewReader(frame))
	if err != nil {
		return fmt.Errorf("failed to decode frame: %w", err)
	}

	annotated := Annotate(img, bbox, label)

	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create preview directory: %w", err)
	}

	name := fmt.Sprintf("preview-%s.jpg", time.Now().Format("20060102-150405.000"))
	f, err := os.Create(filepath.Join(a.dir, name))
	if err != nil {
		return fmt.Errorf("failed to create preview file: %w", err)
	}
	defer f.Close()

	if err := jpeg.Encode(f, annotated, &jpeg.Options{Quality: 85}); err != nil {
		return fmt.Errorf("failed to encode preview: %w", err)
	}
	return nil
}

// Annotate returns a copy of img with a red rectangle at bbox and label
// rendered above its top edge.
func Annotate(img image.Image, bbox []float64, label string) image.Image {
	if len(bbox) != 4 {
		return img
	}

	bounds := img.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, img, bounds.Min, draw.Src)

	const lineWidth = 2
	x1 := int(bbox[0])
	y1 := int(bbox[1])
	x2 := int(bbox[2])
	y2 := int(bbox[3])
	red := color.RGBA{255, 0, 0, 255}

	for w := 0; w < lineWidth; w++ {
		drawHLine(dst, x1, x2, y1+w, red)
		drawHLine(dst, x1, x2, y2-w, red)
		drawVLine(dst, y1, y2, x1+w, red)
		drawVLine(dst, y1, y2, x2-w, red)
	}

	if label != "" {
		// Face7x13 only carries ASCII glyphs, so fold "Jiří" to "Jiri"
		// instead of rendering replacement boxes.
		drawLabel(dst, x1, y1-4, database.RemoveDiacritics(label), red)
	}

	return dst
}

// drawHLine draws a horizontal line on the image.
func drawHLine(dst *image.RGBA, x1, x2, y int, c color.RGBA) {
	bounds := dst.Bounds()
	if y < bounds.Min.Y || y >= bounds.Max.Y {
		return
	}
	for x := x1; x <= x2; x++ {
		if x >= bounds.Min.X && x < bounds.Max.X {
			dst.Set(x, y, c)
		}
	}
}

// drawVLine draws a vertical line on the image.
func drawVLine(dst *image.RGBA, y1, y2, x int, c color.RGBA) {
	bounds := dst.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X {
		return
	}
	for y := y1; y <= y2; y++ {
		if y >= bounds.Min.Y && y < bounds.Max.Y {
			dst.Set(x, y, c)
		}
	}
}

// drawLabel renders text with the fixed 7x13 bitmap font. Good enough for
// operator previews.
func drawLabel(dst *image.RGBA, x, y int, label string, c color.RGBA) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(label)
}
