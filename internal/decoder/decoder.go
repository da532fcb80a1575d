// Package decoder turns source image files into pixels.  Formats Go can
// read natively go through imaging; JPEG XL is converted by shelling out
// to djxl.
package decoder

import (
	"errors"
	"image"
	"io"

	"github.com/disintegration/imaging"
)

// ErrUnavailable is returned when the tool a decoder depends on is not
// installed.
var ErrUnavailable = errors.New("decoder unavailable")

// Decoder decodes one family of source formats.
type Decoder interface {
	// Name identifies the decoder in logs ("standard", "jxl").
	Name() string

	// Extensions lists the lower-case file extensions, with dot, that
	// this decoder handles.
	Extensions() []string

	// Available returns true if the decoder is ready to use.
	// External tools (djxl) may not be installed.
	Available() bool

	// Decode reads a complete image from r.
	Decode(r io.Reader) (image.Image, error)
}

// Flatten converts img to a tightly packed non-premultiplied RGBA image of
// exactly w×h pixels, box-filtering when the size differs.  The result is
// the RGBA8 buffer layout BlurHash encoding expects.
func Flatten(img image.Image, w, h int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return imaging.Clone(img)
	}
	return imaging.Resize(img, w, h, imaging.Box)
}
