package decoder

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/disintegration/imaging"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// StandardDecoder decodes every format registered with the image package.
type StandardDecoder struct {
	// AutoOrient applies the EXIF orientation tag of JPEG sources.
	AutoOrient bool
}

func (d *StandardDecoder) Name() string    { return "standard" }
func (d *StandardDecoder) Available() bool { return true }

func (d *StandardDecoder) Extensions() []string {
	return []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}
}

func (d *StandardDecoder) Decode(r io.Reader) (image.Image, error) {
	return imaging.Decode(r, imaging.AutoOrientation(d.AutoOrient))
}
