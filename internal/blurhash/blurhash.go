// Package blurhash implements the BlurHash placeholder encoding: a short
// base-83 string describing an image's average colour and its
// low-frequency cosine components.
//
// Format (all fields base-83, most significant digit first):
//   - 1 char:  size flag      (componentsX-1) + (componentsY-1)*9
//   - 1 char:  max-value flag quantised AC magnitude, 0–82
//   - 4 chars: DC             24-bit sRGB average colour
//   - 2 chars per AC term     base-19 packed R,G,B indices, row-major
//
// The quantisation formulas and the alphabet order are an interoperability
// contract with every other BlurHash encoder and decoder and are kept
// exact, including the half-up rounding and clamp order.
//
// Encode is pure: it borrows the pixel buffer read-only and keeps no state
// between calls, so it is safe for concurrent use.  Scratch buffers come
// from a sync.Pool.
package blurhash

import (
	"errors"
	"image"
)

// Errors returned by Encode and Components.
var (
	ErrComponentsNumberInvalid = errors.New("blurhash: cannot encode this number of components")
	ErrBytesPerPixelMismatch   = errors.New("blurhash: the bytes per pixel does not match the pixel count")
	ErrInvalidDimensions       = errors.New("blurhash: width and height must be positive")
	ErrInvalidHash             = errors.New("blurhash: malformed hash")
)

// MaxComponents is the largest grid size allowed along either axis.
const MaxComponents = 9

// Encode computes the BlurHash of an RGBA8 pixel buffer.
//
// pixels must hold exactly width*height*4 bytes with pixel (x, y) at
// offset 4*x + y*4*width; alpha is ignored.  componentsX and
// componentsY must be in [1, 9].  All validation happens before any
// numeric work and no partial result is ever returned.
func Encode(pixels []byte, componentsX, componentsY, width, height int) (string, error) {
	if !validComponents(componentsX) || !validComponents(componentsY) {
		return "", ErrComponentsNumberInvalid
	}
	if width <= 0 || height <= 0 {
		return "", ErrInvalidDimensions
	}
	if !validBufferLen(len(pixels), width, height) {
		return "", ErrBytesPerPixelMismatch
	}

	wb := getWorkBuf(width, height)
	defer wbPool.Put(wb)
	transpose(wb.cols, pixels, width, height)

	var dc [3]float64
	ac := make([][3]float64, 0, componentsX*componentsY-1)
	for y := 0; y < componentsY; y++ {
		for x := 0; x < componentsX; x++ {
			f := multiplyBasisFunction(wb.cols, width, height, x, y, wb.cosX, wb.cosY)
			if x == 0 && y == 0 {
				dc = f
				continue
			}
			ac = append(ac, f)
		}
	}

	hash := make([]byte, 0, EncodedLen(componentsX, componentsY))
	hash = appendBase83(hash, sizeFlag(componentsX, componentsY), 1)

	maxFlag, maximum := quantiseMaximum(ac)
	hash = appendBase83(hash, maxFlag, 1)
	hash = appendBase83(hash, encodeDC(dc), 4)
	for _, f := range ac {
		hash = appendBase83(hash, encodeAC(f, maximum), 2)
	}
	return string(hash), nil
}

// EncodeImage computes the BlurHash of an NRGBA image.  Images whose rows
// are not tightly packed (sub-images, padded strides) are copied into a
// flat buffer first.
func EncodeImage(img *image.NRGBA, componentsX, componentsY int) (string, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return Encode(nil, componentsX, componentsY, w, h)
	}

	row := w * 4
	start := img.PixOffset(b.Min.X, b.Min.Y)
	if img.Stride == row && start == 0 && len(img.Pix) == row*h {
		return Encode(img.Pix, componentsX, componentsY, w, h)
	}

	pix := make([]byte, row*h)
	for y := 0; y < h; y++ {
		off := start + y*img.Stride
		copy(pix[y*row:(y+1)*row], img.Pix[off:off+row])
	}
	return Encode(pix, componentsX, componentsY, w, h)
}

// EncodedLen returns the length of a hash for the given grid.
func EncodedLen(componentsX, componentsY int) int {
	return 1 + 1 + 4 + 2*(componentsX*componentsY-1)
}

// Components decodes the size flag of a hash and returns its grid.  The
// hash length and alphabet are checked against the decoded grid.
func Components(hash string) (componentsX, componentsY int, err error) {
	if len(hash) < 6 {
		return 0, 0, ErrInvalidHash
	}
	flag, err := DecodeBase83(hash[:1])
	if err != nil {
		return 0, 0, errors.Join(ErrInvalidHash, err)
	}
	componentsX = flag%9 + 1
	componentsY = flag/9 + 1
	if !validComponents(componentsY) {
		return 0, 0, ErrInvalidHash
	}
	if len(hash) != EncodedLen(componentsX, componentsY) {
		return 0, 0, ErrInvalidHash
	}
	for i := 1; i < len(hash); i++ {
		if digitValue[hash[i]] < 0 {
			return 0, 0, errors.Join(ErrInvalidHash, ErrInvalidCharacter)
		}
	}
	return componentsX, componentsY, nil
}

func validComponents(n int) bool {
	return n >= 1 && n <= MaxComponents
}

// validBufferLen reports whether n == width*height*4 without forming the
// product, which could overflow for hostile dimensions.
func validBufferLen(n, width, height int) bool {
	if n%4 != 0 {
		return false
	}
	px := n / 4
	return px%width == 0 && px/width == height
}
