package blurhash

import (
	"math"
	"sync"
)

// ─── work buffer + pool ──────────────────────────────────────
// cols holds the RGB samples transposed to column-major order so the
// per-cell loop (x outer, y inner) walks memory sequentially.  The
// summation order itself is fixed: it decides the last bits of every
// coefficient and therefore the quantized output.
type workBuf struct {
	cols []uint8 // (x*height + y) * 3
	cosX []float64
	cosY []float64
}

var wbPool = sync.Pool{New: func() any { return new(workBuf) }}

func getWorkBuf(width, height int) *workBuf {
	wb := wbPool.Get().(*workBuf)
	wb.cols = grow(wb.cols, width*height*3)
	wb.cosX = growF64(wb.cosX, width)
	wb.cosY = growF64(wb.cosY, height)
	return wb
}

// transpose copies the R, G, B bytes of an RGBA8 buffer into dst in
// column-major order, dropping alpha.
func transpose(dst, pixels []uint8, width, height int) {
	stride := width * 4
	di := 0
	for x := 0; x < width; x++ {
		off := x * 4
		for y := 0; y < height; y++ {
			dst[di] = pixels[off]
			dst[di+1] = pixels[off+1]
			dst[di+2] = pixels[off+2]
			di += 3
			off += stride
		}
	}
}

// multiplyBasisFunction returns the linear-light RGB mean of the image
// weighted by the cosine basis for grid cell (bx, by).
//
// cosX and cosY are scratch vectors of length width and height.  They
// are overwritten with the per-axis cosine terms; the values are the
// same ones the unhoisted product would compute.
func multiplyBasisFunction(cols []uint8, width, height, bx, by int, cosX, cosY []float64) [3]float64 {
	normalisation := 2.0
	if bx == 0 && by == 0 {
		normalisation = 1
	}

	for x := 0; x < width; x++ {
		cosX[x] = math.Cos(math.Pi * float64(bx) * float64(x) / float64(width))
	}
	for y := 0; y < height; y++ {
		cosY[y] = math.Cos(math.Pi * float64(by) * float64(y) / float64(height))
	}

	// Explicit float64 conversions stop the compiler from fusing the
	// multiply-add into an FMA on arm64/ppc64/s390x, which would change
	// the rounding relative to other implementations.
	var r, g, b float64
	i := 0
	for x := 0; x < width; x++ {
		nx := normalisation * cosX[x]
		for y := 0; y < height; y++ {
			basis := float64(nx * cosY[y])
			r += float64(basis * toLinear[cols[i]])
			g += float64(basis * toLinear[cols[i+1]])
			b += float64(basis * toLinear[cols[i+2]])
			i += 3
		}
	}

	scale := 1 / float64(width*height)
	return [3]float64{r * scale, g * scale, b * scale}
}

func grow(s []uint8, n int) []uint8 {
	if cap(s) < n {
		return make([]uint8, n)
	}
	return s[:n]
}

func growF64(s []float64, n int) []float64 {
	if cap(s) < n {
		return make([]float64, n)
	}
	return s[:n]
}
