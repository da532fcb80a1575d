package blurhash

import (
	"image"
	"image/color"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─── fixture builders ────────────────────────────────────────

func solidPixels(w, h int, c color.NRGBA) []byte {
	pix := make([]byte, w*h*4)
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = c.R, c.G, c.B, c.A
	}
	return pix
}

func gradientPixels(w, h int) []byte {
	pix := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := 4*x + y*4*w
			pix[off] = uint8((x * 251) % 256)
			pix[off+1] = uint8((y * 179) % 256)
			pix[off+2] = uint8(((x + y) * 113) % 256)
			pix[off+3] = 255
		}
	}
	return pix
}

func assertAlphabet(t *testing.T, hash string) {
	t.Helper()
	for i := 0; i < len(hash); i++ {
		assert.Truef(t, strings.IndexByte(Alphabet, hash[i]) >= 0,
			"char %q at %d not in alphabet", hash[i], i)
	}
}

// ─── validation ──────────────────────────────────────────────

func TestEncode_InvalidComponents(t *testing.T) {
	pix := solidPixels(2, 2, color.NRGBA{A: 255})
	cases := [][2]int{{0, 1}, {10, 1}, {1, 0}, {1, 10}, {-1, 4}, {4, 100}}
	for _, c := range cases {
		_, err := Encode(pix, c[0], c[1], 2, 2)
		assert.ErrorIsf(t, err, ErrComponentsNumberInvalid, "grid %dx%d", c[0], c[1])
	}
}

func TestEncode_BytesPerPixelMismatch(t *testing.T) {
	pix := make([]byte, 2*2*4-1)
	_, err := Encode(pix, 4, 3, 2, 2)
	require.ErrorIs(t, err, ErrBytesPerPixelMismatch)

	_, err = Encode(make([]byte, 2*2*4+4), 4, 3, 2, 2)
	require.ErrorIs(t, err, ErrBytesPerPixelMismatch)

	// Pixel count divides by the width but the row count is wrong.
	_, err = Encode(make([]byte, 3*4*4), 4, 3, 3, 5)
	require.ErrorIs(t, err, ErrBytesPerPixelMismatch)
}

func TestEncode_ComponentsCheckedFirst(t *testing.T) {
	_, err := Encode(nil, 0, 3, 0, 0)
	assert.ErrorIs(t, err, ErrComponentsNumberInvalid)
}

func TestEncode_ZeroDimensions(t *testing.T) {
	for _, d := range [][2]int{{0, 0}, {0, 4}, {4, 0}, {-2, -2}} {
		_, err := Encode(nil, 4, 3, d[0], d[1])
		assert.ErrorIsf(t, err, ErrInvalidDimensions, "%dx%d", d[0], d[1])
	}
}

func TestEncode_HugeDimensionsNoOverflow(t *testing.T) {
	big := math.MaxInt / 2
	_, err := Encode(make([]byte, 16), 4, 3, big, big)
	assert.ErrorIs(t, err, ErrBytesPerPixelMismatch)
}

// ─── output shape ────────────────────────────────────────────

func TestEncode_LengthAndAlphabetAllGrids(t *testing.T) {
	pix := gradientPixels(13, 7)
	for cy := 1; cy <= 9; cy++ {
		for cx := 1; cx <= 9; cx++ {
			hash, err := Encode(pix, cx, cy, 13, 7)
			require.NoError(t, err)
			require.Lenf(t, hash, 6+2*(cx*cy-1), "grid %dx%d", cx, cy)
			assertAlphabet(t, hash)

			gx, gy, err := Components(hash)
			require.NoError(t, err)
			assert.Equal(t, cx, gx)
			assert.Equal(t, cy, gy)
		}
	}
}

func TestEncode_FourColourScenario(t *testing.T) {
	pix := []byte{
		255, 0, 0, 255, // red
		0, 255, 0, 255, // green
		0, 0, 255, 255, // blue
		255, 255, 255, 255, // white
	}
	hash, err := Encode(pix, 4, 3, 2, 2)
	require.NoError(t, err)
	require.Len(t, hash, 28)
	assertAlphabet(t, hash)
	assert.Equal(t, byte('L'), hash[0], "size flag for 4x3 is 21")

	cx, cy, err := Components(hash)
	require.NoError(t, err)
	assert.Equal(t, 4, cx)
	assert.Equal(t, 3, cy)

	assert.Equal(t, "L~Lqe9|ldL|l~h|c_X|cfH|T|c|T", hash)
}

// ─── golden values ───────────────────────────────────────────

func TestEncode_SolidGolden(t *testing.T) {
	cases := []struct {
		name string
		c    color.NRGBA
		want string
	}{
		{"black", color.NRGBA{0, 0, 0, 255}, "000000"},
		{"white", color.NRGBA{255, 255, 255, 255}, "00TSUA"},
		{"red", color.NRGBA{255, 0, 0, 255}, "00TI:j"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hash, err := Encode(solidPixels(1, 1, tc.c), 1, 1, 1, 1)
			require.NoError(t, err)
			assert.Equal(t, tc.want, hash)
		})
	}
}

// A black image has exactly zero coefficients, so every AC term lands on
// the centre index 9 in each channel (9*361+9*19+9 = 3429 = "fQ") no
// matter how large the image is.
func TestEncode_UniformBlackIsSizeIndependent(t *testing.T) {
	want := "L00000" + strings.Repeat("fQ", 11)
	for _, d := range [][2]int{{1, 1}, {2, 2}, {7, 3}, {64, 48}, {100, 1}} {
		hash, err := Encode(solidPixels(d[0], d[1], color.NRGBA{A: 255}), 4, 3, d[0], d[1])
		require.NoError(t, err)
		assert.Equalf(t, want, hash, "%dx%d", d[0], d[1])
	}
}

// Hashes with non-trivial AC terms.  These pin the summation order and
// the quantiser; any drift in the float evaluation shows up here.
func TestEncode_ACGolden(t *testing.T) {
	cases := []struct {
		name   string
		pix    []byte
		w, h   int
		cx, cy int
		want   string
	}{
		{
			// The unshifted cosine basis leaves odd-frequency residue on
			// uniform non-black images.
			name: "uniform 5x3",
			pix:  solidPixels(5, 3, color.NRGBA{R: 180, G: 60, B: 30, A: 255}),
			w:    5,
			h:    3,
			cx:   4,
			cy:   3,
			want: "LoKsnv=JfQ=J}Ew{fQw{fQfQfQfQ",
		},
		{
			name: "gradient 9x9",
			pix:  gradientPixels(16, 12),
			w:    16,
			h:    12,
			cx:   9,
			cy:   9,
			want: "|oOLAt=fN@XTJnS~JkS~Jmzzn$a_f5a}aza{a#a_f5fSfNfTfUfOfPfPfS$+oMa}fna_bDa{bEa{e:f5fPf5fNf5fNf5fR%2oJa{fka{bEa_bJa~erf6fRf6fOf5fSf9fN%^oca_f$a{bXa{bXa_dMe.fRe:fPe.fRe:fP",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hash, err := Encode(tc.pix, tc.cx, tc.cy, tc.w, tc.h)
			require.NoError(t, err)
			require.Len(t, tc.want, EncodedLen(tc.cx, tc.cy))
			assert.Equal(t, tc.want, hash)
		})
	}
}

func TestEncode_UniformDCRecoversColour(t *testing.T) {
	c := color.NRGBA{R: 180, G: 60, B: 30, A: 255}
	hash, err := Encode(solidPixels(64, 48, c), 4, 3, 64, 48)
	require.NoError(t, err)

	dc, err := DecodeBase83(hash[2:6])
	require.NoError(t, err)
	assert.Equal(t, int(c.R), dc>>16)
	assert.Equal(t, int(c.G), (dc>>8)&0xff)
	assert.Equal(t, int(c.B), dc&0xff)
}

func TestEncode_AlphaIgnored(t *testing.T) {
	opaque := gradientPixels(16, 16)
	translucent := append([]byte(nil), opaque...)
	for i := 3; i < len(translucent); i += 4 {
		translucent[i] = uint8(i % 256)
	}
	h1, err := Encode(opaque, 5, 4, 16, 16)
	require.NoError(t, err)
	h2, err := Encode(translucent, 5, 4, 16, 16)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}

// ─── determinism ─────────────────────────────────────────────

func TestEncode_Deterministic(t *testing.T) {
	pix := gradientPixels(97, 61)
	h1, err := Encode(pix, 4, 3, 97, 61)
	require.NoError(t, err)
	h2, err := Encode(pix, 4, 3, 97, 61)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}

func TestEncode_ConcurrentDeterminism(t *testing.T) {
	pix := gradientPixels(128, 96)
	reference, err := Encode(pix, 9, 9, 128, 96)
	require.NoError(t, err)

	const workers = 16
	const iterations = 10
	var wg sync.WaitGroup
	errCh := make(chan string, workers*iterations)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			// Interleave a differently sized image so pooled buffers are
			// resized between calls.
			other := gradientPixels(31+w, 17)
			for i := 0; i < iterations; i++ {
				if _, err := Encode(other, 3, 3, 31+w, 17); err != nil {
					errCh <- err.Error()
				}
				got, err := Encode(pix, 9, 9, 128, 96)
				if err != nil || got != reference {
					errCh <- "mismatch"
				}
			}
		}(w)
	}
	wg.Wait()
	close(errCh)

	var mismatches int
	for range errCh {
		mismatches++
	}
	assert.Zero(t, mismatches)
}

// ─── EncodeImage ─────────────────────────────────────────────

func TestEncodeImage_MatchesFlatBuffer(t *testing.T) {
	w, h := 20, 12
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	copy(img.Pix, gradientPixels(w, h))

	want, err := Encode(img.Pix, 4, 3, w, h)
	require.NoError(t, err)
	got, err := EncodeImage(img, 4, 3)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestEncodeImage_SubImage(t *testing.T) {
	full := image.NewNRGBA(image.Rect(0, 0, 20, 12))
	copy(full.Pix, gradientPixels(20, 12))
	sub := full.SubImage(image.Rect(3, 2, 15, 10)).(*image.NRGBA)

	w, h := 12, 8
	flat := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := full.NRGBAAt(3+x, 2+y)
			off := 4*x + y*4*w
			flat[off], flat[off+1], flat[off+2], flat[off+3] = c.R, c.G, c.B, c.A
		}
	}

	want, err := Encode(flat, 4, 3, w, h)
	require.NoError(t, err)
	got, err := EncodeImage(sub, 4, 3)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestEncodeImage_Empty(t *testing.T) {
	_, err := EncodeImage(image.NewNRGBA(image.Rect(0, 0, 0, 5)), 4, 3)
	assert.ErrorIs(t, err, ErrInvalidDimensions)
}

// ─── Components ──────────────────────────────────────────────

func TestComponents_Malformed(t *testing.T) {
	cases := []string{
		"",
		"L0000",   // too short
		"L00000",  // 4x3 needs 28 chars
		"~00000",  // size flag 82 → 10 rows
		"00TI:j0", // trailing junk
		// bad character
		"L00000" + strings.Repeat("h\"", 11),
	}
	for _, h := range cases {
		_, _, err := Components(h)
		assert.ErrorIsf(t, err, ErrInvalidHash, "%q", h)
	}
}

func TestEncodedLen(t *testing.T) {
	assert.Equal(t, 6, EncodedLen(1, 1))
	assert.Equal(t, 28, EncodedLen(4, 3))
	assert.Equal(t, 166, EncodedLen(9, 9))
}
