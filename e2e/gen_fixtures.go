//go:build ignore

// gen_fixtures creates a small image tree for the E2E smoke test.
// Usage: go run gen_fixtures.go <output_dir>
//
// Expected after `blurhash <output_dir>`: sidecars for banner.jpg, logo.png,
// cards/*, formats/*; none under .cache/; notes.txt ignored; broken.png
// reported as an error; stale.png skipped (its sidecar already exists).
package main

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]

	// Banner (JPEG, 400x225)
	save(filepath.Join(dir, "banner.jpg"), gradient(400, 225))

	// Cards (PNG, 200x150 each)
	for i := 1; i <= 3; i++ {
		name := fmt.Sprintf("card-%d.png", i)
		save(filepath.Join(dir, "cards", name), solidWithBorder(200, 150, uint8(i*60)))
	}

	// Small alpha image; alpha is ignored by the hash.
	save(filepath.Join(dir, "logo.png"), alphaGradient(100, 100))

	// One of each remaining standard format.
	for _, ext := range []string{"gif", "bmp", "tif"} {
		save(filepath.Join(dir, "formats", "gradient."+ext), gradient(64, 48))
	}

	// Hidden directory: never scanned.
	save(filepath.Join(dir, ".cache", "hidden.png"), gradient(32, 32))

	// Pre-existing sidecar: skipped without --force.
	save(filepath.Join(dir, "stale.png"), gradient(32, 32))
	write(filepath.Join(dir, "stale.png.bh"), "00TI:j")

	write(filepath.Join(dir, "notes.txt"), "not an image\n")
	write(filepath.Join(dir, "broken.png"), "not a png either\n")

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created fixtures in %s\n", dir)
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

func solidWithBorder(w, h int, base uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{R: base, G: base + 40, B: base + 80, A: 255}
			if x < 4 || x >= w-4 || y < 4 || y >= h-4 {
				c = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func alphaGradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: 220, G: 60, B: 30,
				A: uint8(x * 255 / w),
			})
		}
	}
	return img
}

func save(path string, img *image.NRGBA) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		panic(err)
	}
	if err := imaging.Save(img, path, imaging.JPEGQuality(85)); err != nil {
		panic(err)
	}
}

func write(path, content string) {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		panic(err)
	}
}
