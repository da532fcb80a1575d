package decoder

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"sync/atomic"
)

// Atomic counter for unique temp dir names across goroutines.
var tempCounter atomic.Int64

var (
	jxlCodestreamMagic = []byte{0xff, 0x0a}
	jxlContainerMagic  = []byte{0x00, 0x00, 0x00, 0x0c, 'J', 'X', 'L', ' ', 0x0d, 0x0a, 0x87, 0x0a}
)

// IsJXL reports whether head starts with a JPEG XL signature, either a
// bare codestream or the ISOBMFF container.
func IsJXL(head []byte) bool {
	return bytes.HasPrefix(head, jxlCodestreamMagic) || bytes.HasPrefix(head, jxlContainerMagic)
}

// JXLDecoder decodes JPEG XL by converting to PNG with djxl.
// Install: brew install jpeg-xl / apt install libjxl-tools
type JXLDecoder struct {
	once     sync.Once
	avail    bool
	djxlPath string
}

func (d *JXLDecoder) Name() string         { return "jxl" }
func (d *JXLDecoder) Extensions() []string { return []string{".jxl"} }

func (d *JXLDecoder) Available() bool {
	d.once.Do(func() {
		path, err := exec.LookPath("djxl")
		if err == nil {
			d.avail = true
			d.djxlPath = path
		}
	})
	return d.avail
}

func (d *JXLDecoder) Decode(r io.Reader) (image.Image, error) {
	if !d.Available() {
		return nil, fmt.Errorf("jxl: djxl not found in PATH: %w", ErrUnavailable)
	}

	// djxl works on files: stage the source, convert, read back.  The
	// whole temp dir goes on return, including a partial PNG on failure.
	id := tempCounter.Add(1)
	dir, err := os.MkdirTemp("", fmt.Sprintf("blurhash_jxl_%d_*", id))
	if err != nil {
		return nil, fmt.Errorf("create temp: %w", err)
	}
	defer os.RemoveAll(dir)

	srcPath := filepath.Join(dir, "src.jxl")
	dstPath := filepath.Join(dir, "dst.png")

	src, err := os.Create(srcPath)
	if err != nil {
		return nil, fmt.Errorf("create temp: %w", err)
	}
	if _, err := io.Copy(src, r); err != nil {
		src.Close()
		return nil, fmt.Errorf("stage jxl: %w", err)
	}
	if err := src.Close(); err != nil {
		return nil, fmt.Errorf("stage jxl: %w", err)
	}

	cmd := exec.Command(d.djxlPath, srcPath, dstPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("djxl: %w: %s", err, bytes.TrimSpace(out))
	}

	f, err := os.Open(dstPath)
	if err != nil {
		return nil, fmt.Errorf("open converted png: %w", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode converted png: %w", err)
	}
	return img, nil
}
