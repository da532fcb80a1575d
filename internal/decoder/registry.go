package decoder

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"
)

// Options configures a Registry.
type Options struct {
	AutoOrient bool
}

// Registry holds the decoders and picks one per source.
type Registry struct {
	standard Decoder
	jxl      Decoder
	byExt    map[string]Decoder
}

// NewRegistry creates a registry.  Decoders whose tools are missing stay
// registered so their extensions are still recognized; decoding with
// them returns ErrUnavailable.
func NewRegistry(opts Options) *Registry {
	r := &Registry{
		standard: &StandardDecoder{AutoOrient: opts.AutoOrient},
		jxl:      &JXLDecoder{},
		byExt:    make(map[string]Decoder),
	}
	for _, d := range []Decoder{r.standard, r.jxl} {
		for _, ext := range d.Extensions() {
			r.byExt[ext] = d
		}
	}
	return r
}

// For returns the decoder for a file name by its extension, or nil.
func (r *Registry) For(name string) Decoder {
	return r.byExt[strings.ToLower(filepath.Ext(name))]
}

// Supported reports whether files named like name can be decoded.
func (r *Registry) Supported(name string) bool {
	return r.For(name) != nil
}

// Decode reads an image from rd.  The format is sniffed from the content;
// name is only used in error messages.
func (r *Registry) Decode(name string, rd io.Reader) (image.Image, error) {
	br := bufio.NewReader(rd)
	head, _ := br.Peek(len(jxlContainerMagic))

	d := r.standard
	if IsJXL(head) {
		d = r.jxl
	}
	img, err := d.Decode(br)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return img, nil
}

// String returns a summary of the decoders and their availability.
func (r *Registry) String() string {
	var parts []string
	for _, d := range []Decoder{r.standard, r.jxl} {
		s := d.Name()
		if !d.Available() {
			s += " (unavailable)"
		}
		parts = append(parts, s)
	}
	return "decoders: " + strings.Join(parts, ", ")
}
