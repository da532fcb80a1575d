package profile

import (
	"fmt"
	"sort"

	"github.com/AnyUserName/blurhash-cli/internal/blurhash"
)

// Profile defines BlurHash encoding parameters.
type Profile struct {
	Name        string
	ComponentsX int // horizontal basis functions, 1-9
	ComponentsY int // vertical basis functions, 1-9
	MaxSize     int // downscale so neither side exceeds this (0 = hash full resolution)
}

// Default is the profile used when none is named.
const Default = "default"

// Built-in profiles.
var profiles = map[string]Profile{
	Default: {
		Name:        Default,
		ComponentsX: 4,
		ComponentsY: 3,
	},
	"fast": {
		Name:        "fast",
		ComponentsX: 4,
		ComponentsY: 3,
		MaxSize:     128, // hash cost scales with pixel count; 128px is visually identical
	},
	"detailed": {
		Name:        "detailed",
		ComponentsX: 6,
		ComponentsY: 5,
	},
	"square": {
		Name:        "square",
		ComponentsX: 3,
		ComponentsY: 3,
		MaxSize:     256,
	},
}

// Get returns a profile by name.
func Get(name string) (Profile, error) {
	if name == "" {
		name = Default
	}
	p, ok := profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown profile %q (available: %v)", name, Names())
	}
	return p, nil
}

// Names lists the built-in profiles in sorted order.
func Names() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Validate checks the parameters before any image is touched.
func (p Profile) Validate() error {
	if p.ComponentsX < 1 || p.ComponentsX > blurhash.MaxComponents ||
		p.ComponentsY < 1 || p.ComponentsY > blurhash.MaxComponents {
		return fmt.Errorf("components %dx%d: %w", p.ComponentsX, p.ComponentsY, blurhash.ErrComponentsNumberInvalid)
	}
	if p.MaxSize < 0 {
		return fmt.Errorf("max size %d: must not be negative", p.MaxSize)
	}
	return nil
}

// TargetSize returns the dimensions to hash an image of the given size at,
// preserving aspect ratio.  Images already within MaxSize are not upscaled.
func (p Profile) TargetSize(w, h int) (int, int) {
	if p.MaxSize <= 0 || (w <= p.MaxSize && h <= p.MaxSize) {
		return w, h
	}
	if w >= h {
		return p.MaxSize, max1(h * p.MaxSize / w)
	}
	return max1(w * p.MaxSize / h), p.MaxSize
}

func max1(v int) int {
	if v < 1 {
		return 1
	}
	return v
}
