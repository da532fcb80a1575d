package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SidecarExt is appended to a source path to name its hash file:
// photo.jpg → photo.jpg.bh.
const SidecarExt = ".bh"

// Source represents a discovered image file.
type Source struct {
	// Path is the file path as found: relative to the working directory
	// or absolute, following the input it came from.
	Path string
	// Key is Path with forward slashes, used as the manifest asset key.
	Key string
	// Format is the source format (png, jpeg, webp, gif, bmp, tiff, jxl).
	Format string
	// Size is the file size in bytes.
	Size int64
	// Sidecar is where the BlurHash is written.
	Sidecar string
}

// SidecarPath returns the hash file path for an image path.
func SidecarPath(path string) string {
	return path + SidecarExt
}

// ScanInputs expands files and directories into image sources.
// Directories are walked recursively, skipping hidden subdirectories.  An
// empty input list, or an empty string, means the current directory.
// supported filters by file name; explicitly named files it rejects are
// ignored.  A file reached through two inputs is listed once.
func ScanInputs(inputs []string, supported func(name string) bool) ([]Source, error) {
	if len(inputs) == 0 {
		inputs = []string{"."}
	}

	var sources []Source
	seen := map[string]bool{}
	add := func(path string, info os.FileInfo) {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if seen[abs] {
			return
		}
		seen[abs] = true
		sources = append(sources, newSource(path, info))
	}

	for _, in := range inputs {
		if in == "" {
			in = "."
		}
		info, err := os.Stat(in)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", in, err)
		}
		if !info.IsDir() {
			if supported(in) {
				add(in, info)
			}
			continue
		}
		if err := walkDir(in, supported, add); err != nil {
			return nil, fmt.Errorf("walk %s: %w", in, err)
		}
	}
	return sources, nil
}

func walkDir(root string, supported func(string) bool, add func(string, os.FileInfo)) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			// Skip hidden directories, but never the root itself (".", "..").
			if path != root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.Mode().IsRegular() || !supported(path) {
			return nil
		}
		add(path, info)
		return nil
	})
}

func newSource(path string, info os.FileInfo) Source {
	// Normalize format name.
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch format {
	case "jpg":
		format = "jpeg"
	case "tif":
		format = "tiff"
	}
	return Source{
		Path:    path,
		Key:     filepath.ToSlash(path),
		Format:  format,
		Size:    info.Size(),
		Sidecar: SidecarPath(path),
	}
}
