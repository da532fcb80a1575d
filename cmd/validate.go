package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/blurhash-cli/internal/blurhash"
	"github.com/AnyUserName/blurhash-cli/internal/hasher"
	"github.com/AnyUserName/blurhash-cli/internal/manifest"
)

var validateBaseDir string

var validateCmd = &cobra.Command{
	Use:   "validate <manifest>",
	Short: "Validate a manifest and check every sidecar matches it",
	Long: `Checks that every asset's hash is well formed for its declared grid, that
its .bh sidecar exists and holds the same hash, and that the source image
has not changed since it was hashed.

Relative paths are resolved against --base-dir, which defaults to
the current directory (the directory encode was run from).`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateBaseDir, "base-dir", "", "directory relative sidecar paths are resolved against")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	m, err := manifest.ReadJSON(args[0])
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	errs := validateManifest(m, validateBaseDir)
	if len(errs) == 0 {
		fmt.Fprintln(w, "  ✓ Manifest is valid")
		fmt.Fprintf(w, "  ✓ %d assets — all sidecars present and matching\n", len(m.Assets))
		return nil
	}

	fmt.Fprintf(w, "  ✗ Manifest has %d error(s):\n", len(errs))
	for _, e := range errs {
		fmt.Fprintf(w, "    • %s\n", e)
	}
	return fmt.Errorf("validation failed with %d errors", len(errs))
}

func validateManifest(m *manifest.Manifest, baseDir string) []string {
	var errs []string

	// Check version.
	if m.Version != manifest.SupportedManifestVersion {
		errs = append(errs, fmt.Sprintf("unsupported manifest version: %d", m.Version))
	}

	written, skipped := 0, 0
	for _, key := range sortedKeys(m.Assets) {
		asset := m.Assets[key]
		if asset.Skipped {
			skipped++
		} else {
			written++
		}

		// Check hash shape against the declared grid.
		if asset.BlurHash == "" {
			errs = append(errs, fmt.Sprintf("asset %q: missing blurhash", key))
		} else if cx, cy, err := blurhash.Components(asset.BlurHash); err != nil {
			errs = append(errs, fmt.Sprintf("asset %q: malformed blurhash %q: %v", key, asset.BlurHash, err))
		} else if cx != asset.ComponentsX || cy != asset.ComponentsY {
			errs = append(errs, fmt.Sprintf("asset %q: blurhash grid %dx%d, declared %dx%d",
				key, cx, cy, asset.ComponentsX, asset.ComponentsY))
		}

		if !asset.Skipped {
			if o := asset.Original; o == nil {
				errs = append(errs, fmt.Sprintf("asset %q: missing original info", key))
			} else {
				if o.Width <= 0 || o.Height <= 0 {
					errs = append(errs, fmt.Sprintf("asset %q: invalid original dimensions %dx%d", key, o.Width, o.Height))
				}
				// The key is the source path; a changed source means a stale hash.
				sum, err := hasher.File(resolve(baseDir, filepath.FromSlash(key)))
				if err != nil {
					errs = append(errs, fmt.Sprintf("asset %q: source not readable: %v", key, err))
				} else if o.SourceHash != "" && sum != o.SourceHash {
					errs = append(errs, fmt.Sprintf("asset %q: source changed since hashing (%s != %s)", key, sum, o.SourceHash))
				}
			}
			if asset.AspectRatio <= 0 {
				errs = append(errs, fmt.Sprintf("asset %q: invalid aspect ratio %.4f", key, asset.AspectRatio))
			}
		}

		// Check the sidecar.
		if asset.Sidecar == "" {
			errs = append(errs, fmt.Sprintf("asset %q: missing sidecar path", key))
			continue
		}
		data, err := os.ReadFile(resolve(baseDir, asset.Sidecar))
		if err != nil {
			errs = append(errs, fmt.Sprintf("asset %q: sidecar not found: %s", key, asset.Sidecar))
		} else if strings.TrimSpace(string(data)) != asset.BlurHash {
			errs = append(errs, fmt.Sprintf("asset %q: sidecar %s holds %q, manifest has %q",
				key, asset.Sidecar, data, asset.BlurHash))
		}
	}

	// Verify stats consistency.
	if m.Stats.TotalAssets != len(m.Assets) {
		errs = append(errs, fmt.Sprintf("stats.total_assets mismatch: %d != %d", m.Stats.TotalAssets, len(m.Assets)))
	}
	if m.Stats.Written != written {
		errs = append(errs, fmt.Sprintf("stats.written mismatch: %d != %d", m.Stats.Written, written))
	}
	if m.Stats.Skipped != skipped {
		errs = append(errs, fmt.Sprintf("stats.skipped mismatch: %d != %d", m.Stats.Skipped, skipped))
	}

	return errs
}

func resolve(baseDir, path string) string {
	if baseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
