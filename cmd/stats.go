package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/blurhash-cli/internal/blurhash"
	"github.com/AnyUserName/blurhash-cli/internal/manifest"
)

var statsCmd = &cobra.Command{
	Use:   "stats <manifest>",
	Short: "Display statistics for a BlurHash manifest",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	m, err := manifest.ReadJSON(args[0])
	if err != nil {
		return err
	}
	printStats(cmd.OutOrStdout(), m)
	return nil
}

func printStats(w io.Writer, m *manifest.Manifest) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Manifest version: %d\n", m.Version)
	fmt.Fprintf(w, "  Generated:        %s\n", m.GeneratedAt)
	fmt.Fprintf(w, "  Profile:          %s\n", m.Profile)
	if b := m.BuildInfo; b != nil {
		fmt.Fprintf(w, "  Workers:          %d\n", b.Workers)
		fmt.Fprintf(w, "  Grid:             %dx%d\n", b.ComponentsX, b.ComponentsY)
		if b.MaxSize > 0 {
			fmt.Fprintf(w, "  Max size:         %dpx\n", b.MaxSize)
		}
	}
	fmt.Fprintln(w)

	s := m.Stats
	fmt.Fprintf(w, "  Total assets:     %d\n", s.TotalAssets)
	fmt.Fprintf(w, "  Written:          %d\n", s.Written)
	fmt.Fprintf(w, "  Skipped:          %d\n", s.Skipped)
	if s.Failed > 0 {
		fmt.Fprintf(w, "  Failed:           %d\n", s.Failed)
	}
	fmt.Fprintf(w, "  Input size:       %s\n", formatBytes(s.TotalInputBytes))
	fmt.Fprintln(w)

	// Per-format breakdown.
	formats := map[string]int{}
	for _, a := range m.Assets {
		if a.Original != nil {
			formats[a.Original.Format]++
		}
	}
	if len(formats) > 0 {
		fmt.Fprintln(w, "  Format breakdown:")
		for _, f := range sortedKeys(formats) {
			fmt.Fprintf(w, "    %-6s  %4d images\n", f, formats[f])
		}
		fmt.Fprintln(w)
	}

	// Per-grid breakdown; a grid's hash length is fixed.
	type grid struct{ x, y int }
	grids := map[grid]int{}
	for _, a := range m.Assets {
		grids[grid{a.ComponentsX, a.ComponentsY}]++
	}
	var order []grid
	for g := range grids {
		order = append(order, g)
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].x != order[j].x {
			return order[i].x < order[j].x
		}
		return order[i].y < order[j].y
	})
	fmt.Fprintln(w, "  Grid breakdown:")
	for _, g := range order {
		fmt.Fprintf(w, "    %dx%d  %4d hashes  (%d chars)\n", g.x, g.y, grids[g], blurhash.EncodedLen(g.x, g.y))
	}

	// Warnings.
	var warnings []string
	for _, key := range sortedKeys(m.Assets) {
		if m.Assets[key].BlurHash == "" {
			warnings = append(warnings, fmt.Sprintf("asset %q missing blurhash", key))
		}
	}
	if len(warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  Warnings (%d):\n", len(warnings))
		for _, msg := range warnings {
			fmt.Fprintf(w, "    ⚠ %s\n", msg)
		}
	}
	fmt.Fprintln(w)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
