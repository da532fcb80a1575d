package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/AnyUserName/blurhash-cli/internal/manifest"
	"github.com/AnyUserName/blurhash-cli/internal/memo"
	"github.com/AnyUserName/blurhash-cli/internal/pipeline"
	"github.com/AnyUserName/blurhash-cli/internal/profile"
)

// encodeOptions backs the flags shared by the root command and encode.
type encodeOptions struct {
	componentsX int
	componentsY int
	profile     string
	maxSize     int
	workers     int
	force       bool
	autoOrient  bool
	manifest    string
}

var encodeOpts encodeOptions

var encodeCmd = &cobra.Command{
	Use:   "encode [inputs...]",
	Short: "Write a .bh BlurHash sidecar next to every image",
	Long: `Scans the inputs for images (png, jpg, jpeg, gif, bmp, tif, tiff, webp, jxl),
computes a BlurHash for each and writes it to <image>.bh.

Images that already have a sidecar are skipped unless --force is given.
Hidden directories are not descended into. JPEG-XL needs djxl on PATH.`,
	Args: cobra.ArbitraryArgs,
	RunE: runEncode,
}

func init() {
	encodeOpts.register(encodeCmd.Flags())
	rootCmd.AddCommand(encodeCmd)
}

func (o *encodeOptions) register(fs *pflag.FlagSet) {
	fs.IntVarP(&o.componentsX, "components-x", "x", 4, "horizontal components, 1-9 (overrides profile)")
	fs.IntVarP(&o.componentsY, "components-y", "y", 3, "vertical components, 1-9 (overrides profile)")
	fs.StringVarP(&o.profile, "profile", "p", profile.Default, fmt.Sprintf("encoding profile %v", profile.Names()))
	fs.IntVar(&o.maxSize, "max-size", 0, "downscale so neither side exceeds this before hashing (0 = full size, overrides profile)")
	fs.IntVarP(&o.workers, "workers", "w", 0, "parallel workers (0 = NumCPU)")
	fs.BoolVarP(&o.force, "force", "f", false, "overwrite existing .bh files")
	fs.BoolVar(&o.autoOrient, "auto-orient", false, "apply EXIF orientation before hashing")
	fs.StringVarP(&o.manifest, "manifest", "m", "", "also write a JSON manifest to this path")
}

// resolveProfile loads the named profile and applies explicitly set flags.
func (o *encodeOptions) resolveProfile(fs *pflag.FlagSet) (profile.Profile, error) {
	prof, err := profile.Get(o.profile)
	if err != nil {
		return profile.Profile{}, err
	}
	if fs.Changed("components-x") {
		prof.ComponentsX = o.componentsX
	}
	if fs.Changed("components-y") {
		prof.ComponentsY = o.componentsY
	}
	if fs.Changed("max-size") {
		prof.MaxSize = o.maxSize
	}
	return prof, prof.Validate()
}

func runEncode(cmd *cobra.Command, args []string) error {
	prof, err := encodeOpts.resolveProfile(cmd.Flags())
	if err != nil {
		return err
	}
	logger.Debug("profile", "name", prof.Name, "x", prof.ComponentsX, "y", prof.ComponentsY, "max_size", prof.MaxSize)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := pipeline.New(pipeline.Config{
		Inputs:     args,
		Profile:    prof,
		Workers:    encodeOpts.workers,
		Force:      encodeOpts.force,
		AutoOrient: encodeOpts.autoOrient,
		Logger:     logger,
		Memo:       memo.New(0),
	})

	report, err := p.Run(ctx)
	if report != nil {
		printResults(cmd.OutOrStdout(), report)
	}
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	if encodeOpts.manifest != "" {
		if err := manifest.WriteJSON(report.Manifest(), encodeOpts.manifest); err != nil {
			return fmt.Errorf("write manifest: %w", err)
		}
	}

	printEncodeReport(cmd.OutOrStdout(), report, encodeOpts.manifest)
	return nil
}

// printResults prints one line per written or skipped image, in input order.
func printResults(w io.Writer, r *pipeline.Report) {
	for _, res := range r.Results {
		switch res.Status {
		case pipeline.StatusSkipped:
			fmt.Fprintf(w, "Skipping %s: BlurHash file already exists\n", res.Source.Path)
		case pipeline.StatusWritten:
			fmt.Fprintf(w, "BlurHash saved to: %s\n", res.Source.Sidecar)
		}
	}
}

func printEncodeReport(w io.Writer, r *pipeline.Report, manifestPath string) {
	// A single image gets just its result line.
	if !verbose && len(r.Results) <= 1 {
		return
	}

	var inputBytes int64
	for _, res := range r.Results {
		inputBytes += res.Source.Size
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Images:      %d\n", len(r.Results))
	fmt.Fprintf(w, "  Written:     %d\n", r.Count(pipeline.StatusWritten))
	fmt.Fprintf(w, "  Skipped:     %d\n", r.Count(pipeline.StatusSkipped))
	if n := r.Count(pipeline.StatusFailed); n > 0 {
		fmt.Fprintf(w, "  Failed:      %d\n", n)
	}
	fmt.Fprintf(w, "  Input size:  %s\n", formatBytes(inputBytes))
	fmt.Fprintf(w, "  Grid:        %dx%d (%s)\n", r.Profile.ComponentsX, r.Profile.ComponentsY, r.Profile.Name)
	fmt.Fprintf(w, "  Workers:     %d\n", r.Workers)
	fmt.Fprintf(w, "  Time:        %s\n", r.Elapsed.Round(time.Millisecond))
	if manifestPath != "" {
		fmt.Fprintf(w, "  Manifest:    %s\n", manifestPath)
	}
	fmt.Fprintln(w)
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
