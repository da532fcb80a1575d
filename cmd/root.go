package cmd

import (
	"context"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/blurhash-cli/internal/logging"
)

var (
	version = "0.1.0"
	verbose bool
	logger  = logging.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "blurhash [inputs...]",
	Short: "Generate BlurHash placeholders for images",
	Long: `blurhash — computes compact BlurHash strings for images and stores each
one next to its source as a .bh sidecar (photo.jpg → photo.jpg.bh).

Inputs are image files or directories, scanned recursively; with no
inputs the current directory is used. Running without a subcommand is
the same as "blurhash encode".`,
	Version: version,
	Args:    cobra.ArbitraryArgs,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger = logging.New(cmd.ErrOrStderr(), verbose)
		return nil
	},
	RunE:         runEncode,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	encodeOpts.register(rootCmd.Flags())
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"blurhash %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}
