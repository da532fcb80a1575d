package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/AnyUserName/blurhash-cli/internal/decoder"
	"github.com/AnyUserName/blurhash-cli/internal/memo"
	"github.com/AnyUserName/blurhash-cli/internal/pipeline"
	"github.com/AnyUserName/blurhash-cli/internal/profile"
	"github.com/AnyUserName/blurhash-cli/internal/server"
)

var (
	serveAddr      string
	serveProfile   string
	serveX, serveY int
	serveMaxUpload int64
	serveCacheTTL  time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve BlurHash encoding over HTTP",
	Long: `Starts an HTTP server:

  POST /blurhash   multipart form: image (file), x and y (optional grid)
  GET  /healthz

Results are memoised by image content for --cache-ttl.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	serveCmd.Flags().StringVarP(&serveProfile, "profile", "p", profile.Default, "default encoding profile")
	serveCmd.Flags().IntVarP(&serveX, "components-x", "x", 4, "default horizontal components (overrides profile)")
	serveCmd.Flags().IntVarP(&serveY, "components-y", "y", 3, "default vertical components (overrides profile)")
	serveCmd.Flags().Int64Var(&serveMaxUpload, "max-upload", server.DefaultMaxUpload, "maximum upload size in bytes")
	serveCmd.Flags().DurationVar(&serveCacheTTL, "cache-ttl", 10*time.Minute, "how long computed hashes are memoised (0 = forever)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	prof, err := profile.Get(serveProfile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("components-x") {
		prof.ComponentsX = serveX
	}
	if cmd.Flags().Changed("components-y") {
		prof.ComponentsY = serveY
	}
	if err := prof.Validate(); err != nil {
		return err
	}

	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}
	h := &server.Handler{
		Encoder: &pipeline.Encoder{
			Registry: decoder.NewRegistry(decoder.Options{}),
			Memo:     memo.New(serveCacheTTL),
		},
		Profile:   prof,
		MaxUpload: serveMaxUpload,
		Log:       logger,
	}
	srv := &http.Server{
		Addr:              serveAddr,
		Handler:           server.Router(h),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", serveAddr, "grid", fmt.Sprintf("%dx%d", prof.ComponentsX, prof.ComponentsY))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
