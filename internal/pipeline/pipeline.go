package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/AnyUserName/blurhash-cli/internal/decoder"
	"github.com/AnyUserName/blurhash-cli/internal/logging"
	"github.com/AnyUserName/blurhash-cli/internal/memo"
	"github.com/AnyUserName/blurhash-cli/internal/profile"
)

// ErrNoImages is returned when the inputs contain no supported images.
var ErrNoImages = errors.New("no images found")

// ErrAllFailed is returned, alongside the report, when every image failed.
var ErrAllFailed = errors.New("all images failed to process")

// Config holds all parameters for a batch run.
type Config struct {
	Inputs     []string // files and directories; empty means "."
	Profile    profile.Profile
	Workers    int  // 0 = NumCPU
	Force      bool // overwrite existing sidecars
	AutoOrient bool // apply EXIF orientation before hashing
	Logger     *slog.Logger
	Memo       *memo.Memo // optional, shared across runs
}

// Pipeline orchestrates sidecar generation.
type Pipeline struct {
	cfg      Config
	registry *decoder.Registry
	enc      *Encoder
	log      *slog.Logger
}

// New creates a configured pipeline.
func New(cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	log := logging.OrNop(cfg.Logger)
	registry := decoder.NewRegistry(decoder.Options{AutoOrient: cfg.AutoOrient})
	return &Pipeline{
		cfg:      cfg,
		registry: registry,
		enc:      &Encoder{Registry: registry, Memo: cfg.Memo},
		log:      log,
	}
}

// Run scans the inputs and hashes every image in parallel.  Individual
// failures are recorded in the report and do not stop the run; the
// report is returned with ErrAllFailed only when nothing succeeded.
// Cancelling ctx fails the images not yet started.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	if err := p.cfg.Profile.Validate(); err != nil {
		return nil, err
	}
	p.log.Debug("decoders", "registry", p.registry.String())

	start := time.Now()

	// Step 1: Scan for images.
	sources, err := ScanInputs(p.cfg.Inputs, p.registry.Supported)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w in %v", ErrNoImages, p.cfg.Inputs)
	}
	p.log.Debug("scan complete", "images", len(sources))

	// Step 2: Process images in parallel.
	results := make([]Result, len(sources))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.cfg.Workers)

	for i, src := range sources {
		wg.Add(1)
		go func(idx int, s Source) {
			defer wg.Done()
			select {
			case sem <- struct{}{}: // acquire
			case <-ctx.Done():
				results[idx] = failed(Result{Source: s}, ctx.Err())
				return
			}
			defer func() { <-sem }() // release

			if err := ctx.Err(); err != nil {
				results[idx] = failed(Result{Source: s}, err)
				return
			}

			p.log.Debug("processing", "path", s.Path)
			r := processImage(s, p.cfg, p.enc)
			switch r.Status {
			case StatusFailed:
				p.log.Error("processing image", "path", s.Path, "err", r.Err)
			case StatusSkipped:
				p.log.Debug("skipped", "path", s.Path, "sidecar", s.Sidecar)
			default:
				p.log.Debug("done", "path", s.Path, "blurhash", r.Hash, "cached", r.Cached)
			}
			results[idx] = r
		}(i, src)
	}
	wg.Wait()

	// Step 3: Collect.
	report := &Report{
		Results: results,
		Profile: p.cfg.Profile,
		Workers: p.cfg.Workers,
		Elapsed: time.Since(start),
	}
	if n := report.Count(StatusFailed); n == len(results) {
		return report, fmt.Errorf("%w (%d)", ErrAllFailed, n)
	} else if n > 0 {
		p.log.Warn("some images had errors", "failed", n, "total", len(results))
	}
	return report, nil
}
