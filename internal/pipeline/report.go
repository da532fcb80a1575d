package pipeline

import (
	"time"

	"github.com/AnyUserName/blurhash-cli/internal/blurhash"
	"github.com/AnyUserName/blurhash-cli/internal/manifest"
	"github.com/AnyUserName/blurhash-cli/internal/profile"
)

// Report is the outcome of one Run, in input order.
type Report struct {
	Results []Result
	Profile profile.Profile
	Workers int
	Elapsed time.Duration
}

// Count returns how many results have status s.
func (r *Report) Count(s Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == s {
			n++
		}
	}
	return n
}

// Manifest builds the JSON index for the run.  Failed sources are counted
// but not listed.
func (r *Report) Manifest() *manifest.Manifest {
	m := manifest.New(r.Profile.Name)
	m.BuildInfo = &manifest.BuildInfo{
		Workers:     r.Workers,
		ComponentsX: r.Profile.ComponentsX,
		ComponentsY: r.Profile.ComponentsY,
		MaxSize:     r.Profile.MaxSize,
	}

	failed := 0
	for _, res := range r.Results {
		src := res.Source
		switch res.Status {
		case StatusFailed:
			failed++
			continue
		case StatusSkipped:
			asset := manifest.Asset{
				BlurHash: res.Hash,
				Sidecar:  src.Sidecar,
				Skipped:  true,
			}
			if cx, cy, err := blurhash.Components(res.Hash); err == nil {
				asset.ComponentsX, asset.ComponentsY = cx, cy
			}
			m.Assets[src.Key] = asset
			continue
		}

		e := res.Encoded
		asset := manifest.Asset{
			BlurHash:    e.Hash,
			Sidecar:     src.Sidecar,
			ComponentsX: r.Profile.ComponentsX,
			ComponentsY: r.Profile.ComponentsY,
			Width:       e.Width,
			Height:      e.Height,
			Original: &manifest.OriginalInfo{
				Width:      e.OriginalWidth,
				Height:     e.OriginalHeight,
				Format:     src.Format,
				Size:       src.Size,
				SourceHash: e.SourceHash,
			},
		}
		if e.OriginalHeight > 0 {
			asset.AspectRatio = float64(e.OriginalWidth) / float64(e.OriginalHeight)
		}
		m.Assets[src.Key] = asset
	}

	m.Stats.Failed = failed
	m.ComputeStats()
	return m
}
