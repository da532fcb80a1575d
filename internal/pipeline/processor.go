package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// Status is the outcome of processing one source.
type Status int

const (
	StatusWritten Status = iota // hash computed and sidecar written
	StatusSkipped               // sidecar already existed
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusWritten:
		return "written"
	case StatusSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

// Result holds the result of processing a single source image.
type Result struct {
	Source Source
	Status Status
	// Encoded is filled for written sources; for skipped ones only Hash
	// is set, read back from the existing sidecar.
	Encoded
	Err error
}

// processImage handles a single source image: skip check, read, hash,
// write sidecar.
func processImage(src Source, cfg Config, enc *Encoder) Result {
	result := Result{Source: src}

	if !cfg.Force {
		existing, err := os.ReadFile(src.Sidecar)
		if err == nil {
			result.Status = StatusSkipped
			result.Hash = strings.TrimSpace(string(existing))
			return result
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return failed(result, fmt.Errorf("read %s: %w", src.Sidecar, err))
		}
	}

	data, err := os.ReadFile(src.Path)
	if err != nil {
		return failed(result, fmt.Errorf("open %s: %w", src.Path, err))
	}

	encoded, err := enc.EncodeBytes(src.Path, data, cfg.Profile)
	if err != nil {
		return failed(result, err)
	}

	// The sidecar holds the bare hash, no trailing newline.
	if err := os.WriteFile(src.Sidecar, []byte(encoded.Hash), 0o644); err != nil {
		return failed(result, fmt.Errorf("write %s: %w", src.Sidecar, err))
	}

	result.Status = StatusWritten
	result.Encoded = encoded
	return result
}

func failed(r Result, err error) Result {
	r.Status = StatusFailed
	r.Err = err
	return r
}
