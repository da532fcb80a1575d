// Package hasher fingerprints source image bytes with xxHash64.  The
// fingerprint keys the in-process memo and is recorded in the manifest so
// a later run can tell whether a source changed under its sidecar.
package hasher

import (
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// Sum returns the xxHash64 of data as 16 lowercase hex chars.
func Sum(data []byte) string {
	return format(xxhash.Sum64(data))
}

// SumReader streams r through xxHash64.
func SumReader(r io.Reader) (string, error) {
	h := xxhash.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return format(h.Sum64()), nil
}

// File hashes the file at path without loading it whole.
func File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return SumReader(f)
}

func format(v uint64) string {
	return fmt.Sprintf("%016x", v)
}
