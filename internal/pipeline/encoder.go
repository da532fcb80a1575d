package pipeline

import (
	"bytes"
	"fmt"

	"github.com/AnyUserName/blurhash-cli/internal/blurhash"
	"github.com/AnyUserName/blurhash-cli/internal/decoder"
	"github.com/AnyUserName/blurhash-cli/internal/hasher"
	"github.com/AnyUserName/blurhash-cli/internal/memo"
	"github.com/AnyUserName/blurhash-cli/internal/profile"
)

// Encoder turns encoded image file bytes into a BlurHash: decode, scale
// to the profile's size, flatten to RGBA8, hash.  Results are memoised
// by source content when Memo is set.  Safe for concurrent use.
type Encoder struct {
	Registry *decoder.Registry
	Memo     *memo.Memo
}

// Encoded is the outcome of one EncodeBytes call.
type Encoded struct {
	memo.Entry
	SourceHash string // xxhash64 of the input bytes
	Cached     bool   // served from the memo
}

// EncodeBytes hashes one image.  name is used for error messages only.
func (e *Encoder) EncodeBytes(name string, data []byte, prof profile.Profile) (Encoded, error) {
	sum := hasher.Sum(data)
	key := memo.Key{
		Content:     sum,
		ComponentsX: prof.ComponentsX,
		ComponentsY: prof.ComponentsY,
		MaxSize:     prof.MaxSize,
	}
	if e.Memo != nil {
		if ent, ok := e.Memo.Get(key); ok {
			return Encoded{Entry: ent, SourceHash: sum, Cached: true}, nil
		}
	}

	img, err := e.Registry.Decode(name, bytes.NewReader(data))
	if err != nil {
		return Encoded{}, err
	}

	b := img.Bounds()
	origW, origH := b.Dx(), b.Dy()
	w, h := prof.TargetSize(origW, origH)

	hash, err := blurhash.EncodeImage(decoder.Flatten(img, w, h), prof.ComponentsX, prof.ComponentsY)
	if err != nil {
		return Encoded{}, fmt.Errorf("blurhash %s: %w", name, err)
	}

	ent := memo.Entry{
		Hash:           hash,
		Width:          w,
		Height:         h,
		OriginalWidth:  origW,
		OriginalHeight: origH,
	}
	if e.Memo != nil {
		e.Memo.Put(key, ent)
	}
	return Encoded{Entry: ent, SourceHash: sum}, nil
}
