// Package memo caches computed BlurHashes in process memory, keyed by
// source content and encoding parameters.  Identical files met twice in a
// batch, or uploaded twice to the server, are hashed once.
package memo

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
)

// Key identifies one encoding of one source.  Everything that changes the
// output string must be part of it.
type Key struct {
	Content     string // xxHash64 of the source bytes
	ComponentsX int
	ComponentsY int
	MaxSize     int
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%dx%d/%d", k.Content, k.ComponentsX, k.ComponentsY, k.MaxSize)
}

// Entry is a cached encoding result.
type Entry struct {
	Hash           string
	Width, Height  int // dimensions that were hashed
	OriginalWidth  int
	OriginalHeight int
}

// Memo is safe for concurrent use.
type Memo struct {
	c *cache.Cache
}

// New creates a memo whose entries expire after ttl.  ttl <= 0 keeps
// entries for the life of the process.
func New(ttl time.Duration) *Memo {
	if ttl <= 0 {
		return &Memo{c: cache.New(cache.NoExpiration, 0)}
	}
	return &Memo{c: cache.New(ttl, 2*ttl)}
}

// Get returns the entry for k, if present.
func (m *Memo) Get(k Key) (Entry, bool) {
	v, ok := m.c.Get(k.String())
	if !ok {
		return Entry{}, false
	}
	return v.(Entry), true
}

// Put stores e under k with the memo's default expiration.
func (m *Memo) Put(k Key, e Entry) {
	m.c.SetDefault(k.String(), e)
}

// Len returns the number of live entries.
func (m *Memo) Len() int {
	return m.c.ItemCount()
}
