// Package cache memoizes parseModule results keyed by a content hash, and
// gives the IL a portable binary encoding for the --dump-il CLI flag
// (spec.md §6's "compiled artifact" output): a BLAKE2b-256 digest of the
// input keys a map lookup, and CBOR's canonical encoding mode gives a
// deterministic on-disk form, the same content-addressed approach
// core/planfmt uses to hash and serialize a plan.
package cache

import (
	"sync"

	"golang.org/x/crypto/blake2b"

	"github.com/aledsdavies/lumen/pkgs/ast"
	"github.com/aledsdavies/lumen/pkgs/parser"
)

// Key is a content digest identifying one source string.
type Key [32]byte

// KeyOf hashes source with BLAKE2b-256.
func KeyOf(source string) Key {
	return Key(blake2b.Sum256([]byte(source)))
}

type parseResult struct {
	body *ast.BlockBody
	oob  []ast.OOB
}

// ParseCache memoizes parser.ParseModule by source digest. Safe for
// concurrent use by a --watch session re-parsing on every file change: a
// rapid string of saves that keep reverting to an already-seen source
// (an editor's autosave racing a user's undo) hits the cache instead of
// re-running the parser.
type ParseCache struct {
	mu    sync.Mutex
	byKey map[Key]parseResult
}

// NewParseCache returns an empty cache.
func NewParseCache() *ParseCache {
	return &ParseCache{byKey: make(map[Key]parseResult)}
}

// Parse returns the cached parse for source, computing and storing it on a
// miss.
func (c *ParseCache) Parse(source string) (*ast.BlockBody, []ast.OOB) {
	key := KeyOf(source)

	c.mu.Lock()
	if r, ok := c.byKey[key]; ok {
		c.mu.Unlock()
		return r.body, r.oob
	}
	c.mu.Unlock()

	body, oob := parser.ParseModule(source)

	c.mu.Lock()
	c.byKey[key] = parseResult{body: body, oob: oob}
	c.mu.Unlock()

	return body, oob
}
