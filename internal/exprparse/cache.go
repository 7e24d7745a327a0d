package exprparse

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/specialistvlad/tdg/internal/ast"
	"github.com/specialistvlad/tdg/internal/locus"
)

// DefaultCacheSize bounds the number of memoized parses.
const DefaultCacheSize = 1024

type cacheKey struct {
	scope string
	lang  ast.Language
	loc   locus.Locus
	text  string
}

type cacheEntry struct {
	expr ast.Expr
	err  error
}

// Cache memoizes Parse results. Clause arguments that are re-parsed at the
// same locus in the same scope share one expression tree. A Cache belongs to
// one analysis run: scope names must identify scopes uniquely within it.
type Cache struct {
	entries *lru.Cache[cacheKey, cacheEntry]
	hits    int
	misses  int
}

// NewCache creates a cache holding at most size parses.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		return nil, fmt.Errorf("parse cache size must be positive, got %d", size)
	}
	entries, err := lru.New[cacheKey, cacheEntry](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create parse cache: %w", err)
	}
	return &Cache{entries: entries}, nil
}

// Parse behaves like the package-level Parse but consults the cache first.
// A nil Cache parses without memoizing.
func (c *Cache) Parse(text string, scope ast.Scope, opts Options) (ast.Expr, error) {
	if c == nil {
		return Parse(text, scope, opts)
	}
	key := cacheKey{scope: scope.Name(), lang: opts.Language, loc: opts.Locus, text: text}
	if e, ok := c.entries.Get(key); ok {
		c.hits++
		return e.expr, e.err
	}
	c.misses++
	expr, err := Parse(text, scope, opts)
	c.entries.Add(key, cacheEntry{expr: expr, err: err})
	return expr, err
}

// Stats returns the hit and miss counts.
func (c *Cache) Stats() (hits, misses int) {
	if c == nil {
		return 0, 0
	}
	return c.hits, c.misses
}

// Len returns the number of cached parses.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.entries.Len()
}
