// Copyright 2025 Chainguard, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pattern

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the capacity of the process-wide cache used by Get,
// unless PATHKIT_PATTERN_CACHE_SIZE says otherwise.
const DefaultCacheSize = 128

// Cache memoizes compiled patterns by glob string. When it is full it is
// emptied entirely before the next pattern is added.
type Cache struct {
	mu      sync.Mutex // To make up for the lack of atomic GetOrAdd in lru.Cache.
	size    int
	entries *lru.Cache[string, func() (*Pattern, error)]
}

// NewCache returns a cache holding at most size patterns.
func NewCache(size int) (*Cache, error) {
	entries, err := lru.New[string, func() (*Pattern, error)](size)
	if err != nil {
		return nil, fmt.Errorf("creating pattern cache: %w", err)
	}
	return &Cache{size: size, entries: entries}, nil
}

// Compile returns the cached pattern for glob, compiling it on first use.
// Concurrent callers asking for the same glob share one compilation.
// Failures are not cached.
func (c *Cache) Compile(glob string) (*Pattern, error) {
	entry, ok := c.entries.Get(glob)
	if !ok {
		c.mu.Lock()
		// Check again under the lock, another caller may have added it.
		entry, ok = c.entries.Get(glob)
		if !ok {
			if c.entries.Len() >= c.size {
				c.entries.Purge()
			}
			// Like a cached future: added right away, compiled by whoever
			// calls it first.
			entry = sync.OnceValues(func() (*Pattern, error) {
				p, err := Compile(glob)
				if err != nil {
					c.entries.Remove(glob)
				}
				return p, err
			})
			c.entries.Add(glob, entry)
		}
		c.mu.Unlock()
	}
	return entry()
}

// Len returns the number of cached globs.
func (c *Cache) Len() int { return c.entries.Len() }

// Purge empties the cache.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Purge()
}

var defaultCache = sync.OnceValue(func() *Cache {
	size := DefaultCacheSize
	if v := os.Getenv("PATHKIT_PATTERN_CACHE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			panic(fmt.Sprintf("invalid PATHKIT_PATTERN_CACHE_SIZE %q", v))
		}
		size = n
	}
	// This only fails for non-positive sizes.
	c, _ := NewCache(size)
	return c
})

// Default returns the process-wide cache.
func Default() *Cache { return defaultCache() }

// Get compiles glob through the process-wide cache.
func Get(glob string) (*Pattern, error) {
	return defaultCache().Compile(glob)
}
