package translator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"sync"
	"time"

	"markdown-translator/internal/logger"
	"markdown-translator/internal/types"
)

// CacheEntry is one cached translation.
type CacheEntry struct {
	Hash        string    `json:"hash"`
	Original    string    `json:"original"`
	Translation string    `json:"translation"`
	CreatedAt   time.Time `json:"created_at"`
}

// CacheFile is the on-disk cache format.
type CacheFile struct {
	Version string       `json:"version"`
	Entries []CacheEntry `json:"entries"`
}

// Cached wraps a Translator with a persistent, SHA-256 keyed translation
// cache. The document core itself is stateless; this layer is where
// repeated runs over the same document avoid re-paying API calls.
type Cached struct {
	inner     Translator
	cachePath string
	cache     map[string]CacheEntry
	mu        sync.RWMutex
}

// NewCached creates a cache decorator around inner. cachePath may be empty,
// in which case the cache is memory-only.
func NewCached(inner Translator, cachePath string) *Cached {
	return &Cached{
		inner:     inner,
		cachePath: cachePath,
		cache:     make(map[string]CacheEntry),
	}
}

// computeHash computes the SHA-256 cache key for a text.
func computeHash(text string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:])
}

// Translate implements the Translator interface. Cache hits never reach
// the inner translator.
func (c *Cached) Translate(ctx context.Context, text string) (string, error) {
	if translation, ok := c.get(text); ok {
		logger.Debug("translation cache hit", logger.Int("textLength", len(text)))
		return translation, nil
	}

	translation, err := c.inner.Translate(ctx, text)
	if err != nil {
		return "", err
	}

	c.set(text, translation)
	return translation, nil
}

func (c *Cached) get(text string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.cache[computeHash(text)]
	if !ok {
		return "", false
	}
	return entry.Translation, true
}

func (c *Cached) set(text, translation string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	hash := computeHash(text)
	c.cache[hash] = CacheEntry{
		Hash:        hash,
		Original:    text,
		Translation: translation,
		CreatedAt:   time.Now(),
	}
}

// Len returns the number of cached entries.
func (c *Cached) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// Load reads the cache file from disk. A missing file leaves the cache empty.
func (c *Cached) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cachePath == "" {
		return nil
	}

	if _, err := os.Stat(c.cachePath); os.IsNotExist(err) {
		return nil
	}

	data, err := os.ReadFile(c.cachePath)
	if err != nil {
		return types.NewAppError(types.ErrCache, "failed to read cache file", err)
	}

	var cacheFile CacheFile
	if err := json.Unmarshal(data, &cacheFile); err != nil {
		return types.NewAppError(types.ErrCache, "failed to parse cache file", err)
	}

	c.cache = make(map[string]CacheEntry)
	for _, entry := range cacheFile.Entries {
		c.cache[entry.Hash] = entry
	}

	logger.Info("translation cache loaded", logger.String("path", c.cachePath), logger.Int("entries", len(c.cache)))
	return nil
}

// Save writes the cache to disk.
func (c *Cached) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.cachePath == "" {
		return nil
	}

	entries := make([]CacheEntry, 0, len(c.cache))
	for _, entry := range c.cache {
		entries = append(entries, entry)
	}

	cacheFile := CacheFile{
		Version: "1.0",
		Entries: entries,
	}

	data, err := json.MarshalIndent(cacheFile, "", "  ")
	if err != nil {
		return types.NewAppError(types.ErrCache, "failed to marshal cache", err)
	}

	if err := os.WriteFile(c.cachePath, data, 0644); err != nil {
		return types.NewAppError(types.ErrCache, "failed to write cache file", err)
	}

	logger.Info("translation cache saved", logger.String("path", c.cachePath), logger.Int("entries", len(entries)))
	return nil
}

// Clear removes all entries and deletes the cache file if present.
func (c *Cached) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache = make(map[string]CacheEntry)
	if c.cachePath == "" {
		return nil
	}
	if err := os.Remove(c.cachePath); err != nil && !os.IsNotExist(err) {
		return types.NewAppError(types.ErrCache, "failed to remove cache file", err)
	}
	return nil
}
