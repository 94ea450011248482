package cache

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"DipCatcher/internal/model"
)

// Cache categories. Each has its own base expiry; unknown categories fall
// back to the price expiry.
const (
	CategoryPrice   = "price"
	CategoryHistory = "history"
	CategoryFilter  = "filter"
)

// saveEvery is the insert-batching interval for flushing to disk.
const saveEvery = 10

// Options configures the cache expiry behaviour.
type Options struct {
	Enabled          bool
	PriceExpiry      time.Duration
	HistoryExpiry    time.Duration
	FilterExpiry     time.Duration
	ClosedMultiplier float64 // applied outside market hours
}

// entry is a single cached value with its write timestamp.
type entry struct {
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// Cache is a key-value store with per-category expiry that widens while the
// market is closed. The whole cache is persisted as one JSON file.
type Cache struct {
	mu      sync.Mutex
	opts    Options
	file    string
	entries map[string]entry
	inserts int

	now func() time.Time // replaced in tests
}

// New loads (or initializes) a cache backed by the given file. A missing or
// corrupt file starts empty with a warning.
func New(file string, opts Options) *Cache {
	c := &Cache{
		opts:    opts,
		file:    file,
		entries: make(map[string]entry),
		now:     time.Now,
	}
	if !opts.Enabled {
		log.Println("[INFO] cache disabled")
		return c
	}
	c.load()
	log.Printf("[INFO] cache initialized: price %s, history %s, filter %s (closed x%.0f)",
		opts.PriceExpiry, opts.HistoryExpiry, opts.FilterExpiry, opts.ClosedMultiplier)
	return c
}

// Key builds a composite cache key of the form "category:symbol:params",
// trimming empty trailing segments.
func Key(category, symbol, params string) string {
	return strings.Trim(fmt.Sprintf("%s:%s:%s", category, symbol, params), ":")
}

// isMarketHours reports whether the US market is roughly open: Monday-Friday,
// local hour in [9,16). Simplified on purpose; not holiday-aware.
func isMarketHours(now time.Time) bool {
	wd := now.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return false
	}
	h := now.Hour()
	return h >= 9 && h < 16
}

func (c *Cache) expiryFor(category string) time.Duration {
	var d time.Duration
	switch category {
	case CategoryHistory:
		d = c.opts.HistoryExpiry
	case CategoryFilter:
		d = c.opts.FilterExpiry
	default:
		d = c.opts.PriceExpiry
	}
	if !isMarketHours(c.now()) {
		d = time.Duration(float64(d) * c.opts.ClosedMultiplier)
	}
	return d
}

// Get looks up key and unmarshals the cached value into dst. It returns false
// on a miss or when the entry has expired (expired entries are evicted).
func (c *Cache) Get(key, category string, dst any) bool {
	if !c.opts.Enabled {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return false
	}
	if c.now().Sub(e.Timestamp) > c.expiryFor(category) {
		delete(c.entries, key)
		return false
	}
	if dst != nil {
		if err := json.Unmarshal(e.Data, dst); err != nil {
			log.Printf("[WARN] cache decode %s: %v", key, err)
			delete(c.entries, key)
			return false
		}
	}
	return true
}

// Set stores value under key with the current timestamp. Every 10th insert
// flushes the whole cache to disk to bound staleness on crash.
func (c *Cache) Set(key string, value any) {
	if !c.opts.Enabled {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("[WARN] cache encode %s: %v", key, err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{Data: data, Timestamp: c.now()}
	c.inserts++
	if c.inserts%saveEvery == 0 {
		c.save()
	}
}

// categoryOf infers the expiry category from the key prefix.
func categoryOf(key string) string {
	switch {
	case strings.HasPrefix(key, CategoryHistory+":"):
		return CategoryHistory
	case strings.HasPrefix(key, CategoryFilter+":"):
		return CategoryFilter
	default:
		return CategoryPrice
	}
}

// ClearExpired sweeps all entries and evicts those past their category
// expiry. Returns the number evicted.
func (c *Cache) ClearExpired() int {
	if !c.opts.Enabled {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	cleared := 0
	for key, e := range c.entries {
		if c.now().Sub(e.Timestamp) > c.expiryFor(categoryOf(key)) {
			delete(c.entries, key)
			cleared++
		}
	}
	if cleared > 0 {
		log.Printf("[INFO] cleared %d expired cache entries", cleared)
	}
	return cleared
}

// ClearAll evicts every entry and persists the empty cache.
func (c *Cache) ClearAll() {
	if !c.opts.Enabled {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	count := len(c.entries)
	c.entries = make(map[string]entry)
	c.save()
	log.Printf("[INFO] cleared all %d cache entries", count)
}

// ClearSymbol evicts every entry whose key contains symbol and persists.
func (c *Cache) ClearSymbol(symbol string) {
	if !c.opts.Enabled {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	cleared := 0
	for key := range c.entries {
		if strings.Contains(key, symbol) {
			delete(c.entries, key)
			cleared++
		}
	}
	if cleared > 0 {
		c.save()
		log.Printf("[INFO] cleared %d cache entries for %s", cleared, symbol)
	}
}

// Enabled reports whether caching is active.
func (c *Cache) Enabled() bool { return c.opts.Enabled }

// Stats returns per-category entry counts and an approximate on-disk size.
func (c *Cache) Stats() model.CacheStats {
	if !c.opts.Enabled {
		return model.CacheStats{MarketOpen: isMarketHours(c.now())}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := model.CacheStats{
		TotalEntries: len(c.entries),
		MarketOpen:   isMarketHours(c.now()),
	}
	sizeBytes := 0
	for key, e := range c.entries {
		sizeBytes += len(key) + len(e.Data)
		switch categoryOf(key) {
		case CategoryHistory:
			stats.HistoryEntries++
		case CategoryFilter:
			stats.FilterEntries++
		default:
			if strings.HasPrefix(key, CategoryPrice+":") {
				stats.PriceEntries++
			} else {
				stats.OtherEntries++
			}
		}
	}
	stats.CacheSizeMB = float64(sizeBytes) / (1024 * 1024)
	return stats
}

// SaveNow flushes the cache to disk. Used on shutdown.
func (c *Cache) SaveNow() {
	if !c.opts.Enabled {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.save()
}

// load reads the cache file. Missing or corrupt files start empty.
func (c *Cache) load() {
	data, err := os.ReadFile(c.file)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[WARN] load cache: %v", err)
		}
		return
	}
	var entries map[string]entry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("[WARN] load cache: corrupt file, starting empty: %v", err)
		return
	}
	c.entries = entries
	log.Printf("[INFO] loaded %d cache entries from disk", len(c.entries))
}

// save writes the whole cache atomically. Caller holds the lock.
func (c *Cache) save() {
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		log.Printf("[WARN] save cache: %v", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(c.file), 0755); err != nil {
		log.Printf("[WARN] save cache: %v", err)
		return
	}
	tmp := c.file + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		log.Printf("[WARN] save cache: %v", err)
		return
	}
	if err := os.Rename(tmp, c.file); err != nil {
		log.Printf("[WARN] save cache: %v", err)
	}
}
