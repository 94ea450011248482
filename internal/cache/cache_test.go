package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var (
	// Wednesday 10:00 local, inside market hours.
	openTime = time.Date(2024, 1, 10, 10, 0, 0, 0, time.Local)
	// Saturday, market closed.
	weekendTime = time.Date(2024, 1, 13, 10, 0, 0, 0, time.Local)
)

func testOptions() Options {
	return Options{
		Enabled:          true,
		PriceExpiry:      2 * time.Minute,
		HistoryExpiry:    30 * time.Minute,
		FilterExpiry:     10 * time.Minute,
		ClosedMultiplier: 6,
	}
}

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c := New(filepath.Join(t.TempDir(), "cache.json"), testOptions())
	c.now = func() time.Time { return openTime }
	return c
}

func TestKey(t *testing.T) {
	tests := []struct {
		category, symbol, params string
		want                     string
	}{
		{"price", "AAPL", "", "price:AAPL"},
		{"history", "AAPL", "days_7", "history:AAPL:days_7"},
		{"filter", "above_5.00", "", "filter:above_5.00"},
	}
	for _, tt := range tests {
		if got := Key(tt.category, tt.symbol, tt.params); got != tt.want {
			t.Errorf("Key(%q, %q, %q) = %q, want %q", tt.category, tt.symbol, tt.params, got, tt.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	c := newTestCache(t)

	type blob struct {
		Price float64  `json:"price"`
		Tags  []string `json:"tags"`
	}
	in := blob{Price: 123.45, Tags: []string{"a", "b"}}
	c.Set("price:AAPL", in)

	var out blob
	if !c.Get("price:AAPL", CategoryPrice, &out) {
		t.Fatal("expected cache hit immediately after set")
	}
	if out.Price != in.Price || len(out.Tags) != 2 {
		t.Errorf("round trip mismatch: got %+v", out)
	}
}

func TestExpiry_MarketOpen(t *testing.T) {
	c := newTestCache(t)
	c.Set("price:AAPL", 100.0)

	// Just before expiry: still a hit.
	c.now = func() time.Time { return openTime.Add(2*time.Minute - time.Second) }
	if !c.Get("price:AAPL", CategoryPrice, nil) {
		t.Error("expected hit just before expiry")
	}

	// Just after expiry: miss and evicted.
	c.now = func() time.Time { return openTime.Add(2*time.Minute + time.Second) }
	if c.Get("price:AAPL", CategoryPrice, nil) {
		t.Error("expected miss after expiry")
	}
	if c.Stats().TotalEntries != 0 {
		t.Error("expired entry should have been evicted on Get")
	}
}

func TestExpiry_MarketClosedMultiplier(t *testing.T) {
	c := newTestCache(t)
	c.now = func() time.Time { return weekendTime }
	c.Set("price:AAPL", 100.0)

	// Past the base expiry but within expiry*multiplier while closed.
	c.now = func() time.Time { return weekendTime.Add(11 * time.Minute) }
	if !c.Get("price:AAPL", CategoryPrice, nil) {
		t.Error("expected hit: closed-market expiry is 12m for price")
	}

	c.now = func() time.Time { return weekendTime.Add(12*time.Minute + time.Second) }
	if c.Get("price:AAPL", CategoryPrice, nil) {
		t.Error("expected miss past the widened expiry")
	}
}

func TestUnknownCategoryFallsBackToPrice(t *testing.T) {
	c := newTestCache(t)
	c.Set("bogus:AAPL", 1.0)

	c.now = func() time.Time { return openTime.Add(3 * time.Minute) }
	if c.Get("bogus:AAPL", "bogus", nil) {
		t.Error("unknown category should expire on the price schedule")
	}
}

func TestDisabled(t *testing.T) {
	opts := testOptions()
	opts.Enabled = false
	c := New(filepath.Join(t.TempDir(), "cache.json"), opts)

	c.Set("price:AAPL", 100.0)
	if c.Get("price:AAPL", CategoryPrice, nil) {
		t.Error("disabled cache must always miss")
	}
	if n := c.ClearExpired(); n != 0 {
		t.Errorf("disabled ClearExpired = %d, want 0", n)
	}
	if s := c.Stats(); s.TotalEntries != 0 {
		t.Errorf("disabled Stats reported %d entries", s.TotalEntries)
	}
}

func TestClearExpired_Idempotent(t *testing.T) {
	c := newTestCache(t)
	c.Set("price:AAPL", 1.0)
	c.Set("price:MSFT", 2.0)
	c.Set("history:AAPL:days_7", []float64{1, 2})

	// Prices expired, history still fresh.
	c.now = func() time.Time { return openTime.Add(5 * time.Minute) }
	if n := c.ClearExpired(); n != 2 {
		t.Errorf("first sweep cleared %d, want 2", n)
	}
	if n := c.ClearExpired(); n != 0 {
		t.Errorf("second sweep cleared %d, want 0", n)
	}
	if got := c.Stats().TotalEntries; got != 1 {
		t.Errorf("expected 1 surviving entry, got %d", got)
	}
}

func TestClearSymbol(t *testing.T) {
	c := newTestCache(t)
	c.Set("price:AAPL", 1.0)
	c.Set("history:AAPL:days_7", 2.0)
	c.Set("price:MSFT", 3.0)

	c.ClearSymbol("AAPL")

	if c.Get("price:AAPL", CategoryPrice, nil) || c.Get("history:AAPL:days_7", CategoryHistory, nil) {
		t.Error("AAPL entries should be gone")
	}
	if !c.Get("price:MSFT", CategoryPrice, nil) {
		t.Error("MSFT entry should survive")
	}
}

func TestPersistence(t *testing.T) {
	file := filepath.Join(t.TempDir(), "cache.json")

	c := New(file, testOptions())
	c.now = func() time.Time { return openTime }
	c.Set("price:AAPL", 42.0)
	c.SaveNow()

	c2 := New(file, testOptions())
	c2.now = func() time.Time { return openTime }
	var price float64
	if !c2.Get("price:AAPL", CategoryPrice, &price) || price != 42.0 {
		t.Errorf("expected reloaded price 42.0, got %v", price)
	}
}

func TestBatchedSave(t *testing.T) {
	file := filepath.Join(t.TempDir(), "cache.json")
	c := New(file, testOptions())
	c.now = func() time.Time { return openTime }

	for i := 0; i < saveEvery-1; i++ {
		c.Set(Key("price", string(rune('A'+i)), ""), float64(i))
	}
	if _, err := os.Stat(file); !os.IsNotExist(err) {
		t.Fatal("cache should not be flushed before the 10th insert")
	}

	c.Set("price:LAST", 1.0)
	if _, err := os.Stat(file); err != nil {
		t.Fatalf("cache should be flushed on the 10th insert: %v", err)
	}
}

func TestCorruptFileStartsEmpty(t *testing.T) {
	file := filepath.Join(t.TempDir(), "cache.json")
	if err := os.WriteFile(file, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	c := New(file, testOptions())
	if c.Stats().TotalEntries != 0 {
		t.Error("corrupt cache file should start empty")
	}
}
