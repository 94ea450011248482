package engine

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"DipCatcher/internal/model"
)

// Store persists the watchlist, holdings, and trade log as human-inspectable
// JSON files. Reads fail open: a missing or corrupt file yields an empty
// collection with a warning so the bot keeps operating.
type Store struct {
	WatchlistFile string
	HoldingsFile  string
	TradesFile    string
}

// tradeLog is the on-disk shape of the trades file.
type tradeLog struct {
	Trades []model.TradeRecord `json:"trades"`
}

func readJSON(file string, dst any) error {
	data, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, dst)
}

// writeJSON rewrites file atomically via a temp file and rename.
func writeJSON(file string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return err
	}
	tmp := file + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, file)
}

// LoadWatchlist reads the watchlist file. Records missing required fields
// are dropped with a warning rather than propagated into the passes.
func (s *Store) LoadWatchlist() map[string]model.WatchlistEntry {
	raw := map[string]model.WatchlistEntry{}
	if err := readJSON(s.WatchlistFile, &raw); err != nil {
		log.Printf("[WARN] load watchlist: %v, starting empty", err)
		return map[string]model.WatchlistEntry{}
	}
	out := make(map[string]model.WatchlistEntry, len(raw))
	for symbol, e := range raw {
		if e.Symbol == "" {
			e.Symbol = symbol
		}
		if !e.Valid() {
			log.Printf("[WARN] dropping invalid watchlist record for %s", symbol)
			continue
		}
		out[symbol] = e
	}
	return out
}

// LoadHoldings reads the holdings file, dropping invalid records.
func (s *Store) LoadHoldings() map[string]model.HoldingEntry {
	raw := map[string]model.HoldingEntry{}
	if err := readJSON(s.HoldingsFile, &raw); err != nil {
		log.Printf("[WARN] load holdings: %v, starting empty", err)
		return map[string]model.HoldingEntry{}
	}
	out := make(map[string]model.HoldingEntry, len(raw))
	for symbol, e := range raw {
		if e.Symbol == "" {
			e.Symbol = symbol
		}
		if !e.Valid() {
			log.Printf("[WARN] dropping invalid holding record for %s", symbol)
			continue
		}
		out[symbol] = e
	}
	return out
}

// SaveWatchlist rewrites the watchlist file.
func (s *Store) SaveWatchlist(w map[string]model.WatchlistEntry) error {
	if err := writeJSON(s.WatchlistFile, w); err != nil {
		return fmt.Errorf("save watchlist: %w", err)
	}
	return nil
}

// SaveHoldings rewrites the holdings file.
func (s *Store) SaveHoldings(h map[string]model.HoldingEntry) error {
	if err := writeJSON(s.HoldingsFile, h); err != nil {
		return fmt.Errorf("save holdings: %w", err)
	}
	return nil
}

// SaveBook writes holdings then watchlist. Holdings go first so a crash in
// between cannot lose a just-bought position; a symbol left in both files is
// tolerated by the buy-pass guard.
func (s *Store) SaveBook(w map[string]model.WatchlistEntry, h map[string]model.HoldingEntry) error {
	if err := s.SaveHoldings(h); err != nil {
		return err
	}
	return s.SaveWatchlist(w)
}

// LoadTrades reads the append-only trade log.
func (s *Store) LoadTrades() []model.TradeRecord {
	var tl tradeLog
	if err := readJSON(s.TradesFile, &tl); err != nil {
		log.Printf("[WARN] load trades: %v, starting empty", err)
		return nil
	}
	return tl.Trades
}

// AppendTrade appends one record to the trade log and rewrites the file.
func (s *Store) AppendTrade(t model.TradeRecord) error {
	tl := tradeLog{Trades: s.LoadTrades()}
	tl.Trades = append(tl.Trades, t)
	if err := writeJSON(s.TradesFile, tl); err != nil {
		return fmt.Errorf("append trade: %w", err)
	}
	return nil
}
