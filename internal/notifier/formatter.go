package notifier

import (
	"fmt"
	"strings"
	"time"

	"DipCatcher/internal/model"
)

// FormatTrade formats an executed order into a Telegram alert.
func FormatTrade(t *model.TradeRecord, reason string) string {
	var b strings.Builder
	if t.Action == model.SideBuy {
		b.WriteString(fmt.Sprintf("🟢 <b>BUY</b> %s\n\n", t.Symbol))
	} else {
		b.WriteString(fmt.Sprintf("🔴 <b>SELL</b> %s\n\n", t.Symbol))
	}
	b.WriteString(fmt.Sprintf("Price: $%.2f × %d\n", t.Price, t.Quantity))
	if reason != "" {
		b.WriteString(fmt.Sprintf("Reason: %s\n", reason))
	}
	b.WriteString(fmt.Sprintf("Time: %s\n", t.Timestamp.Format("2006-01-02 15:04")))
	return b.String()
}

// FormatPortfolio formats the portfolio summary for display.
func FormatPortfolio(s *model.PortfolioSummary) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>Portfolio</b> | %s\n\n", time.Now().Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Value: $%.2f\n", s.TotalValue))
	b.WriteString(fmt.Sprintf("Cost basis: $%.2f\n", s.TotalCost))
	b.WriteString(fmt.Sprintf("P&L: $%.2f (%+.1f%%)\n\n", s.ProfitLoss, s.ProfitLossPct))
	b.WriteString(fmt.Sprintf("Holdings: %d | Watchlist: %d\n", s.HoldingsCount, s.WatchlistCount))
	return b.String()
}

// FormatCacheStatus formats the cache read model for display.
func FormatCacheStatus(cs *model.CacheStatus) string {
	var b strings.Builder
	b.WriteString("🗄 <b>Cache</b>\n\n")
	if !cs.Enabled {
		b.WriteString("Caching is disabled\n")
		return b.String()
	}
	st := cs.Stats
	b.WriteString(fmt.Sprintf("Entries: %d (%d price, %d history, %d filter)\n",
		st.TotalEntries, st.PriceEntries, st.HistoryEntries, st.FilterEntries))
	b.WriteString(fmt.Sprintf("Size: %.2fMB\n", st.CacheSizeMB))
	market := "closed"
	if st.MarketOpen {
		market = "open"
	}
	b.WriteString(fmt.Sprintf("Market: %s\n", market))
	return b.String()
}
