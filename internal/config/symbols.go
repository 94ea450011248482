package config

// DefaultSymbols is the scan universe used when no symbols are configured:
// large-cap S&P 500 names plus some higher-volatility tickers where 30%
// drops actually happen.
var DefaultSymbols = []string{
	// Major tech
	"AAPL", "MSFT", "NVDA", "GOOGL", "GOOG", "AMZN", "META", "TSLA", "AVGO", "ORCL",
	"CRM", "NFLX", "ADBE", "AMD", "INTC", "CSCO", "QCOM", "TXN", "MU", "AMAT",
	// Financial
	"JPM", "V", "MA", "BAC", "WFC", "GS", "MS", "C", "AXP", "SPGI",
	"BLK", "SCHW", "CB", "MMC", "PGR", "AON", "CME", "ICE", "COF", "PYPL",
	// Healthcare
	"UNH", "JNJ", "PFE", "ABT", "TMO", "MRK", "DHR", "BMY", "ABBV", "CVS",
	"MDT", "CI", "GILD", "ISRG", "REGN", "VRTX", "ZTS", "DXCM", "HUM", "BIIB",
	// Consumer
	"HD", "MCD", "DIS", "NKE", "SBUX", "TGT", "LOW", "TJX", "COST", "WMT",
	"PG", "KO", "PEP", "PM", "MO", "CL", "KMB", "GIS",
	// Industrial
	"CAT", "BA", "UNP", "HON", "UPS", "LMT", "RTX", "GE", "MMM", "DE",
	"NOC", "FDX", "WM", "EMR", "ETN", "PH", "ITW", "CSX", "NSC", "GD",
	// Energy
	"XOM", "CVX", "COP", "EOG", "SLB", "PSX", "VLO", "MPC", "OXY", "BKR",
	"HAL", "DVN", "FANG", "EQT", "APA", "HES", "CTRA", "WMB", "KMI",
	// Telecom & media
	"VZ", "T", "TMUS", "CHTR", "CMCSA", "FOXA", "PARA",
	// Higher volatility
	"ROKU", "SHOP", "SNAP", "UBER", "LYFT", "SPOT", "ZM", "DOCU", "WDAY", "SNOW",
	"PLTR", "COIN", "RBLX", "U", "NET", "DDOG", "PANW", "CRWD", "ZS", "OKTA",
	"MRNA", "BNTX", "AMGN", "ILMN", "EXAS", "SOFI", "HOOD", "OPEN", "UPST",
}
