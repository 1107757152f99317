package domain

import (
	"regexp"
	"strings"
)

var symbolRe = regexp.MustCompile(`^[A-Z0-9^.=\-]{1,15}$`)

// NormalizeSymbol trims and uppercases a ticker.
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ParseSymbol normalizes s and checks it looks like a ticker
// (AAPL, BRK.B, ^GSPC, BTC-USD, EURUSD=X).
func ParseSymbol(s string) (string, error) {
	sym := NormalizeSymbol(s)
	if !symbolRe.MatchString(sym) {
		return "", ErrInvalidSymbol
	}
	return sym, nil
}

// CryptoBase strips a trailing "-USD" quote currency: "btc-usd" -> "BTC".
func CryptoBase(s string) string {
	return strings.TrimSuffix(NormalizeSymbol(s), "-USD")
}
