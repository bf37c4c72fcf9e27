package kline

import "strings"

// BreedFromSymbol extracts the breed code from a contract symbol:
// "agL9" and "agL8" are main-contract aliases for "ag", "ag2212" is a
// dated contract of "ag".
func BreedFromSymbol(symbol string) string {
	if s, ok := strings.CutSuffix(symbol, "L9"); ok {
		return s
	}
	if s, ok := strings.CutSuffix(symbol, "L8"); ok {
		return s
	}
	i := 0
	for i < len(symbol) {
		c := symbol[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			break
		}
		i++
	}
	return symbol[:i]
}
