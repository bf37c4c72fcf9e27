package kline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBreedFromSymbol(t *testing.T) {
	cases := map[string]string{
		"agL9":   "ag",
		"agL8":   "ag",
		"ag2212": "ag",
		"ICL9":   "IC",
		"IC2209": "IC",
		"TF2209": "TF",
		"a2209":  "a",
		"ag":     "ag",
		"2209":   "",
	}
	for symbol, breed := range cases {
		assert.Equal(t, breed, BreedFromSymbol(symbol), symbol)
	}
}
