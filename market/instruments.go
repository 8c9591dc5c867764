// market/instruments.go
package market

import "sort"

type InstrumentMeta struct {
	Symbol string
	Name   string
}

// Instruments is the fixed set of tradable tickers. The simulator,
// ledger and watchlist all validate symbols against this map.
var Instruments = map[string]InstrumentMeta{
	"GOOG": {Symbol: "GOOG", Name: "Alphabet Inc."},
	"TSLA": {Symbol: "TSLA", Name: "Tesla, Inc."},
	"AMZN": {Symbol: "AMZN", Name: "Amazon.com, Inc."},
	"META": {Symbol: "META", Name: "Meta Platforms, Inc."},
	"NVDA": {Symbol: "NVDA", Name: "NVIDIA Corporation"},
}

func Supported(symbol string) bool {
	_, ok := Instruments[symbol]
	return ok
}

// Symbols returns the supported tickers in sorted order.
func Symbols() []string {
	syms := make([]string, 0, len(Instruments))
	for s := range Instruments {
		syms = append(syms, s)
	}
	sort.Strings(syms)
	return syms
}
