package market

import "math/rand"

// SeedAll seeds every supported instrument: explicitly configured
// prices where given, otherwise a uniform draw from 100..1000 like a
// fresh exchange open.
func (ps *PriceStore) SeedAll(initial map[string]float64, rng *rand.Rand) {
	for _, sym := range Symbols() {
		if p, ok := initial[sym]; ok {
			ps.Seed(sym, p)
			continue
		}
		ps.Seed(sym, 100+rng.Float64()*900)
	}
}
