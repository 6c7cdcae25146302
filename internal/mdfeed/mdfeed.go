// Package mdfeed generates the deterministic synthetic market-data stream.
package mdfeed

import (
	"math"

	"github.com/nanohft/hftsim/internal/prng"
)

// Event is one market tick. Immutable once returned by Next.
type Event struct {
	TsNs   uint64 // production timestamp, nanoseconds
	Symbol int    // 0..S-1
	Mid    float64
	Spread float64
}

// Burst is an interval during which the event rate is multiplied by X.
type Burst struct {
	TS  float64 // start, seconds
	Dur float64 // duration, seconds
	X   float64 // multiplier
}

// Feed is the per-run market-data generator. Not safe for concurrent use —
// it is only ever driven by the single producer.
type Feed struct {
	symbols int
	baseEPS int
	bursts  []Burst
	rng     *prng.RNG
	mids    []float64
	symIdx  int // round-robin cursor, starts at -1 so the first tick is symbol 0
}

// New creates a feed for symbols symbols, seeded deterministically.
func New(symbols, baseEPS int, seed int64, bursts []Burst) *Feed {
	mids := make([]float64, symbols)
	for i := range mids {
		mids[i] = 100.0 + float64(i)
	}
	return &Feed{
		symbols: symbols,
		baseEPS: baseEPS,
		bursts:  bursts,
		rng:     prng.New(seed),
		mids:    mids,
		symIdx:  -1,
	}
}

// RateAt returns the event rate (events/s) in effect at time t seconds,
// applying every active burst multiplier.
func (f *Feed) RateAt(t float64) float64 {
	r := float64(f.baseEPS)
	for _, b := range f.bursts {
		if t >= b.TS && t < b.TS+b.Dur {
			r *= b.X
		}
	}
	return r
}

// PeriodNs returns the inter-event period in nanoseconds at time t seconds.
func (f *Feed) PeriodNs(t float64) float64 {
	r := f.RateAt(t)
	if r < 1 {
		r = 1
	}
	return 1e9 / r
}

// Next advances the round-robin symbol index, draws the next mid via a
// bounded random walk, and returns the event timestamped at nowS seconds.
//
// The symbol index is incremented strictly before the random draw — this
// ordering is externally observable (it determines which symbol consumes
// which PRNG output) and is part of the determinism contract.
func (f *Feed) Next(nowS float64) Event {
	f.symIdx = (f.symIdx + 1) % f.symbols
	u := f.rng.Uniform(-0.01, 0.01)
	f.mids[f.symIdx] = math.Max(0.01, f.mids[f.symIdx]*(1+u))

	return Event{
		Symbol: f.symIdx,
		Mid:    f.mids[f.symIdx],
		Spread: 0.01,
		TsNs:   uint64(math.Round(nowS * 1e9)),
	}
}
