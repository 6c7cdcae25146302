// Package strategy turns mid-price ticks into contrarian trade decisions
// using a streaming EWMA/EWVAR z-score per symbol.
package strategy

import "math"

// Decision is the strategy's verdict for one tick.
type Decision struct {
	Side        int     // -1 sell, 0 hold, +1 buy
	Qty         float64 // units
	ReasonScore float64 // the z-score that produced this decision, for logging
}

// Strategy tracks per-symbol EWMA/EWVAR state and emits contrarian
// decisions: a large negative z-score (price fell hard relative to its
// recent volatility) triggers a buy, a large positive one a sell.
type Strategy struct {
	symbols int
	alpha   float64
	zEntry  float64

	prevMid []float64
	ewma    []float64
	ewvar   []float64
}

// New creates a Strategy for the given symbol count. alpha is the EWMA/EWVAR
// decay rate, zEntry the absolute z-score threshold that triggers a trade.
func New(symbols int, alpha, zEntry float64) *Strategy {
	ewvar := make([]float64, symbols)
	for i := range ewvar {
		ewvar[i] = 1e-6
	}
	return &Strategy{
		symbols: symbols,
		alpha:   alpha,
		zEntry:  zEntry,
		prevMid: make([]float64, symbols),
		ewma:    make([]float64, symbols),
		ewvar:   ewvar,
	}
}

// OnMid updates sym's streaming statistics with the new mid price and
// returns the resulting decision. Not safe for concurrent calls on the
// same symbol.
func (s *Strategy) OnMid(sym int, mid float64) Decision {
	ret := 0.0
	if s.prevMid[sym] > 0 {
		ret = (mid - s.prevMid[sym]) / s.prevMid[sym]
	}
	s.prevMid[sym] = mid

	d := ret - s.ewma[sym]
	s.ewma[sym] += s.alpha * d
	s.ewvar[sym] = (1 - s.alpha) * (s.ewvar[sym] + s.alpha*d*d)

	z := 0.0
	if s.ewvar[sym] > 1e-12 {
		z = s.ewma[sym] / math.Sqrt(s.ewvar[sym])
	}

	dec := Decision{ReasonScore: z}
	switch {
	case z <= -s.zEntry:
		dec.Side = +1
		dec.Qty = 1.0
	case z >= s.zEntry:
		dec.Side = -1
		dec.Qty = 1.0
	}
	return dec
}
