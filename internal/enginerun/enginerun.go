// Package enginerun orchestrates one end-to-end run of the MdFeed →
// Transport → Strategy → Risk → Router → LatencyRecorder pipeline, in
// either real-time (two goroutines) or simulated-time (single goroutine,
// deterministic) mode.
package enginerun

import (
	"io"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nanohft/hftsim/internal/latency"
	"github.com/nanohft/hftsim/internal/mdfeed"
	"github.com/nanohft/hftsim/internal/metrics"
	"github.com/nanohft/hftsim/internal/risk"
	"github.com/nanohft/hftsim/internal/router"
	"github.com/nanohft/hftsim/internal/rss"
	"github.com/nanohft/hftsim/internal/strategy"
	"github.com/nanohft/hftsim/internal/transport"
)

// State is a run's position in its one-way lifecycle. There is no recovery
// path back to an earlier state.
type State int

const (
	StateInit State = iota
	StateRunning
	StateDraining
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

const ringCapacity = 1 << 14

// Params configures one run.
type Params struct {
	DurationS       int
	Rate            int
	Symbols         int
	Bursts          []mdfeed.Burst
	Mode            string // "naive" or "optimized"
	Seed            int64
	Simulated       bool // true selects single-goroutine deterministic timing
	CodeHash        string
	TradesCSVWriter io.Writer

	// OnTrade, if set, is called for every admitted fill as it happens.
	// Used to fan out live telemetry; must not block.
	OnTrade func(tsNs uint64, sym, side int, qty, px float64)
}

// Result is everything a completed run produced.
type Result struct {
	Metrics     *metrics.Metrics
	MetricsJSON string
	State       State
}

// Run executes one full pipeline run to completion and returns its report.
func Run(p Params) Result {
	state := StateInit

	feed := mdfeed.New(p.Symbols, p.Rate, p.Seed, p.Bursts)
	strat := strategy.New(p.Symbols, 0.2, 1.5)
	riskGate := risk.New(p.Symbols, 10000.0, 1000.0)
	rtr := router.New(uint64(p.Seed), p.TradesCSVWriter)
	lat := latency.New()

	// Simulated runs always use the unbounded FIFO: the producer runs to
	// completion before the consumer starts, so a bounded ring would drop.
	var queue transport.Queue
	if p.Mode == "naive" || p.Simulated {
		queue = transport.NewLockedQueue()
	} else {
		queue = transport.NewRing(ringCapacity)
	}

	var (
		done      atomic.Bool
		processed atomic.Uint64
		seq       atomic.Uint64
	)

	startTP := time.Now()
	durationNs := time.Duration(p.DurationS) * time.Second

	producer := func() {
		now := startTP
		t := 0.0
		for now.Sub(startTP) < durationNs {
			r := feed.RateAt(t)
			if r < 1 {
				r = 1
			}
			periodNs := 1e9 / r

			ev := feed.Next(t)
			if !p.Simulated {
				ev.TsNs = uint64(now.UnixNano())
			}
			queue.Push(ev)

			step := time.Duration(periodNs)
			now = now.Add(step)
			t += periodNs / 1e9

			if !p.Simulated {
				if sleepFor := time.Until(now); sleepFor > 0 {
					time.Sleep(sleepFor)
				}
			}
		}
		done.Store(true)
	}

	consumer := func() {
		key := router.OrderKey{Seed: uint64(p.Seed)}
		for !done.Load() || queue.Depth() > 0 {
			ev, ok := queue.Pop()
			if !ok {
				if !p.Simulated {
					time.Sleep(0)
				}
				continue
			}

			t0Ns := ev.TsNs
			dec := strat.OnMid(ev.Symbol, ev.Mid)
			if p.Mode == "naive" {
				_ = strconv.FormatFloat(dec.ReasonScore, 'f', -1, 64)
			}

			if dec.Side != 0 {
				riskResult := riskGate.Check(ev.Symbol, dec.Side, dec.Qty, ev.Mid)
				if riskResult.Allowed {
					key.Sym = ev.Symbol
					key.Seq = seq.Add(1)
					key.Side = dec.Side
					oid := router.MakeOrderID(key)
					excerpt := reasonExcerpt(dec.ReasonScore)
					if rtr.IOCFill(oid, ev.TsNs, ev.Symbol, dec.Side, dec.Qty, ev.Mid, ev.Spread*0.5, excerpt) && p.OnTrade != nil {
						halfSpread := ev.Spread * 0.5
						px := ev.Mid
						if dec.Side > 0 {
							px += halfSpread
						} else {
							px -= halfSpread
						}
						p.OnTrade(ev.TsNs, ev.Symbol, dec.Side, dec.Qty, px)
					}
					riskGate.OnFill(ev.Symbol, dec.Side, dec.Qty, ev.Mid)
				}
			}

			var t1Ns uint64
			if p.Simulated {
				t1Ns = t0Ns + 1000
			} else {
				t1Ns = uint64(time.Now().UnixNano())
			}
			ms := float64(t1Ns-t0Ns) / 1e6
			lat.AddSample(ms)
			processed.Add(1)
		}
	}

	state = StateRunning
	if p.Simulated {
		producer()
		consumer()
	} else {
		var wg sync.WaitGroup
		wg.Add(2)
		go func() { defer wg.Done(); producer() }()
		go func() { defer wg.Done(); consumer() }()
		wg.Wait()
	}
	state = StateDraining

	elapsedS := float64(p.DurationS)
	eps := float64(processed.Load()) / maxF(1.0, elapsedS)

	rssMb := 0.0
	if !p.Simulated {
		rssMb = rss.MB()
	}

	m := &metrics.Metrics{
		Fingerprint: metrics.Fingerprint{
			Seed:     p.Seed,
			CodeHash: p.CodeHash,
			Symbols:  p.Symbols,
			Rate:     p.Rate,
			Mode:     p.Mode,
		},
		Latency: lat,
		EPS:     eps,
		Reliability: metrics.Reliability{
			Drops:                 queue.Drops(),
			QueueDepthMax:         queue.MaxDepth(),
			IdempotencyViolations: rtr.IdempotencyViolations(),
			ExposureBlocks:        riskGate.ExposureBlocks(),
		},
		RSSMb: rssMb,
	}
	rtr.Close()

	state = StateStopped
	return Result{
		Metrics:     m,
		MetricsJSON: m.ToJSON(),
		State:       state,
	}
}

func reasonExcerpt(z float64) string {
	s := strconv.FormatFloat(z, 'f', -1, 64)
	if len(s) > 6 {
		return s[:6]
	}
	return s
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
