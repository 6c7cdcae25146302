// Package latency records tick-to-trade latency samples into a bounded
// histogram plus a bounded sample reservoir, and derives percentiles.
package latency

import (
	"fmt"
	"math"
	"strings"
)

const (
	defaultMaxMs     = 5.0
	defaultBins      = 64
	defaultSampleCap = 2000
)

// Percentiles summarizes a recorder's distribution at a point in time.
type Percentiles struct {
	P50, P95, P99, Max, JitterRatio float64
}

// Recorder accumulates latency samples (in milliseconds) into a
// fixed-range histogram and a bounded prefix reservoir. Not safe for
// concurrent use.
type Recorder struct {
	maxMs     float64
	bins      int
	hist      []uint64
	samples   []float64
	sampleCap int
	maxSeen   float64
}

// New creates a Recorder with the standard 5ms/64-bin histogram and a
// 2000-sample reservoir.
func New() *Recorder {
	return NewWithParams(defaultMaxMs, defaultBins, defaultSampleCap)
}

// NewWithParams creates a Recorder with custom histogram range/resolution
// and reservoir capacity.
func NewWithParams(maxMs float64, bins, sampleCap int) *Recorder {
	return &Recorder{
		maxMs:     maxMs,
		bins:      bins,
		hist:      make([]uint64, bins),
		sampleCap: sampleCap,
	}
}

// AddSample records one latency observation in milliseconds. Negative
// values are clamped to 0; values beyond maxMs fall into the top bin.
//
// The reservoir keeps only the first sampleCap samples seen — it is a
// prefix, not a uniform sample, so latency.csv reflects early-run
// behavior once a run exceeds the cap.
func (r *Recorder) AddSample(ms float64) {
	if ms < 0 {
		ms = 0
	}
	idx := int(math.Floor(ms / r.maxMs * float64(r.bins)))
	if idx > r.bins-1 {
		idx = r.bins - 1
	}
	r.hist[idx]++
	if len(r.samples) < r.sampleCap {
		r.samples = append(r.samples, ms)
	}
	if ms > r.maxSeen {
		r.maxSeen = ms
	}
}

// Percentiles computes p50/p95/p99/max/jitter_ratio from the histogram.
// Quantile bins are located by their midpoint, not the observed samples
// within them — this is a histogram-approximate percentile, not an exact
// one, and is part of the external metrics contract.
func (r *Recorder) Percentiles() Percentiles {
	var total uint64
	for _, c := range r.hist {
		total += c
	}
	if total == 0 {
		return Percentiles{}
	}

	kth := func(q float64) float64 {
		k := uint64(math.Ceil(q * float64(total)))
		var acc uint64
		for i := 0; i < r.bins; i++ {
			acc += r.hist[i]
			if acc >= k {
				return (float64(i) + 0.5) * (r.maxMs / float64(r.bins))
			}
		}
		return r.maxMs
	}

	p := Percentiles{
		P50: kth(0.50),
		P95: kth(0.95),
		P99: kth(0.99),
	}
	p.Max = math.Max(r.maxSeen, p.P99)
	if p.P50 > 0 {
		p.JitterRatio = p.P99 / p.P50
	}
	return p
}

// CSVSamplesHeader returns the single-column header for CSVSamples.
func (r *Recorder) CSVSamplesHeader() string { return "latency_ms" }

// CSVSamples renders the reservoir as one fixed-point value per line.
func (r *Recorder) CSVSamples() string {
	var b strings.Builder
	for _, s := range r.samples {
		fmt.Fprintf(&b, "%.6f\n", s)
	}
	return b.String()
}
