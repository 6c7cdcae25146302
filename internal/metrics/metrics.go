// Package metrics composes a run's fingerprint, latency, throughput, and
// reliability data into the fixed-layout report artifacts: metrics.json,
// latency.csv, run_fingerprint.txt, and report.md.
package metrics

import (
	"fmt"
	"strings"

	"github.com/nanohft/hftsim/internal/latency"
)

// Fingerprint identifies the parameters a run was executed with.
type Fingerprint struct {
	Seed     int64
	CodeHash string
	Symbols  int
	Rate     int
	Mode     string
}

// Reliability counts non-fatal conditions observed during a run.
type Reliability struct {
	Drops                 uint64
	QueueDepthMax         uint64
	IdempotencyViolations uint64
	ExposureBlocks        uint64
}

// Metrics is everything a completed run reports.
type Metrics struct {
	Fingerprint Fingerprint
	Latency     *latency.Recorder
	EPS         float64
	Reliability Reliability
	RSSMb       float64
}

// ToJSON renders the metrics object with a fixed key order and 3-decimal
// fixed-point formatting. encoding/json is deliberately not used here: the
// report's consumers (the determinism checksum included) depend on exact
// key order and formatting that a generic marshaler does not guarantee.
func (m *Metrics) ToJSON() string {
	p := m.Latency.Percentiles()
	var b strings.Builder

	fmt.Fprintf(&b, `{ "version": "1", "fingerprint": { `)
	fmt.Fprintf(&b, `"seed": %d, "code_hash": "%s", "symbols": %d, "rate": %d, "mode": "%s" }, `,
		m.Fingerprint.Seed, m.Fingerprint.CodeHash, m.Fingerprint.Symbols, m.Fingerprint.Rate, m.Fingerprint.Mode)
	fmt.Fprintf(&b, `"latency_ms": { "p50": %.3f, "p95": %.3f, "p99": %.3f, "max": %.3f, "jitter_ratio": %.3f }, `,
		p.P50, p.P95, p.P99, p.Max, p.JitterRatio)
	fmt.Fprintf(&b, `"throughput": { "eps": %.3f }, `, m.EPS)
	fmt.Fprintf(&b, `"reliability": { "drops": %d, "queue_depth_max": %d, "idempotency_violations": %d, "exposure_blocks": %d }, `,
		m.Reliability.Drops, m.Reliability.QueueDepthMax, m.Reliability.IdempotencyViolations, m.Reliability.ExposureBlocks)
	fmt.Fprintf(&b, `"resources": { "rss_mb": %.3f } }`, m.RSSMb)
	return b.String()
}

// LatencyCSV renders the latency.csv contents: header plus one sample per
// line.
func (m *Metrics) LatencyCSV() string {
	return m.Latency.CSVSamplesHeader() + "\n" + m.Latency.CSVSamples()
}

// RunFingerprintTxt renders the run_fingerprint.txt contents.
func (m *Metrics) RunFingerprintTxt() string {
	f := m.Fingerprint
	return fmt.Sprintf("seed=%d\ncode_hash=%s\nsymbols=%d\nrate=%d\nmode=%s\n",
		f.Seed, f.CodeHash, f.Symbols, f.Rate, f.Mode)
}

// ReportMd renders the report.md contents: a human-readable wrapper around
// the same JSON blob written to metrics.json.
func (m *Metrics) ReportMd() string {
	return "Run report\n\n" + m.ToJSON() + "\n"
}
