package latency

import (
	"strings"
	"testing"
)

func TestPercentilesEmptyRecorder(t *testing.T) {
	r := New()
	p := r.Percentiles()
	if p != (Percentiles{}) {
		t.Fatalf("empty recorder should report zero percentiles, got %+v", p)
	}
}

func TestNegativeSamplesClampToZero(t *testing.T) {
	r := New()
	r.AddSample(-5)
	p := r.Percentiles()
	if p.P50 < 0 {
		t.Fatalf("p50 should not be negative, got %f", p.P50)
	}
}

func TestSamplesBeyondMaxClampToTopBin(t *testing.T) {
	r := New()
	r.AddSample(100) // way beyond 5ms range
	p := r.Percentiles()
	if p.P99 < 5.0*(63.0/64.0) {
		t.Fatalf("overflow sample should land in top bin, got p99=%f", p.P99)
	}
}

// p50 is a bin midpoint, so it is positive as soon as any sample (even 0)
// is recorded; it is 0 only for a recorder with no samples.
func TestJitterRatioZeroWhenP50Zero(t *testing.T) {
	r := New()
	p := r.Percentiles()
	if p.JitterRatio != 0 {
		t.Fatalf("jitter ratio should be 0 when p50 is 0, got %f", p.JitterRatio)
	}
}

func TestReservoirCapsAtSampleCap(t *testing.T) {
	r := NewWithParams(5.0, 64, 10)
	for i := 0; i < 100; i++ {
		r.AddSample(1.0)
	}
	lines := strings.Split(strings.TrimRight(r.CSVSamples(), "\n"), "\n")
	if len(lines) != 10 {
		t.Fatalf("reservoir should cap at 10 samples, got %d", len(lines))
	}
}

func TestUniformLatencyProducesLowJitter(t *testing.T) {
	r := New()
	for i := 0; i < 1000; i++ {
		r.AddSample(1.0)
	}
	p := r.Percentiles()
	if p.JitterRatio > 1.5 {
		t.Fatalf("uniform latency should have jitter ratio near 1, got %f", p.JitterRatio)
	}
}

// TestPercentilesAreMonotonic asserts spec.md §8 invariant 5 — p50 <= p95
// <= p99 <= max — across several differently-shaped, non-trivial sample
// sets (not just a single uniform distribution).
func TestPercentilesAreMonotonic(t *testing.T) {
	cases := map[string]func(r *Recorder){
		"skewed with a long tail": func(r *Recorder) {
			for i := 0; i < 950; i++ {
				r.AddSample(0.2)
			}
			for i := 0; i < 40; i++ {
				r.AddSample(1.5)
			}
			for i := 0; i < 10; i++ {
				r.AddSample(4.8)
			}
		},
		"linear spread across the full range": func(r *Recorder) {
			for i := 0; i < 500; i++ {
				r.AddSample(float64(i%64) / 64.0 * 5.0)
			}
		},
		"single outlier among many tiny samples": func(r *Recorder) {
			for i := 0; i < 999; i++ {
				r.AddSample(0.01)
			}
			r.AddSample(5.0)
		},
		"all samples identical": func(r *Recorder) {
			for i := 0; i < 200; i++ {
				r.AddSample(2.5)
			}
		},
	}

	for name, fill := range cases {
		t.Run(name, func(t *testing.T) {
			r := New()
			fill(r)
			p := r.Percentiles()
			if !(p.P50 <= p.P95 && p.P95 <= p.P99 && p.P99 <= p.Max) {
				t.Fatalf("percentile ordering violated: p50=%f p95=%f p99=%f max=%f",
					p.P50, p.P95, p.P99, p.Max)
			}
		})
	}
}

func TestCSVSamplesHeader(t *testing.T) {
	r := New()
	if r.CSVSamplesHeader() != "latency_ms" {
		t.Fatalf("header = %q", r.CSVSamplesHeader())
	}
}
