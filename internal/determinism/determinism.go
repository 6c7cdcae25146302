// Package determinism runs the engine three times under simulated-time
// mode and verifies the resulting metrics checksums are byte-identical.
package determinism

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"

	"github.com/nanohft/hftsim/internal/enginerun"
	"github.com/nanohft/hftsim/internal/metrics"
)

// Result is the verdict of a determinism check.
type Result struct {
	Pass bool
	Runs []uint64 // one FNV-1a64 checksum per run, in order
}

// Check runs the engine three times into run0/run1/run2 subdirectories of
// reportDir, each with a fresh trades.csv, and checksums each run's
// metrics.json with FNV-1a64. All three checksums must match for Pass.
func Check(base enginerun.Params, reportDir string) (Result, error) {
	var sums [3]uint64

	for i := 0; i < 3; i++ {
		runDir := filepath.Join(reportDir, fmt.Sprintf("run%d", i))
		if err := os.MkdirAll(runDir, 0o755); err != nil {
			return Result{}, err
		}

		tradesPath := filepath.Join(runDir, "trades.csv")
		f, err := os.Create(tradesPath)
		if err != nil {
			return Result{}, err
		}

		p := base
		p.Simulated = true
		p.TradesCSVWriter = f

		res := enginerun.Run(p)
		if err := f.Close(); err != nil {
			return Result{}, err
		}

		sums[i] = fnv1a64String(res.MetricsJSON + "\n") // exact metrics.json bytes

		if err := writeArtifacts(runDir, res.Metrics); err != nil {
			return Result{}, err
		}
	}

	pass := sums[0] == sums[1] && sums[1] == sums[2]
	return Result{Pass: pass, Runs: sums[:]}, nil
}

// writeArtifacts writes the same four report files a normal run produces,
// so each determinism subrun's directory is a complete, inspectable report.
func writeArtifacts(dir string, m *metrics.Metrics) error {
	files := map[string]string{
		"metrics.json":        m.ToJSON() + "\n",
		"latency.csv":         m.LatencyCSV(),
		"run_fingerprint.txt": m.RunFingerprintTxt(),
		"report.md":           m.ReportMd(),
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func fnv1a64String(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}

// ResultJSON renders the determinism_result.json contents.
func (r Result) ResultJSON() string {
	var b bytes.Buffer
	fmt.Fprintf(&b, `{ "pass": %t, "runs": [%d, %d, %d] }`+"\n", r.Pass, r.Runs[0], r.Runs[1], r.Runs[2])
	return b.String()
}
