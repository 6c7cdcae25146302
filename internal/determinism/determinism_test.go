package determinism

import (
	"strings"
	"testing"

	"github.com/nanohft/hftsim/internal/enginerun"
)

func TestCheckPassesForDeterministicParams(t *testing.T) {
	dir := t.TempDir()
	res, err := Check(enginerun.Params{
		DurationS: 1,
		Rate:      2000,
		Symbols:   4,
		Mode:      "optimized",
		Seed:      7,
		CodeHash:  "abc",
	}, dir)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if !res.Pass {
		t.Fatalf("expected pass, got runs=%v", res.Runs)
	}
}

func TestResultJSONFormat(t *testing.T) {
	r := Result{Pass: true, Runs: []uint64{1, 1, 1}}
	json := r.ResultJSON()
	if !strings.Contains(json, `"pass": true`) {
		t.Fatalf("missing pass field: %q", json)
	}
	if !strings.Contains(json, `"runs": [1, 1, 1]`) {
		t.Fatalf("missing runs field: %q", json)
	}
}

func TestResultFailsWhenRunsDiffer(t *testing.T) {
	r := Result{Pass: false, Runs: []uint64{1, 2, 1}}
	if r.Pass {
		t.Fatalf("should not be marked pass")
	}
}
