package risk

import "testing"

func TestAllowsWithinCaps(t *testing.T) {
	r := New(1, 10000, 1000)
	res := r.Check(0, 1, 1.0, 100.0)
	if !res.Allowed {
		t.Fatalf("trade within caps should be allowed, got %+v", res)
	}
}

func TestBlocksOverPerTradeCap(t *testing.T) {
	r := New(1, 100, 1000)
	res := r.Check(0, 1, 10.0, 100.0) // notional 1000 > cap 100
	if res.Allowed || res.Reason != "per_trade_cap" {
		t.Fatalf("should block per_trade_cap, got %+v", res)
	}
	if r.ExposureBlocks() != 1 {
		t.Fatalf("exposure blocks = %d, want 1", r.ExposureBlocks())
	}
}

func TestBlocksOverDailyLossCap(t *testing.T) {
	r := New(1, 10000, 1.0)
	r.OnFill(0, 1, 1.0, 150.0) // pnl -= 0.01*1*150 = -1.5, breaches -1.0 cap
	res := r.Check(0, 1, 1.0, 100.0)
	if res.Allowed || res.Reason != "daily_loss_cap" {
		t.Fatalf("should block daily_loss_cap, got %+v pnl=%f", res, r.PnL())
	}
}

func TestPerTradeCapCheckedBeforeDailyLossCap(t *testing.T) {
	r := New(1, 50, 1.0)
	r.OnFill(0, 1, 1.0, 150.0) // breaches daily loss cap too
	res := r.Check(0, 1, 10.0, 100.0) // notional 1000 > cap 50
	if res.Reason != "per_trade_cap" {
		t.Fatalf("per_trade_cap should take priority, got reason=%q", res.Reason)
	}
}

func TestOnFillUpdatesPositionAndPnL(t *testing.T) {
	r := New(2, 10000, 1000)
	r.OnFill(0, 1, 2.0, 100.0)
	r.OnFill(0, -1, 1.0, 100.0)
	if got := r.Position(0); got != 1.0 {
		t.Fatalf("position = %f, want 1.0", got)
	}
	if r.Position(1) != 0 {
		t.Fatalf("untouched symbol should stay at 0 position")
	}
	wantPnL := -0.01*2.0*100.0 - 0.01*1.0*100.0
	if r.PnL() != wantPnL {
		t.Fatalf("pnl = %f, want %f", r.PnL(), wantPnL)
	}
}

func TestLastReasonTracksMostRecentBlock(t *testing.T) {
	r := New(1, 100, 1000)
	if r.LastReason() != "" {
		t.Fatalf("initial last reason should be empty")
	}
	r.Check(0, 1, 10.0, 100.0)
	if r.LastReason() != "per_trade_cap" {
		t.Fatalf("last reason = %q, want per_trade_cap", r.LastReason())
	}
}
