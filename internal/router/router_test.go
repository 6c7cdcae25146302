package router

import (
	"bytes"
	"strings"
	"testing"
)

func TestHeaderWritten(t *testing.T) {
	var buf bytes.Buffer
	r := New(1, &buf)
	r.Flush()
	if got := buf.String(); got != "ts,symbol,side,qty,px,reason_excerpt\n" {
		t.Fatalf("header = %q", got)
	}
}

func TestIOCFillAdmitsAndWritesRow(t *testing.T) {
	var buf bytes.Buffer
	r := New(1, &buf)
	ok := r.IOCFill(1001, 500, 2, 1, 1.0, 100.0, 0.005, "0.234")
	if !ok {
		t.Fatalf("first fill should be admitted")
	}
	r.Flush()
	if !strings.Contains(buf.String(), "500,2,1,1.000000,100.005000,0.234") {
		t.Fatalf("row not found: %q", buf.String())
	}
}

func TestIOCFillRejectsDuplicateOrderID(t *testing.T) {
	var buf bytes.Buffer
	r := New(1, &buf)
	r.IOCFill(42, 1, 0, 1, 1.0, 100.0, 0.01, "x")
	ok := r.IOCFill(42, 2, 0, 1, 1.0, 100.0, 0.01, "x")
	if ok {
		t.Fatalf("duplicate order id should be rejected")
	}
	if r.IdempotencyViolations() != 1 {
		t.Fatalf("idempotency violations = %d, want 1", r.IdempotencyViolations())
	}
}

func TestIOCFillPriceCrossesSpreadBySide(t *testing.T) {
	var buf bytes.Buffer
	r := New(1, &buf)
	r.IOCFill(1, 0, 0, 1, 1.0, 100.0, 0.5, "x")  // buy crosses up
	r.IOCFill(2, 0, 0, -1, 1.0, 100.0, 0.5, "x") // sell crosses down
	r.Flush()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if !strings.Contains(lines[1], "100.500000") {
		t.Fatalf("buy should execute above mid: %q", lines[1])
	}
	if !strings.Contains(lines[2], "99.500000") {
		t.Fatalf("sell should execute below mid: %q", lines[2])
	}
}

func TestMakeOrderIDDeterministic(t *testing.T) {
	k := OrderKey{Seed: 7, Sym: 2, Seq: 99, Side: 1}
	if MakeOrderID(k) != MakeOrderID(k) {
		t.Fatalf("same key should hash to same id")
	}
}

func TestMakeOrderIDVariesByField(t *testing.T) {
	base := OrderKey{Seed: 7, Sym: 2, Seq: 99, Side: 1}
	variants := []OrderKey{
		{Seed: 8, Sym: 2, Seq: 99, Side: 1},
		{Seed: 7, Sym: 3, Seq: 99, Side: 1},
		{Seed: 7, Sym: 2, Seq: 100, Side: 1},
		{Seed: 7, Sym: 2, Seq: 99, Side: -1},
	}
	baseID := MakeOrderID(base)
	for _, v := range variants {
		if MakeOrderID(v) == baseID {
			t.Fatalf("variant %+v collided with base id", v)
		}
	}
}
