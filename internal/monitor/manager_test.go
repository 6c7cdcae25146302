package monitor

import (
	"testing"

	"github.com/nanohft/hftsim/internal/wire"
)

func newTestManager() *Manager {
	return NewManager(30, 100)
}

func testTradeMsg(sym int) *wire.Message {
	return &wire.Message{Type: wire.MsgTrade, Symbol: sym, Side: 1, Qty: 1, Price: 1}
}

func TestResolveSymbolsSpecific(t *testing.T) {
	m := newTestManager()
	syms, all := m.ResolveSymbols([]int{1, 2})
	if all {
		t.Fatal("should not be all")
	}
	if len(syms) != 2 {
		t.Fatalf("expected 2 symbols, got %d", len(syms))
	}
	set := make(map[int]bool)
	for _, s := range syms {
		set[s] = true
	}
	if !set[1] || !set[2] {
		t.Fatalf("expected symbols 1 and 2, got %v", syms)
	}
}

func TestResolveSymbolsEmptyMeansAll(t *testing.T) {
	m := newTestManager()
	syms, all := m.ResolveSymbols(nil)
	if !all {
		t.Fatal("empty request should set all=true")
	}
	if syms != nil {
		t.Fatalf("all should return nil symbols, got %v", syms)
	}
}

func TestResolveSymbolsOutOfRangeDropped(t *testing.T) {
	m := newTestManager()
	syms, all := m.ResolveSymbols([]int{-1, 1000})
	if all {
		t.Fatal("should not be all")
	}
	if len(syms) != 0 {
		t.Fatalf("expected 0 symbols for out-of-range ids, got %d", len(syms))
	}
}

func TestResolveSymbolsMixed(t *testing.T) {
	m := newTestManager()
	syms, all := m.ResolveSymbols([]int{1, 9999, 3})
	if all {
		t.Fatal("should not be all")
	}
	if len(syms) != 2 {
		t.Fatalf("expected 2 in-range symbols, got %d", len(syms))
	}
}

func TestClientCountTracksRegistration(t *testing.T) {
	m := newTestManager()
	c := NewClient(nil, 10)
	m.mu.Lock()
	m.clients[c.ID] = c
	m.mu.Unlock()
	if m.ClientCount() != 1 {
		t.Fatalf("ClientCount = %d, want 1", m.ClientCount())
	}
	m.Unregister(c)
	if m.ClientCount() != 0 {
		t.Fatalf("ClientCount after unregister = %d, want 0", m.ClientCount())
	}
}

func TestStockDirectoryAllSymbols(t *testing.T) {
	m := newTestManager()
	msgs := m.StockDirectory(nil)
	if len(msgs) != 30 {
		t.Fatalf("expected 30 stock directory messages, got %d", len(msgs))
	}
	if msgs[0].Label != "NEXO" {
		t.Fatalf("msgs[0].Label = %s, want NEXO", msgs[0].Label)
	}
}

func TestStockDirectorySubset(t *testing.T) {
	m := newTestManager()
	msgs := m.StockDirectory([]int{2})
	if len(msgs) != 1 {
		t.Fatalf("expected 1 stock directory message, got %d", len(msgs))
	}
	if msgs[0].Symbol != 2 {
		t.Fatalf("msgs[0].Symbol = %d, want 2", msgs[0].Symbol)
	}
}

func TestBroadcastSkipsUnsubscribed(t *testing.T) {
	m := newTestManager()
	c := NewClient(nil, 10)
	c.Subscribe([]int{1})
	m.mu.Lock()
	m.clients[c.ID] = c
	m.mu.Unlock()

	m.Broadcast(testTradeMsg(2))
	select {
	case <-c.SendCh():
		t.Fatal("client should not receive a message for an unsubscribed symbol")
	default:
	}

	m.Broadcast(testTradeMsg(1))
	select {
	case <-c.SendCh():
	default:
		t.Fatal("client should receive a message for its subscribed symbol")
	}
}
