// Package router admits IOC fills idempotently and appends them to a trade
// sink, keyed by an order id composed from a field-independent FNV-1a64
// hash.
package router

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"io"
)

// Trade is one filled order.
type Trade struct {
	TsNs   uint64
	Symbol int
	Side   int // +1 buy, -1 sell
	Qty    float64
	Px     float64
	Reason string
}

// OrderKey is the field set an order id is derived from. Two fills with the
// same key produce the same id and the second is rejected as a duplicate.
type OrderKey struct {
	Seed uint64
	Sym  int
	Seq  uint64
	Side int
}

// MakeOrderID hashes each field of k independently with FNV-1a64 and
// XOR-combines the results. Hashing fields independently (rather than
// hashing their concatenation) is deliberate: it matches the reference
// composition and must not be changed, or order ids diverge from frozen
// determinism fixtures.
func MakeOrderID(k OrderKey) uint64 {
	var x uint64
	x ^= fnv1a64Uint64(k.Seed)
	x ^= fnv1a64Uint64(uint64(int64(k.Sym)))
	x ^= fnv1a64Uint64(k.Seq)
	x ^= fnv1a64Uint64(uint64(int64(k.Side)))
	return x
}

func fnv1a64Uint64(v uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	h := fnv.New64a()
	h.Write(buf[:])
	return h.Sum64()
}

// Router tracks seen order ids for idempotency and writes admitted fills as
// CSV rows to its sink.
type Router struct {
	seed             uint64
	seen             map[uint64]struct{}
	w                *bufio.Writer
	idempotencyViols uint64
}

// New creates a Router writing CSV rows to w, identified by seed for
// logging/debugging purposes. Ownership of w (and closing it, if it needs
// closing) stays with the caller — Close only flushes.
func New(seed uint64, w io.Writer) *Router {
	r := &Router{
		seed: seed,
		seen: make(map[uint64]struct{}),
		w:    bufio.NewWriter(w),
	}
	fmt.Fprint(r.w, "ts,symbol,side,qty,px,reason_excerpt\n")
	return r
}

// IOCFill admits the fill unless orderID has been seen before. On
// admission it computes the execution price from mid and half-spread
// (buys cross the offer, sells cross the bid) and appends a CSV row.
// Returns false only for a duplicate order id; a write error on the sink is
// not reported here and surfaces from Flush or Close.
func (r *Router) IOCFill(orderID, tsNs uint64, sym, side int, qty, mid, halfSpread float64, reasonExcerpt string) bool {
	if _, dup := r.seen[orderID]; dup {
		r.idempotencyViols++
		return false
	}
	r.seen[orderID] = struct{}{}

	px := mid
	if side > 0 {
		px += halfSpread
	} else {
		px -= halfSpread
	}
	fmt.Fprintf(r.w, "%d,%d,%d,%.6f,%.6f,%s\n", tsNs, sym, side, qty, px, reasonExcerpt)
	return true
}

// IdempotencyViolations returns the number of IOCFill calls rejected as
// duplicates.
func (r *Router) IdempotencyViolations() uint64 { return r.idempotencyViols }

// Flush flushes any buffered CSV rows to the underlying writer.
func (r *Router) Flush() error { return r.w.Flush() }

// Close flushes buffered CSV rows. It does not close the underlying
// writer — the caller owns that lifecycle.
func (r *Router) Close() error {
	return r.w.Flush()
}
