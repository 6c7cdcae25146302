package monitor

import (
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/nanohft/hftsim/internal/wire"
)

// Format represents the client's preferred encoding format.
type Format int

const (
	FormatJSON   Format = 0
	FormatBinary Format = 1
)

// Client represents a connected WebSocket client.
type Client struct {
	ID   uint64
	Conn *websocket.Conn

	mu         sync.RWMutex
	format     Format
	symbols    map[int]bool // symbol id -> subscribed
	allSymbols bool         // subscribed to all symbols

	sendCh     chan *wire.Message
	done       chan struct{}
	closeOnce  sync.Once
	bufferSize int

	// stats
	Dropped uint64
}

var clientIDCounter uint64

// NewClient creates a new client wrapping a WebSocket connection.
func NewClient(conn *websocket.Conn, bufferSize int) *Client {
	c := &Client{
		ID:         atomic.AddUint64(&clientIDCounter, 1),
		Conn:       conn,
		format:     FormatJSON,
		symbols:    make(map[int]bool),
		sendCh:     make(chan *wire.Message, bufferSize),
		done:       make(chan struct{}),
		bufferSize: bufferSize,
	}
	return c
}

// Format returns the client's current encoding format.
func (c *Client) Format() Format {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.format
}

// SetFormat sets the client's encoding format.
func (c *Client) SetFormat(f Format) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.format = f
}

// Subscribe adds symbols to the client's subscription.
func (c *Client) Subscribe(syms []int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range syms {
		c.symbols[s] = true
	}
}

// SubscribeAll subscribes the client to all symbols.
func (c *Client) SubscribeAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.allSymbols = true
}

// Unsubscribe removes symbols from the client's subscription.
func (c *Client) Unsubscribe(syms []int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range syms {
		delete(c.symbols, s)
	}
}

// IsSubscribed checks if the client is subscribed to a given symbol.
func (c *Client) IsSubscribed(sym int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.allSymbols {
		return true
	}
	return c.symbols[sym]
}

// SubscribedSymbols returns the set of subscribed symbol ids.
func (c *Client) SubscribedSymbols() []int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.allSymbols {
		return nil // caller should treat nil as "all"
	}
	out := make([]int, 0, len(c.symbols))
	for s := range c.symbols {
		out = append(out, s)
	}
	return out
}

// IsAllSubscribed returns true if the client is subscribed to all symbols.
func (c *Client) IsAllSubscribed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.allSymbols
}

// Send enqueues a wire message to be encoded and written to the client in
// its currently selected format. Returns false if the buffer is full
// (message dropped) — a slow client never blocks the broadcaster.
func (c *Client) Send(msg *wire.Message) bool {
	select {
	case c.sendCh <- msg:
		return true
	default:
		atomic.AddUint64(&c.Dropped, 1)
		return false
	}
}

// SendCh returns the outgoing message channel for the write pump.
func (c *Client) SendCh() <-chan *wire.Message {
	return c.sendCh
}

// Encode renders msg in the client's currently selected format. Returns
// (nil, websocket.TextMessage) for an unsupported message type in JSON
// format — callers should skip the write when data is nil.
func (c *Client) Encode(msg *wire.Message) (data []byte, wsMsgType int) {
	if c.Format() == FormatBinary {
		return wire.EncodeBinary(msg), websocket.BinaryMessage
	}
	data, _ = wire.EncodeJSON(msg)
	return data, websocket.TextMessage
}

// Done returns a channel that is closed when the client is disconnected.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Close terminates the client connection.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.Conn.Close()
	})
}
