// Package monitor fans out engine telemetry (trade fills and system
// lifecycle events) to WebSocket clients subscribed by integer symbol id.
package monitor

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/nanohft/hftsim/internal/symlabel"
	"github.com/nanohft/hftsim/internal/wire"
)

// Manager handles client registration, subscriptions, and message fan-out
// for a single run's telemetry stream.
type Manager struct {
	mu         sync.RWMutex
	clients    map[uint64]*Client
	numSymbols int
	bufferSize int
}

// NewManager creates a monitor for a run tracking numSymbols symbols.
func NewManager(numSymbols int, bufferSize int) *Manager {
	return &Manager{
		clients:    make(map[uint64]*Client),
		numSymbols: numSymbols,
		bufferSize: bufferSize,
	}
}

// Register adds a new client. Returns the client for further use.
func (m *Manager) Register(conn *websocket.Conn) *Client {
	c := NewClient(conn, m.bufferSize)

	m.mu.Lock()
	m.clients[c.ID] = c
	m.mu.Unlock()

	log.Printf("client %d connected (%s)", c.ID, conn.RemoteAddr())
	return c
}

// Unregister removes a client.
func (m *Manager) Unregister(c *Client) {
	m.mu.Lock()
	delete(m.clients, c.ID)
	m.mu.Unlock()

	c.Close()
	log.Printf("client %d disconnected", c.ID)
}

// ResolveSymbols validates requested symbol ids against the run's symbol
// count, dropping anything out of range. An empty slice means "all".
func (m *Manager) ResolveSymbols(ids []int) (syms []int, all bool) {
	if len(ids) == 0 {
		return nil, true
	}
	for _, id := range ids {
		if id >= 0 && id < m.numSymbols {
			syms = append(syms, id)
		}
	}
	return syms, false
}

// Broadcast fans a trade or system-event message out to subscribed
// clients. Each client's write pump encodes it lazily in that client's own
// format (see Client.Encode) when it is pulled off the send channel. A
// negative msg.Symbol (system-lifecycle events) is delivered to every
// client regardless of subscription.
func (m *Manager) Broadcast(msg *wire.Message) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, c := range m.clients {
		if msg.Symbol >= 0 && !c.IsSubscribed(msg.Symbol) {
			continue
		}
		c.Send(msg)
	}
}

// SendToClient sends messages directly to a specific client (e.g., stock
// directory snapshot on subscribe). Encoding happens in that client's
// write pump, same as Broadcast.
func (m *Manager) SendToClient(c *Client, msgs []wire.Message) {
	for i := range msgs {
		c.Send(&msgs[i])
	}
}

// ClientCount returns the number of connected clients.
func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

// NumSymbols returns the number of symbols tracked by this run.
func (m *Manager) NumSymbols() int {
	return m.numSymbols
}

// StockDirectory builds stock-directory messages for the requested symbol
// ids. A nil ids slice yields the directory for every tracked symbol.
func (m *Manager) StockDirectory(ids []int) []wire.Message {
	if len(ids) == 0 {
		ids = make([]int, m.numSymbols)
		for i := range ids {
			ids[i] = i
		}
	}
	out := make([]wire.Message, 0, len(ids))
	for _, sym := range ids {
		out = append(out, wire.Message{
			Type:        wire.MsgStockDirectory,
			StockLocate: uint16(sym),
			Symbol:      sym,
			Label:       symlabel.Label(sym),
		})
	}
	return out
}
