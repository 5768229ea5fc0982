package mockplane

import (
	"encoding/json"
	"sync"

	"github.com/MarcoPinkman/Hawkeye/internal/client"
	xlog "github.com/MarcoPinkman/Hawkeye/internal/log"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

type peer struct {
	conn *websocket.Conn
	send chan []byte
}

func newPeer(conn *websocket.Conn) *peer {
	p := &peer{conn: conn, send: make(chan []byte, 64)}
	go p.writePump()
	return p
}

func (p *peer) writePump() {
	defer p.conn.Close()
	for msg := range p.send {
		if err := p.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// Broadcaster fans feed messages out to every connected console.
type Broadcaster struct {
	mu      sync.RWMutex
	clients map[*peer]bool
	seq     uint64
	status  func() client.SessionStatusPayload
	log     zerolog.Logger
}

// NewBroadcaster creates a broadcaster. status supplies the snapshot a new
// client receives on connect.
func NewBroadcaster(status func() client.SessionStatusPayload) *Broadcaster {
	return &Broadcaster{
		clients: make(map[*peer]bool),
		status:  status,
		log:     xlog.WithComponent("mockplane.feed"),
	}
}

// AddClient registers conn and sends it the current session status.
func (b *Broadcaster) AddClient(conn *websocket.Conn) *peer {
	p := newPeer(conn)

	b.mu.Lock()
	b.clients[p] = true
	data, err := b.encodeLocked(client.MsgSessionStatus, b.status())
	b.mu.Unlock()

	if err == nil {
		select {
		case p.send <- data:
		default:
		}
	}
	return p
}

// RemoveClient unregisters p and closes its connection.
func (b *Broadcaster) RemoveClient(p *peer) {
	b.mu.Lock()
	if _, ok := b.clients[p]; ok {
		delete(b.clients, p)
		close(p.send)
	}
	b.mu.Unlock()
}

// Broadcast sends one message to all clients. Slow clients are dropped.
func (b *Broadcaster) Broadcast(typ client.MessageType, payload interface{}) {
	b.mu.Lock()
	data, err := b.encodeLocked(typ, payload)
	clients := make([]*peer, 0, len(b.clients))
	for p := range b.clients {
		clients = append(clients, p)
	}
	b.mu.Unlock()
	if err != nil {
		b.log.Error().Err(err).Str(xlog.FieldEvent, string(typ)).Msg("broadcast marshal failed")
		return
	}

	for _, p := range clients {
		select {
		case p.send <- data:
		default:
			b.log.Warn().Msg("feed client too slow, disconnecting")
			b.RemoveClient(p)
		}
	}
}

// ClientCount is the number of connected consoles.
func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// Close disconnects every client.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	for p := range b.clients {
		delete(b.clients, p)
		close(p.send)
	}
	b.mu.Unlock()
}

func (b *Broadcaster) encodeLocked(typ client.MessageType, payload interface{}) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	b.seq++
	return json.Marshal(client.FeedMessage{Type: typ, Seq: b.seq, Payload: raw})
}
