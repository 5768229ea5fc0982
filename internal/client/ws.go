package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	xlog "github.com/MarcoPinkman/Hawkeye/internal/log"
	"github.com/MarcoPinkman/Hawkeye/internal/metrics"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	reconnectBaseDelay = 1 * time.Second
	reconnectMaxDelay  = 30 * time.Second
	writeTimeout       = 10 * time.Second
	pongTimeout        = 60 * time.Second
	pingInterval       = 30 * time.Second
)

// Feed manages the WebSocket connection to the control plane's live event
// feed.
type Feed struct {
	url   string
	token string
	log   zerolog.Logger

	mu      sync.Mutex
	writeMu sync.Mutex // serialises all conn writes (ping)
	conn    *websocket.Conn
	seq     uint64
	pingCtx context.CancelFunc // cancels the active ping goroutine
}

// NewFeed creates a client that connects to the given WebSocket URL.
func NewFeed(url, token string) *Feed {
	return &Feed{url: url, token: token, log: xlog.WithComponent("feed")}
}

// --- Bubble Tea messages ---

// FeedConnectedMsg is sent when the feed connects.
type FeedConnectedMsg struct{}

// FeedDisconnectedMsg is sent when the connection drops.
type FeedDisconnectedMsg struct{ Err error }

// FeedEventMsg delivers a newly recorded event.
type FeedEventMsg struct{ Payload EventRecordedPayload }

// FeedStatusMsg reports the control plane's session status.
type FeedStatusMsg struct{ Payload SessionStatusPayload }

// FeedErrorMsg wraps a server-side error.
type FeedErrorMsg struct{ Raw json.RawMessage }

// Listen returns a Bubble Tea command that connects, retrying with
// exponential backoff until ctx is done.
func (f *Feed) Listen(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		delay := reconnectBaseDelay
		attempt := 0
		for {
			if attempt > 0 {
				metrics.FeedReconnects.Inc()
			}
			attempt++

			header := http.Header{}
			if f.token != "" {
				header.Set("Authorization", "Bearer "+f.token)
			}
			conn, _, err := websocket.DefaultDialer.DialContext(ctx, f.url, header)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				f.log.Debug().Err(err).Dur("retry_in", delay).Msg("feed dial failed")
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(delay):
				}
				delay = min(delay*2, reconnectMaxDelay)
				continue
			}

			// Cancel any previous ping goroutine.
			f.mu.Lock()
			if f.pingCtx != nil {
				f.pingCtx()
			}
			pingCtx, pingCancel := context.WithCancel(ctx)
			f.conn = conn
			f.seq = 0
			f.pingCtx = pingCancel
			f.mu.Unlock()

			go f.pingLoop(pingCtx, conn)

			f.log.Info().Str(xlog.FieldURL, f.url).Msg("feed connected")
			return FeedConnectedMsg{}
		}
	}
}

// ReadLoop returns a Bubble Tea command that reads the next relevant
// message. It should be started after FeedConnectedMsg and re-issued after
// every message it returns.
func (f *Feed) ReadLoop(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		f.mu.Lock()
		conn := f.conn
		f.mu.Unlock()
		if conn == nil {
			return FeedDisconnectedMsg{Err: fmt.Errorf("no connection")}
		}

		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongTimeout))
		})
		_ = conn.SetReadDeadline(time.Now().Add(pongTimeout))

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				f.mu.Lock()
				if f.conn == conn {
					f.conn = nil
				}
				f.mu.Unlock()
				conn.Close()
				if ctx.Err() != nil {
					return nil
				}
				f.log.Warn().Err(err).Msg("feed disconnected")
				return FeedDisconnectedMsg{Err: err}
			}

			var msg FeedMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				f.log.Debug().Err(err).Msg("feed: skipping malformed message")
				continue
			}

			f.mu.Lock()
			f.seq = msg.Seq
			f.mu.Unlock()

			if teaMsg := dispatch(msg); teaMsg != nil {
				return teaMsg
			}
		}
	}
}

// Close drops the current connection and stops its ping loop.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pingCtx != nil {
		f.pingCtx()
		f.pingCtx = nil
	}
	if f.conn != nil {
		f.conn.Close()
		f.conn = nil
	}
}

// Seq returns the last seen sequence number.
func (f *Feed) Seq() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seq
}

// pingLoop sends periodic pings on the given connection. It exits when the
// context is cancelled or the connection changes.
func (f *Feed) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			f.mu.Lock()
			cc := f.conn
			f.mu.Unlock()
			if cc != conn {
				return
			}
			f.writeMu.Lock()
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			err := conn.WriteMessage(websocket.PingMessage, nil)
			f.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

func dispatch(msg FeedMessage) tea.Msg {
	switch msg.Type {
	case MsgEventRecorded:
		var p EventRecordedPayload
		if json.Unmarshal(msg.Payload, &p) == nil {
			return FeedEventMsg{Payload: p}
		}
	case MsgSessionStatus:
		var p SessionStatusPayload
		if json.Unmarshal(msg.Payload, &p) == nil {
			return FeedStatusMsg{Payload: p}
		}
	case MsgError:
		return FeedErrorMsg{Raw: msg.Payload}
	}
	return nil
}
