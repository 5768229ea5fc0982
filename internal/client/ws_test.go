package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedServer(t *testing.T, frames ...string) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for _, f := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
				return
			}
		}
		// Hold the connection open until the client goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
}

func wsURL(httpURL string) string {
	return "ws" + strings.TrimPrefix(httpURL, "http")
}

func TestFeed_DispatchesMessages(t *testing.T) {
	srv := feedServer(t,
		`not json`,
		`{"type":"unknown","seq":1,"payload":{}}`,
		`{"type":"event_recorded","seq":2,"payload":{"record":{"event_id":7,"event_code":"fall","event_video_url":"http://v/7.mp4"}}}`,
		`{"type":"session_status","seq":3,"payload":{"running":true,"model":"qwen-vl-max"}}`,
	)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f := NewFeed(wsURL(srv.URL), "tok")
	defer f.Close()

	require.IsType(t, FeedConnectedMsg{}, f.Listen(ctx)())

	msg := f.ReadLoop(ctx)()
	ev, ok := msg.(FeedEventMsg)
	require.True(t, ok, "got %T", msg)
	assert.EqualValues(t, 7, ev.Payload.Record.ID)
	assert.Equal(t, "fall", ev.Payload.Record.Code)
	assert.EqualValues(t, 2, f.Seq())

	msg = f.ReadLoop(ctx)()
	st, ok := msg.(FeedStatusMsg)
	require.True(t, ok, "got %T", msg)
	assert.True(t, st.Payload.Running)
}

func TestFeed_ListenStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	f := NewFeed("ws://127.0.0.1:1/ws", "")

	done := make(chan interface{}, 1)
	go func() { done <- f.Listen(ctx)() }()
	cancel()

	select {
	case msg := <-done:
		assert.Nil(t, msg)
	case <-time.After(3 * time.Second):
		t.Fatal("Listen did not return after cancel")
	}
}

func TestFeed_ReadLoopWithoutConnection(t *testing.T) {
	f := NewFeed("ws://unused", "")
	msg := f.ReadLoop(context.Background())()
	_, ok := msg.(FeedDisconnectedMsg)
	assert.True(t, ok)
}
