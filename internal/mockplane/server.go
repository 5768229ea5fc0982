// Package mockplane is a local stand-in for the detection control plane.
// It accepts start/stop calls, fakes detections for the running session,
// writes them to the event log store and pushes them on a WebSocket feed.
package mockplane

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/MarcoPinkman/Hawkeye/internal/client"
	xlog "github.com/MarcoPinkman/Hawkeye/internal/log"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Options configure a Server.
type Options struct {
	Token     string        // required bearer token, empty disables auth
	Interval  time.Duration // time between fake detections
	FailStart string        // when set, every start answers 500 with this detail
}

// Server serves the control-plane API.
type Server struct {
	opts Options
	bc   *Broadcaster
	gen  *Generator
	log  zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	running bool
	current client.StartRequest
}

// NewServer creates a server writing detections to rec.
func NewServer(rec Recorder, opts Options) *Server {
	if opts.Interval <= 0 {
		opts.Interval = 3 * time.Second
	}
	s := &Server{opts: opts, log: xlog.WithComponent("mockplane")}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.bc = NewBroadcaster(s.status)
	s.gen = NewGenerator(rec, s.bc, opts.Interval)
	return s
}

// SetupRoutes registers the API on mux.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/start", s.handleStart)
	mux.HandleFunc("/stop", s.handleStop)
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", s.handleHealth)
}

// Close halts the fake session and disconnects feed clients.
func (s *Server) Close() {
	s.cancel()
	s.gen.Halt()
	s.bc.Close()
}

// Running reports whether a session is active.
func (s *Server) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Server) status() client.SessionStatusPayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return client.SessionStatusPayload{}
	}
	return client.SessionStatusPayload{Running: true, Model: s.current.Model, RTSPURL: s.current.RTSPURL}
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	if !s.preflight(w, r) {
		return
	}

	var req client.StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if detail := validateStart(req); detail != "" {
		writeDetail(w, http.StatusUnprocessableEntity, detail)
		return
	}
	if s.opts.FailStart != "" {
		s.log.Warn().Str(xlog.FieldRequestID, r.Header.Get("X-Request-ID")).Msg("start rejected by configuration")
		writeDetail(w, http.StatusInternalServerError, s.opts.FailStart)
		return
	}

	s.mu.Lock()
	replaced := s.running
	s.running = true
	s.current = req
	s.mu.Unlock()

	s.gen.Run(s.ctx, req)
	s.bc.Broadcast(client.MsgSessionStatus, s.status())
	s.log.Info().
		Str(xlog.FieldRequestID, r.Header.Get("X-Request-ID")).
		Str(xlog.FieldModel, req.Model).
		Str(xlog.FieldRTSPURL, req.RTSPURL).
		Int(xlog.FieldEvents, len(req.Events)).
		Bool("replaced", replaced).
		Msg("detection started")
	writeJSON(w, http.StatusOK, map[string]string{"status": "started"})
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	if !s.preflight(w, r) {
		return
	}

	s.mu.Lock()
	was := s.running
	s.running = false
	s.current = client.StartRequest{}
	s.mu.Unlock()

	s.gen.Halt()
	if was {
		s.bc.Broadcast(client.MsgSessionStatus, s.status())
	}
	s.log.Info().Str(xlog.FieldRequestID, r.Header.Get("X-Request-ID")).Bool("was_running", was).Msg("detection stopped")
	writeJSON(w, http.StatusOK, map[string]string{"status": "stopped"})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	upgrader := websocket.Upgrader{CheckOrigin: checkOrigin}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}

	s.log.Info().Str("remote", r.RemoteAddr).Msg("feed client connected")
	p := s.bc.AddClient(conn)

	go func() {
		defer func() {
			s.bc.RemoveClient(p)
			s.log.Info().Str("remote", r.RemoteAddr).Msg("feed client disconnected")
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"running": s.Running(),
		"clients": s.bc.ClientCount(),
	})
}

func (s *Server) preflight(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	if !s.authorize(r) {
		writeDetail(w, http.StatusUnauthorized, "unauthorized")
		return false
	}
	return true
}

func (s *Server) authorize(r *http.Request) bool {
	if s.opts.Token == "" {
		return true
	}
	if r.URL.Query().Get("token") == s.opts.Token {
		return true
	}
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.opts.Token
}

// checkOrigin accepts non-browser clients and loopback pages.
func checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}
	if parsed.Host == r.Host {
		return true
	}
	switch parsed.Hostname() {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return false
}

func validateStart(req client.StartRequest) string {
	switch {
	case strings.TrimSpace(req.Model) == "":
		return "model is required"
	case strings.TrimSpace(req.RTSPURL) == "":
		return "rtsp_url is required"
	case req.ChunkDuration <= 0:
		return "chunk_duration must be positive"
	case len(req.Events) == 0:
		return "at least one event is required"
	}
	for i, ev := range req.Events {
		if ev.EventCode == "" || ev.EventDescription == "" || ev.DetectionGuidelines == "" {
			return "events[" + strconv.Itoa(i) + "] is incomplete"
		}
	}
	return ""
}

func writeDetail(w http.ResponseWriter, code int, detail string) {
	writeJSON(w, code, client.ErrorBody{Detail: detail})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
