package mockplane

import (
	"context"
	"fmt"
	"math/rand"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/MarcoPinkman/Hawkeye/internal/client"
	"github.com/MarcoPinkman/Hawkeye/internal/eventlog"
	xlog "github.com/MarcoPinkman/Hawkeye/internal/log"
	"github.com/rs/zerolog"
)

// Recorder persists a generated event and returns its id.
type Recorder interface {
	Insert(ctx context.Context, rec eventlog.Record) (int64, error)
}

// Generator fakes detections for the running session: every interval it
// picks one of the session's events, stores it and announces it on the
// feed.
type Generator struct {
	rec      Recorder
	bc       *Broadcaster
	interval time.Duration
	rng      *rand.Rand
	now      func() time.Time
	log      zerolog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewGenerator creates an idle generator.
func NewGenerator(rec Recorder, bc *Broadcaster, interval time.Duration) *Generator {
	return &Generator{
		rec:      rec,
		bc:       bc,
		interval: interval,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		now:      time.Now,
		log:      xlog.WithComponent("mockplane.generator"),
	}
}

// Run replaces any running session with req.
func (g *Generator) Run(ctx context.Context, req client.StartRequest) {
	g.Halt()

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	g.mu.Lock()
	g.cancel = cancel
	g.done = done
	g.mu.Unlock()

	go func() {
		defer close(done)
		g.loop(ctx, req)
	}()
}

// Halt stops the running session, if any, and waits for it to exit.
func (g *Generator) Halt() {
	g.mu.Lock()
	cancel, done := g.cancel, g.done
	g.cancel, g.done = nil, nil
	g.mu.Unlock()
	if cancel != nil {
		cancel()
		<-done
	}
}

func (g *Generator) loop(ctx context.Context, req client.StartRequest) {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if len(req.Events) == 0 {
				continue
			}
			rec := g.detect(req)
			id, err := g.rec.Insert(ctx, rec)
			if err != nil {
				if ctx.Err() == nil {
					g.log.Error().Err(err).Msg("store generated event")
				}
				continue
			}
			rec.ID = id
			g.bc.Broadcast(client.MsgEventRecorded, client.EventRecordedPayload{Record: rec})
		}
	}
}

func (g *Generator) detect(req client.StartRequest) eventlog.Record {
	ev := req.Events[g.rng.Intn(len(req.Events))]
	at := g.now().UTC()
	clip := fmt.Sprintf("%s-%s.mp4", strings.ToLower(ev.EventCode), at.Format("20060102T150405"))
	dir := req.OutputDir
	if dir == "" {
		dir = "/tmp"
	}
	return eventlog.Record{
		Timestamp:   at,
		Code:        ev.EventCode,
		Description: ev.EventDescription,
		VideoURL:    "file://" + path.Join(dir, clip),
		Explanation: explain(ev, req, g.rng.Float64()),
	}
}

func explain(ev client.EventSpec, req client.StartRequest, confidence float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", ev.EventDescription)
	fmt.Fprintf(&b, "The `%s` model flagged this %ds chunk of `%s`.\n\n", req.Model, req.ChunkDuration, req.RTSPURL)
	fmt.Fprintf(&b, "- **Guideline:** %s\n", ev.DetectionGuidelines)
	fmt.Fprintf(&b, "- **Confidence:** %.0f%%\n", 50+confidence*50)
	if req.Context != "" {
		fmt.Fprintf(&b, "- **Scene:** %s\n", req.Context)
	}
	return b.String()
}
