package app

import (
	"sync"

	"github.com/MarcoPinkman/Hawkeye/internal/events"
	"github.com/MarcoPinkman/Hawkeye/internal/session"
)

// draft is the operator's current settings and event list as last
// published by the UI goroutine. A restart reads it from another
// goroutine after its settle delay.
type draft struct {
	mu       sync.Mutex
	settings session.Settings
	cfg      session.Config
}

func newDraft(s session.Settings, defs []events.Definition) *draft {
	return &draft{settings: s, cfg: session.NewConfig(s, defs)}
}

func (d *draft) Settings() session.Settings {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.settings
}

func (d *draft) SetSettings(s session.Settings) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.settings = s
	d.cfg = session.NewConfig(s, d.cfg.Events)
}

func (d *draft) SetEvents(defs []events.Definition) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cfg = session.NewConfig(d.settings, defs)
}

// Latest is the config a start issued now would send.
func (d *draft) Latest() session.Config {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg
}
