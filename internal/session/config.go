package session

import (
	"github.com/MarcoPinkman/Hawkeye/internal/client"
	"github.com/MarcoPinkman/Hawkeye/internal/events"
)

// Settings are the operator-editable session parameters.
type Settings struct {
	Model         string
	BaseURL       string
	PreviewURL    string
	RTSPURL       string
	ChunkDuration int // seconds, > 0
	OutputDir     string
	Context       string
}

// Config is the snapshot sent with one start call. Build a new one for
// every start; never modify a Config after it has been built.
type Config struct {
	Settings
	Events []events.Definition
}

// NewConfig snapshots s and a copy of defs.
func NewConfig(s Settings, defs []events.Definition) Config {
	cp := make([]events.Definition, len(defs))
	copy(cp, defs)
	return Config{Settings: s, Events: cp}
}

// Request converts the snapshot to the control plane's wire format.
func (c Config) Request() client.StartRequest {
	specs := make([]client.EventSpec, 0, len(c.Events))
	for _, e := range c.Events {
		specs = append(specs, client.EventSpec{
			EventCode:           e.Code,
			EventDescription:    e.Description,
			DetectionGuidelines: e.Guidelines,
		})
	}
	return client.StartRequest{
		Model:         c.Model,
		BaseURL:       c.BaseURL,
		RTSPURL:       c.RTSPURL,
		ChunkDuration: c.ChunkDuration,
		OutputDir:     c.OutputDir,
		Context:       c.Context,
		Events:        specs,
	}
}
