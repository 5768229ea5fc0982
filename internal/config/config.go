// Package config loads the console configuration from YAML with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/MarcoPinkman/Hawkeye/internal/events"
	"gopkg.in/yaml.v3"
)

type Config struct {
	ControlPlane ControlPlaneConfig `yaml:"control_plane"`
	EventLog     EventLogConfig     `yaml:"event_log"`
	Session      SessionDefaults    `yaml:"session"`
	Log          LogConfig          `yaml:"log"`
	Metrics      MetricsConfig      `yaml:"metrics"`
}

// ControlPlaneConfig points at the detection service's start/stop API.
type ControlPlaneConfig struct {
	URL     string        `yaml:"url"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
}

// EventLogConfig configures where recorded detection events are read from.
type EventLogConfig struct {
	Driver          string        `yaml:"driver"`
	DSN             string        `yaml:"dsn"`
	FeedURL         string        `yaml:"feed_url"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

// SessionDefaults pre-fills the wizard forms.
type SessionDefaults struct {
	Model         string              `yaml:"model"`
	BaseURL       string              `yaml:"base_url"`
	PreviewURL    string              `yaml:"preview_url"`
	RTSPURL       string              `yaml:"rtsp_url"`
	ChunkDuration int                 `yaml:"chunk_duration"`
	OutputDir     string              `yaml:"output_dir"`
	Context       string              `yaml:"context"`
	Events        []events.Definition `yaml:"events"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// MetricsConfig enables the Prometheus listener when Addr is non-empty.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ControlPlane: ControlPlaneConfig{
			URL:     "http://localhost:8000",
			Timeout: 10 * time.Second,
		},
		EventLog: EventLogConfig{
			Driver:          "sqlite",
			DSN:             "file:cctv_event.db",
			RefreshInterval: 5 * time.Second,
		},
		Session: SessionDefaults{
			Model:         "qwen-vl-max",
			BaseURL:       "https://dashscope.aliyuncs.com/compatible-mode/v1",
			PreviewURL:    "http://localhost:1984/stream.html?src=hawkeye",
			RTSPURL:       "rtsp://localhost:8554/hawkeye",
			ChunkDuration: 5,
			OutputDir:     "./localdata/video_chunks/",
			Context:       "Camera footage sampled at one frame per second.",
			Events:        defaultEvents(),
		},
		Log: LogConfig{
			Level: "info",
			File:  "hawkeye.log",
		},
	}
}

func defaultEvents() []events.Definition {
	return []events.Definition{
		{
			Code:        "forklift-accident",
			Description: "Forklift operation in production areas; watch for accidents.",
			Guidelines:  "Report when a forklift tips over, collides, or a person is injured.",
		},
		{
			Code:        "person-down",
			Description: "Watch for people falling to the ground.",
			Guidelines:  "Report when a person lies on the ground after a sudden, collision or slow fall.",
		},
		{
			Code:        "goal",
			Description: "Watch for goals in football footage.",
			Guidelines:  "Report if and only if the ball enters the goal.",
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides file values (highest precedence).
func (c *Config) applyEnv() {
	if v := os.Getenv("HAWKEYE_CONTROL_URL"); v != "" {
		c.ControlPlane.URL = v
	}
	if v := os.Getenv("HAWKEYE_TOKEN"); v != "" {
		c.ControlPlane.Token = v
	}
	if v := os.Getenv("HAWKEYE_EVENTLOG_DSN"); v != "" {
		c.EventLog.DSN = v
	}
	if v := os.Getenv("HAWKEYE_FEED_URL"); v != "" {
		c.EventLog.FeedURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Validate checks values that would otherwise fail far from their source.
func (c *Config) Validate() error {
	if _, err := parseHTTPURL(c.ControlPlane.URL); err != nil {
		return fmt.Errorf("control_plane.url: %w", err)
	}
	if c.EventLog.FeedURL != "" {
		u, err := url.Parse(c.EventLog.FeedURL)
		if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") {
			return fmt.Errorf("event_log.feed_url: want ws:// or wss:// URL, got %q", c.EventLog.FeedURL)
		}
	}
	if c.Session.ChunkDuration <= 0 {
		return fmt.Errorf("session.chunk_duration: must be positive, got %d", c.Session.ChunkDuration)
	}
	if c.ControlPlane.Timeout <= 0 {
		c.ControlPlane.Timeout = 10 * time.Second
	}
	if c.EventLog.RefreshInterval <= 0 {
		c.EventLog.RefreshInterval = 5 * time.Second
	}
	for i, d := range c.Session.Events {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("session.events[%d]: %w", i, err)
		}
	}
	return nil
}

func parseHTTPURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("want http:// or https:// URL, got %q", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("missing host in %q", raw)
	}
	return u, nil
}
