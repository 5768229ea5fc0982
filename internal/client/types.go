// Package client provides the HTTP client for the detection control plane
// and the WebSocket client for its live event feed. Types mirror the
// control plane's wire protocol.
package client

import (
	"encoding/json"

	"github.com/MarcoPinkman/Hawkeye/internal/eventlog"
)

// StartRequest is the body of POST /start.
type StartRequest struct {
	Model         string      `json:"model"`
	BaseURL       string      `json:"base_url"`
	RTSPURL       string      `json:"rtsp_url"`
	ChunkDuration int         `json:"chunk_duration"`
	OutputDir     string      `json:"output_dir"`
	Context       string      `json:"context"`
	Events        []EventSpec `json:"events"`
}

// EventSpec is one event of interest inside a StartRequest.
type EventSpec struct {
	EventCode           string `json:"event_code"`
	EventDescription    string `json:"event_description"`
	DetectionGuidelines string `json:"detection_guidelines"`
}

// ErrorBody is the JSON body of a non-2xx control plane response.
type ErrorBody struct {
	Detail string `json:"detail"`
}

// MessageType identifies the kind of feed message.
type MessageType string

const (
	MsgEventRecorded MessageType = "event_recorded"
	MsgSessionStatus MessageType = "session_status"
	MsgError         MessageType = "error"
)

// FeedMessage is the envelope for all feed messages.
type FeedMessage struct {
	Type    MessageType     `json:"type"`
	Seq     uint64          `json:"seq"`
	Payload json.RawMessage `json:"payload"`
}

// EventRecordedPayload announces a newly stored detection event.
type EventRecordedPayload struct {
	Record eventlog.Record `json:"record"`
}

// SessionStatusPayload reports whether the control plane is running a
// detection session.
type SessionStatusPayload struct {
	Running bool   `json:"running"`
	Model   string `json:"model,omitempty"`
	RTSPURL string `json:"rtsp_url,omitempty"`
}
