// Package eventlog reads recorded detection events. Reads never fail from
// the caller's point of view: errors are logged and an empty result is
// returned.
package eventlog

import (
	"context"
	"time"
)

// MaxRecords bounds every read.
const MaxRecords = 100

// Record is one detection event written by the detection service.
type Record struct {
	ID          int64     `json:"event_id"`
	Timestamp   time.Time `json:"event_timestamp"`
	Code        string    `json:"event_code"`
	Description string    `json:"event_description"`
	VideoURL    string    `json:"event_video_url"`
	Explanation string    `json:"event_detection_explanation_by_ai"`
}

// Source returns up to MaxRecords most recent records, newest first. On
// failure it returns an empty slice.
type Source interface {
	Recent(ctx context.Context) []Record
}
