package wizard

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/MarcoPinkman/Hawkeye/internal/session"
)

// FieldError names the form field that blocks a step.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string { return e.Field + " " + e.Reason }

// CheckSettings validates the fields the given step asks for.
func CheckSettings(step Step, s session.Settings) error {
	switch step {
	case StepModel:
		if strings.TrimSpace(s.Model) == "" {
			return &FieldError{Field: "model", Reason: "is required"}
		}
		if err := checkURL("base URL", s.BaseURL, "http", "https"); err != nil {
			return err
		}
	case StepStream:
		if err := checkURL("preview URL", s.PreviewURL, "http", "https"); err != nil {
			return err
		}
		if err := checkURL("RTSP URL", s.RTSPURL, "rtsp", "rtsps"); err != nil {
			return err
		}
		if s.ChunkDuration <= 0 {
			return &FieldError{Field: "chunk duration", Reason: "must be a positive number of seconds"}
		}
	}
	return nil
}

func checkURL(field, raw string, schemes ...string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return &FieldError{Field: field, Reason: "is required"}
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return &FieldError{Field: field, Reason: "is not a valid URL"}
	}
	for _, s := range schemes {
		if strings.EqualFold(u.Scheme, s) {
			return nil
		}
	}
	return &FieldError{Field: field, Reason: fmt.Sprintf("must use %s", strings.Join(schemes, " or "))}
}
