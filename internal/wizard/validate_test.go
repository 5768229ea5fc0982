package wizard

import (
	"testing"

	"github.com/MarcoPinkman/Hawkeye/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSettings() session.Settings {
	return session.Settings{
		Model:         "qwen-vl-max",
		BaseURL:       "https://dashscope.aliyuncs.com/compatible-mode/v1",
		PreviewURL:    "http://localhost:8889/cam",
		RTSPURL:       "rtsp://localhost:8554/cam",
		ChunkDuration: 5,
	}
}

func TestCheckSettings(t *testing.T) {
	tests := []struct {
		name  string
		step  Step
		edit  func(*session.Settings)
		field string
	}{
		{"valid model", StepModel, func(*session.Settings) {}, ""},
		{"missing model", StepModel, func(s *session.Settings) { s.Model = "  " }, "model"},
		{"bad base url", StepModel, func(s *session.Settings) { s.BaseURL = "dashscope" }, "base URL"},
		{"valid stream", StepStream, func(*session.Settings) {}, ""},
		{"missing preview", StepStream, func(s *session.Settings) { s.PreviewURL = "" }, "preview URL"},
		{"http rtsp", StepStream, func(s *session.Settings) { s.RTSPURL = "http://cam/live" }, "RTSP URL"},
		{"zero chunk", StepStream, func(s *session.Settings) { s.ChunkDuration = 0 }, "chunk duration"},
		{"welcome has no fields", StepWelcome, func(s *session.Settings) { *s = session.Settings{} }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSettings()
			tt.edit(&s)
			err := CheckSettings(tt.step, s)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var fe *FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.field, fe.Field)
		})
	}
}
