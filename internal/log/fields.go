package log

// Canonical field name constants for structured logging.
const (
	FieldService   = "service"
	FieldComponent = "component"
	FieldEvent     = "event"
	FieldRequestID = "request_id"

	// Session fields
	FieldOperation = "operation"
	FieldStep      = "step"
	FieldFromStep  = "from_step"
	FieldIntent    = "intent"
	FieldActive    = "active"
	FieldModel     = "model"
	FieldRTSPURL   = "rtsp_url"
	FieldEvents    = "events"

	// Transport fields
	FieldURL      = "url"
	FieldStatus   = "status"
	FieldDuration = "duration"
	FieldCount    = "count"
)
