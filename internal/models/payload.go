package models

// FieldPayload carries the per-field interaction counters exactly as the
// tracking script reports them.
type FieldPayload struct {
	Value           string `json:"value"`
	TimeSpentMs     int64  `json:"timeSpentMs"`
	HoverDurationMs int64  `json:"hoverDurationMs"`
	Copy            int    `json:"copy"`
	Paste           int    `json:"paste"`
	Delete          int    `json:"delete"`
	Changes         int    `json:"changes"`
	FocusCount      int    `json:"focusCount"`
}

// SessionPayload is the wire shape shared by the save and predict endpoints.
// For predict calls duration_ms is expected to be filled in by the caller;
// the save path recomputes it from start/end times before persisting.
type SessionPayload struct {
	SessionID       string                  `json:"session_id"`
	StartTime       int64                   `json:"start_time"`
	EndTime         int64                   `json:"end_time"`
	DurationMs      int64                   `json:"duration_ms"`
	SubmitDelayMs   int64                   `json:"submit_delay_ms"`
	FieldOrder      []string                `json:"field_order"`
	Fields          map[string]FieldPayload `json:"fields"`
	FastFill        bool                    `json:"fast_fill"`
	MouseMoved      bool                    `json:"mouseMoved"`
	MouseClickCount int                     `json:"mouseClickCount"`
	ScrollCount     int                     `json:"scrollCount"`
	ViewportChanges int                     `json:"viewportChanges"`
	TabKeyCount     int                     `json:"tabKeyCount"`
	EnterPressed    bool                    `json:"enterPressed"`
	DeviceType      string                  `json:"deviceType"`
}
