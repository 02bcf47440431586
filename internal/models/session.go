package models

import "time"

// Session represents one form-fill attempt stored in the 'sessions' table.
type Session struct {
	SessionID       string    `db:"session_id" json:"session_id"`
	StartTime       int64     `db:"start_time" json:"start_time"`
	EndTime         int64     `db:"end_time" json:"end_time"`
	DurationMs      int64     `db:"duration_ms" json:"duration_ms"`
	SubmitDelayMs   int64     `db:"submit_delay_ms" json:"submit_delay_ms"`
	FastFill        bool      `db:"fast_fill" json:"fast_fill"`
	MouseMoved      bool      `db:"mouse_moved" json:"mouse_moved"`
	MouseClickCount int       `db:"mouse_click_count" json:"mouse_click_count"`
	ScrollCount     int       `db:"scroll_count" json:"scroll_count"`
	ViewportChanges int       `db:"viewport_changes" json:"viewport_changes"`
	TabKeyCount     int       `db:"tab_key_count" json:"tab_key_count"`
	EnterPressed    bool      `db:"enter_pressed" json:"enter_pressed"`
	DeviceType      string    `db:"device_type" json:"device_type"`
	FieldFocusOrder string    `db:"field_focus_order" json:"field_focus_order"` // comma-joined visit order
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// FieldInteraction represents recorded behavior for one form field within a
// session, stored in the 'fields' table. Rows are immutable after ingestion
// and are replaced wholesale when the session is re-ingested.
type FieldInteraction struct {
	ID              int64  `db:"id" json:"id"`
	SessionID       string `db:"session_id" json:"session_id"`
	FieldName       string `db:"field_name" json:"field_name"`
	Value           string `db:"value" json:"value"`
	TimeSpentMs     int64  `db:"time_spent_ms" json:"time_spent_ms"`
	HoverDurationMs int64  `db:"hover_duration_ms" json:"hover_duration_ms"`
	CopyCount       int    `db:"copy_count" json:"copy_count"`
	PasteCount      int    `db:"paste_count" json:"paste_count"`
	DeleteCount     int    `db:"delete_count" json:"delete_count"`
	ChangesCount    int    `db:"changes_count" json:"changes_count"`
	FocusCount      int    `db:"focus_count" json:"focus_count"`
}

// PredictionRecord is one row of the append-only prediction audit log.
type PredictionRecord struct {
	Timestamp time.Time
	SessionID string
	Label     string
	Score     float64
}

// Classification labels produced by the risk scorer.
const (
	LabelClean      = "Clean"
	LabelSuspicious = "Suspicious"
)
