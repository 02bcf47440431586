package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"fraudtrack/internal/models"
)

type SessionRepository interface {
	SaveSession(session *models.Session, fields []*models.FieldInteraction) error
	UpsertSession(session *models.Session) error
	InsertField(field *models.FieldInteraction) error
	GetSession(sessionID string) (*models.Session, error)
	GetFields(sessionID string) ([]*models.FieldInteraction, error)
	AllSessions() ([]*models.Session, error)
	AllFields() ([]*models.FieldInteraction, error)
}

type sessionRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewSessionRepository(db *sqlx.DB, logger *zap.Logger) SessionRepository {
	return &sessionRepository{db: db, logger: logger}
}

const upsertSessionQuery = `
	INSERT INTO sessions (
		session_id, start_time, end_time, duration_ms, submit_delay_ms, fast_fill,
		mouse_moved, mouse_click_count, scroll_count, viewport_changes,
		tab_key_count, enter_pressed, device_type, field_focus_order
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	ON CONFLICT (session_id) DO UPDATE SET
		start_time = EXCLUDED.start_time,
		end_time = EXCLUDED.end_time,
		duration_ms = EXCLUDED.duration_ms,
		submit_delay_ms = EXCLUDED.submit_delay_ms,
		fast_fill = EXCLUDED.fast_fill,
		mouse_moved = EXCLUDED.mouse_moved,
		mouse_click_count = EXCLUDED.mouse_click_count,
		scroll_count = EXCLUDED.scroll_count,
		viewport_changes = EXCLUDED.viewport_changes,
		tab_key_count = EXCLUDED.tab_key_count,
		enter_pressed = EXCLUDED.enter_pressed,
		device_type = EXCLUDED.device_type,
		field_focus_order = EXCLUDED.field_focus_order`

const insertFieldQuery = `
	INSERT INTO fields (
		session_id, field_name, value, time_spent_ms, hover_duration_ms,
		copy_count, paste_count, delete_count, changes_count, focus_count
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`

// SaveSession persists a session together with its field rows in one
// transaction. A re-ingested session_id replaces both the session row and all
// of its previously stored fields, so readers never observe a half-written
// ingestion.
func (r *sessionRepository) SaveSession(session *models.Session, fields []*models.FieldInteraction) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return &StorageError{Op: "begin save session", Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.Exec(upsertSessionQuery, sessionArgs(session)...); err != nil {
		return &StorageError{Op: "upsert session", Err: err}
	}

	if _, err := tx.Exec(`DELETE FROM fields WHERE session_id = $1`, session.SessionID); err != nil {
		return &StorageError{Op: "delete stale fields", Err: err}
	}

	for _, field := range fields {
		field.SessionID = session.SessionID
		if err := tx.QueryRowx(insertFieldQuery, fieldArgs(field)...).Scan(&field.ID); err != nil {
			return &StorageError{Op: "insert field " + field.FieldName, Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &StorageError{Op: "commit save session", Err: err}
	}
	return nil
}

func (r *sessionRepository) UpsertSession(session *models.Session) error {
	if _, err := r.db.Exec(upsertSessionQuery, sessionArgs(session)...); err != nil {
		return &StorageError{Op: "upsert session", Err: err}
	}
	return nil
}

// InsertField adds a single field row. Inserting against an unknown
// session_id violates the foreign key and is reported as ErrSessionNotFound.
func (r *sessionRepository) InsertField(field *models.FieldInteraction) error {
	err := r.db.QueryRowx(insertFieldQuery, fieldArgs(field)...).Scan(&field.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return ErrSessionNotFound
		}
		return &StorageError{Op: "insert field " + field.FieldName, Err: err}
	}
	return nil
}

func (r *sessionRepository) GetSession(sessionID string) (*models.Session, error) {
	var session models.Session
	query := `SELECT * FROM sessions WHERE session_id = $1`
	if err := r.db.Get(&session, query, sessionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, &StorageError{Op: "get session", Err: err}
	}
	return &session, nil
}

func (r *sessionRepository) GetFields(sessionID string) ([]*models.FieldInteraction, error) {
	var fields []*models.FieldInteraction
	query := `SELECT * FROM fields WHERE session_id = $1 ORDER BY id`
	if err := r.db.Select(&fields, query, sessionID); err != nil {
		return nil, &StorageError{Op: "get fields", Err: err}
	}
	return fields, nil
}

func (r *sessionRepository) AllSessions() ([]*models.Session, error) {
	var sessions []*models.Session
	if err := r.db.Select(&sessions, `SELECT * FROM sessions ORDER BY created_at`); err != nil {
		return nil, &StorageError{Op: "list sessions", Err: err}
	}
	return sessions, nil
}

func (r *sessionRepository) AllFields() ([]*models.FieldInteraction, error) {
	var fields []*models.FieldInteraction
	if err := r.db.Select(&fields, `SELECT * FROM fields ORDER BY id`); err != nil {
		return nil, &StorageError{Op: "list fields", Err: err}
	}
	return fields, nil
}

func sessionArgs(s *models.Session) []interface{} {
	return []interface{}{
		s.SessionID, s.StartTime, s.EndTime, s.DurationMs, s.SubmitDelayMs, s.FastFill,
		s.MouseMoved, s.MouseClickCount, s.ScrollCount, s.ViewportChanges,
		s.TabKeyCount, s.EnterPressed, s.DeviceType, s.FieldFocusOrder,
	}
}

func fieldArgs(f *models.FieldInteraction) []interface{} {
	return []interface{}{
		f.SessionID, f.FieldName, f.Value, f.TimeSpentMs, f.HoverDurationMs,
		f.CopyCount, f.PasteCount, f.DeleteCount, f.ChangesCount, f.FocusCount,
	}
}
