package handler

import (
	"encoding/csv"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fraudtrack/internal/repository"
)

// ExportHandler dumps the stored tables to CSV files on demand.
type ExportHandler interface {
	ExportSessions(c *gin.Context)
	ExportFields(c *gin.Context)
}

type exportHandler struct {
	repo   repository.SessionRepository
	dir    string
	logger *zap.Logger
}

func NewExportHandler(repo repository.SessionRepository, dir string, logger *zap.Logger) ExportHandler {
	return &exportHandler{repo: repo, dir: dir, logger: logger}
}

var sessionExportHeader = []string{
	"session_id", "start_time", "end_time", "duration_ms", "submit_delay_ms",
	"fast_fill", "mouse_moved", "mouse_click_count", "scroll_count",
	"viewport_changes", "tab_key_count", "enter_pressed", "device_type",
	"field_focus_order", "created_at",
}

var fieldExportHeader = []string{
	"id", "session_id", "field_name", "value", "time_spent_ms",
	"hover_duration_ms", "copy_count", "paste_count", "delete_count",
	"changes_count", "focus_count",
}

// ExportSessions handles GET /export/sessions
func (h *exportHandler) ExportSessions(c *gin.Context) {
	sessions, err := h.repo.AllSessions()
	if err != nil {
		h.logger.Error("Failed to read sessions for export", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export sessions"})
		return
	}

	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, []string{
			s.SessionID,
			strconv.FormatInt(s.StartTime, 10),
			strconv.FormatInt(s.EndTime, 10),
			strconv.FormatInt(s.DurationMs, 10),
			strconv.FormatInt(s.SubmitDelayMs, 10),
			strconv.FormatBool(s.FastFill),
			strconv.FormatBool(s.MouseMoved),
			strconv.Itoa(s.MouseClickCount),
			strconv.Itoa(s.ScrollCount),
			strconv.Itoa(s.ViewportChanges),
			strconv.Itoa(s.TabKeyCount),
			strconv.FormatBool(s.EnterPressed),
			s.DeviceType,
			s.FieldFocusOrder,
			s.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	if err := h.writeCSV("export_sessions.csv", sessionExportHeader, rows); err != nil {
		h.logger.Error("Failed to write sessions export", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export sessions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "sessions exported"})
}

// ExportFields handles GET /export/fields
func (h *exportHandler) ExportFields(c *gin.Context) {
	fields, err := h.repo.AllFields()
	if err != nil {
		h.logger.Error("Failed to read fields for export", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export fields"})
		return
	}

	rows := make([][]string, 0, len(fields))
	for _, f := range fields {
		rows = append(rows, []string{
			strconv.FormatInt(f.ID, 10),
			f.SessionID,
			f.FieldName,
			f.Value,
			strconv.FormatInt(f.TimeSpentMs, 10),
			strconv.FormatInt(f.HoverDurationMs, 10),
			strconv.Itoa(f.CopyCount),
			strconv.Itoa(f.PasteCount),
			strconv.Itoa(f.DeleteCount),
			strconv.Itoa(f.ChangesCount),
			strconv.Itoa(f.FocusCount),
		})
	}

	if err := h.writeCSV("export_fields.csv", fieldExportHeader, rows); err != nil {
		h.logger.Error("Failed to write fields export", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export fields"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "fields exported"})
}

func (h *exportHandler) writeCSV(name string, header []string, rows [][]string) error {
	file, err := os.Create(filepath.Join(h.dir, name))
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return err
	}
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}
