// Package audit keeps the append-only prediction log: one CSV row per
// predict call, never mutated or deleted.
package audit

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"

	"fraudtrack/internal/models"
)

const timestampLayout = "2006-01-02 15:04:05"

var header = []string{"timestamp", "session_id", "label", "score"}

// Log appends prediction records to a CSV file. The header row is written
// once, when the file is first created. Appends are serialized by a mutex so
// concurrent predict calls never interleave rows.
type Log struct {
	mu   sync.Mutex
	path string
}

func NewLog(path string) *Log {
	return &Log{path: path}
}

// Append writes one record. The write is atomic with respect to other
// Append calls on the same Log.
func (l *Log) Append(record *models.PredictionRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	file, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open prediction log: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat prediction log: %w", err)
	}

	writer := csv.NewWriter(file)
	if info.Size() == 0 {
		if err := writer.Write(header); err != nil {
			return fmt.Errorf("failed to write prediction log header: %w", err)
		}
	}

	row := []string{
		record.Timestamp.Format(timestampLayout),
		record.SessionID,
		record.Label,
		strconv.FormatFloat(record.Score, 'g', -1, 64),
	}
	if err := writer.Write(row); err != nil {
		return fmt.Errorf("failed to write prediction log row: %w", err)
	}

	writer.Flush()
	return writer.Error()
}
