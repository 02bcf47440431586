package audit

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fraudtrack/internal/models"
)

func readLog(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestAppendWritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prediction_log.csv")
	log := NewLog(path)

	ts := time.Date(2026, 8, 27, 10, 30, 0, 0, time.UTC)
	require.NoError(t, log.Append(&models.PredictionRecord{
		Timestamp: ts,
		SessionID: "sess-1",
		Label:     models.LabelSuspicious,
		Score:     0.9123,
	}))
	require.NoError(t, log.Append(&models.PredictionRecord{
		Timestamp: ts.Add(time.Minute),
		SessionID: "sess-2",
		Label:     models.LabelClean,
		Score:     0.04,
	}))

	rows := readLog(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"timestamp", "session_id", "label", "score"}, rows[0])
	assert.Equal(t, []string{"2026-08-27 10:30:00", "sess-1", "Suspicious", "0.9123"}, rows[1])
	assert.Equal(t, "sess-2", rows[2][1])
}

func TestAppendConcurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prediction_log.csv")
	log := NewLog(path)

	const writers = 20
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func() {
			defer wg.Done()
			_ = log.Append(&models.PredictionRecord{
				Timestamp: time.Now(),
				SessionID: "sess",
				Label:     models.LabelClean,
				Score:     0.5,
			})
		}()
	}
	wg.Wait()

	rows := readLog(t, path)
	// One header plus one intact row per writer.
	require.Len(t, rows, writers+1)
	for _, row := range rows[1:] {
		assert.Len(t, row, 4)
	}
}
