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

	"github.com/c360/heartserve/errors"
	"github.com/c360/heartserve/feature"
	"github.com/c360/heartserve/model"
)

var testRecord = Record{
	Features: feature.Record{
		Age: 63, Sex: 1, CP: 3, Trestbps: 145, Chol: 233, FBS: 1,
		Restecg: 0, Thalach: 150, Exang: 0, Oldpeak: 2.3, Slope: 0,
		CA: 0, Thal: 1,
	},
	Prediction: model.Prediction{Label: 1, Probability: 0.75},
	Timestamp:  time.Date(2024, 6, 14, 9, 30, 0, 0, time.UTC),
}

func readAll(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestOpen_WritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "predictions_log.csv")

	logger, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, logger.Close())

	// Re-opening a non-empty log must not duplicate the header.
	logger, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, logger.Append(testRecord))
	require.NoError(t, logger.Close())

	rows := readAll(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{
		"age", "sex", "cp", "trestbps", "chol", "fbs", "restecg",
		"thalach", "exang", "oldpeak", "slope", "ca", "thal",
		"prediction", "probability", "timestamp",
	}, rows[0])
}

func TestAppend_RowMatchesRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "predictions_log.csv")
	logger, err := Open(path)
	require.NoError(t, err)
	defer logger.Close()

	require.NoError(t, logger.Append(testRecord))

	rows := readAll(t, path)
	require.Len(t, rows, 2)
	row := rows[1]
	assert.Equal(t, "63", row[0])
	assert.Equal(t, "2.3", row[9])
	assert.Equal(t, "1", row[13])
	assert.Equal(t, "0.75", row[14])
	assert.Equal(t, "2024-06-14T09:30:00Z", row[15])
}

func TestAppend_SameInputTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "predictions_log.csv")
	logger, err := Open(path)
	require.NoError(t, err)
	defer logger.Close()

	second := testRecord
	second.Timestamp = testRecord.Timestamp.Add(time.Second)

	require.NoError(t, logger.Append(testRecord))
	require.NoError(t, logger.Append(second))

	rows := readAll(t, path)
	require.Len(t, rows, 3)
	// Identical feature and prediction columns, differing only in timestamp.
	assert.Equal(t, rows[1][:15], rows[2][:15])
	assert.NotEqual(t, rows[1][15], rows[2][15])
}

func TestAppend_ConcurrentWritersNoCorruption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "predictions_log.csv")
	logger, err := Open(path)
	require.NoError(t, err)
	defer logger.Close()

	const writers = 32
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			record := testRecord
			record.Features.Age = float64(30 + i)
			assert.NoError(t, logger.Append(record))
		}(i)
	}
	wg.Wait()

	rows := readAll(t, path)
	require.Len(t, rows, writers+1)

	seen := make(map[string]bool)
	for _, row := range rows[1:] {
		require.Len(t, row, 16)
		assert.False(t, seen[row[0]], "duplicate row for age %s", row[0])
		seen[row[0]] = true
	}
}

func TestAppend_AfterCloseIsTransient(t *testing.T) {
	path := filepath.Join(t.TempDir(), "predictions_log.csv")
	logger, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, logger.Close())

	err = logger.Append(testRecord)
	require.Error(t, err)
	assert.True(t, errors.IsTransient(err))
	assert.ErrorIs(t, err, errors.ErrAuditWrite)
}

func TestOpen_UnwritableDirectory(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "predictions_log.csv"))
	require.Error(t, err)
	assert.True(t, errors.IsFatal(err))
}
