// Package audit persists one record per scored prediction to an
// append-only CSV store.
//
// The store is the sole interface to the offline drift-monitoring job,
// which reads it wholesale, so the column set and order are a contract:
// the 13 feature columns in canonical order, then prediction, probability,
// timestamp. A header row is written when the file is created empty.
package audit

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/c360/heartserve/errors"
	"github.com/c360/heartserve/feature"
	"github.com/c360/heartserve/model"
)

// Record is one scored request: the input features, the model's answer,
// and the capture time.
type Record struct {
	Features   feature.Record
	Prediction model.Prediction
	Timestamp  time.Time
}

// header returns the CSV column names in write order.
func header() []string {
	columns := make([]string, 0, feature.Count+3)
	columns = append(columns, feature.Names...)
	return append(columns, "prediction", "probability", "timestamp")
}

// row serializes the record in header order.
func (r Record) row() []string {
	fields := make([]string, 0, feature.Count+3)
	for _, v := range r.Features.Vector() {
		fields = append(fields, strconv.FormatFloat(v, 'g', -1, 64))
	}
	return append(fields,
		strconv.Itoa(r.Prediction.Label),
		strconv.FormatFloat(r.Prediction.Probability, 'g', -1, 64),
		r.Timestamp.UTC().Format(time.RFC3339Nano),
	)
}

// Logger appends prediction records to a CSV file. A single mutex
// serializes writers so rows from concurrent requests never interleave;
// each successful Append has flushed and synced its row before returning.
type Logger struct {
	mu   sync.Mutex
	file *os.File
}

// Open opens (creating if needed) the audit log at path and writes the
// header row if the file is empty.
func Open(path string) (*Logger, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, errors.WrapFatal(err, "Logger", "Open", "open audit log")
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, errors.WrapFatal(err, "Logger", "Open", "stat audit log")
	}

	logger := &Logger{file: file}
	if info.Size() == 0 {
		if err := logger.write(header()); err != nil {
			_ = file.Close()
			return nil, errors.WrapFatal(err, "Logger", "Open", "write header")
		}
	}

	return logger, nil
}

// Append durably writes exactly one record. On error nothing (beyond a
// possibly torn OS-level write, prevented by the single-writer lock) has
// been committed and the caller treats the record as unlogged.
func (l *Logger) Append(record Record) error {
	if err := l.write(record.row()); err != nil {
		return errors.WrapTransient(
			fmt.Errorf("%w: %v", errors.ErrAuditWrite, err),
			"Logger", "Append", "write record")
	}
	return nil
}

// write emits one full CSV row under the lock and syncs it to disk.
func (l *Logger) write(fields []string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	w := csv.NewWriter(l.file)
	if err := w.Write(fields); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return l.file.Sync()
}

// Close closes the underlying file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.file.Close(); err != nil {
		return errors.WrapTransient(err, "Logger", "Close", "close audit log")
	}
	return nil
}
