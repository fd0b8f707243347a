// SPDX-License-Identifier: Apache-2.0

// Package logging provides the rotating audit log. Progress output for the
// user goes to stdout through the run observer; this log is the
// machine-readable trail of backups, step errors, and run summaries.
package logging

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// AuditLogger writes JSON lines to a size-rotated log file.
type AuditLogger struct {
	mu     sync.Mutex
	logger *log.Logger
	file   *lumberjack.Logger
}

// NewAuditLogger creates an audit logger writing to filename. Rotation
// keeps a handful of compressed backups; callers should Close when done.
func NewAuditLogger(filename string) *AuditLogger {
	file := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	return &AuditLogger{
		logger: log.New(file, "", 0),
		file:   file,
	}
}

// Event writes one audit event with the given kind and fields.
func (a *AuditLogger) Event(kind string, fields map[string]any) {
	if a == nil {
		return
	}

	entry := map[string]any{
		"ts":    time.Now().Format(time.RFC3339Nano),
		"event": kind,
	}
	for k, v := range fields {
		entry[k] = v
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.logger.Print(string(data))
}

// Close releases the underlying log file.
func (a *AuditLogger) Close() error {
	if a == nil || a.file == nil {
		return nil
	}
	return a.file.Close()
}
