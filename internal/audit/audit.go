// Package audit appends inference interactions to a JSONL file. Writes are
// best-effort: the log is diagnostic only and must never affect a scoring
// outcome, so every failure is swallowed.
package audit

import (
	"encoding/json"
	"os"
	"sync"
	"time"
)

const (
	// DefaultPath is the audit file used when no path is configured.
	DefaultPath = "audit_scoring.jsonl"

	promptPreviewLimit   = 1000
	responsePreviewLimit = 4000
)

// Entry is a single audit record. Exactly one of the two shapes is used per
// scoring attempt: a provider interaction (Model/Prompt/Response) or a
// fallback marker (Error/Fallback).
type Entry struct {
	Timestamp string `json:"ts"`
	Model     string `json:"model,omitempty"`
	Prompt    string `json:"prompt,omitempty"`
	Response  string `json:"response,omitempty"`
	Error     string `json:"error,omitempty"`
	Fallback  bool   `json:"fallback,omitempty"`
}

// Log is an append-only JSONL audit log.
type Log struct {
	path string
	mu   sync.Mutex
}

func NewLog(path string) *Log {
	if path == "" {
		path = DefaultPath
	}
	return &Log{path: path}
}

// RecordInteraction appends a provider interaction. Prompt and response are
// capped so one oversized document cannot bloat the log.
func (l *Log) RecordInteraction(model, prompt, response string) {
	l.append(Entry{
		Model:    model,
		Prompt:   clip(prompt, promptPreviewLimit),
		Response: clip(response, responsePreviewLimit),
	})
}

// RecordFallback appends a marker that the heuristic path was taken.
func (l *Log) RecordFallback(err error) {
	entry := Entry{Fallback: true}
	if err != nil {
		entry.Error = err.Error()
	}
	l.append(entry)
}

func (l *Log) append(entry Entry) {
	if l == nil {
		return
	}

	entry.Timestamp = time.Now().UTC().Format(time.RFC3339)

	line, err := json.Marshal(entry)
	if err != nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()

	_, _ = f.Write(append(line, '\n'))
}

func clip(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
