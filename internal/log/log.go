// Package log records the file operations of a run in a JSON session file.
package log

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

type OperationType string

const (
	OpMove      OperationType = "move"
	OpCopy      OperationType = "copy"
	OpDelete    OperationType = "delete"
	OpCreateDir OperationType = "create_dir"
	OpNotify    OperationType = "notify"
)

const sessionExt = ".json"

// Operation is one recorded filesystem or notification action.
type Operation struct {
	Seq     int           `json:"seq"`
	At      time.Time     `json:"at"`
	Type    OperationType `json:"type"`
	Source  string        `json:"source,omitempty"`
	Target  string        `json:"target,omitempty"`
	Success bool          `json:"success"`
	Error   string        `json:"error,omitempty"`
}

// Metadata describes the run a session belongs to.
type Metadata struct {
	ID         string    `json:"id"`
	Command    []string  `json:"command"`
	WorkingDir string    `json:"working_dir"`
	Started    time.Time `json:"started"`
	Finished   time.Time `json:"finished,omitempty"`
	DryRun     bool      `json:"dry_run"`
	Total      int       `json:"total"`
	Succeeded  int       `json:"succeeded"`
	Failed     int       `json:"failed"`
}

// Session is the content of one session file.
type Session struct {
	Metadata   Metadata    `json:"metadata"`
	Operations []Operation `json:"operations"`
}

// tally fills in the counters from the operations.
func (s *Session) tally() {
	s.Metadata.Total = len(s.Operations)
	s.Metadata.Succeeded, s.Metadata.Failed = 0, 0
	for _, op := range s.Operations {
		if op.Success {
			s.Metadata.Succeeded++
		} else {
			s.Metadata.Failed++
		}
	}
}

// Recorder collects the operations of the current session. Workers record
// concurrently.
type Recorder struct {
	mu      sync.Mutex
	dir     string
	enabled bool
	session *Session
}

// std is the process recorder used by the package functions.
var std = &Recorder{}

// NewRecorder creates a recorder writing sessions to dir. An empty dir disables it.
func NewRecorder(dir string, enabled bool) *Recorder {
	return &Recorder{dir: dir, enabled: enabled && dir != ""}
}

// Initialize configures the package recorder and prunes session files older
// than retentionDays. Zero keeps everything.
func Initialize(dir string, enabled bool, retentionDays int) {
	std.mu.Lock()
	defer std.mu.Unlock()

	std.dir = dir
	std.enabled = enabled && dir != ""
	std.session = nil
	if std.enabled && retentionDays > 0 {
		if _, err := Prune(dir, time.Now().AddDate(0, 0, -retentionDays)); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to clean up old logs: %v\n", err)
		}
	}
}

// Start begins a session for command.
func (r *Recorder) Start(command string, args []string, dryRun bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.enabled {
		return nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	now := time.Now()
	r.session = &Session{
		Metadata: Metadata{
			ID:         now.Format("2006-01-02_150405.000"),
			Command:    append([]string{command}, args...),
			WorkingDir: wd,
			Started:    now,
			DryRun:     dryRun,
		},
		Operations: []Operation{},
	}
	return nil
}

// Record appends an operation; a nil err marks it successful. Nothing is
// recorded outside a session.
func (r *Recorder) Record(opType OperationType, source, target string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.session == nil {
		return
	}
	op := Operation{
		Seq:     len(r.session.Operations),
		At:      time.Now(),
		Type:    opType,
		Source:  source,
		Target:  target,
		Success: err == nil,
	}
	if err != nil {
		op.Error = err.Error()
	}
	r.session.Operations = append(r.session.Operations, op)
}

// End writes the session and returns its path, or "" when there was none.
func (r *Recorder) End() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.session
	if s == nil {
		return "", nil
	}
	r.session = nil

	s.Metadata.Finished = time.Now()
	s.tally()
	return r.write(s)
}

func (r *Recorder) write(s *Session) (string, error) {
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create log directory: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal session: %w", err)
	}
	path := filepath.Join(r.dir, s.Metadata.ID+sessionExt)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write log file: %w", err)
	}
	return path, nil
}

// StartSession begins a session on the package recorder.
func StartSession(command string, args []string, dryRun bool) error {
	return std.Start(command, args, dryRun)
}

// EndSession writes the package recorder's session.
func EndSession() (string, error) {
	return std.End()
}

// LogMove records a same-volume rename.
func LogMove(source, target string, err error) { std.Record(OpMove, source, target, err) }

// LogCopy records the copy half of a cross-volume move.
func LogCopy(source, target string, err error) { std.Record(OpCopy, source, target, err) }

func LogDelete(path string, err error) { std.Record(OpDelete, path, "", err) }

func LogCreateDir(dir string, err error) { std.Record(OpCreateDir, "", dir, err) }

// LogNotify records a webhook delivery for the library file at path.
func LogNotify(path string, err error) { std.Record(OpNotify, "", path, err) }

// ReadSession loads a session file.
func ReadSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &s, nil
}

// Prune removes session files in dir last modified before cutoff and
// returns how many were removed. Other files are left alone.
func Prune(dir string, cutoff time.Time) (int, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to list log files: %w", err)
	}

	removed := 0
	for _, e := range entries {
		if !e.Type().IsRegular() || !strings.HasSuffix(e.Name(), sessionExt) {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to remove old log file %s: %v\n", e.Name(), err)
			continue
		}
		removed++
	}
	return removed, nil
}
