package log

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// resetLogging restores the package recorder after a test.
func resetLogging(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		std.mu.Lock()
		std.dir, std.enabled, std.session = "", false, nil
		std.mu.Unlock()
	})
}

func TestStartSession(t *testing.T) {
	resetLogging(t)
	Initialize(t.TempDir(), true, 0)

	if err := StartSession("sort", []string{"--input", "/in"}, true); err != nil {
		t.Fatalf("StartSession() failed: %v", err)
	}
	if std.session == nil {
		t.Fatal("StartSession() should have created a session")
	}

	meta := std.session.Metadata
	if diff := cmp.Diff([]string{"sort", "--input", "/in"}, meta.Command); diff != "" {
		t.Errorf("Command mismatch (-want +got):\n%s", diff)
	}
	if !meta.DryRun {
		t.Error("DryRun not recorded")
	}
}

func TestLogOperations(t *testing.T) {
	resetLogging(t)
	Initialize(t.TempDir(), true, 0)

	if err := StartSession("sort", nil, false); err != nil {
		t.Fatalf("StartSession() failed: %v", err)
	}

	LogCreateDir("/out/Series", nil)
	LogMove("/in/a.mkv", "/out/Series/A/S01/A - E01.mkv", nil)
	LogCopy("/mnt/b.mkv", "/out/Films/B.mkv", nil)
	LogDelete("/mnt/b.mkv", os.ErrPermission)
	LogNotify("/out/Films/B.mkv", nil)

	wantTypes := []OperationType{OpCreateDir, OpMove, OpCopy, OpDelete, OpNotify}
	var gotTypes []OperationType
	for i, op := range std.session.Operations {
		gotTypes = append(gotTypes, op.Type)
		if op.Seq != i {
			t.Errorf("operation %d has seq %d", i, op.Seq)
		}
	}
	if diff := cmp.Diff(wantTypes, gotTypes); diff != "" {
		t.Errorf("operation types mismatch (-want +got):\n%s", diff)
	}

	std.session.tally()
	if m := std.session.Metadata; m.Succeeded != 4 || m.Failed != 1 {
		t.Errorf("tally = %d ok / %d failed, want 4 / 1", m.Succeeded, m.Failed)
	}

	failed := std.session.Operations[3]
	if failed.Success || failed.Error == "" {
		t.Errorf("failed delete recorded as %+v", failed)
	}
}

func TestEndSessionWritesFile(t *testing.T) {
	resetLogging(t)
	dir := filepath.Join(t.TempDir(), "logs")
	Initialize(dir, true, 30)

	if err := StartSession("sort", []string{"-d"}, false); err != nil {
		t.Fatalf("StartSession() failed: %v", err)
	}
	LogMove("/in/a.mkv", "/out/a.mkv", nil)
	LogMove("/in/b.mkv", "/out/b.mkv", errors.New("disk full"))

	path, err := EndSession()
	if err != nil {
		t.Fatalf("EndSession() failed: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("session written to %q, want inside %q", path, dir)
	}
	if std.session != nil {
		t.Error("EndSession() should clear the session")
	}

	session, err := ReadSession(path)
	if err != nil {
		t.Fatalf("ReadSession() failed: %v", err)
	}
	if m := session.Metadata; m.Total != 2 || m.Failed != 1 || m.Finished.IsZero() {
		t.Errorf("metadata = %+v", m)
	}
	if session.Operations[1].Error != "disk full" {
		t.Errorf("operation error = %q", session.Operations[1].Error)
	}

	// Recording after the session ended is a no-op
	LogMove("/in/c.mkv", "/out/c.mkv", nil)
	if path, err := EndSession(); path != "" || err != nil {
		t.Errorf("second EndSession() = (%q, %v)", path, err)
	}
}

func TestLoggingDisabled(t *testing.T) {
	resetLogging(t)

	tests := []struct {
		name    string
		dir     string
		enabled bool
	}{
		{name: "flag_off", dir: t.TempDir(), enabled: false},
		{name: "no_directory", dir: "", enabled: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			Initialize(tc.dir, tc.enabled, 30)

			if err := StartSession("sort", nil, false); err != nil {
				t.Fatalf("StartSession() failed: %v", err)
			}
			if std.session != nil {
				t.Error("session should not be created when logging is disabled")
			}

			LogMove("old.mkv", "new.mkv", nil)

			path, err := EndSession()
			if err != nil || path != "" {
				t.Errorf("EndSession() = (%q, %v), want no file", path, err)
			}
		})
	}
}

func TestRecorderConcurrent(t *testing.T) {
	r := NewRecorder(t.TempDir(), true)
	if err := r.Start("sort", nil, false); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Record(OpMove, "a", "b", nil)
		}()
	}
	wg.Wait()

	path, err := r.End()
	if err != nil {
		t.Fatal(err)
	}
	session, err := ReadSession(path)
	if err != nil {
		t.Fatal(err)
	}
	if session.Metadata.Total != 50 {
		t.Errorf("Total = %d, want 50", session.Metadata.Total)
	}
}

func TestPrune(t *testing.T) {
	dir := t.TempDir()

	oldFile := filepath.Join(dir, "2020-01-01_000000.000.json")
	newFile := filepath.Join(dir, "2099-01-01_000000.000.json")
	other := filepath.Join(dir, "notes.txt")
	for _, f := range []string{oldFile, newFile, other} {
		if err := os.WriteFile(f, []byte("{}"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	past := time.Now().AddDate(0, 0, -40)
	for _, f := range []string{oldFile, other} {
		if err := os.Chtimes(f, past, past); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := Prune(dir, time.Now().AddDate(0, 0, -30))
	if err != nil || removed != 1 {
		t.Fatalf("Prune() = (%d, %v), want 1 removed", removed, err)
	}
	if _, err := os.Stat(oldFile); !os.IsNotExist(err) {
		t.Error("old log file should be removed")
	}
	if _, err := os.Stat(newFile); err != nil {
		t.Errorf("recent log file removed: %v", err)
	}
	if _, err := os.Stat(other); err != nil {
		t.Errorf("non-log file removed: %v", err)
	}

	if n, err := Prune(filepath.Join(dir, "missing"), time.Now()); n != 0 || err != nil {
		t.Errorf("Prune(missing) = (%d, %v)", n, err)
	}
}

func TestInitializePrunes(t *testing.T) {
	resetLogging(t)
	dir := t.TempDir()
	old := filepath.Join(dir, "old.json")
	if err := os.WriteFile(old, nil, 0644); err != nil {
		t.Fatal(err)
	}
	past := time.Now().AddDate(0, 0, -40)
	if err := os.Chtimes(old, past, past); err != nil {
		t.Fatal(err)
	}

	Initialize(dir, true, 30)

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("Initialize() should prune old sessions")
	}
}
