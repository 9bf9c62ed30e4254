package ffprobe

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Digital-Shane/media-sort/internal/provider"
	ffprobeLib "gopkg.in/vansante/go-ffprobe.v2"
)

func TestDuration_Success(t *testing.T) {
	p := New()
	var gotPath string
	p.probe = func(ctx context.Context, path string, extraOpts ...string) (*ffprobeLib.ProbeData, error) {
		gotPath = path
		return &ffprobeLib.ProbeData{
			Format: &ffprobeLib.Format{DurationSeconds: 5400.5},
		}, nil
	}

	got, err := p.Duration(context.Background(), "/videos/example.mkv")
	if err != nil {
		t.Fatalf("Duration() unexpected error: %v", err)
	}
	if want := 5400*time.Second + 500*time.Millisecond; got != want {
		t.Errorf("Duration() = %v, want %v", got, want)
	}
	if gotPath != "/videos/example.mkv" {
		t.Errorf("probed %q", gotPath)
	}
}

func TestDuration_Errors(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		data     *ffprobeLib.ProbeData
		err      error
		wantCode string
	}{
		{name: "missing_path", path: "", wantCode: "MISSING_PATH"},
		{name: "probe_failed", path: "/v.mkv", err: errors.New("exec: \"ffprobe\": executable file not found"), wantCode: "PROBE_FAILED"},
		{name: "no_format", path: "/v.mkv", data: &ffprobeLib.ProbeData{}, wantCode: "NO_DURATION"},
		{name: "zero_duration", path: "/v.mkv", data: &ffprobeLib.ProbeData{Format: &ffprobeLib.Format{}}, wantCode: "NO_DURATION"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := New()
			p.probe = func(ctx context.Context, path string, extraOpts ...string) (*ffprobeLib.ProbeData, error) {
				return tc.data, tc.err
			}

			_, err := p.Duration(context.Background(), tc.path)
			var provErr *provider.ProviderError
			if !errors.As(err, &provErr) {
				t.Fatalf("Duration() error = %v, want ProviderError", err)
			}
			if provErr.Code != tc.wantCode {
				t.Errorf("ProviderError.Code = %v, want %v", provErr.Code, tc.wantCode)
			}
		})
	}
}
