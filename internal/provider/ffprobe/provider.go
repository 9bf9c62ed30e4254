package ffprobe

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/Digital-Shane/media-sort/internal/provider"
	"gopkg.in/vansante/go-ffprobe.v2"
)

const (
	providerName = "ffprobe"
	binaryName   = "ffprobe"
)

// probeFunc defines the function signature used to execute ffprobe.
type probeFunc func(ctx context.Context, path string, extraOpts ...string) (*ffprobe.ProbeData, error)

// Prober reads container durations with ffprobe.
type Prober struct {
	probe probeFunc
}

// New creates a new prober using the ffprobe binary on PATH.
func New() *Prober {
	return &Prober{
		probe: ffprobe.ProbeURL,
	}
}

// Available reports whether the ffprobe binary can be found.
func Available() bool {
	_, err := exec.LookPath(binaryName)
	return err == nil
}

// Duration returns the playback duration of the container at path.
func (p *Prober) Duration(ctx context.Context, path string) (time.Duration, error) {
	if path == "" {
		return 0, &provider.ProviderError{
			Provider: providerName,
			Code:     "MISSING_PATH",
			Message:  "ffprobe requires a non-empty file path",
			Retry:    false,
		}
	}

	data, err := p.probe(ctx, path)
	if err != nil {
		return 0, &provider.ProviderError{
			Provider: providerName,
			Code:     "PROBE_FAILED",
			Message:  fmt.Sprintf("ffprobe failed for %s: %v", path, err),
			Retry:    false,
		}
	}
	if data == nil || data.Format == nil || data.Format.DurationSeconds <= 0 {
		return 0, &provider.ProviderError{
			Provider: providerName,
			Code:     "NO_DURATION",
			Message:  fmt.Sprintf("ffprobe reported no duration for %s", path),
			Retry:    false,
		}
	}

	return time.Duration(data.Format.DurationSeconds * float64(time.Second)), nil
}
