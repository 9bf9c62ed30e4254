package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestDefault(t *testing.T) {
	t.Setenv(EnvTMDBKey, "")

	want := Config{
		Threads:          4,
		Webhook:          "default",
		TvTemplate:       "Series",
		MovieTemplate:    "Films",
		Language:         "en-US",
		Timeout:          10 * time.Second,
		Log:              true,
		LogRetentionDays: 30,
	}
	if diff := cmp.Diff(want, Default()); diff != "" {
		t.Errorf("Default() mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultReadsTMDBKeyFromEnv(t *testing.T) {
	t.Setenv(EnvTMDBKey, "env-key")
	assert.Equal(t, "env-key", Default().TmdbKey)
}

func TestOverlayOrder(t *testing.T) {
	t.Setenv(EnvTMDBKey, "")

	p := ProfileFrom("nas", Default())
	p.Input = "/downloads"
	p.Output = "/library"
	p.Flags.Threads = 8
	p.Flags.Recursive = true
	p.Flags.TvTemplate = "TV"

	base := Default()
	got := base.WithProfile(p).WithOverrides(Overrides{
		Threads:    ptr(2),
		Output:     ptr("/elsewhere"),
		DryRun:     ptr(true),
		Recursive:  ptr(false),
		Timeout:    ptr(3),
		TvTemplate: nil,
	})

	assert.Equal(t, "/downloads", got.Input, "profile input kept")
	assert.Equal(t, "/elsewhere", got.Output, "flag overrides profile")
	assert.Equal(t, 2, got.Threads)
	assert.False(t, got.Recursive)
	assert.True(t, got.DryRun)
	assert.Equal(t, "TV", got.TvTemplate, "unset flag keeps the profile value")
	assert.Equal(t, 3*time.Second, got.Timeout)

	// Each step returns a new value
	assert.Equal(t, 4, base.Threads)
	assert.Empty(t, base.Input)
}

func TestWithProfileKeepsEnvKey(t *testing.T) {
	t.Setenv(EnvTMDBKey, "env-key")

	p := ProfileFrom("x", Default())
	assert.Empty(t, p.Flags.TmdbKey, "environment key is not persisted")
	assert.Equal(t, "env-key", Default().WithProfile(p).TmdbKey)

	p.Flags.TmdbKey = "profile-key"
	assert.Equal(t, "profile-key", Default().WithProfile(p).TmdbKey)
}

func TestWebhookURL(t *testing.T) {
	tests := []struct {
		name    string
		webhook string
		want    string
	}{
		{name: "sentinel", webhook: "default", want: ""},
		{name: "empty", webhook: "", want: ""},
		{name: "blank", webhook: "  ", want: ""},
		{name: "url", webhook: " https://discord.example/hook ", want: "https://discord.example/hook"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := Default().WithOverrides(Overrides{Webhook: ptr(tc.webhook)})
			assert.Equal(t, tc.want, c.WebhookURL())
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		o       Overrides
		wantErr bool
	}{
		{name: "defaults", o: Overrides{}},
		{name: "zero_threads", o: Overrides{Threads: ptr(0)}, wantErr: true},
		{name: "negative_threads", o: Overrides{Threads: ptr(-1)}, wantErr: true},
		{name: "empty_template", o: Overrides{TvTemplate: ptr(" ")}, wantErr: true},
		{name: "negative_timeout", o: Overrides{Timeout: ptr(-5)}, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Default().WithOverrides(tc.o).Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPaths(t *testing.T) {
	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	root := filepath.Join(dataHome, "MediaSort")
	assert.Equal(t, root, DataDir())
	assert.Equal(t, filepath.Join(root, "profiles"), ProfilesDir())
	assert.Equal(t, filepath.Join(root, "unwanted_words.txt"), WordsPath())
	assert.Equal(t, filepath.Join(root, "logs"), LogDir())
	assert.Equal(t, filepath.Join(root, "cache", "lookup.gob"), CachePath())
	assert.Equal(t, filepath.Join(root, "profiles"), DefaultStore().Dir())
}
