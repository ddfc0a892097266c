package ytdlq

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/slok/ytdlq/test/integration/testutils"
)

// Config holds integration test configuration loaded from environment variables.
type Config struct {
	Binary string
	// ServiceURL is a running download service, when empty the fake service is used.
	ServiceURL string
	// VideoURL is submitted to the running download service.
	VideoURL string
}

func (c *Config) defaults() error {
	// go test changes the CWD to the test package directory.
	if !filepath.IsAbs(c.Binary) {
		return fmt.Errorf("YTDLQ_INTEGRATION_BINARY must be an absolute path, got %q", c.Binary)
	}
	if _, err := os.Stat(c.Binary); err != nil {
		return fmt.Errorf("ytdlq binary not found at %q: %w", c.Binary, err)
	}

	if c.ServiceURL != "" && c.VideoURL == "" {
		return fmt.Errorf("video url is required with a service url (YTDLQ_INTEGRATION_VIDEO_URL)")
	}

	return nil
}

// NewConfig loads integration test configuration from environment variables.
// If the config is invalid or the activation env var is not set, the test is skipped.
func NewConfig(t *testing.T) Config {
	t.Helper()

	const (
		envActivation = "YTDLQ_INTEGRATION"
		envBinary     = "YTDLQ_INTEGRATION_BINARY"
		envServiceURL = "YTDLQ_INTEGRATION_SERVICE_URL"
		envVideoURL   = "YTDLQ_INTEGRATION_VIDEO_URL"
	)

	if os.Getenv(envActivation) != "true" {
		t.Skipf("Skipping integration test: %s is not set to 'true'", envActivation)
	}

	c := Config{
		Binary:     os.Getenv(envBinary),
		ServiceURL: os.Getenv(envServiceURL),
		VideoURL:   os.Getenv(envVideoURL),
	}

	if err := c.defaults(); err != nil {
		t.Skipf("Skipping due to invalid config: %s", err)
	}

	return c
}

// Env is an isolated ytdlq data directory.
type Env struct {
	config Config
	dir    string
}

// NewEnv returns a new isolated environment removed at the end of the test.
func NewEnv(t *testing.T, config Config) *Env {
	t.Helper()
	return &Env{config: config, dir: t.TempDir()}
}

// Run executes ytdlq on the environment data directory with logs disabled.
func (e *Env) Run(ctx context.Context, args ...string) (stdout, stderr []byte, err error) {
	env := []string{
		"YTDLQ_DB_PATH=" + filepath.Join(e.dir, "ytdlq.db"),
		"YTDLQ_SETTINGS_PATH=" + filepath.Join(e.dir, "settings.yaml"),
	}

	global := []string{}
	if e.config.ServiceURL != "" {
		global = append(global, "--service-url", e.config.ServiceURL)
	} else {
		global = append(global, "--fake-service")
	}

	return testutils.RunYTDLQArgs(ctx, env, e.config.Binary, append(global, args...), true)
}

// VideoURL returns the URL to submit on the environment.
func (e *Env) VideoURL() string {
	if e.config.VideoURL != "" {
		return e.config.VideoURL
	}
	return "https://youtu.be/dQw4w9WgXcQ"
}
