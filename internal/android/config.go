// Copyright (C) 2026 ludachrisnyc
// License: AGPL-3.0-only

package android

import (
	"context"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/google/uuid"
)

const (
	defaultPollInterval = 3 * time.Second
	defaultPollAttempts = 60
)

// Config carries every input the bootstrap operations read. Detect fills it
// once from the process environment; after that the operations never consult
// ambient state, so tests and embedders can hand in a fully synthetic copy.
type Config struct {
	PropertiesFile string // project file consulted first for sdk.dir (default "local.properties")
	AndroidHome    string // ANDROID_HOME
	AndroidSDKRoot string // ANDROID_SDK_ROOT
	AVDHome        string // ANDROID_AVD_HOME (default ~/.android/avd)

	JavaHome        string   // JAVA_HOME; refreshed when EnsureJavaRuntime resolves a runtime
	PathEnv         string   // PATH handed to child processes
	JavaSearchRoots []string // install roots scanned when JAVA_HOME is unusable

	ToolsArchive  string // local command-line tools archive to install instead of downloading
	ToolsURL      string // download URL override (default: per-OS Google repository build)
	ToolsChecksum string // optional sha256 of the downloaded archive
	DownloadDir   string // archive cache (default under the user cache dir)
	StateDir      string // persisted user environment (default under the user state dir)

	PollInterval time.Duration // delay between adb device listings
	PollAttempts int           // listings before the wait gives up

	// Runner executes external SDK tools. Nil means real processes.
	Runner Runner
	// CorrelationID is used to tie logs to a specific workflow/activity.
	CorrelationID string
	// Context is used to parent OpenTelemetry spans.
	Context context.Context
}

func Detect() Config {
	usr, _ := user.Current()
	home := ""
	if usr != nil {
		home = usr.HomeDir
	} else if h := os.Getenv("HOME"); h != "" {
		home = h
	}

	correlationID := getenv("DARTSCTL_CORRELATION_ID", "")
	if correlationID == "" {
		correlationID = uuid.NewString()
	}

	return Config{
		PropertiesFile: getenv("DARTSCTL_PROPERTIES", "local.properties"),
		AndroidHome:    os.Getenv("ANDROID_HOME"),
		AndroidSDKRoot: os.Getenv("ANDROID_SDK_ROOT"),
		AVDHome:        getenv("ANDROID_AVD_HOME", filepath.Join(home, ".android", "avd")),
		JavaHome:       os.Getenv("JAVA_HOME"),
		PathEnv:        os.Getenv("PATH"),
		DownloadDir:    filepath.Join(xdg.CacheHome, "dartsctl", "downloads"),
		StateDir:       filepath.Join(xdg.StateHome, "dartsctl"),
		PollInterval:   defaultPollInterval,
		PollAttempts:   defaultPollAttempts,
		CorrelationID:  correlationID,
		Context:        context.Background(),
	}
}

func getenv(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func (c Config) context() context.Context {
	if c.Context != nil {
		return c.Context
	}
	return context.Background()
}

func (c Config) runner() Runner {
	if c.Runner != nil {
		return c.Runner
	}
	return execRunner{cfg: c}
}

func (c Config) downloadDir() string {
	if c.DownloadDir != "" {
		return c.DownloadDir
	}
	return filepath.Join(xdg.CacheHome, "dartsctl", "downloads")
}

func (c Config) stateDir() string {
	if c.StateDir != "" {
		return c.StateDir
	}
	return filepath.Join(xdg.StateHome, "dartsctl")
}

func (c Config) pollSettings() (time.Duration, int) {
	interval := c.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	attempts := c.PollAttempts
	if attempts <= 0 {
		attempts = defaultPollAttempts
	}
	return interval, attempts
}

// childEnv builds the environment for spawned tools. The parent process
// environment stays untouched; JAVA_HOME and PATH are overridden only in
// the copy handed to children.
func (c Config) childEnv() []string {
	env := os.Environ()
	if c.JavaHome == "" {
		return env
	}
	pathVal := c.PathEnv
	if pathVal == "" {
		pathVal = os.Getenv("PATH")
	}
	out := make([]string, 0, len(env)+2)
	for _, kv := range env {
		if strings.HasPrefix(kv, "JAVA_HOME=") || strings.HasPrefix(kv, "PATH=") {
			continue
		}
		out = append(out, kv)
	}
	javaBin := filepath.Join(c.JavaHome, "bin")
	out = append(out, "JAVA_HOME="+c.JavaHome)
	out = append(out, "PATH="+javaBin+string(os.PathListSeparator)+pathVal)
	return out
}
