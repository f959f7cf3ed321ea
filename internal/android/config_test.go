package android

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDetect(t *testing.T) {
	cfg := Detect()
	if cfg.AVDHome == "" {
		t.Fatal("AVDHome should not be empty")
	}
	if cfg.PropertiesFile == "" {
		t.Fatal("PropertiesFile should not be empty")
	}
	if cfg.CorrelationID == "" {
		t.Fatal("CorrelationID should be generated when unset")
	}
	if cfg.PollInterval != defaultPollInterval || cfg.PollAttempts != defaultPollAttempts {
		t.Fatalf("unexpected poll settings %v/%d", cfg.PollInterval, cfg.PollAttempts)
	}
}

func TestPollSettingsDefaults(t *testing.T) {
	interval, attempts := Config{}.pollSettings()
	if interval != defaultPollInterval || attempts != defaultPollAttempts {
		t.Fatalf("expected defaults, got %v/%d", interval, attempts)
	}

	interval, attempts = Config{PollInterval: time.Second, PollAttempts: 5}.pollSettings()
	if interval != time.Second || attempts != 5 {
		t.Fatalf("expected overrides kept, got %v/%d", interval, attempts)
	}
}

func TestChildEnvInjectsJavaHome(t *testing.T) {
	cfg := Config{JavaHome: "/opt/jdk-21", PathEnv: "/usr/bin"}
	env := cfg.childEnv()

	var javaHome, pathVar string
	for _, kv := range env {
		if v, ok := strings.CutPrefix(kv, "JAVA_HOME="); ok {
			if javaHome != "" {
				t.Fatal("duplicate JAVA_HOME entry")
			}
			javaHome = v
		}
		if v, ok := strings.CutPrefix(kv, "PATH="); ok {
			if pathVar != "" {
				t.Fatal("duplicate PATH entry")
			}
			pathVar = v
		}
	}
	if javaHome != "/opt/jdk-21" {
		t.Fatalf("expected JAVA_HOME injected, got %q", javaHome)
	}
	if !strings.HasPrefix(pathVar, filepath.Join("/opt/jdk-21", "bin")) {
		t.Fatalf("expected java bin prepended to PATH, got %q", pathVar)
	}
	if !strings.HasSuffix(pathVar, "/usr/bin") {
		t.Fatalf("expected configured PATH preserved, got %q", pathVar)
	}
}

func TestChildEnvWithoutJavaHomeIsUntouched(t *testing.T) {
	env := Config{}.childEnv()
	for _, kv := range env {
		if strings.HasPrefix(kv, "JAVA_HOME=/opt/jdk-21") {
			t.Fatal("unexpected JAVA_HOME injection")
		}
	}
}
