// Copyright (C) 2026 ludachrisnyc
// License: AGPL-3.0-only

package android

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

// defaultJavaSearchRoots lists the conventional install parents scanned when
// JAVA_HOME is missing or stale.
func defaultJavaSearchRoots() []string {
	switch runtime.GOOS {
	case "windows":
		return []string{
			`C:\Program Files\Java`,
			`C:\Program Files\Eclipse Adoptium`,
		}
	case "darwin":
		return []string{"/Library/Java/JavaVirtualMachines"}
	default:
		return []string{"/usr/lib/jvm", "/usr/java"}
	}
}

func (c Config) javaRoots() []string {
	if len(c.JavaSearchRoots) > 0 {
		return c.JavaSearchRoots
	}
	return defaultJavaSearchRoots()
}

// javaBinary returns the runtime executable under a JDK home.
func javaBinary(home string) string {
	p := filepath.Join(home, "bin", "java")
	if runtime.GOOS == "windows" {
		p += ".exe"
	}
	return p
}

func javaRuntimeValid(home string) bool {
	info, err := os.Stat(javaBinary(home))
	return err == nil && !info.IsDir()
}

func dirExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}

// EnsureJavaRuntime resolves a usable JDK home. A preset JAVA_HOME that
// still points at a java executable wins. Otherwise the search roots are
// scanned and the subdirectory with the lexicographically greatest name is
// taken; that comparison is a weak stand-in for version ordering ("jdk-9"
// beats "jdk-17") and is kept as-is. The pick is persisted for future
// sessions. Failures here never abort a bootstrap, callers log and move on.
func EnsureJavaRuntime(cfg Config) (string, error) {
	_, span := startSpan(cfg, "android.EnsureJavaRuntime")
	defer span.End()

	if cfg.JavaHome != "" && javaRuntimeValid(cfg.JavaHome) {
		logEvent(cfg, "java runtime already configured", "java_home", cfg.JavaHome)
		return cfg.JavaHome, nil
	}

	bestName, bestRoot := "", ""
	for _, root := range cfg.javaRoots() {
		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			if e.Name() > bestName {
				bestName, bestRoot = e.Name(), root
			}
		}
	}
	if bestName == "" {
		err := notFoundf("no java runtime under %s", strings.Join(cfg.javaRoots(), ", "))
		recordSpanError(span, err)
		return "", err
	}

	home := filepath.Join(bestRoot, bestName)
	// macOS JDK bundles keep the real home one level down.
	if contents := filepath.Join(home, "Contents", "Home"); dirExists(contents) {
		home = contents
	}
	if err := persistUserEnv(cfg, "JAVA_HOME", home); err != nil {
		logWarn(cfg, "could not persist JAVA_HOME", "java_home", home, "error", err)
	}
	span.SetAttributes(attribute.String("java_home", home))
	logEvent(cfg, "java runtime resolved", "java_home", home)
	return home, nil
}

// persistUserEnv records a key=value for future sessions: setx on Windows,
// an export line under the state dir elsewhere (shells opt in by sourcing
// it).
func persistUserEnv(cfg Config, key, value string) error {
	if runtime.GOOS == "windows" {
		res, err := runTool(cfg, "setx", key, value)
		if err != nil {
			return err
		}
		if res.ExitCode != 0 {
			return fmt.Errorf("setx %s exited %d\n%s", key, res.ExitCode, res.Output())
		}
		return nil
	}
	dir := cfg.stateDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(dir, "env.sh"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = fmt.Fprintf(f, "export %s=%q\n", key, value)
	return err
}
