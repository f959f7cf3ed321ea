// Copyright (C) 2026 ludachrisnyc
// License: AGPL-3.0-only

package android

import (
	"os"
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

// SDKSource identifies where a resolved SDK root came from.
type SDKSource int

const (
	SDKSourceNone SDKSource = iota
	SDKSourceProperties
	SDKSourceAndroidHome
	SDKSourceSDKRoot
)

func (s SDKSource) String() string {
	switch s {
	case SDKSourceProperties:
		return "sdk.dir"
	case SDKSourceAndroidHome:
		return "ANDROID_HOME"
	case SDKSourceSDKRoot:
		return "ANDROID_SDK_ROOT"
	default:
		return "none"
	}
}

// SDK is a resolved Android SDK installation root.
type SDK struct {
	Root   string
	Source SDKSource
}

// LocateSDK resolves the SDK installation root. The project properties file
// wins over ANDROID_HOME, which wins over ANDROID_SDK_ROOT. The resolved
// root must exist as a directory; every downstream operation depends on it.
func LocateSDK(cfg Config) (SDK, error) {
	_, span := startSpan(cfg, "android.LocateSDK")
	defer span.End()

	root, source := "", SDKSourceNone
	if dir, ok := sdkDirFromProperties(cfg.PropertiesFile); ok && dir != "" {
		root, source = dir, SDKSourceProperties
	} else if cfg.AndroidHome != "" {
		root, source = cfg.AndroidHome, SDKSourceAndroidHome
	} else if cfg.AndroidSDKRoot != "" {
		root, source = cfg.AndroidSDKRoot, SDKSourceSDKRoot
	}
	if root == "" {
		err := notFoundf("android sdk not found: set ANDROID_HOME or add sdk.dir to %s", cfg.PropertiesFile)
		recordSpanError(span, err)
		return SDK{}, err
	}
	info, statErr := os.Stat(root)
	if statErr != nil || !info.IsDir() {
		err := notFoundf("android sdk root %s (from %s) is not a directory", root, source)
		recordSpanError(span, err)
		return SDK{}, err
	}
	span.SetAttributes(
		attribute.String("sdk_root", root),
		attribute.String("source", source.String()),
	)
	logEvent(cfg, "android sdk located", "sdk_root", root, "source", source.String())
	return SDK{Root: root, Source: source}, nil
}

// sdkDirFromProperties reads the first sdk.dir entry from a key=value
// properties file. Missing file or missing key both report false.
func sdkDirFromProperties(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok || strings.TrimSpace(key) != "sdk.dir" {
			continue
		}
		return unescapePropertyValue(strings.TrimSpace(value)), true
	}
	return "", false
}

// unescapePropertyValue drops the backslash escapes the Android tooling
// writes into local.properties, so `C\:\\Android` reads back as C:\Android.
func unescapePropertyValue(v string) string {
	var b strings.Builder
	escaped := false
	for _, r := range v {
		if escaped {
			b.WriteRune(r)
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		b.WriteRune(r)
	}
	if escaped {
		b.WriteRune('\\')
	}
	return b.String()
}
