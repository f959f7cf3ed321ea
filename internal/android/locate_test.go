// Copyright (C) 2026 ludachrisnyc
// License: AGPL-3.0-only

package android

import (
	"os"
	"path/filepath"
	"testing"
)

func TestUnescapePropertyValue(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`C\:\\Android\\Sdk`, `C:\Android\Sdk`},
		{`/home/user/Android/Sdk`, `/home/user/Android/Sdk`},
		{`a\=b`, `a=b`},
		{`double\\\\slash`, `double\\slash`},
		{`trailing\`, `trailing\`},
		{``, ``},
	}
	for _, tc := range cases {
		if got := unescapePropertyValue(tc.in); got != tc.want {
			t.Fatalf("unescape %q: got %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSdkDirFromProperties(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.properties")
	payload := "# generated, do not edit\n! legacy comment\n\nndk.dir=/opt/ndk\nsdk.dir=/opt/android-sdk\nsdk.dir=/ignored/second\n"
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write properties: %v", err)
	}

	dir, ok := sdkDirFromProperties(path)
	if !ok {
		t.Fatal("expected sdk.dir to be found")
	}
	if dir != "/opt/android-sdk" {
		t.Fatalf("expected first sdk.dir entry, got %q", dir)
	}

	if _, ok := sdkDirFromProperties(filepath.Join(t.TempDir(), "absent.properties")); ok {
		t.Fatal("expected missing file to report not found")
	}
}

func TestLocateSDKPrefersProperties(t *testing.T) {
	sdkRoot := t.TempDir()
	envRoot := t.TempDir()
	props := filepath.Join(t.TempDir(), "local.properties")
	if err := os.WriteFile(props, []byte("sdk.dir="+sdkRoot+"\n"), 0o644); err != nil {
		t.Fatalf("write properties: %v", err)
	}

	cfg := Config{PropertiesFile: props, AndroidHome: envRoot}
	sdk, err := LocateSDK(cfg)
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if sdk.Root != sdkRoot {
		t.Fatalf("expected properties root %s, got %s", sdkRoot, sdk.Root)
	}
	if sdk.Source != SDKSourceProperties {
		t.Fatalf("expected properties source, got %s", sdk.Source)
	}
}

func TestLocateSDKEnvPrecedence(t *testing.T) {
	homeRoot := t.TempDir()
	sdkRootVar := t.TempDir()

	cfg := Config{
		PropertiesFile: filepath.Join(t.TempDir(), "local.properties"),
		AndroidHome:    homeRoot,
		AndroidSDKRoot: sdkRootVar,
	}
	sdk, err := LocateSDK(cfg)
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if sdk.Root != homeRoot || sdk.Source != SDKSourceAndroidHome {
		t.Fatalf("expected ANDROID_HOME to win, got %s from %s", sdk.Root, sdk.Source)
	}

	cfg.AndroidHome = ""
	sdk, err = LocateSDK(cfg)
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if sdk.Root != sdkRootVar || sdk.Source != SDKSourceSDKRoot {
		t.Fatalf("expected ANDROID_SDK_ROOT fallback, got %s from %s", sdk.Root, sdk.Source)
	}
}

func TestLocateSDKNothingConfigured(t *testing.T) {
	cfg := Config{PropertiesFile: filepath.Join(t.TempDir(), "local.properties")}
	_, err := LocateSDK(cfg)
	if err == nil {
		t.Fatal("expected error when nothing is configured")
	}
	if !IsNotFound(err) {
		t.Fatalf("expected not-found class, got %v", err)
	}
}

func TestLocateSDKRejectsMissingDirectory(t *testing.T) {
	props := filepath.Join(t.TempDir(), "local.properties")
	if err := os.WriteFile(props, []byte("sdk.dir=/nonexistent/android-sdk\n"), 0o644); err != nil {
		t.Fatalf("write properties: %v", err)
	}

	cfg := Config{PropertiesFile: props}
	_, err := LocateSDK(cfg)
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
	if !IsNotFound(err) {
		t.Fatalf("expected not-found class, got %v", err)
	}
}

func TestSDKSourceString(t *testing.T) {
	if SDKSourceProperties.String() != "sdk.dir" {
		t.Fatalf("unexpected %q", SDKSourceProperties.String())
	}
	if SDKSourceAndroidHome.String() != "ANDROID_HOME" {
		t.Fatalf("unexpected %q", SDKSourceAndroidHome.String())
	}
	if SDKSourceSDKRoot.String() != "ANDROID_SDK_ROOT" {
		t.Fatalf("unexpected %q", SDKSourceSDKRoot.String())
	}
	if SDKSourceNone.String() != "none" {
		t.Fatalf("unexpected %q", SDKSourceNone.String())
	}
}
