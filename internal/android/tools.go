// Copyright (C) 2026 ludachrisnyc
// License: AGPL-3.0-only

package android

import (
	"os"
	"path/filepath"
	"runtime"
)

// Logical tool names resolved against an SDK root.
const (
	ToolSdkManager = "sdkmanager"
	ToolAvdManager = "avdmanager"
	ToolEmulator   = "emulator"
	ToolADB        = "adb"
)

// toolCandidateDirs lists the directories probed for a tool, most specific
// first. Order is fixed: cmdline-tools/latest wins over the legacy tools
// layout, which wins over the component directories.
func toolCandidateDirs(root string) []string {
	return []string{
		filepath.Join(root, "cmdline-tools", "latest", "bin"),
		filepath.Join(root, "cmdline-tools", "bin"),
		filepath.Join(root, "tools", "bin"),
		filepath.Join(root, "tools"),
		filepath.Join(root, "platform-tools"),
		filepath.Join(root, "emulator"),
		root,
	}
}

// executableNames expands a logical tool name into the filenames tried per
// directory. Windows prefers the script wrapper, then the binary, then the
// bare name; elsewhere only the bare name exists.
func executableNames(name string) []string {
	if runtime.GOOS == "windows" {
		return []string{name + ".bat", name + ".exe", name}
	}
	return []string{name}
}

// ResolveTool returns the absolute path of the first existing candidate for
// a tool under root, or "" when no candidate exists. Resolution is pure
// filesystem probing; it never consults PATH.
func ResolveTool(root, name string) string {
	for _, dir := range toolCandidateDirs(root) {
		for _, file := range executableNames(name) {
			p := filepath.Join(dir, file)
			if info, err := os.Stat(p); err == nil && !info.IsDir() {
				return p
			}
		}
	}
	return ""
}

// ToolStatus reports where one SDK tool resolved, for diagnostics output.
type ToolStatus struct {
	Name  string `json:"name"`
	Path  string `json:"path,omitempty"`
	Found bool   `json:"found"`
}

// ToolStatuses resolves the four tools the bootstrap flow drives.
func ToolStatuses(cfg Config, sdk SDK) []ToolStatus {
	_, span := startSpan(cfg, "android.ToolStatuses")
	defer span.End()
	names := []string{ToolSdkManager, ToolAvdManager, ToolEmulator, ToolADB}
	out := make([]ToolStatus, 0, len(names))
	for _, name := range names {
		p := ResolveTool(sdk.Root, name)
		out = append(out, ToolStatus{Name: name, Path: p, Found: p != ""})
	}
	return out
}
