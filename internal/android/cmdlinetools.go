// Copyright (C) 2026 ludachrisnyc
// License: AGPL-3.0-only

package android

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	units "github.com/docker/go-units"
	"go.opentelemetry.io/otel/attribute"
)

// cmdlineToolsBuild is the pinned command-line tools release served from the
// Google repository; the "latest" alias below tracks it.
const cmdlineToolsBuild = "11076708"

func cmdlineToolsURL() string {
	osName := "linux"
	switch runtime.GOOS {
	case "darwin":
		osName = "mac"
	case "windows":
		osName = "win"
	}
	return fmt.Sprintf("https://dl.google.com/android/repository/commandlinetools-%s-%s_latest.zip", osName, cmdlineToolsBuild)
}

// EnsureSdkManager returns the path of the sdkmanager tool, installing the
// command-line tools under the SDK root when it is absent. A second call
// finds the tool in place and does nothing.
func EnsureSdkManager(cfg Config, sdk SDK) (string, error) {
	_, span := startSpan(cfg, "android.EnsureSdkManager", attribute.String("sdk_root", sdk.Root))
	defer span.End()
	if p := ResolveTool(sdk.Root, ToolSdkManager); p != "" {
		return p, nil
	}
	logEvent(cfg, "sdkmanager missing, installing command-line tools", "sdk_root", sdk.Root)
	if err := installCmdlineTools(cfg, sdk.Root); err != nil {
		recordSpanError(span, err)
		return "", err
	}
	p := ResolveTool(sdk.Root, ToolSdkManager)
	if p == "" {
		err := notFoundf("sdkmanager still missing after command-line tools install under %s", sdk.Root)
		recordSpanError(span, err)
		return "", err
	}
	logEvent(cfg, "sdkmanager installed", "path", p)
	return p, nil
}

// installCmdlineTools places the command-line tools at
// <root>/cmdline-tools/latest, the layout sdkmanager expects for the
// "latest" channel. The archive ships a top-level cmdline-tools directory;
// some repackaged archives rename it, so a lone top-level directory is
// accepted as a fallback.
func installCmdlineTools(cfg Config, root string) error {
	_, span := startSpan(cfg, "android.InstallCmdlineTools", attribute.String("sdk_root", root))
	defer span.End()

	archive := cfg.ToolsArchive
	downloaded := false
	if archive == "" {
		downloadURL := cfg.ToolsURL
		if downloadURL == "" {
			downloadURL = cmdlineToolsURL()
		}
		dest, err := archiveDownloadPath(cfg.downloadDir(), downloadURL)
		if err != nil {
			recordSpanError(span, err)
			return fmt.Errorf("%w: %v", ErrDownload, err)
		}
		logEvent(cfg, "downloading command-line tools", "url", downloadURL)
		size, err := fetchArchive(cfg, downloadURL, dest)
		if err != nil {
			recordSpanError(span, err)
			return fmt.Errorf("%w: %v", ErrDownload, err)
		}
		logEvent(cfg, "command-line tools downloaded",
			"archive", dest, "size", units.HumanSize(float64(size)))
		archive = dest
		downloaded = true
	} else if _, err := os.Stat(archive); err != nil {
		err = notFoundf("command-line tools archive %s", archive)
		recordSpanError(span, err)
		return err
	}

	// Staging lives under the SDK root so the final rename stays on one
	// filesystem.
	staging, err := os.MkdirTemp(root, ".cmdline-tools-")
	if err != nil {
		recordSpanError(span, err)
		return fmt.Errorf("%w: create staging dir: %v", ErrExtract, err)
	}
	defer os.RemoveAll(staging)

	if err := extractArchive(archive, staging); err != nil {
		recordSpanError(span, err)
		return fmt.Errorf("%w: %v", ErrExtract, err)
	}

	src := filepath.Join(staging, "cmdline-tools")
	if _, err := os.Stat(src); err != nil {
		fallback, ok := firstSubdir(staging)
		if !ok {
			err := fmt.Errorf("%w: archive %s has no top-level directory", ErrExtract, filepath.Base(archive))
			recordSpanError(span, err)
			return err
		}
		src = fallback
	}

	dest := filepath.Join(root, "cmdline-tools", "latest")
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		recordSpanError(span, err)
		return fmt.Errorf("%w: prepare %s: %v", ErrExtract, filepath.Dir(dest), err)
	}
	if err := os.RemoveAll(dest); err != nil {
		recordSpanError(span, err)
		return fmt.Errorf("%w: clear %s: %v", ErrExtract, dest, err)
	}
	if err := os.Rename(src, dest); err != nil {
		recordSpanError(span, err)
		return fmt.Errorf("%w: relocate into %s: %v", ErrExtract, dest, err)
	}
	if downloaded {
		_ = os.Remove(archive)
	}
	logEvent(cfg, "command-line tools installed", "dest", dest)
	return nil
}

func archiveDownloadPath(downloadsDir, downloadURL string) (string, error) {
	parsed, err := url.Parse(downloadURL)
	if err != nil {
		return "", fmt.Errorf("parse download url: %w", err)
	}
	base := path.Base(parsed.Path)
	if base == "." || base == "" || base == "/" {
		return "", fmt.Errorf("infer archive name from url: %s", downloadURL)
	}
	return filepath.Join(downloadsDir, base), nil
}

func fetchArchive(cfg Config, downloadURL, dest string) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return 0, fmt.Errorf("prepare download destination: %w", err)
	}

	req, err := http.NewRequestWithContext(cfg.context(), http.MethodGet, downloadURL, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "dartsctl/1.0")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("download %s: %w", downloadURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("download %s: unexpected status %s", downloadURL, resp.Status)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(dest), "download-*.tmp")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	written, err := io.Copy(tmpFile, resp.Body)
	if err != nil {
		tmpFile.Close()
		return 0, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return 0, fmt.Errorf("close temp file: %w", err)
	}

	if cfg.ToolsChecksum != "" {
		match, err := verifyChecksum(tmpPath, cfg.ToolsChecksum)
		if err != nil {
			return 0, err
		}
		if !match {
			return 0, fmt.Errorf("checksum mismatch for %s", downloadURL)
		}
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		return 0, fmt.Errorf("finalize download: %w", err)
	}
	return written, nil
}

func verifyChecksum(path, expected string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("open for checksum: %w", err)
	}
	defer file.Close()

	h := sha256.New()
	if _, err := io.Copy(h, file); err != nil {
		return false, fmt.Errorf("hash file: %w", err)
	}
	return strings.EqualFold(hex.EncodeToString(h.Sum(nil)), expected), nil
}

// firstSubdir returns the first directory entry under dir, in name order.
func firstSubdir(dir string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		if e.IsDir() {
			return filepath.Join(dir, e.Name()), true
		}
	}
	return "", false
}
