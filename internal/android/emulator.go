// Copyright (C) 2026 ludachrisnyc
// License: AGPL-3.0-only

package android

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

// Readiness describes how far a launched emulator got.
type Readiness int

const (
	// ReadinessPending means the emulator was started (or deliberately not
	// waited for) and its state is unknown.
	ReadinessPending Readiness = iota
	// ReadinessReady means adb reported an emulator serial.
	ReadinessReady
	// ReadinessTimedOut means the poll budget ran out. The emulator may
	// still finish booting on its own; callers treat this as a warning.
	ReadinessTimedOut
)

func (r Readiness) String() string {
	switch r {
	case ReadinessReady:
		return "ready"
	case ReadinessTimedOut:
		return "timed_out"
	default:
		return "pending"
	}
}

// StartEmulator launches the named device detached and returns as soon as
// the process is up. Ownership ends at launch; the emulator keeps running
// after this process exits, with its output collected in Process.Log.
func StartEmulator(cfg Config, sdk SDK, name string) (Process, error) {
	_, span := startSpan(cfg, "android.StartEmulator", attribute.String("name", name))
	defer span.End()

	bin := ResolveTool(sdk.Root, ToolEmulator)
	if bin == "" {
		err := fmt.Errorf("%w: %w", ErrLaunch, notFoundf("emulator not found under %s", sdk.Root))
		recordSpanError(span, err)
		return Process{}, err
	}
	logPath := filepath.Join(os.TempDir(), fmt.Sprintf("emulator-%s.log", name))
	args := []string{"-avd", name, "-netdelay", "none", "-netspeed", "full"}
	proc, err := cfg.runner().Detach(cfg.context(), Command{Name: bin, Args: args, Log: logPath})
	if err != nil {
		recordSpanError(span, err)
		return Process{}, fmt.Errorf("%w: %v", ErrLaunch, err)
	}
	span.SetAttributes(
		attribute.Int("pid", proc.PID),
		attribute.String("log_path", proc.Log),
	)
	logEvent(cfg, "emulator started",
		"name", name, "pid", proc.PID, "log_path", proc.Log)
	return proc, nil
}

// ProgressFunc receives wait updates: the stage name and how many poll
// attempts have run so far.
type ProgressFunc func(stage string, attempt int)

// WaitForDevice polls the adb device listing until an emulator entry shows
// up or the attempt budget runs out. A missing adb binary downgrades the
// wait to a warning; the launch itself already succeeded.
func WaitForDevice(cfg Config, sdk SDK) Readiness {
	return WaitForDeviceWithProgress(cfg, sdk, nil)
}

// WaitForDeviceWithProgress is WaitForDevice with a callback invoked once
// per poll attempt, for interactive progress output.
func WaitForDeviceWithProgress(cfg Config, sdk SDK, progress ProgressFunc) Readiness {
	_, span := startSpan(cfg, "android.WaitForDevice")
	defer span.End()

	adb := ResolveTool(sdk.Root, ToolADB)
	if adb == "" {
		logWarn(cfg, "adb not found, skipping emulator readiness wait", "sdk_root", sdk.Root)
		span.SetAttributes(attribute.String("readiness", ReadinessPending.String()))
		return ReadinessPending
	}

	interval, attempts := cfg.pollSettings()
	for attempt := 1; attempt <= attempts; attempt++ {
		if progress != nil {
			progress("waiting_adb", attempt)
		}
		res, err := cfg.runner().Run(cfg.context(), Command{Name: adb, Args: []string{"devices"}})
		if err == nil && res.ExitCode == 0 && hasEmulatorEntry(res.Stdout) {
			if progress != nil {
				progress("device_visible", attempt)
			}
			span.SetAttributes(
				attribute.String("readiness", ReadinessReady.String()),
				attribute.Int("attempts", attempt),
			)
			logEvent(cfg, "emulator visible to adb", "attempts", attempt)
			return ReadinessReady
		}
		if attempt < attempts {
			time.Sleep(interval)
		}
	}
	if progress != nil {
		progress("timed_out", attempts)
	}
	span.SetAttributes(
		attribute.String("readiness", ReadinessTimedOut.String()),
		attribute.Int("attempts", attempts),
	)
	logWarn(cfg, "emulator not visible to adb before timeout",
		"attempts", attempts, "interval", interval.String())
	return ReadinessTimedOut
}

// hasEmulatorEntry reports whether an adb device listing contains a serial
// with the emulator prefix, whatever its connection state.
func hasEmulatorEntry(out string) bool {
	for _, line := range strings.Split(out, "\n") {
		f := strings.Fields(line)
		if len(f) > 0 && strings.HasPrefix(f[0], "emulator-") {
			return true
		}
	}
	return false
}
