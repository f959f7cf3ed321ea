// Copyright (C) 2026 ludachrisnyc
// License: AGPL-3.0-only

package android

import (
	"go.opentelemetry.io/otel/attribute"
)

// Defaults applied to zero-valued bootstrap options.
const (
	DefaultDeviceName = "darts-avd"
	DefaultAPILevel   = 33
	DefaultVariant    = "google_apis;x86_64"
)

// Options steers one bootstrap run.
type Options struct {
	DeviceName string
	APILevel   int
	Variant    string
	Profile    string
	Start      bool // launch the emulator after provisioning
	FixJava    bool // resolve a JDK before driving the tools
}

func (o *Options) applyDefaults() {
	if o.DeviceName == "" {
		o.DeviceName = DefaultDeviceName
	}
	if o.APILevel == 0 {
		o.APILevel = DefaultAPILevel
	}
	if o.Variant == "" {
		o.Variant = DefaultVariant
	}
	if o.Profile == "" {
		o.Profile = DefaultDeviceProfile
	}
}

// Bootstrap runs the full provisioning sequence: locate the SDK, optionally
// repair the Java runtime, install the SDK packages, create the virtual
// device and, unless disabled, start the emulator and wait for adb to see
// it. A timed-out wait is not an error; the emulator may still be booting.
func Bootstrap(cfg Config, opts Options) (Readiness, error) {
	opts.applyDefaults()
	_, span := startSpan(cfg, "android.Bootstrap",
		attribute.String("device", opts.DeviceName),
		attribute.Int("api_level", opts.APILevel),
	)
	defer span.End()

	sdk, err := LocateSDK(cfg)
	if err != nil {
		recordSpanError(span, err)
		return ReadinessPending, err
	}

	if opts.FixJava {
		home, err := EnsureJavaRuntime(cfg)
		if err != nil {
			logWarn(cfg, "java runtime not resolved", "error", err)
		} else {
			cfg.JavaHome = home
		}
	}

	if err := InstallPackages(cfg, sdk, opts.APILevel, opts.Variant); err != nil {
		recordSpanError(span, err)
		return ReadinessPending, err
	}
	if err := CreateAVD(cfg, sdk, opts.DeviceName, opts.APILevel, opts.Variant, opts.Profile); err != nil {
		recordSpanError(span, err)
		return ReadinessPending, err
	}
	if !opts.Start {
		logEvent(cfg, "bootstrap finished without launch", "device", opts.DeviceName)
		return ReadinessPending, nil
	}
	if _, err := StartEmulator(cfg, sdk, opts.DeviceName); err != nil {
		recordSpanError(span, err)
		return ReadinessPending, err
	}
	readiness := WaitForDevice(cfg, sdk)
	logEvent(cfg, "bootstrap finished",
		"device", opts.DeviceName, "readiness", readiness.String())
	return readiness, nil
}
