// Copyright (C) 2026 ludachrisnyc
// License: AGPL-3.0-only

/*
Package bootstrap provides a Go library for provisioning Android SDK
tooling and virtual devices on build and CI machines.

# Overview

This library turns a bare machine into one that can run Android emulator
tests: it locates (or installs) the SDK command-line tools, installs the
platform and system image packages, creates a virtual device and boots it
headless, waiting until adb reports the device.

Every step is idempotent. Running the sequence against an already
provisioned machine performs no work beyond the checks, so the same call
is safe in a CI job that may or may not hit a warm cache.

# Quick Start

	import "github.com/ludachrisnyc/Connect-the-Darts/pkg/bootstrap"

	func main() {
		mgr := bootstrap.New()

		readiness, err := mgr.Up(bootstrap.UpOptions{
			DeviceName: "darts-avd",
			APILevel:   33,
			Variant:    "google_apis;x86_64",
			Start:      true,
		})
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("device readiness: %s", readiness)
	}

# SDK Discovery

The SDK root is resolved from three places, first match wins:

 1. sdk.dir in the project's local.properties file
 2. ANDROID_HOME
 3. ANDROID_SDK_ROOT

The resolved path must exist as a directory; a dangling setting is an
error, not a fallthrough. Use IsNotFound to distinguish a missing SDK
from a failed tool invocation.

# Tool Installation

When sdkmanager is missing under the SDK root, the official command-line
tools archive for the host OS is downloaded from the Google repository
and unpacked into cmdline-tools/latest. A local archive can be supplied
instead via Environment.ToolsArchive, which also skips the download in
air-gapped environments.

# Emulator Readiness

Starting the emulator is detached: the process keeps running after this
one exits, logging to a file. The wait polls adb's device listing; a
device that never shows up yields ReadinessTimedOut rather than an
error, since long first boots are routine on cold CI workers.

# Environment Configuration

By default the manager auto-detects paths from environment variables:

  - ANDROID_HOME / ANDROID_SDK_ROOT
  - ANDROID_AVD_HOME
  - JAVA_HOME
  - DARTSCTL_PROPERTIES

Use NewWithEnvironment() to override with custom paths.

# Thread Safety

Manager instances are not thread-safe. Create separate instances for
concurrent use, or synchronize access with a mutex.

# License

AGPL-3.0-only

Copyright (C) 2026 ludachrisnyc
*/
package bootstrap
